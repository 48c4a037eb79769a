package conversation

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is reported for requests that were still queued when the store
// was closed, and for submissions made after Close.
var ErrClosed = errors.New("conversation store closed")

// Delivery tracks the outcome of one queued request.
type Delivery struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newDelivery() *Delivery {
	return &Delivery{done: make(chan struct{})}
}

func failedDelivery(err error) *Delivery {
	d := newDelivery()
	d.resolve(err)
	return d
}

func (d *Delivery) resolve(err error) {
	d.once.Do(func() {
		d.err = err
		close(d.done)
	})
}

// Done is closed once the request has been applied or has failed.
func (d *Delivery) Done() <-chan struct{} {
	return d.done
}

// Err returns the outcome. It is only meaningful after Done is closed.
func (d *Delivery) Err() error {
	select {
	case <-d.done:
		return d.err
	default:
		return nil
	}
}

// Wait blocks until the request completes or ctx ends. Cancelling ctx
// abandons the wait only; the request itself stays queued.
func (d *Delivery) Wait(ctx context.Context) error {
	select {
	case <-d.done:
		return d.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
