package seatmap

import (
	"context"

	"github.com/zjrosen/airdesk/internal/log"
	"github.com/zjrosen/airdesk/internal/pubsub"
)

// Reloader re-reads the inventory file whenever changes signals and pushes
// the result into a Controller. Subscribers receive the new occupied list.
type Reloader struct {
	path       string
	controller *Controller
	broker     *pubsub.Broker[[]string]
}

// NewReloader creates a reloader for the inventory file at path.
func NewReloader(path string, controller *Controller) *Reloader {
	return &Reloader{
		path:       path,
		controller: controller,
		broker:     pubsub.NewBroker[[]string](),
	}
}

// Broker exposes reload notifications.
func (r *Reloader) Broker() *pubsub.Broker[[]string] {
	return r.broker
}

// Reload reads the file once. A file that fails to parse leaves the
// controller's current inventory in place.
func (r *Reloader) Reload() error {
	inv, err := LoadInventoryFile(r.path)
	if err != nil {
		log.ErrorErr(log.CatSeat, "inventory reload failed", err, "path", r.path)
		return err
	}
	r.controller.SetInventory(inv)
	r.broker.Publish(pubsub.InventoryReloaded, inv.Occupied())
	return nil
}

// Run reloads on every signal until ctx ends or changes is closed.
func (r *Reloader) Run(ctx context.Context, changes <-chan struct{}) {
	defer r.broker.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			_ = r.Reload()
		}
	}
}
