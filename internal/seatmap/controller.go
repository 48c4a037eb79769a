package seatmap

import (
	"fmt"
	"sync"

	"github.com/zjrosen/airdesk/internal/conversation"
	"github.com/zjrosen/airdesk/internal/domain"
	"github.com/zjrosen/airdesk/internal/log"
)

// Status is the selectable state of one seat.
type Status int

const (
	StatusAvailable Status = iota
	StatusOccupied
	StatusSelected
	// StatusUnknown is reported for seats outside the layout.
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusOccupied:
		return "occupied"
	case StatusSelected:
		return "selected"
	default:
		return "unknown"
	}
}

// OverlayState is what the presentation layer needs to draw the overlay.
type OverlayState struct {
	Visible      bool
	SelectedSeat string
}

// Submitter sends a chat message on the user's behalf.
type Submitter interface {
	Submit(content string) *conversation.Delivery
}

// PickMessage returns the message sent when seat is picked.
func PickMessage(designator string) string {
	return fmt.Sprintf("I would like seat %s", designator)
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithSelectedSeat restores a seat picked earlier in the session. The
// overlay starts latched and the directive will not reopen it.
func WithSelectedSeat(designator string) ControllerOption {
	return func(c *Controller) {
		if designator == "" {
			return
		}
		c.state.SelectedSeat = designator
		c.latched = true
	}
}

// WithInventory overrides the default occupied set.
func WithInventory(inv Inventory) ControllerOption {
	return func(c *Controller) {
		c.inventory = inv
	}
}

// Controller owns the overlay state machine:
//
//	hidden --(directive seen, not latched)--> visible --(pick)--> hidden+latched
//
// The latch is one-way for the lifetime of the controller.
type Controller struct {
	layout    Layout
	submitter Submitter

	mu        sync.RWMutex
	inventory Inventory
	state     OverlayState
	latched   bool
}

// NewController creates a hidden, unlatched controller over layout.
func NewController(layout Layout, submitter Submitter, opts ...ControllerOption) *Controller {
	c := &Controller{
		layout:    layout,
		submitter: submitter,
		inventory: DefaultInventory(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Layout returns the cabin layout.
func (c *Controller) Layout() Layout {
	return c.layout
}

// State returns a copy of the overlay state.
func (c *Controller) State() OverlayState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Latched reports whether a seat has been picked this session.
func (c *Controller) Latched() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latched
}

// SetInventory swaps the occupied set, e.g. after the inventory file changed.
func (c *Controller) SetInventory(inv Inventory) {
	c.mu.Lock()
	c.inventory = inv
	c.mu.Unlock()
	log.Info(log.CatSeat, "inventory updated", "occupied", inv.Len())
}

// Evaluate re-derives visibility from the transcript. It opens the overlay
// when any assistant message carries the seat-selector directive and no
// seat has been picked yet. It reports whether the state changed.
func (c *Controller) Evaluate(messages []domain.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.latched || c.state.Visible {
		return false
	}
	for _, m := range messages {
		if m.RequestsSeatSelector() {
			c.state.Visible = true
			log.Debug(log.CatSeat, "seat selector opened", "message", m.ID)
			return true
		}
	}
	return false
}

// Status reports the status of the seat named by designator.
func (c *Controller) Status(designator string) Status {
	seat, err := ParseDesignator(designator)
	if err != nil {
		return StatusUnknown
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statusLocked(seat)
}

func (c *Controller) statusLocked(seat Seat) Status {
	switch {
	case !c.layout.Contains(seat):
		return StatusUnknown
	case c.inventory.IsOccupied(seat):
		return StatusOccupied
	case c.state.SelectedSeat == seat.String():
		return StatusSelected
	default:
		return StatusAvailable
	}
}

// Pick selects a seat. Only available seats can be picked, and only while
// the overlay is open and unlatched. On success the overlay closes for good
// and the pick is submitted as a chat message. Rejections change nothing.
func (c *Controller) Pick(designator string) bool {
	seat, err := ParseDesignator(designator)
	if err != nil {
		log.Debug(log.CatSeat, "pick rejected", "seat", designator, "reason", err)
		return false
	}

	c.mu.Lock()
	if c.latched || !c.state.Visible {
		c.mu.Unlock()
		log.Debug(log.CatSeat, "pick rejected", "seat", designator, "reason", "overlay closed")
		return false
	}
	if status := c.statusLocked(seat); status != StatusAvailable {
		c.mu.Unlock()
		log.Debug(log.CatSeat, "pick rejected", "seat", designator, "reason", status)
		return false
	}
	d := seat.String()
	c.state.SelectedSeat = d
	c.state.Visible = false
	c.latched = true
	c.mu.Unlock()

	log.Info(log.CatSeat, "seat picked", "seat", d)
	if c.submitter != nil {
		c.submitter.Submit(PickMessage(d))
	}
	return true
}
