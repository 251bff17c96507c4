package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/apptbook/apptbook/pkg/civil"
)

// SlotViewer drives an interactive slot picker. Each Load supersedes the
// previous one, so when the user flips quickly between days the response
// for an abandoned selection is dropped instead of overwriting the current
// one.
type SlotViewer struct {
	c     *Client
	coord *Coordinator[[]Slot]
}

// SlotViewer returns a viewer bound to this client. One viewer serializes
// one picker; independent pickers need independent viewers.
func (c *Client) SlotViewer() *SlotViewer {
	return &SlotViewer{c: c, coord: NewCoordinator[[]Slot]()}
}

// Load fetches the slots for the selection and, if this Load is still the
// newest when the response arrives, passes them to apply. A superseded Load
// returns (nil, false, nil).
func (v *SlotViewer) Load(ctx context.Context, doctorID, locationID uuid.UUID, date civil.Date, granularity int, allowPast bool, apply func([]Slot)) ([]Slot, bool, error) {
	return v.coord.Fetch(ctx, func(ctx context.Context) ([]Slot, error) {
		return v.c.Slots(ctx, doctorID, locationID, date, granularity, allowPast)
	}, apply)
}
