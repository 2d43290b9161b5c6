package queuesync

import (
	"context"
	"fmt"

	"github.com/five82/maitre/internal/api"
	"github.com/five82/maitre/internal/queue"
)

// Action is an operation the UI can request on a single entry.
type Action string

const (
	ActionSeat      Action = "seat"
	ActionComplete  Action = "complete"
	ActionRemove    Action = "remove"
	ActionNotifySMS Action = "sms"
	ActionShowQR    Action = "qr"
)

// Command pairs an action with the entry it targets.
type Command struct {
	Action  Action
	EntryID int64
}

// Result carries data some actions produce for display.
type Result struct {
	QR *api.QRCode
}

type handler func(ctx context.Context, c *Controller, id int64) (Result, error)

var dispatchTable = map[Action]handler{
	ActionSeat: func(ctx context.Context, c *Controller, id int64) (Result, error) {
		return Result{}, c.UpdateStatus(ctx, id, queue.StatusSeated)
	},
	ActionComplete: func(ctx context.Context, c *Controller, id int64) (Result, error) {
		return Result{}, c.UpdateStatus(ctx, id, queue.StatusDone)
	},
	ActionRemove: func(ctx context.Context, c *Controller, id int64) (Result, error) {
		return Result{}, c.RemoveCustomer(ctx, id)
	},
	ActionNotifySMS: func(ctx context.Context, c *Controller, id int64) (Result, error) {
		return Result{}, c.NotifyCustomer(ctx, id)
	},
	ActionShowQR: func(ctx context.Context, c *Controller, id int64) (Result, error) {
		qr, err := c.QR(ctx, id)
		if err != nil {
			return Result{}, err
		}
		return Result{QR: &qr}, nil
	},
}

// Dispatch runs cmd through the action table.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	h, ok := dispatchTable[cmd.Action]
	if !ok {
		return Result{}, fmt.Errorf("unknown action %q", cmd.Action)
	}
	return h(ctx, c, cmd.EntryID)
}

// Actions lists the dispatchable actions.
func Actions() []Action {
	return []Action{ActionSeat, ActionComplete, ActionRemove, ActionNotifySMS, ActionShowQR}
}
