package queuesync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/five82/maitre/internal/api"
	"github.com/five82/maitre/internal/queue"
	"github.com/five82/maitre/internal/state"
)

var tracer = otel.Tracer("github.com/five82/maitre/internal/queuesync")

const defaultSMSTemplate = "Hi {name}, your table is ready. Please come to the host stand with queue number {number}."

// Options configure a Controller. The zero value is usable.
type Options struct {
	Notifier Notifier
	Logger   *slog.Logger
	Numbers  *queue.NumberGenerator

	// DiscardStale drops a reload response when a later-issued reload has
	// already been applied. When false, responses apply in arrival order.
	DiscardStale bool

	// SMSTemplate is the NotifyCustomer message. {name} and {number} are
	// replaced with the customer's name and queue number.
	SMSTemplate string
}

// Controller routes every queue mutation through the remote API and keeps
// the store in step by full reloads.
type Controller struct {
	api     api.QueueAPI
	store   *state.Store
	notify  Notifier
	logger  *slog.Logger
	numbers *queue.NumberGenerator
	opts    Options
}

// AddResult describes a successful AddCustomer call.
type AddResult struct {
	ProvisionalNumber string
	ProvisionalWait   int
	CustomerID        int64
	QueueNumber       string
	Prediction        *api.Prediction
}

// New builds a Controller over client and store.
func New(client api.QueueAPI, store *state.Store, opts Options) *Controller {
	if opts.Notifier == nil {
		opts.Notifier = discardNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Numbers == nil {
		opts.Numbers = &queue.NumberGenerator{}
	}
	if strings.TrimSpace(opts.SMSTemplate) == "" {
		opts.SMSTemplate = defaultSMSTemplate
	}
	return &Controller{
		api:     client,
		store:   store,
		notify:  opts.Notifier,
		logger:  opts.Logger,
		numbers: opts.Numbers,
		opts:    opts,
	}
}

// Store returns the store the controller writes to.
func (c *Controller) Store() *state.Store {
	return c.store
}

// Reload replaces the snapshot with the server's queue and re-runs an active
// search so its rows match. Any failure empties the snapshot; the error is
// logged and returned.
func (c *Controller) Reload(ctx context.Context) (err error) {
	ctx, span := tracer.Start(ctx, "queuesync.Reload", trace.WithAttributes(attribute.Bool("queue.discard_stale", c.opts.DiscardStale)))
	defer func() { endSpan(span, err) }()

	var ticket uint64
	if c.opts.DiscardStale {
		ticket = c.store.Ticket()
	}

	entries, err := c.api.ListQueue(ctx)
	span.SetAttributes(attribute.Int("queue.entries", len(entries)))
	if err != nil {
		c.logger.Error("queue reload failed", "error", err)
		if c.opts.DiscardStale {
			if !c.store.FailIfCurrent(ticket, err) {
				c.logger.Debug("stale reload failure ignored", "ticket", ticket)
			}
		} else {
			c.store.Fail(err)
		}
		return fmt.Errorf("reload queue: %w", err)
	}

	if c.opts.DiscardStale {
		if !c.store.ReplaceAllIfCurrent(ticket, entries) {
			c.logger.Debug("stale reload discarded", "ticket", ticket, "entries", len(entries))
			return nil
		}
	} else {
		c.store.ReplaceAll(entries)
	}
	c.logger.Debug("queue reloaded", "entries", len(entries))
	c.refreshSearch(ctx)
	return nil
}

// refreshSearch fetches fresh results for the active search term. When that
// fails the search is dropped so no stale rows stay on screen.
func (c *Controller) refreshSearch(ctx context.Context) {
	term := c.store.SearchTerm()
	if term == "" {
		return
	}
	results, err := c.api.Search(ctx, term)
	if err != nil {
		c.logger.Warn("search refresh failed", "term", term, "error", err)
		if c.store.ClearSearchIf(term) {
			c.notify.Notify(Notice{Level: LevelWarning, Message: fmt.Sprintf("Search %q cleared: %s", term, api.UserMessage(err))})
		}
		return
	}
	if c.store.RefreshSearch(term, results) {
		c.logger.Debug("search refreshed", "term", term, "results", len(results))
	}
}

// AddCustomer validates in, announces a provisional number and estimate, and
// submits the party. On success the queue is reloaded so the server's number
// replaces the provisional one.
func (c *Controller) AddCustomer(ctx context.Context, in queue.AddInput) (_ AddResult, err error) {
	ctx, span := tracer.Start(ctx, "queuesync.AddCustomer", trace.WithAttributes(attribute.String("queue.type", string(in.Type))))
	defer func() { endSpan(span, err) }()

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		c.rejected(err)
		return AddResult{}, err
	}

	result := AddResult{
		ProvisionalNumber: c.numbers.Next(in.Type),
		ProvisionalWait:   queue.EstimateWait(in.Type, c.store.WaitingCount(in.Type)),
	}
	c.notify.Notify(Notice{
		Level:   LevelInfo,
		Message: fmt.Sprintf("Adding %s as %s (about %d min)", in.CustomerName, result.ProvisionalNumber, result.ProvisionalWait),
	})

	resp, err := c.api.CreateCustomer(ctx, api.NewCreateRequest(in))
	if err != nil {
		c.failed("add customer", err, "customer", in.CustomerName)
		return result, fmt.Errorf("add customer: %w", err)
	}
	result.CustomerID = resp.CustomerID
	result.QueueNumber = resp.QueueNumber
	result.Prediction = resp.Prediction

	_ = c.Reload(ctx)

	notice := Notice{Level: LevelSuccess, Message: fmt.Sprintf("%s added as %s", in.CustomerName, resp.QueueNumber)}
	if p := resp.Prediction; p != nil {
		notice.Message += fmt.Sprintf(", about %d min", p.EstimatedWait)
		notice.AI = p.AIPowered
	}
	c.notify.Notify(notice)
	c.logger.Info("customer added",
		"customer_id", resp.CustomerID,
		"queue_number", resp.QueueNumber,
		"provisional_number", result.ProvisionalNumber,
	)
	return result, nil
}

// UpdateStatus moves a known entry one step forward. Anything other than
// Waiting→Seated or Seated→Done is refused before a request is made.
func (c *Controller) UpdateStatus(ctx context.Context, id int64, to queue.Status) (err error) {
	ctx, span := tracer.Start(ctx, "queuesync.UpdateStatus", trace.WithAttributes(
		attribute.Int64("queue.customer_id", id),
		attribute.String("queue.status", string(to)),
	))
	defer func() { endSpan(span, err) }()

	entry, err := c.lookup(id)
	if err != nil {
		c.rejected(err)
		return err
	}
	if !queue.ValidTransition(entry.Status, to) {
		err := &queue.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("%s cannot move from %s to %s", entry.QueueNumber, entry.Status, to),
		}
		c.rejected(err)
		return err
	}

	if err := c.api.UpdateStatus(ctx, id, to); err != nil {
		c.failed("update status", err, "customer_id", id, "status", string(to))
		return fmt.Errorf("update status: %w", err)
	}
	_ = c.Reload(ctx)
	c.notify.Notify(Notice{Level: LevelSuccess, Message: fmt.Sprintf("%s marked %s", entry.QueueNumber, to)})
	c.logger.Info("status updated", "customer_id", id, "from", string(entry.Status), "to", string(to))
	return nil
}

// RemoveCustomer deletes an entry in any state.
func (c *Controller) RemoveCustomer(ctx context.Context, id int64) (err error) {
	ctx, span := tracer.Start(ctx, "queuesync.RemoveCustomer", trace.WithAttributes(attribute.Int64("queue.customer_id", id)))
	defer func() { endSpan(span, err) }()

	entry, err := c.lookup(id)
	if err != nil {
		c.rejected(err)
		return err
	}
	if err := c.api.DeleteCustomer(ctx, id); err != nil {
		c.failed("remove customer", err, "customer_id", id)
		return fmt.Errorf("remove customer: %w", err)
	}
	_ = c.Reload(ctx)
	c.notify.Notify(Notice{Level: LevelSuccess, Message: "Removed " + entry.CustomerName})
	c.logger.Info("customer removed", "customer_id", id, "queue_number", entry.QueueNumber)
	return nil
}

// Search runs a server-side search. A blank term clears the search so the
// view falls back to the filtered snapshot. A failed search shows no results.
func (c *Controller) Search(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)
	if term == "" {
		c.store.ClearSearch()
		return nil
	}
	results, err := c.api.Search(ctx, term)
	if err != nil {
		c.store.SetSearch(term, nil)
		c.failed("search", err, "term", term)
		return fmt.Errorf("search: %w", err)
	}
	c.store.SetSearch(term, results)
	c.logger.Debug("search applied", "term", term, "results", len(results))
	return nil
}

func (c *Controller) lookup(id int64) (queue.Entry, error) {
	entry, ok := c.store.Lookup(id)
	if !ok {
		return queue.Entry{}, &queue.ValidationError{Field: "id", Message: fmt.Sprintf("unknown customer %d", id)}
	}
	return entry, nil
}

func (c *Controller) rejected(err error) {
	c.logger.Debug("request rejected locally", "error", err)
	c.notify.Notify(Notice{Level: LevelWarning, Message: err.Error()})
}

func (c *Controller) failed(op string, err error, attrs ...any) {
	c.logger.Error(op+" failed", append(attrs, "error", err)...)
	msg := api.UserMessage(err)
	var remote *api.RemoteError
	if !errors.As(err, &remote) {
		msg = "request failed: " + msg
	}
	c.notify.Notify(Notice{Level: LevelError, Message: fmt.Sprintf("Could not %s: %s", op, msg)})
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
