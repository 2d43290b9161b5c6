package queuesync

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/maitre/internal/api"
	"github.com/five82/maitre/internal/queue"
)

// Estimate is a wait prediction for a party that has not been added yet.
type Estimate struct {
	Minutes        int
	Local          int  // heuristic from the current snapshot
	Remote         bool // Minutes came from the prediction service
	AIPowered      bool
	Confidence     int
	Factors        []string
	Recommendation string
}

// PredictWait returns the server's prediction for in, falling back to the
// local heuristic when the prediction service is unavailable.
func (c *Controller) PredictWait(ctx context.Context, in queue.AddInput) (Estimate, error) {
	in = in.Normalize()
	if !in.Type.Valid() {
		err := &queue.ValidationError{Field: "type", Message: "choose Table or Takeaway"}
		return Estimate{}, err
	}
	local := queue.EstimateWait(in.Type, c.store.WaitingCount(in.Type))
	est := Estimate{Minutes: local, Local: local}

	pred, err := c.api.PredictWait(ctx, c.store.Entries(), api.NewCreateRequest(in))
	if err != nil {
		c.logger.Warn("wait prediction unavailable", "error", err)
		return est, nil
	}
	est.Minutes = pred.EstimatedWait
	est.Remote = true
	est.AIPowered = pred.AIPowered
	est.Confidence = pred.Confidence
	est.Factors = pred.Factors
	est.Recommendation = pred.Recommendation
	return est, nil
}

// Insights asks the server to analyse the current snapshot.
func (c *Controller) Insights(ctx context.Context) (api.Insights, error) {
	insights, err := c.api.QueueInsights(ctx, c.store.Entries())
	if err != nil {
		c.failed("load insights", err)
		return api.Insights{}, fmt.Errorf("queue insights: %w", err)
	}
	return insights, nil
}

// QR fetches the status-page QR code for a known entry.
func (c *Controller) QR(ctx context.Context, id int64) (api.QRCode, error) {
	if _, err := c.lookup(id); err != nil {
		c.rejected(err)
		return api.QRCode{}, err
	}
	qr, err := c.api.CustomerQR(ctx, id)
	if err != nil {
		c.failed("load QR code", err, "customer_id", id)
		return api.QRCode{}, fmt.Errorf("customer qr: %w", err)
	}
	return qr, nil
}

// NotifyCustomer texts the party that their table is ready.
func (c *Controller) NotifyCustomer(ctx context.Context, id int64) error {
	entry, err := c.lookup(id)
	if err != nil {
		c.rejected(err)
		return err
	}
	if strings.TrimSpace(entry.Phone) == "" {
		err := &queue.ValidationError{Field: "phone", Message: entry.QueueNumber + " has no phone number"}
		c.rejected(err)
		return err
	}
	if err := c.api.SendSMS(ctx, entry.Phone, c.SMSMessage(entry)); err != nil {
		c.failed("send SMS", err, "customer_id", id)
		return fmt.Errorf("notify customer: %w", err)
	}
	c.notify.Notify(Notice{Level: LevelSuccess, Message: "SMS sent to " + entry.CustomerName})
	c.logger.Info("customer notified", "customer_id", id, "queue_number", entry.QueueNumber)
	return nil
}

// SMSMessage renders the configured template for entry.
func (c *Controller) SMSMessage(entry queue.Entry) string {
	return strings.NewReplacer(
		"{name}", entry.CustomerName,
		"{number}", entry.QueueNumber,
	).Replace(c.opts.SMSTemplate)
}

// Analytics fetches the dashboard figures.
func (c *Controller) Analytics(ctx context.Context) (api.Analytics, error) {
	analytics, err := c.api.Analytics(ctx)
	if err != nil {
		c.logger.Error("analytics failed", "error", err)
		return api.Analytics{}, fmt.Errorf("analytics: %w", err)
	}
	return analytics, nil
}

// ServerStats fetches the server's own queue counters. They cover the whole
// day, so they can differ from the local snapshot's Stats.
func (c *Controller) ServerStats(ctx context.Context) (api.QueueStats, error) {
	stats, err := c.api.QueueStats(ctx)
	if err != nil {
		c.logger.Warn("queue stats failed", "error", err)
		return api.QueueStats{}, fmt.Errorf("queue stats: %w", err)
	}
	return stats, nil
}

// CustomerStatus looks a party up by queue number.
func (c *Controller) CustomerStatus(ctx context.Context, queueNumber string) (api.CustomerStatus, error) {
	status, err := c.api.CustomerStatus(ctx, queueNumber)
	if err != nil {
		return api.CustomerStatus{}, fmt.Errorf("customer status %s: %w", queueNumber, err)
	}
	return status, nil
}
