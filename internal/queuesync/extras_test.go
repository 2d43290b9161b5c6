package queuesync

import (
	"context"
	"errors"
	"testing"

	"github.com/five82/maitre/internal/queue"
)

func TestPredictWait(t *testing.T) {
	h := newHarness(t, Options{},
		waiting(1, "Bo", queue.TypeTakeaway),
		waiting(2, "Cy", queue.TypeTakeaway),
	)
	ctx := context.Background()
	_ = h.ctrl.Reload(ctx)
	in := queue.AddInput{CustomerName: "Ann", Phone: "555", PartySize: 1, Type: queue.TypeTakeaway}

	est, err := h.ctrl.PredictWait(ctx, in)
	if err != nil {
		t.Fatalf("PredictWait returned error: %v", err)
	}
	if !est.Remote || est.Minutes != 27 || est.Local != 25 || !est.AIPowered {
		t.Fatalf("remote estimate = %+v, want 27 remote, 25 local", est)
	}

	h.backend.mu.Lock()
	h.backend.failPred = true
	h.backend.mu.Unlock()
	est, err = h.ctrl.PredictWait(ctx, in)
	if err != nil {
		t.Fatalf("PredictWait fallback returned error: %v", err)
	}
	if est.Remote || est.Minutes != 25 {
		t.Fatalf("fallback estimate = %+v, want local 15 + 5*2", est)
	}

	var verr *queue.ValidationError
	if _, err := h.ctrl.PredictWait(ctx, queue.AddInput{}); !errors.As(err, &verr) {
		t.Fatalf("PredictWait without type = %v, want ValidationError", err)
	}
}

func TestNotifyCustomer_RequiresKnownEntryWithPhone(t *testing.T) {
	noPhone := waiting(1, "Ann", queue.TypeTable)
	noPhone.Phone = ""
	h := newHarness(t, Options{}, noPhone)
	ctx := context.Background()
	_ = h.ctrl.Reload(ctx)

	var verr *queue.ValidationError
	if err := h.ctrl.NotifyCustomer(ctx, 1); !errors.As(err, &verr) || verr.Field != "phone" {
		t.Fatalf("NotifyCustomer without phone = %v", err)
	}
	if err := h.ctrl.NotifyCustomer(ctx, 7); !errors.As(err, &verr) || verr.Field != "id" {
		t.Fatalf("NotifyCustomer unknown id = %v", err)
	}
	if h.backend.count("POST /send_sms") != 0 {
		t.Fatalf("rejected notify reached the gateway")
	}
}

func TestSMSMessage_DefaultTemplate(t *testing.T) {
	ctrl := New(&scriptedAPI{}, nil, Options{})
	msg := ctrl.SMSMessage(queue.Entry{CustomerName: "Ann", QueueNumber: "T004"})
	if msg != "Hi Ann, your table is ready. Please come to the host stand with queue number T004." {
		t.Fatalf("SMSMessage = %q", msg)
	}
}

func TestInsightsAnalyticsStatsAndStatus(t *testing.T) {
	h := newHarness(t, Options{}, waiting(1, "Ann", queue.TypeTable))
	ctx := context.Background()

	insights, err := h.ctrl.Insights(ctx)
	if err != nil || insights.EfficiencyScore != 90 {
		t.Fatalf("Insights = %+v, %v", insights, err)
	}
	analytics, err := h.ctrl.Analytics(ctx)
	if err != nil || analytics.TodayCustomers != 4 || len(analytics.HourlyData) != 3 {
		t.Fatalf("Analytics = %+v, %v", analytics, err)
	}
	stats, err := h.ctrl.ServerStats(ctx)
	if err != nil || stats.TodayTotal != 6 || stats.Waiting != 1 {
		t.Fatalf("ServerStats = %+v, %v", stats, err)
	}
	status, err := h.ctrl.CustomerStatus(ctx, "T001")
	if err != nil || status.Position != 2 || status.QueueNumber != "T001" {
		t.Fatalf("CustomerStatus = %+v, %v", status, err)
	}
}
