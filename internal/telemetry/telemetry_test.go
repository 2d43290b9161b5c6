package telemetry

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func isNoop(s Shutdown) bool {
	return reflect.ValueOf(s).Pointer() == reflect.ValueOf(noop).Pointer()
}

func TestSetup_NoEndpointIsNoop(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	shutdown := Setup(context.Background(), "maitre", "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if !isNoop(shutdown) {
		t.Fatalf("Setup without endpoint returned a real shutdown")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown returned error: %v", err)
	}
}

func TestSetup_EndpointInstallsProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	// The gRPC exporter dials lazily, so nothing needs to listen here.
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "127.0.0.1:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")

	var logs bytes.Buffer
	shutdown := Setup(context.Background(), "maitre", "test", slog.New(slog.NewTextHandler(&logs, nil)))
	if isNoop(shutdown) {
		t.Fatalf("Setup with endpoint returned the no-op shutdown; logs: %s", logs.String())
	}
	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("global provider = %T, want *trace.TracerProvider", otel.GetTracerProvider())
	}
	if !strings.Contains(logs.String(), "tracing enabled") {
		t.Fatalf("missing startup log: %s", logs.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown returned error: %v", err)
	}
}
