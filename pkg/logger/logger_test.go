package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func captureStdOut(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	_ = w.Close()
	b, _ := io.ReadAll(r)
	return string(b)
}

func TestInit_DevStd_TextOutput(t *testing.T) {
	out := captureStdOut(t, func() {
		Init(Config{
			Service: "chat-service",
			Version: "v0.0.1",
			Env:     EnvDev,
			Backend: BackendStd,
			Level:   slog.LevelDebug,
		})
		slog.Info("hello world")
	})

	if strings.Contains(out, "{") {
		t.Fatalf("expected text output in dev/std, got JSON: %s", out)
	}
	if !strings.Contains(out, "hello world") {
		t.Fatalf("message missing: %s", out)
	}
	if !strings.Contains(out, "service=chat-service") {
		t.Fatalf("service attr missing: %s", out)
	}
	if !strings.Contains(out, "env=dev") {
		t.Fatalf("env attr missing: %s", out)
	}
}

func TestInit_DefaultBackendPerEnv(t *testing.T) {
	out := captureStdOut(t, func() {
		Init(Config{Service: "chat-service", Env: EnvProd})
		slog.Info("structured")
	})

	if !strings.Contains(out, "{") {
		t.Fatalf("expected JSON output in prod, got: %s", out)
	}
	if !strings.Contains(out, "structured") {
		t.Fatalf("message missing: %s", out)
	}
}

func TestL_InitializesOnDemand(t *testing.T) {
	def = nil
	if L() == nil {
		t.Fatalf("L() must initialize a default logger")
	}
}

func TestAttrsFromCtx_PropagatesTraceIDs(t *testing.T) {
	tid, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	if err != nil {
		t.Fatalf("trace id: %v", err)
	}
	sid, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	if err != nil {
		t.Fatalf("span id: %v", err)
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    tid,
		SpanID:     sid,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	attrs := AttrsFromCtx(ctx)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attrs, got %d", len(attrs))
	}
	if attrs[0].Key != "trace_id" || attrs[0].Value.String() != tid.String() {
		t.Fatalf("trace_id attr mismatch: %v", attrs[0])
	}
	if attrs[1].Key != "span_id" || attrs[1].Value.String() != sid.String() {
		t.Fatalf("span_id attr mismatch: %v", attrs[1])
	}
}

func TestAttrsFromCtx_NoSpanIsEmpty(t *testing.T) {
	if attrs := AttrsFromCtx(context.Background()); attrs != nil {
		t.Fatalf("expected no attrs without a span, got %v", attrs)
	}
}
