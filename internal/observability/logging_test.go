package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithOperationID(t *testing.T) {
	ctx := WithOperationID(context.Background(), "op-123")

	lc := GetContext(ctx)
	if lc.OperationID != "op-123" {
		t.Errorf("expected op-123, got %s", lc.OperationID)
	}
}

func TestContextChaining(t *testing.T) {
	ctx := context.Background()
	ctx = WithOperationID(ctx, "op-1")
	ctx = WithStage(ctx, "detect")
	ctx = WithPlatform(ctx, "python")

	lc := GetContext(ctx)
	if lc.OperationID != "op-1" {
		t.Error("OperationID was lost in chaining")
	}
	if lc.Stage != "detect" {
		t.Error("Stage was lost in chaining")
	}
	if lc.Platform != "python" {
		t.Error("Platform was lost in chaining")
	}
}

func TestOverwriteContextValue(t *testing.T) {
	ctx := WithStage(context.Background(), "detect")
	ctx = WithStage(ctx, "compose")

	if lc := GetContext(ctx); lc.Stage != "compose" {
		t.Errorf("expected compose, got %s", lc.Stage)
	}
}

func TestEmptyContext(t *testing.T) {
	lc := GetContext(context.Background())
	if lc.OperationID != "" || lc.Stage != "" || lc.Platform != "" {
		t.Error("expected empty context")
	}
}

func TestInfoContext(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := WithOperationID(context.Background(), "op-9")
	ctx = WithStage(ctx, "install")

	InfoContext(ctx, "test message", slog.String("extra", "value"))

	output := buf.String()
	for _, want := range []string{"op-9", "install", "test message", "extra"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in log output: %s", want, output)
		}
	}
}

func TestDebugContextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	DebugContext(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record should be filtered, got %s", buf.String())
	}

	WarnContext(context.Background(), "shown")
	ErrorContext(context.Background(), "also shown")
	if !strings.Contains(buf.String(), "shown") || !strings.Contains(buf.String(), "also shown") {
		t.Errorf("expected warn and error records, got %s", buf.String())
	}
}
