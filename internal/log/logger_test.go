package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufferedLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{
		Level:     slog.LevelDebug,
		Component: component,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestLoggerComponentAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedLogger(&buf, ComponentApp)

	logger.Info("hello")
	line := buf.String()
	if !strings.Contains(line, "component="+ComponentApp) {
		t.Errorf("expected component=%s in %q", ComponentApp, line)
	}
}

func TestWithComponentEmitsSingleAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedLogger(&buf, ComponentApp).WithComponent(ComponentHTTP)

	logger.Info("hello")
	line := buf.String()
	if got := strings.Count(line, "component="); got != 1 {
		t.Errorf("expected exactly one component attribute, got %d in %q", got, line)
	}
	if !strings.Contains(line, "component="+ComponentHTTP) {
		t.Errorf("expected component=%s in %q", ComponentHTTP, line)
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferedLogger(&buf, ComponentHTTP).With(FieldRequestID, "req-1")

	ctx := NewContext(context.Background(), logger)
	FromContext(ctx).Info("handled")

	line := buf.String()
	if !strings.Contains(line, "request_id=req-1") {
		t.Errorf("expected request_id attribute in %q", line)
	}
}

func TestFromContextFallback(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil {
		t.Fatal("expected a fallback logger")
	}
	logger.Debug("no context logger installed")
}
