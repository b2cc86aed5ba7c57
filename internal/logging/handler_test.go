package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(h)

	now := time.Now()
	logger.Info("hello world", "foo", "value")

	output := buf.String()

	// Check format: Time Level Message Attributes
	// Example: 10:00PM INFO  hello world foo=value

	if !strings.Contains(output, "INFO") {
		t.Errorf("expected level INFO in output, got: %q", output)
	}
	if !strings.Contains(output, "hello world") {
		t.Errorf("expected message in output, got: %q", output)
	}
	if !strings.Contains(output, "foo=value") {
		t.Errorf("expected attribute in output, got: %q", output)
	}

	// Verify it contains the time (using Kitchen format as implemented)
	expectedTime := now.Format(time.Kitchen)
	if !strings.Contains(output, expectedTime) {
		t.Errorf("expected time %q in output, got: %q", expectedTime, output)
	}
}

func TestHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)
	logger := slog.New(h).With("common", "attr")

	logger.Info("message", "local", "val")

	output := buf.String()
	if !strings.Contains(output, "common=attr") {
		t.Errorf("expected common attribute in output, got: %q", output)
	}
	if !strings.Contains(output, "local=val") {
		t.Errorf("expected local attribute in output, got: %q", output)
	}
}

func TestHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})

	ctx := t.Context()
	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("expected Info level to be disabled when min level is Warn")
	}
	if !h.Enabled(ctx, slog.LevelWarn) {
		t.Error("expected Warn level to be enabled")
	}
	if !h.Enabled(ctx, slog.LevelError) {
		t.Error("expected Error level to be enabled")
	}
}

func TestHandler_NoTime(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)

	// Create a record without time
	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "no time", 0)
	err := h.Handle(t.Context(), r)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	output := buf.String()
	// Should not start with a time-like pattern (Kitchen format usually has ':')
	if strings.Contains(output, ":") && strings.Index(output, ":") < 10 {
		t.Errorf("expected no time in output, got: %q", output)
	}
}

func TestHandler_Redaction(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(h)

	logger.Info("validating field", "field", "Phone", "value", "12345678", "Email", "ada@example.com")

	output := buf.String()

	if strings.Contains(output, "12345678") {
		t.Error("value should be redacted")
	}
	if strings.Contains(output, "ada@example.com") {
		t.Error("Email should be redacted")
	}
	if !strings.Contains(output, "field=Phone") {
		t.Errorf("expected unmasked field name, got: %q", output)
	}
	if !strings.Contains(output, "value=****5678") {
		t.Errorf("expected masked value, got: %q", output)
	}
	if !strings.Contains(output, "Email=****.com") {
		t.Errorf("expected masked Email, got: %q", output)
	}

	buf.Reset()
	logger.Info("short", "password", "abc")
	if !strings.Contains(buf.String(), "password=********") {
		t.Errorf("expected fully masked short value, got: %q", buf.String())
	}
}

func TestHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil))

	logger.WithGroup("rules").With("provider", "std").Info("built", slog.Group("table", "kinds", 5))

	output := buf.String()
	if !strings.Contains(output, "rules.provider=std") {
		t.Errorf("expected grouped WithAttrs key, got: %q", output)
	}
	if !strings.Contains(output, "rules.table.kinds=5") {
		t.Errorf("expected nested group key, got: %q", output)
	}
}

func TestHandler_TraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, &slog.HandlerOptions{Level: LevelTrace}))

	logger.Log(t.Context(), LevelTrace, "scan")

	if !strings.Contains(buf.String(), "TRACE scan") {
		t.Errorf("expected TRACE label, got: %q", buf.String())
	}
}

func TestHandler_WithColor(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil).WithColor(true)
	slog.New(h).Info("colored", "k", "v")

	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escapes, got: %q", buf.String())
	}

	buf.Reset()
	slog.New(h.WithColor(false)).Info("plain", "k", "v")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected no ANSI escapes, got: %q", buf.String())
	}
}
