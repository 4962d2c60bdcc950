package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	ctxlog "github.com/ErlanBelekov/admin-shell/internal/log"
	"github.com/ErlanBelekov/admin-shell/internal/reqctx"
)

func TestContextHandler_AddsRequestAndUserID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ctxlog.NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := reqctx.WithRequestID(context.Background(), "req-1")
	ctx = reqctx.WithUserID(ctx, "user-1")
	logger.With("component", "test").InfoContext(ctx, "hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if entry["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", entry["request_id"])
	}
	if entry["user_id"] != "user-1" {
		t.Errorf("user_id = %v, want user-1", entry["user_id"])
	}
	if entry["component"] != "test" {
		t.Errorf("component = %v, want test", entry["component"])
	}
}

func TestContextHandler_NoIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(ctxlog.NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Info("plain")

	if strings.Contains(buf.String(), "request_id") || strings.Contains(buf.String(), "user_id") {
		t.Errorf("unexpected ids in %s", buf.String())
	}
}

func TestNew_JSONOutsideLocal(t *testing.T) {
	var buf bytes.Buffer
	logger := ctxlog.New(&buf, "production", slog.LevelWarn)

	logger.Info("dropped")
	logger.Warn("kept")

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "dropped") {
		t.Errorf("info record should be filtered at warn level: %s", out)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(out), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", out, err)
	}
}

func TestNew_TintLocally(t *testing.T) {
	var buf bytes.Buffer
	logger := ctxlog.New(&buf, "local", slog.LevelInfo)

	logger.Info("local message")

	if !strings.Contains(buf.String(), "local message") {
		t.Errorf("output %q missing message", buf.String())
	}
	if json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Errorf("local output should be text, got JSON")
	}
}
