package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)
	logger.Debug("loading config", "dir", "/tmp/project")

	out := buf.String()
	if !strings.Contains(out, "loading config") || !strings.Contains(out, "dir=/tmp/project") {
		t.Errorf("Expected debug record, got %q", out)
	}
}

func TestNew_QuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)
	logger.Debug("hidden")
	logger.Info("hidden too")

	if buf.Len() != 0 {
		t.Errorf("Expected no output below warn level, got %q", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)
	ctx := WithLogger(context.Background(), logger)

	if FromContext(ctx) != logger {
		t.Error("FromContext should return the embedded logger")
	}

	// Missing logger falls back to a usable discard logger
	fallback := FromContext(context.Background())
	if fallback == nil {
		t.Fatal("FromContext should never return nil")
	}
	fallback.Error("dropped")
}
