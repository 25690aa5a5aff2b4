package coercez

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLogFailures(t *testing.T) {
	t.Run("Failure At Warn", func(t *testing.T) {
		var buf bytes.Buffer
		handler := LogFailures(zerolog.New(&buf))

		err := prefix("signup", "nope", prefix("email", "nope", NewError("nope", "a valid email address")))
		if handlerErr := handler(context.Background(), PipelineEvent{
			Name:       "signup",
			Stage:      "email",
			StageIndex: 1,
			Value:      "nope",
			Error:      err,
			Duration:   time.Millisecond,
		}); handlerErr != nil {
			t.Fatalf("unexpected error: %v", handlerErr)
		}

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", buf.String(), err)
		}
		if entry["level"] != "warn" {
			t.Errorf("expected warn level, got %v", entry["level"])
		}
		if entry["pipeline"] != "signup" || entry["stage"] != "email" {
			t.Errorf("unexpected pipeline fields %v", entry)
		}
		if entry["stage_index"] != float64(1) {
			t.Errorf("expected stage_index 1, got %v", entry["stage_index"])
		}
		if entry["expected"] != "a valid email address" || entry["value"] != "nope" {
			t.Errorf("unexpected expectation fields %v", entry)
		}
		path, ok := entry["path"].([]any)
		if !ok || len(path) != 2 || path[0] != "signup" || path[1] != "email" {
			t.Errorf("unexpected path %v", entry["path"])
		}
		if entry["message"] != "coercion failed" {
			t.Errorf("unexpected message %v", entry["message"])
		}
	})

	t.Run("Fallback At Debug", func(t *testing.T) {
		var buf bytes.Buffer
		handler := LogFailures(zerolog.New(&buf).Level(zerolog.DebugLevel))

		_ = handler(context.Background(), PipelineEvent{ //nolint:errcheck
			Name:     "port",
			Error:    errors.New("boom"),
			FellBack: true,
		})

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", buf.String(), err)
		}
		if entry["level"] != "debug" || entry["fallback"] != true {
			t.Errorf("unexpected entry %v", entry)
		}
		if _, ok := entry["stage"]; ok {
			t.Error("expected no stage field without a stage")
		}
		if entry["error"] != "boom" {
			t.Errorf("expected error field, got %v", entry["error"])
		}
	})

	t.Run("Wired To Pipeline", func(t *testing.T) {
		var buf syncBuffer
		p := NewPipeline[int]("age", Numeric, Integer)
		defer p.Close()
		if err := p.OnFailed(LogFailures(zerolog.New(&buf))); err != nil {
			t.Fatalf("hook: %v", err)
		}
		done := make(chan struct{})
		if err := p.OnFailed(func(context.Context, PipelineEvent) error {
			close(done)
			return nil
		}); err != nil {
			t.Fatalf("hook: %v", err)
		}

		if _, err := p.Coerce("abc"); err == nil {
			t.Fatal("expected failure")
		}
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for hook")
		}
		deadline := time.Now().Add(time.Second)
		for buf.Len() == 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		if buf.Len() == 0 {
			t.Error("expected a log line")
		}
	})
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}
