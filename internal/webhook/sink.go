package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event is a decoded webhook delivery. Only the envelope is interpreted.
type Event struct {
	Object string            `json:"object"`
	Entry  []json.RawMessage `json:"entry"`
	Raw    json.RawMessage   `json:"-"`
}

// Sink receives verified webhook events.
type Sink interface {
	Deliver(ctx context.Context, ev Event) error
}

// LogSink records events in the structured log.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger uses slog.Default.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Deliver(ctx context.Context, ev Event) error {
	s.logger.InfoContext(ctx, "webhook received", "object", ev.Object, "entries", len(ev.Entry))
	s.logger.DebugContext(ctx, "webhook payload", "payload", string(ev.Raw))
	return nil
}

// Decode parses a delivery body. Any JSON value is accepted; non-object
// payloads produce an Event with an empty envelope.
func Decode(body []byte) (Event, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Event{}, err
	}

	ev := Event{Raw: raw}
	var envelope struct {
		Object string            `json:"object"`
		Entry  []json.RawMessage `json:"entry"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		ev.Object = envelope.Object
		ev.Entry = envelope.Entry
	}
	return ev, nil
}
