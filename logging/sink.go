package logging

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is a structured record of something that happened in the room
// lifecycle (room_created, room_reserved, payment_processed, ...).
type Event struct {
	ID     string         `json:"event_id"`
	Name   string         `json:"event"`
	Time   time.Time      `json:"timestamp"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Backend receives events. A backend error never propagates to the code
// that emitted the event.
type Backend interface {
	Name() string
	Write(ctx context.Context, e Event) error
}

// EventSink fans events out to its backends. Emit returns immediately;
// delivery runs in the background with a per-emit deadline, and each
// backend fails independently of the others.
type EventSink struct {
	backends []Backend
	logger   *zap.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewEventSink(logger *zap.Logger, backends ...Backend) *EventSink {
	return &EventSink{
		backends: backends,
		logger:   logger,
		timeout:  5 * time.Second,
	}
}

func (s *EventSink) Emit(ctx context.Context, name string, fields map[string]any) {
	e := Event{
		ID:     uuid.New().String(),
		Name:   name,
		Time:   time.Now().UTC(),
		Fields: fields,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		// Detached from the request: an aborted caller must not cancel
		// delivery mid-flight.
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		for _, b := range s.backends {
			if err := b.Write(wctx, e); err != nil {
				s.logger.Warn("event sink backend failed",
					zap.String("backend", b.Name()),
					zap.String("event", e.Name),
					zap.String("event_id", e.ID),
					zap.Error(err),
				)
			}
		}
	}()
}

// Close waits for in-flight deliveries to finish.
func (s *EventSink) Close() {
	s.wg.Wait()
}

// ConsoleBackend logs events through the process logger.
type ConsoleBackend struct {
	logger *zap.Logger
}

func NewConsoleBackend(logger *zap.Logger) *ConsoleBackend {
	return &ConsoleBackend{logger: logger}
}

func (b *ConsoleBackend) Name() string { return "console" }

func (b *ConsoleBackend) Write(_ context.Context, e Event) error {
	fields := make([]zap.Field, 0, len(e.Fields)+2)
	fields = append(fields,
		zap.String("event_id", e.ID),
		zap.Time("event_time", e.Time),
	)
	for k, v := range e.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	b.logger.Info(e.Name, fields...)
	return nil
}
