// Package notify delivers completed leads to external collaborators: a
// spreadsheet webhook and a chat-relay gateway. Delivery is best effort and
// one way; failures are logged and never surfaced to the conversation.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vivahdesk/leadbot/backend/internal/metrics"
	"github.com/vivahdesk/leadbot/backend/internal/model/lead"
)

// Sink delivers one lead record to a single collaborator.
type Sink interface {
	Name() string
	Send(ctx context.Context, rec lead.Record) error
}

const defaultTimeout = 10 * time.Second

// Dispatcher fans a completed lead out to the configured sinks from a
// detached goroutine under a bounded deadline, so sink latency never delays
// the confirmation reply.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	logger  *zap.Logger
	wg      sync.WaitGroup
}

// NewDispatcher builds a dispatcher over the given sinks. A zero timeout
// falls back to the default.
func NewDispatcher(sinks []Sink, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{sinks: sinks, timeout: timeout, logger: logger}
}

// LeadCompleted dispatches the record to every sink, in order, off the
// caller's goroutine. Sink errors are logged and counted, never returned.
func (d *Dispatcher) LeadCompleted(rec lead.Record) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		for _, sink := range d.sinks {
			if err := sink.Send(ctx, rec); err != nil {
				metrics.NotifyFailures.WithLabelValues(sink.Name()).Inc()
				d.logger.Warn("lead notification failed",
					zap.String("sink", sink.Name()),
					zap.Error(err))
			}
		}
	}()
}

// Wait blocks until all in-flight dispatches finish, used at shutdown and
// in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
