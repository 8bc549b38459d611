package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Sink interface {
	Name() string
	Deliver(ctx context.Context, e Event) error
}

const defaultTimeout = 3 * time.Second

// Emitter hands events to a Sink in the background. Emit never blocks on
// delivery and never reports delivery errors to the caller.
type Emitter struct {
	sink    Sink
	timeout time.Duration
	logger  zerolog.Logger
	wg      sync.WaitGroup
}

func NewEmitter(sink Sink, timeout time.Duration, logger zerolog.Logger) *Emitter {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Emitter{sink: sink, timeout: timeout, logger: logger}
}

func (e *Emitter) Emit(ctx context.Context, ev Event) {
	if e == nil || e.sink == nil {
		return
	}
	// delivery outlives the request that caused it
	base := context.WithoutCancel(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error().Interface("panic", r).Str("event", string(ev.Type)).Msg("notification sink panicked")
			}
		}()

		dctx, cancel := context.WithTimeout(base, e.timeout)
		defer cancel()

		if err := e.sink.Deliver(dctx, ev); err != nil {
			e.logger.Warn().Err(err).
				Str("sink", e.sink.Name()).
				Str("event", string(ev.Type)).
				Str("session_id", ev.SessionID.String()).
				Msg("notification delivery failed")
			return
		}
		e.logger.Debug().Str("event", string(ev.Type)).Str("session_id", ev.SessionID.String()).Msg("notification delivered")
	}()
}

// Wait blocks until in-flight deliveries finish. Used on shutdown and in tests.
func (e *Emitter) Wait() {
	if e == nil {
		return
	}
	e.wg.Wait()
}
