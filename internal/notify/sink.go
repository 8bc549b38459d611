package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillswap/internal/metrics"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// MultiSink delivers to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Name() string { return "multi" }

func (m MultiSink) Deliver(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Deliver(ctx, e); err != nil {
			outcome := metrics.OutcomeFailure
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				outcome = metrics.OutcomeRejected
			}
			metrics.NotificationDeliveries.WithLabelValues(s.Name(), outcome).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		metrics.NotificationDeliveries.WithLabelValues(s.Name(), metrics.OutcomeSuccess).Inc()
	}
	return errors.Join(errs...)
}

// BreakerSink stops calling a failing sink for a while so a dead broker does
// not tie up a goroutine per event.
type BreakerSink struct {
	next Sink
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func WithBreaker(next Sink, maxFailures uint32, openTimeout time.Duration, logger zerolog.Logger) *BreakerSink {
	if maxFailures == 0 {
		maxFailures = 5
	}
	name := "notify-" + next.Name()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return &BreakerSink{next: next, cb: cb}
}

func (b *BreakerSink) Name() string { return b.next.Name() }

func (b *BreakerSink) Deliver(ctx context.Context, e Event) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Deliver(ctx, e)
	})
	return err
}

func (b *BreakerSink) State() gobreaker.State {
	return b.cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
