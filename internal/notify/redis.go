package notify

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"skillswap/internal/config"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisSink publishes each event on the subject's channel,
// "<prefix>:<user_id>", for a notification service to fan out.
type RedisSink struct {
	client redis.UniversalClient
	prefix string
	logger zerolog.Logger

	warnedUnavailable atomic.Bool
}

func NewRedisSink(client redis.UniversalClient, prefix string, logger zerolog.Logger) *RedisSink {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "notifications"
	}
	return &RedisSink{client: client, prefix: prefix, logger: logger}
}

// DialRedis connects and pings. A nil client with nil error means Redis is
// not configured.
func DialRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *RedisSink) Name() string { return "redis" }

func (r *RedisSink) Channel(e Event) string {
	return r.prefix + ":" + e.SubjectID.String()
}

func (r *RedisSink) Deliver(ctx context.Context, e Event) error {
	if r == nil || r.client == nil {
		return nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := r.client.Publish(ctx, r.Channel(e), b).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	r.warnedUnavailable.Store(false)
	return nil
}

func (r *RedisSink) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn().Err(err).Msg("redis unavailable, notifications not published")
	}
}
