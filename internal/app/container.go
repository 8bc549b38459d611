package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/database/migration"
	dbpostgres "skillswap/internal/database/postgres"
	"skillswap/internal/database/seeder"
	"skillswap/internal/domain/matching"
	"skillswap/internal/logger"
	"skillswap/internal/notify"
	"skillswap/internal/pkg/jwt"
	"skillswap/internal/repository"
	"skillswap/internal/usecase"
	"skillswap/internal/ws"

	"github.com/rs/zerolog"
)

type Container struct {
	Config config.Config
	Logger zerolog.Logger
	DB     database.DB
	Store  repository.Store
	JWT    jwt.Service

	Hub     *ws.Hub
	Emitter *notify.Emitter

	Skills          usecase.SkillUsecase
	UserSkills      usecase.UserSkillUsecase
	Sessions        usecase.SessionUsecase
	Reviews         usecase.ReviewUsecase
	Recommendations usecase.RecommendationUsecase

	stopHub context.CancelFunc
	closers []func() error
}

func NewContainer(cfg config.Config, log zerolog.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := (migration.Runner{Dir: cfg.Database.MigrationsDir, Logger: logger.Component("migration")}).Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if cfg.Database.Seed {
		if err := (seeder.Runner{Seeders: seeder.Defaults()}).Run(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Msg("seeders applied")
	}

	c, err := newContainer(ctx, cfg, log, repository.NewPostgresStore(db))
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	c.DB = db
	return c, nil
}

// newContainer wires everything above persistence. Optional sinks that fail
// to connect are logged and left out; the websocket sink is always present.
func newContainer(ctx context.Context, cfg config.Config, log zerolog.Logger, store repository.Store) (*Container, error) {
	weights := matching.Weights{
		Similarity: cfg.Recommendation.SimilarityWeight,
		Rating:     cfg.Recommendation.RatingWeight,
		Activity:   cfg.Recommendation.ActivityWeight,
	}
	scorer, err := matching.NewScorer(weights)
	if err != nil {
		return nil, fmt.Errorf("recommendation weights: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: log,
		Store:  store,
		JWT:    jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn),
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	c.Hub = ws.NewHub(logger.Component("ws"))
	c.stopHub = stopHub
	go c.Hub.Run(hubCtx)

	notifyLog := logger.Component("notify")
	sinks := notify.MultiSink{notify.NewHubSink(c.Hub)}

	client, err := notify.DialRedis(ctx, cfg.Redis)
	switch {
	case err != nil:
		notifyLog.Warn().Err(err).Msg("redis sink disabled")
	case client == nil:
		notifyLog.Info().Msg("redis sink not configured")
	default:
		sinks = append(sinks, notify.WithBreaker(
			notify.NewRedisSink(client, cfg.Redis.ChannelPrefix, notifyLog),
			cfg.Notify.BreakerMaxFailures, cfg.Notify.BreakerOpenTimeout, notifyLog,
		))
		c.closers = append(c.closers, client.Close)
	}

	if cfg.AMQP.URL == "" {
		notifyLog.Info().Msg("amqp sink not configured")
	} else if amqpSink, err := notify.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange); err != nil {
		notifyLog.Warn().Err(err).Msg("amqp sink disabled")
	} else {
		sinks = append(sinks, notify.WithBreaker(amqpSink, cfg.Notify.BreakerMaxFailures, cfg.Notify.BreakerOpenTimeout, notifyLog))
		c.closers = append(c.closers, amqpSink.Close)
	}

	c.Emitter = notify.NewEmitter(sinks, cfg.Notify.Timeout, notifyLog)

	c.Skills = usecase.NewSkillUsecase(store)
	c.UserSkills = usecase.NewUserSkillUsecase(store)
	c.Sessions = usecase.NewSessionUsecase(store, c.Emitter, logger.Component("session"))
	c.Reviews = usecase.NewReviewUsecase(store, logger.Component("review"))
	c.Recommendations = usecase.NewRecommendationUsecase(store, scorer)
	return c, nil
}

// Close drains pending notifications before closing the sinks they use.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Emitter != nil {
		c.Emitter.Wait()
	}

	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
