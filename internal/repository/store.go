package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"skillswap/internal/database"
	"skillswap/internal/domain/user"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repositories is one consistent view of persistence, bound either to a
// transaction or to the pool.
type Repositories struct {
	Users      user.Repository
	Skills     SkillRepository
	UserSkills UserSkillRepository
	Sessions   SessionRepository
	Reviews    ReviewRepository
}

// Store runs units of work. WithinTx commits only when fn returns nil.
// ReadSnapshot gives fn a read-only view that does not change while it runs.
type Store interface {
	WithinTx(ctx context.Context, fn func(Repositories) error) error
	ReadSnapshot(ctx context.Context, fn func(Repositories) error) error
}

func NewPostgresRepositories(q database.Querier) Repositories {
	return Repositories{
		Users:      NewPostgresUserRepository(q),
		Skills:     NewPostgresSkillRepository(q),
		UserSkills: NewPostgresUserSkillRepository(q),
		Sessions:   NewPostgresSessionRepository(q),
		Reviews:    NewPostgresReviewRepository(q),
	}
}

type PostgresStore struct {
	db database.DB
}

func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(Repositories) error) error {
	return s.run(ctx, database.TxOptions{Isolation: database.ReadCommitted}, fn)
}

func (s *PostgresStore) ReadSnapshot(ctx context.Context, fn func(Repositories) error) error {
	return s.run(ctx, database.TxOptions{Isolation: database.RepeatableRead, ReadOnly: true}, fn)
}

func (s *PostgresStore) run(ctx context.Context, opts database.TxOptions, fn func(Repositories) error) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("nil db")
	}
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if err := fn(NewPostgresRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func uniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func foreignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}
