package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"skillswap/internal/database"
	"skillswap/internal/domain/review"
	"skillswap/internal/domain/session"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(context.Context, string, ...any) (int64, error)           { return 0, nil }
func (t *fakeTx) Query(context.Context, string, ...any) (database.Rows, error)  { return nil, nil }
func (t *fakeTx) QueryRow(context.Context, string, ...any) database.Row         { return nil }
func (t *fakeTx) Commit(context.Context) error                                  { t.committed = true; return nil }
func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDB struct {
	tx   *fakeTx
	opts database.TxOptions
}

func (d *fakeDB) Exec(context.Context, string, ...any) (int64, error)          { return 0, nil }
func (d *fakeDB) Query(context.Context, string, ...any) (database.Rows, error) { return nil, nil }
func (d *fakeDB) QueryRow(context.Context, string, ...any) database.Row        { return nil }
func (d *fakeDB) Ping(context.Context) error                                   { return nil }
func (d *fakeDB) Close() error                                                 { return nil }
func (d *fakeDB) Begin(ctx context.Context) (database.Tx, error) {
	return d.BeginTx(ctx, database.TxOptions{})
}
func (d *fakeDB) BeginTx(_ context.Context, opts database.TxOptions) (database.Tx, error) {
	d.opts = opts
	d.tx = &fakeTx{}
	return d.tx, nil
}
func (d *fakeDB) SQLDB() *sql.DB { return nil }

func TestPostgresStore_CommitsOnSuccess(t *testing.T) {
	db := &fakeDB{}
	s := NewPostgresStore(db)

	err := s.WithinTx(context.Background(), func(r Repositories) error {
		assert.NotNil(t, r.Sessions)
		assert.NotNil(t, r.UserSkills)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, db.tx.committed)
	assert.False(t, db.tx.rolledBack)
	assert.Equal(t, database.ReadCommitted, db.opts.Isolation)
}

func TestPostgresStore_RollsBackOnError(t *testing.T) {
	db := &fakeDB{}
	s := NewPostgresStore(db)
	boom := errors.New("boom")

	err := s.WithinTx(context.Background(), func(Repositories) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, db.tx.committed)
	assert.True(t, db.tx.rolledBack)
}

func TestPostgresStore_ReadSnapshotOptions(t *testing.T) {
	db := &fakeDB{}
	s := NewPostgresStore(db)

	require.NoError(t, s.ReadSnapshot(context.Background(), func(Repositories) error { return nil }))
	assert.True(t, db.opts.ReadOnly)
	assert.Equal(t, database.RepeatableRead, db.opts.Isolation)
}

func TestConstraintHelpers(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: activeRequestIndex}
	assert.True(t, uniqueViolation(dup, activeRequestIndex))
	assert.True(t, uniqueViolation(dup, ""))
	assert.False(t, uniqueViolation(dup, "users_email_key"))
	assert.False(t, uniqueViolation(errors.New("x"), ""))

	assert.True(t, foreignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, noRows(pgx.ErrNoRows))
	assert.True(t, noRows(sql.ErrNoRows))
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, []string{"requested", "confirmed", "reschedule_requested"}, statusStrings(session.ActiveStatuses))
	assert.Equal(t, []string{"requested", "reschedule_requested"}, statusStrings(session.PendingStatuses))
}

// execQuerier fails every Exec with err.
type execQuerier struct {
	err error
}

func (q execQuerier) Exec(context.Context, string, ...any) (int64, error)          { return 0, q.err }
func (q execQuerier) Query(context.Context, string, ...any) (database.Rows, error) { return nil, q.err }
func (q execQuerier) QueryRow(context.Context, string, ...any) database.Row        { return nil }

func TestPostgresSessionRepository_MapsActiveIndexViolation(t *testing.T) {
	ctx := context.Background()
	req := session.Request{ID: uuid.New(), LearnerID: uuid.New(), MentorID: uuid.New(), SkillID: uuid.New(), Status: session.StatusRequested}
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "uq_session_requests_active"}

	repo := NewPostgresSessionRepository(execQuerier{err: dup})
	assert.ErrorIs(t, repo.Insert(ctx, req), ErrActiveRequestExists)

	ok, err := repo.UpdateState(ctx, req, session.StatusConfirmed)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrActiveRequestExists)

	// other unique violations and plain failures pass through
	other := &pgconn.PgError{Code: "23505", ConstraintName: "session_requests_pkey"}
	err = NewPostgresSessionRepository(execQuerier{err: other}).Insert(ctx, req)
	assert.NotErrorIs(t, err, ErrActiveRequestExists)
	assert.ErrorIs(t, err, other)

	boom := errors.New("connection reset")
	assert.ErrorIs(t, NewPostgresSessionRepository(execQuerier{err: boom}).Insert(ctx, req), boom)
}

func TestPostgresReviewRepository_MapsSessionUniqueViolation(t *testing.T) {
	ctx := context.Background()
	rv := review.Review{ID: uuid.New(), SessionID: uuid.New(), LearnerID: uuid.New(), MentorID: uuid.New(), Rating: 4}

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "reviews_session_id_key"}
	_, err := NewPostgresReviewRepository(execQuerier{err: dup}).Create(ctx, rv)
	assert.ErrorIs(t, err, review.ErrAlreadyReviewed)

	created, err := NewPostgresReviewRepository(execQuerier{}).Create(ctx, rv)
	require.NoError(t, err)
	assert.Equal(t, rv, created)
}
