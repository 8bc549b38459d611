package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"skillswap/internal/database"
	"skillswap/internal/domain/session"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session request not found")
	// ErrActiveRequestExists reports a write rejected by the one-active-request
	// unique index.
	ErrActiveRequestExists = errors.New("active session request exists")
)

const activeRequestIndex = "uq_session_requests_active"

type ParticipantRole string

const (
	AsAny     ParticipantRole = ""
	AsLearner ParticipantRole = "learner"
	AsMentor  ParticipantRole = "mentor"
)

type SessionFilter struct {
	Role     ParticipantRole
	Statuses []session.Status
	Limit    int
}

type SessionRepository interface {
	Insert(ctx context.Context, req session.Request) error
	HasActive(ctx context.Context, learnerID, mentorID, skillID uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (session.Request, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (session.Request, error)
	// UpdateState writes next only while the stored status still equals
	// expected. It reports false when another writer got there first.
	UpdateState(ctx context.Context, next session.Request, expected session.Status) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID, f SessionFilter) ([]session.Request, error)
	CountCompletedAsMentor(ctx context.Context, mentorIDs []uuid.UUID, since time.Time) (map[uuid.UUID]int, error)
}

type PostgresSessionRepository struct {
	db database.Querier
}

func NewPostgresSessionRepository(db database.Querier) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

const sessionColumns = `id, learner_id, mentor_id, skill_id, window_start, window_end, status,
	proposed_start, proposed_end, reschedule_requested_by, notes, created_at, updated_at`

func (r *PostgresSessionRepository) Insert(ctx context.Context, req session.Request) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO session_requests (id, learner_id, mentor_id, skill_id, window_start, window_end, status, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		req.ID, req.LearnerID, req.MentorID, req.SkillID, req.Window.Start, req.Window.End,
		string(req.Status), req.Notes, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if uniqueViolation(err, activeRequestIndex) {
			return ErrActiveRequestExists
		}
		return err
	}
	return nil
}

func (r *PostgresSessionRepository) HasActive(ctx context.Context, learnerID, mentorID, skillID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM session_requests
			WHERE learner_id = $1 AND mentor_id = $2 AND skill_id = $3 AND status = ANY($4)
		)`,
		learnerID, mentorID, skillID, statusStrings(session.ActiveStatuses),
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (session.Request, error) {
	return r.findOne(ctx, `SELECT `+sessionColumns+` FROM session_requests WHERE id = $1`, id)
}

func (r *PostgresSessionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (session.Request, error) {
	return r.findOne(ctx, `SELECT `+sessionColumns+` FROM session_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresSessionRepository) UpdateState(ctx context.Context, next session.Request, expected session.Status) (bool, error) {
	var ps, pe *time.Time
	if next.ProposedWindow != nil {
		ps, pe = &next.ProposedWindow.Start, &next.ProposedWindow.End
	}
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE session_requests
		 SET status = $1, window_start = $2, window_end = $3,
		     proposed_start = $4, proposed_end = $5, reschedule_requested_by = $6, updated_at = $7
		 WHERE id = $8 AND status = $9`,
		string(next.Status), next.Window.Start, next.Window.End,
		ps, pe, next.RescheduleRequestedBy, next.UpdatedAt,
		next.ID, string(expected),
	)
	if err != nil {
		if uniqueViolation(err, activeRequestIndex) {
			return false, ErrActiveRequestExists
		}
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *PostgresSessionRepository) ListForUser(ctx context.Context, userID uuid.UUID, f SessionFilter) ([]session.Request, error) {
	where := []string{}
	args := []any{userID}
	switch f.Role {
	case AsLearner:
		where = append(where, "learner_id = $1")
	case AsMentor:
		where = append(where, "mentor_id = $1")
	default:
		where = append(where, "(learner_id = $1 OR mentor_id = $1)")
	}
	if len(f.Statuses) > 0 {
		args = append(args, statusStrings(f.Statuses))
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	args = append(args, limit)

	q := `SELECT ` + sessionColumns + ` FROM session_requests WHERE ` + strings.Join(where, " AND ") +
		fmt.Sprintf(` ORDER BY created_at DESC, id ASC LIMIT $%d`, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]session.Request, 0)
	for rows.Next() {
		req, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSessionRepository) CountCompletedAsMentor(ctx context.Context, mentorIDs []uuid.UUID, since time.Time) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(mentorIDs))
	if len(mentorIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT mentor_id, COUNT(*)
		 FROM session_requests
		 WHERE mentor_id = ANY($1) AND status = $2 AND updated_at >= $3
		 GROUP BY mentor_id`,
		mentorIDs, string(session.StatusCompleted), since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSessionRepository) findOne(ctx context.Context, q string, args ...any) (session.Request, error) {
	req, err := scanSession(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if noRows(err) {
			return session.Request{}, ErrSessionNotFound
		}
		return session.Request{}, err
	}
	return req, nil
}

func scanSession(row database.Row) (session.Request, error) {
	var (
		req    session.Request
		status string
		ps, pe *time.Time
	)
	if err := row.Scan(
		&req.ID, &req.LearnerID, &req.MentorID, &req.SkillID,
		&req.Window.Start, &req.Window.End, &status,
		&ps, &pe, &req.RescheduleRequestedBy, &req.Notes, &req.CreatedAt, &req.UpdatedAt,
	); err != nil {
		return session.Request{}, err
	}
	req.Status = session.Status(status)
	if ps != nil && pe != nil {
		req.ProposedWindow = &session.TimeWindow{Start: *ps, End: *pe}
	}
	return req, nil
}

func statusStrings(ss []session.Status) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, string(s))
	}
	return out
}
