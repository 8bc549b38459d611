package repository

import (
	"context"
	"errors"

	"skillswap/internal/database"
	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
)

var (
	ErrUserSkillNotFound  = errors.New("user skill not found")
	ErrUserSkillForbidden = errors.New("forbidden")
)

// UserSkillRepository returns rows as stored. Callers collapse duplicates with
// skill.Deduplicate.
type UserSkillRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]skill.Record, error)
	FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]skill.Record, error)
	// FindUserIDsWithSkills returns users holding any of skillIDs under any
	// label that resolves to t.
	FindUserIDsWithSkills(ctx context.Context, skillIDs []uuid.UUID, t skill.CanonicalType) ([]uuid.UUID, error)
	Create(ctx context.Context, rec skill.Record) (skill.Record, error)
	// UpdateDetails also rewrites skill_type, so a legacy label becomes canonical
	// once the row is touched.
	UpdateDetails(ctx context.Context, id uuid.UUID, t skill.CanonicalType, proficiency string, tags []string) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type PostgresUserSkillRepository struct {
	db database.Querier
}

func NewPostgresUserSkillRepository(db database.Querier) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

const recordSelect = `SELECT us.id, us.user_id, us.skill_id, s.name, us.skill_type, us.proficiency_level, us.tags, us.created_at
	 FROM user_skills us
	 JOIN skills s ON s.id = us.skill_id`

func (r *PostgresUserSkillRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]skill.Record, error) {
	return r.query(ctx, recordSelect+`
	 WHERE us.user_id = $1
	 ORDER BY us.created_at ASC, us.id ASC`, userID)
}

func (r *PostgresUserSkillRepository) FindByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]skill.Record, error) {
	if len(userIDs) == 0 {
		return []skill.Record{}, nil
	}
	return r.query(ctx, recordSelect+`
	 WHERE us.user_id = ANY($1)
	 ORDER BY us.user_id ASC, us.created_at ASC, us.id ASC`, userIDs)
}

func (r *PostgresUserSkillRepository) FindUserIDsWithSkills(ctx context.Context, skillIDs []uuid.UUID, t skill.CanonicalType) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0)
	if len(skillIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT user_id
		 FROM user_skills
		 WHERE skill_id = ANY($1) AND lower(btrim(skill_type)) = ANY($2)
		 ORDER BY user_id ASC`,
		skillIDs, skill.Aliases(t),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresUserSkillRepository) Create(ctx context.Context, rec skill.Record) (skill.Record, error) {
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_skills (id, user_id, skill_id, skill_type, proficiency_level, tags)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.UserID, rec.SkillID, rec.Type, rec.ProficiencyLevel, rec.Tags,
	)
	if err != nil {
		if foreignKeyViolation(err) {
			return skill.Record{}, ErrSkillNotFound
		}
		return skill.Record{}, err
	}

	created, err := r.query(ctx, recordSelect+` WHERE us.id = $1`, rec.ID)
	if err != nil {
		return skill.Record{}, err
	}
	if len(created) == 0 {
		return skill.Record{}, ErrUserSkillNotFound
	}
	return created[0], nil
}

func (r *PostgresUserSkillRepository) UpdateDetails(ctx context.Context, id uuid.UUID, t skill.CanonicalType, proficiency string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE user_skills SET skill_type = $1, proficiency_level = $2, tags = $3 WHERE id = $4`,
		string(t), proficiency, tags, id,
	)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserSkillNotFound
	}
	return nil
}

func (r *PostgresUserSkillRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM user_skills WHERE id = ANY($1)`, ids)
	return err
}

func (r *PostgresUserSkillRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	var owner uuid.UUID
	row := r.db.QueryRow(ctx, `SELECT user_id FROM user_skills WHERE id = $1`, id)
	if err := row.Scan(&owner); err != nil {
		if noRows(err) {
			return ErrUserSkillNotFound
		}
		return err
	}
	if owner != userID {
		return ErrUserSkillForbidden
	}

	_, err := r.db.Exec(ctx, `DELETE FROM user_skills WHERE id = $1`, id)
	return err
}

func (r *PostgresUserSkillRepository) query(ctx context.Context, q string, args ...any) ([]skill.Record, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Record, 0)
	for rows.Next() {
		var rec skill.Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.SkillID, &rec.SkillName, &rec.Type, &rec.ProficiencyLevel, &rec.Tags, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
