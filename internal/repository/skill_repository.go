package repository

import (
	"context"
	"errors"

	"skillswap/internal/database"
	"skillswap/internal/domain/skill"

	"github.com/google/uuid"
)

var ErrSkillNotFound = errors.New("skill not found")

type SkillRepository interface {
	GetAllSkills(ctx context.Context) ([]skill.Skill, error)
	FindByID(ctx context.Context, id uuid.UUID) (skill.Skill, error)
}

type PostgresSkillRepository struct {
	db database.Querier
}

func NewPostgresSkillRepository(db database.Querier) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) GetAllSkills(ctx context.Context) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, category, created_at FROM skills ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) FindByID(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, description, category, created_at FROM skills WHERE id = $1`, id)

	var s skill.Skill
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &s.CreatedAt); err != nil {
		if noRows(err) {
			return skill.Skill{}, ErrSkillNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}
