package usecase

import (
	"context"

	"skillswap/internal/repository"

	"github.com/google/uuid"
)

type SkillItem struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    string
}

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]SkillItem, error)
}

type Skill struct {
	store repository.Store
}

func NewSkillUsecase(store repository.Store) *Skill {
	return &Skill{store: store}
}

func (u *Skill) ListSkills(ctx context.Context) ([]SkillItem, error) {
	var out []SkillItem
	err := u.store.ReadSnapshot(ctx, func(r repository.Repositories) error {
		items, err := r.Skills.GetAllSkills(ctx)
		if err != nil {
			return err
		}
		out = make([]SkillItem, 0, len(items))
		for _, it := range items {
			out = append(out, SkillItem{ID: it.ID, Name: it.Name, Description: it.Description, Category: it.Category})
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}
