package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillswap/internal/domain/skill"
	"skillswap/internal/repository"

	"github.com/google/uuid"
)

const (
	UserSkillCreated = "created"
	UserSkillUpdated = "updated"
)

type AddUserSkillInput struct {
	SkillID          uuid.UUID
	Type             string
	ProficiencyLevel string
	Tags             []string
}

type UserSkillItem struct {
	ID               uuid.UUID
	SkillID          uuid.UUID
	SkillName        string
	Type             skill.CanonicalType
	ProficiencyLevel string
	Tags             []string
	CreatedAt        time.Time
}

type AddUserSkillResult struct {
	Item   UserSkillItem
	Action string
}

type UserSkillUsecase interface {
	// ListUserSkills returns the de-duplicated listing. An empty rawType lists both kinds.
	ListUserSkills(ctx context.Context, userID uuid.UUID, rawType string) ([]UserSkillItem, error)
	AddUserSkill(ctx context.Context, userID uuid.UUID, in AddUserSkillInput) (AddUserSkillResult, error)
	RemoveUserSkill(ctx context.Context, userID uuid.UUID, userSkillID uuid.UUID) error
	Capabilities(ctx context.Context, userID uuid.UUID) (skill.Capabilities, error)
}

type UserSkill struct {
	store repository.Store
}

func NewUserSkillUsecase(store repository.Store) *UserSkill {
	return &UserSkill{store: store}
}

func (u *UserSkill) ListUserSkills(ctx context.Context, userID uuid.UUID, rawType string) ([]UserSkillItem, error) {
	var want skill.CanonicalType
	if strings.TrimSpace(rawType) != "" {
		t, err := skill.Normalize(rawType)
		if err != nil {
			return nil, ErrInvalidSkillType
		}
		want = t
	}

	var out []UserSkillItem
	err := u.store.ReadSnapshot(ctx, func(r repository.Repositories) error {
		records, err := r.UserSkills.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		out = make([]UserSkillItem, 0, len(records))
		for _, rec := range skill.Deduplicate(records) {
			if want != "" && skill.CanonicalType(rec.Type) != want {
				continue
			}
			out = append(out, toUserSkillItem(rec))
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// AddUserSkill stores one canonical record per (user, skill, type). When the
// user already holds that skill, possibly several times under legacy labels,
// the earliest row survives with the new details and the rest are removed.
func (u *UserSkill) AddUserSkill(ctx context.Context, userID uuid.UUID, in AddUserSkillInput) (AddUserSkillResult, error) {
	if in.SkillID == uuid.Nil {
		return AddUserSkillResult{}, ErrInvalidInput
	}
	t, err := skill.Normalize(in.Type)
	if err != nil {
		return AddUserSkillResult{}, ErrInvalidSkillType
	}
	var proficiency string
	if strings.TrimSpace(in.ProficiencyLevel) != "" {
		if proficiency, err = skill.NormalizeProficiency(in.ProficiencyLevel); err != nil {
			return AddUserSkillResult{}, ErrInvalidProficiency
		}
	}
	tags := skill.NormalizeTags(in.Tags)

	var res AddUserSkillResult
	err = u.store.WithinTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Skills.FindByID(ctx, in.SkillID); err != nil {
			if errors.Is(err, repository.ErrSkillNotFound) {
				return ErrSkillNotFound
			}
			return err
		}

		records, err := r.UserSkills.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		same := make([]skill.Record, 0)
		for _, rec := range records {
			if rt, err := skill.Normalize(rec.Type); err == nil && rt == t && rec.SkillID == in.SkillID {
				same = append(same, rec)
			}
		}

		if len(same) == 0 {
			if proficiency == "" {
				proficiency, _ = skill.NormalizeProficiency("")
			}
			created, err := r.UserSkills.Create(ctx, skill.Record{
				ID:               uuid.New(),
				UserID:           userID,
				SkillID:          in.SkillID,
				Type:             string(t),
				ProficiencyLevel: proficiency,
				Tags:             tags,
			})
			if err != nil {
				if errors.Is(err, repository.ErrSkillNotFound) {
					return ErrSkillNotFound
				}
				return err
			}
			res = AddUserSkillResult{Item: toUserSkillItem(created), Action: UserSkillCreated}
			return nil
		}

		survivor := skill.Deduplicate(same)[0]
		if err := r.UserSkills.DeleteByIDs(ctx, skill.Duplicates(same)); err != nil {
			return err
		}
		if proficiency == "" {
			proficiency = survivor.ProficiencyLevel
		}
		survivor.Tags = mergeTagSets(survivor.Tags, tags)
		survivor.ProficiencyLevel = proficiency
		survivor.Type = string(t)
		if err := r.UserSkills.UpdateDetails(ctx, survivor.ID, t, survivor.ProficiencyLevel, survivor.Tags); err != nil {
			return err
		}
		res = AddUserSkillResult{Item: toUserSkillItem(survivor), Action: UserSkillUpdated}
		return nil
	})
	if err != nil {
		return AddUserSkillResult{}, classify(err)
	}
	return res, nil
}

// RemoveUserSkill deletes the listed entry together with every other row the
// listing folds into it, so the skill does not reappear under a legacy label.
func (u *UserSkill) RemoveUserSkill(ctx context.Context, userID uuid.UUID, userSkillID uuid.UUID) error {
	if userSkillID == uuid.Nil {
		return ErrInvalidInput
	}
	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		records, err := r.UserSkills.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}

		group := logicalGroup(records, userSkillID)
		if len(group) == 0 {
			// not one of the user's rows; Delete tells missing from foreign
			err := r.UserSkills.Delete(ctx, userSkillID, userID)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, repository.ErrUserSkillNotFound):
				return ErrNotFound
			case errors.Is(err, repository.ErrUserSkillForbidden):
				return ErrForbidden
			default:
				return err
			}
		}
		return r.UserSkills.DeleteByIDs(ctx, group)
	})
	return classify(err)
}

// logicalGroup returns the ids of the rows sharing target's skill and
// canonical type, target included. It is empty when target is not in records.
func logicalGroup(records []skill.Record, target uuid.UUID) []uuid.UUID {
	var hit *skill.Record
	for i := range records {
		if records[i].ID == target {
			hit = &records[i]
			break
		}
	}
	if hit == nil {
		return nil
	}
	t, err := skill.Normalize(hit.Type)
	if err != nil {
		return []uuid.UUID{hit.ID}
	}

	out := make([]uuid.UUID, 0, 1)
	for _, rec := range records {
		if rec.SkillID != hit.SkillID {
			continue
		}
		if rt, err := skill.Normalize(rec.Type); err == nil && rt == t {
			out = append(out, rec.ID)
		}
	}
	return out
}

func (u *UserSkill) Capabilities(ctx context.Context, userID uuid.UUID) (skill.Capabilities, error) {
	var caps skill.Capabilities
	err := u.store.ReadSnapshot(ctx, func(r repository.Repositories) error {
		records, err := r.UserSkills.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		caps = skill.ResolveCapabilities(userID, records)
		return nil
	})
	if err != nil {
		return skill.Capabilities{}, classify(err)
	}
	return caps, nil
}

func toUserSkillItem(rec skill.Record) UserSkillItem {
	t, _ := skill.Normalize(rec.Type)
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	return UserSkillItem{
		ID:               rec.ID,
		SkillID:          rec.SkillID,
		SkillName:        rec.SkillName,
		Type:             t,
		ProficiencyLevel: rec.ProficiencyLevel,
		Tags:             tags,
		CreatedAt:        rec.CreatedAt,
	}
}

// mergeTagSets keeps existing tags first and appends unseen new ones.
func mergeTagSets(existing, added []string) []string {
	return skill.NormalizeTags(append(append([]string{}, existing...), added...))
}
