package usecase

import (
	"context"
	"testing"
	"time"

	"skillswap/internal/domain/skill"
	"skillswap/internal/domain/user"
	"skillswap/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddUserSkill_CreateThenUpdateThroughAlias(t *testing.T) {
	st := memory.NewStore()
	u := st.AddUser(user.User{Name: "Ana"})
	sk := st.AddSkill("Python")
	uc := NewUserSkillUsecase(st)
	ctx := context.Background()

	first, err := uc.AddUserSkill(ctx, u.ID, AddUserSkillInput{SkillID: sk.ID, Type: "Teach", Tags: []string{" Web ", "web", "API"}})
	require.NoError(t, err)
	assert.Equal(t, UserSkillCreated, first.Action)
	assert.Equal(t, skill.TypeTeach, first.Item.Type)
	assert.Equal(t, "Beginner", first.Item.ProficiencyLevel)
	assert.Equal(t, []string{"web", "api"}, first.Item.Tags)

	second, err := uc.AddUserSkill(ctx, u.ID, AddUserSkillInput{SkillID: sk.ID, Type: "offer", ProficiencyLevel: "expert", Tags: []string{"django"}})
	require.NoError(t, err)
	assert.Equal(t, UserSkillUpdated, second.Action)
	assert.Equal(t, first.Item.ID, second.Item.ID)
	assert.Equal(t, "Expert", second.Item.ProficiencyLevel)
	assert.Equal(t, []string{"api", "web", "django"}, second.Item.Tags)

	rows := st.UserSkillRows(u.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, "teach", rows[0].Type)
}

func TestAddUserSkill_CollapsesLegacyDuplicates(t *testing.T) {
	st := memory.NewStore()
	u := st.AddUser(user.User{Name: "Ana"})
	sk := st.AddSkill("SQL")
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	keep := st.AddUserSkill(skill.Record{UserID: u.ID, SkillID: sk.ID, Type: "need", Tags: []string{"joins"}, CreatedAt: old})
	st.AddUserSkill(skill.Record{UserID: u.ID, SkillID: sk.ID, Type: "learn", Tags: []string{"indexes"}, CreatedAt: old.Add(time.Hour)})
	st.AddUserSkill(skill.Record{UserID: u.ID, SkillID: sk.ID, Type: "teach", CreatedAt: old})

	uc := NewUserSkillUsecase(st)
	res, err := uc.AddUserSkill(context.Background(), u.ID, AddUserSkillInput{SkillID: sk.ID, Type: "learn"})
	require.NoError(t, err)
	assert.Equal(t, UserSkillUpdated, res.Action)
	assert.Equal(t, keep.ID, res.Item.ID)
	assert.Equal(t, []string{"indexes", "joins"}, res.Item.Tags)

	// one learn row survives, the teach row is untouched
	rows := st.UserSkillRows(u.ID)
	require.Len(t, rows, 2)
	for _, row := range rows {
		if row.ID == keep.ID {
			assert.Equal(t, "learn", row.Type, "touched rows carry the canonical label")
		}
	}

	learn, err := uc.ListUserSkills(context.Background(), u.ID, "need")
	require.NoError(t, err)
	require.Len(t, learn, 1)
	assert.Equal(t, keep.ID, learn[0].ID)
	assert.Equal(t, skill.TypeLearn, learn[0].Type)
}

func TestAddUserSkill_Rejections(t *testing.T) {
	st := memory.NewStore()
	u := st.AddUser(user.User{Name: "Ana"})
	sk := st.AddSkill("Go")
	uc := NewUserSkillUsecase(st)
	ctx := context.Background()

	_, err := uc.AddUserSkill(ctx, u.ID, AddUserSkillInput{SkillID: sk.ID, Type: "mentor"})
	assert.ErrorIs(t, err, ErrInvalidSkillType)

	_, err = uc.AddUserSkill(ctx, u.ID, AddUserSkillInput{SkillID: uuid.New(), Type: "teach"})
	assert.ErrorIs(t, err, ErrSkillNotFound)

	_, err = uc.AddUserSkill(ctx, u.ID, AddUserSkillInput{SkillID: sk.ID, Type: "teach", ProficiencyLevel: "guru"})
	assert.ErrorIs(t, err, ErrInvalidProficiency)

	_, err = uc.AddUserSkill(ctx, u.ID, AddUserSkillInput{Type: "teach"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, st.UserSkillRows(u.ID))
}

func TestListUserSkills_FiltersAndDeduplicates(t *testing.T) {
	st := memory.NewStore()
	u := st.AddUser(user.User{Name: "Ana"})
	goSkill := st.AddSkill("Go")
	sql := st.AddSkill("SQL")
	st.AddUserSkill(skill.Record{UserID: u.ID, SkillID: goSkill.ID, Type: "teach"})
	st.AddUserSkill(skill.Record{UserID: u.ID, SkillID: goSkill.ID, Type: "OFFER"})
	st.AddUserSkill(skill.Record{UserID: u.ID, SkillID: sql.ID, Type: "learn"})

	uc := NewUserSkillUsecase(st)
	ctx := context.Background()

	teach, err := uc.ListUserSkills(ctx, u.ID, "teach")
	require.NoError(t, err)
	require.Len(t, teach, 1)
	assert.Equal(t, "Go", teach[0].SkillName)

	all, err := uc.ListUserSkills(ctx, u.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = uc.ListUserSkills(ctx, u.ID, "tutor")
	assert.ErrorIs(t, err, ErrInvalidSkillType)

	caps, err := uc.Capabilities(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, skill.Capabilities{CanTeach: true, CanLearn: true}, caps)

	none, err := uc.Capabilities(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, skill.Capabilities{}, none)
}

func TestRemoveUserSkill(t *testing.T) {
	st := memory.NewStore()
	owner := st.AddUser(user.User{Name: "Ana"})
	other := st.AddUser(user.User{Name: "Ben"})
	sk := st.AddSkill("Go")
	rec := st.AddUserSkill(skill.Record{UserID: owner.ID, SkillID: sk.ID, Type: "teach"})
	uc := NewUserSkillUsecase(st)
	ctx := context.Background()

	assert.ErrorIs(t, uc.RemoveUserSkill(ctx, other.ID, rec.ID), ErrForbidden)
	assert.ErrorIs(t, uc.RemoveUserSkill(ctx, owner.ID, uuid.New()), ErrNotFound)
	require.NoError(t, uc.RemoveUserSkill(ctx, owner.ID, rec.ID))
	assert.Empty(t, st.UserSkillRows(owner.ID))
}

func TestRemoveUserSkill_RemovesLegacyDuplicates(t *testing.T) {
	st := memory.NewStore()
	u := st.AddUser(user.User{Name: "Ana"})
	goSkill := st.AddSkill("Go")
	rust := st.AddSkill("Rust")
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st.AddUserSkill(skill.Record{UserID: u.ID, SkillID: goSkill.ID, Type: "teach", CreatedAt: old})
	st.AddUserSkill(skill.Record{UserID: u.ID, SkillID: goSkill.ID, Type: "offer", CreatedAt: old.Add(time.Hour)})
	learnGo := st.AddUserSkill(skill.Record{UserID: u.ID, SkillID: goSkill.ID, Type: "learn"})
	teachRust := st.AddUserSkill(skill.Record{UserID: u.ID, SkillID: rust.ID, Type: "teach"})
	uc := NewUserSkillUsecase(st)
	ctx := context.Background()

	listed, err := uc.ListUserSkills(ctx, u.ID, "teach")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	var goItem UserSkillItem
	for _, it := range listed {
		if it.SkillID == goSkill.ID {
			goItem = it
		}
	}
	require.NotEqual(t, uuid.Nil, goItem.ID)

	require.NoError(t, uc.RemoveUserSkill(ctx, u.ID, goItem.ID))

	listed, err = uc.ListUserSkills(ctx, u.ID, "teach")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, teachRust.ID, listed[0].ID)

	// the learn entry for the same skill is a different listing entry
	rows := st.UserSkillRows(u.ID)
	require.Len(t, rows, 2)
	ids := []uuid.UUID{rows[0].ID, rows[1].ID}
	assert.ElementsMatch(t, []uuid.UUID{learnGo.ID, teachRust.ID}, ids)

	require.NoError(t, uc.RemoveUserSkill(ctx, u.ID, teachRust.ID))
	caps, err := uc.Capabilities(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, caps.CanTeach)
	assert.True(t, caps.CanLearn)
}

func TestListSkills(t *testing.T) {
	st := memory.NewStore()
	st.AddSkill("SQL")
	st.AddSkill("Go")

	items, err := NewSkillUsecase(st).ListSkills(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Go", items[0].Name)
}
