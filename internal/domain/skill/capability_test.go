package skill

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Aliases(t *testing.T) {
	for _, raw := range []string{"teach", "offer", "TEACH", "Offer", "  teach "} {
		got, err := Normalize(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, TypeTeach, got, raw)
	}
	for _, raw := range []string{"learn", "need", "LEARN", "Need"} {
		got, err := Normalize(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, TypeLearn, got, raw)
	}
}

func TestNormalize_RejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "mentor", "tutor", "learning", "offer-teach"} {
		_, err := Normalize(raw)
		assert.ErrorIs(t, err, ErrInvalidSkillType, raw)
	}
}

func TestAliases(t *testing.T) {
	assert.Equal(t, []string{"offer", "teach"}, Aliases(TypeTeach))
	assert.Equal(t, []string{"learn", "need"}, Aliases(TypeLearn))
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"api", "fastapi"}, NormalizeTags([]string{"API", " fastapi", "api", ""}))
}

func TestResolveCapabilities_NoRecords(t *testing.T) {
	c := ResolveCapabilities(uuid.New(), nil)
	assert.False(t, c.CanTeach)
	assert.False(t, c.CanLearn)
}

func TestResolveCapabilities_BothFlags(t *testing.T) {
	user := uuid.New()
	other := uuid.New()
	records := []Record{
		{ID: uuid.New(), UserID: user, SkillID: uuid.New(), Type: "offer"},
		{ID: uuid.New(), UserID: user, SkillID: uuid.New(), Type: "Need"},
		{ID: uuid.New(), UserID: other, SkillID: uuid.New(), Type: "teach"},
	}
	c := ResolveCapabilities(user, records)
	assert.True(t, c.CanTeach)
	assert.True(t, c.CanLearn)

	c = ResolveCapabilities(other, records)
	assert.True(t, c.CanTeach)
	assert.False(t, c.CanLearn)
}

func TestResolveCapabilities_IgnoresUnknownType(t *testing.T) {
	user := uuid.New()
	c := ResolveCapabilities(user, []Record{{ID: uuid.New(), UserID: user, SkillID: uuid.New(), Type: "mentor"}})
	assert.False(t, c.CanTeach)
	assert.False(t, c.CanLearn)
}

func TestDeduplicate_CollapsesAliasRows(t *testing.T) {
	user := uuid.New()
	python := uuid.New()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	first := Record{ID: uuid.New(), UserID: user, SkillID: python, SkillName: "Python", Type: "offer", ProficiencyLevel: "beginner", Tags: []string{"old"}, CreatedAt: base}
	second := Record{ID: uuid.New(), UserID: user, SkillID: python, SkillName: "Python", Type: "teach", ProficiencyLevel: "advanced", Tags: []string{"canonical", "old"}, CreatedAt: base.Add(time.Hour)}
	learn := Record{ID: uuid.New(), UserID: user, SkillID: python, SkillName: "Python", Type: "learn", CreatedAt: base}

	out := Deduplicate([]Record{second, learn, first})
	require.Len(t, out, 2)

	var teach Record
	for _, r := range out {
		if r.Type == string(TypeTeach) {
			teach = r
		}
	}
	assert.Equal(t, first.ID, teach.ID)
	assert.Equal(t, "beginner", teach.ProficiencyLevel)
	assert.Equal(t, []string{"canonical", "old"}, teach.Tags)

	assert.Equal(t, []uuid.UUID{second.ID}, Duplicates([]Record{second, learn, first}))
}

func TestDeduplicate_TieBrokenByLowestID(t *testing.T) {
	user := uuid.New()
	sk := uuid.New()
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	out := Deduplicate([]Record{
		{ID: high, UserID: user, SkillID: sk, Type: "teach", CreatedAt: at},
		{ID: low, UserID: user, SkillID: sk, Type: "offer", CreatedAt: at},
	})
	require.Len(t, out, 1)
	assert.Equal(t, low, out[0].ID)
	assert.Equal(t, "teach", out[0].Type)
}

func TestCanTeachSkill_ExactSkillOnly(t *testing.T) {
	mentor := uuid.New()
	python := uuid.New()
	sql := uuid.New()
	records := []Record{
		{ID: uuid.New(), UserID: mentor, SkillID: python, Type: "teach"},
		{ID: uuid.New(), UserID: mentor, SkillID: sql, Type: "learn"},
	}
	assert.True(t, CanTeachSkill(mentor, records, python))
	assert.False(t, CanTeachSkill(mentor, records, sql))
	assert.False(t, CanTeachSkill(uuid.New(), records, python))
}

func TestRefsOfType_SortedAndDistinct(t *testing.T) {
	user := uuid.New()
	a := uuid.New()
	b := uuid.New()
	refs := RefsOfType(user, []Record{
		{ID: uuid.New(), UserID: user, SkillID: b, SkillName: "SQL", Type: "teach"},
		{ID: uuid.New(), UserID: user, SkillID: a, SkillName: "Python", Type: "offer"},
		{ID: uuid.New(), UserID: user, SkillID: a, SkillName: "Python", Type: "teach"},
	}, TypeTeach)
	assert.Equal(t, []Ref{{ID: a, Name: "Python"}, {ID: b, Name: "SQL"}}, refs)
}

func TestNormalizeProficiency(t *testing.T) {
	got, err := NormalizeProficiency("  advanced ")
	require.NoError(t, err)
	assert.Equal(t, "Advanced", got)

	got, err = NormalizeProficiency("")
	require.NoError(t, err)
	assert.Equal(t, "Beginner", got)

	_, err = NormalizeProficiency("guru")
	assert.ErrorIs(t, err, ErrInvalidProficiency)
}
