package seeder

import (
	"context"
	"fmt"

	"skillswap/internal/database"
	"skillswap/internal/domain/skill"
)

// SkillTypeSeeder rewrites legacy skill_type labels to their canonical value.
// Rows with an unrecognized label are left alone.
type SkillTypeSeeder struct{}

func (SkillTypeSeeder) Name() string { return "user_skill_types" }

func (SkillTypeSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "user_skills", "skill_type"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, t := range []skill.CanonicalType{skill.TypeTeach, skill.TypeLearn} {
		if _, err := tx.Exec(
			ctx,
			`UPDATE user_skills SET skill_type = $1 WHERE lower(btrim(skill_type)) = ANY($2) AND skill_type <> $1`,
			string(t),
			skill.Aliases(t),
		); err != nil {
			return fmt.Errorf("normalize %s: %w", t, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
