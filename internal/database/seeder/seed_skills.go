package seeder

import (
	"context"
	"fmt"

	"skillswap/internal/database"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "description", "category", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Name        string
		Description string
		Category    string
	}{
		{Name: "Python Programming", Description: "Core Python syntax, data structures and idioms", Category: "Programming"},
		{Name: "FastAPI Backend Development", Description: "Building HTTP APIs with FastAPI", Category: "Programming"},
		{Name: "Data Analysis with Python", Description: "pandas, notebooks and exploratory analysis", Category: "Data"},
		{Name: "SQL Fundamentals", Description: "Querying and modelling relational data", Category: "Data"},
		{Name: "Testing and Debugging in Python", Description: "pytest, fixtures and debugging workflows", Category: "Programming"},
		{Name: "Web Design Basics", Description: "HTML, CSS and layout", Category: "Design"},
		{Name: "UI/UX Design with Figma", Description: "Wireframes, prototypes and design systems", Category: "Design"},
		{Name: "Graphic Design Essentials", Description: "Typography, colour and composition", Category: "Design"},
		{Name: "Digital Marketing Fundamentals", Description: "Channels, funnels and campaign basics", Category: "Business"},
		{Name: "Project Management with Agile", Description: "Scrum, kanban and delivery planning", Category: "Business"},
		{Name: "Public Speaking and Communication", Description: "Presenting and structuring talks", Category: "Soft Skills"},
	}

	for _, it := range items {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO skills (id, name, description, category) VALUES (gen_random_uuid(), $1, $2, $3) ON CONFLICT (name) DO NOTHING`,
			it.Name,
			it.Description,
			it.Category,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
