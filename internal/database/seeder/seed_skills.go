package seeder

import (
	"context"
	"fmt"

	"talent-match/internal/database"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

type catalogSkill struct {
	Name     string
	Category string
}

var catalog = []catalogSkill{
	{Name: "Go", Category: "Programming Language"},
	{Name: "Java", Category: "Programming Language"},
	{Name: "Python", Category: "Programming Language"},
	{Name: "JavaScript", Category: "Programming Language"},
	{Name: "TypeScript", Category: "Programming Language"},
	{Name: "C#", Category: "Programming Language"},
	{Name: "React", Category: "Frontend"},
	{Name: "Vue", Category: "Frontend"},
	{Name: "Node.js", Category: "Backend"},
	{Name: "Spring Boot", Category: "Backend"},
	{Name: "PostgreSQL", Category: "Database"},
	{Name: "MongoDB", Category: "Database"},
	{Name: "Redis", Category: "Database"},
	{Name: "Docker", Category: "DevOps"},
	{Name: "Kubernetes", Category: "DevOps"},
	{Name: "Terraform", Category: "DevOps"},
	{Name: "AWS", Category: "Cloud"},
	{Name: "GCP", Category: "Cloud"},
	{Name: "Azure", Category: "Cloud"},
}

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "category", "created_at"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range catalog {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO skills (id, name, category) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT ((lower(name))) DO NOTHING`,
				it.Name,
				it.Category,
			)
			if err != nil {
				return fmt.Errorf("insert skill %s: %w", it.Name, err)
			}
		}
		return nil
	})
}
