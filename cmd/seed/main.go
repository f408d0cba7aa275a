// Command seed populates the store with sample issues for local
// development. It bootstraps the schema, clears existing rows and inserts
// the embedded fixture set.
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"

	"github.com/Akshatcodegenics/Issue-tracker/internal/config"
	"github.com/Akshatcodegenics/Issue-tracker/internal/domain"
	"github.com/Akshatcodegenics/Issue-tracker/internal/repository"
	"github.com/Akshatcodegenics/Issue-tracker/internal/repository/postgres"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type fixtureIssue struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
	Priority    string `yaml:"priority"`
	Assignee    string `yaml:"assignee"`
}

type fixtures struct {
	Issues []fixtureIssue `yaml:"issues"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var fx fixtures
	if err := yaml.Unmarshal(fixturesYAML, &fx); err != nil {
		return fmt.Errorf("parse fixtures: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewIssueRepository(db)

	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := repo.Truncate(ctx); err != nil {
		return err
	}

	now := time.Now()
	for _, f := range fx.Issues {
		issue := domain.Issue{
			Title:       f.Title,
			Description: f.Description,
			Status:      domain.IssueStatusOpen,
			Priority:    domain.IssuePriorityMedium,
			Assignee:    domain.Unassigned,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if f.Status != "" {
			issue.Status = domain.IssueStatus(f.Status)
		}
		if f.Priority != "" {
			issue.Priority = domain.IssuePriority(f.Priority)
		}
		if f.Assignee != "" {
			issue.Assignee = f.Assignee
		}

		if _, err := repo.Insert(ctx, issue); err != nil {
			return fmt.Errorf("insert %q: %w", f.Title, err)
		}
	}

	count, err := repo.Count(ctx, repository.ListQuery{})
	if err != nil {
		return err
	}

	slog.Info("seeded issues", "count", count)
	return nil
}
