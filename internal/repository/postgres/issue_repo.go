package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Akshatcodegenics/Issue-tracker/internal/domain"
	"github.com/Akshatcodegenics/Issue-tracker/internal/repository"
)

const issueColumns = "id, title, description, status, priority, assignee, created_at, updated_at"

// IssueRepository handles issue data access operations.
type IssueRepository struct {
	db *sqlx.DB
}

// NewIssueRepository creates a new IssueRepository.
func NewIssueRepository(db *sqlx.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// buildWhere assembles the conjunctive WHERE clause for the filters present
// in q. Returns the clause (possibly empty) and its positional arguments.
func buildWhere(q repository.ListQuery) (string, []any) {
	var conds []string
	var args []any

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		conds = append(conds, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if q.Status != "" {
		args = append(args, q.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if q.Priority != "" {
		args = append(args, q.Priority)
		conds = append(conds, fmt.Sprintf("priority = $%d", len(args)))
	}
	if q.Assignee != "" {
		args = append(args, q.Assignee)
		conds = append(conds, fmt.Sprintf("assignee = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// orderBy renders the ORDER BY clause. q.SortKey is a column name already
// sanitized by the query builder.
func orderBy(q repository.ListQuery) string {
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", q.SortKey, dir)
}

// List returns one page of issues matching q.
func (r *IssueRepository) List(ctx context.Context, q repository.ListQuery) ([]domain.Issue, error) {
	whereSQL, args := buildWhere(q)

	query := fmt.Sprintf("SELECT %s FROM issues %s %s LIMIT $%d OFFSET $%d",
		issueColumns, whereSQL, orderBy(q), len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	issues := []domain.Issue{}
	if err := r.db.SelectContext(ctx, &issues, query, args...); err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}

// Count returns the total number of issues matching q's filters,
// ignoring the limit/offset window.
func (r *IssueRepository) Count(ctx context.Context, q repository.ListQuery) (int, error) {
	whereSQL, args := buildWhere(q)

	var n int
	query := "SELECT COUNT(*) FROM issues " + whereSQL
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count issues: %w", err)
	}
	return n, nil
}

// GetByID retrieves an issue by its identifier.
func (r *IssueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}

	var issue domain.Issue
	err := r.db.GetContext(ctx, &issue,
		fmt.Sprintf("SELECT %s FROM issues WHERE id = $1", issueColumns), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get issue %s: %w", id, err)
	}
	return &issue, nil
}

// Insert persists a new issue. The identifier is assigned here and never
// reused; timestamps are taken from the given record.
func (r *IssueRepository) Insert(ctx context.Context, issue domain.Issue) (*domain.Issue, error) {
	issue.ID = uuid.NewString()

	var stored domain.Issue
	err := r.db.QueryRowxContext(ctx,
		fmt.Sprintf(`INSERT INTO issues (%s)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING %s`, issueColumns, issueColumns),
		issue.ID, issue.Title, issue.Description, issue.Status, issue.Priority,
		issue.Assignee, issue.CreatedAt, issue.UpdatedAt,
	).StructScan(&stored)
	if err != nil {
		return nil, fmt.Errorf("insert issue: %w", err)
	}
	return &stored, nil
}

// Update overwrites the mutable fields of an existing issue.
func (r *IssueRepository) Update(ctx context.Context, issue domain.Issue) (*domain.Issue, error) {
	var stored domain.Issue
	err := r.db.QueryRowxContext(ctx,
		fmt.Sprintf(`UPDATE issues
		 SET title = $2, description = $3, status = $4, priority = $5,
		     assignee = $6, updated_at = $7
		 WHERE id = $1
		 RETURNING %s`, issueColumns),
		issue.ID, issue.Title, issue.Description, issue.Status, issue.Priority,
		issue.Assignee, issue.UpdatedAt,
	).StructScan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update issue %s: %w", issue.ID, err)
	}
	return &stored, nil
}

// DistinctAssignees returns every distinct assignee value in the store.
// Filtering of empty and sentinel values is the service layer's concern.
func (r *IssueRepository) DistinctAssignees(ctx context.Context) ([]string, error) {
	assignees := []string{}
	err := r.db.SelectContext(ctx, &assignees,
		"SELECT DISTINCT assignee FROM issues ORDER BY assignee")
	if err != nil {
		return nil, fmt.Errorf("distinct assignees: %w", err)
	}
	return assignees, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS issues (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'open',
	priority TEXT NOT NULL DEFAULT 'medium',
	assignee TEXT NOT NULL DEFAULT 'Unassigned',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_issues_updated_at ON issues (updated_at);
CREATE INDEX IF NOT EXISTS idx_issues_status ON issues (status);
`

// EnsureSchema creates the issues table and indexes if they do not exist.
func (r *IssueRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Truncate removes every issue. Used by the seed utility.
func (r *IssueRepository) Truncate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "TRUNCATE issues"); err != nil {
		return fmt.Errorf("truncate issues: %w", err)
	}
	return nil
}
