package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Akshatcodegenics/Issue-tracker/internal/domain"
	"github.com/Akshatcodegenics/Issue-tracker/internal/events"
	"github.com/Akshatcodegenics/Issue-tracker/internal/repository"
)

// IssueStore defines the issue data access interface consumed by IssueService.
type IssueStore interface {
	List(ctx context.Context, q repository.ListQuery) ([]domain.Issue, error)
	Count(ctx context.Context, q repository.ListQuery) (int, error)
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	Insert(ctx context.Context, issue domain.Issue) (*domain.Issue, error)
	Update(ctx context.Context, issue domain.Issue) (*domain.Issue, error)
	DistinctAssignees(ctx context.Context) ([]string, error)
}

// Pagination describes one page of a list result.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListResult is the response body of a list request.
type ListResult struct {
	Issues     []domain.Issue `json:"issues"`
	Pagination Pagination     `json:"pagination"`
}

// CreateIssueInput is the payload for creating an issue. Status, priority
// and assignee are optional and take defaults when empty.
type CreateIssueInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Assignee    string `json:"assignee"`
}

// UpdateIssueInput is a partial update. Nil fields are left unchanged.
// Title, description, status and priority are also ignored when provided
// empty; assignee is applied whenever present, including the empty string.
type UpdateIssueInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	Assignee    *string `json:"assignee"`
}

// IssueService orchestrates the query builder, the store and the
// broadcaster to serve list/detail/create/update requests.
type IssueService struct {
	store       IssueStore
	broadcaster *events.Broadcaster
	validate    *validator.Validate
	now         func() time.Time
}

// NewIssueService creates a new IssueService.
func NewIssueService(store IssueStore, broadcaster *events.Broadcaster) *IssueService {
	return &IssueService{
		store:       store,
		broadcaster: broadcaster,
		validate:    validator.New(),
		now:         time.Now,
	}
}

// List returns one page of issues with pagination metadata. Read paths
// degrade gracefully: a store failure yields an empty, well-formed page.
func (s *IssueService) List(ctx context.Context, p ListParams) ListResult {
	q := BuildListQuery(p)

	page := q.Offset/q.Limit + 1
	empty := ListResult{
		Issues:     []domain.Issue{},
		Pagination: Pagination{Page: page, PageSize: q.Limit},
	}

	issues, err := s.store.List(ctx, q)
	if err != nil {
		slog.Warn("list issues degraded to empty page", "error", err)
		return empty
	}

	total, err := s.store.Count(ctx, q)
	if err != nil {
		slog.Warn("count issues degraded to empty page", "error", err)
		return empty
	}

	return ListResult{
		Issues: issues,
		Pagination: Pagination{
			Page:       page,
			PageSize:   q.Limit,
			Total:      total,
			TotalPages: (total + q.Limit - 1) / q.Limit,
		},
	}
}

// Get fetches a single issue. An unreachable store reads as not found,
// matching the read-detail contract.
func (s *IssueService) Get(ctx context.Context, id string) (*domain.Issue, error) {
	issue, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return issue, nil
}

// Create validates the input, persists a new issue with defaults applied
// and broadcasts an issue-created event.
func (s *IssueService) Create(ctx context.Context, in CreateIssueInput) (*domain.Issue, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	now := s.now()
	issue := domain.Issue{
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.IssueStatusOpen,
		Priority:    domain.IssuePriorityMedium,
		Assignee:    domain.Unassigned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Status != "" {
		issue.Status = domain.IssueStatus(in.Status)
	}
	if in.Priority != "" {
		issue.Priority = domain.IssuePriority(in.Priority)
	}
	if in.Assignee != "" {
		issue.Assignee = in.Assignee
	}

	stored, err := s.store.Insert(ctx, issue)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	s.broadcaster.Broadcast(events.KindIssueCreated, *stored)
	return stored, nil
}

// Update applies a partial update to an existing issue, stamps UpdatedAt
// and broadcasts an issue-updated event. Two concurrent updates race with
// last-writer-wins; there is no conflict detection.
func (s *IssueService) Update(ctx context.Context, id string, in UpdateIssueInput) (*domain.Issue, error) {
	issue, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	if in.Title != nil && *in.Title != "" {
		issue.Title = *in.Title
	}
	if in.Description != nil && *in.Description != "" {
		issue.Description = *in.Description
	}
	if in.Status != nil && *in.Status != "" {
		issue.Status = domain.IssueStatus(*in.Status)
	}
	if in.Priority != nil && *in.Priority != "" {
		issue.Priority = domain.IssuePriority(*in.Priority)
	}
	// Assignee is the explicit-override exception: any provided value is
	// applied, including "".
	if in.Assignee != nil {
		issue.Assignee = *in.Assignee
	}
	issue.UpdatedAt = s.now()

	stored, err := s.store.Update(ctx, *issue)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}

	s.broadcaster.Broadcast(events.KindIssueUpdated, *stored)
	return stored, nil
}

// Assignees returns the distinct assignee values across all issues,
// excluding empties and the Unassigned sentinel. Degrades to an empty set
// when the store is unreachable.
func (s *IssueService) Assignees(ctx context.Context) []string {
	values, err := s.store.DistinctAssignees(ctx)
	if err != nil {
		slog.Warn("list assignees degraded to empty set", "error", err)
		return []string{}
	}

	assignees := []string{}
	for _, v := range values {
		if v != "" && v != domain.Unassigned {
			assignees = append(assignees, v)
		}
	}
	return assignees
}

func (s *IssueService) validateInput(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &domain.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on '%s' validation", fe.Tag()),
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}
