package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akshatcodegenics/Issue-tracker/internal/domain"
	"github.com/Akshatcodegenics/Issue-tracker/internal/events"
	"github.com/Akshatcodegenics/Issue-tracker/internal/repository"
)

var errStoreDown = errors.New("connection refused")

// fakeStore is a configurable IssueStore test double.
type fakeStore struct {
	listFn     func(q repository.ListQuery) ([]domain.Issue, error)
	countFn    func(q repository.ListQuery) (int, error)
	getFn      func(id string) (*domain.Issue, error)
	insertFn   func(issue domain.Issue) (*domain.Issue, error)
	updateFn   func(issue domain.Issue) (*domain.Issue, error)
	distinctFn func() ([]string, error)
}

func (f *fakeStore) List(_ context.Context, q repository.ListQuery) ([]domain.Issue, error) {
	return f.listFn(q)
}
func (f *fakeStore) Count(_ context.Context, q repository.ListQuery) (int, error) {
	return f.countFn(q)
}
func (f *fakeStore) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	return f.getFn(id)
}
func (f *fakeStore) Insert(_ context.Context, issue domain.Issue) (*domain.Issue, error) {
	return f.insertFn(issue)
}
func (f *fakeStore) Update(_ context.Context, issue domain.Issue) (*domain.Issue, error) {
	return f.updateFn(issue)
}
func (f *fakeStore) DistinctAssignees(_ context.Context) ([]string, error) {
	return f.distinctFn()
}

func newTestService(store *fakeStore) (*IssueService, *events.Broadcaster) {
	b := events.NewBroadcaster()
	return NewIssueService(store, b), b
}

func TestListPaginationMetadata(t *testing.T) {
	store := &fakeStore{
		listFn: func(q repository.ListQuery) ([]domain.Issue, error) {
			return make([]domain.Issue, q.Limit), nil
		},
		countFn: func(repository.ListQuery) (int, error) { return 47, nil },
	}
	svc, _ := newTestService(store)

	result := svc.List(context.Background(), ListParams{Page: 2, PageSize: 10})

	assert.Equal(t, 2, result.Pagination.Page)
	assert.Equal(t, 10, result.Pagination.PageSize)
	assert.Equal(t, 47, result.Pagination.Total)
	assert.Equal(t, 5, result.Pagination.TotalPages, "totalPages must be ceil(total/pageSize)")
	assert.LessOrEqual(t, len(result.Issues), result.Pagination.PageSize)
}

func TestListDegradesToEmptyPageOnStoreFailure(t *testing.T) {
	store := &fakeStore{
		listFn:  func(repository.ListQuery) ([]domain.Issue, error) { return nil, errStoreDown },
		countFn: func(repository.ListQuery) (int, error) { return 0, nil },
	}
	svc, _ := newTestService(store)

	result := svc.List(context.Background(), ListParams{Page: 3, PageSize: 20})

	require.NotNil(t, result.Issues)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 3, result.Pagination.Page)
	assert.Equal(t, 20, result.Pagination.PageSize)
	assert.Zero(t, result.Pagination.Total)
	assert.Zero(t, result.Pagination.TotalPages)
}

func TestGetMapsStoreFailureToNotFound(t *testing.T) {
	store := &fakeStore{
		getFn: func(string) (*domain.Issue, error) { return nil, errStoreDown },
	}
	svc, _ := newTestService(store)

	_, err := svc.Get(context.Background(), "some-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateAppliesDefaults(t *testing.T) {
	var inserted domain.Issue
	store := &fakeStore{
		insertFn: func(issue domain.Issue) (*domain.Issue, error) {
			inserted = issue
			issue.ID = "issue-1"
			return &issue, nil
		},
	}
	svc, _ := newTestService(store)

	issue, err := svc.Create(context.Background(), CreateIssueInput{Title: "T", Description: "D"})
	require.NoError(t, err)

	assert.Equal(t, domain.IssueStatusOpen, issue.Status)
	assert.Equal(t, domain.IssuePriorityMedium, issue.Priority)
	assert.Equal(t, domain.Unassigned, issue.Assignee)
	assert.Equal(t, inserted.CreatedAt, inserted.UpdatedAt, "createdAt must equal updatedAt at creation")
	assert.False(t, inserted.CreatedAt.IsZero())
}

func TestCreateKeepsProvidedValues(t *testing.T) {
	store := &fakeStore{
		insertFn: func(issue domain.Issue) (*domain.Issue, error) { return &issue, nil },
	}
	svc, _ := newTestService(store)

	issue, err := svc.Create(context.Background(), CreateIssueInput{
		Title:       "T",
		Description: "D",
		Status:      "closed",
		Priority:    "critical",
		Assignee:    "Ada",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.IssueStatusClosed, issue.Status)
	assert.Equal(t, domain.IssuePriorityCritical, issue.Priority)
	assert.Equal(t, "Ada", issue.Assignee)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	insertCalled := false
	store := &fakeStore{
		insertFn: func(issue domain.Issue) (*domain.Issue, error) {
			insertCalled = true
			return &issue, nil
		},
	}
	svc, _ := newTestService(store)

	_, err := svc.Create(context.Background(), CreateIssueInput{Title: "T"})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Description", validationErr.Field)
	assert.False(t, insertCalled, "no record may be created on validation failure")
}

func TestCreateSignalsUnavailableOnStoreFailure(t *testing.T) {
	store := &fakeStore{
		insertFn: func(domain.Issue) (*domain.Issue, error) { return nil, errStoreDown },
	}
	svc, _ := newTestService(store)

	_, err := svc.Create(context.Background(), CreateIssueInput{Title: "T", Description: "D"})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestCreateBroadcastsExactlyOneEvent(t *testing.T) {
	store := &fakeStore{
		insertFn: func(issue domain.Issue) (*domain.Issue, error) {
			issue.ID = "issue-1"
			return &issue, nil
		},
	}
	svc, b := newTestService(store)
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	_, err := svc.Create(context.Background(), CreateIssueInput{Title: "T", Description: "D"})
	require.NoError(t, err)

	require.Len(t, ch, 1, "exactly one event per create")
	msg := <-ch
	assert.Equal(t, events.KindIssueCreated, msg.Kind)
	assert.Contains(t, string(msg.Data), `"issue-1"`)
}

func existingIssue() *domain.Issue {
	return &domain.Issue{
		ID:          "issue-1",
		Title:       "Original title",
		Description: "Original description",
		Status:      domain.IssueStatusOpen,
		Priority:    domain.IssuePriorityMedium,
		Assignee:    "Ada",
	}
}

func updateStore(existing *domain.Issue) *fakeStore {
	return &fakeStore{
		getFn: func(id string) (*domain.Issue, error) {
			if id == existing.ID {
				copied := *existing
				return &copied, nil
			}
			return nil, domain.ErrNotFound
		},
		updateFn: func(issue domain.Issue) (*domain.Issue, error) { return &issue, nil },
	}
}

func strPtr(s string) *string { return &s }

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	svc, _ := newTestService(updateStore(existingIssue()))

	issue, err := svc.Update(context.Background(), "issue-1", UpdateIssueInput{
		Status: strPtr("closed"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.IssueStatusClosed, issue.Status)
	assert.Equal(t, "Original title", issue.Title, "absent fields stay unchanged")
	assert.Equal(t, "Original description", issue.Description)
	assert.Equal(t, "Ada", issue.Assignee)
}

func TestUpdateIgnoresEmptyTitle(t *testing.T) {
	svc, _ := newTestService(updateStore(existingIssue()))

	issue, err := svc.Update(context.Background(), "issue-1", UpdateIssueInput{
		Title: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Original title", issue.Title)
}

func TestUpdateAppliesEmptyAssignee(t *testing.T) {
	svc, _ := newTestService(updateStore(existingIssue()))

	issue, err := svc.Update(context.Background(), "issue-1", UpdateIssueInput{
		Assignee: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "", issue.Assignee, "assignee is applied even when empty")
}

func TestUpdateStampsUpdatedAt(t *testing.T) {
	existing := existingIssue()
	svc, _ := newTestService(updateStore(existing))

	issue, err := svc.Update(context.Background(), "issue-1", UpdateIssueInput{
		Priority: strPtr("high"),
	})
	require.NoError(t, err)
	assert.True(t, issue.UpdatedAt.After(existing.UpdatedAt))
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newTestService(updateStore(existingIssue()))

	_, err := svc.Update(context.Background(), "missing", UpdateIssueInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateSignalsUnavailableOnStoreFailure(t *testing.T) {
	store := updateStore(existingIssue())
	store.updateFn = func(domain.Issue) (*domain.Issue, error) { return nil, errStoreDown }
	svc, _ := newTestService(store)

	_, err := svc.Update(context.Background(), "issue-1", UpdateIssueInput{})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestUpdateBroadcastsEvent(t *testing.T) {
	svc, b := newTestService(updateStore(existingIssue()))
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	_, err := svc.Update(context.Background(), "issue-1", UpdateIssueInput{Status: strPtr("closed")})
	require.NoError(t, err)

	require.Len(t, ch, 1)
	msg := <-ch
	assert.Equal(t, events.KindIssueUpdated, msg.Kind)
}

func TestAssigneesExcludesEmptyAndSentinel(t *testing.T) {
	store := &fakeStore{
		distinctFn: func() ([]string, error) {
			return []string{"", "Ada", "Unassigned", "Grace"}, nil
		},
	}
	svc, _ := newTestService(store)

	assert.Equal(t, []string{"Ada", "Grace"}, svc.Assignees(context.Background()))
}

func TestAssigneesDegradesToEmptySet(t *testing.T) {
	store := &fakeStore{
		distinctFn: func() ([]string, error) { return nil, errStoreDown },
	}
	svc, _ := newTestService(store)

	assignees := svc.Assignees(context.Background())
	require.NotNil(t, assignees)
	assert.Empty(t, assignees)
}
