package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Akshatcodegenics/Issue-tracker/internal/repository"
)

func TestBuildWhereNoFilters(t *testing.T) {
	clause, args := buildWhere(repository.ListQuery{})
	assert.Empty(t, clause)
	assert.Empty(t, args)
}

func TestBuildWhereSearchOnly(t *testing.T) {
	clause, args := buildWhere(repository.ListQuery{Search: "login"})
	assert.Equal(t, "WHERE title ILIKE $1", clause)
	assert.Equal(t, []any{"%login%"}, args)
}

func TestBuildWhereAllFilters(t *testing.T) {
	clause, args := buildWhere(repository.ListQuery{
		Search:   "login",
		Status:   "open",
		Priority: "critical",
		Assignee: "Ada",
	})

	assert.Equal(t,
		"WHERE title ILIKE $1 AND status = $2 AND priority = $3 AND assignee = $4",
		clause)
	assert.Equal(t, []any{"%login%", "open", "critical", "Ada"}, args)
}

func TestBuildWherePositionsFollowPresentFilters(t *testing.T) {
	clause, args := buildWhere(repository.ListQuery{
		Priority: "high",
		Assignee: "Ada",
	})

	assert.Equal(t, "WHERE priority = $1 AND assignee = $2", clause)
	assert.Equal(t, []any{"high", "Ada"}, args)
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "ORDER BY updated_at DESC",
		orderBy(repository.ListQuery{SortKey: "updated_at", SortDesc: true}))
	assert.Equal(t, "ORDER BY title ASC",
		orderBy(repository.ListQuery{SortKey: "title"}))
}
