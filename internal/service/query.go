package service

import "github.com/Akshatcodegenics/Issue-tracker/internal/repository"

// ListParams are the raw, all-optional parameters of a list request as
// extracted from the query string. Zero values mean "not supplied".
type ListParams struct {
	Search    string
	Status    string
	Priority  string
	Assignee  string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

const (
	defaultPage     = 1
	defaultPageSize = 10

	// assigneeAll is the sentinel that disables the assignee filter.
	assigneeAll = "all"
)

// sortColumns maps API sort keys to store columns. Unknown keys fall back
// to updatedAt; the mapped name is safe to interpolate into SQL.
var sortColumns = map[string]string{
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
	"assignee":  "assignee",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// BuildListQuery translates raw list parameters into a store query. Pure:
// no side effects, no validation errors. Absent parameters impose no
// filter; filters compose conjunctively. Any sort order other than "asc"
// means descending. Non-positive page and pageSize take their defaults,
// and no upper bound is placed on pageSize.
func BuildListQuery(p ListParams) repository.ListQuery {
	q := repository.ListQuery{
		Search:   p.Search,
		Status:   p.Status,
		Priority: p.Priority,
	}

	if p.Assignee != "" && p.Assignee != assigneeAll {
		q.Assignee = p.Assignee
	}

	col, ok := sortColumns[p.SortBy]
	if !ok {
		col = sortColumns["updatedAt"]
	}
	q.SortKey = col
	q.SortDesc = p.SortOrder != "asc"

	page := p.Page
	if page < defaultPage {
		page = defaultPage
	}
	pageSize := p.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	q.Limit = pageSize
	q.Offset = (page - 1) * pageSize
	return q
}
