package repository

// ListQuery is a store-ready description of an issue page: conjunctive
// filters for the fields actually supplied, a sanitized sort column, and
// an offset/limit window. Built by the service layer's query builder.
type ListQuery struct {
	Search   string // case-insensitive substring match on title
	Status   string // exact match when non-empty
	Priority string // exact match when non-empty
	Assignee string // exact match when non-empty
	SortKey  string // one of the issue columns; safe to interpolate
	SortDesc bool
	Limit    int
	Offset   int
}
