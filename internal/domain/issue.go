package domain

import "time"

// IssueStatus represents the lifecycle state of an issue.
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "open"
	IssueStatusInProgress IssueStatus = "in-progress"
	IssueStatusClosed     IssueStatus = "closed"
)

// IssuePriority represents the urgency of an issue.
type IssuePriority string

const (
	IssuePriorityLow      IssuePriority = "low"
	IssuePriorityMedium   IssuePriority = "medium"
	IssuePriorityHigh     IssuePriority = "high"
	IssuePriorityCritical IssuePriority = "critical"
)

// Unassigned is the default assignee for issues nobody owns. It is
// excluded from the distinct-assignee listing.
const Unassigned = "Unassigned"

// Issue is a trackable unit of work. Status and priority are stored as
// provided: the service layer does not reject values outside the known
// constants.
type Issue struct {
	ID          string        `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	Status      IssueStatus   `json:"status" db:"status"`
	Priority    IssuePriority `json:"priority" db:"priority"`
	Assignee    string        `json:"assignee" db:"assignee"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`
}
