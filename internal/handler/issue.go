package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Akshatcodegenics/Issue-tracker/internal/domain"
	"github.com/Akshatcodegenics/Issue-tracker/internal/service"
)

// IssueHandler wires the issue endpoints to the service layer.
type IssueHandler struct {
	issues *service.IssueService
}

// NewIssueHandler creates a new IssueHandler.
func NewIssueHandler(issues *service.IssueService) *IssueHandler {
	return &IssueHandler{issues: issues}
}

// List handles GET /issues.
func (h *IssueHandler) List(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()
	params := service.ListParams{
		Search:    strings.TrimSpace(qv.Get("search")),
		Status:    strings.TrimSpace(qv.Get("status")),
		Priority:  strings.TrimSpace(qv.Get("priority")),
		Assignee:  strings.TrimSpace(qv.Get("assignee")),
		SortBy:    qv.Get("sortBy"),
		SortOrder: qv.Get("sortOrder"),
		Page:      queryInt(qv, "page", 0),
		PageSize:  queryInt(qv, "pageSize", 0),
	}

	WriteJSON(w, http.StatusOK, h.issues.List(r.Context(), params))
}

// Get handles GET /issues/{id}.
func (h *IssueHandler) Get(w http.ResponseWriter, r *http.Request) {
	issue, err := h.issues.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, issue)
}

// Create handles POST /issues.
func (h *IssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateIssueInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		WriteError(w, fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput))
		return
	}

	issue, err := h.issues.Create(r.Context(), in)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, issue)
}

// Update handles PUT /issues/{id}.
func (h *IssueHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateIssueInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		WriteError(w, fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput))
		return
	}

	issue, err := h.issues.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, issue)
}

// Assignees handles GET /assignees.
func (h *IssueHandler) Assignees(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.issues.Assignees(r.Context()))
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is missing or malformed.
func queryInt(q url.Values, key string, def int) int {
	v := q.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
