// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"stockpilot/internal/core/id"
	"stockpilot/internal/domain"
)

// --- Pagination ---

// PaginationRequest contains limit/offset pagination parameters.
type PaginationRequest struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Page converts to the domain pagination type with defaults applied.
func (p PaginationRequest) Page() domain.Page {
	return domain.Page{Limit: p.Limit, Offset: p.Offset}.Normalize()
}

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"hasMore"`
}

// NewListResponse builds a ListResponse from a domain list result.
func NewListResponse[T any](r domain.ListResult[T]) ListResponse {
	return ListResponse{
		Items:      r.Items,
		TotalCount: r.TotalCount,
		Limit:      r.Limit,
		Offset:     r.Offset,
		HasMore:    r.HasMore(),
	}
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
