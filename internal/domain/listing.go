// Package domain provides shared business-layer types.
package domain

// Page contains limit/offset pagination parameters.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps pagination values to safe bounds.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Limit > 200 {
		p.Limit = 200
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// HasMore reports whether rows exist beyond the returned page.
func (r ListResult[T]) HasMore() bool {
	return int64(r.Offset+len(r.Items)) < r.TotalCount
}
