package models

// Page is one page of a paginated listing.
type Page[T any] struct {
	Data      []T   `json:"data"`
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	PageCount int   `json:"pageCount"`
}

// Pages returns the number of pages. The backend's pageCount wins; otherwise
// it is derived from total and limit. There is always at least one page.
func (p Page[T]) Pages() int {
	if p.PageCount > 0 {
		return p.PageCount
	}
	if p.Limit <= 0 || p.Total <= 0 {
		return 1
	}
	n := int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
	if n < 1 {
		return 1
	}
	return n
}

// HasNext reports whether a page after the current one exists.
func (p Page[T]) HasNext() bool {
	return p.Page < p.Pages()
}
