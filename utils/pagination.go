package utils

import "strconv"

// PageInfo describes the slice of an ordered result set handed to the view.
type PageInfo struct {
	Number      int  `json:"number"`
	NumPages    int  `json:"num_pages"`
	PageSize    int  `json:"page_size"`
	Total       int  `json:"total"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// ParsePage turns the untrusted page query parameter into a page number.
// Anything non-numeric or below one degrades to the first page.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// NumPages returns how many pages a result set of the given size occupies. An
// empty set still has one (empty) page, matching standard paginator semantics.
func NumPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate slices items to the requested 1-based page. Out-of-range page
// numbers never fail: pages past the end clamp to the last page and pages
// below one clamp to the first.
func Paginate[T any](items []T, page, pageSize int) ([]T, PageInfo) {
	if pageSize < 1 {
		pageSize = 1
	}
	numPages := NumPages(len(items), pageSize)
	if page < 1 {
		page = 1
	}
	if page > numPages {
		page = numPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	info := PageInfo{
		Number:      page,
		NumPages:    numPages,
		PageSize:    pageSize,
		Total:       len(items),
		HasNext:     page < numPages,
		HasPrevious: page > 1,
	}
	return items[start:end], info
}
