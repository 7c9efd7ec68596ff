// Package pagination holds the paging arithmetic shared by the repositories.
package pagination

// Clamp normalizes page and pageSize before use: each is floored to an
// integer and raised to at least 1.
func Clamp(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return page, pageSize
}

// Offset returns the start of the half-open row window
// [(page-1)*pageSize, page*pageSize) for clamped inputs.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// TotalPages is max(1, ceil(total/pageSize)). It never returns 0, so callers
// can clamp a page cursor without dividing by zero.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 {
		return 1
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}
