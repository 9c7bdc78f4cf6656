package domain

// PaginationParams holds offset-based pagination parameters for list queries.
// From is the number of rows to skip, Size the page size.
type PaginationParams struct {
	From int
	Size int
}

// Offset returns the row offset, clamped at zero.
func (p PaginationParams) Offset() int {
	if p.From < 0 {
		return 0
	}
	return p.From
}

// Limit returns the page size, falling back to 10 when unset or invalid.
func (p PaginationParams) Limit() int {
	if p.Size < 1 {
		return 10
	}
	return p.Size
}
