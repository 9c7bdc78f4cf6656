package helpers

import (
	"net/http"
	"strconv"

	"explorewithme/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultFrom = 0
	DefaultSize = 10
	MaxSize     = 100
)

// ParsePagination reads from and size from the request query string, clamps
// them to valid ranges, and returns domain.PaginationParams. Invalid or
// missing values fall back to defaults.
func ParsePagination(r *http.Request) domain.PaginationParams {
	from := DefaultFrom
	if s := r.URL.Query().Get("from"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			from = v
		}
	}
	size := DefaultSize
	if s := r.URL.Query().Get("size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			size = v
			if size > MaxSize {
				size = MaxSize
			}
		}
	}
	return domain.PaginationParams{From: from, Size: size}
}

// ParseID reads the named path value as a positive int64. The second return
// value is false when the value is missing or not a valid id.
func ParseID(r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
