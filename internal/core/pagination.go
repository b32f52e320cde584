// AngelaMos | 2026
// pagination.go

package core

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ListParams struct {
	Page     int
	PageSize int
	Search   string
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.Search = strings.TrimSpace(p.Search)
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// SearchPattern returns the ILIKE operand for Search with wildcards escaped.
func (p *ListParams) SearchPattern() string {
	return "%" + EscapeLike(p.Search) + "%"
}

func ParseListParams(r *http.Request) ListParams {
	params := ListParams{
		Page:     ParseIntQuery(r, "page", 1),
		PageSize: ParseIntQuery(r, "page_size", DefaultPageSize),
		Search:   r.URL.Query().Get("search"),
	}
	params.Normalize()
	return params
}

func ParseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

func ParseBoolQuery(r *http.Request, key string) bool {
	parsed, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && parsed
}

func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
