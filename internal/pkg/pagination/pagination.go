// Package pagination parses list query parameters and carries one page of results.
//
// Every list endpoint declares a Spec (allowed sort keys, default sort, page size
// bounds) and shares the same parsing and page shape.
package pagination

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/haulpoint/haulpoint-backend-go/internal/pkg/validator"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Spec describes the paging contract of one list endpoint.
type Spec struct {
	DefaultPerPage   int
	MaxPerPage       int
	DefaultSort      string
	DefaultDirection Direction
	// Sortable maps a public sort_by value to the SQL expression it orders by.
	Sortable map[string]string
}

// Params is a parsed, validated page request.
type Params struct {
	Page          int
	PerPage       int
	SortBy        string
	SortDirection Direction
	sortExpr      string
}

// Parse reads page, per_page, sort_by and sort_direction. per_page above the
// maximum is clamped; malformed values are validation errors.
func (s Spec) Parse(q url.Values) (Params, error) {
	var errs validator.ValidationErrors

	p := Params{
		Page:          1,
		PerPage:       s.DefaultPerPage,
		SortBy:        s.DefaultSort,
		SortDirection: s.DefaultDirection,
	}
	if p.SortDirection == "" {
		p.SortDirection = Desc
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			errs.Add("page", "page must be a positive integer")
		} else {
			p.Page = page
		}
	}

	if raw := q.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 {
			errs.Add("per_page", "per_page must be a positive integer")
		} else {
			p.PerPage = perPage
		}
	}
	if s.MaxPerPage > 0 && p.PerPage > s.MaxPerPage {
		p.PerPage = s.MaxPerPage
	}

	if raw := q.Get("sort_by"); raw != "" {
		if _, ok := s.Sortable[raw]; !ok {
			errs.Add("sort_by", fmt.Sprintf("sort_by must be one of: %s", strings.Join(s.sortKeys(), ", ")))
		} else {
			p.SortBy = raw
		}
	}

	if raw := strings.ToLower(q.Get("sort_direction")); raw != "" {
		switch Direction(raw) {
		case Asc, Desc:
			p.SortDirection = Direction(raw)
		default:
			errs.Add("sort_direction", "sort_direction must be asc or desc")
		}
	}

	if len(errs) > 0 {
		return Params{}, errs
	}

	p.sortExpr = s.Sortable[p.SortBy]
	return p, nil
}

// Defaults returns the first page with the default sort, as Parse would for an empty query.
func (s Spec) Defaults() Params {
	p, _ := s.Parse(url.Values{})
	return p
}

func (s Spec) sortKeys() []string {
	keys := make([]string, 0, len(s.Sortable))
	for k := range s.Sortable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Offset is the number of rows to skip.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// OrderBy renders the ORDER BY body. Both parts come from the Spec whitelist.
func (p Params) OrderBy() string {
	dir := "DESC"
	if p.SortDirection == Asc {
		dir = "ASC"
	}
	if p.sortExpr == "" {
		return "created_at " + dir
	}
	return p.sortExpr + " " + dir
}

// Page is one page of items plus the totals needed for pagination metadata.
type Page[T any] struct {
	Items   []T
	Total   int64
	Page    int
	PerPage int
}

func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: p.Page, PerPage: p.PerPage}
}

// LastPage is at least 1, even for an empty result.
func (p Page[T]) LastPage() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

// Map converts every item while keeping the paging totals.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return Page[U]{Items: out, Total: p.Total, Page: p.Page, PerPage: p.PerPage}
}

// DateParam parses an optional YYYY-MM-DD query value, recording a field error when malformed.
func DateParam(q url.Values, key string, errs *validator.ValidationErrors) *time.Time {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	d, ok := validator.IsValidDate(raw)
	if !ok {
		errs.Add(key, key+" must be a date in YYYY-MM-DD format")
		return nil
	}
	return &d
}

// EnumParam reads an optional value that must be one of allowed.
func EnumParam(q url.Values, key string, allowed []string, errs *validator.ValidationErrors) *string {
	raw := strings.ToLower(strings.TrimSpace(q.Get(key)))
	if raw == "" {
		return nil
	}
	if !validator.IsInSlice(raw, allowed) {
		errs.Add(key, fmt.Sprintf("%s must be one of: %s", key, strings.Join(allowed, ", ")))
		return nil
	}
	return &raw
}
