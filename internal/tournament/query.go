package tournament

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within int for every accepted limit.
	MaxPage = math.MaxInt / MaxLimit
)

// ListQuery is a validated list/search request. Empty filters are unset.
type ListQuery struct {
	Page  int
	Limit int
	Title string
	City  string
}

// Offset is the number of rows skipped before the requested page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ParseListQuery reads page, limit, title and city from the query string.
// Unknown parameters are ignored.
func ParseListQuery(values url.Values) (ListQuery, error) {
	errs := Errors{}
	q := ListQuery{
		Page:  queryInt(values, "page", DefaultPage, 1, MaxPage, errs),
		Limit: queryInt(values, "limit", DefaultLimit, 1, MaxLimit, errs),
		Title: queryFilter(values, "title", errs),
		City:  queryFilter(values, "city", errs),
	}
	if len(errs) > 0 {
		return ListQuery{}, errs
	}
	return q, nil
}

// queryInt parses an integer parameter bounded by [min, max].
func queryInt(values url.Values, key string, fallback, min, max int, errs Errors) int {
	if _, ok := values[key]; !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(values.Get(key)))
	if err != nil {
		errs.add(key, "Expected integer")
		return fallback
	}
	if n < min {
		errs.add(key, fmt.Sprintf("Number must be greater than or equal to %d", min))
	}
	if n > max {
		errs.add(key, fmt.Sprintf("Number must be less than or equal to %d", max))
	}
	return n
}

func queryFilter(values url.Values, key string, errs Errors) string {
	if _, ok := values[key]; !ok {
		return ""
	}
	v := strings.TrimSpace(values.Get(key))
	if v == "" {
		errs.add(key, "Filter must not be empty")
	}
	return v
}

// Page is one page of list results.
type Page struct {
	Tournaments []*Tournament `json:"tournaments"`
	Total       int64         `json:"total"`
	CurrentPage int           `json:"currentPage"`
	TotalPages  int           `json:"totalPages"`
}

// NewPage assembles a page, guaranteeing a non-nil slice.
func NewPage(items []*Tournament, total int64, q ListQuery) *Page {
	if items == nil {
		items = []*Tournament{}
	}
	return &Page{
		Tournaments: items,
		Total:       total,
		CurrentPage: q.Page,
		TotalPages:  TotalPages(total, q.Limit),
	}
}

// TotalPages is ceil(total / limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// ContainsFold reports whether s contains substr, ignoring case. It is the
// in-process counterpart of the repository's ILIKE filter.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// escapeLike escapes LIKE metacharacters so filters match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
