package tournament

import (
	"net/url"
	"testing"
)

func TestParseListQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    ListQuery
		errPath string
	}{
		{"defaults", "", ListQuery{Page: 1, Limit: 10}, ""},
		{"explicit window", "page=3&limit=25", ListQuery{Page: 3, Limit: 25}, ""},
		{"filters", "title=chess&city=%20Pune%20", ListQuery{Page: 1, Limit: 10, Title: "chess", City: "Pune"}, ""},
		{"unknown params ignored", "sort=asc", ListQuery{Page: 1, Limit: 10}, ""},
		{"max limit", "limit=100", ListQuery{Page: 1, Limit: 100}, ""},
		{"page zero", "page=0", ListQuery{}, "page"},
		{"negative page", "page=-2", ListQuery{}, "page"},
		{"non-numeric page", "page=two", ListQuery{}, "page"},
		{"empty page", "page=", ListQuery{}, "page"},
		{"largest page", "page=92233720368547758&limit=100", ListQuery{Page: MaxPage, Limit: 100}, ""},
		{"page past offset range", "page=922337203685477582&limit=10", ListQuery{}, "page"},
		{"limit zero", "limit=0", ListQuery{}, "limit"},
		{"limit too large", "limit=101", ListQuery{}, "limit"},
		{"empty title", "title=", ListQuery{}, "title"},
		{"blank city", "city=%20%20", ListQuery{}, "city"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("url.ParseQuery(%q) error = %v", tt.query, err)
			}

			got, err := ParseListQuery(values)
			if tt.errPath != "" {
				verrs := validationErrors(t, err)
				if len(verrs[tt.errPath]) == 0 {
					t.Errorf("errors = %v, want entry at %q", verrs, tt.errPath)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseListQuery(%q) error = %v", tt.query, err)
			}
			if got != tt.want {
				t.Errorf("ParseListQuery(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{100, 1, 100},
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestListQuery_Offset(t *testing.T) {
	tests := []struct {
		q    ListQuery
		want int
	}{
		{ListQuery{Page: 1, Limit: 10}, 0},
		{ListQuery{Page: 2, Limit: 10}, 10},
		{ListQuery{Page: 3, Limit: 25}, 50},
		{ListQuery{Page: MaxPage, Limit: MaxLimit}, (MaxPage - 1) * MaxLimit},
	}

	for _, tt := range tests {
		if got := tt.q.Offset(); got != tt.want {
			t.Errorf("%+v.Offset() = %d, want %d", tt.q, got, tt.want)
		}
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage(nil, 0, ListQuery{Page: 1, Limit: 10})
	if p.Tournaments == nil {
		t.Error("Tournaments = nil, want empty slice")
	}
	if p.TotalPages != 0 || p.CurrentPage != 1 {
		t.Errorf("page = %+v, want currentPage 1 and totalPages 0", p)
	}

	p = NewPage([]*Tournament{}, 25, ListQuery{Page: 4, Limit: 10})
	if p.TotalPages != 3 || p.CurrentPage != 4 || p.Total != 25 {
		t.Errorf("page beyond last = %+v, want total 25, totalPages 3, currentPage 4", p)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"chess", "chess"},
		{"100%", `100\%`},
		{"under_score", `under\_score`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContainsFold(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"Chess Masters Championship 2025", "chess", true},
		{"State Championship", "CHAMP", true},
		{"University Tournament", "chess", false},
		{"Pune", "", true},
	}

	for _, tt := range tests {
		if got := ContainsFold(tt.s, tt.sub); got != tt.want {
			t.Errorf("ContainsFold(%q, %q) = %v, want %v", tt.s, tt.sub, got, tt.want)
		}
	}
}
