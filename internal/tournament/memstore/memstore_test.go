package memstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/chessdir/tournaments/internal/tournament"
)

func newTournament(title, city string) *tournament.Tournament {
	t := &tournament.Tournament{
		Title:                    title,
		OrganizerName:            "Organizer",
		TournamentLevel:          "club",
		RegistrationFeesCurrency: tournament.DefaultCurrency,
	}
	if city != "" {
		t.City = &city
	}
	return t
}

// seedStore creates n tournaments one second apart so creation order is
// deterministic.
func seedStore(t *testing.T, n int) (*Store, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s := New(clock)
	for i := 1; i <= n; i++ {
		if err := s.Create(context.Background(), newTournament(fmt.Sprintf("Open %02d", i), "")); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		clock.Advance(time.Second)
	}
	return s, clock
}

func TestStore_CreateAssignsIDAndTimestamps(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	s := New(clock)

	rec := newTournament("Summer Rapid", "Pune")
	if err := s.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.ID != 1 {
		t.Errorf("ID = %d, want 1", rec.ID)
	}
	if !rec.CreatedAt.Equal(clock.Now()) || !rec.UpdatedAt.Equal(clock.Now()) {
		t.Errorf("timestamps = %v/%v, want %v", rec.CreatedAt, rec.UpdatedAt, clock.Now())
	}

	got, err := s.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Summer Rapid" || got.City == nil || *got.City != "Pune" {
		t.Errorf("Get() = %+v, want stored record", got)
	}

	// Returned records are copies.
	*got.City = "Mumbai"
	again, _ := s.Get(context.Background(), rec.ID)
	if *again.City != "Pune" {
		t.Errorf("City = %q after mutating a returned copy, want Pune", *again.City)
	}
}

func TestStore_DuplicateTitle(t *testing.T) {
	s := New(clockwork.NewFakeClock())
	ctx := context.Background()

	if err := s.Create(ctx, newTournament("Winter Blitz", "")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	err := s.Create(ctx, newTournament("Winter Blitz", ""))
	if !errors.Is(err, tournament.ErrDuplicateTitle) {
		t.Errorf("Create() duplicate error = %v, want ErrDuplicateTitle", err)
	}
}

func TestStore_ListPagination(t *testing.T) {
	s, _ := seedStore(t, 25)
	ctx := context.Background()

	tests := []struct {
		page, limit int
		wantLen     int
		wantFirst   string
	}{
		{1, 10, 10, "Open 25"},
		{2, 10, 10, "Open 15"},
		{3, 10, 5, "Open 05"},
		{4, 10, 0, ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			p, err := s.List(ctx, tournament.ListQuery{Page: tt.page, Limit: tt.limit})
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if p.Total != 25 || p.TotalPages != 3 || p.CurrentPage != tt.page {
				t.Errorf("page meta = total %d, pages %d, current %d", p.Total, p.TotalPages, p.CurrentPage)
			}
			if len(p.Tournaments) != tt.wantLen {
				t.Fatalf("len(Tournaments) = %d, want %d", len(p.Tournaments), tt.wantLen)
			}
			if tt.wantLen > 0 && p.Tournaments[0].Title != tt.wantFirst {
				t.Errorf("first = %q, want %q", p.Tournaments[0].Title, tt.wantFirst)
			}
		})
	}
}

func TestStore_ListFarPage(t *testing.T) {
	s, _ := seedStore(t, 3)

	p, err := s.List(context.Background(), tournament.ListQuery{Page: tournament.MaxPage, Limit: tournament.MaxLimit})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if p.Total != 3 || len(p.Tournaments) != 0 {
		t.Errorf("page = total %d, len %d, want 3 and empty", p.Total, len(p.Tournaments))
	}
}

func TestStore_ListTiesBrokenByID(t *testing.T) {
	s := New(clockwork.NewFakeClock())
	ctx := context.Background()
	for _, title := range []string{"A", "B", "C"} {
		if err := s.Create(ctx, newTournament(title, "")); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	p, err := s.List(ctx, tournament.ListQuery{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var got []string
	for _, rec := range p.Tournaments {
		got = append(got, rec.Title)
	}
	if fmt.Sprint(got) != "[C B A]" {
		t.Errorf("order = %v, want [C B A]", got)
	}
}

func TestStore_ListFilters(t *testing.T) {
	s := New(clockwork.NewFakeClock())
	ctx := context.Background()
	records := []*tournament.Tournament{
		newTournament("Chess Masters Championship 2025", "Chennai"),
		newTournament("State Championship", "Pune"),
		newTournament("University Tournament", ""),
	}
	for _, rec := range records {
		if err := s.Create(ctx, rec); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tests := []struct {
		name      string
		q         tournament.ListQuery
		wantTotal int64
	}{
		{"title substring any case", tournament.ListQuery{Title: "CHAMPIONSHIP"}, 2},
		{"title chess", tournament.ListQuery{Title: "chess"}, 1},
		{"city", tournament.ListQuery{City: "pun"}, 1},
		{"null city excluded", tournament.ListQuery{City: "e"}, 2},
		{"filters are ANDed", tournament.ListQuery{Title: "championship", City: "chennai"}, 1},
		{"no match", tournament.ListQuery{Title: "blitz"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.q.Page, tt.q.Limit = 1, 10
			p, err := s.List(ctx, tt.q)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if p.Total != tt.wantTotal || int64(len(p.Tournaments)) != tt.wantTotal {
				t.Errorf("total = %d (len %d), want %d", p.Total, len(p.Tournaments), tt.wantTotal)
			}
		})
	}
}

func TestStore_Update(t *testing.T) {
	s, clock := seedStore(t, 2)
	ctx := context.Background()

	changes, err := tournament.ValidateUpdate([]byte(`{"title": "Open 01 Renamed", "city": "Goa"}`))
	if err != nil {
		t.Fatalf("ValidateUpdate() error = %v", err)
	}
	clock.Advance(time.Hour)
	if err := s.Update(ctx, 1, changes); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := s.Get(ctx, 1)
	if got.Title != "Open 01 Renamed" || got.City == nil || *got.City != "Goa" {
		t.Errorf("Get() after update = %+v", got)
	}
	if !got.UpdatedAt.Equal(clock.Now()) || got.CreatedAt.Equal(got.UpdatedAt) {
		t.Errorf("timestamps = created %v, updated %v", got.CreatedAt, got.UpdatedAt)
	}

	// The old title is free again.
	if err := s.Create(ctx, newTournament("Open 01", "")); err != nil {
		t.Errorf("Create() reusing released title error = %v", err)
	}
}

func TestStore_UpdateErrors(t *testing.T) {
	s, _ := seedStore(t, 2)
	ctx := context.Background()

	rename, _ := tournament.ValidateUpdate([]byte(`{"title": "Open 02"}`))
	if err := s.Update(ctx, 1, rename); !errors.Is(err, tournament.ErrDuplicateTitle) {
		t.Errorf("Update() to taken title error = %v, want ErrDuplicateTitle", err)
	}
	if err := s.Update(ctx, 404, tournament.Changes{}); !errors.Is(err, tournament.ErrNotFound) {
		t.Errorf("Update() missing id error = %v, want ErrNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	s, _ := seedStore(t, 1)
	ctx := context.Background()

	if err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, 1); !errors.Is(err, tournament.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, 1); !errors.Is(err, tournament.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestStore_BulkCreateAllOrNothing(t *testing.T) {
	s, _ := seedStore(t, 1)
	ctx := context.Background()

	n, err := s.BulkCreate(ctx, []*tournament.Tournament{
		newTournament("Fresh One", ""),
		newTournament("Open 01", ""),
	})
	if !errors.Is(err, tournament.ErrDuplicateTitle) || n != 0 {
		t.Errorf("BulkCreate() = %d, %v, want 0, ErrDuplicateTitle", n, err)
	}
	p, _ := s.List(ctx, tournament.ListQuery{Page: 1, Limit: 10})
	if p.Total != 1 {
		t.Errorf("Total = %d after failed bulk insert, want 1", p.Total)
	}

	n, err = s.BulkCreate(ctx, []*tournament.Tournament{
		newTournament("Fresh One", ""),
		newTournament("Fresh Two", ""),
	})
	if err != nil || n != 2 {
		t.Errorf("BulkCreate() = %d, %v, want 2, nil", n, err)
	}
}
