package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
)

// ---- fakes ----

type fakeRoomStore struct {
	rooms []domain.Room
}

func (f *fakeRoomStore) GetRoomByNumber(ctx context.Context, number int) (domain.Room, error) {
	for _, r := range f.rooms {
		if r.RoomNumber == number {
			return r, nil
		}
	}
	return domain.Room{}, domain.ErrNotFound
}

func (f *fakeRoomStore) GetRoomByID(ctx context.Context, id int64) (domain.Room, error) {
	for _, r := range f.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Room{}, domain.ErrNotFound
}

func (f *fakeRoomStore) ListRooms(ctx context.Context) ([]domain.Room, error) { return f.rooms, nil }

func (f *fakeRoomStore) ListRoomsByStatus(ctx context.Context, status domain.RoomStatus) ([]domain.Room, error) {
	var out []domain.Room
	for _, r := range f.rooms {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRoomStore) ListRoomsByRate(ctx context.Context) ([]domain.Room, error) {
	return f.rooms, nil
}

func (f *fakeRoomStore) UpsertRoom(ctx context.Context, room domain.Room) error { return nil }

type fakeBookingStore struct {
	detail   domain.BookingDetail
	all      []domain.BookingDetail
	lastFrom time.Time
	lastTo   time.Time
	occupied []domain.OccupiedRoom
}

func (f *fakeBookingStore) GetBookingDetail(ctx context.Context, id string) (domain.BookingDetail, error) {
	if f.detail.BookingID != id {
		return domain.BookingDetail{}, domain.ErrNotFound
	}
	return f.detail, nil
}

func (f *fakeBookingStore) ListBookings(ctx context.Context) ([]domain.BookingDetail, error) {
	return f.all, nil
}

func (f *fakeBookingStore) ListOccupiedBetween(ctx context.Context, from, to time.Time) ([]domain.OccupiedRoom, error) {
	f.lastFrom, f.lastTo = from, to
	return f.occupied, nil
}

// ---- tests ----

func TestRoomsByCategory_CacheMissThenHit(t *testing.T) {
	rooms := &fakeRoomStore{rooms: []domain.Room{
		{ID: 1, Category: "deluxe", RoomNumber: 101, RateCents: 15000, Status: domain.StatusUnoccupied},
	}}
	cache := &fakeCache{}
	q := app.NewQueryService(rooms, &fakeBookingStore{}, cache, 10*time.Minute)

	// Miss (first time, populates cache)
	rs, err := q.RoomsByCategory(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(rs) != 1 || rs[0].RoomNumber != 101 {
		t.Fatalf("unexpected rooms: %+v", rs)
	}

	// Mutate the store to prove the second read comes from cache
	rooms.rooms[0].Category = "SHOULD NOT SEE THIS"

	rs2, err := q.RoomsByCategory(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rs2[0].Category != "deluxe" {
		t.Fatalf("expected cached category, got %s", rs2[0].Category)
	}
}

func TestUnoccupiedRooms_FiltersStatus(t *testing.T) {
	rooms := &fakeRoomStore{rooms: []domain.Room{
		{ID: 1, RoomNumber: 101, Status: domain.StatusOccupied},
		{ID: 2, RoomNumber: 102, Status: domain.StatusUnoccupied},
	}}
	q := app.NewQueryService(rooms, &fakeBookingStore{}, &fakeCache{}, time.Minute)

	rs, err := q.UnoccupiedRooms(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(rs) != 1 || rs[0].RoomNumber != 102 {
		t.Fatalf("unexpected rooms: %+v", rs)
	}
}

func TestOccupiedWithin_WindowSpansRequestedDays(t *testing.T) {
	ledger := &fakeBookingStore{occupied: []domain.OccupiedRoom{{Category: "suite", RoomNumber: 301, Days: 4}}}
	q := app.NewQueryService(&fakeRoomStore{}, ledger, &fakeCache{}, time.Minute)

	rs, err := q.OccupiedWithin(context.Background(), 2)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(rs) != 1 || rs[0].RoomNumber != 301 {
		t.Fatalf("unexpected rows: %+v", rs)
	}
	if got := ledger.lastTo.Sub(ledger.lastFrom); got != 48*time.Hour {
		t.Fatalf("expected a 2-day window, got %v", got)
	}

	if _, err := q.OccupiedWithin(context.Background(), -1); err == nil {
		t.Fatalf("expected validation error for negative days")
	}
}

func TestBooking_CachedLookup(t *testing.T) {
	ledger := &fakeBookingStore{detail: domain.BookingDetail{BookingID: "AB12C", RoomNumber: 101, AdvanceCents: 5000}}
	cache := &fakeCache{}
	q := app.NewQueryService(&fakeRoomStore{}, ledger, cache, time.Minute)

	d, err := q.Booking(context.Background(), "AB12C")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if d.RoomNumber != 101 || d.AdvanceCents != 5000 {
		t.Fatalf("unexpected detail: %+v", d)
	}

	// served from cache after the ledger forgets the row
	ledger.detail = domain.BookingDetail{}
	d2, err := q.Booking(context.Background(), "AB12C")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if d2.RoomNumber != 101 {
		t.Fatalf("expected cached detail, got %+v", d2)
	}
}

func TestBooking_NotFound(t *testing.T) {
	q := app.NewQueryService(&fakeRoomStore{}, &fakeBookingStore{}, &fakeCache{}, time.Minute)
	if _, err := q.Booking(context.Background(), "ZZZZZ"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
