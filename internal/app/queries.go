package app

import (
	"context"
	"fmt"
	"time"

	"hotel_booking/internal/domain"
)

const (
	keyRoomsByCategory = "rooms:category"
	keyRoomsByPrice    = "rooms:price"
	keyRoomsUnoccupied = "rooms:unoccupied"
)

func occupiedKey(days int) string        { return fmt.Sprintf("rooms:occupied:%d", days) }
func bookingKey(bookingID string) string { return "booking:" + bookingID }

// QueryService is the read-only projection layer: room listings, occupancy
// reports and booking lookup, read-through cached.
type QueryService struct {
	rooms    domain.RoomStore
	ledger   domain.BookingStore
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewQueryService(rooms domain.RoomStore, ledger domain.BookingStore, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{rooms: rooms, ledger: ledger, cache: c, cacheTTL: ttl, now: time.Now}
}

func (s *QueryService) cachedRooms(ctx context.Context, key string, load func(context.Context) ([]domain.Room, error)) ([]domain.Room, error) {
	var out []domain.Room
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	rs, err := load(ctx)
	if err != nil {
		return nil, err
	}
	// copy before caching so callers can't mutate the cached value
	cp := make([]domain.Room, len(rs))
	copy(cp, rs)
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return cp, nil
}

// RoomsByCategory lists every room with its category and daily rate.
func (s *QueryService) RoomsByCategory(ctx context.Context) ([]domain.Room, error) {
	return s.cachedRooms(ctx, keyRoomsByCategory, s.rooms.ListRooms)
}

// RoomsByPrice lists rooms in ascending rate-per-day order.
func (s *QueryService) RoomsByPrice(ctx context.Context) ([]domain.Room, error) {
	return s.cachedRooms(ctx, keyRoomsByPrice, s.rooms.ListRoomsByRate)
}

// UnoccupiedRooms lists rooms currently free to book.
func (s *QueryService) UnoccupiedRooms(ctx context.Context) ([]domain.Room, error) {
	return s.cachedRooms(ctx, keyRoomsUnoccupied, func(ctx context.Context) ([]domain.Room, error) {
		return s.rooms.ListRoomsByStatus(ctx, domain.StatusUnoccupied)
	})
}

// OccupiedWithin reports rooms whose stay window overlaps [today, today+days].
func (s *QueryService) OccupiedWithin(ctx context.Context, days int) ([]domain.OccupiedRoom, error) {
	if days < 0 {
		return nil, domain.Validation("days must not be negative")
	}
	key := occupiedKey(days)
	var out []domain.OccupiedRoom
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	today := s.now().Truncate(24 * time.Hour)
	rs, err := s.ledger.ListOccupiedBetween(ctx, today, today.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	cp := make([]domain.OccupiedRoom, len(rs))
	copy(cp, rs)
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	return cp, nil
}

// Booking returns the joined view for a booking id.
func (s *QueryService) Booking(ctx context.Context, bookingID string) (domain.BookingDetail, error) {
	key := bookingKey(bookingID)
	var d domain.BookingDetail
	if ok, _ := s.cache.Get(ctx, key, &d); ok {
		return d, nil
	}
	d, err := s.ledger.GetBookingDetail(ctx, bookingID)
	if err != nil {
		return domain.BookingDetail{}, err
	}
	_ = s.cache.Set(ctx, key, d, int(s.cacheTTL.Seconds()))
	return d, nil
}
