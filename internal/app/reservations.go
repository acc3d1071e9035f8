package app

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_booking/internal/domain"
)

const bookingIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const bookingIDLen = 5

// maxIDAttempts bounds the retry loop on booking-id collisions. The ledger's
// primary key is the real uniqueness guarantee; generation is just expected
// to be collision-free in practice.
const maxIDAttempts = 5

// ReservationService owns the book/checkout commands and the cache keys the
// query layer reads through, so it can evict them after every commit.
type ReservationService struct {
	store domain.ReservationStore
	cache domain.Cache
	now   func() time.Time
}

func NewReservationService(store domain.ReservationStore, cache domain.Cache) *ReservationService {
	return &ReservationService{store: store, cache: cache, now: time.Now}
}

type BookRoomInput struct {
	RoomNumber    int
	CustomerName  string
	PhoneNumber   string
	AdvanceCents  int64
	OccupancyDate string // ISO YYYY-MM-DD
	Days          int
}

func (in BookRoomInput) validate() (time.Time, error) {
	var violations []string
	if in.CustomerName == "" {
		violations = append(violations, "customer name is required")
	}
	if in.PhoneNumber == "" {
		violations = append(violations, "phone number is required")
	}
	if in.AdvanceCents < 0 {
		violations = append(violations, "advance must not be negative")
	}
	if in.Days < 1 {
		violations = append(violations, "length of stay must be at least 1 day")
	}
	occ, err := time.Parse("2006-01-02", in.OccupancyDate)
	if err != nil {
		violations = append(violations, "occupancy date must be a valid date in YYYY-MM-DD form")
	}
	if len(violations) > 0 {
		return time.Time{}, domain.Validation(violations...)
	}
	return occ, nil
}

// BookRoom allocates the room and returns the generated booking id.
// A Conflict from the ledger's uniqueness constraint is retried with a fresh
// id rather than surfaced to the caller.
func (s *ReservationService) BookRoom(ctx context.Context, in BookRoomInput) (string, error) {
	occ, err := in.validate()
	if err != nil {
		return "", err
	}

	req := domain.BookingRequest{
		RoomNumber:    in.RoomNumber,
		CustomerName:  in.CustomerName,
		PhoneNumber:   in.PhoneNumber,
		AdvanceCents:  in.AdvanceCents,
		BookingDate:   s.now(),
		OccupancyDate: occ,
		Days:          in.Days,
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := newBookingID()
		if err != nil {
			return "", err
		}
		req.BookingID = id

		err = s.store.CreateBooking(ctx, req)
		if errors.Is(err, domain.ErrConflict) {
			log.Warn().Str("booking_id", id).Int("attempt", attempt+1).Msg("booking id collision, regenerating")
			continue
		}
		if err != nil {
			return "", err
		}

		s.invalidateRooms(ctx)
		log.Info().Str("booking_id", id).Int("room", in.RoomNumber).Msg("room booked")
		return id, nil
	}
	return "", fmt.Errorf("booking id generation: %w", domain.ErrConflict)
}

// Checkout reverts the room to unoccupied and removes the ledger row.
func (s *ReservationService) Checkout(ctx context.Context, bookingID string) error {
	if err := s.store.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}
	s.invalidateRooms(ctx)
	s.invalidateBooking(ctx, bookingID)
	log.Info().Str("booking_id", bookingID).Msg("checked out")
	return nil
}

func (s *ReservationService) invalidateRooms(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, keyRoomsByCategory)
	_ = s.cache.Del(ctx, keyRoomsByPrice)
	_ = s.cache.Del(ctx, keyRoomsUnoccupied)
	// occupancy-window reports; 2 days is the report default
	for _, d := range []int{1, 2, 7} {
		_ = s.cache.Del(ctx, occupiedKey(d))
	}
}

func (s *ReservationService) invalidateBooking(ctx context.Context, bookingID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, bookingKey(bookingID))
}

func newBookingID() (string, error) {
	var b [bookingIDLen]byte
	if _, err := crand.Read(b[:]); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = bookingIDAlphabet[int(b[i])%len(bookingIDAlphabet)]
	}
	return string(b[:]), nil
}
