package domain

import (
	"context"
	"time"
)

// ReservationStore is the write side of the reservation engine. Both calls
// commit as a single atomic unit; partial application must never be observable.
type ReservationStore interface {
	// CreateBooking resolves the room by number, upserts the customer by phone,
	// inserts the ledger row and flips the room to occupied in one transaction.
	// Returns ErrNotFound (room), ErrRoomUnavailable, or ErrConflict when the
	// booking id already exists in the ledger.
	CreateBooking(ctx context.Context, req BookingRequest) error

	// DeleteBooking reverts the room to unoccupied and removes the ledger row.
	// Returns ErrNotFound when the booking id is unknown; the rooms table is
	// not touched in that case.
	DeleteBooking(ctx context.Context, bookingID string) error
}

type RoomStore interface {
	GetRoomByNumber(ctx context.Context, number int) (Room, error)
	GetRoomByID(ctx context.Context, id int64) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	ListRoomsByStatus(ctx context.Context, status RoomStatus) ([]Room, error)
	ListRoomsByRate(ctx context.Context) ([]Room, error)
	// UpsertRoom seeds or updates inventory; it never changes the status of an
	// existing row (status transitions belong to the reservation engine).
	UpsertRoom(ctx context.Context, room Room) error
}

type CustomerStore interface {
	GetCustomerByPhone(ctx context.Context, phone string) (Customer, error)
}

type BookingStore interface {
	GetBookingDetail(ctx context.Context, bookingID string) (BookingDetail, error)
	ListBookings(ctx context.Context) ([]BookingDetail, error)
	// ListOccupiedBetween returns rooms whose stay window overlaps [from, to]:
	// occupancy start <= to AND occupancy start + days >= from.
	ListOccupiedBetween(ctx context.Context, from, to time.Time) ([]OccupiedRoom, error)
}

type AccountStore interface {
	GetAccount(ctx context.Context, username string) (Account, error)
	// CreateAccount returns ErrConflict when the username is taken.
	CreateAccount(ctx context.Context, a Account) (int64, error)
	UpdateRole(ctx context.Context, username string, role Role) error
	CountAdmins(ctx context.Context) (int, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
