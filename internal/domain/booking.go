package domain

import "time"

// BookingRequest carries everything the store needs to commit a booking
// as one atomic unit: room lock + customer upsert + ledger insert + status flip.
type BookingRequest struct {
	BookingID     string
	RoomNumber    int
	CustomerName  string
	PhoneNumber   string
	AdvanceCents  int64
	BookingDate   time.Time
	OccupancyDate time.Time
	Days          int
}

// BookingDetail is the joined read model for a ledger row
// (customer name + room category/number folded in).
type BookingDetail struct {
	BookingID     string
	CustomerName  string
	PhoneNumber   string
	Category      string
	RoomNumber    int
	BookingDate   time.Time
	OccupancyDate time.Time
	Days          int
	AdvanceCents  int64
}

// OccupiedRoom is one row of the occupancy-window report.
type OccupiedRoom struct {
	Category      string
	RoomNumber    int
	OccupancyDate time.Time
	Days          int
}
