package domain

type RoomStatus string

const (
	StatusOccupied   RoomStatus = "occupied"
	StatusUnoccupied RoomStatus = "unoccupied"
)

type Room struct {
	ID           int64
	Category     string
	RoomNumber   int
	RateCents    int64 // rate per day, in cents
	IsHourlyRate bool  // stored for schema compatibility; nothing reads it
	Status       RoomStatus
}
