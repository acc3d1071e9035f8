package domain

// Customer rows are deduplicated by phone number: a booking with a
// previously-seen phone attaches to the existing row.
type Customer struct {
	ID    int64
	Name  string
	Phone string
}
