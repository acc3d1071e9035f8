package app

import (
	"context"
	"fmt"
	"io"

	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
)

// Exporter dumps the whole ledger to a flat text sink, one row per line.
// Report-only output, not a data interchange format.
type Exporter struct {
	ledger domain.BookingStore
}

func NewExporter(ledger domain.BookingStore) *Exporter {
	return &Exporter{ledger: ledger}
}

// WriteBookings writes every ledger row to w and returns the row count.
func (e *Exporter) WriteBookings(ctx context.Context, w io.Writer) (int, error) {
	bs, err := e.ledger.ListBookings(ctx)
	if err != nil {
		return 0, err
	}
	for _, b := range bs {
		_, err := fmt.Fprintf(w, "%s\tcustomer=%s\tphone=%s\tcategory=%s\troom=%d\tbooked=%s\toccupancy=%s\tdays=%d\tadvance=%s\n",
			b.BookingID,
			b.CustomerName,
			b.PhoneNumber,
			b.Category,
			b.RoomNumber,
			b.BookingDate.Format("2006-01-02"),
			b.OccupancyDate.Format("2006-01-02"),
			b.Days,
			shared.FormatCents(b.AdvanceCents),
		)
		if err != nil {
			return 0, err
		}
	}
	return len(bs), nil
}
