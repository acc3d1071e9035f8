package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
)

const dateLayout = "2006-01-02"

// decDate formats a date for a DATE column.
func decDate(t time.Time) string { return t.Format(dateLayout) }

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- Room inventory ----

func (r *Repo) UpsertRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.db.ExecContext(ctx, upsertRoomSQL,
		rm.Category, rm.RoomNumber, shared.FormatCents(rm.RateCents), rm.IsHourlyRate)
	return err
}

func scanRoom(row interface{ Scan(...any) error }) (domain.Room, error) {
	var rm domain.Room
	var status string
	if err := row.Scan(&rm.ID, &rm.Category, &rm.RoomNumber, &rm.RateCents, &rm.IsHourlyRate, &status); err != nil {
		if err == sql.ErrNoRows {
			return domain.Room{}, domain.ErrNotFound
		}
		return domain.Room{}, err
	}
	rm.Status = domain.RoomStatus(status)
	return rm, nil
}

func (r *Repo) GetRoomByNumber(ctx context.Context, number int) (domain.Room, error) {
	return scanRoom(r.db.QueryRowContext(ctx, getRoomByNumberSQL, number))
}

func (r *Repo) GetRoomByID(ctx context.Context, id int64) (domain.Room, error) {
	return scanRoom(r.db.QueryRowContext(ctx, getRoomByIDSQL, id))
}

func (r *Repo) listRooms(ctx context.Context, query string, args ...any) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repo) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return r.listRooms(ctx, listRoomsSQL)
}

func (r *Repo) ListRoomsByStatus(ctx context.Context, status domain.RoomStatus) ([]domain.Room, error) {
	return r.listRooms(ctx, listRoomsByStatusSQL, string(status))
}

func (r *Repo) ListRoomsByRate(ctx context.Context) ([]domain.Room, error) {
	return r.listRooms(ctx, listRoomsByRateSQL)
}

// ---- Customer directory ----

func (r *Repo) GetCustomerByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	var c domain.Customer
	err := r.db.QueryRowContext(ctx, getCustomerByPhoneSQL, phone).Scan(&c.ID, &c.Name, &c.Phone)
	if err == sql.ErrNoRows {
		return domain.Customer{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

// ---- Reservation engine ----

// CreateBooking runs the room lock, customer upsert, ledger insert and status
// flip as one transaction. The FOR UPDATE lock on the room row is what makes
// the status check safe under concurrent callers; the ledger primary key is
// the backstop for booking-id uniqueness.
func (r *Repo) CreateBooking(ctx context.Context, req domain.BookingRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var roomID int64
	var status string
	if err := tx.QueryRowContext(ctx, lockRoomByNumberSQL, req.RoomNumber).Scan(&roomID, &status); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return err
	}
	if domain.RoomStatus(status) == domain.StatusOccupied {
		return domain.ErrRoomUnavailable
	}

	res, err := tx.ExecContext(ctx, upsertCustomerSQL, req.CustomerName, req.PhoneNumber)
	if err != nil {
		return err
	}
	customerID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, insertBookingSQL,
		req.BookingID,
		customerID,
		roomID,
		decDate(req.BookingDate),
		decDate(req.OccupancyDate),
		req.Days,
		shared.FormatCents(req.AdvanceCents),
	); err != nil {
		if isDuplicate(err) {
			return domain.ErrConflict
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, setRoomStatusSQL, string(domain.StatusOccupied), roomID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repo) DeleteBooking(ctx context.Context, bookingID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var roomID int64
	if err := tx.QueryRowContext(ctx, lockBookingRoomSQL, bookingID).Scan(&roomID); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, setRoomStatusSQL, string(domain.StatusUnoccupied), roomID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, deleteBookingSQL, bookingID); err != nil {
		return err
	}
	return tx.Commit()
}

// ---- Reservation ledger reads ----

func scanBookingDetail(row interface{ Scan(...any) error }) (domain.BookingDetail, error) {
	var d domain.BookingDetail
	if err := row.Scan(
		&d.BookingID,
		&d.CustomerName,
		&d.PhoneNumber,
		&d.Category,
		&d.RoomNumber,
		&d.BookingDate,
		&d.OccupancyDate,
		&d.Days,
		&d.AdvanceCents,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.BookingDetail{}, domain.ErrNotFound
		}
		return domain.BookingDetail{}, err
	}
	return d, nil
}

func (r *Repo) GetBookingDetail(ctx context.Context, bookingID string) (domain.BookingDetail, error) {
	return scanBookingDetail(r.db.QueryRowContext(ctx, getBookingDetailSQL, bookingID))
}

func (r *Repo) ListBookings(ctx context.Context) ([]domain.BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BookingDetail
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) ListOccupiedBetween(ctx context.Context, from, to time.Time) ([]domain.OccupiedRoom, error) {
	rows, err := r.db.QueryContext(ctx, occupiedBetweenSQL, decDate(to), decDate(from))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OccupiedRoom
	for rows.Next() {
		var o domain.OccupiedRoom
		if err := rows.Scan(&o.Category, &o.RoomNumber, &o.OccupancyDate, &o.Days); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ---- Accounts ----

func (r *Repo) GetAccount(ctx context.Context, username string) (domain.Account, error) {
	var a domain.Account
	var role string
	err := r.db.QueryRowContext(ctx, getAccountSQL, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &role)
	if err == sql.ErrNoRows {
		return domain.Account{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, err
	}
	a.Role = domain.Role(role)
	return a, nil
}

func (r *Repo) CreateAccount(ctx context.Context, a domain.Account) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertAccountSQL, a.Username, a.PasswordHash, string(a.Role))
	if err != nil {
		if isDuplicate(err) {
			return 0, domain.ErrConflict
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) UpdateRole(ctx context.Context, username string, role domain.Role) error {
	res, err := r.db.ExecContext(ctx, updateRoleSQL, string(role), username)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// distinguish "no such user" from "already that role"
		if _, gerr := r.GetAccount(ctx, username); gerr != nil {
			return gerr
		}
	}
	return nil
}

func (r *Repo) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countAdminsSQL).Scan(&n)
	return n, err
}
