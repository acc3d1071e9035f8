package mysql

// Currency columns are DECIMAL(10,2); Go carries cents, so reads CAST to
// signed cents and writes pass a formatted decimal string.

const upsertRoomSQL = `
INSERT INTO rooms
  (category, room_number, rate_per_day, is_hourly_rate)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  category       = VALUES(category),
  rate_per_day   = VALUES(rate_per_day),
  is_hourly_rate = VALUES(is_hourly_rate)
`

const roomColumns = `
  room_id,
  category,
  room_number,
  CAST(rate_per_day * 100 AS SIGNED),
  is_hourly_rate,
  status`

const getRoomByNumberSQL = `SELECT` + roomColumns + `
FROM rooms WHERE room_number = ?`

const getRoomByIDSQL = `SELECT` + roomColumns + `
FROM rooms WHERE room_id = ?`

const listRoomsSQL = `SELECT` + roomColumns + `
FROM rooms ORDER BY room_number`

const listRoomsByStatusSQL = `SELECT` + roomColumns + `
FROM rooms WHERE status = ? ORDER BY room_number`

const listRoomsByRateSQL = `SELECT` + roomColumns + `
FROM rooms ORDER BY rate_per_day ASC, room_number`

// -----------------------------------------------------------------------------
// RESERVATION ENGINE (all run inside one transaction)
// -----------------------------------------------------------------------------

// Row lock on the room serializes concurrent booking attempts.
const lockRoomByNumberSQL = `
SELECT room_id, status FROM rooms WHERE room_number = ? FOR UPDATE
`

// LAST_INSERT_ID(customer_id) makes LastInsertId() yield the existing row's id
// when the phone number was already registered.
const upsertCustomerSQL = `
INSERT INTO customers (customer_name, phone_number)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE customer_id = LAST_INSERT_ID(customer_id)
`

const insertBookingSQL = `
INSERT INTO bookings
  (booking_id, customer_id, room_id, date_of_booking, date_of_occupancy, no_of_days, advance_received)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

const setRoomStatusSQL = `UPDATE rooms SET status = ? WHERE room_id = ?`

const lockBookingRoomSQL = `
SELECT room_id FROM bookings WHERE booking_id = ? FOR UPDATE
`

const deleteBookingSQL = `DELETE FROM bookings WHERE booking_id = ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getCustomerByPhoneSQL = `
SELECT customer_id, customer_name, phone_number FROM customers WHERE phone_number = ?
`

const bookingDetailColumns = `
  b.booking_id,
  c.customer_name,
  c.phone_number,
  r.category,
  r.room_number,
  b.date_of_booking,
  b.date_of_occupancy,
  b.no_of_days,
  CAST(b.advance_received * 100 AS SIGNED)`

const getBookingDetailSQL = `SELECT` + bookingDetailColumns + `
FROM bookings b
JOIN rooms r ON r.room_id = b.room_id
JOIN customers c ON c.customer_id = b.customer_id
WHERE b.booking_id = ?`

const listBookingsSQL = `SELECT` + bookingDetailColumns + `
FROM bookings b
JOIN rooms r ON r.room_id = b.room_id
JOIN customers c ON c.customer_id = b.customer_id
ORDER BY b.date_of_booking, b.booking_id`

// Stay window overlap: occupancy start <= windowEnd AND
// occupancy start + days >= windowStart.
const occupiedBetweenSQL = `
SELECT r.category, r.room_number, b.date_of_occupancy, b.no_of_days
FROM rooms r
JOIN bookings b ON r.room_id = b.room_id
WHERE b.date_of_occupancy <= ?
  AND DATE_ADD(b.date_of_occupancy, INTERVAL b.no_of_days DAY) >= ?
ORDER BY b.date_of_occupancy, r.room_number
`

// -----------------------------------------------------------------------------
// ACCOUNTS
// -----------------------------------------------------------------------------

const getAccountSQL = `
SELECT user_id, username, password_hash, role FROM accounts WHERE username = ?
`

const insertAccountSQL = `
INSERT INTO accounts (username, password_hash, role) VALUES (?, ?, ?)
`

const updateRoleSQL = `UPDATE accounts SET role = ? WHERE username = ?`

const countAdminsSQL = `SELECT COUNT(*) FROM accounts WHERE role = 'admin'`
