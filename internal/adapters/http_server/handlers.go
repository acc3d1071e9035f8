package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/observability"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/shared"
)

type Handlers struct {
	Q    *app.QueryService
	R    *app.ReservationService
	A    *app.AuthService
	E    *app.Exporter
	Rate int // auth requests per minute per client
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Group(func(g chi.Router) {
		if h.Rate > 0 {
			g.Use(RateLimit(h.Rate))
		}
		g.Post("/v1/auth/register", h.register)
		g.Post("/v1/auth/login", h.login)
	})

	s.mux.Group(func(g chi.Router) {
		g.Use(AdminOnly(h.A))
		g.Get("/v1/rooms", h.listRooms)
		g.Get("/v1/rooms/unoccupied", h.listUnoccupied)
		g.Get("/v1/rooms/occupied", h.listOccupied)
		g.Post("/v1/bookings", h.bookRoom)
		g.Get("/v1/bookings/export", h.exportBookings)
		g.Get("/v1/bookings/{id}", h.getBooking)
		g.Delete("/v1/bookings/{id}", h.checkout)
		g.Post("/v1/auth/grant-admin", h.grantAdmin)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem+json responses.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblem(w, http.StatusBadRequest, "Validation Failed", ve.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrRoomUnavailable):
		writeProblem(w, http.StatusConflict, "Room Unavailable", "room is already occupied")
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid username or password")
	default:
		log.Error().Err(err).Msg("internal error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// ---- auth ----

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	role, err := h.A.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"username": req.Username, "role": string(role)})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	role, err := h.A.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": req.Username, "role": string(role)})
}

func (h *Handlers) grantAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.A.GrantAdmin(r.Context(), callerUsername(r), req.Username); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": req.Username, "role": string(domain.RoleAdmin)})
}

// ---- rooms ----

type roomView struct {
	Category   string `json:"category"`
	RoomNumber int    `json:"room_number"`
	RatePerDay string `json:"rate_per_day"`
	Status     string `json:"status"`
}

func roomViews(rs []domain.Room) []roomView {
	out := make([]roomView, 0, len(rs))
	for _, rm := range rs {
		out = append(out, roomView{
			Category:   rm.Category,
			RoomNumber: rm.RoomNumber,
			RatePerDay: shared.FormatCents(rm.RateCents),
			Status:     string(rm.Status),
		})
	}
	return out
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	var (
		rs  []domain.Room
		err error
	)
	if r.URL.Query().Get("sort") == "rate" {
		rs, err = h.Q.RoomsByPrice(r.Context())
	} else {
		rs, err = h.Q.RoomsByCategory(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": roomViews(rs)})
}

func (h *Handlers) listUnoccupied(w http.ResponseWriter, r *http.Request) {
	rs, err := h.Q.UnoccupiedRooms(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": roomViews(rs)})
}

func (h *Handlers) listOccupied(w http.ResponseWriter, r *http.Request) {
	days := 2
	if ds := r.URL.Query().Get("days"); ds != "" {
		d, err := strconv.Atoi(ds)
		if err != nil || d < 0 {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "days must be a non-negative integer")
			return
		}
		days = d
	}
	rs, err := h.Q.OccupiedWithin(r.Context(), days)
	if err != nil {
		writeError(w, err)
		return
	}
	type occupiedView struct {
		Category      string `json:"category"`
		RoomNumber    int    `json:"room_number"`
		OccupancyDate string `json:"date_of_occupancy"`
		Days          int    `json:"no_of_days"`
	}
	out := make([]occupiedView, 0, len(rs))
	for _, o := range rs {
		out = append(out, occupiedView{
			Category:      o.Category,
			RoomNumber:    o.RoomNumber,
			OccupancyDate: o.OccupancyDate.Format("2006-01-02"),
			Days:          o.Days,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": out})
}

// ---- bookings ----

type bookRoomReq struct {
	RoomNumber    int    `json:"room_number"`
	CustomerName  string `json:"customer_name"`
	PhoneNumber   string `json:"phone_number"`
	Advance       string `json:"advance_received"` // decimal string, e.g. "150.00"
	OccupancyDate string `json:"date_of_occupancy"`
	Days          int    `json:"no_of_days"`
}

func (h *Handlers) bookRoom(w http.ResponseWriter, r *http.Request) {
	var req bookRoomReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	advance, err := shared.ParseCents(req.Advance)
	if err != nil {
		observability.ObserveBooking("invalid")
		writeProblem(w, http.StatusBadRequest, "Validation Failed", "advance_received must be a decimal amount")
		return
	}
	id, err := h.R.BookRoom(r.Context(), app.BookRoomInput{
		RoomNumber:    req.RoomNumber,
		CustomerName:  req.CustomerName,
		PhoneNumber:   req.PhoneNumber,
		AdvanceCents:  advance,
		OccupancyDate: req.OccupancyDate,
		Days:          req.Days,
	})
	if err != nil {
		observability.ObserveBooking(bookingOutcome(err))
		writeError(w, err)
		return
	}
	observability.ObserveBooking("booked")
	writeJSON(w, http.StatusCreated, map[string]string{"booking_id": id})
}

func bookingOutcome(err error) string {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, domain.ErrRoomUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

type bookingView struct {
	BookingID       string `json:"booking_id"`
	CustomerName    string `json:"customer_name"`
	PhoneNumber     string `json:"phone_number"`
	Category        string `json:"category"`
	RoomNumber      int    `json:"room_number"`
	DateOfBooking   string `json:"date_of_booking"`
	DateOfOccupancy string `json:"date_of_occupancy"`
	Days            int    `json:"no_of_days"`
	AdvanceReceived string `json:"advance_received"`
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	d, err := h.Q.Booking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingView{
		BookingID:       d.BookingID,
		CustomerName:    d.CustomerName,
		PhoneNumber:     d.PhoneNumber,
		Category:        d.Category,
		RoomNumber:      d.RoomNumber,
		DateOfBooking:   d.BookingDate.Format("2006-01-02"),
		DateOfOccupancy: d.OccupancyDate.Format("2006-01-02"),
		Days:            d.Days,
		AdvanceReceived: shared.FormatCents(d.AdvanceCents),
	})
}

func (h *Handlers) checkout(w http.ResponseWriter, r *http.Request) {
	if err := h.R.Checkout(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	observability.ObserveBooking("checked_out")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) exportBookings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := h.E.WriteBookings(r.Context(), w); err != nil {
		// headers may already be gone; log and bail
		log.Error().Err(err).Msg("export bookings failed")
	}
}
