package bookings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campuspark/internal/penalty"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockService struct {
	ReserveFunc      func(ctx context.Context, userID string, req CreateBookingRequest) (*BookingResponse, error)
	GetBookingFunc   func(ctx context.Context, userID, bookingID string) (*BookingResponse, error)
	RescheduleFunc   func(ctx context.Context, userID, bookingID string, req RescheduleBookingRequest) (*BookingResponse, error)
	CancelFunc       func(ctx context.Context, userID, bookingID string) (*BookingResponse, error)
	ListSessionsFunc func(ctx context.Context, userID string) (*SessionsResponse, error)
	GetReceiptFunc   func(ctx context.Context, userID, bookingID string) (*ReceiptResponse, error)
}

func (m *mockService) Reserve(ctx context.Context, userID string, req CreateBookingRequest) (*BookingResponse, error) {
	return m.ReserveFunc(ctx, userID, req)
}

func (m *mockService) GetBooking(ctx context.Context, userID, bookingID string) (*BookingResponse, error) {
	return m.GetBookingFunc(ctx, userID, bookingID)
}

func (m *mockService) Reschedule(ctx context.Context, userID, bookingID string, req RescheduleBookingRequest) (*BookingResponse, error) {
	return m.RescheduleFunc(ctx, userID, bookingID, req)
}

func (m *mockService) Cancel(ctx context.Context, userID, bookingID string) (*BookingResponse, error) {
	return m.CancelFunc(ctx, userID, bookingID)
}

func (m *mockService) ListSessions(ctx context.Context, userID string) (*SessionsResponse, error) {
	return m.ListSessionsFunc(ctx, userID)
}

func (m *mockService) GetReceipt(ctx context.Context, userID, bookingID string) (*ReceiptResponse, error) {
	return m.GetReceiptFunc(ctx, userID, bookingID)
}

func (m *mockService) SetSlotCache(cache SlotCache) {}

func setupTestRouter(svc Service, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})

	ctrl := NewController(svc)
	r.POST("/bookings", ctrl.CreateBooking)
	r.GET("/bookings/:id", ctrl.GetBooking)
	r.PUT("/bookings/:id", ctrl.RescheduleBooking)
	r.POST("/bookings/:id/cancel", ctrl.CancelBooking)
	r.GET("/bookings/:id/receipt", ctrl.GetReceipt)
	r.GET("/users/me/bookings", ctrl.GetUserBookings)
	return r
}

func postJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestController_CreateBooking(t *testing.T) {
	svc := &mockService{
		ReserveFunc: func(ctx context.Context, userID string, req CreateBookingRequest) (*BookingResponse, error) {
			assert.Equal(t, testUserID, userID)
			assert.Equal(t, "zone-a-a01", req.SlotID)
			return &BookingResponse{ID: "b-1", Status: StatusBooked, Duration: "2h 30m"}, nil
		},
	}
	r := setupTestRouter(svc, testUserID)

	w := postJSON(r, http.MethodPost, "/bookings", `{"slot_id":"zone-a-a01","date":"2026-10-19","time_in":"09:00","time_out":"11:30"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"duration":"2h 30m"`)
}

func TestController_CreateBooking_ValidationFailed(t *testing.T) {
	r := setupTestRouter(&mockService{}, testUserID)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"bad date", `{"slot_id":"zone-a-a01","date":"19/10/2026","time_in":"09:00","time_out":"11:30"}`},
		{"bad clock", `{"slot_id":"zone-a-a01","date":"2026-10-19","time_in":"9am","time_out":"11:30"}`},
		{"bad plate", `{"slot_id":"zone-a-a01","date":"2026-10-19","time_in":"09:00","time_out":"11:30","car_plate":"12345678"}`},
		{"malformed json", `{"slot_id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, http.MethodPost, "/bookings", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestController_CreateBooking_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unauthenticated", penalty.ErrAuthenticationRequired, http.StatusUnauthorized},
		{"window", ErrDurationTooLong, http.StatusBadRequest},
		{"oku", ErrOKUSlotRequired, http.StatusBadRequest},
		{"details", &DetailsError{Err: errors.New("bad plate")}, http.StatusBadRequest},
		{"slot taken", &ReservationError{Step: StepSlot, Err: ErrSlotUnavailable}, http.StatusConflict},
		{"active booking", &ReservationError{Step: StepBooking, Err: ErrActiveBookingExists}, http.StatusConflict},
		{"unpaid penalty", ErrOutstandingPenalty, http.StatusConflict},
		{"session not synced", &penalty.PersistenceWriteError{UserID: "u", Cause: errors.New("timeout")}, http.StatusServiceUnavailable},
		{"penalty account write", &ReservationError{Step: StepPenaltyAccount, Err: errors.New("deadlock")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{
				ReserveFunc: func(ctx context.Context, userID string, req CreateBookingRequest) (*BookingResponse, error) {
					return nil, tt.err
				},
			}
			r := setupTestRouter(svc, testUserID)

			w := postJSON(r, http.MethodPost, "/bookings", `{"slot_id":"zone-a-a01","date":"2026-10-19","time_in":"09:00","time_out":"11:30"}`)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestController_CancelBooking_Overtime(t *testing.T) {
	svc := &mockService{
		CancelFunc: func(ctx context.Context, userID, bookingID string) (*BookingResponse, error) {
			return nil, &penalty.InvalidTransitionError{Action: "cancel booking", Phase: penalty.PhaseOvertime}
		},
	}
	r := setupTestRouter(svc, testUserID)

	w := postJSON(r, http.MethodPost, "/bookings/b-1/cancel", "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "cannot cancel booking while session is OVERTIME")
}

func TestController_GetReceipt_NotFound(t *testing.T) {
	svc := &mockService{
		GetReceiptFunc: func(ctx context.Context, userID, bookingID string) (*ReceiptResponse, error) {
			return nil, ErrNoReceipt
		},
	}
	r := setupTestRouter(svc, testUserID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/b-1/receipt", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestController_GetUserBookings(t *testing.T) {
	svc := &mockService{
		ListSessionsFunc: func(ctx context.Context, userID string) (*SessionsResponse, error) {
			return &SessionsResponse{Active: []BookingResponse{}, History: []BookingResponse{{ID: "b-1"}}}, nil
		},
	}
	r := setupTestRouter(svc, testUserID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me/bookings", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"active":[]`)
}

func TestController_RescheduleBooking_ValidationFailed(t *testing.T) {
	r := setupTestRouter(&mockService{}, testUserID)

	w := postJSON(r, http.MethodPut, "/bookings/b-1", `{"date":"2026-10-19","time_in":"13:00"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
