package penalty

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockService struct {
	GetAccountFunc     func(ctx context.Context, userID string) (*AccountView, error)
	StartSessionFunc   func(ctx context.Context, userID string) (*AccountView, error)
	MarkCarRemovedFunc func(ctx context.Context, userID, bookingID string) (*AccountView, error)
	ConfirmPaymentFunc func(ctx context.Context, userID string) (*AccountView, error)
	GetStatusFunc      func(ctx context.Context, userID, bookingID string) (*Status, error)
}

func (m *mockService) GetAccount(ctx context.Context, userID string) (*AccountView, error) {
	return m.GetAccountFunc(ctx, userID)
}

func (m *mockService) StartSession(ctx context.Context, userID string) (*AccountView, error) {
	return m.StartSessionFunc(ctx, userID)
}

func (m *mockService) MarkCarRemoved(ctx context.Context, userID, bookingID string) (*AccountView, error) {
	return m.MarkCarRemovedFunc(ctx, userID, bookingID)
}

func (m *mockService) ConfirmPayment(ctx context.Context, userID string) (*AccountView, error) {
	return m.ConfirmPaymentFunc(ctx, userID)
}

func (m *mockService) GetStatus(ctx context.Context, userID, bookingID string) (*Status, error) {
	return m.GetStatusFunc(ctx, userID, bookingID)
}

func (m *mockService) Subscribe(userID string) (<-chan Event, func(), error) {
	return nil, nil, ErrAuthenticationRequired
}

func (m *mockService) EnsureScheduled(ctx context.Context, userID, bookingID, action string) error {
	return nil
}

func (m *mockService) CloseSession(ctx context.Context, userID, bookingID string) error {
	return nil
}

func (m *mockService) ReleaseSession(ctx context.Context, userID string) error {
	return nil
}

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
	r.GET("/penalty/account", ctrl.GetAccount)
	r.POST("/penalty/session", ctrl.StartSession)
	r.POST("/penalty/car-removed", ctrl.MarkCarRemoved)
	r.POST("/penalty/payment", ctrl.ConfirmPayment)
	r.GET("/penalty/status/:bookingId", ctrl.GetStatus)
	r.GET("/penalty/stream", NewStreamHandler(svc).Stream)
	return r
}

func TestController_MarkCarRemoved_PaymentRequired(t *testing.T) {
	svc := &mockService{
		MarkCarRemovedFunc: func(ctx context.Context, userID, bookingID string) (*AccountView, error) {
			assert.Equal(t, "user-1", userID)
			assert.Equal(t, "booking-1", bookingID)
			return newAccountView(Account{IsSessionActive: true, CarRemoved: true, PenaltyAmount: 20}, false), nil
		},
	}
	r := setupTestRouter(svc, "user-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/penalty/car-removed", strings.NewReader(`{"booking_id":"booking-1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "penalty payment required")
	assert.Contains(t, w.Body.String(), `"phase":"REMOVED_UNPAID"`)
}

func TestController_MarkCarRemoved_MissingBooking(t *testing.T) {
	r := setupTestRouter(&mockService{}, "user-1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/penalty/car-removed", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNewController_RegistersCampusTags(t *testing.T) {
	ctrl := NewController(&mockService{})

	assert.NotPanics(t, func() {
		assert.NoError(t, ctrl.validator.Var("10:00", "clock"))
		assert.Error(t, ctrl.validator.Var("25:00", "clock"))
		assert.NoError(t, ctrl.validator.Var("WXY 1234", "carplate"))
	})
}

func TestController_ConfirmPayment_InvalidTransition(t *testing.T) {
	svc := &mockService{
		ConfirmPaymentFunc: func(ctx context.Context, userID string) (*AccountView, error) {
			return nil, &InvalidTransitionError{Action: "confirm payment", Phase: PhaseOvertime}
		},
	}
	r := setupTestRouter(svc, "user-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/penalty/payment", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "cannot confirm payment while session is OVERTIME")
}

func TestController_StartSession_ConfigurationError(t *testing.T) {
	svc := &mockService{
		StartSessionFunc: func(ctx context.Context, userID string) (*AccountView, error) {
			return nil, &ConfigurationError{Date: "bad", Time: "10:00", Cause: errors.New("parse")}
		},
	}
	r := setupTestRouter(svc, "user-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/penalty/session", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestController_GetAccount_Unauthenticated(t *testing.T) {
	svc := &mockService{
		GetAccountFunc: func(ctx context.Context, userID string) (*AccountView, error) {
			assert.Empty(t, userID)
			return nil, ErrAuthenticationRequired
		},
	}
	r := setupTestRouter(svc, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/penalty/account", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestController_GetStatus(t *testing.T) {
	svc := &mockService{
		GetStatusFunc: func(ctx context.Context, userID, bookingID string) (*Status, error) {
			if bookingID != "booking-1" {
				return nil, ErrBookingNotFound
			}
			st := GetStatus(testEnd, late(12*time.Minute))
			return &st, nil
		},
	}
	r := setupTestRouter(svc, "user-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/penalty/status/booking-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"has_penalty":true`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/penalty/status/booking-2", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStreamHandler_Unauthenticated(t *testing.T) {
	r := setupTestRouter(&mockService{}, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/penalty/stream", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
