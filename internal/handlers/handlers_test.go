package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/booking"
)

const testSecret = "test-secret"

type nopAuditor struct{}

func (nopAuditor) Dispatch(audit.Event) {}

type testServer struct {
	store  *memory.Store
	router *gin.Engine
	loc    *time.Location
}

// newTestServer wires the public and staff booking routes on a memory
// store, with the clock frozen on Monday 2026-03-02 08:00 Paris.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	store := memory.NewStore()
	hours := []models.BusinessHours{{Weekday: 0, IsOpen: false}}
	for wd := 1; wd <= 6; wd++ {
		hours = append(hours, models.BusinessHours{Weekday: wd, OpenTime: "09:00", CloseTime: "19:00", IsOpen: true})
	}
	store.SetBusinessHours(hours)
	store.AddService(models.Service{ID: 1, Name: "Coupe Homme", DurationMin: 30, Price: 35, Active: true})
	store.AddService(models.Service{ID: 2, Name: "Coloration", DurationMin: 45, Price: 45, Active: true})
	store.AddService(models.Service{ID: 3, Name: "Soins Visage", DurationMin: 30, Price: 30, Active: false})

	clock := domain.FixedClock(time.Date(2026, 3, 2, 8, 0, 0, 0, loc))
	settings := booking.Settings{Location: loc, Buffer: 15 * time.Minute, Granularity: 30 * time.Minute}
	log := zap.NewNop()

	public := NewPublicHandler(
		store,
		booking.NewGetAvailableSlots(store, clock, settings, nil, log),
		booking.NewCreateBooking(store, clock, settings, nopAuditor{}, events.NopPublisher{}, nil, log),
		loc,
	)
	staff := NewBookingHandler(
		booking.NewListBookingsByDate(store, settings),
		booking.NewListBookingsByMonth(store, settings),
		booking.NewUpdateBookingStatus(store, clock, nopAuditor{}),
		booking.NewDeleteBooking(store, nopAuditor{}),
		clock,
		loc,
	)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/services", public.ListServices)
	api.GET("/bookings/available-slots", public.AvailableSlots)
	api.POST("/bookings", public.CreateBooking)

	me := api.Group("/me", middleware.AuthMiddleware(testSecret))
	me.GET("/bookings", staff.ListByDate)
	me.GET("/bookings/month", staff.ListByMonth)
	me.PATCH("/bookings/:id", staff.UpdateStatus)
	me.DELETE("/bookings/:id", staff.Delete)

	return &testServer{store: store, router: r, loc: loc}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func staffToken(t *testing.T) string {
	t.Helper()
	token, err := GenerateToken(testSecret, &models.User{ID: 1, Role: "admin"}, time.Now())
	require.NoError(t, err)
	return token
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var e httperr.HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e.Code
}

func bookingBody(date string, serviceID uint) map[string]any {
	return map[string]any{
		"clientName":  "Claire Martin",
		"clientPhone": "06 12 34 56 78",
		"clientEmail": "claire@example.fr",
		"serviceId":   serviceID,
		"date":        date,
	}
}

// ======================================================
// PUBLIC
// ======================================================

func TestListServicesOnlyActive(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/services", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var services []models.Service
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &services))
	require.Len(t, services, 2)
	assert.Equal(t, uint(1), services[0].ID)
	assert.Equal(t, uint(2), services[1].ID)
}

func TestAvailableSlotsResponse(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/bookings/available-slots?date=2026-03-03&serviceId=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.AvailableSlots, 20)
	assert.Equal(t, "2026-03-03T08:00:00Z", resp.AvailableSlots[0])
	assert.Equal(t, "2026-03-03T17:30:00Z", resp.AvailableSlots[19])
}

func TestAvailableSlotsClosedDayIsEmptyList(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/bookings/available-slots?date=2026-03-08&serviceId=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"availableSlots":[]}`, w.Body.String())
}

func TestAvailableSlotsErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		query  string
		status int
		code   string
	}{
		{"", http.StatusBadRequest, "invalid_input"},
		{"?date=2026-03-03", http.StatusBadRequest, "invalid_input"},
		{"?date=2026-03-03&serviceId=abc", http.StatusBadRequest, "invalid_input"},
		{"?date=03/03/2026&serviceId=1", http.StatusBadRequest, "invalid_input"},
		{"?date=2026-03-03&serviceId=99", http.StatusNotFound, "service_not_found"},
		{"?date=2026-03-03&serviceId=3", http.StatusNotFound, "service_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/bookings/available-slots"+tt.query, nil, "")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestCreateBookingFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/bookings", bookingBody("2026-03-03T09:00:00+01:00", 2), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var b models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, "confirmed", b.Status)
	assert.True(t, b.EndTime.Equal(time.Date(2026, 3, 3, 9, 45, 0, 0, s.loc)))
	assert.Equal(t, "Coloration", b.Service.Name)
	assert.Equal(t, "0612345678", b.Client.Phone)

	// Overlapping request loses.
	w = s.do(t, http.MethodPost, "/api/bookings", bookingBody("2026-03-03T08:30:00Z", 1), "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_taken", errorCode(t, w))

	// The taken slots disappear from availability.
	w = s.do(t, http.MethodGet, "/api/bookings/available-slots?date=2026-03-03&serviceId=1", nil, "")
	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotContains(t, resp.AvailableSlots, "2026-03-03T08:00:00Z")
	assert.NotContains(t, resp.AvailableSlots, "2026-03-03T08:30:00Z")
	assert.Contains(t, resp.AvailableSlots, "2026-03-03T09:00:00Z")
}

func TestCreateBookingRejections(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"missing fields", map[string]any{"clientName": "Claire"}, http.StatusBadRequest, "invalid_input"},
		{"bad date", bookingBody("demain 10h", 1), http.StatusBadRequest, "invalid_input"},
		{"bad phone", func() map[string]any {
			b := bookingBody("2026-03-03T10:00:00+01:00", 1)
			b["clientPhone"] = "555-0100"
			return b
		}(), http.StatusBadRequest, "invalid_input"},
		{"past", bookingBody("2026-03-01T10:00:00+01:00", 1), http.StatusBadRequest, "past_date"},
		{"sunday", bookingBody("2026-03-08T10:00:00+01:00", 1), http.StatusBadRequest, "closed_day"},
		{"after closing", bookingBody("2026-03-03T18:45:00+01:00", 1), http.StatusBadRequest, "outside_business_hours"},
		{"unknown service", bookingBody("2026-03-03T10:00:00+01:00", 99), http.StatusNotFound, "service_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/bookings", tt.body, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
	assert.Empty(t, s.store.Bookings())
}

// ======================================================
// STAFF
// ======================================================

func TestStaffRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/me/bookings", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/me/bookings", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token", errorCode(t, w))

	forged, err := GenerateToken("other-secret", &models.User{ID: 1}, time.Now())
	require.NoError(t, err)
	w = s.do(t, http.MethodGet, "/api/me/bookings", nil, forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffListAndCancel(t *testing.T) {
	s := newTestServer(t)
	token := staffToken(t)

	w := s.do(t, http.MethodPost, "/api/bookings", bookingBody("2026-03-03T10:00:00+01:00", 1), "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = s.do(t, http.MethodGet, "/api/me/bookings?date=2026-03-03", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []struct {
			ID         uint   `json:"id"`
			ClientName string `json:"clientName"`
		} `json:"data"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Claire Martin", list.Data[0].ClientName)

	path := "/api/me/bookings/" + itoa(created.ID)

	w = s.do(t, http.MethodPatch, path, map[string]string{"status": "archived"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPatch, path, map[string]string{"status": "cancelled"}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPatch, path, map[string]string{"status": "confirmed"}, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid_state", errorCode(t, w))

	// The cancelled slot can be booked again.
	w = s.do(t, http.MethodPost, "/api/bookings", bookingBody("2026-03-03T10:00:00+01:00", 1), "")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestStaffDelete(t *testing.T) {
	s := newTestServer(t)
	token := staffToken(t)

	b := s.store.AddBooking(models.Booking{
		ClientID: 9, ServiceID: 1, Status: "confirmed",
		StartTime: time.Date(2026, 3, 4, 10, 0, 0, 0, s.loc),
		EndTime:   time.Date(2026, 3, 4, 10, 30, 0, 0, s.loc),
	})

	w := s.do(t, http.MethodDelete, "/api/me/bookings/"+itoa(b.ID), nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodDelete, "/api/me/bookings/"+itoa(b.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "booking_not_found", errorCode(t, w))

	w = s.do(t, http.MethodDelete, "/api/me/bookings/zero", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaffListByMonth(t *testing.T) {
	s := newTestServer(t)
	token := staffToken(t)

	w := s.do(t, http.MethodGet, "/api/me/bookings/month?year=2026&month=3", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/me/bookings/month?year=2026&month=13", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_input", errorCode(t, w))
}
