package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	listByDate  *booking.ListBookingsByDate
	listByMonth *booking.ListBookingsByMonth
	update      *booking.UpdateBookingStatus
	remove      *booking.DeleteBooking
	clock       domain.Clock
	loc         *time.Location
}

func NewBookingHandler(
	listByDate *booking.ListBookingsByDate,
	listByMonth *booking.ListBookingsByMonth,
	update *booking.UpdateBookingStatus,
	remove *booking.DeleteBooking,
	clock domain.Clock,
	loc *time.Location,
) *BookingHandler {
	return &BookingHandler{
		listByDate:  listByDate,
		listByMonth: listByMonth,
		update:      update,
		remove:      remove,
		clock:       clock,
		loc:         loc,
	}
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled completed"`
}

// ======================================================
// LIST BY DATE
// ======================================================

func (h *BookingHandler) ListByDate(c *gin.Context) {
	day := h.clock.Now()

	if dateStr := c.Query("date"); dateStr != "" {
		d, err := timezone.ParseDay(dateStr, h.loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_input", "Date invalide.")
			return
		}
		day = d
	}

	list, err := h.listByDate.Execute(c.Request.Context(), day)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, list)
}

// ======================================================
// LIST BY MONTH
// ======================================================

func (h *BookingHandler) ListByMonth(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		httperr.BadRequest(c, "invalid_input", "Année invalide.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		httperr.BadRequest(c, "invalid_input", "Mois invalide.")
		return
	}

	list, err := h.listByMonth.Execute(c.Request.Context(), year, time.Month(month))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":     year,
		"month":    month,
		"bookings": list,
	})
}

// ======================================================
// STATUS
// ======================================================

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.update.Execute(c.Request.Context(), userID, id, req.Status)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// DELETE
// ======================================================

func (h *BookingHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), userID, id); err != nil {
		httperr.FromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
