package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type ServiceCatalog interface {
	ListActiveServices(ctx context.Context) ([]models.Service, error)
}

type PublicHandler struct {
	catalog ServiceCatalog
	slots   *booking.GetAvailableSlots
	create  *booking.CreateBooking
	loc     *time.Location
}

func NewPublicHandler(
	catalog ServiceCatalog,
	slots *booking.GetAvailableSlots,
	create *booking.CreateBooking,
	loc *time.Location,
) *PublicHandler {
	return &PublicHandler{
		catalog: catalog,
		slots:   slots,
		create:  create,
		loc:     loc,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateBookingRequest struct {
	ClientName  string `json:"clientName" binding:"required,min=2,max=100"`
	ClientPhone string `json:"clientPhone" binding:"required"`
	ClientEmail string `json:"clientEmail" binding:"omitempty,email"`
	ServiceID   uint   `json:"serviceId" binding:"required,gt=0"`
	Date        string `json:"date" binding:"required"` // RFC3339
	Notes       string `json:"notes" binding:"max=255"`
}

type AvailableSlotsResponse struct {
	AvailableSlots []string `json:"availableSlots"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	services, err := h.catalog.ListActiveServices(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, services)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) AvailableSlots(c *gin.Context) {
	dateStr := c.Query("date")
	serviceIDStr := c.Query("serviceId")

	if dateStr == "" || serviceIDStr == "" {
		httperr.BadRequest(c, "invalid_input", "La date et le service sont obligatoires.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil || serviceID == 0 {
		httperr.BadRequest(c, "invalid_input", "Service invalide.")
		return
	}

	day, err := timezone.ParseDay(dateStr, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_input", "Date invalide.")
		return
	}

	slots, err := h.slots.Execute(c.Request.Context(), booking.AvailableSlotsInput{
		Date:      day,
		ServiceID: uint(serviceID),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.UTC().Format(time.RFC3339))
	}

	c.JSON(http.StatusOK, AvailableSlotsResponse{AvailableSlots: out})
}

////////////////////////////////////////////////////////
// CREATE BOOKING
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	var req PublicCreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	start, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_input", "Date invalide.")
		return
	}

	b, err := h.create.Execute(c.Request.Context(), booking.CreateBookingInput{
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		ServiceID:   req.ServiceID,
		Start:       start,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, b)
}
