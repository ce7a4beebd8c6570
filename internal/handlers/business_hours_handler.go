package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type BusinessHoursHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	loc   *time.Location
}

func NewBusinessHoursHandler(db *gorm.DB, dispatcher *audit.Dispatcher, loc *time.Location) *BusinessHoursHandler {
	return &BusinessHoursHandler{db: db, audit: dispatcher, loc: loc}
}

type BusinessDayConfig struct {
	Weekday    *int   `json:"weekday" binding:"required,min=0,max=6"`
	IsOpen     bool   `json:"isOpen"`
	OpenTime   string `json:"openTime"`
	CloseTime  string `json:"closeTime"`
	BreakStart string `json:"breakStart"`
	BreakEnd   string `json:"breakEnd"`
}

type BusinessHoursUpdateRequest struct {
	Days []BusinessDayConfig `json:"days" binding:"required,max=7,dive"`
}

func (h *BusinessHoursHandler) Get(c *gin.Context) {
	var hours []models.BusinessHours
	if err := h.db.WithContext(c.Request.Context()).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		httperr.FromError(c, fmt.Errorf("list business hours: %w", err))
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update replaces the whole week. Weekdays left out are closed.
func (h *BusinessHoursHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req BusinessHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	toCreate := make([]models.BusinessHours, 0, len(req.Days))
	for _, d := range req.Days {
		toCreate = append(toCreate, models.BusinessHours{
			Weekday:    *d.Weekday,
			IsOpen:     d.IsOpen,
			OpenTime:   d.OpenTime,
			CloseTime:  d.CloseTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		})
	}

	// Same rules the booking engine applies when it loads the week.
	if _, err := domain.NewCalendar(toCreate, h.loc); err != nil {
		httperr.FromError(c, err)
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.BusinessHours{}).Error; err != nil {
			return fmt.Errorf("clear business hours: %w", err)
		}
		if len(toCreate) > 0 {
			if err := tx.Create(&toCreate).Error; err != nil {
				return fmt.Errorf("save business hours: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "business_hours_updated",
		Entity:   "business_hours",
		Metadata: req.Days,
	})

	c.JSON(http.StatusOK, toCreate)
}
