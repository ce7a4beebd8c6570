package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/images"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/storage"
)

type ServiceHandler struct {
	db     *gorm.DB
	audit  *audit.Dispatcher
	images storage.ImageStore
}

// NewServiceHandler builds the staff service handler. A nil image store
// disables uploads.
func NewServiceHandler(db *gorm.DB, dispatcher *audit.Dispatcher, imageStore storage.ImageStore) *ServiceHandler {
	return &ServiceHandler{db: db, audit: dispatcher, images: imageStore}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required,min=3,max=100"`
	Description string  `json:"description" binding:"required,min=10,max=500"`
	DurationMin int     `json:"duration" binding:"required,min=5,max=300"`
	Price       float64 `json:"price" binding:"required,gt=0,lte=1000"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,min=3,max=100"`
	Description *string  `json:"description,omitempty" binding:"omitempty,min=10,max=500"`
	DurationMin *int     `json:"duration,omitempty" binding:"omitempty,min=5,max=300"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gt=0,lte=1000"`
	Active      *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context())

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.FromError(c, fmt.Errorf("list services: %w", err))
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	svc := models.Service{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&svc).Error; err != nil {
		httperr.FromError(c, fmt.Errorf("create service: %w", err))
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "service_created",
		Entity:   "service",
		EntityID: &svc.ID,
		Metadata: map[string]any{"name": svc.Name, "duration": svc.DurationMin},
	})

	c.JSON(http.StatusCreated, svc)
}

// Update edits a service. Existing bookings keep the end time they were
// created with.
func (h *ServiceHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	svc, ok := h.find(c, id)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = strings.TrimSpace(*req.Description)
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(svc).Error; err != nil {
		httperr.FromError(c, fmt.Errorf("update service %d: %w", id, err))
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &svc.ID,
		Metadata: req,
	})

	c.JSON(http.StatusOK, svc)
}

// UploadImage accepts a multipart "image" field, stores it as webp and sets
// the service's ImageURL.
func (h *ServiceHandler) UploadImage(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	if h.images == nil {
		httperr.ServiceUnavailable(c, "uploads_disabled", "Le stockage d'images n'est pas configuré.")
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	svc, ok := h.find(c, id)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Fichier image manquant.")
		return
	}
	if file.Size > images.MaxBytes {
		httperr.BadRequest(c, "invalid_image", "Image trop volumineuse (5 Mo maximum).")
		return
	}

	f, err := file.Open()
	if err != nil {
		httperr.FromError(c, fmt.Errorf("open upload: %w", err))
		return
	}
	defer f.Close()

	body, err := images.Process(f)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	key := fmt.Sprintf("services/%d/%s.webp", svc.ID, uuid.NewString())
	url, err := h.images.Put(c.Request.Context(), key, body, images.ContentType)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	svc.ImageURL = url
	if err := h.db.WithContext(c.Request.Context()).
		Model(svc).
		Update("image_url", url).Error; err != nil {
		httperr.FromError(c, fmt.Errorf("save image url: %w", err))
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &svc.ID,
		Metadata: map[string]string{"imageUrl": url},
	})

	c.JSON(http.StatusOK, svc)
}

func (h *ServiceHandler) find(c *gin.Context, id uint) (*models.Service, bool) {
	var svc models.Service
	err := h.db.WithContext(c.Request.Context()).First(&svc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "service_not_found", "Service introuvable.")
		return nil, false
	}
	if err != nil {
		httperr.FromError(c, fmt.Errorf("get service %d: %w", id, err))
		return nil, false
	}
	return &svc, true
}
