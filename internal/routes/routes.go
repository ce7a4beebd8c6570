package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/events"
	"github.com/BruksfildServices01/salon-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/salon-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/salon-scheduler/internal/metrics"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/storage"
	"github.com/BruksfildServices01/salon-scheduler/internal/timezone"
	ucBooking "github.com/BruksfildServices01/salon-scheduler/internal/usecase/booking"
)

// Deps are the process-wide singletons the HTTP layer is built from.
// Redis and Images may be nil.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *redis.Client
	Log       *zap.Logger
	Metrics   *metrics.Metrics
	Publisher events.Publisher
	Audit     *audit.Dispatcher
	Images    storage.ImageStore
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	loc := timezone.Location(cfg.Timezone)
	clock := domain.SystemClock{Location: loc}

	settings := ucBooking.Settings{
		Location:    loc,
		Buffer:      cfg.BookingBuffer(),
		Granularity: cfg.SlotGranularity(),
	}

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		middleware.HTTPMetrics(d.Metrics),
		middleware.CORSMiddleware(cfg.AllowedOrigins()),
	)

	// ======================================================
	// INFRA
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)
	catalogRepo := infraRepo.NewCatalogGormRepository(d.DB)
	limiter := middleware.NewRateLimiter(d.Redis, cfg.RateLimitBookings, cfg.RateLimitWindow)

	// ======================================================
	// USE CASES
	// ======================================================
	availableSlotsUC := ucBooking.NewGetAvailableSlots(bookingRepo, clock, settings, d.Metrics, d.Log)
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, clock, settings, d.Audit, d.Publisher, d.Metrics, d.Log)
	listByDateUC := ucBooking.NewListBookingsByDate(bookingRepo, settings)
	listByMonthUC := ucBooking.NewListBookingsByMonth(bookingRepo, settings)
	updateStatusUC := ucBooking.NewUpdateBookingStatus(bookingRepo, clock, d.Audit)
	deleteBookingUC := ucBooking.NewDeleteBooking(bookingRepo, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(catalogRepo, availableSlotsUC, createBookingUC, loc)
	bookingHandler := handlers.NewBookingHandler(listByDateUC, listByMonthUC, updateStatusUC, deleteBookingUC, clock, loc)

	authHandler := handlers.NewAuthHandler(d.DB, cfg.JWTSecret)
	meHandler := handlers.NewMeHandler(d.DB)
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Audit, d.Images)
	hoursHandler := handlers.NewBusinessHoursHandler(d.DB, d.Audit, loc)
	clientHandler := handlers.NewClientHandler(d.DB)
	statsHandler := handlers.NewStatsHandler(catalogRepo, d.Redis, clock, loc, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, loc)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/services", publicHandler.ListServices)
		api.GET("/bookings/available-slots", publicHandler.AvailableSlots)
		api.POST("/bookings", middleware.BookingRateLimit(limiter, d.Log), publicHandler.CreateBooking)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// STAFF
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			secured.GET("", meHandler.GetMe)

			secured.GET("/bookings", bookingHandler.ListByDate)
			secured.GET("/bookings/month", bookingHandler.ListByMonth)
			secured.PATCH("/bookings/:id", bookingHandler.UpdateStatus)
			secured.DELETE("/bookings/:id", bookingHandler.Delete)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)
			secured.POST("/services/:id/image", serviceHandler.UploadImage)

			secured.GET("/business-hours", hoursHandler.Get)
			secured.PUT("/business-hours", hoursHandler.Update)

			secured.GET("/clients", clientHandler.List)
			secured.GET("/stats", statsHandler.Get)
			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
