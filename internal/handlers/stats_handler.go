package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

const statsTTL = 30 * time.Second

type StatsSource interface {
	Stats(ctx context.Context, dayStart, dayEnd time.Time) (dto.StatsDTO, error)
}

// StatsHandler serves the dashboard counters, cached in redis when one is
// configured.
type StatsHandler struct {
	source StatsSource
	cache  *redis.Client
	clock  domain.Clock
	loc    *time.Location
	log    *zap.Logger
}

func NewStatsHandler(
	source StatsSource,
	cache *redis.Client,
	clock domain.Clock,
	loc *time.Location,
	log *zap.Logger,
) *StatsHandler {
	return &StatsHandler{source: source, cache: cache, clock: clock, loc: loc, log: log}
}

func (h *StatsHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	now := h.clock.Now().In(h.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)
	key := "stats:dashboard:" + dayStart.Format("2006-01-02")

	if stats, ok := h.cached(ctx, key); ok {
		c.Header("X-Cache", "HIT")
		c.JSON(http.StatusOK, stats)
		return
	}

	stats, err := h.source.Stats(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		httperr.FromError(c, fmt.Errorf("stats: %w", err))
		return
	}

	h.store(ctx, key, stats)

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, stats)
}

func (h *StatsHandler) cached(ctx context.Context, key string) (dto.StatsDTO, bool) {
	var stats dto.StatsDTO
	if h.cache == nil {
		return stats, false
	}

	raw, err := h.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			h.log.Warn("stats cache read failed", zap.Error(err))
		}
		return stats, false
	}

	if err := json.Unmarshal(raw, &stats); err != nil {
		return stats, false
	}
	return stats, true
}

func (h *StatsHandler) store(ctx context.Context, key string, stats dto.StatsDTO) {
	if h.cache == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, key, raw, statsTTL).Err(); err != nil {
		h.log.Warn("stats cache write failed", zap.Error(err))
	}
}
