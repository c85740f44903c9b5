package handler

import (
	"net/http"

	"github.com/qureshi08/NPF-1/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Check godoc
// @Summary      Health check
// @Description  Reports liveness of the API and its backing services.
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /healthz [get]
func (h *HealthHandler) Check(c *gin.Context) {
	status := gin.H{"status": "ok", "database": "ok", "redis": "ok"}
	code := http.StatusOK

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status["database"] = "down"
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}
	if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
		status["redis"] = "down"
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	} else if counts, err := worker.DeadLetterCounts(c.Request.Context(), h.rdb,
		worker.QueueAudit, worker.QueueNotify, worker.QueueAlert); err == nil {
		var parked int64
		for _, n := range counts {
			parked += n
		}
		status["dead_letters"] = parked
	}

	c.JSON(code, status)
}
