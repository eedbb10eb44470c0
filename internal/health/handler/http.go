package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PolicyChecker verifies the eligibility policy engine can evaluate.
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler serves liveness and readiness probes. Liveness always succeeds;
// readiness pings the database and the policy engine.
type Handler struct {
	db     *sql.DB
	policy PolicyChecker
}

func New(db *sql.DB, policy PolicyChecker) *Handler {
	return &Handler{db: db, policy: policy}
}

// Register mounts the probe routes. These are anonymous.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", h.live)
	rg.GET("/readyz", h.ready)
}

func (h *Handler) live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "component": "database"})
			return
		}
	}
	if h.policy != nil {
		if err := h.policy.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "component": "policy"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
