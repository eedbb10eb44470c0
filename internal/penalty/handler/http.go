package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"squad-portal/backend/internal/penalty/domain"
	"squad-portal/backend/internal/penalty/service"
	"squad-portal/backend/internal/platform/apperror"
	"squad-portal/backend/internal/server/respond"
)

// Handler exposes the penalty point ledger over HTTP.
type Handler struct {
	penalties *service.Service
}

func New(penalties *service.Service) *Handler {
	return &Handler{penalties: penalties}
}

// Register mounts the penalty routes on the given authenticated group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/members/:id/penalty-points", h.add)
	rg.GET("/members/:id/penalty-points", h.listActive)
	rg.DELETE("/penalty-points/:id", h.remove)
}

type pointView struct {
	ID           string     `json:"id"`
	MemberID     string     `json:"memberId"`
	Points       int        `json:"points"`
	Reason       string     `json:"reason"`
	AssignedBy   string     `json:"assignedBy"`
	AssignedAt   time.Time  `json:"assignedAt"`
	AutoRemoveAt *time.Time `json:"autoRemoveAt,omitempty"`
}

func toPointView(p *domain.Point) pointView {
	return pointView{
		ID:           p.ID,
		MemberID:     p.MemberID,
		Points:       p.Points,
		Reason:       p.Reason,
		AssignedBy:   p.AssignedBy,
		AssignedAt:   p.AssignedAt,
		AutoRemoveAt: p.AutoRemoveAt,
	}
}

type addPointsRequest struct {
	Points       int        `json:"points"`
	Reason       string     `json:"reason"`
	AutoRemoveAt *time.Time `json:"autoRemoveAt"`
}

func (h *Handler) add(c *gin.Context) {
	var req addPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperror.Validation("invalid request body"))
		return
	}
	p, err := h.penalties.AddPoints(c.Request.Context(), c.Param("id"), req.Points, req.Reason, req.AutoRemoveAt)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, toPointView(p))
}

type activePointsResponse struct {
	Points []pointView `json:"points"`
	Total  int         `json:"total"`
}

func (h *Handler) listActive(c *gin.Context) {
	entries, total, err := h.penalties.ActivePoints(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	out := make([]pointView, 0, len(entries))
	for _, p := range entries {
		out = append(out, toPointView(p))
	}
	respond.OK(c, activePointsResponse{Points: out, Total: total})
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.penalties.RemovePoint(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
