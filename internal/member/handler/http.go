package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"squad-portal/backend/internal/member/domain"
	"squad-portal/backend/internal/member/service"
	"squad-portal/backend/internal/platform/apperror"
	"squad-portal/backend/internal/role"
	"squad-portal/backend/internal/server/respond"
)

// Handler exposes member self-service and administration over HTTP.
type Handler struct {
	members *service.Service
}

func New(members *service.Service) *Handler {
	return &Handler{members: members}
}

// Register mounts the member routes on the given authenticated group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.GET("/members", h.list)
	rg.POST("/members/:id/activate", h.activate)
	rg.PUT("/members/:id/position", h.setPosition)
	rg.PUT("/members/:id/dues", h.setDuesPaid)
}

type memberView struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	AccountStatus string    `json:"accountStatus"`
	PositionWeb   int       `json:"positionWeb"`
	DuesPaid      bool      `json:"duesPaid"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toView(m *domain.Member, r role.Role) memberView {
	return memberView{
		ID:            m.ID,
		Email:         m.Email,
		Name:          m.Name,
		AccountStatus: string(m.AccountStatus),
		PositionWeb:   m.PositionWeb,
		DuesPaid:      m.DuesPaid,
		Role:          r.String(),
		CreatedAt:     m.CreatedAt,
	}
}

func (h *Handler) me(c *gin.Context) {
	p, err := h.members.Me(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, toView(p.Member, p.Role))
}

func (h *Handler) list(c *gin.Context) {
	profiles, err := h.members.List(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	out := make([]memberView, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toView(p.Member, p.Role))
	}
	respond.OK(c, out)
}

func (h *Handler) activate(c *gin.Context) {
	m, err := h.members.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, toView(m, role.Resolve(m)))
}

type setPositionRequest struct {
	Position int `json:"position"`
}

func (h *Handler) setPosition(c *gin.Context) {
	var req setPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperror.Validation("invalid request body"))
		return
	}
	m, err := h.members.SetPosition(c.Request.Context(), c.Param("id"), req.Position)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, toView(m, role.Resolve(m)))
}

type setDuesRequest struct {
	Paid bool `json:"paid"`
}

func (h *Handler) setDuesPaid(c *gin.Context) {
	var req setDuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperror.Validation("invalid request body"))
		return
	}
	m, err := h.members.SetDuesPaid(c.Request.Context(), c.Param("id"), req.Paid)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, toView(m, role.Resolve(m)))
}
