package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"squad-portal/backend/internal/event/domain"
	"squad-portal/backend/internal/event/service"
	"squad-portal/backend/internal/platform/apperror"
	"squad-portal/backend/internal/server/respond"
)

// Handler exposes the event signup workflow over HTTP.
type Handler struct {
	events *service.Service
}

func New(events *service.Service) *Handler {
	return &Handler{events: events}
}

// Register mounts the event routes on the given authenticated group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/events", h.list)
	rg.POST("/events", h.create)
	rg.POST("/events/:id/signups", h.signUp)
	rg.POST("/events/:id/signups/:signupId/assign", h.assign)
	rg.GET("/events/:id/waitlist", h.waitlist)
}

type eventView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Location  string    `json:"location"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	CreatedBy string    `json:"createdBy"`
}

func toEventView(e *domain.Event) eventView {
	return eventView{
		ID:        e.ID,
		Title:     e.Title,
		Location:  e.Location,
		StartsAt:  e.StartsAt,
		EndsAt:    e.EndsAt,
		CreatedBy: e.CreatedBy,
	}
}

type signupView struct {
	ID           string     `json:"id"`
	EventID      string     `json:"eventId"`
	MemberID     string     `json:"memberId"`
	PositionType string     `json:"positionType,omitempty"`
	SignedUpAt   time.Time  `json:"signedUpAt"`
	IsAssigned   bool       `json:"isAssigned"`
	AssignedBy   *string    `json:"assignedBy,omitempty"`
	AssignedAt   *time.Time `json:"assignedAt,omitempty"`
}

func toSignupView(s *domain.Signup) signupView {
	return signupView{
		ID:           s.ID,
		EventID:      s.EventID,
		MemberID:     s.MemberID,
		PositionType: s.PositionType,
		SignedUpAt:   s.SignedUpAt,
		IsAssigned:   s.IsAssigned,
		AssignedBy:   s.AssignedBy,
		AssignedAt:   s.AssignedAt,
	}
}

type createEventRequest struct {
	Title    string    `json:"title"`
	Location string    `json:"location"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
}

func (h *Handler) create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperror.Validation("invalid request body"))
		return
	}
	e, err := h.events.Create(c.Request.Context(), service.CreateEventInput{
		Title:    req.Title,
		Location: req.Location,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, toEventView(e))
}

func (h *Handler) list(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	out := make([]eventView, 0, len(events))
	for _, e := range events {
		out = append(out, toEventView(e))
	}
	respond.OK(c, out)
}

type signUpRequest struct {
	PositionType string `json:"positionType"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	// Body is optional; a missing body means no position preference.
	_ = c.ShouldBindJSON(&req)
	s, err := h.events.SignUp(c.Request.Context(), c.Param("id"), req.PositionType)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, toSignupView(s))
}

func (h *Handler) assign(c *gin.Context) {
	s, err := h.events.Assign(c.Request.Context(), c.Param("id"), c.Param("signupId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, toSignupView(s))
}

type waitlistEntryView struct {
	Position int        `json:"position"`
	Signup   signupView `json:"signup"`
}

func (h *Handler) waitlist(c *gin.Context) {
	entries, err := h.events.Waitlist(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	out := make([]waitlistEntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, waitlistEntryView{Position: e.Position, Signup: toSignupView(e.Signup)})
	}
	respond.OK(c, out)
}
