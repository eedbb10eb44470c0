package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"squad-portal/backend/internal/platform/apperror"
	"squad-portal/backend/internal/server/respond"
	"squad-portal/backend/internal/training/domain"
	"squad-portal/backend/internal/training/service"
)

// Handler exposes the training signup workflow over HTTP.
type Handler struct {
	trainings *service.Service
}

func New(trainings *service.Service) *Handler {
	return &Handler{trainings: trainings}
}

// Register mounts the training routes on the given authenticated group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/trainings", h.list)
	rg.POST("/trainings", h.create)
	rg.POST("/trainings/:id/signups", h.signUp)
	rg.POST("/trainings/:id/signups/:signupId/confirm-payment", h.confirmPayment)
}

type sessionView struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Location        string    `json:"location"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	MaxParticipants *int      `json:"maxParticipants,omitempty"`
	IsAHATraining   bool      `json:"isAhaTraining"`
	CostMember      *float64  `json:"costMember,omitempty"`
	CostNonMember   *float64  `json:"costNonMember,omitempty"`
	CostRecert      *float64  `json:"costRecert,omitempty"`
	Contact         string    `json:"contact,omitempty"`
	SignupCount     int       `json:"signupCount"`
}

func toSessionView(s *domain.Session, signupCount int) sessionView {
	return sessionView{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Location:        s.Location,
		Date:            s.Date,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		MaxParticipants: s.MaxParticipants,
		IsAHATraining:   s.IsAHATraining,
		CostMember:      s.CostMember,
		CostNonMember:   s.CostNonMember,
		CostRecert:      s.CostRecert,
		Contact:         s.Contact,
		SignupCount:     signupCount,
	}
}

type trainingSignupView struct {
	ID               string     `json:"id"`
	TrainingID       string     `json:"trainingId"`
	MemberID         string     `json:"memberId"`
	SignupType       string     `json:"signupType,omitempty"`
	SignedUpAt       time.Time  `json:"signedUpAt"`
	PaymentConfirmed bool       `json:"paymentConfirmed"`
	ConfirmedBy      *string    `json:"confirmedBy,omitempty"`
	ConfirmedAt      *time.Time `json:"confirmedAt,omitempty"`
}

func toTrainingSignupView(s *domain.Signup) trainingSignupView {
	return trainingSignupView{
		ID:               s.ID,
		TrainingID:       s.TrainingID,
		MemberID:         s.MemberID,
		SignupType:       s.SignupType,
		SignedUpAt:       s.SignedUpAt,
		PaymentConfirmed: s.PaymentConfirmed,
		ConfirmedBy:      s.ConfirmedBy,
		ConfirmedAt:      s.ConfirmedAt,
	}
}

type createSessionRequest struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	MaxParticipants *int      `json:"maxParticipants"`
	IsAHATraining   bool      `json:"isAhaTraining"`
	CostMember      *float64  `json:"costMember"`
	CostNonMember   *float64  `json:"costNonMember"`
	CostRecert      *float64  `json:"costRecert"`
	Contact         string    `json:"contact"`
}

func (h *Handler) create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperror.Validation("invalid request body"))
		return
	}
	s, err := h.trainings.Create(c.Request.Context(), service.CreateSessionInput{
		Name:            req.Name,
		Description:     req.Description,
		Location:        req.Location,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		MaxParticipants: req.MaxParticipants,
		IsAHATraining:   req.IsAHATraining,
		CostMember:      req.CostMember,
		CostNonMember:   req.CostNonMember,
		CostRecert:      req.CostRecert,
		Contact:         req.Contact,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, toSessionView(s, 0))
}

func (h *Handler) list(c *gin.Context) {
	summaries, err := h.trainings.List(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	out := make([]sessionView, 0, len(summaries))
	for _, sm := range summaries {
		out = append(out, toSessionView(sm.Session, sm.SignupCount))
	}
	respond.OK(c, out)
}

type trainingSignUpRequest struct {
	SignupType string `json:"signupType"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req trainingSignUpRequest
	// Body is optional; a missing body means a plain participant signup.
	_ = c.ShouldBindJSON(&req)
	s, err := h.trainings.SignUp(c.Request.Context(), c.Param("id"), req.SignupType)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Created(c, toTrainingSignupView(s))
}

func (h *Handler) confirmPayment(c *gin.Context) {
	s, err := h.trainings.ConfirmPayment(c.Request.Context(), c.Param("id"), c.Param("signupId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, toTrainingSignupView(s))
}
