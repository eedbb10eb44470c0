package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"squad-portal/backend/internal/auth/service"
	"squad-portal/backend/internal/platform/apperror"
	"squad-portal/backend/internal/server/respond"
)

// Handler exposes register and login over HTTP.
type Handler struct {
	auth *service.AuthService
}

func New(auth *service.AuthService) *Handler {
	return &Handler{auth: auth}
}

// Register mounts the auth routes on the given group. These routes are
// anonymous; everything else in the API sits behind the auth middleware.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type registerResponse struct {
	MemberID string `json:"memberId"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperror.Validation("invalid request body"))
		return
	}
	id, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respond.Error(c, mapAuthError(err))
		return
	}
	respond.Created(c, registerResponse{MemberID: id})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	MemberID  string    `json:"memberId"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, apperror.Validation("invalid request body"))
		return
	}
	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(c, mapAuthError(err))
		return
	}
	respond.OK(c, loginResponse{Token: result.Token, ExpiresAt: result.ExpiresAt, MemberID: result.MemberID})
}

// mapAuthError translates the auth service's sentinel errors into the typed
// taxonomy; typed errors pass through and anything else is internal.
func mapAuthError(err error) error {
	switch {
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		return apperror.Conflict(err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperror.Unauthorized(err.Error())
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperror.Internal(err)
}
