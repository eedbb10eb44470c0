// Package server assembles the HTTP surface: middleware chain, anonymous
// routes (auth, probes), and the authenticated API.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	authhandler "squad-portal/backend/internal/auth/handler"
	eventhandler "squad-portal/backend/internal/event/handler"
	healthhandler "squad-portal/backend/internal/health/handler"
	memberhandler "squad-portal/backend/internal/member/handler"
	penaltyhandler "squad-portal/backend/internal/penalty/handler"
	"squad-portal/backend/internal/security"
	"squad-portal/backend/internal/server/middleware"
	traininghandler "squad-portal/backend/internal/training/handler"
)

// Handlers bundles the per-context HTTP handlers mounted by NewRouter.
// Health may be nil in tests.
type Handlers struct {
	Auth     *authhandler.Handler
	Member   *memberhandler.Handler
	Event    *eventhandler.Handler
	Training *traininghandler.Handler
	Penalty  *penaltyhandler.Handler
	Health   *healthhandler.Handler
}

// NewRouter builds the gin engine. Auth and probe routes are anonymous;
// everything under /api/v1 requires a valid session token.
func NewRouter(logger zerolog.Logger, tracer trace.Tracer, tokens *security.TokenProvider, h Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.Tracing(tracer))
	engine.Use(middleware.CaptureClientIP())

	public := engine.Group("/")
	h.Auth.Register(public)
	if h.Health != nil {
		h.Health.Register(public)
	}

	api := engine.Group("/api/v1")
	api.Use(middleware.Auth(tokens))
	h.Member.Register(api)
	h.Event.Register(api)
	h.Training.Register(api)
	h.Penalty.Register(api)

	return engine
}
