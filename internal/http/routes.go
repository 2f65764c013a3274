package http

import (
	"sk8_webapp/internal/http/handlers"
	"sk8_webapp/internal/http/middleware"
	"sk8_webapp/internal/service"
	"sk8_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Deps struct {
	DB            *pgxpool.Pool
	Games         *service.GameService
	Tokens        *service.TokenService
	Verifier      service.TokenVerifier
	Limiter       service.Limiter
	Hub           *ws.Hub
	AllowedOrigin string
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	h := handlers.NewHandler(deps.Games, deps.Tokens, deps.Verifier)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	// health checks, no rate limiting
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	rl := func(action string) gin.HandlerFunc {
		return middleware.RateLimit(deps.Limiter, action)
	}

	v1 := r.Group("/api/v1")
	v1.GET("/health", healthHandler.Liveness)

	// sign-in runs before a token exists, so these are gated by ip only
	v1.POST("/auth/guest", rl("authGuest"), h.GuestAuth)
	v1.POST("/auth/firebase", rl("authFirebase"), h.FirebaseAuth)

	auth := v1.Group("")
	auth.Use(middleware.Auth(deps.Tokens))

	auth.POST("/games", rl("createGame"), h.CreateGame)
	auth.POST("/games/join", rl("joinGame"), h.JoinGame)
	auth.GET("/games/:id", h.GetGame)
	auth.GET("/me/games", h.MyGames)

	auth.POST("/games/:id/set", rl("submitSetClip"), h.SubmitSetClip)
	auth.POST("/games/:id/judge-set", rl("judgeSet"), h.JudgeSet)
	auth.POST("/games/:id/response", rl("submitRespClip"), h.SubmitRespClip)
	auth.POST("/games/:id/judge-response", rl("judgeResp"), h.JudgeResp)
	auth.POST("/games/:id/self-fail-set", rl("selfFailSet"), h.SelfFailSet)
	auth.POST("/games/:id/self-fail-response", rl("selfFailResp"), h.SelfFailResp)

	// live snapshot channel
	r.GET("/ws", h.WS(deps.Hub, deps.AllowedOrigin))
}
