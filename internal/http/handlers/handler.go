package handlers

import (
	"errors"
	"net/http"

	"sk8_webapp/internal/domain"
	"sk8_webapp/internal/http/middleware"
	"sk8_webapp/internal/logger"
	"sk8_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Games    *service.GameService
	Tokens   *service.TokenService
	Verifier service.TokenVerifier // nil when Firebase auth is not configured
}

func NewHandler(games *service.GameService, tokens *service.TokenService, verifier service.TokenVerifier) *Handler {
	return &Handler{
		Games:    games,
		Tokens:   tokens,
		Verifier: verifier,
	}
}

// uidFrom reads the uid stored by the auth middleware.
func uidFrom(c *gin.Context) (string, bool) {
	uid := c.GetString("uid")
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", false
	}
	return uid, true
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindPermissionDenied:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindResourceExhausted:
		return http.StatusTooManyRequests
	case domain.KindAborted:
		return http.StatusConflict
	case domain.KindFailedPrecondition, domain.KindInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondErr maps a domain error to its HTTP status, hiding internal
// detail from the caller.
func respondErr(c *gin.Context, action string, err error) {
	kind := domain.KindOf(err)
	middleware.GameActions.WithLabelValues(action, string(kind)).Inc()

	var domErr *domain.Error
	if kind == domain.KindInternal || !errors.As(err, &domErr) {
		logger.Error("internal error", "action", action, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(statusForKind(kind), gin.H{"error": domErr.Msg})
}

func respondOK(c *gin.Context, action string, body gin.H) {
	middleware.GameActions.WithLabelValues(action, "ok").Inc()
	c.JSON(http.StatusOK, body)
}
