package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type guestAuthResponse struct {
	Token string `json:"token"`
	UID   string `json:"uid"`
}

// GuestAuth mints a session for a fresh anonymous identity. Clients
// keep the token; losing it means losing the seat in running games.
func (h *Handler) GuestAuth(c *gin.Context) {
	uid := "guest-" + uuid.NewString()

	token, err := h.Tokens.Mint(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, guestAuthResponse{Token: token, UID: uid})
}

type firebaseAuthRequest struct {
	IDToken string `json:"id_token"`
}

// FirebaseAuth exchanges a Firebase ID token for a session token with
// the same uid, so identities survive reinstalls.
func (h *Handler) FirebaseAuth(c *gin.Context) {
	if h.Verifier == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "firebase auth is not configured"})
		return
	}

	var req firebaseAuthRequest
	if err := c.BindJSON(&req); err != nil || req.IDToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_token required"})
		return
	}

	uid, err := h.Verifier.Verify(c.Request.Context(), req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid identity token"})
		return
	}

	token, err := h.Tokens.Mint(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, guestAuthResponse{Token: token, UID: uid})
}
