package handlers

import (
	"github.com/gin-gonic/gin"
)

type createGameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateGame(c *gin.Context) {
	uid, ok := uidFrom(c)
	if !ok {
		return
	}
	var req createGameRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "bad request"})
		return
	}

	g, err := h.Games.Create(c.Request.Context(), uid, req.Name)
	if err != nil {
		respondErr(c, "createGame", err)
		return
	}
	respondOK(c, "createGame", gin.H{"game_id": g.ID, "code": g.Code})
}

type joinGameRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (h *Handler) JoinGame(c *gin.Context) {
	uid, ok := uidFrom(c)
	if !ok {
		return
	}
	var req joinGameRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "bad request"})
		return
	}

	g, err := h.Games.Join(c.Request.Context(), uid, req.Name, req.Code)
	if err != nil {
		respondErr(c, "joinGame", err)
		return
	}
	respondOK(c, "joinGame", gin.H{"game_id": g.ID})
}

type clipRequest struct {
	ClipPath string `json:"clip_path"`
}

func (h *Handler) SubmitSetClip(c *gin.Context) {
	uid, ok := uidFrom(c)
	if !ok {
		return
	}
	var req clipRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "bad request"})
		return
	}

	if _, err := h.Games.SubmitSetClip(c.Request.Context(), uid, c.Param("id"), req.ClipPath); err != nil {
		respondErr(c, "submitSetClip", err)
		return
	}
	respondOK(c, "submitSetClip", gin.H{"ok": true})
}

func (h *Handler) SubmitRespClip(c *gin.Context) {
	uid, ok := uidFrom(c)
	if !ok {
		return
	}
	var req clipRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "bad request"})
		return
	}

	if _, err := h.Games.SubmitRespClip(c.Request.Context(), uid, c.Param("id"), req.ClipPath); err != nil {
		respondErr(c, "submitRespClip", err)
		return
	}
	respondOK(c, "submitRespClip", gin.H{"ok": true})
}

type judgeRequest struct {
	Approve *bool `json:"approve"`
}

func (h *Handler) JudgeSet(c *gin.Context) {
	uid, ok := uidFrom(c)
	if !ok {
		return
	}
	var req judgeRequest
	if err := c.BindJSON(&req); err != nil || req.Approve == nil {
		c.JSON(400, gin.H{"error": "approve required"})
		return
	}

	if _, err := h.Games.JudgeSet(c.Request.Context(), uid, c.Param("id"), *req.Approve); err != nil {
		respondErr(c, "judgeSet", err)
		return
	}
	respondOK(c, "judgeSet", gin.H{"ok": true})
}

func (h *Handler) JudgeResp(c *gin.Context) {
	uid, ok := uidFrom(c)
	if !ok {
		return
	}
	var req judgeRequest
	if err := c.BindJSON(&req); err != nil || req.Approve == nil {
		c.JSON(400, gin.H{"error": "approve required"})
		return
	}

	if _, err := h.Games.JudgeResp(c.Request.Context(), uid, c.Param("id"), *req.Approve); err != nil {
		respondErr(c, "judgeResp", err)
		return
	}
	respondOK(c, "judgeResp", gin.H{"ok": true})
}

func (h *Handler) SelfFailSet(c *gin.Context) {
	uid, ok := uidFrom(c)
	if !ok {
		return
	}
	if _, err := h.Games.SelfFailSet(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondErr(c, "selfFailSet", err)
		return
	}
	respondOK(c, "selfFailSet", gin.H{"ok": true})
}

func (h *Handler) SelfFailResp(c *gin.Context) {
	uid, ok := uidFrom(c)
	if !ok {
		return
	}
	if _, err := h.Games.SelfFailResp(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondErr(c, "selfFailResp", err)
		return
	}
	respondOK(c, "selfFailResp", gin.H{"ok": true})
}

// GetGame returns the full snapshot to a participant.
func (h *Handler) GetGame(c *gin.Context) {
	uid, ok := uidFrom(c)
	if !ok {
		return
	}
	g, err := h.Games.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondErr(c, "getGame", err)
		return
	}
	c.JSON(200, g)
}

// MyGames lists the caller's games, newest first.
func (h *Handler) MyGames(c *gin.Context) {
	uid, ok := uidFrom(c)
	if !ok {
		return
	}
	games, err := h.Games.ListMine(c.Request.Context(), uid)
	if err != nil {
		respondErr(c, "myGames", err)
		return
	}

	out := make([]gin.H, 0, len(games))
	for _, g := range games {
		out = append(out, gin.H{
			"game_id":    g.ID,
			"code":       g.Code,
			"phase":      g.Phase,
			"turn":       g.Turn,
			"winner":     g.Winner,
			"updated_at": g.UpdatedAt,
		})
	}
	c.JSON(200, gin.H{"games": out})
}
