package handlers

import (
	"errors"
	"log"
	"net/http"

	"spacedodge/services"

	"github.com/gin-gonic/gin"
)

type ScoreHandler struct {
	scoreService *services.ScoreService
	hub          *services.Hub
}

func NewScoreHandler(scoreService *services.ScoreService, hub *services.Hub) *ScoreHandler {
	return &ScoreHandler{
		scoreService: scoreService,
		hub:          hub,
	}
}

// SubmitScore answers 401 with a null id when the request carries no
// identity, so callers can tell "not saved" apart from a failure.
func (h *ScoreHandler) SubmitScore(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"id": nil, "error": "User not authenticated"})
		return
	}

	var req services.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	score, err := h.scoreService.Submit(c.Request.Context(), userID.(uint), *req.Score, req.PlayerName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"id": nil, "error": err.Error()})
		case errors.Is(err, services.ErrInvalidScore):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("Error saving score: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save score"})
		}
		return
	}

	// Watchers refresh from the broadcast; the submitter gets the record.
	if h.hub != nil {
		h.hub.BroadcastLeaderboard(c.Request.Context())
	}

	c.JSON(http.StatusCreated, score)
}

func (h *ScoreHandler) GetTopScores(c *gin.Context) {
	scores, err := h.scoreService.TopScores(c.Request.Context())
	if err != nil {
		log.Printf("Error loading top scores: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load top scores"})
		return
	}

	c.JSON(http.StatusOK, scores)
}
