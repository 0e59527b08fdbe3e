package handlers

import (
	"errors"
	"net/http"

	"rankr-backend/internal/models"
	"rankr-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	polls *services.PollService
}

func NewPollHandler(polls *services.PollService) *PollHandler {
	return &PollHandler{polls: polls}
}

type CreatePollRequest struct {
	Topic         string `json:"topic" binding:"required,min=1,max=100"`
	VotesPerVoter int    `json:"votesPerVoter" binding:"required,min=1,max=5"`
	Name          string `json:"name" binding:"required,min=1,max=25"`
}

type JoinPollRequest struct {
	PollID string `json:"pollID" binding:"required,len=6"`
	Name   string `json:"name" binding:"required,min=1,max=25"`
}

// Create starts a new poll and returns it with the creator's access token.
func (h *PollHandler) Create(c *gin.Context) {
	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.polls.Create(c.Request.Context(), req.Topic, req.VotesPerVoter, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create poll"})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Join issues a token for a new participant of an existing poll.
func (h *PollHandler) Join(c *gin.Context) {
	var req JoinPollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.polls.Join(c.Request.Context(), req.PollID, req.Name)
	if err != nil {
		if errors.Is(err, models.ErrPollNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "poll does not exist or has been closed"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to join poll"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Rejoin re-validates an existing token and returns the current snapshot
// without mutating anything.
func (h *PollHandler) Rejoin(c *gin.Context) {
	claims := c.MustGet("claims").(services.TokenClaims)

	poll, err := h.polls.Rejoin(c.Request.Context(), claims)
	if err != nil {
		if errors.Is(err, models.ErrPollNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "poll does not exist or has been closed"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to rejoin poll"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"poll": poll})
}
