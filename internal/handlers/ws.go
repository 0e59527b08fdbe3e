package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"rankr-backend/internal/logging"
	"rankr-backend/internal/models"
	"rankr-backend/internal/services"
	"rankr-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	auth       *services.AuthService
	polls      *services.PollService
	hub        *ws.Hub
	dispatcher *ws.Dispatcher
}

func NewWSHandler(auth *services.AuthService, polls *services.PollService, hub *ws.Hub, dispatcher *ws.Dispatcher) *WSHandler {
	return &WSHandler{auth: auth, polls: polls, hub: hub, dispatcher: dispatcher}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket admits an authenticated connection into its poll's room and
// pumps inbound messages through the dispatcher until the connection drops.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = bearerToken(c)
	}

	claims, err := h.auth.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
		return
	}

	if _, err := h.polls.Snapshot(c.Request.Context(), claims.PollID); err != nil {
		if errors.Is(err, models.ErrPollNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "poll does not exist or has been closed"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to read poll"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Logger.Errorf("websocket upgrade error: %v", err)
		return
	}

	client := ws.NewClient(conn, claims.PollID, claims.UserID, claims.Name)
	first := h.hub.Join(client)
	defer h.teardown(client)

	if first {
		poll, err := h.polls.AddParticipant(context.Background(), claims.PollID, claims.UserID, claims.Name)
		if err != nil {
			logging.Logger.Errorf("failed to add participant %s to poll %s: %v", claims.UserID, claims.PollID, err)
			return
		}
		h.hub.Broadcast(claims.PollID, models.Event{Type: models.EventPollUpdated, Data: poll})
	} else {
		// Extra tabs join silently; only the new connection needs a snapshot.
		if poll, err := h.polls.Snapshot(context.Background(), claims.PollID); err == nil {
			_ = client.Send(models.Event{Type: models.EventPollUpdated, Data: poll})
		}
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		h.dispatcher.Handle(context.Background(), client, raw)
	}
}

// teardown leaves the room and, for the participant's last connection,
// removes the participant record and tells the room.
func (h *WSHandler) teardown(client *ws.Client) {
	last := h.hub.Leave(client)
	if !last {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poll, err := h.polls.RemoveParticipant(ctx, client.PollID, client.UserID)
	if err != nil {
		logging.Logger.Errorf("failed to remove participant %s from poll %s: %v", client.UserID, client.PollID, err)
		return
	}
	if poll != nil {
		h.hub.Broadcast(client.PollID, models.Event{Type: models.EventPollUpdated, Data: poll})
	}
}
