package ws

import (
	"context"
	"errors"

	"github.com/segmentio/encoding/json"

	"rankr-backend/internal/logging"
	"rankr-backend/internal/models"
	"rankr-backend/internal/services"
)

type nominatePayload struct {
	Name string `json:"name"`
}

type removeNominationPayload struct {
	NominationID string `json:"nominationID"`
}

type submitRankingPayload struct {
	Rankings []string `json:"rankings"`
}

type removeParticipantPayload struct {
	ID string `json:"id"`
}

type route struct {
	adminOnly bool
	handle    func(ctx context.Context, client *Client, data json.RawMessage) error
}

// Dispatcher routes each inbound message kind to exactly one poll operation.
// Admin-gated routes check the acting identity against the poll's adminID
// before the handler runs. Errors go back to the sender only; the room sees
// nothing but accepted mutations.
type Dispatcher struct {
	polls  *services.PollService
	hub    *Hub
	routes map[string]route
}

func NewDispatcher(polls *services.PollService, hub *Hub) *Dispatcher {
	d := &Dispatcher{polls: polls, hub: hub}
	d.routes = map[string]route{
		models.MsgNominate:          {handle: d.nominate},
		models.MsgRemoveNomination:  {adminOnly: true, handle: d.removeNomination},
		models.MsgSubmitRanking:     {handle: d.submitRanking},
		models.MsgStartVote:         {adminOnly: true, handle: d.startVote},
		models.MsgRemoveParticipant: {adminOnly: true, handle: d.removeParticipant},
		models.MsgDeletePoll:        {adminOnly: true, handle: d.deletePoll},
		models.MsgComputeResult:     {adminOnly: true, handle: d.computeResult},
	}
	return d
}

func (d *Dispatcher) Handle(ctx context.Context, client *Client, raw []byte) {
	var msg models.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		d.sendError(client, "malformed message")
		return
	}

	r, ok := d.routes[msg.Type]
	if !ok {
		d.sendError(client, "unknown message type: "+msg.Type)
		return
	}

	if r.adminOnly {
		poll, err := d.polls.Snapshot(ctx, client.PollID)
		if err != nil {
			d.sendError(client, errorMessage(err))
			return
		}
		if err := services.RequireAdmin(poll, client.UserID); err != nil {
			logging.Logger.Debugf("ws: %s denied for non-admin %s on poll %s", msg.Type, client.UserID, client.PollID)
			d.sendError(client, errorMessage(err))
			return
		}
	}

	if err := r.handle(ctx, client, msg.Data); err != nil {
		d.sendError(client, errorMessage(err))
	}
}

func (d *Dispatcher) nominate(ctx context.Context, client *Client, data json.RawMessage) error {
	var payload nominatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return models.ErrValidation
	}
	if len(payload.Name) < 1 || len(payload.Name) > 100 {
		return models.ErrValidation
	}

	poll, err := d.polls.AddNomination(ctx, client.PollID, client.UserID, payload.Name)
	if err != nil {
		return err
	}
	d.hub.Broadcast(client.PollID, models.Event{Type: models.EventPollUpdated, Data: poll})
	return nil
}

func (d *Dispatcher) removeNomination(ctx context.Context, client *Client, data json.RawMessage) error {
	var payload removeNominationPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.NominationID == "" {
		return models.ErrValidation
	}

	poll, err := d.polls.RemoveNomination(ctx, client.PollID, payload.NominationID)
	if err != nil {
		return err
	}
	d.hub.Broadcast(client.PollID, models.Event{Type: models.EventPollUpdated, Data: poll})
	return nil
}

func (d *Dispatcher) submitRanking(ctx context.Context, client *Client, data json.RawMessage) error {
	var payload submitRankingPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.Rankings == nil {
		return models.ErrValidation
	}

	poll, err := d.polls.SubmitRanking(ctx, client.PollID, client.UserID, payload.Rankings)
	if err != nil {
		return err
	}
	d.hub.Broadcast(client.PollID, models.Event{Type: models.EventPollUpdated, Data: poll})
	return nil
}

func (d *Dispatcher) startVote(ctx context.Context, client *Client, _ json.RawMessage) error {
	poll, err := d.polls.StartVote(ctx, client.PollID)
	if err != nil {
		return err
	}
	d.hub.Broadcast(client.PollID, models.Event{Type: models.EventPollUpdated, Data: poll})
	d.hub.Broadcast(client.PollID, models.Event{Type: models.EventVoteStarted})
	return nil
}

func (d *Dispatcher) removeParticipant(ctx context.Context, client *Client, data json.RawMessage) error {
	var payload removeParticipantPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.ID == "" {
		return models.ErrValidation
	}

	poll, err := d.polls.RemoveParticipant(ctx, client.PollID, payload.ID)
	if err != nil {
		return err
	}
	if poll != nil {
		d.hub.Broadcast(client.PollID, models.Event{Type: models.EventPollUpdated, Data: poll})
	}
	return nil
}

func (d *Dispatcher) deletePoll(ctx context.Context, client *Client, _ json.RawMessage) error {
	if err := d.polls.Delete(ctx, client.PollID); err != nil {
		return err
	}
	d.hub.Broadcast(client.PollID, models.Event{Type: models.EventPollDeleted})
	return nil
}

func (d *Dispatcher) computeResult(ctx context.Context, client *Client, _ json.RawMessage) error {
	poll, err := d.polls.ComputeResults(ctx, client.PollID)
	if err != nil {
		return err
	}
	d.hub.Broadcast(client.PollID, models.Event{Type: models.EventPollUpdated, Data: poll})
	return nil
}

func (d *Dispatcher) sendError(client *Client, message string) {
	event := models.Event{
		Type: models.EventException,
		Data: map[string]string{"message": message},
	}
	if err := client.Send(event); err != nil {
		logging.Logger.Warnf("ws: failed to send error to client on poll %s: %v", client.PollID, err)
	}
}

// errorMessage maps internal errors to what the client may see. Store
// failures stay opaque.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrPollNotFound):
		return "poll not found"
	case errors.Is(err, models.ErrForbidden):
		return "admin privileges required"
	case errors.Is(err, models.ErrValidation):
		return err.Error()
	default:
		return "internal error"
	}
}
