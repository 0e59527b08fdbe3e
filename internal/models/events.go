package models

import "github.com/segmentio/encoding/json"

// Inbound message kinds on the real-time channel.
const (
	MsgNominate          = "nominate"
	MsgRemoveNomination  = "remove_nomination"
	MsgSubmitRanking     = "submit_ranking"
	MsgStartVote         = "start_vote"
	MsgRemoveParticipant = "remove_participant"
	MsgDeletePoll        = "delete_poll"
	MsgComputeResult     = "compute_result"
)

// Outbound event kinds.
const (
	EventPollUpdated = "poll_updated"
	EventVoteStarted = "vote_started"
	EventPollDeleted = "poll_deleted"
	EventException   = "exception"
)

// Message is an inbound frame; Data is decoded per Type by the dispatcher.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Event is an outbound frame, broadcast to a room or sent to one client.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
