package services

import (
	"context"
	"errors"
	"fmt"

	"rankr-backend/internal/ids"
	"rankr-backend/internal/logging"
	"rankr-backend/internal/models"

	"github.com/sirupsen/logrus"
)

// PollStore is the contract over the external document store. Every mutation
// addresses a single sub-path of the poll record; none of them rewrite the
// whole document.
type PollStore interface {
	Create(ctx context.Context, poll *models.Poll) error
	Get(ctx context.Context, pollID string) (*models.Poll, error)
	SetParticipant(ctx context.Context, pollID, userID, name string) error
	RemoveParticipant(ctx context.Context, pollID, userID string) error
	SetNomination(ctx context.Context, pollID, nominationID string, nomination models.Nomination) error
	RemoveNomination(ctx context.Context, pollID, nominationID string) error
	SetRanking(ctx context.Context, pollID, userID string, rankings []string) error
	SetStarted(ctx context.Context, pollID string) error
	SetResults(ctx context.Context, pollID string, results models.Results) error
	Delete(ctx context.Context, pollID string) error
}

type PollService struct {
	store                  PollStore
	auth                   *AuthService
	lockNominationsOnStart bool
	log                    *logrus.Logger
}

func NewPollService(store PollStore, auth *AuthService, lockNominationsOnStart bool) *PollService {
	return &PollService{
		store:                  store,
		auth:                   auth,
		lockNominationsOnStart: lockNominationsOnStart,
		log:                    logging.Logger,
	}
}

type PollAuthResult struct {
	Poll        *models.Poll `json:"poll"`
	AccessToken string       `json:"accessToken"`
}

// Create generates the poll and admin identities, writes the initial record
// and issues the creator's token.
func (s *PollService) Create(ctx context.Context, topic string, votesPerVoter int, name string) (*PollAuthResult, error) {
	pollID := ids.NewPollID()
	userID := ids.NewParticipantID()

	poll := &models.Poll{
		ID:            pollID,
		Topic:         topic,
		VotesPerVoter: votesPerVoter,
		AdminID:       userID,
		Participants:  models.Participants{},
		Nominations:   models.Nominations{},
		Rankings:      models.Rankings{},
		Results:       models.Results{},
	}

	if err := s.store.Create(ctx, poll); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"pollID": pollID, "adminID": userID}).Info("poll created")

	token, err := s.auth.IssueToken(pollID, userID, name)
	if err != nil {
		return nil, err
	}
	return &PollAuthResult{Poll: poll, AccessToken: token}, nil
}

// Join issues a token for a new participant of an existing poll. The
// participant record itself is only written once a live connection shows up,
// so a caller that never connects leaves no residue.
func (s *PollService) Join(ctx context.Context, pollID, name string) (*PollAuthResult, error) {
	poll, err := s.store.Get(ctx, pollID)
	if err != nil {
		return nil, err
	}

	userID := ids.NewParticipantID()
	s.log.WithFields(logrus.Fields{"pollID": pollID, "userID": userID}).Debug("participant joining")

	token, err := s.auth.IssueToken(pollID, userID, name)
	if err != nil {
		return nil, err
	}
	return &PollAuthResult{Poll: poll, AccessToken: token}, nil
}

// Rejoin re-validates that the poll behind an existing token is still alive
// and returns the current snapshot without mutating anything.
func (s *PollService) Rejoin(ctx context.Context, claims TokenClaims) (*models.Poll, error) {
	return s.store.Get(ctx, claims.PollID)
}

func (s *PollService) Snapshot(ctx context.Context, pollID string) (*models.Poll, error) {
	return s.store.Get(ctx, pollID)
}

// AddParticipant upserts the participant record and returns the fresh
// snapshot. Repeating the call is harmless.
func (s *PollService) AddParticipant(ctx context.Context, pollID, userID, name string) (*models.Poll, error) {
	if err := s.store.SetParticipant(ctx, pollID, userID, name); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, pollID)
}

// RemoveParticipant deletes the participant record. A poll that is already
// gone is a no-op: the caller gets a nil snapshot and no error, since
// disconnects race with poll deletion and expiry.
func (s *PollService) RemoveParticipant(ctx context.Context, pollID, userID string) (*models.Poll, error) {
	if err := s.store.RemoveParticipant(ctx, pollID, userID); err != nil {
		return nil, err
	}
	poll, err := s.store.Get(ctx, pollID)
	if errors.Is(err, models.ErrPollNotFound) {
		return nil, nil
	}
	return poll, err
}

func (s *PollService) AddNomination(ctx context.Context, pollID, userID, name string) (*models.Poll, error) {
	if err := s.checkNominationsOpen(ctx, pollID); err != nil {
		return nil, err
	}

	nominationID := ids.NewNominationID()
	nomination := models.Nomination{UserID: userID, Name: name}
	if err := s.store.SetNomination(ctx, pollID, nominationID, nomination); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"pollID": pollID, "nominationID": nominationID}).Debug("nomination added")
	return s.store.Get(ctx, pollID)
}

func (s *PollService) RemoveNomination(ctx context.Context, pollID, nominationID string) (*models.Poll, error) {
	if err := s.checkNominationsOpen(ctx, pollID); err != nil {
		return nil, err
	}
	if err := s.store.RemoveNomination(ctx, pollID, nominationID); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, pollID)
}

// SubmitRanking overwrites the participant's previous ranking. The list is
// bounded by votesPerVoter and every entry must reference a nomination that
// exists right now; nominations removed after submission leave dangling
// entries that the tally prunes.
func (s *PollService) SubmitRanking(ctx context.Context, pollID, userID string, rankings []string) (*models.Poll, error) {
	poll, err := s.store.Get(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if len(rankings) > poll.VotesPerVoter {
		return nil, fmt.Errorf("%w: at most %d rankings allowed", models.ErrValidation, poll.VotesPerVoter)
	}
	for _, nominationID := range rankings {
		if _, ok := poll.Nominations[nominationID]; !ok {
			return nil, fmt.Errorf("%w: ranking references unknown nomination %s", models.ErrValidation, nominationID)
		}
	}

	if err := s.store.SetRanking(ctx, pollID, userID, rankings); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, pollID)
}

// StartVote opens voting. Starting an already-started poll is a no-op, not an
// error.
func (s *PollService) StartVote(ctx context.Context, pollID string) (*models.Poll, error) {
	if err := s.store.SetStarted(ctx, pollID); err != nil {
		return nil, err
	}
	s.log.WithField("pollID", pollID).Info("vote started")
	return s.store.Get(ctx, pollID)
}

// ComputeResults tallies the current rankings and stores the outcome. The poll
// may vanish between the triggering event and this read; that surfaces as
// ErrPollNotFound rather than being retried.
func (s *PollService) ComputeResults(ctx context.Context, pollID string) (*models.Poll, error) {
	poll, err := s.store.Get(ctx, pollID)
	if err != nil {
		return nil, err
	}

	results := Tally(poll.Rankings, poll.Nominations, poll.VotesPerVoter)
	if err := s.store.SetResults(ctx, pollID, results); err != nil {
		return nil, err
	}
	s.log.WithField("pollID", pollID).Info("results computed")
	return s.store.Get(ctx, pollID)
}

func (s *PollService) Delete(ctx context.Context, pollID string) error {
	s.log.WithField("pollID", pollID).Info("poll deleted")
	return s.store.Delete(ctx, pollID)
}

// checkNominationsOpen enforces the optional policy that nominations freeze
// once voting has started.
func (s *PollService) checkNominationsOpen(ctx context.Context, pollID string) error {
	if !s.lockNominationsOnStart {
		return nil
	}
	poll, err := s.store.Get(ctx, pollID)
	if err != nil {
		return err
	}
	if poll.HasStarted {
		return fmt.Errorf("%w: nominations are closed once voting has started", models.ErrValidation)
	}
	return nil
}
