// Package testutil provides in-memory fakes shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rankr-backend/internal/models"

	"github.com/segmentio/encoding/json"
)

// FakePollStore is an in-memory PollStore. It mimics the path-write semantics
// of the real adapter: mutations against a missing poll fail except removals,
// which are no-ops, and reads return an independent copy of the record.
type FakePollStore struct {
	mu    sync.Mutex
	Polls map[string]*models.Poll
	// TTLs records the expiration attached at create time.
	TTLs map[string]time.Duration
	// TTL is attached to every created poll.
	TTL time.Duration
	// Err, when set, is returned by every operation.
	Err error
}

func NewFakePollStore() *FakePollStore {
	return &FakePollStore{
		Polls: make(map[string]*models.Poll),
		TTLs:  make(map[string]time.Duration),
		TTL:   2 * time.Hour,
	}
}

func (f *FakePollStore) Create(_ context.Context, poll *models.Poll) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Polls[poll.ID] = clonePoll(poll)
	f.TTLs[poll.ID] = f.TTL
	return nil
}

func (f *FakePollStore) Get(_ context.Context, pollID string) (*models.Poll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	poll, ok := f.Polls[pollID]
	if !ok {
		return nil, models.ErrPollNotFound
	}
	return clonePoll(poll), nil
}

func (f *FakePollStore) SetParticipant(_ context.Context, pollID, userID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	poll, err := f.get(pollID)
	if err != nil {
		return err
	}
	poll.Participants[userID] = name
	return nil
}

func (f *FakePollStore) RemoveParticipant(_ context.Context, pollID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if poll, ok := f.Polls[pollID]; ok {
		delete(poll.Participants, userID)
	}
	return nil
}

func (f *FakePollStore) SetNomination(_ context.Context, pollID, nominationID string, nomination models.Nomination) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	poll, err := f.get(pollID)
	if err != nil {
		return err
	}
	poll.Nominations[nominationID] = nomination
	return nil
}

func (f *FakePollStore) RemoveNomination(_ context.Context, pollID, nominationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if poll, ok := f.Polls[pollID]; ok {
		delete(poll.Nominations, nominationID)
	}
	return nil
}

func (f *FakePollStore) SetRanking(_ context.Context, pollID, userID string, rankings []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	poll, err := f.get(pollID)
	if err != nil {
		return err
	}
	poll.Rankings[userID] = append([]string(nil), rankings...)
	return nil
}

func (f *FakePollStore) SetStarted(_ context.Context, pollID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	poll, err := f.get(pollID)
	if err != nil {
		return err
	}
	poll.HasStarted = true
	return nil
}

func (f *FakePollStore) SetResults(_ context.Context, pollID string, results models.Results) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	poll, err := f.get(pollID)
	if err != nil {
		return err
	}
	poll.Results = append(models.Results(nil), results...)
	return nil
}

func (f *FakePollStore) Delete(_ context.Context, pollID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	delete(f.Polls, pollID)
	delete(f.TTLs, pollID)
	return nil
}

func (f *FakePollStore) get(pollID string) (*models.Poll, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	poll, ok := f.Polls[pollID]
	if !ok {
		return nil, fmt.Errorf("%w: poll %s missing", models.ErrStoreWrite, pollID)
	}
	return poll, nil
}

func clonePoll(poll *models.Poll) *models.Poll {
	payload, err := json.Marshal(poll)
	if err != nil {
		panic(err)
	}
	var out models.Poll
	if err := json.Unmarshal(payload, &out); err != nil {
		panic(err)
	}
	return &out
}
