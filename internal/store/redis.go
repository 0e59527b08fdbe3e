package store

import (
	"context"
	"fmt"
	"time"

	"rankr-backend/internal/config"
	"rankr-backend/internal/logging"
	"rankr-backend/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/encoding/json"
)

// Connect opens the redis client used as the poll store backend.
func Connect(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logging.Logger.Fatalf("failed to connect to redis: %v", err)
	}
	logging.Logger.Info("redis connected")
	return client
}

// RedisPollStore keeps each poll as a single RedisJSON document under
// polls:<id>. Every mutation writes exactly one sub-path of the document, so
// concurrent writers touching different sub-paths never conflict and no
// operation performs a read-modify-write cycle.
type RedisPollStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisPollStore(client redis.UniversalClient, ttl time.Duration) *RedisPollStore {
	return &RedisPollStore{client: client, ttl: ttl}
}

func pollKey(pollID string) string {
	return "polls:" + pollID
}

// Create writes the initial document and attaches the TTL in one transaction,
// so a crash between the two cannot leave an immortal record.
func (s *RedisPollStore) Create(ctx context.Context, poll *models.Poll) error {
	payload, err := json.Marshal(poll)
	if err != nil {
		return fmt.Errorf("%w: marshal poll %s: %v", models.ErrStoreWrite, poll.ID, err)
	}

	key := pollKey(poll.ID)
	pipe := s.client.TxPipeline()
	pipe.Do(ctx, "JSON.SET", key, ".", string(payload))
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: create poll %s: %v", models.ErrStoreWrite, poll.ID, err)
	}
	return nil
}

func (s *RedisPollStore) Get(ctx context.Context, pollID string) (*models.Poll, error) {
	res, err := s.client.Do(ctx, "JSON.GET", pollKey(pollID), ".").Result()
	if err == redis.Nil {
		return nil, models.ErrPollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get poll %s: %v", models.ErrStoreRead, pollID, err)
	}

	raw, ok := res.(string)
	if !ok || raw == "" {
		return nil, models.ErrPollNotFound
	}

	var poll models.Poll
	if err := json.Unmarshal([]byte(raw), &poll); err != nil {
		return nil, fmt.Errorf("%w: decode poll %s: %v", models.ErrStoreRead, pollID, err)
	}
	return &poll, nil
}

func (s *RedisPollStore) SetParticipant(ctx context.Context, pollID, userID, name string) error {
	return s.setPath(ctx, pollID, ".participants."+userID, name)
}

func (s *RedisPollStore) RemoveParticipant(ctx context.Context, pollID, userID string) error {
	return s.delPath(ctx, pollID, ".participants."+userID)
}

func (s *RedisPollStore) SetNomination(ctx context.Context, pollID, nominationID string, nomination models.Nomination) error {
	return s.setPath(ctx, pollID, ".nominations."+nominationID, nomination)
}

func (s *RedisPollStore) RemoveNomination(ctx context.Context, pollID, nominationID string) error {
	return s.delPath(ctx, pollID, ".nominations."+nominationID)
}

func (s *RedisPollStore) SetRanking(ctx context.Context, pollID, userID string, rankings []string) error {
	return s.setPath(ctx, pollID, ".rankings."+userID, rankings)
}

func (s *RedisPollStore) SetStarted(ctx context.Context, pollID string) error {
	return s.setPath(ctx, pollID, ".hasStarted", true)
}

func (s *RedisPollStore) SetResults(ctx context.Context, pollID string, results models.Results) error {
	return s.setPath(ctx, pollID, ".results", results)
}

func (s *RedisPollStore) Delete(ctx context.Context, pollID string) error {
	err := s.client.Do(ctx, "JSON.DEL", pollKey(pollID)).Err()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("%w: delete poll %s: %v", models.ErrStoreWrite, pollID, err)
	}
	return nil
}

func (s *RedisPollStore) setPath(ctx context.Context, pollID, path string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: marshal %s on poll %s: %v", models.ErrStoreWrite, path, pollID, err)
	}
	if err := s.client.Do(ctx, "JSON.SET", pollKey(pollID), path, string(payload)).Err(); err != nil {
		return fmt.Errorf("%w: set %s on poll %s: %v", models.ErrStoreWrite, path, pollID, err)
	}
	return nil
}

// delPath is idempotent: deleting a path that is already gone, or a poll that
// has expired, is a no-op.
func (s *RedisPollStore) delPath(ctx context.Context, pollID, path string) error {
	err := s.client.Do(ctx, "JSON.DEL", pollKey(pollID), path).Err()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("%w: del %s on poll %s: %v", models.ErrStoreWrite, path, pollID, err)
	}
	return nil
}
