package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	id "caseflow/pkg/domain"
)

// RedisStore persists audit streams as Redis lists, one list per case.
// RPUSH preserves append order, so LRANGE reads back chronologically.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func streamKey(caseID id.CaseID) string {
	return "caseflow:audit:" + caseID.String()
}

func (s *RedisStore) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	if err := s.client.RPush(ctx, streamKey(event.CaseID), payload).Err(); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *RedisStore) ListByCase(ctx context.Context, caseID id.CaseID) ([]Event, error) {
	raw, err := s.client.LRange(ctx, streamKey(caseID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read audit stream: %w", err)
	}
	events := make([]Event, 0, len(raw))
	for _, item := range raw {
		var event Event
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			return nil, fmt.Errorf("decode audit event: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}
