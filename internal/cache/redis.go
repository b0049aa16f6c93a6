package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/contentpipe/contentpipe/internal/model"
)

const currentDraftTTL = time.Hour

func currentDraftKey(projectID string) string {
	return "draft:current:" + projectID
}

var _ DraftCache = (*RedisDraftCache)(nil)

type RedisDraftCache struct {
	client *redis.Client
}

func NewRedisDraftCache(addr string) *RedisDraftCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // No password set
		DB:       0,  // Use default DB
		Protocol: 2,  // Connection protocol
	})

	return &RedisDraftCache{client: client}
}

func (r *RedisDraftCache) GetCurrentDraft(ctx context.Context, projectID uuid.UUID) (*model.Draft, error) {
	res := r.client.Get(ctx, currentDraftKey(projectID.String()))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	draft := &model.Draft{}
	if err := json.Unmarshal(buf, draft); err != nil {
		return nil, err
	}

	return draft, nil
}

func (r *RedisDraftCache) SetCurrentDraft(ctx context.Context, projectID uuid.UUID, draft *model.Draft) error {
	marshal, err := json.Marshal(draft)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, currentDraftKey(projectID.String()), marshal, currentDraftTTL).Err()
}

func (r *RedisDraftCache) Invalidate(ctx context.Context, projectID uuid.UUID) error {
	return r.client.Del(ctx, currentDraftKey(projectID.String())).Err()
}
