package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/redis/go-redis/v9"
)

// ActivityFeedRepository keeps the most recent gate activity per premise.
// Push drops the oldest entries once the feed holds more than limit.
type ActivityFeedRepository interface {
	Push(ctx context.Context, e *models.ActivityEntry, limit int) error
	Recent(ctx context.Context, premiseID string) ([]*models.ActivityEntry, error)
}

/* ───────────── redis ───────────── */

type redisActivityFeed struct {
	rdb *redis.Client
}

func NewRedisActivityFeedRepository(rdb *redis.Client) ActivityFeedRepository {
	return &redisActivityFeed{rdb: rdb}
}

func activityKey(premiseID string) string {
	return fmt.Sprintf("gatepass:activity:%s", premiseID)
}

func (r *redisActivityFeed) Push(ctx context.Context, e *models.ActivityEntry, limit int) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	key := activityKey(e.PremiseID)
	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(limit-1))
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns newest first.
func (r *redisActivityFeed) Recent(ctx context.Context, premiseID string) ([]*models.ActivityEntry, error) {
	raw, err := r.rdb.LRange(ctx, activityKey(premiseID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*models.ActivityEntry, 0, len(raw))
	for _, s := range raw {
		var e models.ActivityEntry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, nil
}

/* ───────────── memory ───────────── */

type memoryActivityFeed struct {
	mu    sync.Mutex
	feeds map[string][]models.ActivityEntry // newest first
}

func NewMemoryActivityFeedRepository() ActivityFeedRepository {
	return &memoryActivityFeed{feeds: make(map[string][]models.ActivityEntry)}
}

func (r *memoryActivityFeed) Push(_ context.Context, e *models.ActivityEntry, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	feed := append([]models.ActivityEntry{*e}, r.feeds[e.PremiseID]...)
	if len(feed) > limit {
		feed = feed[:limit]
	}
	r.feeds[e.PremiseID] = feed
	return nil
}

func (r *memoryActivityFeed) Recent(_ context.Context, premiseID string) ([]*models.ActivityEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	feed := r.feeds[premiseID]
	out := make([]*models.ActivityEntry, len(feed))
	for i := range feed {
		e := feed[i]
		out[i] = &e
	}
	return out, nil
}
