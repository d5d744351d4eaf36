package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingUploadsKey = "folio:uploads:pending"

// PendingUploads remembers blob keys handed out to clients until something
// references them. Keys left unclaimed past their TTL are swept and deleted.
type PendingUploads struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewPendingUploads(client redis.Cmdable) *PendingUploads {
	return &PendingUploads{client: client, now: time.Now}
}

func (p *PendingUploads) Track(ctx context.Context, key string) error {
	err := p.client.ZAdd(ctx, pendingUploadsKey, redis.Z{
		Score:  float64(p.now().UnixMilli()),
		Member: key,
	}).Err()
	if err != nil {
		return fmt.Errorf("track upload: %w", err)
	}
	return nil
}

// Claim marks keys as referenced. Unknown keys are ignored.
func (p *PendingUploads) Claim(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	members := make([]any, len(keys))
	for i, k := range keys {
		members[i] = k
	}
	if err := p.client.ZRem(ctx, pendingUploadsKey, members...).Err(); err != nil {
		return fmt.Errorf("claim upload: %w", err)
	}
	return nil
}

// TakeExpired removes and returns up to limit keys tracked before now-ttl.
// A key is returned by at most one caller even when sweeps overlap.
func (p *PendingUploads) TakeExpired(ctx context.Context, ttl time.Duration, limit int64) ([]string, error) {
	cutoff := p.now().Add(-ttl).UnixMilli()
	keys, err := p.client.ZRangeByScore(ctx, pendingUploadsKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(cutoff, 10),
		Count: limit,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("list expired uploads: %w", err)
	}

	taken := make([]string, 0, len(keys))
	for _, key := range keys {
		removed, err := p.client.ZRem(ctx, pendingUploadsKey, key).Result()
		if err != nil {
			return taken, fmt.Errorf("take expired upload: %w", err)
		}
		if removed == 1 {
			taken = append(taken, key)
		}
	}
	return taken, nil
}
