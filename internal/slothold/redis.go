package slothold

import (
	"context"
	"errors"
	"time"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only when it still carries the caller's owner value
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisHolder stores holds in Redis so every API instance sees them
type RedisHolder struct {
	Client *redis.Client
	Prefix string
}

func NewRedisHolder(client *redis.Client) *RedisHolder {
	return &RedisHolder{Client: client, Prefix: "dine24:hold:"}
}

func (h *RedisHolder) key(slot models.Slot) string {
	return h.Prefix + slot.Key()
}

func (h *RedisHolder) Hold(ctx context.Context, slot models.Slot, owner string, ttl time.Duration) (bool, error) {
	key := h.key(slot)

	ok, err := h.Client.SetNX(ctx, key, owner, ttl).Result()
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}

	current, err := h.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return h.Client.SetNX(ctx, key, owner, ttl).Result()
	}
	if err != nil {
		return false, err
	}
	if current != owner {
		return false, nil
	}
	return true, h.Client.Expire(ctx, key, ttl).Err()
}

func (h *RedisHolder) Release(ctx context.Context, slot models.Slot, owner string) error {
	return releaseScript.Run(ctx, h.Client, []string{h.key(slot)}, owner).Err()
}

func (h *RedisHolder) HeldBy(ctx context.Context, slot models.Slot) (string, bool, error) {
	owner, err := h.Client.Get(ctx, h.key(slot)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return owner, true, nil
}
