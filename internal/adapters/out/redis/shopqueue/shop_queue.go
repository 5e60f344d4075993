// Package shopqueue keeps shop pickup queues in Redis. Known shops live in a set,
// each shop's queue is a list of order ids in arrival order.
package shopqueue

import (
	"context"
	"fmt"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"

	"github.com/redis/go-redis/v9"
)

const shopsKey = "shops"

// enqueueScript appends an order to a shop queue atomically. It returns -1 for an
// unknown shop and the 1-based position otherwise; a queued order keeps its position.
var enqueueScript = redis.NewScript(`
if redis.call('SISMEMBER', KEYS[1], ARGV[1]) == 0 then
	return -1
end
local pos = redis.call('LPOS', KEYS[2], ARGV[2])
if pos then
	return pos + 1
end
return redis.call('RPUSH', KEYS[2], ARGV[2])
`)

// RedisShopQueue implements ports.ShopQueue on Redis.
type RedisShopQueue struct {
	client redis.UniversalClient
}

func NewRedisShopQueue(client redis.UniversalClient) *RedisShopQueue {
	return &RedisShopQueue{client: client}
}

func queueKey(shopID kernel.UUID) string {
	return "shop:" + shopID.String() + ":queue"
}

// RegisterShops makes shops known. Registering a shop twice is harmless.
func (q *RedisShopQueue) RegisterShops(ctx context.Context, shopIDs ...kernel.UUID) error {
	if len(shopIDs) == 0 {
		return nil
	}
	members := make([]any, 0, len(shopIDs))
	for _, id := range shopIDs {
		members = append(members, id.String())
	}
	return q.client.SAdd(ctx, shopsKey, members...).Err()
}

func (q *RedisShopQueue) ShopExists(ctx context.Context, shopID kernel.UUID) (bool, error) {
	return q.client.SIsMember(ctx, shopsKey, shopID.String()).Result()
}

func (q *RedisShopQueue) EnqueueOrder(ctx context.Context, shopID, orderID kernel.UUID) (int, error) {
	pos, err := enqueueScript.Run(ctx, q.client,
		[]string{shopsKey, queueKey(shopID)},
		shopID.String(), orderID.String(),
	).Int()
	if err != nil {
		return 0, fmt.Errorf("enqueue order %s at shop %s: %w", orderID, shopID, err)
	}
	if pos < 0 {
		return 0, order.NewShopNotFoundError(shopID)
	}
	return pos, nil
}

// DequeueOrder removes every occurrence of the order. Absent orders are ignored.
func (q *RedisShopQueue) DequeueOrder(ctx context.Context, shopID, orderID kernel.UUID) error {
	return q.client.LRem(ctx, queueKey(shopID), 0, orderID.String()).Err()
}

// Len returns the number of queued orders of a shop.
func (q *RedisShopQueue) Len(ctx context.Context, shopID kernel.UUID) (int64, error) {
	return q.client.LLen(ctx, queueKey(shopID)).Result()
}
