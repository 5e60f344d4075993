package menu

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"orderservice/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

// CachedCatalog serves available menu items from Redis and falls back to the
// source on a miss. Unavailable items are not cached. A failing cache is logged
// and bypassed.
type CachedCatalog struct {
	source ItemSource
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedCatalog(source ItemSource, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedCatalog {
	return &CachedCatalog{
		source: source,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "CachedMenuCatalog"),
	}
}

func cacheKey(id kernel.UUID) string {
	return "menu:item:" + id.String()
}

func (c *CachedCatalog) Item(ctx context.Context, menuItemID kernel.UUID) (Item, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(menuItemID)).Bytes()
	switch {
	case err == nil:
		var payload itemPayload
		if jsonErr := json.Unmarshal(raw, &payload); jsonErr == nil {
			if item, itemErr := payload.toItem(menuItemID); itemErr == nil {
				return item, true, nil
			}
		}
		c.logger.WarnContext(ctx, "dropping undecodable menu cache entry", "menu_item_id", menuItemID.String())
	case errors.Is(err, redis.Nil):
	default:
		c.logger.WarnContext(ctx, "menu cache read failed", "menu_item_id", menuItemID.String(), "error", err)
	}

	item, ok, err := c.source.Item(ctx, menuItemID)
	if err != nil || !ok {
		return item, ok, err
	}

	if payload, jsonErr := json.Marshal(newItemPayload(item)); jsonErr == nil {
		if setErr := c.client.Set(ctx, cacheKey(menuItemID), payload, c.ttl).Err(); setErr != nil {
			c.logger.WarnContext(ctx, "menu cache write failed", "menu_item_id", menuItemID.String(), "error", setErr)
		}
	}
	return item, true, nil
}

func (c *CachedCatalog) MenuItemPrice(ctx context.Context, menuItemID kernel.UUID) (kernel.Money, bool, error) {
	return price(ctx, c, menuItemID)
}

func (c *CachedCatalog) MenuItemName(ctx context.Context, menuItemID kernel.UUID) (string, bool, error) {
	return name(ctx, c, menuItemID)
}
