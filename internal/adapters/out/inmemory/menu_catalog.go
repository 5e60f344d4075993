package inmemory

import (
	"context"
	"sync"

	"orderservice/internal/core/domain/model/kernel"
)

// MenuCatalog serves a fixed set of menu items.
type MenuCatalog struct {
	mu    sync.RWMutex
	items map[kernel.UUID]MenuItem
}

func NewMenuCatalog(items ...MenuItem) *MenuCatalog {
	c := &MenuCatalog{items: make(map[kernel.UUID]MenuItem, len(items))}
	for _, item := range items {
		c.items[item.ID] = item
	}
	return c
}

func (c *MenuCatalog) MenuItemPrice(_ context.Context, menuItemID kernel.UUID) (kernel.Money, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[menuItemID]
	return item.Price, ok, nil
}

func (c *MenuCatalog) MenuItemName(_ context.Context, menuItemID kernel.UUID) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[menuItemID]
	return item.Name, ok, nil
}

// Remove makes an item unavailable.
func (c *MenuCatalog) Remove(menuItemID kernel.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, menuItemID)
}
