// Package menu adapts the menu service: an HTTP client and a Redis read-through
// cache in front of it. Both implement ports.MenuCatalog.
package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"orderservice/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Item is a menu entry as served by the menu service.
type Item struct {
	ID        kernel.UUID
	Name      string
	Price     kernel.Money
	Available bool
}

// itemPayload is the wire form shared by the menu service and the cache. The price
// stays a raw decimal until toItem, so both paths parse it the same way.
type itemPayload struct {
	ID        kernel.UUID     `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

func newItemPayload(item Item) itemPayload {
	return itemPayload{ID: item.ID, Name: item.Name, Price: item.Price.Decimal(), Available: item.Available}
}

// toItem checks the payload against the requested id. A price the order book cannot
// store exactly is a fault of the menu service, not of the caller.
func (p itemPayload) toItem(requested kernel.UUID) (Item, error) {
	if !p.ID.IsEqual(requested) {
		return Item{}, fmt.Errorf("menu service answered %s for %s", p.ID, requested)
	}
	price, err := kernel.NewMoney(p.Price)
	if err != nil {
		return Item{}, fmt.Errorf("menu item %s has unusable price %s: %v", requested, p.Price.String(), err)
	}
	if err = nonBlank(p.Name); err != nil {
		return Item{}, err
	}
	return Item{ID: p.ID, Name: p.Name, Price: price, Available: p.Available}, nil
}

// ItemSource looks up one menu item. ok is false when the item is unknown or
// not available for ordering.
type ItemSource interface {
	Item(ctx context.Context, menuItemID kernel.UUID) (item Item, ok bool, err error)
}

// HTTPCatalog queries GET {baseURL}/api/v1/menu-items/{id}.
type HTTPCatalog struct {
	baseURL *url.URL
	client  *http.Client
}

// NewHTTPCatalog builds a client; timeout bounds every request.
func NewHTTPCatalog(baseURL string, timeout time.Duration) (*HTTPCatalog, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse menu service url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("menu service url %q must be absolute", baseURL)
	}
	return &HTTPCatalog{baseURL: u, client: &http.Client{Timeout: timeout}}, nil
}

func (c *HTTPCatalog) Item(ctx context.Context, menuItemID kernel.UUID) (Item, bool, error) {
	endpoint := c.baseURL.JoinPath("api", "v1", "menu-items", menuItemID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Item{}, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Item{}, false, fmt.Errorf("menu lookup %s: %w", menuItemID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Item{}, false, nil
	default:
		return Item{}, false, fmt.Errorf("menu lookup %s: unexpected status %d", menuItemID, resp.StatusCode)
	}

	var payload itemPayload
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Item{}, false, fmt.Errorf("decode menu item %s: %w", menuItemID, err)
	}
	item, err := payload.toItem(menuItemID)
	if err != nil {
		return Item{}, false, err
	}
	return item, item.Available, nil
}

func (c *HTTPCatalog) MenuItemPrice(ctx context.Context, menuItemID kernel.UUID) (kernel.Money, bool, error) {
	return price(ctx, c, menuItemID)
}

func (c *HTTPCatalog) MenuItemName(ctx context.Context, menuItemID kernel.UUID) (string, bool, error) {
	return name(ctx, c, menuItemID)
}

func nonBlank(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("menu item name is blank")
	}
	return nil
}

func price(ctx context.Context, src ItemSource, id kernel.UUID) (kernel.Money, bool, error) {
	item, ok, err := src.Item(ctx, id)
	if err != nil || !ok {
		return kernel.Money{}, false, err
	}
	return item.Price, true, nil
}

func name(ctx context.Context, src ItemSource, id kernel.UUID) (string, bool, error) {
	item, ok, err := src.Item(ctx, id)
	if err != nil || !ok {
		return "", false, err
	}
	return item.Name, true, nil
}
