package queries

import (
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/pkg/paging"
)

// OrderResponse is the outward representation of an order.
type OrderResponse struct {
	OrderID            string              `json:"orderId"`
	CustomerID         string              `json:"customerId"`
	ShopID             string              `json:"shopId"`
	OrderTime          time.Time           `json:"orderTime"`
	Status             string              `json:"status"`
	TotalAmount        kernel.Money        `json:"totalAmount"`
	QueuePosition      *int                `json:"queuePosition"`
	EstimatedReadyTime *time.Time          `json:"estimatedReadyTime"`
	Items              []OrderItemResponse `json:"items"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

type OrderItemResponse struct {
	MenuItemID string       `json:"menuItemId"`
	ItemName   string       `json:"itemName"`
	Quantity   int          `json:"quantity"`
	UnitPrice  kernel.Money `json:"unitPrice"`
	TotalPrice kernel.Money `json:"totalPrice"`
}

// NewOrderResponse maps an order to its response. Item total prices are derived
// from unit price and quantity here, they are never stored.
func NewOrderResponse(o *order.Order) OrderResponse {
	lines := o.Lines()
	items := make([]OrderItemResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderItemResponse{
			MenuItemID: l.MenuItemID().String(),
			ItemName:   l.ItemName(),
			Quantity:   l.Quantity(),
			UnitPrice:  l.UnitPrice(),
			TotalPrice: l.UnitPrice().Mul(l.Quantity()),
		})
	}

	return OrderResponse{
		OrderID:            o.ID().String(),
		CustomerID:         o.CustomerID().String(),
		ShopID:             o.ShopID().String(),
		OrderTime:          o.OrderTime(),
		Status:             o.Status().String(),
		TotalAmount:        o.TotalAmount(),
		QueuePosition:      o.QueuePosition(),
		EstimatedReadyTime: o.EstimatedReadyTime(),
		Items:              items,
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
	}
}

// PageResponse is a page of results with the navigation metadata clients expect.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	HasNext       bool  `json:"hasNext"`
	HasPrevious   bool  `json:"hasPrevious"`
}

func NewPageResponse[T any](p paging.Page[T]) PageResponse[T] {
	content := p.Content
	if content == nil {
		content = []T{}
	}
	return PageResponse[T]{
		Content:       content,
		Page:          p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages(),
		First:         p.First(),
		Last:          p.Last(),
		HasNext:       p.HasNext(),
		HasPrevious:   p.HasPrevious(),
	}
}
