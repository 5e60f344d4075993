// Package orderrepo maps the order aggregate onto the orders and order_lines tables.
package orderrepo

import (
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is a row of the orders table. Timestamps come from the aggregate,
// so gorm's automatic time tracking is off.
type OrderDTO struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID         uuid.UUID       `gorm:"type:uuid;index"`
	ShopID             uuid.UUID       `gorm:"type:uuid;index"`
	OrderTime          time.Time       `gorm:"index"`
	Status             string          `gorm:"type:varchar(32);index"`
	TotalAmount        decimal.Decimal `gorm:"type:numeric(10,2)"`
	QueuePosition      *int
	EstimatedReadyTime *time.Time
	CreatedAt          time.Time      `gorm:"autoCreateTime:false"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime:false"`
	Version            int            `gorm:"not null;default:0"`
	Lines              []OrderLineDTO `gorm:"foreignKey:OrderID"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderLineDTO is a row of the order_lines table. The line total is never stored.
type OrderLineDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;uniqueIndex:uq_order_lines_order_line_no,priority:1"`
	LineNo     int             `gorm:"uniqueIndex:uq_order_lines_order_line_no,priority:2"`
	MenuItemID uuid.UUID       `gorm:"type:uuid"`
	ItemName   string          `gorm:"type:varchar(255)"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2)"`
	Quantity   int
}

func (OrderLineDTO) TableName() string {
	return "order_lines"
}

func fromDomain(o *order.Order) OrderDTO {
	lines := o.Lines()
	lineDTOs := make([]OrderLineDTO, 0, len(lines))
	for _, l := range lines {
		lineDTOs = append(lineDTOs, OrderLineDTO{
			ID:         l.ID().Value(),
			OrderID:    o.ID().Value(),
			LineNo:     l.Number(),
			MenuItemID: l.MenuItemID().Value(),
			ItemName:   l.ItemName(),
			UnitPrice:  l.UnitPrice().Decimal(),
			Quantity:   l.Quantity(),
		})
	}

	return OrderDTO{
		ID:                 o.ID().Value(),
		CustomerID:         o.CustomerID().Value(),
		ShopID:             o.ShopID().Value(),
		OrderTime:          o.OrderTime(),
		Status:             o.Status().String(),
		TotalAmount:        o.TotalAmount().Decimal(),
		QueuePosition:      o.QueuePosition(),
		EstimatedReadyTime: o.EstimatedReadyTime(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
		Version:            o.Version(),
		Lines:              lineDTOs,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromGoogle(dto.CustomerID)
	if err != nil {
		return nil, err
	}
	shopID, err := kernel.UUIDFromGoogle(dto.ShopID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.TotalAmount)
	if err != nil {
		return nil, err
	}

	lines := make([]*order.Line, 0, len(dto.Lines))
	for _, lineDTO := range dto.Lines {
		line, lineErr := lineToDomain(lineDTO)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:                 id,
		CustomerID:         customerID,
		ShopID:             shopID,
		OrderTime:          dto.OrderTime,
		Status:             status,
		TotalAmount:        total,
		QueuePosition:      dto.QueuePosition,
		EstimatedReadyTime: dto.EstimatedReadyTime,
		CreatedAt:          dto.CreatedAt,
		UpdatedAt:          dto.UpdatedAt,
		Version:            dto.Version,
		Lines:              lines,
	})
}

func lineToDomain(dto OrderLineDTO) (*order.Line, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	menuItemID, err := kernel.UUIDFromGoogle(dto.MenuItemID)
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return nil, err
	}
	return order.RestoreLine(id, dto.LineNo, menuItemID, dto.ItemName, price, dto.Quantity)
}
