package orderrepo

import (
	"context"
	"errors"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/ports"
	"orderservice/internal/pkg/errs"
	"orderservice/internal/pkg/paging"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns maps the API sort fields onto columns.
var sortColumns = map[string]string{
	ports.SortByOrderTime:     "order_time",
	ports.SortByCreatedAt:     "created_at",
	ports.SortByUpdatedAt:     "updated_at",
	ports.SortByTotalAmount:   "total_amount",
	ports.SortByStatus:        "status",
	ports.SortByQueuePosition: "queue_position",
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker receives every aggregate written through the repository.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate kernel.AggregateRoot)
}

// NewGormOrderRepository creates a new GORM order repository. A nil tracker is
// allowed for read-only use.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order and its lines.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.track(aggregate)
	return nil
}

// Update writes the mutable columns if the stored version still equals
// aggregate.Version(), and bumps the stored version.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"status":               dto.Status,
			"queue_position":       dto.QueuePosition,
			"estimated_ready_time": dto.EstimatedReadyTime,
			"updated_at":           dto.UpdatedAt,
			"version":              gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return order.NewOrderNotFoundError(aggregate.ID())
		}
		return errs.NewVersionIsInvalidError("order " + aggregate.ID().String())
	}

	r.track(aggregate)
	return nil
}

// Get retrieves an order with its lines.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves an order and locks its row until the transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), id)
}

func (r *GormOrderRepository) get(_ context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.Preload("Lines", orderLines).First(&dto, "id = ?", id.Value()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Page lists orders matching filter. Ties on the sort column are broken by id
// so that pages do not overlap.
func (r *GormOrderRepository) Page(
	ctx context.Context,
	filter ports.OrderFilter,
	req paging.Request,
) (paging.Page[*order.Order], error) {
	column, ok := sortColumns[req.SortBy()]
	if !ok {
		column = sortColumns[ports.SortByOrderTime]
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Scopes(matching(filter)).Count(&total).Error; err != nil {
		return paging.Page[*order.Order]{}, err
	}
	if total == 0 || int64(req.Offset()) >= total {
		return paging.NewPage[*order.Order](nil, req, total), nil
	}

	desc := req.Direction() == paging.Desc
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Scopes(matching(filter)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc}).
		Offset(req.Offset()).
		Limit(req.Size()).
		Preload("Lines", orderLines).
		Find(&dtos).Error
	if err != nil {
		return paging.Page[*order.Order]{}, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, mapErr := toDomain(dto)
		if mapErr != nil {
			return paging.Page[*order.Order]{}, mapErr
		}
		orders = append(orders, o)
	}

	return paging.NewPage(orders, req, total), nil
}

func (r *GormOrderRepository) track(aggregate *order.Order) {
	if r.tracker != nil {
		r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	}
}

// matching narrows a query to the orders selected by filter.
func matching(filter ports.OrderFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.CustomerID != nil {
			db = db.Where("customer_id = ?", filter.CustomerID.Value())
		}
		if filter.ShopID != nil {
			db = db.Where("shop_id = ?", filter.ShopID.Value())
		}
		if filter.Status != nil {
			db = db.Where("status = ?", filter.Status.String())
		}
		return db
	}
}

func orderLines(db *gorm.DB) *gorm.DB {
	return db.Order("line_no")
}
