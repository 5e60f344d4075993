package order

import (
	"errors"
	"fmt"
	"strings"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/pkg/errs"
	"orderservice/internal/pkg/guard"
)

// ErrLineIsNotConstructed is returned when a Line was not created through NewLine or RestoreLine.
var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine constructor")

// Line is one priced menu item of an order. Price and name are snapshots taken
// when the order was placed, not live references to the menu.
type Line struct {
	id         kernel.UUID
	number     int
	menuItemID kernel.UUID
	itemName   string
	unitPrice  kernel.Money
	quantity   int
	guard      guard.ConstructorGuard
}

// NewLine builds the line at 1-based position number of the order.
func NewLine(number int, menuItemID kernel.UUID, itemName string, unitPrice kernel.Money, quantity int) (*Line, error) {
	return RestoreLine(kernel.NewUUID(), number, menuItemID, itemName, unitPrice, quantity)
}

// RestoreLine rebuilds a persisted line, applying the same validation as NewLine.
func RestoreLine(
	id kernel.UUID,
	number int,
	menuItemID kernel.UUID,
	itemName string,
	unitPrice kernel.Money,
	quantity int,
) (*Line, error) {
	var errNumber, errName, errQuantity error
	if number < 1 {
		errNumber = errs.NewValueIsInvalidErrorWithCause("lineNumber", fmt.Errorf("%d is less than 1", number))
	}
	if strings.TrimSpace(itemName) == "" {
		errName = errs.NewValueIsRequiredError("itemName")
	}
	if quantity <= 0 {
		errQuantity = NewInvalidQuantityError(menuItemID, quantity)
	}
	if err := errors.Join(
		id.Validate(),
		errNumber,
		menuItemID.Validate(),
		errName,
		unitPrice.Validate(),
		errQuantity,
	); err != nil {
		return nil, err
	}

	return &Line{
		id:         id,
		number:     number,
		menuItemID: menuItemID,
		itemName:   itemName,
		unitPrice:  unitPrice,
		quantity:   quantity,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (l *Line) Validate() error {
	if l == nil {
		return ErrLineIsNotConstructed
	}
	return l.guard.Validate(ErrLineIsNotConstructed)
}

func (l *Line) ID() kernel.UUID         { return l.id }
func (l *Line) Number() int             { return l.number }
func (l *Line) MenuItemID() kernel.UUID { return l.menuItemID }
func (l *Line) ItemName() string        { return l.itemName }
func (l *Line) UnitPrice() kernel.Money { return l.unitPrice }
func (l *Line) Quantity() int           { return l.quantity }

// Total is unit price × quantity. It is always derived and never stored.
func (l *Line) Total() kernel.Money {
	return l.unitPrice.Mul(l.quantity)
}

func (l *Line) String() string {
	return fmt.Sprintf("#%d %s x%d @ %s", l.number, l.itemName, l.quantity, l.unitPrice)
}
