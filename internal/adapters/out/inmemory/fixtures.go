// Package inmemory provides process-local shop queue and menu collaborators.
// They back local development when no Redis or menu service is configured, and
// serve as fixtures in tests.
package inmemory

import "orderservice/internal/core/domain/model/kernel"

// Sample shops and menu items available without external services.
var (
	SampleShopID1 = kernel.MustUUID("b0000000-0000-0000-0000-000000000001")
	SampleShopID2 = kernel.MustUUID("b0000000-0000-0000-0000-000000000002")

	LatteID      = kernel.MustUUID("a0000000-0000-0000-0000-000000000001")
	CappuccinoID = kernel.MustUUID("a0000000-0000-0000-0000-000000000002")
	EspressoID   = kernel.MustUUID("a0000000-0000-0000-0000-000000000003")
	CroissantID  = kernel.MustUUID("a0000000-0000-0000-0000-000000000004")
)

// MenuItem is a priced menu entry.
type MenuItem struct {
	ID    kernel.UUID
	Name  string
	Price kernel.Money
}

// SampleMenu returns the sample menu.
func SampleMenu() []MenuItem {
	return []MenuItem{
		{ID: LatteID, Name: "Latte", Price: kernel.MustMoney("4.50")},
		{ID: CappuccinoID, Name: "Cappuccino", Price: kernel.MustMoney("4.00")},
		{ID: EspressoID, Name: "Espresso", Price: kernel.MustMoney("3.00")},
		{ID: CroissantID, Name: "Croissant", Price: kernel.MustMoney("3.20")},
	}
}

// SampleShops returns the sample shop identifiers.
func SampleShops() []kernel.UUID {
	return []kernel.UUID{SampleShopID1, SampleShopID2}
}
