// Package kernel holds the shared value objects of the order domain.
//
// The package includes:
//   - UUID: identifier for orders, lines, customers, shops and menu items
//   - Money: exact non-negative decimal amount with two fractional digits
//   - DomainEvent: contract for the events aggregates record
//
// Zero values of UUID and Money are invalid; use the constructors.
package kernel
