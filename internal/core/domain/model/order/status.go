package order

import (
	"fmt"
	"slices"
	"strings"

	"orderservice/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	PENDING ──> PAID ──> PREPARING ──> READY_FOR_PICKUP ──> COMPLETED
//	   │          │          │                │
//	   └──────────┴──────────┴────────────────┴──────────> CANCELLED
//
// COMPLETED and CANCELLED are terminal. The graph lives in the transitions table;
// adding a status means adding a row there.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending is an order awaiting payment confirmation. Creation does not produce it today.
	Pending

	// Paid is the state creation produces; payment is captured upstream.
	Paid

	Preparing
	ReadyForPickup

	// Completed means the customer picked the order up.
	Completed

	// Cancelled orders have released their queue slot.
	Cancelled
)

var statusNames = map[Status]string{
	Pending:        "PENDING",
	Paid:           "PAID",
	Preparing:      "PREPARING",
	ReadyForPickup: "READY_FOR_PICKUP",
	Completed:      "COMPLETED",
	Cancelled:      "CANCELLED",
}

// transitions maps each status to the statuses it may move to.
var transitions = map[Status][]Status{
	Pending:        {Paid, Cancelled},
	Paid:           {Preparing, Cancelled},
	Preparing:      {ReadyForPickup, Cancelled},
	ReadyForPickup: {Completed, Cancelled},
	Completed:      {},
	Cancelled:      {},
}

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Pending, Paid, Preparing, ReadyForPickup, Completed, Cancelled}
}

// ParseStatus converts a status name such as "READY_FOR_PICKUP" into a Status.
// Matching ignores case and surrounding whitespace.
func ParseStatus(name string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	for s, n := range statusNames {
		if n == normalized {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", name))
}

// String returns the status name, or "UNKNOWN" for values outside the enum.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Validate rejects Unknown and any value outside the enum.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	allowed, ok := transitions[s]
	return ok && len(allowed) == 0
}

// AllowedTransitions returns the statuses s may move to.
func (s Status) AllowedTransitions() []Status {
	return slices.Clone(transitions[s])
}

// CanTransitionTo reports whether the table allows s -> target.
func (s Status) CanTransitionTo(target Status) bool {
	return slices.Contains(transitions[s], target)
}

// TransitionTo returns target if the table allows s -> target, otherwise an
// IllegalTransition error naming both statuses.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, NewIllegalTransitionError(s, target)
	}
	return target, nil
}

// MarshalText encodes the status name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(data []byte) error {
	parsed, err := ParseStatus(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
