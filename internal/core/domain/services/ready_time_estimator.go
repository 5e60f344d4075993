package services

import (
	"fmt"
	"time"

	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/pkg/errs"
)

// DefaultQueueSlotDuration is the preparation time budgeted for every order ahead in
// a shop queue, the order itself included.
const DefaultQueueSlotDuration = 2 * time.Minute

// ReadyTimeEstimator derives when a queued order should be ready for pickup:
// now + queue position × slot duration. The slot duration is a policy parameter
// (ORDER_QUEUE_SLOT_DURATION), not a measured value.
//
// Example usage:
//
//	estimator, _ := services.NewReadyTimeEstimator(services.DefaultQueueSlotDuration)
//	readyAt, _ := estimator.Estimate(time.Now(), 3) // now + 6m
type ReadyTimeEstimator struct {
	slotDuration time.Duration
}

// NewReadyTimeEstimator requires a positive slot duration.
func NewReadyTimeEstimator(slotDuration time.Duration) (ReadyTimeEstimator, error) {
	if slotDuration <= 0 {
		return ReadyTimeEstimator{}, errs.NewValueIsInvalidErrorWithCause("slotDuration",
			fmt.Errorf("%s is not greater than 0", slotDuration))
	}
	return ReadyTimeEstimator{slotDuration: slotDuration}, nil
}

func (e ReadyTimeEstimator) SlotDuration() time.Duration {
	return e.slotDuration
}

// Estimate returns now + position × slot duration for a 1-based position.
func (e ReadyTimeEstimator) Estimate(now time.Time, position int) (time.Time, error) {
	if e.slotDuration <= 0 {
		return time.Time{}, errs.NewValueIsRequiredError("slotDuration")
	}
	if position < 1 {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause("queuePosition",
			fmt.Errorf("%d is less than 1", position))
	}
	return now.Add(time.Duration(position) * e.slotDuration), nil
}

// Queue assigns the shop-issued position to the order together with its estimate.
func (e ReadyTimeEstimator) Queue(o *order.Order, position int, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	readyAt, err := e.Estimate(now, position)
	if err != nil {
		return err
	}
	return o.AssignQueueSlot(position, readyAt)
}
