// Package services holds domain services: logic that needs an Order but is
// not a responsibility of the aggregate itself.
//
// ReadyTimeEstimator turns a shop queue position into an estimated pickup time.
package services
