// Package errs provides the typed errors shared by the order service layers.
//
// Every type follows the same shape:
//   - a sentinel error variable (e.g., ErrObjectNotFound)
//   - a struct carrying the offending parameter and an optional cause
//   - constructors with and without cause
//   - Unwrap returning the sentinel and the cause, so errors.Is matches either
//
// The transport maps sentinels to response categories: ErrObjectNotFound is a
// "not found", ErrValueIsInvalid, ErrValueIsOutOfRange and ErrValueIsRequired are
// "bad request", ErrVersionIsInvalid is a concurrent modification conflict.
package errs
