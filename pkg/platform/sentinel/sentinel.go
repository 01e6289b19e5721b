// Package sentinel holds infrastructure errors. Stores and payment adapters
// return them, optionally wrapped, and services translate them into
// domain errors. Input problems use pkg/domain-errors instead.
package sentinel

import "errors"

var (
	// ErrNotFound: no such session or record at the store or processor.
	ErrNotFound    = errors.New("not found")
	// ErrUnavailable: the backing service could not be reached or failed.
	ErrUnavailable = errors.New("unavailable")
)
