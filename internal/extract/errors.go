// Package extract turns raw model output into a validated invoice record.
//
// The pipeline has two explicit steps:
//   - Normalize: strip markdown fences, parse JSON, check the object against
//     the document schema, and coerce the loosely typed "items" field into
//     []domain.Item.
//   - Validate: map the normalized document onto domain.InvoiceRecord,
//     dropping unrecognized keys.
//
// Missing values take documented defaults. Malformed values are hard
// failures and surface as errors wrapping ErrMalformedResponse or
// ErrInvalidRecord; nothing is silently repaired.
package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse indicates the model output was not a JSON object
	// after fence stripping, or an item value could not be coerced.
	ErrMalformedResponse = errors.New("malformed extraction response")

	// ErrInvalidRecord indicates a recognized scalar field had a shape that
	// cannot be represented as a string (object or array).
	ErrInvalidRecord = errors.New("invalid invoice record")
)

// CoercionError reports a present value that could not be converted to the
// type its field requires. It unwraps to ErrMalformedResponse.
type CoercionError struct {
	Path  string // e.g. items[2].quantity
	Value any
	Want  string // integer | number
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("%s: cannot convert %v (%T) to %s", e.Path, e.Value, e.Value, e.Want)
}

// Unwrap lets errors.Is match ErrMalformedResponse.
func (e *CoercionError) Unwrap() error { return ErrMalformedResponse }
