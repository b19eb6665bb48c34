// Package documents holds shared pieces of the document modules
// (production batches, purchases, sales).
package documents

import (
	"context"
	"time"

	"orfebre/pkg/numerator"
)

// Numbering hands out document numbers. Implemented by pkg/numerator.
type Numbering interface {
	GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error)
}

// ListFilter narrows document listings.
type ListFilter struct {
	// From and To bound the business date, inclusive. Zero means unbounded.
	From time.Time
	To   time.Time

	Limit  int
	Offset int
}

// Normalize clamps pagination to sane values.
func (f *ListFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}
