// Package quotes looks up live stock quotes from an external data
// source. The provider is treated as slow and unreliable: lookups are
// bounded by a timeout and failures are surfaced to the caller.
package quotes

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when the data source does not know the symbol.
var ErrNotFound = errors.New("symbol not found")

// Quote is the current market data for one symbol.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

type Provider interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}
