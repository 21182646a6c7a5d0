// Package portfolio derives holdings and market values from the trade
// ledger. Nothing here is persisted: every view is recomputed from the
// signed share sums plus live quotes, so it cannot drift from the
// ledger.
package portfolio

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"tradesim/ledger"
	"tradesim/money"
	"tradesim/quotes"
)

// Position is one currently-owned symbol with its live valuation.
type Position struct {
	Symbol      string          `json:"symbol"`
	Shares      int64           `json:"shares"`
	Price       decimal.Decimal `json:"price"`
	MarketValue decimal.Decimal `json:"market_value"`
}

// Summary is the full portfolio view: owned positions priced live,
// the complete net-shares mapping (including sold-out symbols), and
// the cash/stock/total breakdown.
type Summary struct {
	Positions  []Position       `json:"positions"`
	NetShares  map[string]int64 `json:"net_shares"`
	Cash       decimal.Decimal  `json:"cash"`
	StockValue decimal.Decimal  `json:"stock_value"`
	TotalValue decimal.Decimal  `json:"total_value"`
}

type Aggregator struct {
	ledger *ledger.Store
	quotes quotes.Provider
}

func NewAggregator(store *ledger.Store, provider quotes.Provider) *Aggregator {
	return &Aggregator{ledger: store, quotes: provider}
}

// Summary values the user's portfolio at current prices. A quote
// failure for an owned symbol is an error: silently zeroing a position
// would understate net worth.
func (a *Aggregator) Summary(ctx context.Context, userID uint) (*Summary, error) {
	net, err := a.ledger.NetShares(ctx, userID)
	if err != nil {
		return nil, err
	}
	cash, err := a.ledger.CashBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	owned := make([]string, 0, len(net))
	for symbol, shares := range net {
		if shares > 0 {
			owned = append(owned, symbol)
		}
	}
	sort.Strings(owned)

	summary := &Summary{
		Positions:  make([]Position, 0, len(owned)),
		NetShares:  net,
		Cash:       money.Cents(cash),
		StockValue: decimal.Zero,
	}

	for _, symbol := range owned {
		quote, err := a.quotes.Lookup(ctx, symbol)
		if err != nil {
			return nil, errors.Wrapf(err, "value holding %s", symbol)
		}
		value := money.Cost(quote.Price, net[symbol])
		summary.Positions = append(summary.Positions, Position{
			Symbol:      symbol,
			Shares:      net[symbol],
			Price:       quote.Price,
			MarketValue: value,
		})
		summary.StockValue = summary.StockValue.Add(value)
	}

	summary.StockValue = money.Cents(summary.StockValue)
	summary.TotalValue = money.Cents(summary.Cash.Add(summary.StockValue))
	return summary, nil
}
