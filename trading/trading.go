// Package trading validates buy/sell orders and commits them to the
// ledger. Validation runs in a fixed order and the first failing rule
// aborts the order with nothing written; the ledger re-enforces the
// funds and holdings rules inside its own transaction, so a check that
// passed here against a stale read still cannot corrupt the balance.
package trading

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tradesim/ledger"
	"tradesim/models"
	"tradesim/money"
	"tradesim/quotes"
)

// maxOrderShares bounds a single order. An anti-abuse limit, not a
// brokerage rule, and it applies to buys only: a sell is already
// bounded by holdings.
const maxOrderShares = 999

var (
	ErrMissingSymbol = errors.New("no stock symbol provided")
	ErrInvalidShares = errors.New("share amount must be a positive whole number")
	ErrTooManyShares = errors.New("cannot buy more than 999 shares in a single order")
)

type Service struct {
	ledger *ledger.Store
	quotes quotes.Provider
	log    *zap.Logger
}

func NewService(store *ledger.Store, provider quotes.Provider, log *zap.Logger) *Service {
	return &Service{ledger: store, quotes: provider, log: log}
}

// Buy validates and executes a purchase. The price debited is the
// quote fetched during validation; it is not re-fetched at commit.
func (s *Service) Buy(ctx context.Context, userID uint, symbol string, shares int64) (*models.Transaction, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrMissingSymbol
	}
	if shares <= 0 {
		return nil, ErrInvalidShares
	}
	if shares > maxOrderShares {
		return nil, ErrTooManyShares
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	cost := money.Cost(quote.Price, shares)
	cash, err := s.ledger.CashBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cash.LessThan(cost) {
		return nil, ledger.ErrInsufficientFunds
	}

	entry, err := s.ledger.RecordTrade(ctx, userID, models.TradeBuy, symbol, shares, quote.Price)
	if err != nil {
		return nil, err
	}

	s.log.Info("buy executed",
		zap.Uint("user_id", userID),
		zap.String("symbol", symbol),
		zap.Int64("shares", shares),
		zap.String("price", quote.Price.String()),
		zap.String("cost", cost.String()))
	return entry, nil
}

// Sell validates and executes a sale. Shares are recorded negative so
// the signed per-symbol sum stays the single source of holdings truth.
func (s *Service) Sell(ctx context.Context, userID uint, symbol string, shares int64) (*models.Transaction, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrMissingSymbol
	}
	if shares <= 0 {
		return nil, ErrInvalidShares
	}

	net, err := s.ledger.NetShares(ctx, userID)
	if err != nil {
		return nil, err
	}
	if net[symbol] < shares {
		return nil, ledger.ErrInsufficientHoldings
	}

	quote, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	entry, err := s.ledger.RecordTrade(ctx, userID, models.TradeSell, symbol, shares, quote.Price)
	if err != nil {
		return nil, err
	}

	s.log.Info("sell executed",
		zap.Uint("user_id", userID),
		zap.String("symbol", symbol),
		zap.Int64("shares", shares),
		zap.String("price", quote.Price.String()),
		zap.String("proceeds", money.Cost(quote.Price, shares).String()))
	return entry, nil
}
