// Package ledger is the durable trade ledger: an append-only table of
// buy/sell transactions plus a per-user cash balance. Holdings are
// never stored; they are always derived from the signed share sums, so
// the ledger is the single source of truth.
package ledger

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradesim/models"
	"tradesim/money"
)

var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrUserNotFound         = errors.New("user not found")
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// RecordTrade appends one transaction row and adjusts the user's cash
// by the rounded price*shares total, both inside a single database
// transaction. The funds and holdings conditions are enforced here,
// against the locked row state, so two concurrent trades for the same
// user cannot both pass a check against a stale read. shares is the
// requested (positive) count for both sides; sells are stored negated.
func (s *Store) RecordTrade(ctx context.Context, userID uint, side, symbol string, shares int64, price decimal.Decimal) (*models.Transaction, error) {
	if side != models.TradeBuy && side != models.TradeSell {
		return nil, errors.Errorf("unknown trade side %q", side)
	}
	if shares <= 0 {
		return nil, errors.Errorf("share count must be positive, got %d", shares)
	}
	if !price.IsPositive() {
		return nil, errors.Errorf("price must be positive, got %s", price)
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	total := money.Cost(price, shares)

	entry := models.Transaction{
		UserID: userID,
		Type:   side,
		Symbol: symbol,
		Shares: shares,
		Price:  price,
	}
	if side == models.TradeSell {
		entry.Shares = -shares
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if side == models.TradeBuy {
			// The cash >= total predicate makes the funds check and the
			// debit a single atomic statement.
			res := tx.Model(&models.User{}).
				Where("id = ? AND cash >= ?", userID, total).
				Update("cash", gorm.Expr("cash - ?", total))
			if res.Error != nil {
				return errors.Wrap(res.Error, "debit cash")
			}
			if res.RowsAffected == 0 {
				var exists int64
				if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&exists).Error; err != nil {
					return errors.Wrap(err, "check user")
				}
				if exists == 0 {
					return ErrUserNotFound
				}
				return ErrInsufficientFunds
			}
		} else {
			// The credit takes the user's row write-lock before holdings
			// are recomputed, so concurrent sells for the same user
			// serialize here instead of both passing a stale check.
			res := tx.Model(&models.User{}).
				Where("id = ?", userID).
				Update("cash", gorm.Expr("cash + ?", total))
			if res.Error != nil {
				return errors.Wrap(res.Error, "credit cash")
			}
			if res.RowsAffected == 0 {
				return ErrUserNotFound
			}

			var net int64
			err := tx.Model(&models.Transaction{}).
				Where("user_id = ? AND symbol = ?", userID, symbol).
				Select("COALESCE(SUM(shares), 0)").
				Scan(&net).Error
			if err != nil {
				return errors.Wrap(err, "sum holdings")
			}
			if net < shares {
				return ErrInsufficientHoldings
			}
		}

		if err := tx.Create(&entry).Error; err != nil {
			return errors.Wrap(err, "append transaction")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// NetShares returns the signed share sum per symbol over the user's
// full history. Symbols the user has fully sold out of appear with a
// zero (or negative, if the data is bad) count.
func (s *Store) NetShares(ctx context.Context, userID uint) (map[string]int64, error) {
	var rows []struct {
		Symbol string
		Net    int64
	}
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("symbol, SUM(shares) AS net").
		Where("user_id = ?", userID).
		Group("symbol").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "aggregate net shares")
	}

	net := make(map[string]int64, len(rows))
	for _, r := range rows {
		net[r.Symbol] = r.Net
	}
	return net, nil
}

// History returns the user's transactions, most recent first.
func (s *Store) History(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&txs).Error
	if err != nil {
		return nil, errors.Wrap(err, "load history")
	}
	return txs, nil
}

func (s *Store) CashBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("cash").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "load cash balance")
	}
	return user.Cash, nil
}
