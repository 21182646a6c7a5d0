package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Trade sides as stored in the transactions table.
const (
	TradeBuy  = "buy"
	TradeSell = "sell"
)

type User struct {
	gorm.Model
	Username     string          `gorm:"uniqueIndex" json:"username"`
	PasswordHash string          `json:"-"`
	Cash         decimal.Decimal `gorm:"type:numeric(20,2)" json:"cash"`
}

// Transaction is one ledger row. Rows are append-only: shares are
// positive for buys and negative for sells, and the price is the quote
// snapshot taken when the trade was validated.
type Transaction struct {
	gorm.Model
	UserID uint            `gorm:"index" json:"user_id"`
	Type   string          `json:"type"` // buy/sell
	Symbol string          `gorm:"index" json:"symbol"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `gorm:"type:numeric(20,4)" json:"price"`
}
