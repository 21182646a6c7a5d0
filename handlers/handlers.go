// Package handlers is the gin JSON surface. Handlers validate the
// request shape, delegate to the core services, and map domain errors
// to HTTP statuses; no business rule lives here.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tradesim/config"
	"tradesim/ledger"
	"tradesim/portfolio"
	"tradesim/quotes"
	"tradesim/trading"
)

type Handler struct {
	DB        *gorm.DB
	Rdb       *redis.Client
	Cfg       *config.Config
	Log       *zap.Logger
	Ledger    *ledger.Store
	Portfolio *portfolio.Aggregator
	Trading   *trading.Service
	Quotes    quotes.Provider
}

// abortForError translates domain errors into responses. Anything not
// recognized is a store or provider failure: logged in full, surfaced
// as a generic 500 so internals do not leak.
func (h *Handler) abortForError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trading.ErrMissingSymbol),
		errors.Is(err, trading.ErrInvalidShares),
		errors.Is(err, trading.ErrTooManyShares):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, quotes.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "stock not found"})
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientHoldings):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrUserNotFound):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
	default:
		h.Log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
