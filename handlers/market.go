package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tradesim/quotes"
)

// GetQuote looks up the live quote for a symbol. Provider outages are
// recoverable: the request fails, the process does not.
func (h *Handler) GetQuote(c *gin.Context) {
	symbol := c.Param("symbol")

	quote, err := h.Quotes.Lookup(c.Request.Context(), symbol)
	if errors.Is(err, quotes.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "stock not found"})
		return
	}
	if err != nil {
		h.Log.Warn("quote lookup failed", zap.String("symbol", symbol), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to fetch stock data"})
		return
	}

	c.JSON(http.StatusOK, quote)
}
