package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tradesim/middleware"
)

type tradeInput struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

func (h *Handler) Buy(c *gin.Context) {
	userID := middleware.UserID(c)

	var input tradeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.Trading.Buy(c.Request.Context(), userID, input.Symbol, input.Shares)
	if err != nil {
		h.abortForError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "purchase successful", "transaction": entry})
}

func (h *Handler) Sell(c *gin.Context) {
	userID := middleware.UserID(c)

	var input tradeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.Trading.Sell(c.Request.Context(), userID, input.Symbol, input.Shares)
	if err != nil {
		h.abortForError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "sale successful", "transaction": entry})
}

// GetPortfolio returns currently-owned positions valued at live
// prices, the full net-shares mapping, and the cash/stock/total
// breakdown.
func (h *Handler) GetPortfolio(c *gin.Context) {
	userID := middleware.UserID(c)

	summary, err := h.Portfolio.Summary(c.Request.Context(), userID)
	if err != nil {
		h.abortForError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetHistory returns the user's transactions, most recent first.
func (h *Handler) GetHistory(c *gin.Context) {
	userID := middleware.UserID(c)

	history, err := h.Ledger.History(c.Request.Context(), userID)
	if err != nil {
		h.abortForError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}
