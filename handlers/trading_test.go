package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"tradesim/models"
	"tradesim/quotes"
)

type stubQuotes struct {
	prices map[string]string
}

func (s stubQuotes) Lookup(_ context.Context, symbol string) (*quotes.Quote, error) {
	price, ok := s.prices[symbol]
	if !ok {
		return nil, quotes.ErrNotFound
	}
	return &quotes.Quote{Symbol: symbol, Name: symbol, Price: decimal.RequireFromString(price)}, nil
}

func TestTradeFlow(t *testing.T) {
	router, _ := newTestRouter(t, stubQuotes{prices: map[string]string{"AAPL": "150.00"}})
	registerUser(t, router, "erin", "pw")
	token, _ := loginToken(t, router, "erin", "pw")

	w := doJSON(t, router, http.MethodGet, "/quote/AAPL", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/buy", token, gin.H{"symbol": "aapl", "shares": 10})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var portfolioResp struct {
		Positions []struct {
			Symbol string `json:"symbol"`
			Shares int64  `json:"shares"`
		} `json:"positions"`
		Cash       decimal.Decimal `json:"cash"`
		TotalValue decimal.Decimal `json:"total_value"`
	}
	w = doJSON(t, router, http.MethodGet, "/portfolio", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &portfolioResp))
	require.Len(t, portfolioResp.Positions, 1)
	require.Equal(t, "AAPL", portfolioResp.Positions[0].Symbol)
	require.Equal(t, int64(10), portfolioResp.Positions[0].Shares)
	require.True(t, portfolioResp.Cash.Equal(decimal.RequireFromString("8500.00")))
	require.True(t, portfolioResp.TotalValue.Equal(decimal.RequireFromString("10000.00")))

	w = doJSON(t, router, http.MethodPost, "/sell", token, gin.H{"symbol": "AAPL", "shares": 10})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var history []models.Transaction
	w = doJSON(t, router, http.MethodGet, "/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 2)
	require.Equal(t, models.TradeSell, history[0].Type, "history is most recent first")
	require.Equal(t, int64(-10), history[0].Shares)
	require.Equal(t, models.TradeBuy, history[1].Type)
}

func TestTradeErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     gin.H
		wantCode int
	}{
		{"unknown symbol", "/buy", gin.H{"symbol": "NOPE", "shares": 1}, http.StatusNotFound},
		{"missing symbol", "/buy", gin.H{"shares": 1}, http.StatusBadRequest},
		{"zero shares", "/buy", gin.H{"symbol": "AAPL", "shares": 0}, http.StatusBadRequest},
		{"too many shares", "/buy", gin.H{"symbol": "AAPL", "shares": 1000}, http.StatusBadRequest},
		{"unaffordable buy", "/buy", gin.H{"symbol": "PRICY", "shares": 999}, http.StatusUnprocessableEntity},
		{"oversell", "/sell", gin.H{"symbol": "AAPL", "shares": 5}, http.StatusUnprocessableEntity},
	}

	router, _ := newTestRouter(t, stubQuotes{prices: map[string]string{
		"AAPL":  "150.00",
		"PRICY": "99999.00",
	}})
	registerUser(t, router, "erin", "pw")
	token, _ := loginToken(t, router, "erin", "pw")

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, tc.path, token, tc.body)
			require.Equal(t, tc.wantCode, w.Code, w.Body.String())
		})
	}
}

func TestQuoteEndpointUnknownSymbol(t *testing.T) {
	router, _ := newTestRouter(t, stubQuotes{})
	registerUser(t, router, "erin", "pw")
	token, _ := loginToken(t, router, "erin", "pw")

	w := doJSON(t, router, http.MethodGet, "/quote/NOPE", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
