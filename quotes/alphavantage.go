package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultBaseURL  = "https://www.alphavantage.co/query"
	defaultTimeout  = 10 * time.Second
	cacheExpiration = 5 * time.Minute
)

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
}

// AlphaVantage fetches quotes from the Alpha Vantage GLOBAL_QUOTE
// endpoint, caching prices in Redis for a few minutes. The cache is
// optional: with a nil Redis client every lookup hits the API.
type AlphaVantage struct {
	apiKey  string
	baseURL string
	client  *http.Client
	rdb     *redis.Client
	log     *zap.Logger
}

func NewAlphaVantage(apiKey string, rdb *redis.Client, log *zap.Logger) *AlphaVantage {
	return &AlphaVantage{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		rdb:     rdb,
		log:     log,
	}
}

func cacheKey(symbol string) string {
	return fmt.Sprintf("stock:%s:price", symbol)
}

func (a *AlphaVantage) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrNotFound
	}

	if a.rdb != nil {
		cached, err := a.rdb.Get(ctx, cacheKey(symbol)).Result()
		if err == nil {
			price, perr := decimal.NewFromString(cached)
			if perr == nil {
				return &Quote{Symbol: symbol, Name: symbol, Price: price}, nil
			}
		}
	}

	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build quote request")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch quote for %s", symbol)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("quote provider returned status %d for %s", resp.StatusCode, symbol)
	}

	var body globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrapf(err, "parse quote for %s", symbol)
	}

	if body.GlobalQuote.Price == "" {
		return nil, ErrNotFound
	}

	price, err := decimal.NewFromString(body.GlobalQuote.Price)
	if err != nil {
		return nil, errors.Wrapf(err, "parse quote price %q", body.GlobalQuote.Price)
	}
	if !price.IsPositive() {
		return nil, errors.Errorf("quote provider returned non-positive price %s for %s", price, symbol)
	}

	if a.rdb != nil {
		if err := a.rdb.Set(ctx, cacheKey(symbol), price.String(), cacheExpiration).Err(); err != nil {
			a.log.Warn("failed to cache quote", zap.String("symbol", symbol), zap.Error(err))
		}
	}

	return &Quote{Symbol: symbol, Name: symbol, Price: price}, nil
}
