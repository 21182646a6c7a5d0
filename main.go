// Command tradesim runs the stock-trading simulator API: users
// register with simulated cash, look up live quotes, trade simulated
// shares, and view portfolio value and transaction history.
package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tradesim/config"
	"tradesim/handlers"
	"tradesim/ledger"
	"tradesim/middleware"
	"tradesim/models"
	"tradesim/portfolio"
	"tradesim/quotes"
	"tradesim/trading"
)

func main() {
	// Optional in deployment, where the environment is already set.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := cfg.OpenDB()
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get database instance", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(&models.User{}, &models.Transaction{}); err != nil {
		logger.Fatal("failed to migrate models", zap.Error(err))
	}

	rdb, err := cfg.NewRedis(context.Background())
	if err != nil {
		logger.Fatal("redis unavailable", zap.Error(err))
	}
	defer rdb.Close()

	provider := quotes.NewAlphaVantage(cfg.AlphaVantageKey, rdb, logger)
	store := ledger.NewStore(db)

	h := &handlers.Handler{
		DB:        db,
		Rdb:       rdb,
		Cfg:       cfg,
		Log:       logger,
		Ledger:    store,
		Portfolio: portfolio.NewAggregator(store, provider),
		Trading:   trading.NewService(store, provider, logger),
		Quotes:    provider,
	}

	router := gin.Default()

	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)

	auth := router.Group("/")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	{
		auth.GET("/quote/:symbol", h.GetQuote)
		auth.POST("/buy", h.Buy)
		auth.POST("/sell", h.Sell)
		auth.GET("/portfolio", h.GetPortfolio)
		auth.GET("/history", h.GetHistory)
		auth.POST("/password", h.ChangePassword)
	}

	logger.Info("starting server", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
