package internal

import (
	"net/http"

	"github.com/dushixiang/tradebook/internal/config"
	"github.com/dushixiang/tradebook/pkg/exchange"
	"github.com/dushixiang/tradebook/pkg/yahoo"
	"go.uber.org/zap"
)

// provideBinanceClient provides Binance spot market data client
func provideBinanceClient(conf *config.Config, logger *zap.Logger) *exchange.BinanceClient {
	client := exchange.NewBinanceClient(
		conf.Binance.APIKey,
		conf.Binance.Secret,
		conf.Binance.ProxyURL,
	)

	logger.Info("Binance client initialized",
		zap.Bool("has_credentials", conf.Binance.APIKey != "" && conf.Binance.Secret != ""),
	)
	return client
}

// provideYahooClient provides Yahoo Finance client for stock quotes
func provideYahooClient(conf *config.Config) *yahoo.Client {
	httpClient := &http.Client{Timeout: conf.Prices.Timeout()}
	return yahoo.NewClient(conf.Prices.YahooBaseURL, httpClient)
}
