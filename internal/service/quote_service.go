package service

import (
	"context"
	"time"

	"github.com/dushixiang/tradebook/internal/config"
	"github.com/dushixiang/tradebook/internal/models"
	"github.com/dushixiang/tradebook/internal/repo"
	"github.com/dushixiang/tradebook/internal/xe"
	"github.com/dushixiang/tradebook/pkg/exchange"
	"github.com/dushixiang/tradebook/pkg/nostd"
	"github.com/dushixiang/tradebook/pkg/yahoo"
	"github.com/go-orz/orz"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuoteService 行情服务：加密货币走 Binance，股票走 Yahoo Finance，
// 结果写入数据库缓存，有效期内直接命中缓存。
type QuoteService struct {
	logger *zap.Logger

	*orz.Service
	*repo.PriceQuoteRepo

	binance  *exchange.BinanceClient
	yahoo    *yahoo.Client
	cacheTTL time.Duration
}

// NewQuoteService 创建行情服务
func NewQuoteService(db *gorm.DB, binanceClient *exchange.BinanceClient, yahooClient *yahoo.Client,
	conf *config.Config, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		logger:         logger,
		Service:        orz.NewService(db),
		PriceQuoteRepo: repo.NewPriceQuoteRepo(db),
		binance:        binanceClient,
		yahoo:          yahooClient,
		cacheTTL:       conf.Prices.CacheTTL(),
	}
}

// AssetRef 行情查询目标
type AssetRef struct {
	Symbol    string           `json:"symbol" validate:"required"`
	AssetType models.AssetType `json:"asset_type" validate:"required"`
}

// GetQuote 获取单个资产的行情，优先命中缓存。
// 外部行情源失败返回 xe.ErrQuoteNotFound，由调用方降级处理。
func (s *QuoteService) GetQuote(ctx context.Context, symbol string, assetType models.AssetType) (*models.PriceQuote, error) {
	if !assetType.Valid() {
		return nil, xe.ErrInvalidAssetType
	}
	symbol = nostd.NormalizeSymbol(symbol)

	cached, err := s.PriceQuoteRepo.FindFresh(ctx, symbol, assetType, s.cacheTTL)
	if err == nil {
		return &cached, nil
	}

	quote, err := s.fetchQuote(ctx, symbol, assetType)
	if err != nil {
		s.logger.Warn("failed to fetch quote",
			zap.String("symbol", symbol),
			zap.String("asset_type", string(assetType)),
			zap.Error(err))
		return nil, xe.ErrQuoteNotFound
	}

	if err := s.PriceQuoteRepo.Upsert(ctx, quote); err != nil {
		// 缓存写入失败不阻断行情返回
		s.logger.Warn("failed to cache quote", zap.String("symbol", symbol), zap.Error(err))
	}
	return quote, nil
}

func (s *QuoteService) fetchQuote(ctx context.Context, symbol string, assetType models.AssetType) (*models.PriceQuote, error) {
	quote := &models.PriceQuote{
		Symbol:      symbol,
		AssetType:   assetType,
		LastUpdated: time.Now(),
	}

	if assetType == models.AssetTypeCrypto {
		ticker, err := s.binance.GetTicker(ctx, cryptoPair(symbol))
		if err != nil {
			return nil, err
		}
		quote.Price = ticker.Price
		quote.Change24h = ticker.Change24h
		quote.ChangePercent24h = ticker.ChangePercent24h
		quote.High24h = ticker.High24h
		quote.Low24h = ticker.Low24h
		quote.Volume24h = ticker.Volume24h
		return quote, nil
	}

	yq, err := s.yahoo.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	quote.Price = yq.Price
	quote.Change24h = yq.Change24h
	quote.ChangePercent24h = yq.ChangePercent24h
	quote.High24h = yq.High24h
	quote.Low24h = yq.Low24h
	quote.Volume24h = yq.Volume24h
	return quote, nil
}

// QuoteResult 批量行情中单个资产的结果，失败时 Quote 为空、Error 带原因
type QuoteResult struct {
	Symbol    string             `json:"symbol"`
	AssetType models.AssetType   `json:"asset_type"`
	Quote     *models.PriceQuote `json:"quote,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// GetQuotes 批量获取行情，单个资产失败不影响其他资产
func (s *QuoteService) GetQuotes(ctx context.Context, assets []AssetRef) []QuoteResult {
	results := make([]QuoteResult, 0, len(assets))
	for _, asset := range assets {
		symbol := nostd.NormalizeSymbol(asset.Symbol)
		result := QuoteResult{Symbol: symbol, AssetType: asset.AssetType}

		quote, err := s.GetQuote(ctx, symbol, asset.AssetType)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Quote = quote
		}
		results = append(results, result)
	}
	return results
}

// PricePoint 历史价格数据点
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// PriceHistory 历史价格序列
type PriceHistory struct {
	Symbol    string           `json:"symbol"`
	AssetType models.AssetType `json:"asset_type"`
	History   []PricePoint     `json:"history"`
}

// GetHistory 获取历史价格，days 取值1-365；7天以内用小时线，否则用日线
func (s *QuoteService) GetHistory(ctx context.Context, symbol string, assetType models.AssetType, days int) (*PriceHistory, error) {
	if !assetType.Valid() {
		return nil, xe.ErrInvalidAssetType
	}
	if days < 1 || days > 365 {
		return nil, xe.ErrInvalidDays
	}
	symbol = nostd.NormalizeSymbol(symbol)

	history := &PriceHistory{Symbol: symbol, AssetType: assetType}

	if assetType == models.AssetTypeCrypto {
		interval, limit := "1d", days
		if days <= 7 {
			interval, limit = "1h", days*24
		}
		klines, err := s.binance.GetKlines(ctx, cryptoPair(symbol), interval, limit)
		if err != nil {
			s.logger.Warn("failed to fetch kline history", zap.String("symbol", symbol), zap.Error(err))
			return nil, xe.ErrQuoteNotFound
		}
		history.History = make([]PricePoint, 0, len(klines))
		for _, k := range klines {
			history.History = append(history.History, PricePoint{Timestamp: k.CloseTime, Price: k.Close})
		}
		return history, nil
	}

	points, err := s.yahoo.GetHistory(ctx, symbol, days)
	if err != nil {
		s.logger.Warn("failed to fetch stock history", zap.String("symbol", symbol), zap.Error(err))
		return nil, xe.ErrQuoteNotFound
	}
	history.History = make([]PricePoint, 0, len(points))
	for _, p := range points {
		history.History = append(history.History, PricePoint{Timestamp: p.Timestamp, Price: p.Price})
	}
	return history, nil
}

// cryptoPair 交易代码映射为Binance现货交易对，以USDT计价
func cryptoPair(symbol string) string {
	return symbol + "USDT"
}
