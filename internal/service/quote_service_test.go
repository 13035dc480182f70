package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dushixiang/tradebook/internal/config"
	"github.com/dushixiang/tradebook/internal/models"
	"github.com/dushixiang/tradebook/internal/repo"
	"github.com/dushixiang/tradebook/internal/xe"
	"github.com/dushixiang/tradebook/pkg/yahoo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const chartBody = `{"chart":{"result":[{"meta":{"symbol":"AAPL","regularMarketPrice":190.5,"previousClose":185.0},
"timestamp":[1704067200,1704070800],
"indicators":{"quote":[{"high":[191.0,192.0],"low":[184.0,186.0],"close":[188.0,190.5],"volume":[1000,2000]}]}}],"error":null}}`

func newStockQuoteService(t *testing.T, db *gorm.DB, baseURL string) *QuoteService {
	t.Helper()
	yahooClient := yahoo.NewClient(baseURL, nil)
	return NewQuoteService(db, nil, yahooClient, &config.Config{}, zap.NewNop())
}

func seedQuote(t *testing.T, db *gorm.DB, symbol string, assetType models.AssetType, price float64, updated time.Time) {
	t.Helper()
	quote := &models.PriceQuote{
		Symbol:      symbol,
		AssetType:   assetType,
		Price:       price,
		LastUpdated: updated,
	}
	require.NoError(t, repo.NewPriceQuoteRepo(db).Upsert(context.Background(), quote))
}

func TestQuoteService_CacheHit(t *testing.T) {
	db := setupTestDB(t)
	// 缓存命中时不触发任何外部请求，nil客户端也不会被碰到
	s := NewQuoteService(db, nil, nil, &config.Config{}, zap.NewNop())

	seedQuote(t, db, "BTC", models.AssetTypeCrypto, 42000, time.Now())

	quote, err := s.GetQuote(context.Background(), "btc", models.AssetTypeCrypto)
	require.NoError(t, err)
	assert.Equal(t, 42000.0, quote.Price)
	assert.Equal(t, "BTC", quote.Symbol)
}

func TestQuoteService_StaleCacheTriggersFetch(t *testing.T) {
	db := setupTestDB(t)

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, chartBody)
	}))
	defer server.Close()

	s := newStockQuoteService(t, db, server.URL)

	// 缓存已过期（默认有效期5分钟）
	seedQuote(t, db, "AAPL", models.AssetTypeStock, 100, time.Now().Add(-10*time.Minute))

	quote, err := s.GetQuote(context.Background(), "AAPL", models.AssetTypeStock)
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
	assert.Equal(t, 190.5, quote.Price)
	assert.Equal(t, 5.5, quote.Change24h)

	// 刷新后的行情回写缓存，再次查询不再发请求
	again, err := s.GetQuote(context.Background(), "AAPL", models.AssetTypeStock)
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
	assert.Equal(t, 190.5, again.Price)
}

func TestQuoteService_FetchFailure(t *testing.T) {
	db := setupTestDB(t)
	// 不可达的行情源
	s := newStockQuoteService(t, db, "http://127.0.0.1:1")

	_, err := s.GetQuote(context.Background(), "AAPL", models.AssetTypeStock)
	assert.ErrorIs(t, err, xe.ErrQuoteNotFound)
}

func TestQuoteService_InvalidAssetType(t *testing.T) {
	db := setupTestDB(t)
	s := NewQuoteService(db, nil, nil, &config.Config{}, zap.NewNop())

	_, err := s.GetQuote(context.Background(), "BTC", "forex")
	assert.ErrorIs(t, err, xe.ErrInvalidAssetType)
}

func TestQuoteService_Batch(t *testing.T) {
	db := setupTestDB(t)
	s := newStockQuoteService(t, db, "http://127.0.0.1:1")

	seedQuote(t, db, "BTC", models.AssetTypeCrypto, 42000, time.Now())

	results := s.GetQuotes(context.Background(), []AssetRef{
		{Symbol: "btc", AssetType: models.AssetTypeCrypto},
		{Symbol: "AAPL", AssetType: models.AssetTypeStock},
	})
	require.Len(t, results, 2)

	// 单个资产失败不影响其他资产
	require.NotNil(t, results[0].Quote)
	assert.Equal(t, 42000.0, results[0].Quote.Price)
	assert.Empty(t, results[0].Error)

	assert.Nil(t, results[1].Quote)
	assert.NotEmpty(t, results[1].Error)
}

func TestQuoteService_HistoryDaysRange(t *testing.T) {
	db := setupTestDB(t)
	s := NewQuoteService(db, nil, nil, &config.Config{}, zap.NewNop())

	for _, days := range []int{0, -1, 366} {
		_, err := s.GetHistory(context.Background(), "BTC", models.AssetTypeCrypto, days)
		assert.ErrorIs(t, err, xe.ErrInvalidDays)
	}
}

func TestQuoteService_StockHistory(t *testing.T) {
	db := setupTestDB(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody)
	}))
	defer server.Close()

	s := newStockQuoteService(t, db, server.URL)

	history, err := s.GetHistory(context.Background(), "aapl", models.AssetTypeStock, 30)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", history.Symbol)
	require.Len(t, history.History, 2)
	assert.Equal(t, 188.0, history.History[0].Price)
	assert.Equal(t, 190.5, history.History[1].Price)
}
