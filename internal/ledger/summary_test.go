package ledger

import (
	"testing"
	"time"

	"github.com/dushixiang/tradebook/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		// 未平仓买入：成本 100*2
		tradeAt("BTC", models.AssetTypeCrypto, models.TradeSideBuy, models.TradeStatusOpen, 100, 2, floatPtr(2), day),
		// 已平仓买入：原始成本 10*5
		tradeAt("ETH", models.AssetTypeCrypto, models.TradeSideBuy, models.TradeStatusClosed, 10, 5, floatPtr(0), day),
		// 对应的平仓卖出：盈利25
		{
			ID: "s1", Symbol: "ETH", AssetType: models.AssetTypeCrypto,
			Side: models.TradeSideSell, Status: models.TradeStatusClosed,
			EntryPrice: 15, Quantity: 5, EntryDate: day, Pnl: floatPtr(25), PnlPercent: floatPtr(50),
		},
		// 亏损的平仓卖出
		{
			ID: "s2", Symbol: "SOL", AssetType: models.AssetTypeCrypto,
			Side: models.TradeSideSell, Status: models.TradeStatusClosed,
			EntryPrice: 8, Quantity: 1, EntryDate: day, Pnl: floatPtr(-5), PnlPercent: floatPtr(-38),
		},
		// 未关联的卖出：无盈亏，不参与统计
		{
			ID: "s3", Symbol: "DOGE", AssetType: models.AssetTypeCrypto,
			Side: models.TradeSideSell, Status: models.TradeStatusOpen,
			EntryPrice: 1, Quantity: 10, EntryDate: day,
		},
	}

	s := Summarize(trades)

	assert.Equal(t, 200.0, s.OpenPositionsCost)
	assert.Equal(t, 50.0, s.ClosedPositionsCostBasis)
	assert.Equal(t, 20.0, s.RealizedPnl)
	assert.Equal(t, 40.0, s.RealizedPnlPercent) // 20 / 50 * 100
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 50.0, s.WinRate)
	assert.Equal(t, 1, s.OpenPositions)
	assert.Equal(t, 1, s.ClosedPositions)
	assert.Equal(t, 5, s.TotalTrades)
}

func TestSummarize_NoDoubleCountingOnFullClose(t *testing.T) {
	// 完全平仓时买卖两条记录都带 pnl 快照，已实现盈亏只能算一次
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		{
			ID: "b1", Symbol: "BTC", AssetType: models.AssetTypeCrypto,
			Side: models.TradeSideBuy, Status: models.TradeStatusClosed,
			EntryPrice: 100, Quantity: 2, RemainingQuantity: floatPtr(0),
			EntryDate: day, Pnl: floatPtr(40), PnlPercent: floatPtr(20),
		},
		{
			ID: "s1", Symbol: "BTC", AssetType: models.AssetTypeCrypto,
			Side: models.TradeSideSell, Status: models.TradeStatusClosed,
			EntryPrice: 120, Quantity: 2, EntryDate: day,
			Pnl: floatPtr(40), PnlPercent: floatPtr(20),
		},
	}

	s := Summarize(trades)

	assert.Equal(t, 40.0, s.RealizedPnl)
	assert.Equal(t, 1, s.Wins)
}

func TestSummarize_ZeroPnlCountsNeither(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		{
			ID: "s1", Symbol: "BTC", AssetType: models.AssetTypeCrypto,
			Side: models.TradeSideSell, Status: models.TradeStatusClosed,
			EntryPrice: 100, Quantity: 1, EntryDate: day, Pnl: floatPtr(0),
		},
	}

	s := Summarize(trades)

	assert.Equal(t, 0, s.Wins)
	assert.Equal(t, 0, s.Losses)
	assert.Equal(t, 0.0, s.WinRate)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0.0, s.RealizedPnl)
	assert.Equal(t, 0.0, s.WinRate)
	assert.Equal(t, 0, s.TotalTrades)
}

func TestSummarize_LegacyNullRemainingUsesFullQuantity(t *testing.T) {
	// remaining_quantity 为 null 的未平仓买入按原始数量计成本
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		tradeAt("BTC", models.AssetTypeCrypto, models.TradeSideBuy, models.TradeStatusOpen, 100, 3, nil, day),
	}

	s := Summarize(trades)

	assert.Equal(t, 300.0, s.OpenPositionsCost)
}
