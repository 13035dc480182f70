package ledger

import (
	"testing"
	"time"

	"github.com/dushixiang/tradebook/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func openBuy(symbol string, price, quantity float64, remaining *float64) *models.Trade {
	return &models.Trade{
		ID:                "01HTESTBUY0000000000000000",
		AssetType:         models.AssetTypeCrypto,
		Symbol:            symbol,
		Side:              models.TradeSideBuy,
		EntryDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EntryPrice:        price,
		Quantity:          quantity,
		RemainingQuantity: remaining,
		Status:            models.TradeStatusOpen,
	}
}

func TestMatchSell_PartialClose(t *testing.T) {
	// 买入2个@100，卖出1个@150
	buy := openBuy("BTC", 100, 2, floatPtr(2))

	m := MatchSell(buy, 150, 1)

	assert.Equal(t, 1.0, m.MatchedQuantity)
	assert.Equal(t, 0.0, m.UnmatchedQuantity)
	assert.Equal(t, 50.0, m.Pnl)
	assert.Equal(t, 50.0, m.PnlPercent)
	assert.Equal(t, 1.0, m.NewRemaining)
	assert.False(t, m.Closed)
}

func TestMatchSell_FullClose(t *testing.T) {
	buy := openBuy("BTC", 100, 2, floatPtr(1))

	m := MatchSell(buy, 120, 1)

	assert.Equal(t, 1.0, m.MatchedQuantity)
	assert.Equal(t, 20.0, m.Pnl)
	assert.Equal(t, 20.0, m.PnlPercent)
	assert.Equal(t, 0.0, m.NewRemaining)
	assert.True(t, m.Closed)
}

func TestMatchSell_ExcessQuantityCapped(t *testing.T) {
	// 卖出数量超过剩余数量，只按剩余数量撮合，超出部分单独返回
	buy := openBuy("ETH", 10, 5, floatPtr(5))

	m := MatchSell(buy, 15, 8)

	assert.Equal(t, 5.0, m.MatchedQuantity)
	assert.Equal(t, 3.0, m.UnmatchedQuantity)
	assert.Equal(t, 25.0, m.Pnl) // (15-10)*5，超出部分不计盈亏
	assert.True(t, m.Closed)
}

func TestMatchSell_NullRemainingFallsBackToQuantity(t *testing.T) {
	// 历史数据 remaining_quantity 为 null，按原始数量处理
	buy := openBuy("BTC", 100, 2, nil)

	m := MatchSell(buy, 150, 1)

	assert.Equal(t, 1.0, m.MatchedQuantity)
	assert.Equal(t, 1.0, m.NewRemaining)
	assert.False(t, m.Closed)
}

func TestMatchSell_SequentialPartialsAccumulate(t *testing.T) {
	buy := openBuy("BTC", 100, 10, floatPtr(10))

	m1 := MatchSell(buy, 110, 3)
	require.False(t, m1.Closed)
	require.Equal(t, 7.0, m1.NewRemaining)

	buy.RemainingQuantity = &m1.NewRemaining
	m2 := MatchSell(buy, 120, 4)
	require.False(t, m2.Closed)
	require.Equal(t, 3.0, m2.NewRemaining)

	buy.RemainingQuantity = &m2.NewRemaining
	m3 := MatchSell(buy, 90, 3)
	assert.True(t, m3.Closed)
	assert.Equal(t, 0.0, m3.NewRemaining)
	assert.Equal(t, -30.0, m3.Pnl)
}

func TestMatchSell_FloatResidueCloses(t *testing.T) {
	// 0.1+0.2 != 0.3 的浮点残差不应让记录卡在 open 状态
	buy := openBuy("BTC", 100, 0.3, floatPtr(0.3))

	m1 := MatchSell(buy, 100, 0.1)
	require.False(t, m1.Closed)

	buy.RemainingQuantity = &m1.NewRemaining
	m2 := MatchSell(buy, 100, 0.2)
	assert.True(t, m2.Closed)
	assert.Equal(t, 0.0, m2.NewRemaining)
}

func TestMatchSell_ZeroEntryPricePercent(t *testing.T) {
	buy := openBuy("BTC", 0, 1, floatPtr(1))

	m := MatchSell(buy, 100, 1)

	assert.Equal(t, 100.0, m.Pnl)
	assert.Equal(t, 0.0, m.PnlPercent)
}

func TestCloseOnEdit_UsesOriginalQuantity(t *testing.T) {
	// 编辑平仓使用原始数量，与剩余数量无关
	pnl, pnlPercent := CloseOnEdit(100, 150, 4)

	assert.Equal(t, 200.0, pnl)
	assert.Equal(t, 50.0, pnlPercent)
}

func TestCloseOnEdit_ZeroEntryPrice(t *testing.T) {
	pnl, pnlPercent := CloseOnEdit(0, 10, 2)

	assert.Equal(t, 20.0, pnl)
	assert.Equal(t, 0.0, pnlPercent)
}
