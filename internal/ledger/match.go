// Package ledger 交易日志的纯计算核心：卖出撮合、持仓聚合与组合统计。
// 所有函数都是无副作用的纯函数，只读入参，不做任何持久化。
package ledger

import (
	"math"

	"github.com/dushixiang/tradebook/internal/models"
)

// QuantityEpsilon 剩余数量的浮点误差容限。
// 多次部分平仓后 available - matched 可能残留极小误差，
// 剩余数量在该容限内视为0（完全平仓）。
const QuantityEpsilon = 1e-9

// SellMatch 一次卖出撮合的计算结果
type SellMatch struct {
	MatchedQuantity   float64 // 实际撮合数量，不会超过买入记录的剩余数量
	UnmatchedQuantity float64 // 卖出数量超出可用数量的部分，不参与盈亏计算
	Pnl               float64 // 本次卖出的已实现盈亏
	PnlPercent        float64 // 相对买入价的盈亏百分比
	NewRemaining      float64 // 撮合后买入记录的剩余数量
	Closed            bool    // 买入记录是否因此完全平仓
}

// MatchSell 将一笔卖出按 sellPrice/sellQty 撮合到买入记录上。
// 只计算，不修改 buy；remaining_quantity 为 null 的历史记录回退到原始数量。
func MatchSell(buy *models.Trade, sellPrice, sellQty float64) SellMatch {
	available := buy.EffectiveQuantity()
	matched := math.Min(sellQty, available)

	m := SellMatch{
		MatchedQuantity:   matched,
		UnmatchedQuantity: sellQty - matched,
		Pnl:               (sellPrice - buy.EntryPrice) * matched,
	}
	if buy.EntryPrice > 0 {
		m.PnlPercent = (sellPrice - buy.EntryPrice) / buy.EntryPrice * 100
	}

	remaining := available - matched
	if remaining <= QuantityEpsilon {
		m.NewRemaining = 0
		m.Closed = true
	} else {
		m.NewRemaining = remaining
	}
	return m
}

// CloseOnEdit 直接编辑买入记录平仓时的盈亏计算。
// 与撮合路径不同，这里使用原始数量而不是剩余数量。
func CloseOnEdit(entryPrice, exitPrice, quantity float64) (pnl, pnlPercent float64) {
	pnl = (exitPrice - entryPrice) * quantity
	if entryPrice > 0 {
		pnlPercent = (exitPrice - entryPrice) / entryPrice * 100
	}
	return pnl, pnlPercent
}
