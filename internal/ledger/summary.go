package ledger

import (
	"github.com/dushixiang/tradebook/internal/models"
)

// Summary 组合层面的统计数据
type Summary struct {
	OpenPositionsCost        float64 `json:"open_positions_cost"`         // 未平仓买入记录的持仓成本（按剩余数量）
	ClosedPositionsCostBasis float64 `json:"closed_positions_cost_basis"` // 已平仓买入记录的成本（按原始数量）
	RealizedPnl              float64 `json:"realized_pnl"`
	RealizedPnlPercent       float64 `json:"realized_pnl_percent"`
	WinRate                  float64 `json:"win_rate"`
	Wins                     int     `json:"wins"`
	Losses                   int     `json:"losses"`
	OpenPositions            int     `json:"open_positions"`
	ClosedPositions          int     `json:"closed_positions"`
	TotalTrades              int     `json:"total_trades"`
}

// Summarize 从交易快照推导组合统计。
//
// 已实现盈亏只累加已平仓的卖出记录：完全平仓时买入记录上也会盖一份
// pnl 快照，但那只是展示用的冗余副本，计入会把同一次平仓算两遍。
// 胜率同理只在卖出记录上统计，pnl 为0的记录不计入输赢。
func Summarize(trades []models.Trade) Summary {
	var s Summary
	s.TotalTrades = len(trades)

	for i := range trades {
		t := trades[i]

		if t.Side == models.TradeSideBuy {
			switch t.Status {
			case models.TradeStatusOpen:
				s.OpenPositions++
				s.OpenPositionsCost += t.CostBasis()
			case models.TradeStatusClosed:
				s.ClosedPositions++
				s.ClosedPositionsCostBasis += t.EntryPrice * t.Quantity
			}
			continue
		}

		if t.Status == models.TradeStatusClosed && t.Pnl != nil {
			s.RealizedPnl += *t.Pnl
			if *t.Pnl > 0 {
				s.Wins++
			} else if *t.Pnl < 0 {
				s.Losses++
			}
		}
	}

	if decided := s.Wins + s.Losses; decided > 0 {
		s.WinRate = float64(s.Wins) / float64(decided) * 100
	}
	if s.ClosedPositionsCostBasis > 0 {
		s.RealizedPnlPercent = s.RealizedPnl / s.ClosedPositionsCostBasis * 100
	}
	return s
}
