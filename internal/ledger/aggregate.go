package ledger

import (
	"sort"

	"github.com/dushixiang/tradebook/internal/models"
)

// AggregatedPosition 按 (symbol, asset_type) 聚合后的未平仓持仓
type AggregatedPosition struct {
	Symbol         string           `json:"symbol"`
	AssetType      models.AssetType `json:"asset_type"`
	TotalQuantity  float64          `json:"total_quantity"`   // 各笔剩余数量之和
	AvgEntryPrice  float64          `json:"avg_entry_price"`  // 加权平均买入价格
	TotalCostBasis float64          `json:"total_cost_basis"` // 持仓成本
	LotCount       int              `json:"lot_count"`
	Lots           []models.Trade   `json:"lots"` // 成员记录，按成交日期升序（先进先出展示）
}

// AggregateOpenPositions 聚合未平仓的买入记录。
// 部分平仓的记录按剩余数量计入；结果按持仓成本降序排列。
func AggregateOpenPositions(trades []models.Trade) []AggregatedPosition {
	type groupKey struct {
		symbol    string
		assetType models.AssetType
	}

	groups := make(map[groupKey][]models.Trade)
	var order []groupKey
	for i := range trades {
		t := trades[i]
		if !t.IsOpenBuy() {
			continue
		}
		key := groupKey{symbol: t.Symbol, assetType: t.AssetType}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], t)
	}

	result := make([]AggregatedPosition, 0, len(order))
	for _, key := range order {
		lots := groups[key]

		var totalQuantity, totalCostBasis float64
		for i := range lots {
			totalQuantity += lots[i].EffectiveQuantity()
			totalCostBasis += lots[i].CostBasis()
		}
		avgEntryPrice := 0.0
		if totalQuantity > 0 {
			avgEntryPrice = totalCostBasis / totalQuantity
		}

		sort.SliceStable(lots, func(i, j int) bool {
			return lots[i].EntryDate.Before(lots[j].EntryDate)
		})

		result = append(result, AggregatedPosition{
			Symbol:         key.symbol,
			AssetType:      key.assetType,
			TotalQuantity:  totalQuantity,
			AvgEntryPrice:  avgEntryPrice,
			TotalCostBasis: totalCostBasis,
			LotCount:       len(lots),
			Lots:           lots,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalCostBasis > result[j].TotalCostBasis
	})
	return result
}

// UnrealizedPnl 按当前价格计算持仓的未实现盈亏。
// 价格缺失时返回 (nil, nil)，表示行情不可用而不是0。
func UnrealizedPnl(pos AggregatedPosition, currentPrice *float64) (pnl, pnlPercent *float64) {
	if currentPrice == nil {
		return nil, nil
	}

	p := *currentPrice*pos.TotalQuantity - pos.TotalCostBasis
	pct := 0.0
	if pos.TotalCostBasis > 0 {
		pct = p / pos.TotalCostBasis * 100
	}
	return &p, &pct
}
