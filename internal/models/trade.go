package models

import (
	"time"

	"gorm.io/gorm"
)

// AssetType 资产类型
type AssetType string

const (
	AssetTypeCrypto AssetType = "crypto"
	AssetTypeStock  AssetType = "stock"
)

// Valid 是否是合法的资产类型
func (a AssetType) Valid() bool {
	return a == AssetTypeCrypto || a == AssetTypeStock
}

// TradeSide 交易方向
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// Valid 是否是合法的交易方向
func (s TradeSide) Valid() bool {
	return s == TradeSideBuy || s == TradeSideSell
}

// TradeStatus 交易状态
type TradeStatus string

const (
	TradeStatusOpen   TradeStatus = "open"
	TradeStatusClosed TradeStatus = "closed"
)

// Valid 是否是合法的交易状态
func (s TradeStatus) Valid() bool {
	return s == TradeStatusOpen || s == TradeStatusClosed
}

// Trade 交易日志记录（一笔买入或卖出）
type Trade struct {
	ID                string         `gorm:"primaryKey;type:varchar(26)" json:"id"`
	AssetType         AssetType      `gorm:"type:varchar(10);not null;index" json:"asset_type"`         // crypto/stock
	Symbol            string         `gorm:"type:varchar(20);not null;index" json:"symbol"`             // 大写代码，如 BTC、AAPL
	Side              TradeSide      `gorm:"type:varchar(10);not null" json:"side"`                     // buy/sell
	EntryDate         time.Time      `gorm:"not null;index" json:"entry_date"`                          // 成交日期（卖出记录复用为退出日期）
	EntryPrice        float64        `gorm:"type:decimal(20,8);not null" json:"entry_price"`            // 成交价格
	Quantity          float64        `gorm:"type:decimal(20,8);not null" json:"quantity"`               // 原始成交数量，创建后不变
	RemainingQuantity *float64       `gorm:"type:decimal(20,8)" json:"remaining_quantity"`              // 买入记录的剩余数量；null 等价于 quantity（历史数据）
	StopLoss          *float64       `gorm:"type:decimal(20,8)" json:"stop_loss"`                       // 止损价格（仅记录，不触发）
	TakeProfit        *float64       `gorm:"type:decimal(20,8)" json:"take_profit"`                     // 止盈价格（仅记录，不触发）
	Hypothesis        string         `gorm:"type:text" json:"hypothesis"`                               // 交易假设
	Status            TradeStatus    `gorm:"type:varchar(10);not null;default:'open';index" json:"status"`
	ExitDate          *time.Time     `json:"exit_date"`                                                 // 完全平仓时间
	ExitPrice         *float64       `gorm:"type:decimal(20,8)" json:"exit_price"`                      // 完全平仓价格
	Pnl               *float64       `gorm:"type:decimal(20,8)" json:"pnl"`                             // 已实现盈亏
	PnlPercent        *float64       `gorm:"type:decimal(20,8)" json:"pnl_percent"`                     // 已实现盈亏百分比
	Notes             string         `gorm:"type:text" json:"notes"`                                    // 备注
	LinkedTradeID     *string        `gorm:"type:varchar(26);index" json:"linked_trade_id"`             // 卖出记录关联的买入记录ID
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName 指定表名
func (Trade) TableName() string {
	return "trades"
}

// EffectiveQuantity 买入记录的有效剩余数量，remaining_quantity 为 null 时回退到原始数量
func (t *Trade) EffectiveQuantity() float64 {
	if t.RemainingQuantity != nil {
		return *t.RemainingQuantity
	}
	return t.Quantity
}

// IsOpenBuy 是否是未平仓的买入记录
func (t *Trade) IsOpenBuy() bool {
	return t.Side == TradeSideBuy && t.Status == TradeStatusOpen
}

// CostBasis 按有效剩余数量计算的持仓成本
func (t *Trade) CostBasis() float64 {
	return t.EntryPrice * t.EffectiveQuantity()
}
