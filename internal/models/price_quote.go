package models

import (
	"time"
)

// PriceQuote 行情缓存记录，主键为 (symbol, asset_type)
type PriceQuote struct {
	Symbol           string    `gorm:"primaryKey;type:varchar(20)" json:"symbol"`
	AssetType        AssetType `gorm:"primaryKey;type:varchar(10)" json:"asset_type"`
	Price            float64   `gorm:"not null" json:"price"`          // 最新价格(USD)
	Change24h        float64   `json:"change_24h"`                     // 24小时价格变动
	ChangePercent24h float64   `json:"change_percent_24h"`             // 24小时涨跌幅
	High24h          float64   `json:"high_24h"`                       // 24小时最高价
	Low24h           float64   `json:"low_24h"`                        // 24小时最低价
	Volume24h        float64   `json:"volume_24h"`                     // 24小时成交量
	LastUpdated      time.Time `gorm:"not null;index" json:"last_updated"`
}

// TableName 指定表名
func (PriceQuote) TableName() string {
	return "price_quotes"
}

// Fresh 缓存是否仍在有效期内
func (q *PriceQuote) Fresh(maxAge time.Duration) bool {
	return time.Since(q.LastUpdated) <= maxAge
}
