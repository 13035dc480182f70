package repo

import (
	"context"

	"github.com/dushixiang/tradebook/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
)

func NewTradeRepo(db *gorm.DB) *TradeRepo {
	return &TradeRepo{
		Repository: orz.NewRepository[models.Trade, string](db),
	}
}

type TradeRepo struct {
	orz.Repository[models.Trade, string]
}

// TradeFilter 列表查询条件，零值字段不过滤
type TradeFilter struct {
	Status    models.TradeStatus
	AssetType models.AssetType
	Symbol    string
}

// FindFiltered 按条件查询交易记录，成交日期降序、创建时间降序
func (r TradeRepo) FindFiltered(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	var trades []models.Trade
	db := r.GetDB(ctx).Table(r.GetTableName())
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.AssetType != "" {
		db = db.Where("asset_type = ?", filter.AssetType)
	}
	if filter.Symbol != "" {
		db = db.Where("symbol = ?", filter.Symbol)
	}
	err := db.Order("entry_date DESC").
		Order("created_at DESC").
		Find(&trades).Error
	return trades, err
}

// FindOpenBuys 获取所有未平仓的买入记录
func (r TradeRepo) FindOpenBuys(ctx context.Context) ([]models.Trade, error) {
	var trades []models.Trade
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("side = ? AND status = ?", models.TradeSideBuy, models.TradeStatusOpen).
		Find(&trades).Error
	return trades, err
}

// FindByLinkedTradeID 获取关联到指定买入记录的卖出记录
func (r TradeRepo) FindByLinkedTradeID(ctx context.Context, id string) ([]models.Trade, error) {
	var trades []models.Trade
	db := r.GetDB(ctx)
	err := db.Table(r.GetTableName()).
		Where("linked_trade_id = ?", id).
		Find(&trades).Error
	return trades, err
}

// DeleteByLinkedTradeID 删除关联到指定买入记录的所有卖出记录
func (r TradeRepo) DeleteByLinkedTradeID(ctx context.Context, id string) error {
	db := r.GetDB(ctx)
	return db.Where("linked_trade_id = ?", id).Delete(&models.Trade{}).Error
}
