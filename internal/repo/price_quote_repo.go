package repo

import (
	"context"
	"time"

	"github.com/dushixiang/tradebook/internal/models"
	"github.com/go-orz/orz"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewPriceQuoteRepo(db *gorm.DB) *PriceQuoteRepo {
	return &PriceQuoteRepo{
		Repository: orz.NewRepository[models.PriceQuote, string](db),
	}
}

type PriceQuoteRepo struct {
	orz.Repository[models.PriceQuote, string]
}

// FindFresh 获取有效期内的缓存行情，没有或已过期返回 gorm.ErrRecordNotFound
func (r PriceQuoteRepo) FindFresh(ctx context.Context, symbol string, assetType models.AssetType, maxAge time.Duration) (m models.PriceQuote, err error) {
	db := r.GetDB(ctx)
	err = db.Table(r.GetTableName()).
		Where("symbol = ? AND asset_type = ? AND last_updated > ?", symbol, assetType, time.Now().Add(-maxAge)).
		First(&m).Error
	return m, err
}

// Upsert 按 (symbol, asset_type) 写入或覆盖缓存行情
func (r PriceQuoteRepo) Upsert(ctx context.Context, quote *models.PriceQuote) error {
	db := r.GetDB(ctx)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "asset_type"}},
		UpdateAll: true,
	}).Create(quote).Error
}
