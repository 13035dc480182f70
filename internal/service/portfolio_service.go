package service

import (
	"context"
	"fmt"

	"github.com/dushixiang/tradebook/internal/ledger"
	"github.com/dushixiang/tradebook/internal/repo"
	"github.com/go-orz/orz"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PortfolioService 组合视图服务：持仓聚合与统计汇总，只读
type PortfolioService struct {
	logger *zap.Logger

	*orz.Service

	tradeRepo    *repo.TradeRepo
	quoteService *QuoteService
}

// NewPortfolioService 创建组合视图服务
func NewPortfolioService(db *gorm.DB, quoteService *QuoteService, logger *zap.Logger) *PortfolioService {
	return &PortfolioService{
		logger:       logger,
		Service:      orz.NewService(db),
		tradeRepo:    repo.NewTradeRepo(db),
		quoteService: quoteService,
	}
}

// Summary 组合统计汇总
func (s *PortfolioService) Summary(ctx context.Context) (*ledger.Summary, error) {
	trades, err := s.tradeRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}

	summary := ledger.Summarize(trades)
	return &summary, nil
}

// PositionView 带实时行情的聚合持仓，行情缺失时未实现盈亏为空
type PositionView struct {
	ledger.AggregatedPosition
	CurrentPrice         *float64 `json:"current_price"`
	UnrealizedPnl        *float64 `json:"unrealized_pnl"`
	UnrealizedPnlPercent *float64 `json:"unrealized_pnl_percent"`
}

// OpenPositions 聚合未平仓持仓并合并实时行情。
// 行情获取失败只降级对应持仓的未实现盈亏，不影响整体结果。
func (s *PortfolioService) OpenPositions(ctx context.Context) ([]PositionView, error) {
	openBuys, err := s.tradeRepo.FindOpenBuys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load open trades: %w", err)
	}

	positions := ledger.AggregateOpenPositions(openBuys)
	views := make([]PositionView, 0, len(positions))
	for _, pos := range positions {
		view := PositionView{AggregatedPosition: pos}

		quote, err := s.quoteService.GetQuote(ctx, pos.Symbol, pos.AssetType)
		if err != nil {
			s.logger.Warn("quote unavailable for position",
				zap.String("symbol", pos.Symbol),
				zap.String("asset_type", string(pos.AssetType)))
		} else {
			price := quote.Price
			view.CurrentPrice = &price
			view.UnrealizedPnl, view.UnrealizedPnlPercent = ledger.UnrealizedPnl(pos, &price)
		}

		views = append(views, view)
	}
	return views, nil
}
