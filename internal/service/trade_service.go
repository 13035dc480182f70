package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dushixiang/tradebook/internal/ledger"
	"github.com/dushixiang/tradebook/internal/models"
	"github.com/dushixiang/tradebook/internal/repo"
	"github.com/dushixiang/tradebook/internal/xe"
	"github.com/dushixiang/tradebook/pkg/nostd"
	"github.com/go-orz/orz"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TradeService 交易日志服务：记录买卖、卖出撮合、编辑与级联删除
type TradeService struct {
	logger *zap.Logger

	*orz.Service
	*repo.TradeRepo
}

// NewTradeService 创建交易日志服务
func NewTradeService(db *gorm.DB, logger *zap.Logger) *TradeService {
	return &TradeService{
		logger:    logger,
		Service:   orz.NewService(db),
		TradeRepo: repo.NewTradeRepo(db),
	}
}

// TradeRequest 创建交易记录的请求参数
type TradeRequest struct {
	AssetType     models.AssetType `json:"asset_type" validate:"required"`
	Symbol        string           `json:"symbol" validate:"required"`
	Side          models.TradeSide `json:"side" validate:"required"`
	EntryDate     string           `json:"entry_date" validate:"required"`
	EntryPrice    float64          `json:"entry_price" validate:"required"`
	Quantity      float64          `json:"quantity" validate:"required"`
	StopLoss      *float64         `json:"stop_loss"`
	TakeProfit    *float64         `json:"take_profit"`
	Hypothesis    string           `json:"hypothesis"`
	Notes         string           `json:"notes"`
	LinkedTradeID *string          `json:"linked_trade_id"`
}

// CreateResult 创建交易的结果，卖出撮合成功时带回更新后的买入记录
type CreateResult struct {
	Trade             *models.Trade `json:"trade"`
	LinkedTrade       *models.Trade `json:"linked_trade"`
	UnmatchedQuantity float64       `json:"unmatched_quantity"` // 卖出数量超出买入剩余数量的部分
}

func validateTradeRequest(req TradeRequest) error {
	if !req.AssetType.Valid() {
		return xe.ErrInvalidAssetType
	}
	if !req.Side.Valid() {
		return xe.ErrInvalidSide
	}
	if req.EntryPrice <= 0 {
		return xe.ErrInvalidPrice
	}
	if req.Quantity <= 0 {
		return xe.ErrInvalidQuantity
	}
	return nil
}

// Create 记录一笔交易。
// 卖出且带 linked_trade_id 时在同一事务内撮合到买入记录上：
// 部分平仓只扣减剩余数量，完全平仓时在买入记录上盖退出快照。
// 关联的买入记录不存在时降级为未关联的卖出记录，不算失败。
func (s *TradeService) Create(ctx context.Context, req TradeRequest) (*CreateResult, error) {
	if err := validateTradeRequest(req); err != nil {
		return nil, err
	}
	entryDate, err := nostd.ParseDate(req.EntryDate)
	if err != nil {
		return nil, xe.ErrInvalidEntryDate
	}

	trade := &models.Trade{
		ID:            ulid.Make().String(),
		AssetType:     req.AssetType,
		Symbol:        nostd.NormalizeSymbol(req.Symbol),
		Side:          req.Side,
		EntryDate:     entryDate,
		EntryPrice:    req.EntryPrice,
		Quantity:      req.Quantity,
		StopLoss:      req.StopLoss,
		TakeProfit:    req.TakeProfit,
		Hypothesis:    req.Hypothesis,
		Notes:         req.Notes,
		Status:        models.TradeStatusOpen,
		LinkedTradeID: req.LinkedTradeID,
	}
	if trade.Side == models.TradeSideBuy {
		remaining := req.Quantity
		trade.RemainingQuantity = &remaining
	}

	result := &CreateResult{Trade: trade}

	err = s.Transaction(ctx, func(ctx context.Context) error {
		if trade.Side == models.TradeSideSell && req.LinkedTradeID != nil && *req.LinkedTradeID != "" {
			buy, err := s.TradeRepo.FindById(ctx, *req.LinkedTradeID)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				// 关联目标不存在：记录为未关联卖出，不改动任何买入记录
				s.logger.Warn("linked trade not found, recording unlinked sell",
					zap.String("linked_trade_id", *req.LinkedTradeID),
					zap.String("symbol", trade.Symbol))
			case err != nil:
				return fmt.Errorf("failed to load linked trade: %w", err)
			default:
				match := ledger.MatchSell(&buy, req.EntryPrice, req.Quantity)

				pnl, pnlPercent := match.Pnl, match.PnlPercent
				trade.Status = models.TradeStatusClosed
				trade.Pnl = &pnl
				trade.PnlPercent = &pnlPercent

				remaining := match.NewRemaining
				buy.RemainingQuantity = &remaining
				if match.Closed {
					exitPrice := req.EntryPrice
					exitDate := entryDate
					buy.Status = models.TradeStatusClosed
					buy.ExitDate = &exitDate
					buy.ExitPrice = &exitPrice
					buy.Pnl = &pnl
					buy.PnlPercent = &pnlPercent
				}

				if err := s.TradeRepo.Save(ctx, &buy); err != nil {
					return fmt.Errorf("failed to update linked trade %s: %w", buy.ID, err)
				}

				linked := buy
				result.LinkedTrade = &linked
				result.UnmatchedQuantity = match.UnmatchedQuantity

				if match.UnmatchedQuantity > 0 {
					s.logger.Warn("sell quantity exceeds remaining quantity of linked trade",
						zap.String("linked_trade_id", buy.ID),
						zap.Float64("unmatched_quantity", match.UnmatchedQuantity))
				}
			}
		}

		if err := s.TradeRepo.Create(ctx, trade); err != nil {
			return fmt.Errorf("failed to create trade: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("trade recorded",
		zap.String("id", trade.ID),
		zap.String("symbol", trade.Symbol),
		zap.String("side", string(trade.Side)),
		zap.Float64("quantity", trade.Quantity),
		zap.Float64("entry_price", trade.EntryPrice))

	return result, nil
}

// UpdateTradeRequest 编辑交易记录的请求参数，整体覆盖
type UpdateTradeRequest struct {
	AssetType  models.AssetType   `json:"asset_type" validate:"required"`
	Symbol     string             `json:"symbol" validate:"required"`
	Side       models.TradeSide   `json:"side" validate:"required"`
	EntryDate  string             `json:"entry_date" validate:"required"`
	EntryPrice float64            `json:"entry_price" validate:"required"`
	Quantity   float64            `json:"quantity" validate:"required"`
	StopLoss   *float64           `json:"stop_loss"`
	TakeProfit *float64           `json:"take_profit"`
	Hypothesis string             `json:"hypothesis"`
	Status     models.TradeStatus `json:"status" validate:"required"`
	ExitDate   *string            `json:"exit_date"`
	ExitPrice  *float64           `json:"exit_price"`
	Pnl        *float64           `json:"pnl"`
	PnlPercent *float64           `json:"pnl_percent"`
	Notes      string             `json:"notes"`
}

// Update 直接编辑交易记录。
// 买入记录被标记为 closed 且给出退出价格时，按原始数量重新计算盈亏，
// 这是与卖出撮合独立的路径，不使用也不调整剩余数量。
func (s *TradeService) Update(ctx context.Context, id string, req UpdateTradeRequest) (*models.Trade, error) {
	if !req.AssetType.Valid() {
		return nil, xe.ErrInvalidAssetType
	}
	if !req.Side.Valid() {
		return nil, xe.ErrInvalidSide
	}
	if !req.Status.Valid() {
		return nil, xe.ErrInvalidStatus
	}
	if req.EntryPrice <= 0 {
		return nil, xe.ErrInvalidPrice
	}
	if req.Quantity <= 0 {
		return nil, xe.ErrInvalidQuantity
	}
	entryDate, err := nostd.ParseDate(req.EntryDate)
	if err != nil {
		return nil, xe.ErrInvalidEntryDate
	}
	var exitDate *time.Time
	if req.ExitDate != nil && *req.ExitDate != "" {
		d, err := nostd.ParseDate(*req.ExitDate)
		if err != nil {
			return nil, xe.ErrInvalidEntryDate
		}
		exitDate = &d
	}

	trade, err := s.TradeRepo.FindById(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, xe.ErrTradeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load trade %s: %w", id, err)
	}

	trade.AssetType = req.AssetType
	trade.Symbol = nostd.NormalizeSymbol(req.Symbol)
	trade.Side = req.Side
	trade.EntryDate = entryDate
	trade.EntryPrice = req.EntryPrice
	trade.Quantity = req.Quantity
	trade.StopLoss = req.StopLoss
	trade.TakeProfit = req.TakeProfit
	trade.Hypothesis = req.Hypothesis
	trade.Status = req.Status
	trade.ExitDate = exitDate
	trade.ExitPrice = req.ExitPrice
	trade.Pnl = req.Pnl
	trade.PnlPercent = req.PnlPercent
	trade.Notes = req.Notes

	if req.Status == models.TradeStatusClosed && req.ExitPrice != nil && req.Side == models.TradeSideBuy {
		pnl, pnlPercent := ledger.CloseOnEdit(req.EntryPrice, *req.ExitPrice, req.Quantity)
		trade.Pnl = &pnl
		trade.PnlPercent = &pnlPercent
	}

	if err := s.TradeRepo.Save(ctx, &trade); err != nil {
		return nil, fmt.Errorf("failed to update trade %s: %w", id, err)
	}
	return &trade, nil
}

// Delete 删除交易记录。
// 先级联删除所有关联到它的卖出记录，再删除记录本身。
// 删除已撮合的卖出记录不会把数量归还给买入记录，这是账本的既定行为。
func (s *TradeService) Delete(ctx context.Context, id string) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		_, err := s.TradeRepo.FindById(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return xe.ErrTradeNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load trade %s: %w", id, err)
		}

		if err := s.TradeRepo.DeleteByLinkedTradeID(ctx, id); err != nil {
			return fmt.Errorf("failed to delete linked trades of %s: %w", id, err)
		}
		if err := s.TradeRepo.DeleteById(ctx, id); err != nil {
			return fmt.Errorf("failed to delete trade %s: %w", id, err)
		}

		s.logger.Info("trade deleted", zap.String("id", id))
		return nil
	})
}

// Get 获取单条交易记录
func (s *TradeService) Get(ctx context.Context, id string) (*models.Trade, error) {
	trade, err := s.TradeRepo.FindById(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, xe.ErrTradeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// List 按条件查询交易记录
func (s *TradeService) List(ctx context.Context, filter repo.TradeFilter) ([]models.Trade, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, xe.ErrInvalidStatus
	}
	if filter.AssetType != "" && !filter.AssetType.Valid() {
		return nil, xe.ErrInvalidAssetType
	}
	filter.Symbol = nostd.NormalizeSymbol(filter.Symbol)
	return s.TradeRepo.FindFiltered(ctx, filter)
}
