package handler

import (
	"net/http"

	"github.com/dushixiang/tradebook/internal/models"
	"github.com/dushixiang/tradebook/internal/repo"
	"github.com/dushixiang/tradebook/internal/service"
	"github.com/dushixiang/tradebook/internal/xe"
	"github.com/go-orz/orz"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TradeHandler 交易日志HTTP处理器
type TradeHandler struct {
	logger           *zap.Logger
	tradeService     *service.TradeService
	portfolioService *service.PortfolioService
}

// NewTradeHandler 创建交易日志处理器
func NewTradeHandler(logger *zap.Logger, tradeService *service.TradeService,
	portfolioService *service.PortfolioService) *TradeHandler {
	return &TradeHandler{
		logger:           logger,
		tradeService:     tradeService,
		portfolioService: portfolioService,
	}
}

// Create 记录一笔交易
// POST /api/trades
func (h *TradeHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req service.TradeRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.tradeService.Create(ctx, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

// List 查询交易记录
// GET /api/trades?status=&asset_type=&symbol=
func (h *TradeHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	filter := repo.TradeFilter{
		Status:    models.TradeStatus(c.QueryParam("status")),
		AssetType: models.AssetType(c.QueryParam("asset_type")),
		Symbol:    c.QueryParam("symbol"),
	}

	trades, err := h.tradeService.List(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trades)
}

// Summary 组合统计汇总
// GET /api/trades/stats/summary
func (h *TradeHandler) Summary(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.portfolioService.Summary(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

// Get 获取单条交易记录
// GET /api/trades/:id
func (h *TradeHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	trade, err := h.tradeService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trade)
}

// Update 编辑交易记录
// PUT /api/trades/:id
func (h *TradeHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req service.UpdateTradeRequest
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	trade, err := h.tradeService.Update(ctx, c.Param("id"), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trade)
}

// Delete 删除交易记录（级联删除关联的卖出记录）
// DELETE /api/trades/:id
func (h *TradeHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.tradeService.Delete(ctx, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orz.Map{"success": true})
}

// RegisterRoutes 注册路由
func (h *TradeHandler) RegisterRoutes(g *echo.Group) {
	trades := g.Group("/trades")

	trades.POST("", h.Create)
	trades.GET("", h.List)
	// 统计路由要在 /:id 之前注册，避免 stats 被当作 id
	trades.GET("/stats/summary", h.Summary)
	trades.GET("/:id", h.Get)
	trades.PUT("/:id", h.Update)
	trades.DELETE("/:id", h.Delete)
}
