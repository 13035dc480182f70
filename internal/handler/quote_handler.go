package handler

import (
	"net/http"

	"github.com/dushixiang/tradebook/internal/models"
	"github.com/dushixiang/tradebook/internal/service"
	"github.com/dushixiang/tradebook/internal/xe"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// QuoteHandler 行情HTTP处理器
type QuoteHandler struct {
	logger       *zap.Logger
	quoteService *service.QuoteService
}

// NewQuoteHandler 创建行情处理器
func NewQuoteHandler(logger *zap.Logger, quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		logger:       logger,
		quoteService: quoteService,
	}
}

// Get 获取单个资产的行情
// GET /api/prices/:assetType/:symbol
func (h *QuoteHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	quote, err := h.quoteService.GetQuote(ctx,
		c.Param("symbol"), models.AssetType(c.Param("assetType")))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, quote)
}

// Batch 批量获取行情
// POST /api/prices/batch
func (h *QuoteHandler) Batch(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Assets []service.AssetRef `json:"assets"`
	}
	if err := c.Bind(&req); err != nil {
		return xe.ErrInvalidParams
	}
	if req.Assets == nil {
		return xe.ErrInvalidParams
	}

	results := h.quoteService.GetQuotes(ctx, req.Assets)
	return c.JSON(http.StatusOK, results)
}

// History 获取历史价格
// GET /api/prices/history/:assetType/:symbol?days=30
func (h *QuoteHandler) History(c echo.Context) error {
	ctx := c.Request().Context()

	days := 30
	if d := c.QueryParam("days"); d != "" {
		days = cast.ToInt(d)
	}

	history, err := h.quoteService.GetHistory(ctx,
		c.Param("symbol"), models.AssetType(c.Param("assetType")), days)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, history)
}

// RegisterRoutes 注册路由
func (h *QuoteHandler) RegisterRoutes(g *echo.Group) {
	prices := g.Group("/prices")

	prices.POST("/batch", h.Batch)
	prices.GET("/history/:assetType/:symbol", h.History)
	prices.GET("/:assetType/:symbol", h.Get)
}
