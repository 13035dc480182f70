package handler

import (
	"net/http"

	"github.com/dushixiang/tradebook/internal/service"
	"github.com/go-orz/orz"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PortfolioHandler 组合视图HTTP处理器
type PortfolioHandler struct {
	logger           *zap.Logger
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler 创建组合视图处理器
func NewPortfolioHandler(logger *zap.Logger, portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		logger:           logger,
		portfolioService: portfolioService,
	}
}

// Positions 获取带实时行情的聚合持仓
// GET /api/portfolio/positions
func (h *PortfolioHandler) Positions(c echo.Context) error {
	ctx := c.Request().Context()

	positions, err := h.portfolioService.OpenPositions(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orz.Map{
		"count":     len(positions),
		"positions": positions,
	})
}

// RegisterRoutes 注册路由
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	portfolio := g.Group("/portfolio")

	portfolio.GET("/positions", h.Positions)
}
