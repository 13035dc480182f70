//go:build wireinject
// +build wireinject

package internal

import (
	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dushixiang/tradebook/internal/config"
	"github.com/dushixiang/tradebook/internal/handler"
	"github.com/dushixiang/tradebook/internal/service"
)

var (
	handlerSet = wire.NewSet(
		handler.NewTradeHandler,
		handler.NewQuoteHandler,
		handler.NewPortfolioHandler,
	)

	serviceSet = wire.NewSet(
		provideBinanceClient,
		provideYahooClient,
		service.NewQuoteService,
		service.NewTradeService,
		service.NewPortfolioService,
	)
)

// InitializeApp 初始化应用
func InitializeApp(logger *zap.Logger, db *gorm.DB, conf *config.Config) (*AppComponents, error) {
	wire.Build(
		handlerSet,
		serviceSet,
		wire.Struct(new(AppComponents), "*"),
	)
	return nil, nil
}
