package internal

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dushixiang/tradebook/internal/config"
	"github.com/dushixiang/tradebook/internal/handler"
	"github.com/dushixiang/tradebook/internal/models"
	"github.com/dushixiang/tradebook/internal/service"
	"github.com/dushixiang/tradebook/pkg/nostd"
	"github.com/go-orz/orz"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func Run(configPath string) error {
	app := NewTradebookApp()

	framework, err := orz.NewFramework(
		orz.WithConfig(configPath),
		orz.WithLoggerFromConfig(),
		orz.WithDatabase(),
		orz.WithHTTP(),
		orz.WithApplication(app),
	)
	if err != nil {
		return err
	}

	return framework.Run()
}

func NewTradebookApp() orz.Application {
	return &TradebookApp{}
}

var _ orz.Application = (*TradebookApp)(nil)

type AppComponents struct {
	TradeHandler     *handler.TradeHandler
	QuoteHandler     *handler.QuoteHandler
	PortfolioHandler *handler.PortfolioHandler

	TradeService     *service.TradeService
	PortfolioService *service.PortfolioService
	QuoteService     *service.QuoteService
}

type TradebookApp struct {
	components *AppComponents
	conf       *config.Config
}

// GetComponents 获取应用组件
func (r *TradebookApp) GetComponents() *AppComponents {
	return r.components
}

func (r *TradebookApp) Configure(app *orz.App) error {
	logger := app.Logger()
	e := app.GetEcho()
	db := app.GetDatabase()

	var conf config.Config
	err := app.GetConfig().App.Unmarshal(&conf)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %v", err)
	}

	components, err := InitializeApp(logger, db, &conf)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %v", err)
	}
	r.components = components
	r.conf = &conf

	if err := db.AutoMigrate(
		models.Trade{}, models.PriceQuote{},
	); err != nil {
		logger.Fatal("database auto migrate failed", zap.Error(err))
	}

	e.HidePort = true
	e.HideBanner = true

	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper:      middleware.DefaultSkipper,
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			sugar := logger.Sugar()
			sugar.Error(fmt.Sprintf("[PANIC RECOVER] %v %s\n", err, stack))
			return err
		},
	}))
	e.Use(WithErrorHandler(logger))
	customValidator := nostd.CustomValidator{Validator: validator.New()}
	if err := customValidator.TransInit(); err != nil {
		logger.Sugar().Fatal("failed to init custom validator", zap.Error(err))
	}
	e.Validator = &customValidator

	api := e.Group("/api")
	{
		api.GET("/health", func(c echo.Context) error {
			return c.JSON(http.StatusOK, orz.Map{
				"status":    "ok",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		r.components.TradeHandler.RegisterRoutes(api)
		r.components.QuoteHandler.RegisterRoutes(api)
		r.components.PortfolioHandler.RegisterRoutes(api)
	}

	logger.Info("tradebook initialized",
		zap.Duration("price_cache_ttl", conf.Prices.CacheTTL()))

	return nil
}
