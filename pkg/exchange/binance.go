package exchange

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
)

// BinanceClient Binance现货行情客户端，只使用公开接口
type BinanceClient struct {
	client *binance.Client
}

// NewBinanceClient 创建Binance客户端，API密钥可为空（仅查询公开行情）
func NewBinanceClient(apiKey, secretKey, proxyURL string) *BinanceClient {
	var client *binance.Client
	if proxyURL != "" {
		client = binance.NewProxiedClient(apiKey, secretKey, proxyURL)
	} else {
		client = binance.NewClient(apiKey, secretKey)
	}

	return &BinanceClient{client: client}
}

// Ticker 24小时行情统计
type Ticker struct {
	Symbol           string
	Price            float64
	Change24h        float64
	ChangePercent24h float64
	High24h          float64
	Low24h           float64
	Volume24h        float64
}

// GetTicker 获取指定交易对的24小时行情
func (b *BinanceClient) GetTicker(ctx context.Context, symbol string) (*Ticker, error) {
	stats, err := b.client.NewListPriceChangeStatsService().
		Symbol(symbol).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticker stats: %w", err)
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("no ticker stats for symbol %s", symbol)
	}

	s := stats[0]
	price, _ := strconv.ParseFloat(s.LastPrice, 64)
	change, _ := strconv.ParseFloat(s.PriceChange, 64)
	changePercent, _ := strconv.ParseFloat(s.PriceChangePercent, 64)
	high, _ := strconv.ParseFloat(s.HighPrice, 64)
	low, _ := strconv.ParseFloat(s.LowPrice, 64)
	volume, _ := strconv.ParseFloat(s.Volume, 64)

	return &Ticker{
		Symbol:           s.Symbol,
		Price:            price,
		Change24h:        change,
		ChangePercent24h: changePercent,
		High24h:          high,
		Low24h:           low,
		Volume24h:        volume,
	}, nil
}

// Kline K线数据
type Kline struct {
	OpenTime  time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	CloseTime time.Time
}

// GetKlines 获取K线数据
func (b *BinanceClient) GetKlines(ctx context.Context, symbol string, interval string, limit int) ([]*Kline, error) {
	klines, err := b.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get klines: %w", err)
	}

	result := make([]*Kline, 0, len(klines))
	for _, k := range klines {
		open, _ := strconv.ParseFloat(k.Open, 64)
		high, _ := strconv.ParseFloat(k.High, 64)
		low, _ := strconv.ParseFloat(k.Low, 64)
		close, _ := strconv.ParseFloat(k.Close, 64)
		volume, _ := strconv.ParseFloat(k.Volume, 64)

		result = append(result, &Kline{
			OpenTime:  time.Unix(k.OpenTime/1000, 0),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volume,
			CloseTime: time.Unix(k.CloseTime/1000, 0),
		})
	}

	return result, nil
}
