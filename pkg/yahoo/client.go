// Package yahoo 股票行情客户端，通过 Yahoo Finance 公开的 chart 接口取价。
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	userAgent      = "Mozilla/5.0 (compatible; tradebook/1.0)"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建客户端，baseURL/httpClient 为空时使用默认值
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Quote 股票的当日行情
type Quote struct {
	Symbol           string
	Price            float64
	Change24h        float64
	ChangePercent24h float64
	High24h          float64
	Low24h           float64
	Volume24h        float64
}

// Point 历史价格数据点
type Point struct {
	Timestamp time.Time
	Price     float64
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *Client) getChart(ctx context.Context, symbol, interval, rng string) (*chartResponse, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s", c.baseURL, symbol, interval, rng)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request for %s returned status %d", symbol, resp.StatusCode)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode chart response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart error for %s: %s", symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart result for %s", symbol)
	}
	return &chart, nil
}

// GetQuote 获取股票当前行情，24小时变动以前收盘价为基准
func (c *Client) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	chart, err := c.getChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	price := result.Meta.RegularMarketPrice
	previousClose := result.Meta.PreviousClose
	if previousClose == 0 {
		previousClose = price
	}

	quote := &Quote{
		Symbol:  symbol,
		Price:   price,
		High24h: price,
		Low24h:  price,
	}
	quote.Change24h = price - previousClose
	if previousClose != 0 {
		quote.ChangePercent24h = (price - previousClose) / previousClose * 100
	}

	if len(result.Indicators.Quote) > 0 {
		q := result.Indicators.Quote[0]
		if len(q.High) > 0 && q.High[0] != nil {
			quote.High24h = *q.High[0]
		}
		if len(q.Low) > 0 && q.Low[0] != nil {
			quote.Low24h = *q.Low[0]
		}
		if len(q.Volume) > 0 && q.Volume[0] != nil {
			quote.Volume24h = *q.Volume[0]
		}
	}
	return quote, nil
}

// GetHistory 获取股票历史价格，7天以内用小时线，否则用日线
func (c *Client) GetHistory(ctx context.Context, symbol string, days int) ([]Point, error) {
	interval := "1d"
	if days <= 7 {
		interval = "1h"
	}

	chart, err := c.getChart(ctx, symbol, interval, fmt.Sprintf("%dd", days))
	if err != nil {
		return nil, err
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote indicators for %s", symbol)
	}

	closes := result.Indicators.Quote[0].Close
	points := make([]Point, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		points = append(points, Point{
			Timestamp: time.Unix(ts, 0).UTC(),
			Price:     *closes[i],
		})
	}
	return points, nil
}
