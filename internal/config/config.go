package config

import "time"

type Config struct {
	Binance BinanceConf `json:"binance"`
	Prices  PricesConf  `json:"prices"`
}

type BinanceConf struct {
	APIKey   string `json:"api_key"`   // 可为空，仅查询公开行情时不需要
	Secret   string `json:"secret"`
	ProxyURL string `json:"proxy_url"` // 代理地址，例如: http://127.0.0.1:7890
}

type PricesConf struct {
	CacheTTLMinutes int    `json:"cache_ttl_minutes"` // 行情缓存有效期（分钟），默认5
	TimeoutSeconds  int    `json:"timeout_seconds"`   // 外部行情请求超时（秒），默认10
	YahooBaseURL    string `json:"yahoo_base_url"`    // Yahoo Finance 基础URL，留空使用官方地址
}

// CacheTTL 行情缓存有效期
func (c PricesConf) CacheTTL() time.Duration {
	if c.CacheTTLMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// Timeout 外部行情请求超时
func (c PricesConf) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
