package nostd

import (
	"strings"
	"time"
)

// ParseDate 解析成交日期，兼容 RFC3339 时间戳和 YYYY-MM-DD 日期
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// NormalizeSymbol 交易代码统一为大写
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
