package xe

import "github.com/go-orz/orz"

var (
	ErrInvalidParams    = orz.NewError(10400, "参数无效")
	ErrTradeNotFound    = orz.NewError(10404, "交易记录不存在")
	ErrQuoteNotFound    = orz.NewError(10405, "未能获取行情价格")
	ErrInvalidAssetType = orz.NewError(10001, "资产类型必须是 crypto 或 stock")
	ErrInvalidSide      = orz.NewError(10002, "交易方向必须是 buy 或 sell")
	ErrInvalidStatus    = orz.NewError(10003, "交易状态必须是 open 或 closed")
	ErrInvalidPrice     = orz.NewError(10004, "成交价格必须大于0")
	ErrInvalidQuantity  = orz.NewError(10005, "成交数量必须大于0")
	ErrInvalidEntryDate = orz.NewError(10006, "成交日期无效")
	ErrInvalidDays      = orz.NewError(10007, "天数必须在1到365之间")
)
