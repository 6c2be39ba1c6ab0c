package consts

const (
	// RequestId 请求id名称
	RequestId = "request_id"

	DateLayout   = "2006-01-02"
	TimeLayout   = "2006-01-02 15:04:05"
	TimeLayoutMs = "2006-01-02 15:04:05.000"
)

const (
	// DustThreshold 小于等于该值的余额按0处理，吸收历史交易的舍入噪声
	DustThreshold = 1e-15

	// SlippageBps 固定滑点 0.50%
	SlippageBps = 50
	// RouteDeadlineSeconds 路由有效期 30分钟
	RouteDeadlineSeconds = 1800
)
