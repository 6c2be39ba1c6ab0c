package middleware

import "github.com/gin-gonic/gin"

type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// Load 挂载全局中间件，顺序：恢复 -> 请求id -> 请求日志 -> 安全头
func (m *Middleware) Load(g *gin.Engine) {
	g.Use(gin.Recovery())
	g.Use(RequestId())
	g.Use(Logger)
	g.Use(NoCache())
	g.Use(Secure())
}
