package middleware

import "github.com/gin-gonic/gin"

type globalMiddleware struct{}

// NewMiddleware 全局中间件，作为第一个路由加载
func NewMiddleware() *globalMiddleware {
	return &globalMiddleware{}
}

func (m *globalMiddleware) Load(g *gin.Engine) {
	g.Use(gin.Recovery(), RequestId(), Logger, Options(), Secure(), NoCache())
}
