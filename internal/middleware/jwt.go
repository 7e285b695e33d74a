package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"scrobblex/conf"
	"scrobblex/internal/consts"
	"scrobblex/pkg/jwt"
	"scrobblex/pkg/response"
)

// 请求头的形式为 Authorization: Bearer token
const authorizationHeader = "Authorization"

// AuthToken 鉴权，验证用户token是否有效。浏览器端没有请求头时读取cookie
func AuthToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := getJwt(c)
		if err != nil {
			response.RequireAuthErr(c, err)
			c.Abort()
			return
		}
		if jwt.IsInBlackList(c, tokenStr) {
			response.RequireAuthErr(c, fmt.Errorf("token has been revoked"))
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenStr, conf.AppConfig.Jwt.Secret)
		if err != nil {
			response.RequireAuthErr(c, err)
			c.Abort()
			return
		}

		c.Set(consts.UserID, claims.UserId)
		c.Set(consts.IsAdmin, claims.IsAdmin)
		c.Set(consts.JWTTokenCtx, tokenStr)
		c.Next()
	}
}

// AdminOnly 必须放在 AuthToken 之后
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(consts.IsAdmin) {
			response.PermissionDenied(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

func getJwt(c *gin.Context) (string, error) {
	aHeader := c.Request.Header.Get(authorizationHeader)
	if len(aHeader) == 0 {
		if cookie, err := c.Cookie(conf.AppConfig.Jwt.CookieName); err == nil && cookie != "" {
			return cookie, nil
		}
		return "", fmt.Errorf("token is empty")
	}
	strs := strings.SplitN(aHeader, " ", 2)
	if len(strs) != 2 || strs[0] != "Bearer" {
		return "", fmt.Errorf("token 不符合规则")
	}
	return strs[1], nil
}
