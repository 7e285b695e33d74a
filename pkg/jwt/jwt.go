package jwt

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v4"
	"scrobblex/conf"
	"scrobblex/pkg/cache"
	"scrobblex/pkg/logger"
)

var nowFunc = time.Now

type CustomClaims struct {
	UserId         int64  `json:"user_id"`
	Username       string `json:"username"`
	LastfmVerified bool   `json:"lastfm_verified"`
	IsAdmin        bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

func BuildClaims(exp time.Time, uid int64, username string, lastfmVerified, isAdmin bool) *CustomClaims {
	return &CustomClaims{
		UserId:         uid,
		Username:       username,
		LastfmVerified: lastfmVerified,
		IsAdmin:        isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(nowFunc()),
			Issuer:    conf.AppConfig.AppName,
		},
	}
}

func GenToken(c *CustomClaims, secretKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString([]byte(secretKey))
}

// 解析jwt token，只接受 HS256 签名
func ParseToken(jwtStr, secretKey string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(jwtStr, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func getBlackListKey(token string) string {
	sum := md5.Sum([]byte(token))
	return "jwt_black_list:" + hex.EncodeToString(sum[:])
}

// JoinBlackList 注销时把 token 加入黑名单，保留到 token 过期
func JoinBlackList(ctx context.Context, tokenStr string, secretKey string) error {
	claims, err := ParseToken(tokenStr, secretKey)
	if err != nil {
		return err
	}
	nowUnix := nowFunc().Unix()
	timer := time.Duration(claims.ExpiresAt.Unix()-nowUnix) * time.Second
	if timer <= 0 || !cache.Enabled() {
		return nil
	}
	rc := cache.GetRedisClient()
	return rc.SetNX(ctx, getBlackListKey(tokenStr), nowUnix, timer).Err()
}

// IsInBlackList 加入黑名单超过宽限期的 token 视为失效
func IsInBlackList(ctx context.Context, token string) bool {
	if !cache.Enabled() {
		return false
	}
	rc := cache.GetRedisClient()
	joinUnixStr, err := rc.Get(ctx, getBlackListKey(token)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Errorf("Redis连接异常:%v", err.Error())
		}
		return false
	}
	joinUnix, err := strconv.ParseInt(joinUnixStr, 10, 64)
	if err != nil {
		return false
	}
	return nowFunc().Unix()-joinUnix >= conf.AppConfig.Jwt.JwtBlacklistGracePeriod
}
