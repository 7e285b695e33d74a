package jwt

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"scrobblex/conf"
	"scrobblex/pkg/cache"
)

const testSecret = "test-secret"

func TestGenParseToken(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	token, err := GenToken(BuildClaims(exp, 7, "alice", true, false), testSecret)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserId != 7 || claims.Username != "alice" || !claims.LastfmVerified || claims.IsAdmin {
		t.Errorf("unexpected claims %+v", claims)
	}

	if _, err := ParseToken(token, "other-secret"); err == nil {
		t.Error("token signed with another secret should be rejected")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenToken(BuildClaims(time.Now().Add(-time.Minute), 7, "alice", false, false), testSecret)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(token, testSecret); err == nil {
		t.Error("expired token should be rejected")
	}
}

func TestBlackList(t *testing.T) {
	fixed := time.Now().Truncate(time.Second)
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = time.Now }()
	conf.AppConfig.Jwt.JwtBlacklistGracePeriod = 10

	rc, mock := redismock.NewClientMock()
	cache.SetRedisClient(rc)
	ctx := context.Background()

	token, err := GenToken(BuildClaims(fixed.Add(time.Hour), 7, "alice", false, false), testSecret)
	if err != nil {
		t.Fatal(err)
	}
	key := getBlackListKey(token)

	mock.ExpectSetNX(key, fixed.Unix(), time.Hour).SetVal(true)
	if err := JoinBlackList(ctx, token, testSecret); err != nil {
		t.Fatal(err)
	}

	// 宽限期内仍然有效
	mock.ExpectGet(key).SetVal(strconv.FormatInt(fixed.Unix()-5, 10))
	if IsInBlackList(ctx, token) {
		t.Error("token inside grace period should not be blacklisted")
	}

	mock.ExpectGet(key).SetVal(strconv.FormatInt(fixed.Unix()-60, 10))
	if !IsInBlackList(ctx, token) {
		t.Error("token should be blacklisted")
	}

	mock.ExpectGet(key).RedisNil()
	if IsInBlackList(ctx, token) {
		t.Error("unknown token should not be blacklisted")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
