package utils

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"scrobblex/internal/consts"
)

// JsonTime 数据库时间字段，json 输出为 2006-01-02 15:04:05
type JsonTime time.Time

func (t JsonTime) MarshalJSON() ([]byte, error) {
	tm := time.Time(t)
	if tm.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(fmt.Sprintf("%q", tm.Format(consts.TimeLayout))), nil
}

func (t *JsonTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = JsonTime{}
		return nil
	}
	tm, err := time.ParseInLocation(consts.TimeLayout, s, time.Local)
	if err != nil {
		return err
	}
	*t = JsonTime(tm)
	return nil
}

func (t JsonTime) Value() (driver.Value, error) {
	tm := time.Time(t)
	if tm.IsZero() {
		return nil, nil
	}
	return tm, nil
}

func (t *JsonTime) Scan(v interface{}) error {
	switch value := v.(type) {
	case time.Time:
		*t = JsonTime(value)
	case nil:
		*t = JsonTime{}
	default:
		return fmt.Errorf("can not convert %v to JsonTime", v)
	}
	return nil
}

func (t JsonTime) Time() time.Time {
	return time.Time(t)
}

// Stamp2str 时间戳转字符串
func Stamp2str(timestamp int64) string {
	if timestamp == 0 {
		return ""
	}
	return time.Unix(timestamp, 0).Format(consts.TimeLayout)
}

// NormalizePage 分页参数兜底
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = consts.DefaultPage
	}
	if limit <= 0 {
		limit = consts.DefaultLimit
	}
	if limit > consts.MaxLimit {
		limit = consts.MaxLimit
	}
	return page, limit
}

// NormalizeSymbol 艺人代码统一大写
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
