package utils

import (
	"context"
	"fmt"
	"time"
)

// Retry 尝试执行 fn，失败且 retryable 返回 true 时重试，最多 retries 次
// 第 i 次重试前等待 delay*i（线性退避），ctx 取消时立即返回
func Retry(ctx context.Context, retries int, delay time.Duration, retryable func(error) bool, fn func() error) error {
	if retries < 1 {
		retries = 1
	}
	var err error
	for i := 0; i < retries; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		if retryable != nil && !retryable(err) {
			return err
		}
		if i < retries-1 { // 最后一次就不用 sleep 了
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay * time.Duration(i+1)):
			}
		}
	}
	return fmt.Errorf("after %d attempts, last error: %w", retries, err)
}
