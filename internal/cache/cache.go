package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache 定義 Redis 操作介面
// 只包含分散式座位鎖與健康檢查需要的方法
// 方便測試時替換 FakeCache 實作
// ttl <= 0 表示不設過期
type Cache interface {
	Ping(ctx context.Context) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	Close() error
}

type FakeCache struct {
	PingFn  func(ctx context.Context) *redis.StatusCmd
	SetNXFn func(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd
	EvalFn  func(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
	CloseFn func() error
}

// Ping 執行 Fake 設定或 panic
func (f *FakeCache) Ping(ctx context.Context) *redis.StatusCmd {
	if f.PingFn != nil {
		return f.PingFn(ctx)
	}
	panic("unexpected Ping")
}

// SetNX 執行 Fake 設定或 panic
func (f *FakeCache) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	if f.SetNXFn != nil {
		return f.SetNXFn(ctx, key, value, ttl)
	}
	panic("unexpected SetNX")
}

// Eval 執行 Fake 設定或 panic
func (f *FakeCache) Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	if f.EvalFn != nil {
		return f.EvalFn(ctx, script, keys, args...)
	}
	panic("unexpected Eval")
}

// Close 執行 Fake 設定或 no-op
func (f *FakeCache) Close() error {
	if f.CloseFn != nil {
		return f.CloseFn()
	}
	return nil
}
