package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
)

// BookCache 图书详情缓存（Cache-Aside）
// 设计说明：
// 1. 只缓存按ISBN查询的结果，列表和搜索不缓存
// 2. 写操作（新增/修改/删除）提交后由应用层失效对应Key
// 3. 未命中返回 (nil, nil)，由调用方回源数据库
// 4. Redis连续故障时熔断，熔断期间直接返回错误，调用方回源数据库
type BookCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker // 可为nil
}

// NewBookCache 创建图书缓存，breaker为nil时不熔断
func NewBookCache(client *redis.Client, ttl time.Duration, breaker *circuitbreaker.CircuitBreaker) *BookCache {
	return &BookCache{client: client, ttl: ttl, breaker: breaker}
}

// NewBreaker 创建Redis熔断器，状态变化写日志和指标
func NewBreaker(name string, failures uint32, timeout time.Duration, log *zap.Logger) *circuitbreaker.CircuitBreaker {
	metrics.SetBreakerState(name, int(circuitbreaker.StateClosed))
	return circuitbreaker.NewCircuitBreaker(name, circuitbreaker.Config{
		Timeout:      timeout,
		ReadyToTrip:  circuitbreaker.ConsecutiveFailures(failures),
		IsSuccessful: circuitbreaker.IgnoreContextErrors,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.SetBreakerState(name, int(to))
			log.Warn("Redis熔断器状态变化",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})
}

func bookKey(isbn int64) string {
	return fmt.Sprintf("library:book:isbn:%d", isbn)
}

// Get 读取缓存
func (c *BookCache) Get(ctx context.Context, isbn int64) (*book.Book, error) {
	var data []byte
	err := c.guard(func() error {
		var err error
		data, err = c.client.Get(ctx, bookKey(isbn)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, apperrors.ErrRedisError.WithCause(err)
	}
	if data == nil {
		return nil, nil
	}

	var b book.Book
	if err := json.Unmarshal(data, &b); err != nil {
		// 缓存内容损坏按未命中处理，下一次Set会覆盖
		return nil, nil
	}
	return &b, nil
}

// Set 写入缓存
func (c *BookCache) Set(ctx context.Context, b *book.Book) error {
	data, err := json.Marshal(b)
	if err != nil {
		return apperrors.Wrap(err, "序列化图书缓存失败")
	}
	if err := c.guard(func() error {
		return c.client.Set(ctx, bookKey(b.ISBN), data, c.ttl).Err()
	}); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}

// Invalidate 删除缓存，支持一次删除多个ISBN（修改ISBN时新旧都要删）
// 熔断期间同样跳过，残留的旧值由TTL兜底
func (c *BookCache) Invalidate(ctx context.Context, isbns ...int64) error {
	if len(isbns) == 0 {
		return nil
	}
	keys := make([]string, 0, len(isbns))
	for _, isbn := range isbns {
		keys = append(keys, bookKey(isbn))
	}
	if err := c.guard(func() error {
		return c.client.Del(ctx, keys...).Err()
	}); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}

func (c *BookCache) guard(fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	return c.breaker.Execute(fn)
}
