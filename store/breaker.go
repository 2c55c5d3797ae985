package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/logging"
)

// BreakerSettings 熔断参数。
type BreakerSettings struct {
	Name             string        `koanf:"name"`
	MaxRequests      uint32        `koanf:"max_requests"`      // 半开状态允许通过的请求数
	Interval         time.Duration `koanf:"interval"`          // 闭合状态下计数清零周期
	Timeout          time.Duration `koanf:"timeout"`           // 打开后多久进入半开
	FailureThreshold uint32        `koanf:"failure_threshold"` // 连续失败多少次后打开
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:             "store",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerStore 为任意 KeyValueStore 加熔断。
// key 不存在不计为失败；熔断打开时所有调用立即返回 core.ErrStoreUnavailable。
type BreakerStore struct {
	inner core.KeyValueStore
	cb    *gobreaker.CircuitBreaker[any]
}

func NewBreakerStore(inner core.KeyValueStore, s BreakerSettings) *BreakerStore {
	if s.Name == "" {
		s.Name = inner.Name()
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = DefaultBreakerSettings().FailureThreshold
	}
	threshold := s.FailureThreshold
	logger := logging.WithComponent("store")

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || core.IsStoreNotFound(err) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("store circuit breaker state changed")
		},
	})
	return &BreakerStore{inner: inner, cb: cb}
}

// State 返回熔断器当前状态（closed / half-open / open）。
func (b *BreakerStore) State() string {
	return b.cb.State().String()
}

func execute[T any](b *BreakerStore, fn func() (T, error)) (T, error) {
	var zero T
	v, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("%v: %w", err, core.ErrStoreUnavailable)
	}
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	return v.(T), nil
}

func run(b *BreakerStore, fn func() error) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func (b *BreakerStore) Name() string { return b.inner.Name() }

func (b *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	return execute(b, func() ([]byte, error) { return b.inner.Get(ctx, key) })
}

func (b *BreakerStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	return run(b, func() error { return b.inner.Set(ctx, key, value, ttl...) })
}

func (b *BreakerStore) Delete(ctx context.Context, key string) error {
	return run(b, func() error { return b.inner.Delete(ctx, key) })
}

func (b *BreakerStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	return execute(b, func() (map[string][]byte, error) { return b.inner.BatchGet(ctx, keys) })
}

func (b *BreakerStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	return run(b, func() error { return b.inner.BatchSet(ctx, kvs, ttl...) })
}

func (b *BreakerStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return run(b, func() error { return b.inner.ZAdd(ctx, key, score, member) })
}

func (b *BreakerStore) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return execute(b, func() ([]string, error) { return b.inner.ZRange(ctx, key, start, stop) })
}

func (b *BreakerStore) ZScore(ctx context.Context, key string, member string) (float64, error) {
	return execute(b, func() (float64, error) { return b.inner.ZScore(ctx, key, member) })
}

func (b *BreakerStore) Close() error {
	return b.inner.Close()
}

var _ core.KeyValueStore = (*BreakerStore)(nil)
