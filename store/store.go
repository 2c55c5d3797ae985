// Package store 提供 core.Store / core.KeyValueStore 的实现：内存、Redis，以及熔断包装。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//
//	var s core.Store = store.NewMemoryStore()
//	var kv core.KeyValueStore = store.NewMemoryStore()
package store

import (
	"fmt"

	"github.com/rushteam/reckit-movies/core"
)

// Options 描述如何构建一个 Store，通常来自配置。
type Options struct {
	Backend       string // memory / redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Breaker 为 nil 时不包装熔断
	Breaker *BreakerSettings
}

// Open 按配置构建 Store。Redis 后端会在返回前 Ping 一次。
func Open(opts Options) (core.KeyValueStore, error) {
	var kv core.KeyValueStore
	switch opts.Backend {
	case "", "memory":
		kv = NewMemoryStore()
	case "redis":
		rs, err := NewRedisStore(opts.RedisAddr, opts.RedisDB, WithRedisPassword(opts.RedisPassword))
		if err != nil {
			return nil, fmt.Errorf("open redis %s: %w", opts.RedisAddr, err)
		}
		kv = rs
	default:
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeNotSupported,
			fmt.Sprintf("store: unknown backend %q", opts.Backend))
	}
	if opts.Breaker != nil {
		return NewBreakerStore(kv, *opts.Breaker), nil
	}
	return kv, nil
}
