package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/logging"
	"github.com/rushteam/reckit-movies/store"
)

// EnvPrefix 是环境变量前缀：MOVIEREC_SERVER_ADDR -> server.addr。
const EnvPrefix = "MOVIEREC_"

// PathEnvVar 可以覆盖配置文件路径。
const PathEnvVar = "MOVIEREC_CONFIG"

// DefaultPaths 按顺序查找配置文件，使用第一个存在的。
var DefaultPaths = []string{
	"movierec.yaml",
	"movierec.yml",
	"/etc/movierec/config.yaml",
}

// Config 是服务的完整配置。优先级：环境变量 > 配置文件 > 默认值。
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Data      DataConfig      `koanf:"data"`
	Models    ModelsConfig    `koanf:"models"`
	Store     StoreConfig     `koanf:"store"`
	Recommend RecommendConfig `koanf:"recommend"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	RateLimit       int           `koanf:"rate_limit" validate:"gte=0"` // 每个 IP 每分钟请求数，0 表示不限流
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Logging 转换为 logging.Config。
func (c LogConfig) Logging() logging.Config {
	return logging.Config{Level: c.Level, Format: c.Format, Caller: c.Caller}
}

// DataConfig 目录快照来源：SnapshotPath 非空时读本地文件，否则从 Store 的 SnapshotKey 读取。
type DataConfig struct {
	SnapshotPath     string `koanf:"snapshot_path"`
	SnapshotKey      string `koanf:"snapshot_key"`
	PlaceholderImage string `koanf:"placeholder_image" validate:"omitempty,url"`
}

// ModelsConfig 模型产物来源，规则同 DataConfig。
type ModelsConfig struct {
	KNNPath string `koanf:"knn_path"`
	KNNKey  string `koanf:"knn_key"`
	SVDPath string `koanf:"svd_path"`
	SVDKey  string `koanf:"svd_key"`
}

type StoreConfig struct {
	Backend       string `koanf:"backend" validate:"oneof=memory redis"`
	RedisAddr     string `koanf:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db" validate:"gte=0,lte=15"`

	BreakerEnabled   bool          `koanf:"breaker_enabled"`
	BreakerThreshold uint32        `koanf:"breaker_threshold" validate:"gte=1"`
	BreakerTimeout   time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
}

// Options 转换为 store.Options。
func (c StoreConfig) Options() store.Options {
	opts := store.Options{
		Backend:       c.Backend,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
	}
	if c.BreakerEnabled {
		bs := store.DefaultBreakerSettings()
		bs.FailureThreshold = c.BreakerThreshold
		bs.Timeout = c.BreakerTimeout
		opts.Breaker = &bs
	}
	return opts
}

type RecommendConfig struct {
	MinCount     int    `koanf:"min_count" validate:"gte=0"`
	PopularLimit int    `koanf:"popular_limit" validate:"gte=1"`
	DefaultK     int    `koanf:"default_k" validate:"gte=1,ltefield=MaxK"`
	MaxK         int    `koanf:"max_k" validate:"gte=1"`
	Seed         uint64 `koanf:"seed"` // 非 0 时降级采样可复现（仅用于调试）
	PipelinePath string `koanf:"pipeline_path"`
	PopularKey   string `koanf:"popular_key"`
}

// Default 返回默认配置。
func Default() *Config {
	rc := &core.DefaultRecallConfig{}
	bs := store.DefaultBreakerSettings()
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			RateLimit:       600,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Data: DataConfig{
			SnapshotKey: "catalog:snapshot",
		},
		Models: ModelsConfig{
			KNNKey: "model:knn",
			SVDKey: "model:svd",
		},
		Store: StoreConfig{
			Backend:          "memory",
			RedisAddr:        "localhost:6379",
			BreakerThreshold: bs.FailureThreshold,
			BreakerTimeout:   bs.Timeout,
		},
		Recommend: RecommendConfig{
			MinCount:     rc.DefaultMinCount(),
			PopularLimit: rc.DefaultPopularLimit(),
			DefaultK:     rc.DefaultTopK(),
			MaxK:         rc.MaxTopK(),
			PopularKey:   "popular:movies",
		},
	}
}

// Load 依次加载默认值、配置文件（path 为空时按 PathEnvVar / DefaultPaths 查找，找不到则跳过）、环境变量，然后校验。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envTransform: MOVIEREC_STORE_REDIS_ADDR -> store.redis_addr（第一个下划线分隔 section 与 key）。
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "config" {
		return ""
	}
	return strings.Replace(key, "_", ".", 1)
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate 做字段级校验，以及数据来源的组合校验。
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	// memory 后端启动时是空的，只能从本地文件加载
	if c.Store.Backend == "memory" {
		if c.Data.SnapshotPath == "" {
			return errors.New("data.snapshot_path is required when store.backend is memory")
		}
		if c.Models.KNNPath == "" || c.Models.SVDPath == "" {
			return errors.New("models.knn_path and models.svd_path are required when store.backend is memory")
		}
	}
	return nil
}
