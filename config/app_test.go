package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movierec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
  read_timeout: 3s
data:
  snapshot_path: /data/catalog.json
models:
  knn_path: /data/knn.json
  svd_path: /data/svd.json
recommend:
  default_k: 5
`)
	t.Setenv("MOVIEREC_SERVER_ADDR", ":9100")
	t.Setenv("MOVIEREC_LOG_LEVEL", "debug")
	t.Setenv("MOVIEREC_RECOMMEND_MIN_COUNT", "30")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Addr, "env wins over file")
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "default kept")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 30, cfg.Recommend.MinCount)
	assert.Equal(t, 5, cfg.Recommend.DefaultK)
	assert.Equal(t, 100, cfg.Recommend.PopularLimit)
	assert.Equal(t, "/data/knn.json", cfg.Models.KNNPath)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"memory backend needs files", "store:\n  backend: memory\n"},
		{"unknown backend", "store:\n  backend: etcd\n"},
		{"bad log level", "log:\n  level: loud\ndata:\n  snapshot_path: a\nmodels:\n  knn_path: b\n  svd_path: c\n"},
		{"default k above max", "recommend:\n  default_k: 60\n  max_k: 50\nstore:\n  backend: redis\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_RedisBackend(t *testing.T) {
	t.Setenv("MOVIEREC_STORE_BACKEND", "redis")
	t.Setenv("MOVIEREC_STORE_REDIS_ADDR", "redis:6379")
	t.Setenv("MOVIEREC_STORE_BREAKER_ENABLED", "true")

	cfg, err := Load(writeConfig(t, "log:\n  format: console\n"))
	require.NoError(t, err)

	opts := cfg.Store.Options()
	assert.Equal(t, "redis", opts.Backend)
	assert.Equal(t, "redis:6379", opts.RedisAddr)
	require.NotNil(t, opts.Breaker)
	assert.Equal(t, uint32(5), opts.Breaker.FailureThreshold)
	assert.Equal(t, "console", cfg.Log.Logging().Format)
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "store.redis_addr", envTransform("MOVIEREC_STORE_REDIS_ADDR"))
	assert.Equal(t, "server.addr", envTransform("MOVIEREC_SERVER_ADDR"))
	assert.Equal(t, "", envTransform("MOVIEREC_CONFIG"))
}
