package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/reckit-movies/config"
	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/recall"
	"github.com/rushteam/reckit-movies/service"
	"github.com/rushteam/reckit-movies/store"
)

const (
	snapshotJSON = `{"movies":[
{"movie_id":1,"title":"Toy Story (1995)","genre":["Animation","Comedy"]},
{"movie_id":2,"title":"Jumanji (1995)","genre":["Adventure"]},
{"movie_id":3,"title":"Heat (1995)","genre":["Action"]}],
"ratings":[{"user_id":1,"movie_id":1,"rating":5,"timestamp":1},{"user_id":2,"movie_id":2,"rating":3,"timestamp":2}]}`
	knnJSON = `{"raw_ids":[1,2],"sim":[[1,0.5],[0.5,1]]}`
	svdJSON = `{"raw_ids":[1,2],"qi":[[1,0],[0.8,0.2]]}`
)

func writeFixtures(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	write := func(name, data string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
		return p
	}
	cfg := config.Default()
	cfg.Data.SnapshotPath = write("catalog.json", snapshotJSON)
	cfg.Models.KNNPath = write("knn.json", knnJSON)
	cfg.Models.SVDPath = write("svd.json", svdJSON)
	cfg.Recommend.MinCount = 1
	return cfg
}

func TestLoadFromFiles(t *testing.T) {
	cfg := writeFixtures(t)
	assets, err := Load(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, assets.Catalog.Len())
	assert.Equal(t, 2, assets.KNN.Len())
	assert.Equal(t, 2, assets.SVD.Dim())

	svc, err := NewService(cfg, assets)
	require.NoError(t, err)
	resp, err := svc.Recommend(context.Background(), service.Request{Strategy: "knn", Title: "Toy Story (1995)", K: 5})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(2), resp.Items[0].ID)

	// Heat 不在模型中，降级到热门榜（MinCount=1 时只有 1 和 2）
	resp, err = svc.Recommend(context.Background(), service.Request{Strategy: "mf", Title: "Heat (1995)", K: 5})
	require.NoError(t, err)
	assert.True(t, resp.Fallback)
	assert.Len(t, resp.Items, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg := writeFixtures(t)
	cfg.Models.SVDPath = filepath.Join(t.TempDir(), "missing.json")
	_, err := Load(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load svd")
}

func TestPushThenLoadFromStore(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()

	cfg := writeFixtures(t)
	require.NoError(t, Push(ctx, cfg, kv))

	fromStore := config.Default()
	fromStore.Recommend.MinCount = 1
	assets, err := Load(ctx, fromStore, kv)
	require.NoError(t, err)
	assert.Equal(t, 3, assets.Catalog.Len())
	assert.Equal(t, 2, assets.SVD.Len())

	members, err := kv.ZRange(ctx, recall.DefaultPopularKey, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, members)
}

// countingStore 统计单 key 读取与批量读取的次数。
type countingStore struct {
	core.Store
	gets, batchGets int
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.gets++
	return s.Store.Get(ctx, key)
}

func (s *countingStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	s.batchGets++
	return s.Store.BatchGet(ctx, keys)
}

func TestLoadFromStore_SingleBatchGet(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()
	require.NoError(t, Push(ctx, writeFixtures(t), kv))

	for _, key := range []string{"catalog:snapshot", "model:knn", "model:svd"} {
		_, err := kv.Get(ctx, key)
		require.NoError(t, err, key)
	}

	cs := &countingStore{Store: kv}
	_, err := Load(ctx, config.Default(), cs)
	require.NoError(t, err)
	assert.Equal(t, 1, cs.batchGets)
	assert.Equal(t, 0, cs.gets)
}

func TestLoadFromStore_MissingKey(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()
	require.NoError(t, kv.Set(ctx, "model:knn", []byte(knnJSON)))

	// 快照与 svd 来自文件，只有 knn 走 Store
	cfg := writeFixtures(t)
	cfg.Models.KNNPath = ""
	assets, err := Load(ctx, cfg, kv)
	require.NoError(t, err)
	assert.Equal(t, 2, assets.KNN.Len())

	cfg.Models.KNNKey = "model:knn:v2"
	_, err = Load(ctx, cfg, kv)
	require.Error(t, err)
	assert.True(t, core.IsStoreNotFound(err))
	assert.Contains(t, err.Error(), "load knn")
}

func TestPush_RequiresPaths(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()
	err := Push(context.Background(), config.Default(), kv)
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}

func TestNewService_BadPipeline(t *testing.T) {
	cfg := writeFixtures(t)
	assets, err := Load(context.Background(), cfg, nil)
	require.NoError(t, err)

	cfg.Recommend.PipelinePath = filepath.Join(t.TempDir(), "nope.yaml")
	_, err = NewService(cfg, assets)
	assert.Error(t, err)
}
