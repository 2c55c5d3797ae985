// Package bootstrap 按配置装配服务：并发加载目录快照与两个模型产物，构建推荐服务。
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/reckit-movies/catalog"
	"github.com/rushteam/reckit-movies/config"
	_ "github.com/rushteam/reckit-movies/config/builders"
	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/logging"
	"github.com/rushteam/reckit-movies/metrics"
	"github.com/rushteam/reckit-movies/model"
	"github.com/rushteam/reckit-movies/service"
)

// Assets 是启动时加载、之后只读的数据。
type Assets struct {
	Snapshot *catalog.Snapshot
	Catalog  *catalog.Catalog
	KNN      *model.KNN
	SVD      *model.SVD
}

// Load 并发加载目录与模型。配置了本地路径时读文件，否则从 kv 读取对应 key。
// 需要从 kv 读取的 key 用一次 BatchGet 取回，之后并发解码；任一失败返回第一个错误。
func Load(ctx context.Context, cfg *config.Config, kv core.Store) (*Assets, error) {
	keys := assetKeys(cfg)
	var remote []string
	if cfg.Data.SnapshotPath == "" {
		remote = append(remote, keys.snapshot)
	}
	if cfg.Models.KNNPath == "" {
		remote = append(remote, keys.knn)
	}
	if cfg.Models.SVDPath == "" {
		remote = append(remote, keys.svd)
	}
	var blobs map[string][]byte
	if len(remote) > 0 {
		var err error
		if blobs, err = kv.BatchGet(ctx, remote); err != nil {
			return nil, fmt.Errorf("batch get %v from %s: %w", remote, kv.Name(), err)
		}
	}
	blob := func(key string) ([]byte, error) {
		data, ok := blobs[key]
		if !ok {
			return nil, fmt.Errorf("get %s from %s: %w", key, kv.Name(), core.ErrStoreNotFound)
		}
		return data, nil
	}

	var assets Assets
	var eg errgroup.Group
	eg.Go(func() error {
		return timed("catalog", func() error {
			if cfg.Data.SnapshotPath != "" {
				snap, err := catalog.LoadSnapshotFile(cfg.Data.SnapshotPath)
				assets.Snapshot = snap
				return err
			}
			data, err := blob(keys.snapshot)
			if err != nil {
				return err
			}
			assets.Snapshot, err = catalog.DecodeSnapshot(data)
			return err
		})
	})
	eg.Go(func() error {
		return timed("knn", func() error {
			if cfg.Models.KNNPath != "" {
				m, err := model.LoadKNNFile(cfg.Models.KNNPath)
				assets.KNN = m
				return err
			}
			data, err := blob(keys.knn)
			if err != nil {
				return err
			}
			assets.KNN, err = model.DecodeKNN(data)
			return err
		})
	})
	eg.Go(func() error {
		return timed("svd", func() error {
			if cfg.Models.SVDPath != "" {
				m, err := model.LoadSVDFile(cfg.Models.SVDPath)
				assets.SVD = m
				return err
			}
			data, err := blob(keys.svd)
			if err != nil {
				return err
			}
			assets.SVD, err = model.DecodeSVD(data)
			return err
		})
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	assets.Catalog = assets.Snapshot.Build(catalog.WithPlaceholderImage(cfg.Data.PlaceholderImage))
	metrics.RecordLoaded(assets.Catalog.Len(), assets.KNN.Len(), assets.SVD.Len())
	logging.Info().
		Int("movies", assets.Catalog.Len()).
		Int("ratings", len(assets.Catalog.Ratings())).
		Int("knn_items", assets.KNN.Len()).
		Int("svd_items", assets.SVD.Len()).
		Int("svd_dim", assets.SVD.Dim()).
		Msg("assets loaded")
	return &assets, nil
}

type keySet struct {
	snapshot, knn, svd string
}

// assetKeys 返回三份产物在 Store 中的 key，未配置时使用各包的默认 key。
func assetKeys(cfg *config.Config) keySet {
	or := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return keySet{
		snapshot: or(cfg.Data.SnapshotKey, catalog.DefaultSnapshotKey),
		knn:      or(cfg.Models.KNNKey, model.DefaultKNNKey),
		svd:      or(cfg.Models.SVDKey, model.DefaultSVDKey),
	}
}

func timed(name string, fn func() error) error {
	start := time.Now()
	if err := fn(); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	logging.Debug().Str("asset", name).Dur("took", time.Since(start)).Msg("asset loaded")
	return nil
}

// NewService 用已加载的数据与推荐配置构建推荐服务。
// 配置了 pipeline_path 时加载后处理 Pipeline。
func NewService(cfg *config.Config, assets *Assets) (*service.Service, error) {
	rc := cfg.Recommend
	opts := []service.Option{
		service.WithPopular(rc.MinCount, rc.PopularLimit),
		service.WithMaxK(rc.MaxK),
		service.WithSeed(rc.Seed),
	}
	if rc.PipelinePath != "" {
		p, err := config.LoadPipeline(rc.PipelinePath)
		if err != nil {
			return nil, fmt.Errorf("load pipeline %s: %w", rc.PipelinePath, err)
		}
		logging.Info().Str("pipeline", p.Name).Int("nodes", p.Len()).Msg("post pipeline loaded")
		opts = append(opts, service.WithPostPipeline(p))
	}
	return service.New(assets.Catalog, assets.KNN, assets.SVD, opts...), nil
}

// Push 把本地文件中的目录快照与模型产物写入 kv，供 redis 后端的实例启动时读取。
// 写入后顺带发布热门榜。
func Push(ctx context.Context, cfg *config.Config, kv core.KeyValueStore) error {
	if cfg.Data.SnapshotPath == "" || cfg.Models.KNNPath == "" || cfg.Models.SVDPath == "" {
		return core.NewDomainError(core.ModuleStore, core.ErrorCodeInvalidInput,
			"push: data.snapshot_path, models.knn_path and models.svd_path are required")
	}
	assets, err := Load(ctx, cfg, kv)
	if err != nil {
		return err
	}
	blobs, err := encodeAssets(assets, assetKeys(cfg))
	if err != nil {
		return err
	}
	if err := kv.BatchSet(ctx, blobs); err != nil {
		return fmt.Errorf("batch set assets to %s: %w", kv.Name(), err)
	}

	svc, err := NewService(cfg, assets)
	if err != nil {
		return err
	}
	n, err := svc.PopularRanker().Publish(ctx, kv, cfg.Recommend.PopularKey)
	if err != nil {
		return fmt.Errorf("publish popular: %w", err)
	}
	logging.Info().
		Str("store", kv.Name()).
		Int("popular", n).
		Msg("assets pushed")
	return nil
}

func encodeAssets(assets *Assets, keys keySet) (map[string][]byte, error) {
	snap, err := catalog.EncodeSnapshot(assets.Snapshot)
	if err != nil {
		return nil, err
	}
	knn, err := model.EncodeKNN(assets.KNN)
	if err != nil {
		return nil, err
	}
	svd, err := model.EncodeSVD(assets.SVD)
	if err != nil {
		return nil, err
	}
	return map[string][]byte{
		keys.snapshot: snap,
		keys.knn:      knn,
		keys.svd:      svd,
	}, nil
}
