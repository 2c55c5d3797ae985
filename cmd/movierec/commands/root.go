// Package commands 定义 movierec 的 cobra 子命令。
package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rushteam/reckit-movies/bootstrap"
	"github.com/rushteam/reckit-movies/config"
	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/logging"
	"github.com/rushteam/reckit-movies/service"
	"github.com/rushteam/reckit-movies/store"
)

// app 是所有子命令共享的运行时状态，由 PersistentPreRunE 填充。
type app struct {
	configPath string
	logLevel   string
	format     string

	cfg *config.Config
}

// NewRootCmd 创建根命令。
func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "movierec",
		Short: "Movie recommendation engine",
		Long: `movierec serves item-to-item movie recommendations.

Two strategies are available: knn (pre-trained item neighbourhood model) and
mf (cosine similarity over matrix-factorisation item factors). Movies the
models were not trained on fall back to a random sample of the popular list.

Configuration is read from movierec.yaml (or --config / MOVIEREC_CONFIG),
then overridden by MOVIEREC_* environment variables. A .env file in the
working directory is loaded first.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.format, "format", "text", "Output format (text, json)")

	cmd.AddCommand(
		newServeCmd(a),
		newRecommendCmd(a),
		newPopularCmd(a),
		newExploreCmd(a),
		newPushCmd(a),
	)
	return cmd
}

// Execute 运行根命令。
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) init() error {
	_ = godotenv.Load()

	if a.format != "text" && a.format != "json" {
		return fmt.Errorf("unknown format %q", a.format)
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logging.Init(cfg.Log.Logging())
	a.cfg = cfg
	return nil
}

// openStore 按配置打开 Store，调用方负责 Close。
func (a *app) openStore() (core.KeyValueStore, error) {
	kv, err := store.Open(a.cfg.Store.Options())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return kv, nil
}

// loadService 加载数据并构建推荐服务。
func (a *app) loadService(ctx context.Context) (*service.Service, core.KeyValueStore, error) {
	kv, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	assets, err := bootstrap.Load(ctx, a.cfg, kv)
	if err != nil {
		kv.Close()
		return nil, nil, err
	}
	svc, err := bootstrap.NewService(a.cfg, assets)
	if err != nil {
		kv.Close()
		return nil, nil, err
	}
	return svc, kv, nil
}
