// Package api 提供推荐服务的 HTTP 接口（chi 路由），以及 /metrics 与 /healthz。
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rushteam/reckit-movies/config"
	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/logging"
	"github.com/rushteam/reckit-movies/service"
)

// Options 配置 HTTP 层。
type Options struct {
	DefaultK       int
	MaxK           int
	RateLimit      int // 每个 IP 每分钟请求数，0 表示不限流
	RequestTimeout time.Duration
}

func (o *Options) setDefaults() {
	rc := &core.DefaultRecallConfig{}
	if o.MaxK <= 0 {
		o.MaxK = rc.MaxTopK()
	}
	if o.DefaultK <= 0 || o.DefaultK > o.MaxK {
		o.DefaultK = min(rc.DefaultTopK(), o.MaxK)
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
}

// NewRouter 构建路由。
func NewRouter(svc *service.Service, opts Options) http.Handler {
	h := NewHandler(svc, opts)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestID)
	r.Use(Instrument)

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimit(h.opts.RateLimit))
		r.Get("/recommendations", h.Recommend)
		r.Get("/popular", h.Popular)
		r.Get("/movies/{id}", h.Movie)
		r.Route("/explore", func(r chi.Router) {
			r.Get("/genres", h.Genres)
			r.Get("/genres/most-rated", h.MostRatedGenres)
			r.Get("/genres/ratings", h.GenreRatings)
			r.Get("/top-movies", h.TopMovies)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	return r
}

// OptionsFromConfig 从应用配置构建 HTTP 层选项。
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DefaultK:       cfg.Recommend.DefaultK,
		MaxK:           cfg.Recommend.MaxK,
		RateLimit:      cfg.Server.RateLimit,
		RequestTimeout: cfg.Server.WriteTimeout,
	}
}

// Serve 启动 HTTP 服务，ctx 结束后在 shutdownTimeout 内优雅退出。
func Serve(ctx context.Context, cfg config.ServerConfig, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", cfg.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
