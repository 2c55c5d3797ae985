package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rushteam/reckit-movies/catalog"
	"github.com/rushteam/reckit-movies/core"
	"github.com/rushteam/reckit-movies/explore"
	"github.com/rushteam/reckit-movies/service"
)

// Handler 承载所有 HTTP 接口。
type Handler struct {
	svc      *service.Service
	explorer *explore.Explorer
	opts     Options
}

// RecommendResponse 是推荐接口的 data 字段。
type RecommendResponse struct {
	Title    string       `json:"title"`
	Strategy string       `json:"strategy,omitempty"`
	K        int          `json:"k"`
	Fallback bool         `json:"fallback"`
	Items    []*core.Item `json:"items"`
}

// MovieResponse 是电影详情接口的 data 字段。
type MovieResponse struct {
	*core.Item
	Stars string `json:"stars,omitempty"`
}

// GenreRatingsResponse 是类型均值接口的 data 字段。
type GenreRatingsResponse struct {
	Highest []explore.GenreRating `json:"highest"`
	Lowest  []explore.GenreRating `json:"lowest"`
	All     []explore.GenreRating `json:"all"`
}

func NewHandler(svc *service.Service, opts Options) *Handler {
	opts.setDefaults()
	return &Handler{
		svc:      svc,
		explorer: explore.New(svc.Catalog()),
		opts:     opts,
	}
}

func (h *Handler) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.opts.RequestTimeout)
}

// Healthz handles GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, map[string]any{
		"status": "ok",
		"movies": h.svc.Catalog().Len(),
	}, time.Now())
}

// Recommend handles GET /api/v1/recommendations?strategy=&title=&k=
//
// 未知策略或标题返回 200 与空列表。
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	k, ok := intParam(q.Get("k"), h.opts.DefaultK)
	if !ok || k < 1 || k > h.opts.MaxK {
		respondError(w, r, http.StatusBadRequest, "INVALID_K",
			"k must be an integer in [1, "+strconv.Itoa(h.opts.MaxK)+"]")
		return
	}

	ctx, cancel := h.withTimeout(r)
	defer cancel()
	resp, err := h.svc.Recommend(ctx, service.Request{
		Strategy: q.Get("strategy"),
		Title:    q.Get("title"),
		K:        k,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondData(w, r, &RecommendResponse{
		Title:    q.Get("title"),
		Strategy: resp.Strategy,
		K:        k,
		Fallback: resp.Fallback,
		Items:    resp.Items,
	}, start)
}

// Popular handles GET /api/v1/popular?limit=
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, ok := intParam(r.URL.Query().Get("limit"), 0)
	if !ok || limit < 0 {
		respondError(w, r, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a non-negative integer")
		return
	}
	ctx, cancel := h.withTimeout(r)
	defer cancel()
	items, err := h.svc.Popular(ctx, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, items, start)
}

// Movie handles GET /api/v1/movies/{id}
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_MOVIE_ID", "movie id must be an integer")
		return
	}
	it, ok := h.svc.Catalog().Record(id)
	if !ok {
		respondError(w, r, http.StatusNotFound, "MOVIE_NOT_FOUND", "movie not found")
		return
	}
	resp := &MovieResponse{Item: it}
	if it.AvgRating != nil {
		resp.Stars = catalog.StarRating(*it.AvgRating)
	}
	respondData(w, r, resp, start)
}

// Genres handles GET /api/v1/explore/genres
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, h.explorer.GenreDistribution(), time.Now())
}

// MostRatedGenres handles GET /api/v1/explore/genres/most-rated?n=
func (h *Handler) MostRatedGenres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	n, ok := intParam(r.URL.Query().Get("n"), explore.DefaultMostRatedGenres)
	if !ok || n < 1 {
		respondError(w, r, http.StatusBadRequest, "INVALID_N", "n must be a positive integer")
		return
	}
	respondData(w, r, h.explorer.MostRatedGenres(n), start)
}

// GenreRatings handles GET /api/v1/explore/genres/ratings?n=
func (h *Handler) GenreRatings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	n, ok := intParam(r.URL.Query().Get("n"), explore.DefaultRatedGenres)
	if !ok || n < 1 {
		respondError(w, r, http.StatusBadRequest, "INVALID_N", "n must be a positive integer")
		return
	}
	respondData(w, r, &GenreRatingsResponse{
		Highest: h.explorer.HighestRatedGenres(n),
		Lowest:  h.explorer.LowestRatedGenres(n),
		All:     h.explorer.GenreMeanRatings(),
	}, start)
}

// TopMovies handles GET /api/v1/explore/top-movies?k=&min_count=
func (h *Handler) TopMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()
	k, ok := intParam(q.Get("k"), explore.DefaultTopK)
	if !ok || k < explore.MinTopK || k > explore.MaxTopK {
		respondError(w, r, http.StatusBadRequest, "INVALID_K",
			"k must be an integer in ["+strconv.Itoa(explore.MinTopK)+", "+strconv.Itoa(explore.MaxTopK)+"]")
		return
	}
	minCount, ok := intParam(q.Get("min_count"), 0)
	if !ok || minCount < 0 {
		respondError(w, r, http.StatusBadRequest, "INVALID_MIN_COUNT", "min_count must be a non-negative integer")
		return
	}
	respondData(w, r, h.explorer.TopRatedMovies(k, minCount), start)
}

// intParam 解析整数参数，空串返回默认值。
func intParam(s string, def int) (int, bool) {
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// respondServiceError 把服务层错误映射为状态码：请求取消或超时、存储不可用（熔断打开）为 503，
// 非法输入为 400，其余为 500。
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusServiceUnavailable, "REQUEST_CANCELLED", err.Error())
	case core.IsUnavailable(err):
		respondError(w, r, http.StatusServiceUnavailable, "UNAVAILABLE", err.Error())
	case core.IsInvalidInput(err):
		respondError(w, r, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}
