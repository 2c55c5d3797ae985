package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/reckit-movies/logging"
)

// Response 是所有 JSON 接口的统一响应结构。
type Response struct {
	Status   string     `json:"status"`
	Data     any        `json:"data,omitempty"`
	Error    *ErrorBody `json:"error,omitempty"`
	Metadata Metadata   `json:"metadata"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	resp.Metadata.Timestamp = time.Now().UTC()
	resp.Metadata.RequestID = logging.RequestIDFromContext(r.Context())

	data, err := json.Marshal(resp)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("write response")
	}
}

func respondData(w http.ResponseWriter, r *http.Request, data any, started time.Time) {
	respondJSON(w, r, http.StatusOK, &Response{
		Status:   "success",
		Data:     data,
		Metadata: Metadata{QueryTimeMS: time.Since(started).Milliseconds()},
	})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respondJSON(w, r, status, &Response{
		Status: "error",
		Error:  &ErrorBody{Code: code, Message: message},
	})
}
