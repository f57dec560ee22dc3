package chttp

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Response defines the status, body, and error of an API response
type Response struct {
	Status int
	Body   []byte
	Err    error
}

// Handler is a request handler that produces a `chttp.Response`
type Handler func(*http.Request) Response

// SimpleResponse returns a plain `Response` with a body
func SimpleResponse(status int, body []byte) Response {
	return Response{Status: status, Body: body}
}

type jsonError struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// HandlerFunc converts the handler into a `http.HandlerFunc` that
// renders the response body, or the error as a JSON payload
func (h Handler) HandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := h(r)
		if response.Err != nil {
			body, err := json.Marshal(jsonError{Status: response.Status, Error: response.Err.Error()})
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.WriteHeader(response.Status)
			_, _ = w.Write(body)
			return
		}
		w.WriteHeader(response.Status)
		_, _ = w.Write(response.Body)
	}
}

// JSONResponseMiddleware sets the JSON content type on every response
func JSONResponseMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// RequestLoggerMiddleware logs every request with its status and duration
func RequestLoggerMiddleware(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(started).String(),
			}).Info("request served")
		})
	}
}
