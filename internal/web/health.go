// Package web exposes the liveness endpoint. It is deliberately outside the
// pipeline: the bot stays useful even if this server fails to bind.
package web

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// NewServer returns an HTTP server answering GET /healthz on addr.
func NewServer(addr string) *http.Server {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)

	return &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
