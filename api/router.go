// Package api is the HTTP host of the summarizer.
package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every HTTP route.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/v1/tldr", h.Summarize).Methods("POST")
	r.HandleFunc("/v1/messages", h.Ingest).Methods("POST")
	r.HandleFunc("/healthz", Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return r
}
