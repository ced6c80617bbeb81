package main

import (
	"encoding/json"
	"net/http"

	"github.com/automoto/brickbrawl/shared/directory"
	"go.uber.org/zap"
)

const maxRequestBody = 1 << 16 // 64 KB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func ListHosts(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		writeJSON(w, http.StatusOK, reg.List())
	}
}

func RegisterHost(reg *Registry, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req directory.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Name == "" || req.Address == "" {
			writeError(w, http.StatusBadRequest, "name and address required")
			return
		}

		id := reg.Register(req)
		log.Infow("registered host", "name", req.Name, "address", req.Address, "version", req.Version, "id", id)
		writeJSON(w, http.StatusCreated, directory.RegisterResponse{ID: id})
	}
}

func Heartbeat(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req directory.HeartbeatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		if !reg.Heartbeat(req.ID, req.Players) {
			writeError(w, http.StatusNotFound, "unknown host")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// NewMux routes the directory endpoints.
func NewMux(reg *Registry, log *zap.SugaredLogger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+directory.ListPath, ListHosts(reg))
	mux.HandleFunc("POST "+directory.RegisterPath, RegisterHost(reg, log))
	mux.HandleFunc("POST "+directory.HeartbeatPath, Heartbeat(reg))
	mux.HandleFunc("GET "+directory.HealthPath, Health())
	return mux
}
