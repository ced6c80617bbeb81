package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/automoto/brickbrawl/shared/directory"
	"go.uber.org/zap"
)

var errUnknownHost = errors.New("directory lost registration")

// PlayerCounter reports the live player count advertised to the directory.
type PlayerCounter interface {
	PlayerCount() int
}

// Registration advertises this host to a directory and keeps it alive.
type Registration struct {
	baseURL  string
	info     directory.RegisterRequest
	players  PlayerCounter
	interval time.Duration
	client   *http.Client
	log      *zap.SugaredLogger

	hostID string
}

func NewRegistration(baseURL string, info directory.RegisterRequest, players PlayerCounter, interval time.Duration, log *zap.SugaredLogger) *Registration {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Registration{
		baseURL:  baseURL,
		info:     info,
		players:  players,
		interval: interval,
		client:   &http.Client{Timeout: 5 * time.Second},
		log:      log,
	}
}

// Run registers and heartbeats until ctx is done. Failures are logged and
// retried on the next tick.
func (r *Registration) Run(ctx context.Context) {
	if err := r.register(ctx); err != nil {
		r.log.Warnw("initial registration failed", "directory", r.baseURL, "error", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.tick(ctx); err != nil {
				r.log.Warnw("heartbeat failed", "error", err)
			}
		}
	}
}

func (r *Registration) tick(ctx context.Context) error {
	if r.hostID == "" {
		return r.register(ctx)
	}
	err := r.heartbeat(ctx)
	if errors.Is(err, errUnknownHost) {
		r.log.Infow("directory lost our registration, re-registering")
		return r.register(ctx)
	}
	return err
}

func (r *Registration) register(ctx context.Context) error {
	req := r.info
	req.Players = r.players.PlayerCount()

	var result directory.RegisterResponse
	status, err := r.post(ctx, directory.RegisterPath, req, &result)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("unexpected status: %d", status)
	}

	r.hostID = result.ID
	r.log.Infow("registered with directory", "id", r.hostID)
	return nil
}

func (r *Registration) heartbeat(ctx context.Context) error {
	status, err := r.post(ctx, directory.HeartbeatPath, directory.HeartbeatRequest{
		ID:      r.hostID,
		Players: r.players.PlayerCount(),
	}, nil)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return errUnknownHost
	default:
		return fmt.Errorf("unexpected status: %d", status)
	}
}

func (r *Registration) post(ctx context.Context, path string, body, out any) (int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode: %w", err)
		}
	}
	return resp.StatusCode, nil
}
