package main

import (
	"slices"
	"strings"
	"time"

	"github.com/automoto/brickbrawl/shared/directory"
	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
)

type hostRecord struct {
	directory.HostInfo
	lastSeen time.Time
}

// Registry is an in-memory store of advertised hosts with TTL-based expiry.
type Registry struct {
	mu    deadlock.RWMutex
	hosts map[string]*hostRecord
	ttl   time.Duration
	now   func() time.Time
	log   *zap.SugaredLogger
}

func NewRegistry(ttl time.Duration, log *zap.SugaredLogger) *Registry {
	return &Registry{
		hosts: make(map[string]*hostRecord),
		ttl:   ttl,
		now:   time.Now,
		log:   log,
	}
}

// Register stores a host and returns its fresh id.
func (r *Registry) Register(req directory.RegisterRequest) string {
	id := uuid.NewString()

	r.mu.Lock()
	r.hosts[id] = &hostRecord{
		HostInfo: directory.HostInfo{
			ID:         id,
			Name:       req.Name,
			Address:    req.Address,
			Players:    req.Players,
			MaxPlayers: req.MaxPlayers,
			Version:    req.Version,
		},
		lastSeen: r.now(),
	}
	r.mu.Unlock()

	return id
}

// Heartbeat refreshes a host. Returns false for unknown or expired ids.
func (r *Registry) Heartbeat(id string, players int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.hosts[id]
	if !ok {
		return false
	}
	rec.lastSeen = r.now()
	rec.Players = players
	return true
}

// List returns live hosts ordered by name, then id.
func (r *Registry) List() []directory.HostInfo {
	r.mu.RLock()
	result := make([]directory.HostInfo, 0, len(r.hosts))
	for _, rec := range r.hosts {
		result = append(result, rec.HostInfo)
	}
	r.mu.RUnlock()

	slices.SortFunc(result, func(a, b directory.HostInfo) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// Expire drops hosts silent for at least the TTL and returns how many went.
func (r *Registry) Expire() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	expired := 0
	for id, rec := range r.hosts {
		if since := now.Sub(rec.lastSeen); since >= r.ttl {
			r.log.Infow("expired host", "name", rec.Name, "id", id, "lastSeen", since.Round(time.Second))
			delete(r.hosts, id)
			expired++
		}
	}
	return expired
}

// Run calls Expire every interval until stop is closed.
func (r *Registry) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.Expire()
		}
	}
}
