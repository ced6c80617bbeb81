// Package directory holds the wire types of the dev host directory, an
// optional HTTP service where hosts advertise themselves to clients.
package directory

// Endpoint paths served by the directory.
const (
	ListPath      = "/hosts"
	RegisterPath  = "/hosts/register"
	HeartbeatPath = "/hosts/heartbeat"
	HealthPath    = "/health"
)

// HostInfo describes a host visible to clients.
type HostInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
}

// Full reports whether the host has no free player slot.
func (h HostInfo) Full() bool {
	return h.MaxPlayers > 0 && h.Players >= h.MaxPlayers
}

type RegisterRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
}

type RegisterResponse struct {
	ID string `json:"id"`
}

type HeartbeatRequest struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
}
