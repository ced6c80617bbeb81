package config

import "time"

// NetworkConfig contains client connection settings
type NetworkConfig struct {
	DefaultAddress    string
	DefaultPlayerName string
	// DirectoryURL enables host lookup from the connect screen when set
	DirectoryURL string

	// OutboxSize bounds queued outbound messages; a full outbox drops sends
	OutboxSize int
	// EventBuffer sizes the per-kind inbound event channels drained each tick
	EventBuffer int
	// FailureLogInterval throttles repeated send-failure log lines
	FailureLogInterval time.Duration
}

// Network is the global network configuration
var Network NetworkConfig

func init() {
	Network = NetworkConfig{
		DefaultAddress:     "localhost:7373",
		DefaultPlayerName:  "Player",
		OutboxSize:         64,
		EventBuffer:        8,
		FailureLogInterval: time.Second,
	}
}
