package messages

// JoinRequest is sent by a client after connecting to request joining the game.
type JoinRequest struct {
	Version    string
	PlayerName string
	ClientID   string // Per-session id generated by the client
}

// JoinAccepted is sent by the host when a client's join request is accepted.
type JoinAccepted struct {
	ClientID   string
	ServerName string
	TickRate   int
	MaxPlayers int
}

// JoinRejected is sent by the host when a client's join request is rejected.
type JoinRejected struct {
	Reason string
}
