package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type              string   `json:"type"`
	ProtocolVersion   string   `json:"protocol_version"`
	SupportedVersions []string `json:"supported_versions,omitempty"`
	ClientID          string   `json:"client_id"`
	ClientName        string   `json:"client_name"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string       `json:"type"`
	ProtocolVersion string       `json:"protocol_version"`
	ServerInfo      ServerInfo   `json:"server_info"`
	TickRateHz      int          `json:"tick_rate_hz,omitempty"`
	Players         []PlayerInfo `json:"players"`
}

type ServerInfo struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	GitHash      string `json:"git_hash,omitempty"`
	AuthProvider string `json:"auth_provider,omitempty"`
}

// PlayerInfo is one entry of the server's player roster, keyed by Uid.
type PlayerInfo struct {
	Uid         uint64 `json:"uid"`
	PlayerAlias string `json:"player_alias"`
	IsOnline    bool   `json:"is_online"`
	IsModerator bool   `json:"is_moderator,omitempty"`
	Character   string `json:"character,omitempty"`
}

// REGISTER (client -> server)
type RegisterMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Username        string `json:"username"`
	Token           string `json:"token"`
}

// REGISTERED (server -> client)
type RegisteredMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Accepted        bool   `json:"accepted"`
	Uid             uint64 `json:"uid,omitempty"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
}

// KICK (server -> client): the session is over.
type KickMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code,omitempty"`
	Reason          string `json:"reason,omitempty"`
}
