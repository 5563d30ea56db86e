package protocol

import "encoding/json"

const Version = "1.2"

// Message types.
const (
	TypeHello      = "HELLO"
	TypeWelcome    = "WELCOME"
	TypeRegister   = "REGISTER"
	TypeRegistered = "REGISTERED"
	TypeObs        = "OBS"
	TypeAct        = "ACT"
	TypeKick       = "KICK"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

var supportedVersions = []string{"1.1", Version}

// IsSupportedVersion reports whether a frame stamped with v can be decoded.
// An empty version is accepted for servers that omit it on OBS frames.
func IsSupportedVersion(v string) bool {
	if v == "" {
		return true
	}
	for _, s := range supportedVersions {
		if s == v {
			return true
		}
	}
	return false
}
