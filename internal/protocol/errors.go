package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrProtoVersion    = "E_PROTO_VERSION"

	// Registration.
	ErrAuthInvalid   = "E_AUTH_INVALID"
	ErrAuthProvider  = "E_AUTH_PROVIDER"
	ErrAlreadyLogged = "E_ALREADY_LOGGED_IN"
	ErrServerFull    = "E_SERVER_FULL"
	ErrBanned        = "E_BANNED"

	// Session.
	ErrKicked   = "E_KICKED"
	ErrShutdown = "E_SHUTDOWN"
	ErrTimeout  = "E_TIMEOUT"
	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrProtoVersion:    {},
	ErrAuthInvalid:     {},
	ErrAuthProvider:    {},
	ErrAlreadyLogged:   {},
	ErrServerFull:      {},
	ErrBanned:          {},
	ErrKicked:          {},
	ErrShutdown:        {},
	ErrTimeout:         {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
