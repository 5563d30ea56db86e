package protocol

// OBS (server -> client): full session snapshot for one server tick.
type ObsMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`

	// AckSeq is the Seq of the last ACT the server has applied.
	AckSeq uint64 `json:"ack_seq"`

	Presence   *PresenceObs     `json:"presence,omitempty"`
	Players    []PlayerInfo     `json:"players"`
	Characters CharacterListObs `json:"characters"`
	Invite     *InviteObs       `json:"invite,omitempty"`
	Trade      *TradeObs        `json:"trade,omitempty"`

	Inventories []InventoryObs `json:"inventories,omitempty"`
	Events      []Event        `json:"events,omitempty"`
}

// Presence kinds.
const (
	PresenceCharacter = "CHARACTER"
	PresenceSpectator = "SPECTATOR"
)

type PresenceObs struct {
	Kind        string `json:"kind"`
	CharacterID uint64 `json:"character_id,omitempty"`
}

type CharacterListObs struct {
	Loading    bool           `json:"loading"`
	Characters []CharacterObs `json:"characters"`
	Error      string         `json:"error,omitempty"`
}

type CharacterObs struct {
	// ID is nil until the server has assigned one.
	ID    *uint64 `json:"id,omitempty"`
	Alias string  `json:"alias"`
	Body  Body    `json:"body"`
	Level int     `json:"level,omitempty"`
}

// Body is a humanoid appearance.
type Body struct {
	Species   string `json:"species" yaml:"species"`
	BodyType  string `json:"body_type" yaml:"body_type"`
	HairStyle int    `json:"hair_style" yaml:"hair_style"`
	Beard     int    `json:"beard" yaml:"beard"`
	Eyes      int    `json:"eyes" yaml:"eyes"`
	Accessory int    `json:"accessory" yaml:"accessory"`
	HairColor int    `json:"hair_color" yaml:"hair_color"`
	Skin      int    `json:"skin" yaml:"skin"`
	EyeColor  int    `json:"eye_color" yaml:"eye_color"`
}

// Invite kinds.
const (
	InviteGroup = "GROUP"
	InviteTrade = "TRADE"
)

type InviteObs struct {
	Inviter     uint64 `json:"inviter"`
	Kind        string `json:"kind"`
	ExpiresTick uint64 `json:"expires_tick,omitempty"`
}

// Trade phases.
const (
	PhaseOffer    = "OFFER"
	PhaseReview   = "REVIEW"
	PhaseComplete = "COMPLETE"
)

type TradeObs struct {
	TradeID uint64         `json:"trade_id"`
	Phase   string         `json:"phase"`
	Parties [2]uint64      `json:"parties"`
	Offers  [2][]ItemStack `json:"offers"`

	// Accept flags per party for the current phase.
	Accepted [2]bool `json:"accepted"`
}

type ItemStack struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

type InventoryObs struct {
	Uid   uint64      `json:"uid"`
	Items []ItemStack `json:"items"`
}

// Event types.
const (
	EventChat       = "CHAT"
	EventDisconnect = "DISCONNECT"
)

// Chat types.
const (
	ChatWorld        = "WORLD"
	ChatTell         = "TELL"
	ChatGroup        = "GROUP"
	ChatSay          = "SAY"
	ChatCommandInfo  = "COMMAND_INFO"
	ChatCommandError = "COMMAND_ERROR"
)

type Event struct {
	Type string   `json:"type"`
	Chat *ChatMsg `json:"chat,omitempty"`
}

type ChatMsg struct {
	ChatType string `json:"chat_type"`
	From     uint64 `json:"from,omitempty"`
	To       uint64 `json:"to,omitempty"`
	Message  string `json:"message"`
}

// ACT (client -> server)
type ActMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	ID              string      `json:"id"`
	Seq             uint64      `json:"seq"`
	Tick            uint64      `json:"tick"`
	Inputs          Inputs      `json:"inputs"`
	Actions         []ActionReq `json:"actions,omitempty"`
}

// Inputs are the controller inputs for one tick. The zero value means idle.
type Inputs struct {
	Move [2]float64 `json:"move,omitempty"`
	Look [3]float64 `json:"look,omitempty"`
}

// Action types.
const (
	ActionLoadCharacters   = "LOAD_CHARACTERS"
	ActionRequestCharacter = "REQUEST_CHARACTER"
	ActionCreateCharacter  = "CREATE_CHARACTER"
	ActionAcceptInvite     = "ACCEPT_INVITE"
	ActionDeclineInvite    = "DECLINE_INVITE"
	ActionSendInvite       = "SEND_INVITE"
	ActionTrade            = "TRADE_ACTION"
)

// Trade action kinds.
const (
	TradeAccept  = "ACCEPT"
	TradeDecline = "DECLINE"
)

type ActionReq struct {
	Type string `json:"type"`

	CharacterID uint64 `json:"character_id,omitempty"`
	Name        string `json:"name,omitempty"`
	Body        *Body  `json:"body,omitempty"`

	Target     uint64 `json:"target,omitempty"`
	InviteKind string `json:"invite_kind,omitempty"`

	TradeID     uint64 `json:"trade_id,omitempty"`
	TradeAction string `json:"trade_action,omitempty"`
	Phase       string `json:"phase,omitempty"`
}
