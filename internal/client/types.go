package client

import (
	"errors"
	"fmt"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
)

type Uid = uint64

var (
	ErrDisconnected      = errors.New("client: disconnected")
	ErrUntrustedProvider = errors.New("client: untrusted auth provider")
)

// KickError ends a session when the server sends KICK.
type KickError struct {
	Code   string
	Reason string
}

func (e *KickError) Error() string {
	return fmt.Sprintf("client: kicked (%s): %s", e.Code, e.Reason)
}

// RegisterError is a rejected REGISTER.
type RegisterError struct {
	Code    string
	Message string
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("client: register rejected (%s): %s", e.Code, e.Message)
}

type Presence struct {
	Kind        string
	CharacterID uint64
}

type Character struct {
	// ID is nil until the server assigns one.
	ID    *uint64
	Alias string
	Body  protocol.Body
}

type CharacterList struct {
	Loading    bool
	Characters []Character
	Error      string
}

type Invite struct {
	Inviter Uid
	Kind    string
}

type PendingTrade struct {
	ID       uint64
	Phase    string
	Parties  [2]Uid
	Offers   [2][]protocol.ItemStack
	Accepted [2]bool
}

type TradeAction struct {
	Kind  string
	Phase string
}

// Accept agrees to the trade as it stands in phase.
func Accept(phase string) TradeAction { return TradeAction{Kind: protocol.TradeAccept, Phase: phase} }

func Decline() TradeAction { return TradeAction{Kind: protocol.TradeDecline} }

type Event = protocol.Event
