// Package bot drives a world session: it spawns a character and then
// negotiates invites and trades with one trusted counterpart, tick by tick.
package bot

import (
	"time"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/client"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/clock"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
)

// Session is the part of *client.Client the bot uses.
type Session interface {
	Tick(inputs protocol.Inputs, dt time.Duration) ([]client.Event, error)
	Cleanup()
	CurrentTick() uint64

	Presence() *client.Presence
	PlayerList() map[client.Uid]protocol.PlayerInfo
	CharacterList() client.CharacterList
	LoadCharacterList()
	RequestCharacter(id uint64)
	CreateCharacter(name string, body protocol.Body)

	Invite() *client.Invite
	AcceptInvite()
	DeclineInvite()
	SendInvite(target client.Uid, kind string)

	PendingTrade() *client.PendingTrade
	IsTrading() bool
	PerformTradeAction(a client.TradeAction)
	Inventory(uid client.Uid) ([]protocol.ItemStack, bool)

	FormatMessage(msg protocol.ChatMsg, withCharacter bool) string
}

var _ Session = (*client.Client)(nil)

// Until advances s one idle tick at a time until pred holds, returning that
// tick's events. A failed tick ends the wait with its error. There is no
// timeout: pred must eventually hold.
func Until(s Session, clk *clock.Clock, pred func(Session) bool) ([]client.Event, error) {
	for {
		events, err := s.Tick(protocol.Inputs{}, clk.DT())
		if err != nil {
			return nil, err
		}
		if pred(s) {
			return events, nil
		}
		s.Cleanup()
		clk.Tick()
	}
}

// UnknownAlias stands in for players missing from the roster.
const UnknownAlias = "Unknown"

func AliasOf(s Session, uid client.Uid) string {
	if p, ok := s.PlayerList()[uid]; ok {
		return p.PlayerAlias
	}
	return UnknownAlias
}
