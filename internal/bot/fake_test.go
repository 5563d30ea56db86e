package bot

import (
	"errors"
	"fmt"
	"time"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/client"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
)

var errTick = errors.New("connection reset")

// fakeSession is a deterministic Session. Actions take effect on the next
// successful Tick, the way the server acknowledges them.
type fakeSession struct {
	ticks    int
	failAt   int
	cleanups int

	presence    *client.Presence
	players     map[client.Uid]protocol.PlayerInfo
	roster      client.CharacterList
	invite      *client.Invite
	trade       *client.PendingTrade
	inventories map[client.Uid][]protocol.ItemStack

	loadDelay   int
	loadReadyAt int
	requested   *uint64
	created     *client.Character
	nextCharID  uint64

	// events returns the events of the n-th advance.
	events func(n int) []client.Event

	calls []string
}

func newFake() *fakeSession {
	return &fakeSession{
		players: map[client.Uid]protocol.PlayerInfo{
			7: {Uid: 7, PlayerAlias: "Friend"},
			8: {Uid: 8, PlayerAlias: "Stranger"},
			9: {Uid: 9, PlayerAlias: "bankbot"},
		},
		inventories: map[client.Uid][]protocol.ItemStack{},
		nextCharID:  1,
	}
}

func (f *fakeSession) Tick(inputs protocol.Inputs, dt time.Duration) ([]client.Event, error) {
	f.ticks++
	if f.failAt != 0 && f.ticks >= f.failAt {
		return nil, errTick
	}
	if f.roster.Loading && f.ticks >= f.loadReadyAt {
		if f.created != nil {
			id := f.nextCharID
			f.nextCharID++
			ch := *f.created
			ch.ID = &id
			f.roster.Characters = append(f.roster.Characters, ch)
			f.created = nil
		}
		f.roster.Loading = false
	}
	if f.requested != nil {
		f.presence = &client.Presence{Kind: protocol.PresenceCharacter, CharacterID: *f.requested}
		f.requested = nil
	}
	if f.events != nil {
		return f.events(f.ticks), nil
	}
	return nil, nil
}

func (f *fakeSession) Cleanup()            { f.cleanups++ }
func (f *fakeSession) CurrentTick() uint64 { return uint64(f.ticks) }

func (f *fakeSession) Presence() *client.Presence                     { return f.presence }
func (f *fakeSession) PlayerList() map[client.Uid]protocol.PlayerInfo { return f.players }
func (f *fakeSession) CharacterList() client.CharacterList            { return f.roster }

func (f *fakeSession) LoadCharacterList() {
	f.calls = append(f.calls, "load")
	f.roster.Loading = true
	f.loadReadyAt = f.ticks + 1 + f.loadDelay
}

func (f *fakeSession) RequestCharacter(id uint64) {
	f.calls = append(f.calls, fmt.Sprintf("request:%d", id))
	f.requested = &id
}

func (f *fakeSession) CreateCharacter(name string, body protocol.Body) {
	f.calls = append(f.calls, "create:"+name)
	f.created = &client.Character{Alias: name, Body: body}
	f.roster.Loading = true
	f.loadReadyAt = f.ticks + 1 + f.loadDelay
}

func (f *fakeSession) Invite() *client.Invite { return f.invite }

func (f *fakeSession) AcceptInvite() {
	f.calls = append(f.calls, "accept_invite")
	f.invite = nil
}

func (f *fakeSession) DeclineInvite() {
	f.calls = append(f.calls, "decline_invite")
	f.invite = nil
}

func (f *fakeSession) SendInvite(target client.Uid, kind string) {
	f.calls = append(f.calls, fmt.Sprintf("send_invite:%d:%s", target, kind))
}

func (f *fakeSession) PendingTrade() *client.PendingTrade { return f.trade }
func (f *fakeSession) IsTrading() bool                    { return f.trade != nil }

func (f *fakeSession) PerformTradeAction(a client.TradeAction) {
	f.calls = append(f.calls, fmt.Sprintf("trade:%s:%s", a.Kind, a.Phase))
}

func (f *fakeSession) Inventory(uid client.Uid) ([]protocol.ItemStack, bool) {
	items, ok := f.inventories[uid]
	return items, ok
}

func (f *fakeSession) FormatMessage(msg protocol.ChatMsg, withCharacter bool) string {
	return fmt.Sprintf("[%s] %d: %s", msg.ChatType, msg.From, msg.Message)
}

func (f *fakeSession) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeSession) index(call string) int {
	for i, c := range f.calls {
		if c == call {
			return i
		}
	}
	return -1
}
