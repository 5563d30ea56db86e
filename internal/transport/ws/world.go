package ws

import (
	"sort"
	"sync"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
)

// World is a small scripted world for one bot session. Tests and the dev
// server drive the counterpart side through its methods; the bot side is
// driven by ACT frames.
type World struct {
	mu sync.Mutex

	tick   uint64
	botUid uint64

	players     map[uint64]protocol.PlayerInfo
	characters  []protocol.CharacterObs
	charsLoaded bool
	nextCharID  uint64
	presence    *protocol.PresenceObs
	invite      *protocol.InviteObs
	trade       *protocol.TradeObs
	nextTradeID uint64
	inventories map[uint64][]protocol.ItemStack
	events      []protocol.Event

	ackSeq uint64
	acts   []protocol.ActMsg
}

func NewWorld(botUid uint64) *World {
	return &World{
		botUid:      botUid,
		players:     map[uint64]protocol.PlayerInfo{},
		inventories: map[uint64][]protocol.ItemStack{},
		nextCharID:  1,
		nextTradeID: 1,
	}
}

func (w *World) BotUid() uint64 { return w.botUid }

func (w *World) AddPlayer(uid uint64, alias string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.players[uid] = protocol.PlayerInfo{Uid: uid, PlayerAlias: alias, IsOnline: true}
}

// AddCharacter puts a character on the bot's roster and returns its id.
func (w *World) AddCharacter(alias string, body protocol.Body) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addCharacterLocked(alias, body)
}

func (w *World) addCharacterLocked(alias string, body protocol.Body) uint64 {
	id := w.nextCharID
	w.nextCharID++
	w.characters = append(w.characters, protocol.CharacterObs{ID: &id, Alias: alias, Body: body, Level: 1})
	return id
}

func (w *World) SetInventory(uid uint64, items []protocol.ItemStack) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inventories[uid] = append([]protocol.ItemStack(nil), items...)
}

func (w *World) Invite(from uint64, kind string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.invite = &protocol.InviteObs{Inviter: from, Kind: kind}
}

// OpenTrade starts a trade with initiator as the first party.
func (w *World) OpenTrade(initiator uint64) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.openTradeLocked(initiator)
}

func (w *World) openTradeLocked(initiator uint64) uint64 {
	id := w.nextTradeID
	w.nextTradeID++
	w.trade = &protocol.TradeObs{
		TradeID: id,
		Phase:   protocol.PhaseOffer,
		Parties: [2]uint64{initiator, w.botUid},
	}
	return id
}

// Offer replaces the items a party puts up in the current trade.
func (w *World) Offer(uid uint64, items []protocol.ItemStack) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.trade == nil {
		return
	}
	for i, p := range w.trade.Parties {
		if p == uid {
			w.trade.Offers[i] = append([]protocol.ItemStack(nil), items...)
			w.trade.Accepted = [2]bool{}
		}
	}
}

// CounterpartAccept accepts the current phase on behalf of the other party.
func (w *World) CounterpartAccept() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.trade == nil {
		return
	}
	for i, p := range w.trade.Parties {
		if p != w.botUid {
			w.acceptLocked(i)
		}
	}
}

func (w *World) CancelTrade() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.trade = nil
}

func (w *World) Chat(msg protocol.ChatMsg) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, protocol.Event{Type: protocol.EventChat, Chat: &msg})
}

func (w *World) Presence() *protocol.PresenceObs {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.presence == nil {
		return nil
	}
	p := *w.presence
	return &p
}

func (w *World) Trade() *protocol.TradeObs {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.trade == nil {
		return nil
	}
	t := *w.trade
	return &t
}

func (w *World) Characters() []protocol.CharacterObs {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]protocol.CharacterObs(nil), w.characters...)
}

// Actions returns every action of type typ received so far, in order.
func (w *World) Actions(typ string) []protocol.ActionReq {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []protocol.ActionReq
	for _, a := range w.acts {
		for _, r := range a.Actions {
			if r.Type == typ {
				out = append(out, r)
			}
		}
	}
	return out
}

// Apply processes one ACT frame from the bot.
func (w *World) Apply(act protocol.ActMsg) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.acts = append(w.acts, act)
	if act.Seq > w.ackSeq {
		w.ackSeq = act.Seq
	}
	for _, r := range act.Actions {
		w.applyLocked(r)
	}
}

func (w *World) applyLocked(r protocol.ActionReq) {
	switch r.Type {
	case protocol.ActionLoadCharacters:
		w.charsLoaded = true
	case protocol.ActionCreateCharacter:
		body := protocol.Body{}
		if r.Body != nil {
			body = *r.Body
		}
		w.addCharacterLocked(r.Name, body)
		w.charsLoaded = true
	case protocol.ActionRequestCharacter:
		for _, c := range w.characters {
			if c.ID != nil && *c.ID == r.CharacterID {
				w.presence = &protocol.PresenceObs{Kind: protocol.PresenceCharacter, CharacterID: r.CharacterID}
			}
		}
	case protocol.ActionAcceptInvite:
		if w.invite == nil {
			return
		}
		inv := w.invite
		w.invite = nil
		if inv.Kind == protocol.InviteTrade && w.trade == nil {
			w.openTradeLocked(inv.Inviter)
		}
	case protocol.ActionDeclineInvite:
		w.invite = nil
	case protocol.ActionTrade:
		if w.trade == nil || w.trade.TradeID != r.TradeID {
			return
		}
		switch r.TradeAction {
		case protocol.TradeDecline:
			w.trade = nil
		case protocol.TradeAccept:
			if r.Phase != w.trade.Phase {
				return
			}
			for i, p := range w.trade.Parties {
				if p == w.botUid {
					w.acceptLocked(i)
				}
			}
		}
	}
}

func (w *World) acceptLocked(i int) {
	w.trade.Accepted[i] = true
	if !w.trade.Accepted[0] || !w.trade.Accepted[1] {
		return
	}
	switch w.trade.Phase {
	case protocol.PhaseOffer:
		w.trade.Phase = protocol.PhaseReview
		w.trade.Accepted = [2]bool{}
	case protocol.PhaseReview:
		w.settleLocked()
		w.trade = nil
	}
}

func (w *World) settleLocked() {
	a, b := w.trade.Parties[0], w.trade.Parties[1]
	w.inventories[a] = transfer(w.inventories[a], w.trade.Offers[0], w.trade.Offers[1])
	w.inventories[b] = transfer(w.inventories[b], w.trade.Offers[1], w.trade.Offers[0])
}

func transfer(inv, out, in []protocol.ItemStack) []protocol.ItemStack {
	counts := map[string]int{}
	for _, s := range inv {
		counts[s.Item] += s.Count
	}
	for _, s := range out {
		counts[s.Item] -= s.Count
	}
	for _, s := range in {
		counts[s.Item] += s.Count
	}
	keys := make([]string, 0, len(counts))
	for k, c := range counts {
		if c > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	res := make([]protocol.ItemStack, 0, len(keys))
	for _, k := range keys {
		res = append(res, protocol.ItemStack{Item: k, Count: counts[k]})
	}
	return res
}

// Observe advances the world tick and returns the snapshot to send.
// Queued events are drained into it.
func (w *World) Observe() protocol.ObsMsg {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tick++

	players := make([]protocol.PlayerInfo, 0, len(w.players))
	for _, p := range w.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Uid < players[j].Uid })

	obs := protocol.ObsMsg{
		Type:            protocol.TypeObs,
		ProtocolVersion: protocol.Version,
		Tick:            w.tick,
		AckSeq:          w.ackSeq,
		Players:         players,
		Characters: protocol.CharacterListObs{
			Loading:    !w.charsLoaded,
			Characters: append([]protocol.CharacterObs{}, w.characters...),
		},
		Events: w.events,
	}
	w.events = nil
	if w.presence != nil {
		p := *w.presence
		obs.Presence = &p
	}
	if w.invite != nil {
		inv := *w.invite
		obs.Invite = &inv
	}
	if w.trade != nil {
		t := *w.trade
		obs.Trade = &t
	}
	uids := make([]uint64, 0, len(w.inventories))
	for uid := range w.inventories {
		uids = append(uids, uid)
	}
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })
	for _, uid := range uids {
		obs.Inventories = append(obs.Inventories, protocol.InventoryObs{Uid: uid, Items: w.inventories[uid]})
	}
	return obs
}

func (w *World) roster() []protocol.PlayerInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]protocol.PlayerInfo, 0, len(w.players))
	for _, p := range w.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Uid < out[j].Uid })
	return out
}
