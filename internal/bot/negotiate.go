package bot

import (
	"fmt"
	"io"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/client"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/trade"
)

type InviteView struct {
	Inviter client.Uid
	Alias   string
	Kind    string
}

type TradeView struct {
	ID      uint64
	Phase   string
	Parties [2]client.Uid
	// InitiatorAlias is the alias of Parties[0]; the first party is taken
	// to be the one who started the trade.
	InitiatorAlias string
}

// Snapshot is the social state of one tick.
type Snapshot struct {
	Tick   uint64
	Invite *InviteView
	Trade  *TradeView
}

func TakeSnapshot(s Session) Snapshot {
	snap := Snapshot{Tick: s.CurrentTick()}
	if inv := s.Invite(); inv != nil {
		snap.Invite = &InviteView{Inviter: inv.Inviter, Alias: AliasOf(s, inv.Inviter), Kind: inv.Kind}
	}
	if s.IsTrading() {
		if t := s.PendingTrade(); t != nil {
			snap.Trade = &TradeView{
				ID:             t.ID,
				Phase:          t.Phase,
				Parties:        t.Parties,
				InitiatorAlias: AliasOf(s, t.Parties[0]),
			}
		}
	}
	return snap
}

type InviteDecision int

const (
	InviteNone InviteDecision = iota
	InviteAccept
	InviteDecline
)

// Actions is what the bot does in one tick.
type Actions struct {
	Invite InviteDecision

	// AcceptTrade re-affirms Trade at its current phase.
	AcceptTrade bool
	Trade       *TradeView
}

// Decide derives this tick's actions from snap alone. Aliases are compared
// case-sensitively. A trade started by anyone but target is left alone.
func Decide(snap Snapshot, target string) Actions {
	var a Actions
	if snap.Invite != nil {
		if snap.Invite.Alias == target {
			a.Invite = InviteAccept
		} else {
			a.Invite = InviteDecline
		}
	}
	if snap.Trade != nil && snap.Trade.InitiatorAlias == target {
		a.AcceptTrade = true
		a.Trade = snap.Trade
	}
	return a
}

// Apply issues a on s. When a trade is accepted it also returns the
// reduced holdings of both parties.
func Apply(s Session, a Actions, out io.Writer) *trade.Summary {
	switch a.Invite {
	case InviteAccept:
		s.AcceptInvite()
	case InviteDecline:
		s.DeclineInvite()
	}
	if !a.AcceptTrade || a.Trade == nil {
		return nil
	}
	s.PerformTradeAction(client.Accept(a.Trade.Phase))
	sum := Summarize(s, a.Trade, out)
	return &sum
}

// Summarize reduces each party's inventory. Parties whose inventory the
// session does not know stay nil.
func Summarize(s Session, t *TradeView, out io.Writer) trade.Summary {
	sum := trade.Summary{TradeID: t.ID, Phase: t.Phase, Parties: t.Parties}
	for i, party := range t.Parties {
		if out != nil {
			fmt.Fprintf(out, "Fetching inventory %d\n", i)
		}
		items, ok := s.Inventory(party)
		if !ok {
			continue
		}
		sum.Parts[i] = trade.Reduce(items)
	}
	return sum
}
