package ws

import (
	"testing"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
)

func TestWorldTradeAdvancesThroughPhases(t *testing.T) {
	w := NewWorld(9)
	w.SetInventory(7, []protocol.ItemStack{{Item: "apple", Count: 5}})
	w.SetInventory(9, nil)
	id := w.OpenTrade(7)
	w.Offer(7, []protocol.ItemStack{{Item: "apple", Count: 2}})

	w.CounterpartAccept()
	w.Apply(protocol.ActMsg{Seq: 1, Actions: []protocol.ActionReq{{Type: protocol.ActionTrade, TradeID: id, TradeAction: protocol.TradeAccept, Phase: protocol.PhaseOffer}}})
	if tr := w.Trade(); tr == nil || tr.Phase != protocol.PhaseReview {
		t.Fatalf("expected REVIEW phase, got %+v", tr)
	}

	// A stale phase is ignored.
	w.Apply(protocol.ActMsg{Seq: 2, Actions: []protocol.ActionReq{{Type: protocol.ActionTrade, TradeID: id, TradeAction: protocol.TradeAccept, Phase: protocol.PhaseOffer}}})
	w.CounterpartAccept()
	if tr := w.Trade(); tr == nil {
		t.Fatalf("trade closed before bot accepted review")
	}
	w.Apply(protocol.ActMsg{Seq: 3, Actions: []protocol.ActionReq{{Type: protocol.ActionTrade, TradeID: id, TradeAction: protocol.TradeAccept, Phase: protocol.PhaseReview}}})
	if tr := w.Trade(); tr != nil {
		t.Fatalf("expected trade settled, got %+v", tr)
	}

	obs := w.Observe()
	if obs.AckSeq != 3 {
		t.Fatalf("expected ack 3, got %d", obs.AckSeq)
	}
	got := map[uint64][]protocol.ItemStack{}
	for _, inv := range obs.Inventories {
		got[inv.Uid] = inv.Items
	}
	if len(got[7]) != 1 || got[7][0].Count != 3 {
		t.Fatalf("unexpected initiator inventory: %+v", got[7])
	}
	if len(got[9]) != 1 || got[9][0].Count != 2 {
		t.Fatalf("unexpected bot inventory: %+v", got[9])
	}
}

func TestWorldCharacterLifecycle(t *testing.T) {
	w := NewWorld(9)
	if obs := w.Observe(); !obs.Characters.Loading {
		t.Fatalf("expected roster loading before LOAD_CHARACTERS")
	}
	body := protocol.Body{Species: "DRAUGR", BodyType: "FEMALE"}
	w.Apply(protocol.ActMsg{Seq: 1, Actions: []protocol.ActionReq{{Type: protocol.ActionCreateCharacter, Name: "Inventory Character", Body: &body}}})
	chars := w.Characters()
	if len(chars) != 1 || chars[0].ID == nil || chars[0].Alias != "Inventory Character" {
		t.Fatalf("unexpected characters: %+v", chars)
	}
	w.Apply(protocol.ActMsg{Seq: 2, Actions: []protocol.ActionReq{{Type: protocol.ActionRequestCharacter, CharacterID: *chars[0].ID}}})
	if p := w.Presence(); p == nil || p.CharacterID != *chars[0].ID {
		t.Fatalf("expected presence, got %+v", p)
	}
}

func TestWorldAcceptTradeInviteOpensTrade(t *testing.T) {
	w := NewWorld(9)
	w.Invite(7, protocol.InviteTrade)
	w.Apply(protocol.ActMsg{Seq: 1, Actions: []protocol.ActionReq{{Type: protocol.ActionAcceptInvite}}})
	tr := w.Trade()
	if tr == nil || tr.Parties != [2]uint64{7, 9} {
		t.Fatalf("expected trade with inviter first, got %+v", tr)
	}
	if obs := w.Observe(); obs.Invite != nil {
		t.Fatalf("expected invite cleared")
	}
}
