package bot

import (
	"fmt"
	"io"
	"log"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/client"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/clock"
	persistlog "github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/persistence/log"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
)

type TradeRecorder interface {
	WriteTrade(persistlog.TradeEntry) error
}

type ChatRecorder interface {
	WriteChat(persistlog.ChatEntry) error
}

type Bot struct {
	Session Session
	Clock   *clock.Clock
	Spawner *Spawner

	// Target is the only alias whose invites and trades are accepted.
	Target string

	Out io.Writer
	// Log is optional.
	Log *log.Logger

	Trades TradeRecorder
	Chat   ChatRecorder
}

// Run steps until the session fails. The error is logged and returned;
// nothing is retried.
func (b *Bot) Run() error {
	for {
		if err := b.Step(); err != nil {
			b.logf("Error: %v", err)
			return err
		}
	}
}

// Step runs one tick: advance, spawn if needed, negotiate, handle events,
// then cleanup and clock. Events seen before a failure are still handled.
func (b *Bot) Step() error {
	events, err := b.Session.Tick(protocol.Inputs{}, b.Clock.DT())
	if err != nil {
		return err
	}
	if b.Session.Presence() == nil {
		// The spawn loop ticks on its own; this tick's events go first.
		b.handleEvents(events)
		b.Session.Cleanup()
		events, err = b.Spawner.EnsureSpawned(b.Session, b.Clock)
		if err != nil {
			b.handleEvents(events)
			return err
		}
	}
	b.negotiate()
	b.handleEvents(events)
	b.Session.Cleanup()
	b.Clock.Tick()
	return nil
}

func (b *Bot) negotiate() {
	snap := TakeSnapshot(b.Session)
	act := Decide(snap, b.Target)
	sum := Apply(b.Session, act, b.Out)

	if snap.Trade != nil && b.Trades != nil {
		e := persistlog.TradeEntry{
			Tick:      snap.Tick,
			TradeID:   snap.Trade.ID,
			Phase:     snap.Trade.Phase,
			Parties:   snap.Trade.Parties,
			Initiator: snap.Trade.InitiatorAlias,
			Accepted:  act.AcceptTrade,
		}
		if sum != nil {
			for i, p := range sum.Parts {
				if p != nil {
					e.Holdings[i] = map[string]int(p)
				}
			}
		}
		if err := b.Trades.WriteTrade(e); err != nil {
			b.logf("trade log: %v", err)
		}
	}
	if sum != nil {
		b.logf("%s", sum.Balance())
	}
}

func (b *Bot) logf(format string, args ...any) {
	if b.Log != nil {
		b.Log.Printf(format, args...)
	}
}

func (b *Bot) handleEvents(events []client.Event) {
	for _, ev := range events {
		switch ev.Type {
		case protocol.EventChat:
			if ev.Chat == nil {
				continue
			}
			line := b.Session.FormatMessage(*ev.Chat, true)
			fmt.Fprintln(b.Out, line)
			if b.Chat != nil {
				if err := b.Chat.WriteChat(persistlog.ChatEntry{Tick: b.Session.CurrentTick(), ChatType: ev.Chat.ChatType, Line: line}); err != nil {
					b.logf("chat log: %v", err)
				}
			}
			// A tell from the target asks for a trade.
			if ev.Chat.ChatType == protocol.ChatTell && AliasOf(b.Session, ev.Chat.From) == b.Target {
				b.Session.SendInvite(ev.Chat.From, protocol.InviteTrade)
			}
		case protocol.EventDisconnect:
			fmt.Fprintln(b.Out, "Disconnected.")
		}
	}
}
