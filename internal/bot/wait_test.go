package bot

import (
	"errors"
	"testing"
	"time"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/client"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/clock"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
)

func TestUntilStopsOnFirstTickPredicateHolds(t *testing.T) {
	f := newFake()
	f.events = func(n int) []client.Event {
		return []client.Event{{Type: protocol.EventChat, Chat: &protocol.ChatMsg{Message: string(rune('a' + n))}}}
	}
	clk := clock.New(time.Millisecond)

	events, err := Until(f, clk, func(s Session) bool { return s.CurrentTick() == 3 })
	if err != nil {
		t.Fatalf("until: %v", err)
	}
	if f.ticks != 3 {
		t.Fatalf("expected exactly 3 advances, got %d", f.ticks)
	}
	if clk.Ticks() != 2 || f.cleanups != 2 {
		t.Fatalf("expected 2 clock ticks and cleanups, got %d/%d", clk.Ticks(), f.cleanups)
	}
	if len(events) != 1 || events[0].Chat.Message != "d" {
		t.Fatalf("expected events of the third tick, got %+v", events)
	}
}

func TestUntilReturnsFirstFailure(t *testing.T) {
	f := newFake()
	f.failAt = 2
	clk := clock.New(time.Millisecond)

	_, err := Until(f, clk, func(Session) bool { return false })
	if !errors.Is(err, errTick) {
		t.Fatalf("expected tick error, got %v", err)
	}
	if f.ticks != 2 {
		t.Fatalf("expected no advance after the failure, got %d", f.ticks)
	}
}

func TestUntilFailureWinsOverPredicate(t *testing.T) {
	f := newFake()
	f.failAt = 1
	_, err := Until(f, clock.New(time.Millisecond), func(Session) bool { return true })
	if !errors.Is(err, errTick) || f.ticks != 1 {
		t.Fatalf("expected immediate failure, got %v after %d ticks", err, f.ticks)
	}
}

func TestAliasOfFallsBackToUnknown(t *testing.T) {
	f := newFake()
	if got := AliasOf(f, 7); got != "Friend" {
		t.Fatalf("expected Friend, got %q", got)
	}
	if got := AliasOf(f, 404); got != UnknownAlias {
		t.Fatalf("expected Unknown, got %q", got)
	}
}
