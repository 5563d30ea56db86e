package bot

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/client"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/clock"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
)

type SpawnState int

const (
	NoRosterRequested SpawnState = iota
	RosterLoading
	RosterReady
	CharacterRequested
	Present
)

func (s SpawnState) String() string {
	switch s {
	case NoRosterRequested:
		return "no_roster_requested"
	case RosterLoading:
		return "roster_loading"
	case RosterReady:
		return "roster_ready"
	case CharacterRequested:
		return "character_requested"
	case Present:
		return "present"
	default:
		return fmt.Sprintf("spawn_state(%d)", int(s))
	}
}

var ErrCreateCharacter = errors.New("bot: unable to create a new character")

// Character is what gets created when the roster is empty.
type Character struct {
	Name string
	Body protocol.Body
}

// Spawner gets a character into the world. The first roster entry always
// wins; a character is only created when the roster loads empty.
type Spawner struct {
	Character Character
	Out       io.Writer
	Log       *log.Logger

	state      SpawnState
	awaitingID bool
}

func (sp *Spawner) State() SpawnState { return sp.state }

// EnsureSpawned ticks s until a character is present. It returns the events
// of the ticks it ran, also when it fails, so a DISCONNECT is not lost.
func (sp *Spawner) EnsureSpawned(s Session, clk *clock.Clock) ([]client.Event, error) {
	if s.Presence() != nil {
		sp.enter(Present)
		return nil, nil
	}
	sp.enter(NoRosterRequested)
	s.LoadCharacterList()
	sp.enter(RosterLoading)

	var seen []client.Event
	for s.Presence() == nil {
		events, err := s.Tick(protocol.Inputs{}, clk.DT())
		seen = append(seen, events...)
		if err != nil {
			return seen, err
		}
		if s.Presence() == nil {
			if err := sp.step(s, clk); err != nil {
				return seen, err
			}
		}
		s.Cleanup()
		clk.Tick()
	}
	sp.enter(Present)
	return seen, nil
}

func (sp *Spawner) step(s Session, clk *clock.Clock) error {
	roster := s.CharacterList()
	if roster.Loading {
		return nil
	}
	sp.enter(RosterReady)

	if len(roster.Characters) > 0 {
		first := roster.Characters[0]
		if first.ID == nil {
			if !sp.awaitingID {
				sp.awaitingID = true
				sp.logf("spawn: character %q has no id yet, waiting", first.Alias)
			}
			return nil
		}
		sp.awaitingID = false
		s.RequestCharacter(*first.ID)
		sp.printf("Requesting character %s\n", first.Alias)
		sp.enter(CharacterRequested)
		return nil
	}

	s.CreateCharacter(sp.Character.Name, sp.Character.Body)
	sp.printf("Created a new character.\n")
	sp.enter(RosterLoading)
	if _, err := Until(s, clk, func(s Session) bool { return !s.CharacterList().Loading }); err != nil {
		return fmt.Errorf("%w: %w", ErrCreateCharacter, err)
	}
	return nil
}

func (sp *Spawner) enter(st SpawnState) {
	if st == sp.state {
		return
	}
	sp.logf("spawn: %s -> %s", sp.state, st)
	sp.state = st
}

func (sp *Spawner) logf(format string, args ...any) {
	if sp.Log != nil {
		sp.Log.Printf(format, args...)
	}
}

func (sp *Spawner) printf(format string, args ...any) {
	if sp.Out != nil {
		fmt.Fprintf(sp.Out, format, args...)
	}
}
