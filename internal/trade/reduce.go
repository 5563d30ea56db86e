package trade

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
)

// ReducedInventory is an item id -> total count view of a party's holdings.
type ReducedInventory map[string]int

func Reduce(items []protocol.ItemStack) ReducedInventory {
	out := ReducedInventory{}
	for _, s := range items {
		if s.Item == "" || s.Count <= 0 {
			continue
		}
		out[s.Item] += s.Count
	}
	return out
}

func (r ReducedInventory) Total() int {
	n := 0
	for _, c := range r {
		n += c
	}
	return n
}

// Items returns the item ids in sorted order.
func (r ReducedInventory) Items() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Summary holds one reduced inventory per trade party, in party order.
// A nil entry means the party's holdings could not be resolved.
type Summary struct {
	TradeID uint64
	Phase   string
	Parties [2]uint64
	Parts   [2]ReducedInventory
}

func (s Summary) Known(i int) bool {
	return i >= 0 && i < len(s.Parts) && s.Parts[i] != nil
}

// Balance renders a one-line view of both sides, e.g.
// "trade 3 REVIEW: [7] 1,200 items (2 kinds) | [9] unknown".
func (s Summary) Balance() string {
	sides := make([]string, 0, len(s.Parts))
	for i, p := range s.Parts {
		if p == nil {
			sides = append(sides, fmt.Sprintf("[%d] unknown", s.Parties[i]))
			continue
		}
		sides = append(sides, fmt.Sprintf("[%d] %s items (%d kinds)", s.Parties[i], humanize.Comma(int64(p.Total())), len(p)))
	}
	return fmt.Sprintf("trade %d %s: %s", s.TradeID, s.Phase, strings.Join(sides, " | "))
}
