package client

import "github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"

func (c *Client) ServerInfo() protocol.ServerInfo { return c.info }
func (c *Client) TickRateHz() int                 { return c.tickRate }
func (c *Client) Uid() Uid                        { return c.uid }
func (c *Client) CurrentTick() uint64             { return c.tick }

// Presence is nil while no character is in the world.
func (c *Client) Presence() *Presence {
	if c.presence == nil {
		return nil
	}
	p := *c.presence
	return &p
}

// PlayerList is the server's player roster. Callers must not modify it.
func (c *Client) PlayerList() map[Uid]protocol.PlayerInfo { return c.players }

func (c *Client) CharacterList() CharacterList { return c.characters }

func (c *Client) Invite() *Invite {
	if c.invite == nil {
		return nil
	}
	inv := *c.invite
	return &inv
}

func (c *Client) PendingTrade() *PendingTrade {
	if c.trade == nil {
		return nil
	}
	t := *c.trade
	return &t
}

func (c *Client) IsTrading() bool { return c.trade != nil }

// Inventory returns the items of uid if the server has sent them.
func (c *Client) Inventory(uid Uid) ([]protocol.ItemStack, bool) {
	items, ok := c.inventories[uid]
	return items, ok
}

func (c *Client) LoadCharacterList() {
	c.characters.Loading = true
	c.loadingUntil = c.seq + 1
	c.enqueue(protocol.ActionReq{Type: protocol.ActionLoadCharacters})
}

func (c *Client) RequestCharacter(id uint64) {
	c.enqueue(protocol.ActionReq{Type: protocol.ActionRequestCharacter, CharacterID: id})
}

func (c *Client) CreateCharacter(name string, body protocol.Body) {
	c.characters.Loading = true
	c.loadingUntil = c.seq + 1
	c.enqueue(protocol.ActionReq{Type: protocol.ActionCreateCharacter, Name: name, Body: &body})
}

func (c *Client) AcceptInvite() {
	if c.invite == nil {
		return
	}
	c.invite = nil
	c.inviteClearedAt = c.seq + 1
	c.enqueue(protocol.ActionReq{Type: protocol.ActionAcceptInvite})
}

func (c *Client) DeclineInvite() {
	if c.invite == nil {
		return
	}
	c.invite = nil
	c.inviteClearedAt = c.seq + 1
	c.enqueue(protocol.ActionReq{Type: protocol.ActionDeclineInvite})
}

func (c *Client) SendInvite(target Uid, kind string) {
	c.enqueue(protocol.ActionReq{Type: protocol.ActionSendInvite, Target: target, InviteKind: kind})
}

// PerformTradeAction is a no-op when no trade is pending.
func (c *Client) PerformTradeAction(a TradeAction) {
	if c.trade == nil {
		return
	}
	c.enqueue(protocol.ActionReq{
		Type:        protocol.ActionTrade,
		TradeID:     c.trade.ID,
		TradeAction: a.Kind,
		Phase:       a.Phase,
	})
}

func (c *Client) enqueue(r protocol.ActionReq) {
	c.queue = append(c.queue, r)
}
