// Package client is the world session library: a websocket connection to
// the world server plus the client-side view of the session it maintains.
//
// A Client is owned by one goroutine. A background reader only hands raw
// frames over a channel; all state is applied inside Tick.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/auth"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
)

// LoginFunc exchanges credentials for a token at the given provider.
type LoginFunc func(ctx context.Context, provider, username, password string) (string, error)

type Options struct {
	URL              string
	ClientName       string
	HandshakeTimeout time.Duration
	Login            LoginFunc
	Logger           *log.Logger
}

type frame struct {
	raw []byte
	err error
}

type Client struct {
	opts Options
	conn *websocket.Conn
	log  *log.Logger

	frames    chan frame
	closed    chan struct{}
	closeOnce sync.Once

	info     protocol.ServerInfo
	tickRate int
	uid      Uid

	tick   uint64
	seq    uint64
	ackSeq uint64

	// Local action effects hold until the server acks the ACT carrying them.
	loadingUntil    uint64
	inviteClearedAt uint64

	players     map[Uid]protocol.PlayerInfo
	presence    *Presence
	characters  CharacterList
	invite      *Invite
	trade       *PendingTrade
	inventories map[Uid][]protocol.ItemStack

	events   []Event
	queue    []protocol.ActionReq
	lastTick time.Time
	err      error
}

// Dial connects and blocks until the server's WELCOME arrives.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}
	if opts.ClientName == "" {
		opts.ClientName = "veloren-inventory-bot"
	}
	d := websocket.Dialer{HandshakeTimeout: opts.HandshakeTimeout}
	conn, resp, err := d.DialContext(ctx, opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", opts.URL, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c := &Client{
		opts:        opts,
		conn:        conn,
		log:         opts.Logger,
		frames:      make(chan frame, 256),
		closed:      make(chan struct{}),
		players:     map[Uid]protocol.PlayerInfo{},
		inventories: map[Uid][]protocol.ItemStack{},
	}

	hello := protocol.HelloMsg{
		Type:              protocol.TypeHello,
		ProtocolVersion:   protocol.Version,
		SupportedVersions: []string{protocol.Version},
		ClientID:          uuid.NewString(),
		ClientName:        opts.ClientName,
	}
	if err := c.write(hello); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send HELLO: %w", err)
	}
	go c.readLoop()

	raw, err := c.await(ctx, protocol.TypeWelcome)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	var w protocol.WelcomeMsg
	if err := json.Unmarshal(raw, &w); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("parse WELCOME: %w", err)
	}
	c.info = w.ServerInfo
	c.tickRate = w.TickRateHz
	for _, p := range w.Players {
		c.players[p.Uid] = p
	}
	return c, nil
}

// Register logs in as username. trust is asked whether the server's
// announced auth provider may receive the credentials.
func (c *Client) Register(ctx context.Context, username, password string, trust func(provider string) bool) error {
	provider := c.info.AuthProvider
	if trust != nil && !trust(provider) {
		return fmt.Errorf("%w: %q", ErrUntrustedProvider, provider)
	}
	token := ""
	if provider != "" {
		login := c.opts.Login
		if login == nil {
			login = func(ctx context.Context, provider, username, password string) (string, error) {
				return auth.Provider{URL: provider}.Login(ctx, username, password)
			}
		}
		var err error
		token, err = login(ctx, provider, username, password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	if err := c.write(protocol.RegisterMsg{
		Type:            protocol.TypeRegister,
		ProtocolVersion: protocol.Version,
		Username:        username,
		Token:           token,
	}); err != nil {
		return fmt.Errorf("send REGISTER: %w", err)
	}
	raw, err := c.await(ctx, protocol.TypeRegistered)
	if err != nil {
		return err
	}
	var r protocol.RegisteredMsg
	if err := json.Unmarshal(raw, &r); err != nil {
		return fmt.Errorf("parse REGISTERED: %w", err)
	}
	if !r.Accepted {
		return &RegisterError{Code: r.Code, Message: r.Message}
	}
	c.uid = r.Uid
	c.lastTick = time.Now()
	return nil
}

// Tick sends the queued actions with inputs, then applies everything the
// server sends until dt has passed since the previous tick. The tick that
// sees the session end still returns its events, including a DISCONNECT;
// every later Tick returns the error that ended it.
func (c *Client) Tick(inputs protocol.Inputs, dt time.Duration) ([]Event, error) {
	if c.err != nil {
		return nil, c.err
	}
	if err := c.flush(inputs); err != nil {
		// A KICK may already be waiting; it explains the failed write better.
		c.drain()
		return c.end(fmt.Errorf("%w: send ACT: %v", ErrDisconnected, err)), nil
	}

	wait := time.Until(c.lastTick.Add(dt))
	if wait < 0 {
		wait = 0
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	for {
		select {
		case f, ok := <-c.frames:
			if !ok {
				return c.end(ErrDisconnected), nil
			}
			if f.err != nil {
				return c.end(fmt.Errorf("%w: %v", ErrDisconnected, f.err)), nil
			}
			if err := c.handle(f.raw); err != nil {
				return c.end(err), nil
			}
		case <-timer.C:
			c.lastTick = time.Now()
			return c.events, nil
		}
	}
}

// Cleanup drops per-tick state. Call it once per tick after handling events.
func (c *Client) Cleanup() {
	c.events = nil
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		err = c.conn.Close()
	})
	return err
}

func (c *Client) fail(err error) error {
	if c.err == nil {
		c.err = err
	}
	return c.err
}

// end records err for the next Tick and closes this one with a DISCONNECT.
// The first recorded error wins.
func (c *Client) end(err error) []Event {
	c.fail(err)
	c.events = append(c.events, Event{Type: protocol.EventDisconnect})
	c.lastTick = time.Now()
	return c.events
}

// drain applies frames that have already arrived without waiting for more.
func (c *Client) drain() {
	for {
		select {
		case f, ok := <-c.frames:
			if !ok || f.err != nil {
				return
			}
			if err := c.handle(f.raw); err != nil {
				c.fail(err)
				return
			}
		default:
			return
		}
	}
}

func (c *Client) flush(inputs protocol.Inputs) error {
	c.seq++
	act := protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ID:              uuid.NewString(),
		Seq:             c.seq,
		Tick:            c.tick,
		Inputs:          inputs,
		Actions:         c.queue,
	}
	c.queue = nil
	return c.write(act)
}

func (c *Client) write(v any) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteJSON(v)
}

func (c *Client) readLoop() {
	defer close(c.frames)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case c.frames <- frame{err: err}:
			case <-c.closed:
			}
			return
		}
		select {
		case c.frames <- frame{raw: msg}:
		case <-c.closed:
			return
		}
	}
}

// await applies frames until one of type typ arrives and returns it raw.
func (c *Client) await(ctx context.Context, typ string) ([]byte, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case f, ok := <-c.frames:
			if !ok {
				return nil, ErrDisconnected
			}
			if f.err != nil {
				return nil, fmt.Errorf("%w: %v", ErrDisconnected, f.err)
			}
			base, err := protocol.DecodeBase(f.raw)
			if err != nil {
				continue
			}
			if base.Type == typ {
				return f.raw, nil
			}
			if err := c.handle(f.raw); err != nil {
				return nil, err
			}
		}
	}
}

func (c *Client) handle(raw []byte) error {
	base, err := protocol.DecodeBase(raw)
	if err != nil {
		c.logf("drop malformed frame: %v", err)
		return nil
	}
	if !protocol.IsSupportedVersion(base.ProtocolVersion) {
		c.logf("drop %s frame with protocol_version=%s", base.Type, base.ProtocolVersion)
		return nil
	}
	switch base.Type {
	case protocol.TypeObs:
		var o protocol.ObsMsg
		if err := json.Unmarshal(raw, &o); err != nil {
			c.logf("drop OBS: %v", err)
			return nil
		}
		c.apply(o)
	case protocol.TypeKick:
		var k protocol.KickMsg
		_ = json.Unmarshal(raw, &k)
		return &KickError{Code: k.Code, Reason: k.Reason}
	}
	return nil
}

func (c *Client) apply(o protocol.ObsMsg) {
	c.tick = o.Tick
	if o.AckSeq > c.ackSeq {
		c.ackSeq = o.AckSeq
	}

	if o.Players != nil {
		c.players = make(map[Uid]protocol.PlayerInfo, len(o.Players))
		for _, p := range o.Players {
			c.players[p.Uid] = p
		}
	}

	c.presence = nil
	if o.Presence != nil {
		c.presence = &Presence{Kind: o.Presence.Kind, CharacterID: o.Presence.CharacterID}
	}

	chars := make([]Character, 0, len(o.Characters.Characters))
	for _, ch := range o.Characters.Characters {
		chars = append(chars, Character{ID: ch.ID, Alias: ch.Alias, Body: ch.Body})
	}
	c.characters = CharacterList{
		Loading:    o.Characters.Loading || c.ackSeq < c.loadingUntil,
		Characters: chars,
		Error:      o.Characters.Error,
	}

	c.invite = nil
	if o.Invite != nil && c.ackSeq >= c.inviteClearedAt {
		c.invite = &Invite{Inviter: o.Invite.Inviter, Kind: o.Invite.Kind}
	}

	c.trade = nil
	if o.Trade != nil {
		c.trade = &PendingTrade{
			ID:       o.Trade.TradeID,
			Phase:    o.Trade.Phase,
			Parties:  o.Trade.Parties,
			Offers:   o.Trade.Offers,
			Accepted: o.Trade.Accepted,
		}
	}

	c.inventories = make(map[Uid][]protocol.ItemStack, len(o.Inventories))
	for _, inv := range o.Inventories {
		c.inventories[inv.Uid] = inv.Items
	}

	c.events = append(c.events, o.Events...)
}

func (c *Client) logf(format string, args ...any) {
	if c.log != nil {
		c.log.Printf(format, args...)
	}
}
