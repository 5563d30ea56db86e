package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
)

// Authenticator validates a REGISTER. It returns an error code from
// protocol (empty on success).
type Authenticator func(username, token string) string

type Config struct {
	Info       protocol.ServerInfo
	TickRateHz int
	Auth       Authenticator
}

// Server serves a World to one bot connection at a time over websocket.
type Server struct {
	world *World
	cfg   Config
	log   *log.Logger

	upgrader websocket.Upgrader

	mu   sync.Mutex
	kick chan protocol.KickMsg
}

func NewServer(w *World, cfg Config, logger *log.Logger) *Server {
	if cfg.TickRateHz <= 0 {
		cfg.TickRateHz = 30
	}
	if cfg.Info.Name == "" {
		cfg.Info.Name = "devworld"
	}
	s := &Server{
		world: w,
		cfg:   cfg,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
	return s
}

// Kick ends the current connection with a KICK frame.
func (s *Server) Kick(code, reason string) {
	s.mu.Lock()
	ch := s.kick
	s.mu.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- protocol.KickMsg{Type: protocol.TypeKick, ProtocolVersion: protocol.Version, Code: code, Reason: reason}:
	default:
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if !s.handshake(conn) {
			return
		}

		kick := make(chan protocol.KickMsg, 1)
		s.mu.Lock()
		s.kick = kick
		s.mu.Unlock()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine: one OBS per world tick.
		go func() {
			t := time.NewTicker(time.Second / time.Duration(s.cfg.TickRateHz))
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case k := <-kick:
					_ = writeJSON(conn, k)
					_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, k.Reason), time.Now().Add(time.Second))
					cancel()
					_ = conn.Close()
					return
				case <-t.C:
					if err := writeJSON(conn, s.world.Observe()); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeAct {
				continue
			}
			var act protocol.ActMsg
			if err := json.Unmarshal(msg, &act); err != nil {
				continue
			}
			if !protocol.IsSupportedVersion(act.ProtocolVersion) {
				continue
			}
			s.world.Apply(act)
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) bool {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return false
	}
	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return false
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return false
	}
	if !protocol.IsSupportedVersion(hello.ProtocolVersion) {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return false
	}

	if err := writeJSON(conn, protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		ServerInfo:      s.cfg.Info,
		TickRateHz:      s.cfg.TickRateHz,
		Players:         s.world.roster(),
	}); err != nil {
		return false
	}

	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	_, msg, err = conn.ReadMessage()
	if err != nil {
		return false
	}
	var reg protocol.RegisterMsg
	if err := json.Unmarshal(msg, &reg); err != nil || reg.Type != protocol.TypeRegister {
		_ = writeJSON(conn, registered(false, 0, protocol.ErrProtoBadRequest, "expected REGISTER"))
		return false
	}
	code := ""
	if strings.TrimSpace(reg.Username) == "" {
		code = protocol.ErrAuthInvalid
	} else if s.cfg.Auth != nil {
		code = s.cfg.Auth(reg.Username, reg.Token)
	}
	if code != "" {
		_ = writeJSON(conn, registered(false, 0, code, "registration rejected"))
		return false
	}
	s.world.AddPlayer(s.world.BotUid(), reg.Username)
	if s.log != nil {
		s.log.Printf("registered %s uid=%d client=%s", reg.Username, s.world.BotUid(), hello.ClientID)
	}
	return writeJSON(conn, registered(true, s.world.BotUid(), "", "")) == nil
}

func registered(ok bool, uid uint64, code, msg string) protocol.RegisteredMsg {
	return protocol.RegisteredMsg{
		Type:            protocol.TypeRegistered,
		ProtocolVersion: protocol.Version,
		Accepted:        ok,
		Uid:             uid,
		Code:            code,
		Message:         msg,
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
