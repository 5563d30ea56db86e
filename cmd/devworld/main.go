// Command devworld serves a scripted world over the bot protocol so the bot
// can be run end to end without a real game server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/transport/ws"
)

type scenario struct {
	Name         string `yaml:"name"`
	AuthProvider string `yaml:"auth_provider"`
	TickRateHz   int    `yaml:"tick_rate_hz"`
	BotUid       uint64 `yaml:"bot_uid"`

	Players []struct {
		Uid   uint64               `yaml:"uid"`
		Alias string               `yaml:"alias"`
		Items []protocol.ItemStack `yaml:"items"`
	} `yaml:"players"`

	// Every Interval the partner tells the bot, invites it and opens a trade.
	Partner  uint64        `yaml:"partner"`
	Interval time.Duration `yaml:"interval"`
}

func loadScenario(path string) (scenario, error) {
	sc := scenario{Name: "devworld", TickRateHz: 30, BotUid: 1, Interval: 15 * time.Second}
	b, err := os.ReadFile(path)
	if err != nil {
		return sc, err
	}
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return sc, fmt.Errorf("parse %s: %w", path, err)
	}
	return sc, nil
}

func main() {
	var (
		addr = flag.String("addr", "127.0.0.1:14004", "http listen address")
		path = flag.String("scenario", "./configs/devworld.yaml", "scenario yaml")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[devworld] ", log.LstdFlags|log.Lmicroseconds)

	sc, err := loadScenario(*path)
	if err != nil {
		logger.Fatalf("scenario: %v", err)
	}

	w := ws.NewWorld(sc.BotUid)
	for _, p := range sc.Players {
		w.AddPlayer(p.Uid, p.Alias)
		if len(p.Items) > 0 {
			w.SetInventory(p.Uid, p.Items)
		}
	}
	srv := ws.NewServer(w, ws.Config{
		Info:       protocol.ServerInfo{Name: sc.Name, Description: "scripted world", AuthProvider: sc.AuthProvider},
		TickRateHz: sc.TickRateHz,
	}, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", srv.Handler())
	httpSrv := &http.Server{Addr: *addr, Handler: mux}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if sc.Partner != 0 && sc.Interval > 0 {
		go script(ctx, w, sc.Partner, sc.Interval, logger)
	}
	go func() {
		<-ctx.Done()
		srv.Kick(protocol.ErrShutdown, "server shutting down")
		ctx2, cancel2 := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel2()
		_ = httpSrv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

// script plays the partner: tell, invite, then a trade the partner accepts
// each phase of.
func script(ctx context.Context, w *ws.World, partner uint64, every time.Duration, logger *log.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		w.Chat(protocol.ChatMsg{ChatType: protocol.ChatTell, From: partner, To: w.BotUid(), Message: "trade?"})
		w.Invite(partner, protocol.InviteTrade)
		if w.Trade() == nil {
			id := w.OpenTrade(partner)
			logger.Printf("opened trade %d", id)
		}
		w.CounterpartAccept()
	}
}
