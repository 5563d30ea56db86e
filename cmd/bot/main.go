package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/auth"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/bot"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/client"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/clock"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/config"
	persistlog "github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/persistence/log"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
)

func main() {
	var (
		configPath = flag.String("config", filepath.Join("configs", "bot.yaml"), "settings yaml")
		logDir     = flag.String("log_dir", "", "directory for zstd trade/chat logs (disabled if empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)
	out := os.Stdout

	fmt.Fprintln(out, "Starting veloren-inventory-bot...")

	env, err := config.LoadEnv()
	if err != nil {
		logger.Fatalf("env: %v", err)
	}
	settings, err := config.LoadSettings(*configPath)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	fmt.Fprintf(out, "Connecting to %s...\n", settings.ServerAddr)
	ctx, cancel := context.WithTimeout(context.Background(), settings.DialTimeout)
	c, err := client.Dial(ctx, client.Options{
		URL:              settings.URL(),
		HandshakeTimeout: settings.DialTimeout,
		Logger:           logger,
	})
	if err != nil {
		cancel()
		logger.Fatalf("connect: %v", err)
	}
	fmt.Fprintf(out, "Connected to %s\n", settings.ServerAddr)

	printServerStatus(out, c.ServerInfo(), c.PlayerList())

	fmt.Fprintln(out, "Logging in...")
	trusted := auth.Provider{URL: settings.AuthProvider}
	err = c.Register(ctx, env.BotUsername, env.BotPassword, trusted.Trusts)
	cancel()
	if err != nil {
		_ = c.Close()
		logger.Fatalf("register: %v", err)
	}
	fmt.Fprintf(out, "Logged in as %s\n", env.BotUsername)

	b := &bot.Bot{
		Session: c,
		Clock:   clock.FromRate(settings.TickRateHz),
		Spawner: &bot.Spawner{
			Character: bot.Character{Name: settings.Character.Name, Body: settings.Character.Body},
			Out:       out,
			Log:       logger,
		},
		Target: env.TargetUsername,
		Out:    out,
		Log:    logger,
	}
	if *logDir != "" {
		trades := persistlog.NewTradeLogger(*logDir)
		chat := persistlog.NewChatLogger(*logDir)
		defer func() {
			_ = trades.Close()
			_ = chat.Close()
		}()
		b.Trades = trades
		b.Chat = chat
	}

	// Closing the connection makes the next tick fail, which ends Run.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	go func() {
		<-stop
		logger.Printf("interrupt, closing connection")
		_ = c.Close()
	}()

	_ = b.Run()
	_ = c.Close()
}

// printServerStatus reports the server and the size of its player list as
// sent at connect time. The list includes offline entries.
func printServerStatus(out io.Writer, info protocol.ServerInfo, players map[client.Uid]protocol.PlayerInfo) {
	fmt.Fprintf(out, "Server info: %s (%s) %s\n", info.Name, info.GitHash, info.Description)
	fmt.Fprintf(out, "%d players online\n", len(players))
}
