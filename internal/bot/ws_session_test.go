package bot

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/client"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/clock"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/transport/ws"
)

func TestRunOverWebsocketReportsKick(t *testing.T) {
	const provider = "https://auth.test"
	w := ws.NewWorld(9)
	w.AddPlayer(7, "Friend")
	w.AddCharacter("Hero", defaultCharacter.Body)
	srv := ws.NewServer(w, ws.Config{TickRateHz: 100, Info: protocol.ServerInfo{AuthProvider: provider}}, nil)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", srv.Handler())
	hs := httptest.NewServer(mux)
	defer hs.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	login := func(ctx context.Context, provider, username, password string) (string, error) {
		return "token", nil
	}
	c, err := client.Dial(ctx, client.Options{URL: "ws" + strings.TrimPrefix(hs.URL, "http") + "/v1/ws", Login: login})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()
	if err := c.Register(ctx, "bankbot", "hunter2", func(p string) bool { return p == provider }); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Kick once the character is in the world; give up by closing the
	// connection so Run cannot block forever.
	go func() {
		deadline := time.Now().Add(5 * time.Second)
		for w.Presence() == nil && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		if w.Presence() == nil {
			_ = c.Close()
			return
		}
		srv.Kick(protocol.ErrKicked, "bye")
	}()

	var out, logs bytes.Buffer
	lg := log.New(&logs, "", 0)
	b := &Bot{
		Session: c,
		Clock:   clock.FromRate(100),
		Spawner: &Spawner{Character: defaultCharacter, Out: &out, Log: lg},
		Target:  "Friend",
		Out:     &out,
		Log:     lg,
	}
	err = b.Run()

	var ke *client.KickError
	if !errors.As(err, &ke) || ke.Code != protocol.ErrKicked {
		t.Fatalf("expected kick error, got %v (out=%q)", err, out.String())
	}
	if !strings.Contains(out.String(), "Requesting character Hero") {
		t.Fatalf("expected spawn output, got %q", out.String())
	}
	if !strings.HasSuffix(out.String(), "Disconnected.\n") {
		t.Fatalf("expected Disconnected. before Run returned, got %q", out.String())
	}
}
