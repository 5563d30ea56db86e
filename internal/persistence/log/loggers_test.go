package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()
	var out []string
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestTradeLoggerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewTradeLogger(dir)
	at := time.Date(2024, 3, 1, 14, 5, 0, 0, time.UTC)
	l.s.now = func() time.Time { return at }

	for i := uint64(1); i <= 2; i++ {
		if err := l.WriteTrade(TradeEntry{Tick: i, TradeID: 5, Phase: "REVIEW", Parties: [2]uint64{7, 9}, Initiator: "Friend", Accepted: true}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	lines := readLines(t, filepath.Join(dir, "trades", "trades-2024-03-01-14.jsonl.zst"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var e TradeEntry
	if err := json.Unmarshal([]byte(lines[1]), &e); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Tick != 2 || e.Initiator != "Friend" || !e.Accepted {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestChatLoggerRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	l := NewChatLogger(dir)
	at := time.Date(2024, 3, 1, 14, 59, 0, 0, time.UTC)
	l.s.now = func() time.Time { return at }
	if err := l.WriteChat(ChatEntry{Tick: 1, ChatType: "WORLD", Line: "a"}); err != nil {
		t.Fatal(err)
	}
	at = at.Add(2 * time.Minute)
	if err := l.WriteChat(ChatEntry{Tick: 2, ChatType: "WORLD", Line: "b"}); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"chat-2024-03-01-14.jsonl.zst", "chat-2024-03-01-15.jsonl.zst"} {
		if got := readLines(t, filepath.Join(dir, "chat", name)); len(got) != 1 {
			t.Fatalf("%s: expected 1 line, got %d", name, len(got))
		}
	}
}

func TestCloseWithoutWritesIsNoop(t *testing.T) {
	dir := t.TempDir()
	l := NewTradeLogger(dir)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "trades")); !os.IsNotExist(err) {
		t.Fatalf("expected no directory before the first entry, got %v", err)
	}
}
