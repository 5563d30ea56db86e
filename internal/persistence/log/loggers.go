// Package log keeps write-only audit trails of trades and chat as hourly
// zstd-compressed JSON lines. Nothing here is ever read back by the bot.
package log

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// stream is one audit trail: <dir>/<prefix>-YYYY-MM-DD-HH.jsonl.zst, UTC.
type stream struct {
	dir    string
	prefix string
	now    func() time.Time

	mu   sync.Mutex
	hour string
	file *os.File
	zw   *zstd.Encoder
	js   *json.Encoder
}

func newStream(dir, prefix string) *stream {
	return &stream{dir: dir, prefix: prefix, now: time.Now}
}

func (s *stream) append(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hour := s.now().UTC().Format("2006-01-02-15"); hour != s.hour {
		if err := s.open(hour); err != nil {
			return err
		}
	}
	if err := s.js.Encode(v); err != nil {
		return err
	}
	// Entries are rare; push each one to the file instead of holding a block.
	return s.zw.Flush()
}

func (s *stream) open(hour string) error {
	if err := s.closeFile(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(s.dir, s.prefix+"-"+hour+".jsonl.zst"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	s.hour, s.file, s.zw, s.js = hour, f, zw, json.NewEncoder(zw)
	return nil
}

func (s *stream) closeFile() error {
	if s.file == nil {
		return nil
	}
	err := s.zw.Close()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	s.hour, s.file, s.zw, s.js = "", nil, nil, nil
	return err
}

func (s *stream) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeFile()
}

// TradeEntry is one negotiation tick of a pending trade.
type TradeEntry struct {
	Tick      uint64            `json:"tick"`
	TradeID   uint64            `json:"trade_id"`
	Phase     string            `json:"phase"`
	Parties   [2]uint64         `json:"parties"`
	Initiator string            `json:"initiator"`
	Accepted  bool              `json:"accepted"`
	Holdings  [2]map[string]int `json:"holdings"`
}

// ChatEntry is one transcript line.
type ChatEntry struct {
	Tick     uint64 `json:"tick"`
	ChatType string `json:"chat_type"`
	Line     string `json:"line"`
}

// TradeLogger writes under <dir>/trades.
type TradeLogger struct{ s *stream }

func NewTradeLogger(dir string) *TradeLogger {
	return &TradeLogger{s: newStream(filepath.Join(dir, "trades"), "trades")}
}

func (l *TradeLogger) WriteTrade(e TradeEntry) error { return l.s.append(e) }
func (l *TradeLogger) Close() error                  { return l.s.close() }

// ChatLogger writes under <dir>/chat.
type ChatLogger struct{ s *stream }

func NewChatLogger(dir string) *ChatLogger {
	return &ChatLogger{s: newStream(filepath.Join(dir, "chat"), "chat")}
}

func (l *ChatLogger) WriteChat(e ChatEntry) error { return l.s.append(e) }
func (l *ChatLogger) Close() error                { return l.s.close() }
