// Package activitylog appends one NDJSON record per handled request or
// watchdog firing. It is write-only telemetry; nothing reads it back.
package activitylog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

const (
	TypeRequest      = "request"
	TypeIdleShutdown = "idle-shutdown"
	TypeStartup      = "startup"
)

type Record struct {
	ID        string `json:"id"`
	RunID     string `json:"run_id"`
	Timestamp string `json:"ts"`
	Type      string `json:"type"`
	Peer      string `json:"peer,omitempty"`
	Method    string `json:"method,omitempty"`
	Link      string `json:"link,omitempty"`
	Status    int    `json:"status,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Logger is safe for concurrent use; the watchdog and the accept loop share one.
type Logger struct {
	runID string

	mu sync.Mutex
	f  *os.File
	w  *bufio.Writer
}

func New(path, runID string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Logger{
		runID: runID,
		f:     f,
		w:     bufio.NewWriterSize(f, 64*1024),
	}, nil
}

func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w != nil {
		_ = l.w.Flush()
	}
	if l.f != nil {
		return l.f.Close()
	}
	return nil
}

// Log fills in ID, RunID and Timestamp when empty. A nil Logger drops the record.
func (l *Logger) Log(rec Record) {
	if l == nil {
		return
	}
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if rec.RunID == "" {
		rec.RunID = l.runID
	}
	if rec.Timestamp == "" {
		rec.Timestamp = NowTS()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.w == nil {
		return
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return
	}
	_, _ = l.w.Write(append(line, '\n'))
	_ = l.w.Flush()
}

func NowTS() string { return time.Now().UTC().Format(time.RFC3339Nano) }

// NewID returns a lexically sortable request id.
func NewID() string { return ulid.Make().String() }

func MakeRunID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Sprintf("run-%d", time.Now().UTC().UnixNano())
	}
	return "run-" + id.String()
}
