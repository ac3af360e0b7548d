package power

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"game-host/internal/hostable"
)

type recordingRunner struct {
	calls []string
	err   error
}

func (r *recordingRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, line)
	if r.err != nil {
		return nil, &hostable.CommandFailure{Command: line, Err: r.err}
	}
	return nil, nil
}

type notifySink struct {
	mu     sync.Mutex
	bodies []string
}

func (s *notifySink) handler(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.bodies = append(s.bodies, string(b))
	s.mu.Unlock()
}

func (s *notifySink) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.bodies) == 0 {
		return ""
	}
	return s.bodies[len(s.bodies)-1]
}

func TestShutdown_SuccessNotifies(t *testing.T) {
	sink := &notifySink{}
	srv := httptest.NewServer(http.HandlerFunc(sink.handler))
	defer srv.Close()

	r := &recordingRunner{}
	c := NewController(r, []string{"shutdown", "-h", "+1"}, srv.URL)
	c.goos = "linux"

	res := c.Shutdown(context.Background())
	if !res.OK {
		t.Fatalf("res=%+v", res)
	}
	if len(r.calls) != 1 || r.calls[0] != "shutdown -h +1" {
		t.Fatalf("calls=%v", r.calls)
	}
	if !strings.Contains(sink.last(), "Shutting the game host down") {
		t.Fatalf("notification=%q", sink.last())
	}
}

func TestShutdown_FailureReportsAndNotifies(t *testing.T) {
	sink := &notifySink{}
	srv := httptest.NewServer(http.HandlerFunc(sink.handler))
	defer srv.Close()

	c := NewController(&recordingRunner{err: errors.New("must be root")}, []string{"shutdown"}, srv.URL)
	c.goos = "linux"

	res := c.Shutdown(context.Background())
	if res.OK || !strings.Contains(res.Message, "must be root") {
		t.Fatalf("res=%+v", res)
	}
	if !strings.Contains(sink.last(), "must be root") {
		t.Fatalf("notification=%q", sink.last())
	}
}

func TestShutdown_UnsupportedPlatform(t *testing.T) {
	r := &recordingRunner{}
	c := NewController(r, []string{"shutdown"}, "")
	c.goos = "windows"
	if res := c.Shutdown(context.Background()); res.OK {
		t.Fatalf("res=%+v", res)
	}
	if len(r.calls) != 0 {
		t.Fatalf("calls=%v", r.calls)
	}
}

func TestShutdown_NotificationFailureIsIgnored(t *testing.T) {
	c := NewController(&recordingRunner{}, []string{"shutdown"}, "http://127.0.0.1:1/unreachable")
	c.goos = "linux"
	if res := c.Shutdown(context.Background()); !res.OK {
		t.Fatalf("res=%+v", res)
	}
}
