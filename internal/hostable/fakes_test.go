package hostable

import (
	"context"
	"errors"
	"strings"
)

type fakeRunner struct {
	calls []string
	fail  map[string]error
	out   map[string]string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, line)
	if err := r.fail[line]; err != nil {
		return nil, &CommandFailure{Command: line, Err: err}
	}
	return []byte(r.out[line]), nil
}

type fakeSessions struct {
	list string
	err  error
}

func (s *fakeSessions) Sessions(context.Context) (string, error) {
	return s.list, s.err
}

var errPermission = errors.New("permission denied")
