package hostable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CommandFailure is returned when an external command cannot be spawned or
// exits abnormally.
type CommandFailure struct {
	Command string
	Err     error

	// Stderr is whatever the command wrote to stderr, trimmed. May be empty.
	Stderr string
}

func (f *CommandFailure) Error() string {
	msg := fmt.Sprintf("an error with the requested command occurred: %s: %v", f.Command, f.Err)
	if f.Stderr != "" {
		msg += ": " + f.Stderr
	}
	return msg
}

func (f *CommandFailure) Unwrap() error { return f.Err }

const waitDelay = time.Second

// Runner executes a single command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands as child processes. Failures are *CommandFailure.
type ExecRunner struct {
	// Dir is the working directory; empty means the current one.
	Dir string

	// Timeout bounds each command. Zero means no bound.
	Timeout time.Duration
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	// Scripts that fork (screen -dmS ...) can keep our pipes open after exiting.
	cmd.WaitDelay = waitDelay
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if errors.Is(err, exec.ErrWaitDelay) {
		// Exited successfully; a detached grandchild still holds the pipes.
		err = nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w (%v)", ctxErr, err)
		}
		return out, &CommandFailure{
			Command: strings.Join(append([]string{name}, args...), " "),
			Err:     err,
			Stderr:  strings.TrimSpace(stderr.String()),
		}
	}
	return out, nil
}

// SessionInspector reports the currently active multiplexer sessions as raw text.
type SessionInspector interface {
	Sessions(ctx context.Context) (string, error)
}

// ScreenInspector lists sessions with `screen -list` (or a configured
// equivalent).
type ScreenInspector struct {
	Runner  Runner
	Command []string
}

func NewScreenInspector(r Runner, command []string) *ScreenInspector {
	if len(command) == 0 {
		command = []string{"screen", "-list"}
	}
	return &ScreenInspector{Runner: r, Command: command}
}

// Sessions returns the listing even when the command exits non-zero: screen
// reports "No Sockets found" with exit status 1, and some versions exit 1
// while sessions exist.
func (s *ScreenInspector) Sessions(ctx context.Context) (string, error) {
	out, err := s.Runner.Run(ctx, s.Command[0], s.Command[1:]...)
	if err == nil {
		return string(out), nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return string(out), nil
	}
	return "", err
}

// HasSession reports whether list contains a session named `<pid>.<path>_server`.
func HasSession(list, path string) bool {
	suffix := "." + path + "_server"
	for _, line := range strings.Split(list, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && strings.HasSuffix(fields[0], suffix) {
			return true
		}
	}
	return false
}
