package hostable

import (
	"context"
	"encoding/json"
)

// Status is the last observed liveness of a server. It is stale until
// UpdateStatus is called.
type Status string

const (
	StatusUnknown Status = "Unknown"
	StatusOn      Status = "On"
	StatusOff     Status = "Off"
)

// Players is best-effort occupancy info. It is reset whenever the server
// cannot be confirmed On.
type Players struct {
	Count    uint     `json:"count"`
	NameTags []string `json:"name_tags"`
}

func noPlayers() Players {
	return Players{Count: 0, NameTags: []string{}}
}

// Server is a controllable background game server.
type Server interface {
	// Path is the immutable registry key. The server's scripts live in ./<Path>/.
	Path() string

	// Start asks the underlying process to begin running.
	Start(ctx context.Context) error
	// Stop asks the underlying process to shut down gracefully and should not
	// return before it has, so that Restart works.
	Stop(ctx context.Context) error
	Restart(ctx context.Context) error

	// UpdateStatus re-reads ground truth. "Nothing running" is a normal Off
	// outcome; only a failure to run the observation itself is an error.
	UpdateStatus(ctx context.Context) error

	// ToJSON returns a flat snapshot of the observable state.
	ToJSON() ([]byte, error)
}

// Lifecycle is the part of Server that Restart composes.
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Restart stops s and, only if that succeeded, starts it again. The first
// error is returned unchanged.
func Restart(ctx context.Context, s Lifecycle) error {
	if err := s.Stop(ctx); err != nil {
		return err
	}
	return s.Start(ctx)
}

// snapshot is the wire shape read by the per-server update.js scripts.
type snapshot struct {
	Path    string  `json:"path"`
	State   Status  `json:"state"`
	Players Players `json:"players"`
}

// scripted holds what every script-driven variant shares.
type scripted struct {
	path     string
	runner   Runner
	sessions SessionInspector
	status   Status
}

func (s *scripted) Path() string   { return s.path }
func (s *scripted) Status() Status { return s.status }

func (s *scripted) runScript(ctx context.Context, name string) error {
	_, err := s.runner.Run(ctx, "sh", "./"+s.path+"/"+name+".sh")
	return err
}

func (s *scripted) sessionActive(ctx context.Context) (bool, error) {
	list, err := s.sessions.Sessions(ctx)
	if err != nil {
		return false, err
	}
	return HasSession(list, s.path), nil
}

// start and stop leave the status Unknown; only UpdateStatus decides On or Off.
func (s *scripted) start(ctx context.Context) error {
	if err := s.runScript(ctx, "start"); err != nil {
		return err
	}
	s.status = StatusUnknown
	return nil
}

func (s *scripted) stop(ctx context.Context) error {
	if err := s.runScript(ctx, "stop"); err != nil {
		return err
	}
	s.status = StatusUnknown
	return nil
}

func (s *scripted) marshal(players Players) ([]byte, error) {
	return json.Marshal(snapshot{Path: s.path, State: s.status, Players: players})
}
