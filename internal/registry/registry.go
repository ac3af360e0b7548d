// Package registry maps URL path tokens to the hostable servers they control.
//
// A Registry is built once at startup and never changes afterwards. It does
// no locking: the accept loop is its only user.
package registry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"game-host/internal/hostable"
)

const (
	KindBash      = "bash"
	KindMinecraft = "minecraft"
)

// reserved tokens collide with fixed routes.
var reserved = map[string]bool{
	"file":              true,
	"favicon.ico":       true,
	"available-servers": true,
	"Ping":              true,
	"Shutdown":          true,
}

// Spec describes one registry entry as it appears in the config file.
type Spec struct {
	Path string `mapstructure:"path"`
	Kind string `mapstructure:"kind"`

	// LogFile is the screen log scanned by minecraft servers. Defaults to <path>/screenlog.0.
	LogFile string `mapstructure:"log_file"`
}

type Registry struct {
	servers map[string]hostable.Server
}

// Build constructs a server for every spec.
func Build(specs []Spec, r hostable.Runner, sessions hostable.SessionInspector) (*Registry, error) {
	servers := make([]hostable.Server, 0, len(specs))
	for _, spec := range specs {
		path := strings.TrimSpace(spec.Path)
		switch strings.ToLower(strings.TrimSpace(spec.Kind)) {
		case "", KindBash:
			servers = append(servers, hostable.NewBashServer(path, r, sessions))
		case KindMinecraft:
			logFile := spec.LogFile
			if strings.TrimSpace(logFile) == "" {
				logFile = filepath.Join(path, "screenlog.0")
			}
			servers = append(servers, hostable.NewMinecraftServer(path, logFile, r, sessions))
		default:
			return nil, fmt.Errorf("server %q: unknown kind %q", path, spec.Kind)
		}
	}
	return New(servers...)
}

// New registers already constructed servers under their Path.
func New(servers ...hostable.Server) (*Registry, error) {
	reg := &Registry{servers: make(map[string]hostable.Server, len(servers))}
	for _, s := range servers {
		path := s.Path()
		if err := validPath(path); err != nil {
			return nil, err
		}
		if _, dup := reg.servers[path]; dup {
			return nil, fmt.Errorf("duplicate server path %q", path)
		}
		reg.servers[path] = s
	}
	return reg, nil
}

func validPath(path string) error {
	if path == "" {
		return fmt.Errorf("server path must not be empty")
	}
	if strings.ContainsAny(path, "/ \t\r\n") {
		return fmt.Errorf("server path %q must be a single URL segment", path)
	}
	if path == "." || path == ".." {
		return fmt.Errorf("server path %q is not a directory name", path)
	}
	if reserved[path] {
		return fmt.Errorf("server path %q collides with a built-in route", path)
	}
	return nil
}

// Lookup matches path exactly; there is no prefix matching.
func (r *Registry) Lookup(path string) (hostable.Server, bool) {
	s, ok := r.servers[path]
	return s, ok
}

// Paths returns every registered token, sorted.
func (r *Registry) Paths() []string {
	paths := make([]string, 0, len(r.servers))
	for p := range r.servers {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
