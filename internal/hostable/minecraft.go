package hostable

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	playerCountMarker = " of a max of "
	playerListMarker  = "online:"
)

// MinecraftServer additionally reports player occupancy. status.sh is expected
// to make the server print its player list (the `list` console command), which
// screen appends to LogFile.
type MinecraftServer struct {
	scripted
	logFile string
	players Players
}

func NewMinecraftServer(path, logFile string, r Runner, sessions SessionInspector) *MinecraftServer {
	return &MinecraftServer{
		scripted: scripted{
			path:     path,
			runner:   r,
			sessions: sessions,
			status:   StatusUnknown,
		},
		logFile: logFile,
		players: noPlayers(),
	}
}

func (m *MinecraftServer) Start(ctx context.Context) error   { return m.start(ctx) }
func (m *MinecraftServer) Stop(ctx context.Context) error    { return m.stop(ctx) }
func (m *MinecraftServer) Restart(ctx context.Context) error { return Restart(ctx, m) }

func (m *MinecraftServer) UpdateStatus(ctx context.Context) error {
	active, err := m.sessionActive(ctx)
	if err != nil {
		return err
	}
	if !active {
		m.status = StatusOff
		m.players = noPlayers()
		return nil
	}
	return m.updatePlayers(ctx)
}

func (m *MinecraftServer) updatePlayers(ctx context.Context) error {
	if err := m.runScript(ctx, "status"); err != nil {
		return err
	}

	data, err := os.ReadFile(m.logFile)
	if err != nil {
		slog.Warn("read minecraft log failed", "server", m.path, "path", m.logFile, "err", err)
	}

	countText, names, found := parsePlayerLine(lastLine(string(data)))
	if !found {
		m.status = StatusUnknown
		return nil
	}
	m.status = StatusOn

	count, err := strconv.ParseUint(countText, 10, 0)
	if err != nil {
		slog.Warn("parse player count failed", "server", m.path, "text", countText, "err", err)
		return nil
	}
	m.players = Players{Count: uint(count), NameTags: names}
	return nil
}

func (m *MinecraftServer) ToJSON() ([]byte, error) {
	return m.marshal(m.players)
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\r\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimRight(s, "\r")
}

// parsePlayerLine extracts the player count from a line such as
// `[12:00:00] [Server thread/INFO]: There are 3 of a max of 20 players online: a, b, c`.
// countText is the word right before the marker; names is never nil.
func parsePlayerLine(line string) (countText string, names []string, found bool) {
	idx := strings.Index(line, playerCountMarker)
	if idx < 0 {
		return "", nil, false
	}
	if fields := strings.Fields(line[:idx]); len(fields) > 0 {
		countText = fields[len(fields)-1]
	}

	names = []string{}
	rest := line[idx+len(playerCountMarker):]
	if i := strings.Index(rest, playerListMarker); i >= 0 {
		for _, name := range strings.Split(rest[i+len(playerListMarker):], ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return countText, names, true
}
