// Package hostable models the game servers this host can control.
//
// Every variant implements Server: it is started and stopped through
// per-server shell scripts (`./<path>/start.sh`, `./<path>/stop.sh`) and its
// liveness is inferred from the terminal-multiplexer session list, where the
// scripts are expected to create a session named `<path>_server`.
//
// Server values are not safe for concurrent use. The accept loop owns them
// and calls into them one request at a time.
package hostable
