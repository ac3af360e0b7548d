// Package webserver runs the connection loop and the idle watchdog.
//
// Connections are handled strictly one at a time on the calling goroutine:
// read once, dispatch, write, close. The registry behind the dispatcher is
// mutated by handlers and relies on this for exclusive access. A slow
// external command therefore stalls every other client until it returns or
// hits the configured command timeout.
//
// The watchdog is the only other goroutine. The loop tells it about every
// accepted connection through a one-slot channel. Its idle callback may use
// the power controller and the activity logger, but it never touches the
// registry.
package webserver
