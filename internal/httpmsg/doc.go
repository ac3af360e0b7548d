// Package httpmsg implements the deliberately tiny HTTP surface of game-host.
//
// Requests are never fully parsed: only the method and path tokens of the
// first line are read. Responses are a status variant plus one content value,
// rendered to bytes in a single pass. File content is read from disk at render
// time, so an unreadable file turns into a 404 response instead of a write
// error.
package httpmsg
