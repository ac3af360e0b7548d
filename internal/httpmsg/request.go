package httpmsg

import "strings"

// MaxRequestSize is how much of a request is ever read.
const MaxRequestSize = 1024

// ParseRequestLine returns the first two whitespace separated tokens of buf,
// the method and the path. Headers and body are ignored. Invalid UTF-8 is
// replaced rather than rejected; missing tokens come back empty.
func ParseRequestLine(buf []byte) (method, link string) {
	s := strings.ToValidUTF8(string(buf), "�")
	// Unused buffer tail from a short read.
	s = strings.TrimRight(s, "\x00")

	fields := strings.Fields(s)
	if len(fields) > 0 {
		method = fields[0]
	}
	if len(fields) > 1 {
		link = fields[1]
	}
	return method, link
}
