package httpmsg

import "os"

type Variant int

const (
	OK Variant = iota
	ServiceUnavailable
	NotFound
	InternalServerError
)

func (v Variant) StatusLine() string {
	switch v {
	case OK:
		return "HTTP/1.1 200 OK\r\n"
	case ServiceUnavailable:
		return "HTTP/1.1 503 Service Unavailable\r\n"
	case NotFound:
		return "HTTP/1.1 404 NOT FOUND\r\n"
	default:
		return "HTTP/1.1 500 Internal Server Error\r\n"
	}
}

func (v Variant) Code() int {
	switch v {
	case OK:
		return 200
	case ServiceUnavailable:
		return 503
	case NotFound:
		return 404
	default:
		return 500
	}
}

type contentKind int

const (
	kindEmpty contentKind = iota
	kindFile
	kindText
	kindStruct
	kindRawBytes
)

const (
	textHeader = "Content-Type: text/plain\r\n\r\n"
	endHeader  = "\r\n"

	rawBytesHeader = "HTTP/1.1 200 OK\r\n\r\n"
)

// Content is the body of a Message. The zero value is Empty.
type Content struct {
	kind contentKind
	text string
	raw  []byte
}

// File is read from path when the message is rendered.
func File(path string) Content { return Content{kind: kindFile, text: path} }

// Text is plain text, sent with a text/plain header.
func Text(s string) Content { return Content{kind: kindText, text: s} }

// Struct is an already serialized payload (JSON), written verbatim.
func Struct(s string) Content { return Content{kind: kindStruct, text: s} }

// RawBytes is a binary payload. It is always sent as 200 OK with no headers.
func RawBytes(b []byte) Content { return Content{kind: kindRawBytes, raw: b} }

func Empty() Content { return Content{} }

// Message is one response. It is built per request and never kept.
type Message struct {
	Variant Variant
	Content Content
}

func New(v Variant, c Content) Message {
	return Message{Variant: v, Content: c}
}

// Ok is the bodiless success response.
func Ok() Message {
	return Message{Variant: OK, Content: Empty()}
}

// FromError is a 500 carrying err's text.
func FromError(err error) Message {
	return New(InternalServerError, Text(err.Error()))
}

// Render produces the wire bytes and the variant that was actually sent,
// which differs from m.Variant when a File could not be read.
func (m Message) Render() ([]byte, Variant) {
	if m.Content.kind == kindRawBytes {
		out := make([]byte, 0, len(rawBytesHeader)+len(m.Content.raw))
		out = append(out, rawBytesHeader...)
		return append(out, m.Content.raw...), OK
	}

	var body string
	switch m.Content.kind {
	case kindFile:
		b, err := os.ReadFile(m.Content.text)
		if err != nil {
			return []byte(NotFound.StatusLine() + textHeader + err.Error()), NotFound
		}
		body = string(b)
	case kindText, kindStruct:
		body = m.Content.text
	}

	header := endHeader
	if m.Content.kind == kindText {
		header = textHeader
	}
	return []byte(m.Variant.StatusLine() + header + body), m.Variant
}
