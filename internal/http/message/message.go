package message

import (
	"errors"
	"fmt"
	"io"

	"apigateway/internal/http/body"
	"apigateway/internal/http/header"
)

var (
	ErrNoMoreRequests     = errors.New("no more requests on connection")
	ErrNoResponse         = errors.New("connection closed before response")
	ErrMalformedStartLine = errors.New("malformed start line")
	ErrBodyTooLarge       = errors.New("body exceeds maximum size")
	ErrAmbiguousFraming   = errors.New("both Transfer-Encoding and Content-Length present")
)

type Options struct {
	// Streaming forwards chunked bodies chunk by chunk instead of reading them fully first.
	Streaming bool
	// MaxUnboundedBody caps bodies that are terminated by connection close. Zero means no cap.
	MaxUnboundedBody int64
	// RejectAmbiguousFraming fails messages that carry both chunked coding and Content-Length.
	RejectAmbiguousFraming bool
	// RequestMethod is the method of the request a response answers.
	RequestMethod string
}

// Message holds what requests and responses share: the protocol version, the
// header and the body.
type Message struct {
	version string
	header  *header.Header
	body    *body.Body
}

func newMessage() Message {
	return Message{
		version: "1.1",
		header:  header.New(),
		body:    body.Empty(),
	}
}

func (m *Message) Version() string {
	return m.version
}

func (m *Message) SetVersion(v string) {
	m.version = v
}

func (m *Message) IsHTTP10() bool {
	return m.version == "1.0"
}

func (m *Message) IsHTTP11() bool {
	return m.version == "1.1"
}

func (m *Message) Header() *header.Header {
	return m.header
}

func (m *Message) Body() *body.Body {
	return m.body
}

// SetBody replaces the body without touching the framing header fields.
func (m *Message) SetBody(b *body.Body) {
	m.body = b
}

// SetBodyContent replaces the body with p and rewrites the framing header
// fields to match.
func (m *Message) SetBodyContent(p []byte) {
	m.body = body.FromBytes(p)
	m.header.Remove(header.ContentEncoding)
	m.header.Remove(header.TransferEncoding)
	m.header.SetContentLength(int64(len(p)))
}

// SetBodyStream replaces the body with r, sent chunk-coded.
func (m *Message) SetBodyStream(r io.Reader) {
	m.body = body.NewChunkedOut(r, -1)
	m.header.Remove(header.ContentLength)
	m.header.Set(header.TransferEncoding, header.Chunked)
}

func (m *Message) ReadBody() error {
	return m.body.Read()
}

func (m *Message) DiscardBody() error {
	return m.body.Discard()
}

func (m *Message) IsBodyEmpty() bool {
	if m.body.Kind() == body.KindEmpty {
		return true
	}
	if m.header.HasContentLength() {
		n, err := m.header.ContentLength()
		return err == nil && n == 0
	}
	if m.body.IsRead() {
		n, err := m.body.Len()
		return err == nil && n == 0
	}
	return false
}

func (m *Message) IsKeepAlive() bool {
	if m.IsHTTP10() {
		return false
	}
	if !m.header.Contains(header.Connection) {
		return true
	}
	if m.header.IsConnectionClose() {
		return false
	}
	return !m.header.IsProxyConnectionClose()
}

func (m *Message) writeTo(s body.Sink, startLine string) error {
	if _, err := io.WriteString(s, startLine); err != nil {
		return fmt.Errorf("writing start line: %w", err)
	}
	if _, err := m.header.WriteTo(s); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := io.WriteString(s, "\r\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return m.body.WriteTo(s)
}
