package message

import (
	"bufio"
	"io"

	"apigateway/internal/http/body"
	"apigateway/internal/http/header"

	"go.uber.org/zap"
)

type framing struct {
	noBody        bool
	http10        bool
	chunked       bool
	contentLength int64
	keepAlive     bool
	proxyClose    bool
	options       bool
}

// decide picks the body kind and declared length. The first matching rule wins.
func (f framing) decide(streaming bool) (body.Kind, int64) {
	switch {
	case f.noBody:
		return body.KindEmpty, 0
	case f.http10:
		if f.contentLength < 0 {
			return body.KindBounded, 0
		}
		return body.KindBounded, f.contentLength
	case f.chunked:
		if streaming {
			return body.KindChunkedInOut, -1
		}
		return body.KindChunked, -1
	case !f.keepAlive || f.contentLength >= 0 || f.proxyClose:
		return body.KindBounded, f.contentLength
	case f.options:
		return body.KindEmpty, 0
	default:
		return body.KindBounded, -1
	}
}

func (m *Message) framing() (framing, error) {
	cl, err := m.header.ContentLength()
	if err != nil {
		return framing{}, err
	}
	return framing{
		http10:        m.IsHTTP10(),
		chunked:       m.header.IsChunked(),
		contentLength: cl,
		keepAlive:     m.IsKeepAlive(),
		proxyClose:    m.header.IsProxyConnectionClose(),
	}, nil
}

// resolveAmbiguity fails or normalises a message that carries both chunked
// coding and Content-Length. Chunked coding wins and Content-Length is dropped
// so it is not forwarded.
func (m *Message) resolveAmbiguity(opts Options) error {
	if !m.header.IsChunked() || !m.header.HasContentLength() {
		return nil
	}
	if opts.RejectAmbiguousFraming {
		return ErrAmbiguousFraming
	}
	zap.L().Debug("dropping Content-Length from chunked message",
		zap.String("content_length", m.header.Value(header.ContentLength)))
	m.header.Remove(header.ContentLength)
	return nil
}

func (m *Message) createBody(br *bufio.Reader, f framing, opts Options) {
	kind, length := f.decide(opts.Streaming)

	switch kind {
	case body.KindEmpty:
		m.body = body.Empty()
	case body.KindChunked:
		m.body = body.NewChunked(br)
	case body.KindChunkedInOut:
		m.body = body.NewChunkedInOut(br)
	case body.KindBounded, body.KindChunkedOut:
		var src io.Reader = br
		if length < 0 {
			zap.L().Debug("message has no length information, reading until close")
			if opts.MaxUnboundedBody > 0 {
				src = &cappedReader{r: br, remaining: opts.MaxUnboundedBody}
			}
		}
		m.body = body.NewBounded(src, length)
	}
}

// cappedReader fails with ErrBodyTooLarge once more than remaining bytes are
// available from r.
type cappedReader struct {
	r         io.Reader
	remaining int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if c.remaining <= 0 {
		var probe [1]byte
		n, err := c.r.Read(probe[:])
		if n > 0 {
			return 0, ErrBodyTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	return n, err
}
