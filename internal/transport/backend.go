package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"apigateway/internal/http/stream"
)

// backend is the lazily dialled upstream connection of one client connection.
type backend struct {
	target string
	dial   DialFunc
	idle   time.Duration

	conn   net.Conn
	stream stream.HTTP
}

func (b *backend) connect(ctx context.Context) (stream.HTTP, error) {
	if b.stream != nil {
		return b.stream, nil
	}
	conn, err := b.dial(ctx, "tcp", b.target)
	if err != nil {
		return nil, fmt.Errorf("dial backend %s: %w", b.target, err)
	}
	b.conn = conn
	b.stream = stream.New(conn, idleReader{conn: conn, timeout: b.idle}, conn.RemoteAddr())
	return b.stream, nil
}

func (b *backend) close() error {
	if b.stream == nil {
		return nil
	}
	s := b.stream
	b.stream = nil
	b.conn = nil
	return s.Close()
}

// idleReader pushes the read deadline forward before every read, so a
// connection only times out after a full idle period without data.
type idleReader struct {
	conn    net.Conn
	timeout time.Duration
}

func (r idleReader) Read(p []byte) (int, error) {
	if r.timeout > 0 {
		if err := r.conn.SetReadDeadline(time.Now().Add(r.timeout)); err != nil {
			return 0, err
		}
	}
	return r.conn.Read(p)
}
