package transport

import (
	"context"
	"net"
)

type Transport interface {
	Listen() (net.Listener, error)
	Serve(listener net.Listener) error
}

// DialFunc opens a connection to the backend.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)
