package transport

import (
	"errors"
	"io"
	"net"
	"sync"

	"apigateway/internal/http/body"
	"apigateway/internal/http/stream"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tunnelPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, body.BufferSize())
		return &buf
	},
}

func copyWithBuffer(dst io.Writer, src io.Reader) (int64, error) {
	bp := tunnelPool.Get().(*[]byte)
	defer tunnelPool.Put(bp)
	return io.CopyBuffer(dst, src, *bp)
}

// tunnel relays raw bytes in both directions after a protocol switch. Each
// direction half-closes its destination when its source ends.
func tunnel(client, upstream stream.HTTP, logger *zap.Logger) error {
	var g errgroup.Group

	relay := func(dst, src stream.HTTP, direction string) func() error {
		return func() error {
			n, err := copyWithBuffer(dst, src)
			logger.Debug("tunnel direction finished", zap.String("direction", direction), zap.Int64("bytes", n))
			if cerr := dst.CloseWrite(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
				logger.Debug("error half-closing tunnel", zap.String("direction", direction), zap.Error(cerr))
			}
			if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				return err
			}
			return nil
		}
	}

	g.Go(relay(upstream, client, "client->backend"))
	g.Go(relay(client, upstream, "backend->client"))
	return g.Wait()
}
