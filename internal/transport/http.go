package transport

import (
	"errors"
	"net"

	"apigateway/internal/config"
	"apigateway/internal/http/message"
	"apigateway/internal/random"

	"go.uber.org/zap"
)

type httpServer struct {
	handler *httpHandler
	port    string
	logger  *zap.Logger
}

func NewHTTPServer(cfg config.Config, logger *zap.Logger) Transport {
	dialer := &net.Dialer{Timeout: cfg.DialTimeout()}
	return &httpServer{
		handler: newHTTPHandler(handlerConfig{
			target: cfg.TargetAddress(),
			dial:   dialer.DialContext,
			idle:   cfg.IdleTimeout(),
			opts: message.Options{
				Streaming:              cfg.Streaming(),
				MaxUnboundedBody:       cfg.MaxUnboundedBody(),
				RejectAmbiguousFraming: cfg.StrictFraming(),
			},
			ids: random.New(),
		}, logger),
		port:   cfg.ListenPort(),
		logger: logger,
	}
}

func (ht *httpServer) Listen() (net.Listener, error) {
	return net.Listen("tcp", ":"+ht.port)
}

func (ht *httpServer) Serve(listener net.Listener) error {
	ht.logger.Info("HTTP gateway is starting",
		zap.String("addr", listener.Addr().String()),
		zap.String("target", ht.handler.target))
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			ht.logger.Warn("error accepting connection", zap.Error(err))
			continue
		}

		go ht.handler.handler(conn)
	}
}
