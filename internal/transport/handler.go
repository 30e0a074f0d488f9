package transport

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"time"

	"apigateway/internal/http/body"
	"apigateway/internal/http/header"
	"apigateway/internal/http/message"
	"apigateway/internal/http/stream"
	"apigateway/internal/middleware"
	"apigateway/internal/random"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type handlerConfig struct {
	target string
	dial   DialFunc
	idle   time.Duration
	opts   message.Options
	ids    random.Generator
}

type httpHandler struct {
	handlerConfig
	logger *zap.Logger
}

func newHTTPHandler(cfg handlerConfig, logger *zap.Logger) *httpHandler {
	return &httpHandler{
		handlerConfig: cfg,
		logger:        logger,
	}
}

// handler serves one client connection: requests are forwarded to the
// backend one at a time for as long as both sides keep the connection alive.
func (hh *httpHandler) handler(conn net.Conn) {
	client := stream.New(conn, idleReader{conn: conn, timeout: hh.idle}, conn.RemoteAddr())
	requestID := hh.setupMiddlewares(client)

	upstream := &backend{target: hh.target, dial: hh.dial, idle: hh.idle}
	defer hh.closeConnection(client, upstream)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for hh.exchange(ctx, client, upstream, requestID) {
	}
}

func (hh *httpHandler) setupMiddlewares(client stream.HTTP) *middleware.RequestID {
	hopByHop := middleware.NewHopByHop()
	requestID := middleware.NewRequestID(hh.ids)

	client.UseRequestMiddleware(requestID)
	client.UseRequestMiddleware(hopByHop)
	client.UseRequestMiddleware(middleware.NewForwardedFor(client.RemoteAddr()))
	client.UseResponseMiddleware(requestID)
	client.UseResponseMiddleware(hopByHop)
	client.UseResponseMiddleware(middleware.NewFingerprint())
	return requestID
}

// exchange forwards one request and its response. It reports whether the
// client connection may carry another request.
func (hh *httpHandler) exchange(ctx context.Context, client stream.HTTP, upstream *backend, requestID *middleware.RequestID) bool {
	log := hh.logger.With(zap.Stringer("client", client.RemoteAddr()))

	req, err := client.ReadRequest(hh.opts)
	if err != nil {
		if isConnectionEnd(err) {
			log.Debug("client connection finished", zap.Error(err))
			return false
		}
		log.Warn("unreadable request", zap.Error(err))
		hh.writeError(client, message.BadRequest(), log)
		return false
	}
	start := time.Now()
	log = log.With(
		zap.String("request_id", requestID.Current()),
		zap.String("method", req.Method()),
		zap.String("uri", req.URI()))

	if req.Header().Is100ContinueExpected() {
		req.Header().Remove(header.Expect)
		if err = client.WriteResponse(message.NewResponse(message.StatusContinue, "Continue")); err != nil {
			log.Debug("error writing 100 Continue", zap.Error(err))
			return false
		}
	}

	be, err := upstream.connect(ctx)
	if err != nil {
		log.Error("backend unavailable", zap.Error(err))
		hh.writeError(client, message.BadGateway(), log)
		return false
	}

	if err = be.WriteRequest(req); err != nil {
		if errors.Is(err, message.ErrBodyTooLarge) {
			log.Warn("request body too large", zap.Int64("limit", hh.opts.MaxUnboundedBody))
			hh.writeError(client, message.PayloadTooLarge(), log)
			return false
		}
		log.Error("error forwarding request", zap.Error(err))
		hh.writeError(client, message.BadGateway(), log)
		return false
	}

	resp, err := hh.readResponse(client, be, req, log)
	if err != nil {
		log.Error("error reading backend response", zap.Error(err))
		hh.writeError(client, message.BadGateway(), log)
		return false
	}

	if err = client.WriteResponse(resp); err != nil {
		log.Warn("error writing response", zap.Int("status", resp.StatusCode()), zap.Error(err))
		return false
	}

	log.Info("exchange",
		zap.Int("status", resp.StatusCode()),
		zap.Int("request_bytes", bodyLen(req.Body())),
		zap.Int("response_bytes", bodyLen(resp.Body())),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode() == message.StatusSwitchingProtocols {
		if err = tunnel(client, be, log); err != nil {
			log.Debug("tunnel closed with error", zap.Error(err))
		}
		return false
	}

	if !resp.IsKeepAlive() || readsUntilClose(resp.Body()) {
		return false
	}
	return req.IsKeepAlive()
}

// readResponse relays interim 100 responses and returns the final one.
func (hh *httpHandler) readResponse(client, be stream.HTTP, req *message.Request, log *zap.Logger) (*message.Response, error) {
	opts := hh.opts
	opts.RequestMethod = req.Method()

	for {
		resp, err := be.ReadResponse(opts)
		if err != nil {
			return nil, err
		}
		if !resp.IsContinue() {
			return resp, nil
		}
		log.Debug("relaying 100 Continue")
		if err = client.WriteResponse(resp); err != nil {
			return nil, err
		}
	}
}

func (hh *httpHandler) writeError(client stream.HTTP, resp *message.Response, log *zap.Logger) {
	if err := client.WriteResponse(resp); err != nil {
		log.Debug("error writing error response", zap.Int("status", resp.StatusCode()), zap.Error(err))
	}
}

func (hh *httpHandler) closeConnection(client stream.HTTP, upstream *backend) {
	err := multierr.Combine(client.Close(), upstream.close())
	for _, e := range multierr.Errors(err) {
		if !errors.Is(e, net.ErrClosed) {
			hh.logger.Warn("error closing connection", zap.Error(e))
		}
	}
}

func isConnectionEnd(err error) bool {
	return errors.Is(err, message.ErrNoMoreRequests) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, io.ErrClosedPipe)
}

func bodyLen(b *body.Body) int {
	if !b.IsRead() {
		return -1
	}
	n, err := b.Len()
	if err != nil {
		return -1
	}
	return n
}

// readsUntilClose reports a body whose end the peer can only detect by the
// connection closing.
func readsUntilClose(b *body.Body) bool {
	return b.Kind() == body.KindBounded && b.DeclaredLength() < 0
}
