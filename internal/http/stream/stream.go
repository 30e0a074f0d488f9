package stream

import (
	"bufio"
	"io"
	"net"

	"apigateway/internal/http/body"
	"apigateway/internal/http/message"
	"apigateway/internal/middleware"

	"go.uber.org/zap"
)

// HTTP is one side of a proxied connection. It reads and writes whole
// messages, and after a protocol upgrade it can be used as a plain
// ReadWriteCloser that still sees bytes buffered during message parsing.
type HTTP interface {
	io.ReadWriteCloser
	CloseWrite() error
	RemoteAddr() net.Addr
	UseResponseMiddleware(mw middleware.ResponseMiddleware)
	UseRequestMiddleware(mw middleware.RequestMiddleware)
	RequestMiddlewares() []middleware.RequestMiddleware
	ResponseMiddlewares() []middleware.ResponseMiddleware
	ApplyRequestMiddlewares(req *message.Request) error
	ApplyResponseMiddlewares(resp *message.Response) error
	ReadRequest(opts message.Options) (*message.Request, error)
	ReadResponse(opts message.Options) (*message.Response, error)
	WriteRequest(req *message.Request) error
	WriteResponse(resp *message.Response) error
}

type http struct {
	remoteAddr net.Addr
	writer     io.Writer
	reader     *bufio.Reader
	out        *bufio.Writer
	respMW     []middleware.ResponseMiddleware
	reqMW      []middleware.RequestMiddleware
}

func New(writer io.Writer, reader io.Reader, remoteAddr net.Addr) HTTP {
	return &http{
		remoteAddr: remoteAddr,
		writer:     writer,
		reader:     bufio.NewReaderSize(reader, body.BufferSize()),
		out:        bufio.NewWriterSize(writer, body.BufferSize()),
	}
}

func (hs *http) RemoteAddr() net.Addr {
	return hs.remoteAddr
}

func (hs *http) UseResponseMiddleware(mw middleware.ResponseMiddleware) {
	hs.respMW = append(hs.respMW, mw)
}

func (hs *http) UseRequestMiddleware(mw middleware.RequestMiddleware) {
	hs.reqMW = append(hs.reqMW, mw)
}

func (hs *http) RequestMiddlewares() []middleware.RequestMiddleware {
	return hs.reqMW
}

func (hs *http) ResponseMiddlewares() []middleware.ResponseMiddleware {
	return hs.respMW
}

// ReadRequest reads the next request head and runs the request middlewares
// on it. The body stays on the wire until it is written or read.
func (hs *http) ReadRequest(opts message.Options) (*message.Request, error) {
	req, err := message.ReadRequest(hs.reader, opts)
	if err != nil {
		return nil, err
	}
	if err = hs.ApplyRequestMiddlewares(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (hs *http) ReadResponse(opts message.Options) (*message.Response, error) {
	return message.ReadResponse(hs.reader, opts)
}

func (hs *http) WriteRequest(req *message.Request) error {
	return req.WriteTo(hs.out)
}

// WriteResponse runs the response middlewares and writes resp. Interim
// responses are written untouched.
func (hs *http) WriteResponse(resp *message.Response) error {
	if !resp.IsContinue() {
		if err := hs.ApplyResponseMiddlewares(resp); err != nil {
			return err
		}
	}
	return resp.WriteTo(hs.out)
}

func (hs *http) Read(p []byte) (int, error) {
	return hs.reader.Read(p)
}

func (hs *http) Write(p []byte) (int, error) {
	if hs.out.Buffered() > 0 {
		if err := hs.out.Flush(); err != nil {
			return 0, err
		}
	}
	return hs.writer.Write(p)
}

func (hs *http) Close() error {
	if closer, ok := hs.writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (hs *http) CloseWrite() error {
	if closer, ok := hs.writer.(interface{ CloseWrite() error }); ok {
		return closer.CloseWrite()
	}
	return hs.Close()
}

func (hs *http) ApplyRequestMiddlewares(req *message.Request) error {
	for _, m := range hs.RequestMiddlewares() {
		if err := m.HandleRequest(req); err != nil {
			zap.L().Warn("request middleware failed", zap.String("uri", req.URI()), zap.Error(err))
			return err
		}
	}
	return nil
}

func (hs *http) ApplyResponseMiddlewares(resp *message.Response) error {
	for _, m := range hs.ResponseMiddlewares() {
		if err := m.HandleResponse(resp); err != nil {
			zap.L().Warn("response middleware failed", zap.Int("status", resp.StatusCode()), zap.Error(err))
			return err
		}
	}
	return nil
}
