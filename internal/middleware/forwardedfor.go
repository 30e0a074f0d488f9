package middleware

import (
	"net"

	"apigateway/internal/http/header"
	"apigateway/internal/http/message"
)

type ForwardedFor struct {
	addr net.Addr
}

func NewForwardedFor(addr net.Addr) *ForwardedFor {
	return &ForwardedFor{addr: addr}
}

// HandleRequest appends the client host to any X-Forwarded-For chain already
// present on the request.
func (ff *ForwardedFor) HandleRequest(req *message.Request) error {
	host, _, err := net.SplitHostPort(ff.addr.String())
	if err != nil {
		return err
	}

	h := req.Header()
	if prior, ok := h.FirstValue(header.XForwardedFor); ok && prior != "" {
		host = prior + ", " + host
	}
	h.Set(header.XForwardedFor, host)
	return nil
}
