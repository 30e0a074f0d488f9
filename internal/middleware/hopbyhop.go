package middleware

import (
	"apigateway/internal/http/header"
	"apigateway/internal/http/message"
)

// HopByHop strips fields that only describe the connection they arrived on.
// Connection itself is kept so close semantics reach the other side.
type HopByHop struct{}

func NewHopByHop() *HopByHop {
	return &HopByHop{}
}

var hopFields = []string{header.ProxyConnection, header.KeepAlive}

func (hh *HopByHop) HandleRequest(req *message.Request) error {
	strip(req.Header())
	return nil
}

func (hh *HopByHop) HandleResponse(resp *message.Response) error {
	strip(resp.Header())
	return nil
}

func strip(h *header.Header) {
	for _, name := range hopFields {
		h.Remove(name)
	}
}
