package middleware

import (
	"apigateway/internal/http/header"
	"apigateway/internal/http/message"
	"apigateway/internal/random"
)

// RequestID tags every request with an X-Request-Id, keeping one supplied by
// the client, and echoes it on the matching response. One instance serves
// one connection, whose exchanges never overlap.
type RequestID struct {
	ids     random.Generator
	current string
}

func NewRequestID(ids random.Generator) *RequestID {
	return &RequestID{ids: ids}
}

func (r *RequestID) HandleRequest(req *message.Request) error {
	id, ok := req.Header().FirstValue(header.XRequestID)
	if !ok || id == "" {
		var err error
		if id, err = r.ids.ID(); err != nil {
			return err
		}
		req.Header().Set(header.XRequestID, id)
	}
	r.current = id
	return nil
}

func (r *RequestID) HandleResponse(resp *message.Response) error {
	if r.current == "" {
		return nil
	}
	resp.Header().Set(header.XRequestID, r.current)
	r.current = ""
	return nil
}

// Current returns the ID of the exchange in flight, or "" between exchanges.
func (r *RequestID) Current() string {
	return r.current
}
