package message

import (
	"bufio"
	"fmt"
	"slices"

	"apigateway/internal/http/body"
	"apigateway/internal/http/header"
)

const (
	MethodGet     = "GET"
	MethodHead    = "HEAD"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodDelete  = "DELETE"
	MethodOptions = "OPTIONS"
	MethodConnect = "CONNECT"
)

var (
	methodsWithoutBody      = []string{MethodGet, MethodHead, MethodConnect}
	methodsWithOptionalBody = []string{MethodDelete, "PROPFIND", "MKCOL", "COPY", "MOVE", "LOCK", "UNLOCK"}
)

type Request struct {
	Message
	method string
	uri    string
}

func NewRequest(method, uri string) *Request {
	return &Request{
		Message: newMessage(),
		method:  method,
		uri:     uri,
	}
}

// ReadRequest reads one request from br. A connection that ends cleanly
// before the request line yields ErrNoMoreRequests. The body is left unread.
func ReadRequest(br *bufio.Reader, opts Options) (*Request, error) {
	line, err := readStartLine(br)
	if err != nil {
		return nil, startLineError(err, ErrNoMoreRequests)
	}
	method, uri, version, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	h, err := header.Parse(br)
	if err != nil {
		return nil, err
	}

	req := &Request{
		Message: Message{version: version, header: h},
		method:  method,
		uri:     uri,
	}
	if err = req.resolveAmbiguity(opts); err != nil {
		return nil, err
	}

	f, err := req.framing()
	if err != nil {
		return nil, err
	}
	f.noBody = req.shouldNotContainBody()
	f.options = method == MethodOptions
	req.createBody(br, f, opts)
	return req, nil
}

func (r *Request) Method() string {
	return r.method
}

func (r *Request) URI() string {
	return r.uri
}

func (r *Request) SetURI(uri string) {
	r.uri = uri
}

func (r *Request) IsHead() bool {
	return r.method == MethodHead
}

func (r *Request) StartLine() string {
	return r.method + " " + r.uri + " HTTP/" + r.version + "\r\n"
}

func (r *Request) shouldNotContainBody() bool {
	if slices.Contains(methodsWithoutBody, r.method) {
		return true
	}
	if slices.Contains(methodsWithOptionalBody, r.method) {
		if r.header.HasContentLength() {
			n, err := r.header.ContentLength()
			return err != nil || n == 0
		}
		return !r.header.IsChunked()
	}
	return false
}

func (r *Request) WriteTo(s body.Sink) error {
	if err := r.writeTo(s, r.StartLine()); err != nil {
		return fmt.Errorf("writing request %s %s: %w", r.method, r.uri, err)
	}
	return nil
}
