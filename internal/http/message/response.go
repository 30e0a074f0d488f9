package message

import (
	"bufio"
	"fmt"
	"strconv"

	"apigateway/internal/http/body"
	"apigateway/internal/http/header"
)

const (
	StatusContinue           = 100
	StatusSwitchingProtocols = 101
	StatusNoContent          = 204
	StatusResetContent       = 205
	StatusNotModified        = 304
	StatusBadRequest         = 400
	StatusPayloadTooLarge    = 413
	StatusBadGateway         = 502
)

type Response struct {
	Message
	statusCode    int
	statusMessage string
}

func NewResponse(code int, msg string) *Response {
	return &Response{
		Message:       newMessage(),
		statusCode:    code,
		statusMessage: msg,
	}
}

func BadGateway() *Response {
	return errorResponse(StatusBadGateway, "Bad Gateway")
}

func BadRequest() *Response {
	return errorResponse(StatusBadRequest, "Bad Request")
}

func PayloadTooLarge() *Response {
	return errorResponse(StatusPayloadTooLarge, "Payload Too Large")
}

func errorResponse(code int, msg string) *Response {
	resp := NewResponse(code, msg)
	resp.header.Set(header.ContentType, "text/plain; charset=utf-8")
	resp.header.Set(header.Connection, header.Close)
	resp.SetBodyContent([]byte(strconv.Itoa(code) + " " + msg + "\n"))
	return resp
}

// ReadResponse reads one response from br. opts.RequestMethod is needed to
// frame responses to HEAD requests. The body is left unread.
func ReadResponse(br *bufio.Reader, opts Options) (*Response, error) {
	line, err := readStartLine(br)
	if err != nil {
		return nil, startLineError(err, ErrNoResponse)
	}
	version, code, msg, err := parseStatusLine(line)
	if err != nil {
		return nil, err
	}

	h, err := header.Parse(br)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Message:       Message{version: version, header: h},
		statusCode:    code,
		statusMessage: msg,
	}
	if code == StatusContinue {
		resp.body = body.Empty()
		return resp, nil
	}
	if err = resp.resolveAmbiguity(opts); err != nil {
		return nil, err
	}

	f, err := resp.framing()
	if err != nil {
		return nil, err
	}
	f.noBody = resp.shouldNotContainBody(opts.RequestMethod)
	resp.createBody(br, f, opts)
	return resp, nil
}

func (r *Response) StatusCode() int {
	return r.statusCode
}

func (r *Response) StatusMessage() string {
	return r.statusMessage
}

func (r *Response) SetStatus(code int, msg string) {
	r.statusCode = code
	r.statusMessage = msg
}

func (r *Response) IsRedirect() bool {
	return r.statusCode >= 300 && r.statusCode < 400
}

func (r *Response) IsContinue() bool {
	return r.statusCode == StatusContinue
}

func (r *Response) StartLine() string {
	line := "HTTP/" + r.version + " " + strconv.Itoa(r.statusCode)
	if r.statusMessage != "" {
		line += " " + r.statusMessage
	}
	return line + "\r\n"
}

// mayHaveNoBody reports a redirect that some servers send without any body
// and without saying so.
func (r *Response) mayHaveNoBody() bool {
	return !r.header.IsChunked() && !r.header.HasContentLength() && r.header.ContentType() == ""
}

func (r *Response) shouldNotContainBody(requestMethod string) bool {
	switch {
	case r.statusCode >= 100 && r.statusCode < 200:
		return true
	case r.statusCode == StatusNoContent, r.statusCode == StatusResetContent, r.statusCode == StatusNotModified:
		return true
	case requestMethod == MethodHead:
		return true
	case r.IsRedirect() && r.mayHaveNoBody():
		return true
	}
	return false
}

func (r *Response) IsKeepAlive() bool {
	if r.IsRedirect() && r.mayHaveNoBody() {
		return false
	}
	return r.Message.IsKeepAlive()
}

func (r *Response) WriteTo(s body.Sink) error {
	if err := r.writeTo(s, r.StartLine()); err != nil {
		return fmt.Errorf("writing response %d: %w", r.statusCode, err)
	}
	return nil
}
