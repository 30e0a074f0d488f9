package message

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"apigateway/internal/http/body"
	"apigateway/internal/http/header"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readResponse(t *testing.T, raw string, opts Options) (*Response, *bufio.Reader) {
	t.Helper()
	br := bufio.NewReader(strings.NewReader(raw))
	resp, err := ReadResponse(br, opts)
	require.NoError(t, err)
	return resp, br
}

func TestReadResponse_StatusLine(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		code    int
		message string
		line    string
	}{
		{"with reason", "HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n", 200, "OK", "HTTP/1.1 200 OK\r\n"},
		{"multi word reason", "HTTP/1.1 404 Not Found\r\nContent-Length: 0\r\n\r\n", 404, "Not Found", "HTTP/1.1 404 Not Found\r\n"},
		{"without reason", "HTTP/1.1 204\r\n\r\n", 204, "", "HTTP/1.1 204\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := readResponse(t, tt.raw, Options{})
			assert.Equal(t, tt.code, resp.StatusCode())
			assert.Equal(t, tt.message, resp.StatusMessage())
			assert.Equal(t, tt.line, resp.StartLine())
		})
	}
}

func TestReadResponse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"clean eof", "", ErrNoResponse},
		{"malformed status", "HTTP/1.1 OK\r\n\r\n", ErrMalformedStartLine},
		{"request line", "GET / HTTP/1.1\r\n\r\n", ErrMalformedStartLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadResponse(bufio.NewReader(strings.NewReader(tt.raw)), Options{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadResponse_BodyKind(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		opts       Options
		wantKind   body.Kind
		wantLength int64
	}{
		{"switching protocols", "HTTP/1.1 101 Switching Protocols\r\nUpgrade: websocket\r\n\r\n", Options{}, body.KindEmpty, 0},
		{"no content", "HTTP/1.1 204 No Content\r\nContent-Length: 10\r\n\r\n", Options{}, body.KindEmpty, 0},
		{"reset content", "HTTP/1.1 205 Reset Content\r\n\r\n", Options{}, body.KindEmpty, 0},
		{"not modified", "HTTP/1.1 304 Not Modified\r\nContent-Length: 10\r\n\r\n", Options{}, body.KindEmpty, 0},
		{"response to head", "HTTP/1.1 200 OK\r\nContent-Length: 10\r\n\r\n", Options{RequestMethod: MethodHead}, body.KindEmpty, 0},
		{"redirect without length", "HTTP/1.1 302 Found\r\nLocation: /x\r\n\r\n", Options{}, body.KindEmpty, 0},
		{"redirect with content type", "HTTP/1.1 302 Found\r\nContent-Type: text/html\r\n\r\n", Options{}, body.KindBounded, -1},
		{"redirect with length", "HTTP/1.1 301 Moved\r\nContent-Length: 3\r\n\r\nabc", Options{}, body.KindBounded, 3},
		{"ok with length", "HTTP/1.1 200 OK\r\nContent-Length: 3\r\n\r\nabc", Options{}, body.KindBounded, 3},
		{"ok chunked streaming", "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n0\r\n\r\n", Options{Streaming: true}, body.KindChunkedInOut, -1},
		{"ok chunked", "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n0\r\n\r\n", Options{}, body.KindChunked, -1},
		{"ok http 1.0 without length", "HTTP/1.0 200 OK\r\n\r\nignored", Options{}, body.KindBounded, 0},
		{"ok until close", "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\nstream", Options{}, body.KindBounded, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := readResponse(t, tt.raw, tt.opts)
			assert.Equal(t, tt.wantKind, resp.Body().Kind())
			assert.Equal(t, tt.wantLength, resp.Body().DeclaredLength())
		})
	}
}

func TestReadResponse_Continue(t *testing.T) {
	raw := "HTTP/1.1 100 Continue\r\n\r\nHTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok"
	resp, br := readResponse(t, raw, Options{})

	assert.True(t, resp.IsContinue())
	assert.Equal(t, body.KindEmpty, resp.Body().Kind())

	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	require.NoError(t, resp.WriteTo(w))
	assert.Equal(t, "HTTP/1.1 100 Continue\r\n\r\n", out.String())

	final, err := ReadResponse(br, Options{})
	require.NoError(t, err)
	assert.Equal(t, 200, final.StatusCode())
	content, err := final.Body().Content()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(content))
}

func TestResponse_IsKeepAlive(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"http 1.1 default", "HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n", true},
		{"connection close", "HTTP/1.1 200 OK\r\nConnection: close\r\nContent-Length: 0\r\n\r\n", false},
		{"connection keep-alive", "HTTP/1.1 200 OK\r\nConnection: keep-alive\r\nContent-Length: 0\r\n\r\n", true},
		{"proxy connection close", "HTTP/1.1 200 OK\r\nConnection: keep-alive\r\nProxy-Connection: close\r\nContent-Length: 0\r\n\r\n", false},
		{"http 1.0", "HTTP/1.0 200 OK\r\nContent-Length: 0\r\n\r\n", false},
		{"redirect may have no body", "HTTP/1.1 302 Found\r\nLocation: /\r\n\r\n", false},
		{"redirect with length", "HTTP/1.1 302 Found\r\nLocation: /\r\nContent-Length: 0\r\n\r\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := readResponse(t, tt.raw, Options{})
			assert.Equal(t, tt.want, resp.IsKeepAlive())
		})
	}
}

func TestResponse_StreamThenReplay(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\nContent-Length: 11\r\n\r\nhello world"
	resp, _ := readResponse(t, raw, Options{})

	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	require.NoError(t, resp.WriteTo(w))
	assert.Equal(t, raw, out.String())
	assert.True(t, resp.Body().IsRead())

	out.Reset()
	require.NoError(t, resp.WriteTo(w))
	assert.Equal(t, raw, out.String())
}

func TestResponse_SetBodyStream(t *testing.T) {
	resp := NewResponse(200, "OK")
	resp.Header().SetContentLength(99)
	resp.SetBodyStream(strings.NewReader("Wiki"))

	assert.False(t, resp.Header().HasContentLength())
	assert.True(t, resp.Header().IsChunked())

	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	require.NoError(t, resp.WriteTo(w))
	assert.Equal(t, "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n4\r\nWiki\r\n0\r\n\r\n", out.String())
}

func TestResponse_SetBodyContent(t *testing.T) {
	resp, _ := readResponse(t, "HTTP/1.1 200 OK\r\nContent-Encoding: gzip\r\nTransfer-Encoding: chunked\r\n\r\n0\r\n\r\n", Options{})
	resp.SetBodyContent([]byte("plain"))

	assert.False(t, resp.Header().Contains(header.ContentEncoding))
	assert.False(t, resp.Header().IsChunked())
	assert.Equal(t, "5", resp.Header().Value(header.ContentLength))
	assert.Equal(t, body.KindBounded, resp.Body().Kind())
	assert.False(t, resp.IsBodyEmpty())
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name string
		resp *Response
		want string
	}{
		{"bad gateway", BadGateway(), "HTTP/1.1 502 Bad Gateway\r\n"},
		{"bad request", BadRequest(), "HTTP/1.1 400 Bad Request\r\n"},
		{"payload too large", PayloadTooLarge(), "HTTP/1.1 413 Payload Too Large\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			w := bufio.NewWriter(&out)
			require.NoError(t, tt.resp.WriteTo(w))

			assert.True(t, strings.HasPrefix(out.String(), tt.want))
			assert.False(t, tt.resp.IsKeepAlive())
			content, err := tt.resp.Body().Content()
			require.NoError(t, err)
			assert.Contains(t, string(content), tt.resp.StatusMessage())
		})
	}
}

func TestMessage_IsBodyEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		read bool
		want bool
	}{
		{"empty kind", "HTTP/1.1 204 No Content\r\n\r\n", false, true},
		{"zero length", "HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n", false, true},
		{"non-zero length", "HTTP/1.1 200 OK\r\nContent-Length: 2\r\n\r\nok", false, false},
		{"unread chunked", "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n0\r\n\r\n", false, false},
		{"read empty chunked", "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n0\r\n\r\n", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := readResponse(t, tt.raw, Options{})
			if tt.read {
				require.NoError(t, resp.ReadBody())
			}
			assert.Equal(t, tt.want, resp.IsBodyEmpty())
		})
	}
}
