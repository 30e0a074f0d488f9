package header

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidContentLength = errors.New("invalid Content-Length")

func (h *Header) IsChunked() bool {
	return strings.EqualFold(strings.TrimSpace(h.Value(TransferEncoding)), Chunked)
}

func (h *Header) HasContentLength() bool {
	return h.Contains(ContentLength)
}

// ContentLength returns the first Content-Length value, or -1 when there is none.
func (h *Header) ContentLength() (int64, error) {
	raw, ok := h.FirstValue(ContentLength)
	if !ok {
		return -1, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || raw[0] == '+' || raw[0] == '-' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidContentLength, raw)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidContentLength, raw)
	}
	return n, nil
}

func (h *Header) SetContentLength(n int64) {
	h.Set(ContentLength, strconv.FormatInt(n, 10))
}

func (h *Header) IsConnectionClose() bool {
	return isClose(h, Connection)
}

func (h *Header) IsProxyConnectionClose() bool {
	return isClose(h, ProxyConnection)
}

func isClose(h *Header, name string) bool {
	v, ok := h.FirstValue(name)
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(v), Close)
}

func (h *Header) Is100ContinueExpected() bool {
	return strings.EqualFold(h.Value(Expect), "100-continue")
}

func (h *Header) ContentType() string {
	return h.Value(ContentType)
}
