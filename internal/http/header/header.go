package header

import (
	"io"
	"strings"
)

const (
	TransferEncoding = "Transfer-Encoding"
	ContentEncoding  = "Content-Encoding"
	ContentLength    = "Content-Length"
	ContentType      = "Content-Type"
	Connection       = "Connection"
	ProxyConnection  = "Proxy-Connection"
	KeepAlive        = "Keep-Alive"
	Host             = "Host"
	Expect           = "Expect"
	Server           = "Server"
	XForwardedFor    = "X-Forwarded-For"
	XRequestID       = "X-Request-Id"

	Chunked = "chunked"
	Close   = "close"
)

type Field struct {
	Name  string
	Value string
}

func (f Field) HasName(name string) bool {
	return strings.EqualFold(f.Name, name)
}

func (f Field) String() string {
	return f.Name + ": " + f.Value + "\r\n"
}

// Header is an ordered list of fields. Names compare case-insensitively and
// may repeat. A Header is not safe for concurrent use.
type Header struct {
	fields []Field
}

func New() *Header {
	return &Header{fields: make([]Field, 0, 16)}
}

func (h *Header) Clone() *Header {
	fields := make([]Field, len(h.fields))
	copy(fields, h.fields)
	return &Header{fields: fields}
}

func (h *Header) Fields() []Field {
	return h.fields
}

func (h *Header) Len() int {
	return len(h.fields)
}

func (h *Header) Add(name, value string) {
	h.fields = append(h.fields, Field{Name: name, Value: value})
}

// Set replaces the value of the first field called name, keeping its
// position, and drops any later duplicates. Appends when absent.
func (h *Header) Set(name, value string) {
	found := false
	kept := h.fields[:0]
	for _, f := range h.fields {
		if !f.HasName(name) {
			kept = append(kept, f)
			continue
		}
		if found {
			continue
		}
		found = true
		f.Value = value
		kept = append(kept, f)
	}
	h.fields = kept
	if !found {
		h.Add(name, value)
	}
}

func (h *Header) Remove(name string) {
	kept := h.fields[:0]
	for _, f := range h.fields {
		if !f.HasName(name) {
			kept = append(kept, f)
		}
	}
	h.fields = kept
}

func (h *Header) FirstValue(name string) (string, bool) {
	for _, f := range h.fields {
		if f.HasName(name) {
			return f.Value, true
		}
	}
	return "", false
}

// Value is FirstValue without the presence flag.
func (h *Header) Value(name string) string {
	v, _ := h.FirstValue(name)
	return v
}

func (h *Header) Values(name string) []string {
	var values []string
	for _, f := range h.fields {
		if f.HasName(name) {
			values = append(values, f.Value)
		}
	}
	return values
}

func (h *Header) Contains(name string) bool {
	_, ok := h.FirstValue(name)
	return ok
}

func (h *Header) Count(name string) int {
	n := 0
	for _, f := range h.fields {
		if f.HasName(name) {
			n++
		}
	}
	return n
}

// WriteTo emits every field as "Name: Value\r\n" in order. The blank line
// ending the header section is left to the caller.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(h.AppendWire(nil))
	return int64(n), err
}

func (h *Header) AppendWire(dst []byte) []byte {
	for _, f := range h.fields {
		dst = append(dst, f.Name...)
		dst = append(dst, ':', ' ')
		dst = append(dst, f.Value...)
		dst = append(dst, '\r', '\n')
	}
	return dst
}

func (h *Header) String() string {
	return string(h.AppendWire(nil))
}
