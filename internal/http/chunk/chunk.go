package chunk

import (
	"io"
	"strconv"
)

var (
	crlf      = []byte{'\r', '\n'}
	lastChunk = []byte{'0', '\r', '\n', '\r', '\n'}
)

// Chunk is one unit of body payload. Its wire form is hex(len) CRLF payload CRLF.
type Chunk struct {
	data []byte
}

func New(p []byte) Chunk {
	return Chunk{data: p}
}

func (c Chunk) Len() int {
	return len(c.data)
}

func (c Chunk) Bytes() []byte {
	return c.data
}

func (c Chunk) sizeLine() []byte {
	return strconv.AppendInt(make([]byte, 0, 18), int64(len(c.data)), 16)
}

// WireLen is the length of the framed chunk including both CRLFs.
func (c Chunk) WireLen() int {
	return len(c.sizeLine()) + len(c.data) + 2*len(crlf)
}

func (c Chunk) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 0, c.WireLen())
	buf = c.AppendWire(buf)
	n, err := w.Write(buf)
	return int64(n), err
}

func (c Chunk) AppendWire(dst []byte) []byte {
	dst = append(dst, c.sizeLine()...)
	dst = append(dst, crlf...)
	dst = append(dst, c.data...)
	return append(dst, crlf...)
}

// CopyInto copies the payload into dst at off and returns the offset after it.
func (c Chunk) CopyInto(dst []byte, off int) int {
	return off + copy(dst[off:], c.data)
}

func WriteLast(w io.Writer) error {
	_, err := w.Write(lastChunk)
	return err
}

func LastLen() int {
	return len(lastChunk)
}

func AppendLast(dst []byte) []byte {
	return append(dst, lastChunk...)
}
