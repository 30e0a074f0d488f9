package body

import (
	"bufio"
	"errors"
	"io"

	"apigateway/internal/http/chunk"
)

type Kind int

const (
	KindEmpty Kind = iota
	// KindBounded reads and writes plain bytes, up to a declared length or EOF.
	KindBounded
	// KindChunked reads chunk-coded bytes and materialises before writing them chunk-coded.
	KindChunked
	// KindChunkedInOut reads chunk-coded bytes and streams them out chunk-coded.
	KindChunkedInOut
	// KindChunkedOut reads plain bytes and streams them out chunk-coded.
	KindChunkedOut
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBounded:
		return "bounded"
	case KindChunked:
		return "chunked"
	case KindChunkedInOut:
		return "chunked-in-out"
	case KindChunkedOut:
		return "chunked-out"
	default:
		return "unknown"
	}
}

// ChunkedWire reports whether the kind writes chunked transfer-coding.
func (k Kind) ChunkedWire() bool {
	return k == KindChunked || k == KindChunkedInOut || k == KindChunkedOut
}

// Sink receives body bytes. *bufio.Writer satisfies it.
type Sink interface {
	io.Writer
	Flush() error
}

// Observer is told about every recorded chunk and about completion.
type Observer interface {
	BodyChunk(c chunk.Chunk)
	BodyComplete(b *Body)
}

var ErrBodyFailed = errors.New("body failed earlier and cannot be reused")

// Body is a message payload that is read from its source at most once. After
// the first successful materialisation every query is answered from the
// recorded chunk list. A Body is not safe for concurrent use.
type Body struct {
	kind   Kind
	src    io.Reader
	br     *bufio.Reader
	length int64

	chunks    []chunk.Chunk
	read      bool
	err       error
	observers []Observer
}

func Empty() *Body {
	return &Body{kind: KindEmpty, length: 0, read: true}
}

// FromBytes wraps an in-memory payload. The body is already read.
func FromBytes(p []byte) *Body {
	b := &Body{kind: KindBounded, length: int64(len(p)), read: true}
	if len(p) > 0 {
		b.chunks = []chunk.Chunk{chunk.New(p)}
	}
	return b
}

// NewBounded reads length plain bytes from src, or up to EOF when length is -1.
func NewBounded(src io.Reader, length int64) *Body {
	return &Body{kind: KindBounded, src: src, length: length}
}

func NewChunked(src io.Reader) *Body {
	return &Body{kind: KindChunked, br: asBufio(src), length: -1}
}

func NewChunkedInOut(src io.Reader) *Body {
	return &Body{kind: KindChunkedInOut, br: asBufio(src), length: -1}
}

// NewChunkedOut reads plain bytes like NewBounded and writes them chunk-coded.
func NewChunkedOut(src io.Reader, length int64) *Body {
	return &Body{kind: KindChunkedOut, src: src, length: length}
}

func asBufio(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}

func (b *Body) Kind() Kind {
	return b.kind
}

func (b *Body) IsRead() bool {
	return b.read
}

// DeclaredLength is the length known before reading, -1 when unknown.
func (b *Body) DeclaredLength() int64 {
	return b.length
}

func (b *Body) Chunks() []chunk.Chunk {
	return b.chunks
}

func (b *Body) AddObserver(o Observer) {
	if b.read {
		o.BodyComplete(b)
		return
	}
	b.observers = append(b.observers, o)
}

// Read materialises the body. Calling it again is a no-op.
func (b *Body) Read() error {
	if b.read {
		return nil
	}
	if b.err != nil {
		return b.err
	}

	var err error
	switch b.kind {
	case KindBounded, KindChunkedOut:
		err = b.copyPlain(nil)
	case KindChunked, KindChunkedInOut:
		err = b.copyChunked(nil)
	case KindEmpty:
	}
	if err != nil {
		return b.fail(err)
	}
	b.markRead()
	return nil
}

func (b *Body) Len() (int, error) {
	if err := b.Read(); err != nil {
		return 0, err
	}
	return b.recordedLen(), nil
}

func (b *Body) recordedLen() int {
	n := 0
	for _, c := range b.chunks {
		n += c.Len()
	}
	return n
}

// Content returns the payload without any transfer-coding.
func (b *Body) Content() ([]byte, error) {
	if err := b.Read(); err != nil {
		return nil, err
	}
	content := make([]byte, b.recordedLen())
	off := 0
	for _, c := range b.chunks {
		off = c.CopyInto(content, off)
	}
	return content, nil
}

// Raw returns the bytes as this body puts them on the wire: the plain payload
// for bounded and empty bodies, the chunk-framed payload including the
// terminal chunk for the chunked kinds.
func (b *Body) Raw() ([]byte, error) {
	if err := b.Read(); err != nil {
		return nil, err
	}

	switch b.kind {
	case KindEmpty, KindBounded:
		return b.Content()
	case KindChunked, KindChunkedInOut, KindChunkedOut:
		size := chunk.LastLen()
		for _, c := range b.chunks {
			size += c.WireLen()
		}
		raw := make([]byte, 0, size)
		for _, c := range b.chunks {
			raw = c.AppendWire(raw)
		}
		return chunk.AppendLast(raw), nil
	default:
		return nil, errors.New("unknown body kind")
	}
}

func (b *Body) record(c chunk.Chunk) {
	b.chunks = append(b.chunks, c)
	for _, o := range b.observers {
		o.BodyChunk(c)
	}
}

func (b *Body) markRead() {
	b.read = true
	observers := b.observers
	b.observers = nil
	for _, o := range observers {
		o.BodyComplete(b)
	}
}

func (b *Body) fail(err error) error {
	b.err = errors.Join(ErrBodyFailed, err)
	return err
}
