package body

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"apigateway/internal/http/chunk"
)

// WriteTo sends the body to s. A body that is already read is replayed from
// memory. Otherwise the source is streamed into s while every transferred
// unit is recorded, so the body is read afterwards without a second pass.
func (b *Body) WriteTo(s Sink) error {
	if b.read {
		return b.replay(s)
	}
	if b.err != nil {
		return b.err
	}

	var err error
	switch b.kind {
	case KindEmpty:
	case KindBounded:
		err = b.copyPlain(writePlain(s))
	case KindChunked:
		if err = b.Read(); err != nil {
			return err
		}
		return b.replay(s)
	case KindChunkedInOut:
		err = b.copyChunked(writeChunk(s))
		if err == nil {
			err = chunk.WriteLast(s)
		}
	case KindChunkedOut:
		err = b.copyPlain(writeChunk(s))
		if err == nil {
			err = chunk.WriteLast(s)
		}
	default:
		err = errors.New("unknown body kind")
	}
	if err != nil {
		return b.fail(err)
	}

	b.markRead()
	return s.Flush()
}

func (b *Body) replay(s Sink) error {
	switch b.kind {
	case KindEmpty:
	case KindBounded:
		for _, c := range b.chunks {
			if _, err := s.Write(c.Bytes()); err != nil {
				return fmt.Errorf("writing body: %w", err)
			}
		}
	case KindChunked, KindChunkedInOut, KindChunkedOut:
		for _, c := range b.chunks {
			if _, err := c.WriteTo(s); err != nil {
				return fmt.Errorf("writing chunk: %w", err)
			}
		}
		if err := chunk.WriteLast(s); err != nil {
			return fmt.Errorf("writing last chunk: %w", err)
		}
	}
	return s.Flush()
}

// Discard consumes what is left of the source without keeping it, so the
// connection stays framed for the next message.
func (b *Body) Discard() error {
	if b.read {
		return nil
	}
	if b.err != nil {
		return b.err
	}

	var err error
	switch b.kind {
	case KindBounded, KindChunkedOut:
		bp := getBuffer()
		defer putBuffer(bp)
		r := b.src
		if b.length >= 0 {
			r = io.LimitReader(b.src, b.length)
		}
		var n int64
		n, err = io.CopyBuffer(io.Discard, r, *bp)
		if err == nil && b.length >= 0 && n < b.length {
			err = io.ErrUnexpectedEOF
		}
	case KindChunked, KindChunkedInOut:
		for {
			_, done, rerr := chunk.ReadNext(b.br)
			if rerr != nil {
				err = rerr
				break
			}
			if done {
				break
			}
		}
	case KindEmpty:
	}
	if err != nil {
		return b.fail(fmt.Errorf("discarding body: %w", err))
	}

	b.chunks = nil
	b.markRead()
	return nil
}

type emitFunc func(c chunk.Chunk) error

func writePlain(s Sink) emitFunc {
	return func(c chunk.Chunk) error {
		if _, err := s.Write(c.Bytes()); err != nil {
			return fmt.Errorf("writing body: %w", err)
		}
		return s.Flush()
	}
}

func writeChunk(s Sink) emitFunc {
	return func(c chunk.Chunk) error {
		if _, err := c.WriteTo(s); err != nil {
			return fmt.Errorf("writing chunk: %w", err)
		}
		return s.Flush()
	}
}

// copyPlain reads the plain source in buffer sized increments until the
// declared length is reached, or until EOF when the length is unknown.
func (b *Body) copyPlain(emit emitFunc) error {
	bp := getBuffer()
	defer putBuffer(bp)
	buf := *bp

	var total int64
	for b.length < 0 || total < b.length {
		want := len(buf)
		if b.length >= 0 && b.length-total < int64(want) {
			want = int(b.length - total)
		}

		n, err := b.src.Read(buf[:want])
		if n > 0 {
			c := chunk.New(bytes.Clone(buf[:n]))
			b.record(c)
			total += int64(n)
			if emit != nil {
				if werr := emit(c); werr != nil {
					return werr
				}
			}
		}
		if errors.Is(err, io.EOF) {
			if b.length >= 0 && total < b.length {
				return fmt.Errorf("reading body: %w", io.ErrUnexpectedEOF)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
	}
	return nil
}

func (b *Body) copyChunked(emit emitFunc) error {
	for {
		c, done, err := chunk.ReadNext(b.br)
		if err != nil {
			return fmt.Errorf("reading chunked body: %w", err)
		}
		if done {
			return nil
		}
		b.record(c)
		if emit != nil {
			if err = emit(c); err != nil {
				return err
			}
		}
	}
}
