package chunk

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
)

const (
	maxLineLength = 4096

	// initialDataCap bounds the up-front allocation for chunk data; the
	// buffer grows only as declared bytes actually arrive.
	initialDataCap = 8192
)

var (
	ErrMalformedChunk = errors.New("malformed chunked encoding")
	ErrLineTooLong    = errors.New("chunk line too long")
)

// ReadSize reads a chunk-size line. Chunk extensions are ignored.
func ReadSize(r *bufio.Reader) (int, error) {
	line, err := readLine(r)
	if err != nil {
		return 0, err
	}
	if idx := bytes.IndexByte(line, ';'); idx != -1 {
		line = line[:idx]
	}
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return 0, fmt.Errorf("%w: empty chunk size", ErrMalformedChunk)
	}
	return parseHex(line)
}

// ReadNext reads one chunk with its trailing CRLF. On the terminal chunk the
// trailer section is consumed and dropped and done is true.
func ReadNext(r *bufio.Reader) (c Chunk, done bool, err error) {
	size, err := ReadSize(r)
	if err != nil {
		return Chunk{}, false, err
	}
	if size == 0 {
		if err = skipTrailer(r); err != nil {
			return Chunk{}, false, err
		}
		return Chunk{}, true, nil
	}

	data, err := readData(r, size)
	if err != nil {
		return Chunk{}, false, err
	}
	if err = readCRLF(r); err != nil {
		return Chunk{}, false, err
	}
	return New(data), false, nil
}

// readData reads exactly size bytes, doubling its buffer up to size as data
// arrives.
func readData(r io.Reader, size int) ([]byte, error) {
	data := make([]byte, 0, min(size, initialDataCap))
	for len(data) < size {
		if len(data) == cap(data) {
			data = slices.Grow(data, min(size, 2*cap(data))-len(data))
		}
		n, err := io.ReadFull(r, data[len(data):min(cap(data), size)])
		data = data[:len(data)+n]
		if err != nil {
			return nil, unexpected(err)
		}
	}
	return data, nil
}

func skipTrailer(r *bufio.Reader) error {
	for {
		line, err := readLine(r)
		if err != nil {
			return err
		}
		if len(line) == 0 {
			return nil
		}
	}
}

func readCRLF(r *bufio.Reader) error {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return unexpected(err)
	}
	if buf[0] != '\r' || buf[1] != '\n' {
		return fmt.Errorf("%w: missing CRLF after chunk data", ErrMalformedChunk)
	}
	return nil
}

func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadSlice('\n')
	if err != nil {
		if errors.Is(err, bufio.ErrBufferFull) {
			return nil, ErrLineTooLong
		}
		return nil, unexpected(err)
	}
	if len(line) >= maxLineLength {
		return nil, ErrLineTooLong
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

func parseHex(v []byte) (int, error) {
	var n uint64
	for _, b := range v {
		switch {
		case '0' <= b && b <= '9':
			b = b - '0'
		case 'a' <= b && b <= 'f':
			b = b - 'a' + 10
		case 'A' <= b && b <= 'F':
			b = b - 'A' + 10
		default:
			return 0, fmt.Errorf("%w: invalid byte %q in chunk length", ErrMalformedChunk, b)
		}
		if n > (math.MaxInt32 >> 4) {
			return 0, fmt.Errorf("%w: chunk length too large", ErrMalformedChunk)
		}
		n = n<<4 | uint64(b)
	}
	return int(n), nil
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// Encode frames p as chunks of at most size bytes followed by the terminal chunk.
func Encode(p []byte, size int) []byte {
	if size <= 0 {
		size = len(p)
	}
	var out []byte
	for len(p) > 0 {
		n := min(size, len(p))
		out = New(p[:n]).AppendWire(out)
		p = p[n:]
	}
	return AppendLast(out)
}

// Decode strips the chunked framing from p.
func Decode(p []byte) ([]byte, error) {
	r := bufio.NewReader(bytes.NewReader(p))
	var out []byte
	for {
		c, done, err := ReadNext(r)
		if err != nil {
			return nil, err
		}
		if done {
			return out, nil
		}
		out = append(out, c.Bytes()...)
	}
}
