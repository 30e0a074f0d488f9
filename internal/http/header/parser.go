package header

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/net/http/httpguts"
)

const MaxHeaderBytes = 64 * 1024

var ErrHeaderTooLarge = errors.New("header section exceeds maximum size")

// Parse reads header lines up to and including the empty line that ends the
// section. Lines without a colon or with an invalid field name are skipped.
func Parse(br *bufio.Reader) (*Header, error) {
	h := New()
	budget := MaxHeaderBytes

	for {
		lineBytes, err := ReadLine(br, budget)
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}
		budget -= len(lineBytes)

		if len(lineBytes) == 0 {
			return h, nil
		}

		addLine(h, lineBytes)
	}
}

// ReadLine reads one line terminated by LF and returns it without the CRLF.
// Lines longer than limit fail with ErrHeaderTooLarge. The returned slice
// may alias the reader's buffer.
func ReadLine(br *bufio.Reader, limit int) ([]byte, error) {
	var line []byte
	for {
		frag, err := br.ReadSlice('\n')
		if len(line)+len(frag) > limit {
			return nil, ErrHeaderTooLarge
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			line = append(line, frag...)
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(line)+len(frag) == 0 {
					return nil, io.EOF
				}
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		if line != nil {
			frag = append(line, frag...)
		}
		return bytes.TrimRight(frag, "\r\n"), nil
	}
}

// ParseBytes parses header lines from data. A missing final empty line is
// tolerated.
func ParseBytes(data []byte) *Header {
	h := New()
	remaining := data
	for len(remaining) > 0 {
		lineEnd := bytes.IndexByte(remaining, '\n')
		if lineEnd == -1 {
			lineEnd = len(remaining)
		}

		line := bytes.TrimRight(remaining[:lineEnd], "\r")
		if len(line) == 0 {
			break
		}
		addLine(h, line)

		if lineEnd == len(remaining) {
			break
		}
		remaining = remaining[lineEnd+1:]
	}
	return h
}

func addLine(h *Header, line []byte) {
	colonIdx := bytes.IndexByte(line, ':')
	if colonIdx == -1 {
		zap.L().Warn("skipping header line without colon", zap.ByteString("line", line))
		return
	}

	key := string(bytes.TrimSpace(line[:colonIdx]))
	if !httpguts.ValidHeaderFieldName(key) {
		zap.L().Warn("skipping header line with invalid field name", zap.ByteString("line", line))
		return
	}
	value := string(bytes.TrimSpace(line[colonIdx+1:]))
	h.Add(key, value)
}
