package message

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"apigateway/internal/http/header"
)

var (
	requestLine  = regexp.MustCompile(`^(\S+) (\S+) HTTP/(\d\.\d)$`)
	responseLine = regexp.MustCompile(`^HTTP/(\d\.\d) (\d{3})(?: (.*))?$`)
)

// readStartLine returns the first non-empty line. io.EOF is returned only when
// the reader ends before any byte of the line.
func readStartLine(br *bufio.Reader) (string, error) {
	for {
		line, err := header.ReadLine(br, header.MaxHeaderBytes)
		if err != nil {
			return "", err
		}
		if len(line) > 0 {
			return string(line), nil
		}
	}
}

func parseRequestLine(line string) (method, uri, version string, err error) {
	m := requestLine.FindStringSubmatch(line)
	if m == nil {
		return "", "", "", fmt.Errorf("%w: %q", ErrMalformedStartLine, line)
	}
	return m[1], m[2], m[3], nil
}

func parseStatusLine(line string) (version string, code int, msg string, err error) {
	m := responseLine.FindStringSubmatch(line)
	if m == nil {
		return "", 0, "", fmt.Errorf("%w: %q", ErrMalformedStartLine, line)
	}
	code, err = strconv.Atoi(m[2])
	if err != nil {
		return "", 0, "", fmt.Errorf("%w: %q", ErrMalformedStartLine, line)
	}
	return m[1], code, m[3], nil
}

func startLineError(err, clean error) error {
	if errors.Is(err, io.EOF) {
		return clean
	}
	return fmt.Errorf("reading start line: %w", err)
}
