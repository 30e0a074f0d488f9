package chunk

import "io"

// Writer emits every Write as one chunk and the terminal chunk on Close.
type Writer struct {
	w      io.Writer
	closed bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (cw *Writer) Write(p []byte) (int, error) {
	if cw.closed {
		return 0, io.ErrClosedPipe
	}
	// a zero length chunk would terminate the body
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := New(p).WriteTo(cw.w); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (cw *Writer) Close() error {
	if cw.closed {
		return nil
	}
	cw.closed = true
	return WriteLast(cw.w)
}
