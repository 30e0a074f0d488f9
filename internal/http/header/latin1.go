package header

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// Text returns the first value of name decoded from ISO-8859-1 to UTF-8.
func (h *Header) Text(name string) (string, error) {
	v, ok := h.FirstValue(name)
	if !ok {
		return "", nil
	}
	return charmap.ISO8859_1.NewDecoder().String(v)
}

// SetText stores s encoded as ISO-8859-1. Runes outside Latin-1 are rejected
// so the wire bytes round-trip exactly.
func (h *Header) SetText(name, s string) error {
	encoded, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return fmt.Errorf("header %s is not representable in ISO-8859-1: %w", name, err)
	}
	h.Set(name, encoded)
	return nil
}
