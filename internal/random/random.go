package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// IDBytes is the entropy of one generated ID. IDs are hex encoded, so they
// are twice as long.
const IDBytes = 16

type Generator interface {
	ID() (string, error)
}

type generator struct {
	reader io.Reader
}

func New() Generator {
	return &generator{reader: rand.Reader}
}

func (g *generator) ID() (string, error) {
	b := make([]byte, IDBytes)
	if _, err := io.ReadFull(g.reader, b); err != nil {
		return "", fmt.Errorf("generating id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
