package tictactoe

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedFingerprint = errors.New("malformed fingerprint")

// Fingerprint is the row-major concatenation of the nine cells. It restates the
// board without losing information and is the key of every value table.
type Fingerprint [Rows * Cols]Cell

func (b Board) Fingerprint() Fingerprint {
	var f Fingerprint
	for i, row := range b {
		for j, c := range row {
			f[i*Cols+j] = c
		}
	}
	return f
}

func (f Fingerprint) Board() Board {
	var b Board
	for i, c := range f {
		b[i/Cols][i%Cols] = c
	}
	return b
}

// String renders f as "[c0, c1, ..., c8]", the key format of persisted brains.
func (f Fingerprint) String() string {
	parts := make([]string, len(f))
	for i, c := range f {
		parts[i] = strconv.Itoa(int(c))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func ParseFingerprint(s string) (Fingerprint, error) {
	var f Fingerprint
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return f, fmt.Errorf("%w: %q: missing brackets", ErrMalformedFingerprint, s)
	}

	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != len(f) {
		return f, fmt.Errorf("%w: %q: want %d cells, got %d", ErrMalformedFingerprint, s, len(f), len(parts))
	}

	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return f, fmt.Errorf("%w: %q: %v", ErrMalformedFingerprint, s, err)
		}

		if v < int(P2) || v > int(P1) {
			return f, fmt.Errorf("%w: %q: cell %d is %d", ErrMalformedFingerprint, s, i, v)
		}
		f[i] = Cell(v)
	}
	return f, nil
}
