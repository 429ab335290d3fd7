package types

import (
	"encoding/hex"
	"errors"
	"strings"
)

// HashSize is the length in bytes of every documentation hash.
const HashSize = 32

var ErrBadHash = errors.New("documentation hash must be 32 bytes hex-encoded")

// DecodeHash parses a hex documentation hash, accepting an optional 0x
// prefix.
func DecodeHash(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != HashSize {
		return nil, ErrBadHash
	}
	return b, nil
}

func EncodeHash(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return hex.EncodeToString(b)
}
