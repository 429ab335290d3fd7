// Package archive stores supporting documentation keyed by the hex SHA-256
// of its content.  That key is the documentation hash recorded on
// ownership verifications, designations, features and modifications.
package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"time"
)

type Driver string

const (
	DriverMemory Driver = "memory"
	DriverS3     Driver = "s3"
)

var ErrNotFound = errors.New("archive: document not found")

type Info struct {
	Key         string
	Size        int64
	ContentType string
	StoredAt    time.Time
}

// Store is a content-addressed document store.  Put is idempotent: storing
// a key that already exists leaves the original untouched and returns its
// Info.
type Store interface {
	Driver() Driver
	Put(ctx context.Context, key string, body []byte, contentType string) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
}

// Key returns the content address of body.
func Key(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// ValidKey reports whether key looks like a Key result.
func ValidKey(key string) bool {
	if len(key) != 2*sha256.Size {
		return false
	}
	_, err := hex.DecodeString(key)
	return err == nil
}

// Save stores body under its content address.
func Save(ctx context.Context, st Store, body []byte, contentType string) (Info, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return st.Put(ctx, Key(body), body, contentType)
}
