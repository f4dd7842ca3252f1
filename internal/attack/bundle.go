package attack

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrChecksumMismatch = errors.New("bundle checksum mismatch")

// Bundle is the JSON envelope a catalog is published in. Content is the
// base64 encoded catalog JSON and Checksum its SHA-256.
type Bundle struct {
	Version     string `json:"version"`
	PublishedAt string `json:"published_at"`
	Checksum    string `json:"checksum"`
	Content     string `json:"content"`
}

// NewBundle wraps c in a checksummed bundle.
func NewBundle(c Catalog, version, publishedAt string) (*Bundle, error) {
	plaintext, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling catalog: %w", err)
	}
	hash := sha256.Sum256(plaintext)
	return &Bundle{
		Version:     version,
		PublishedAt: publishedAt,
		Checksum:    hex.EncodeToString(hash[:]),
		Content:     base64.StdEncoding.EncodeToString(plaintext),
	}, nil
}

// Open decodes the bundle's catalog after verifying its checksum.
func (b *Bundle) Open() (Catalog, error) {
	plaintext, err := base64.StdEncoding.DecodeString(b.Content)
	if err != nil {
		return nil, fmt.Errorf("decoding bundle content: %w", err)
	}
	hash := sha256.Sum256(plaintext)
	if hex.EncodeToString(hash[:]) != b.Checksum {
		return nil, ErrChecksumMismatch
	}
	var c Catalog
	if err := json.Unmarshal(plaintext, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return c, nil
}
