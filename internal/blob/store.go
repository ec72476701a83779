// Package blob implements the file blob store: uploaded files are written to
// a local directory under opaque UUID names, optionally encrypted at rest
// with AES-256-GCM when a key is configured.
package blob

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store saves and retrieves document blobs on the local filesystem.
type Store struct {
	root string
	gcm  cipher.AEAD
}

// NewStore creates a blob store rooted at the given directory. keyHex, when
// non-empty, must be a hex-encoded 32-byte AES key; all subsequently saved
// blobs are then encrypted at rest and transparently decrypted on Read.
func NewStore(root string, keyHex string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	s := &Store{root: root}
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
		}
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cipher: %w", err)
		}
		if s.gcm, err = cipher.NewGCM(block); err != nil {
			return nil, fmt.Errorf("failed to initialize GCM: %w", err)
		}
	}
	return s, nil
}

// Encrypted reports whether blobs are encrypted at rest.
func (s *Store) Encrypted() bool {
	return s.gcm != nil
}

// Save writes the contents of r under a fresh UUID-based name, preserving
// only the original extension, and returns the blob location.
func (s *Store) Save(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	if s.gcm != nil {
		nonce := make([]byte, s.gcm.NonceSize())
		if _, err := rand.Read(nonce); err != nil {
			return "", fmt.Errorf("failed to generate nonce: %w", err)
		}
		data = s.gcm.Seal(nonce, nonce, data, nil)
	}

	name := uuid.New().String() + filepath.Ext(filename)
	location := filepath.Join(s.root, name)
	if err := os.WriteFile(location, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return location, nil
}

// Read returns the plaintext contents of the blob at location, decrypting
// when encryption at rest is enabled.
func (s *Store) Read(location string) ([]byte, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	if s.gcm != nil {
		if len(data) < s.gcm.NonceSize() {
			return nil, fmt.Errorf("blob %s is truncated", location)
		}
		nonce, sealed := data[:s.gcm.NonceSize()], data[s.gcm.NonceSize():]
		if data, err = s.gcm.Open(nil, nonce, sealed, nil); err != nil {
			return nil, fmt.Errorf("failed to decrypt blob: %w", err)
		}
	}
	return data, nil
}

// Size returns the on-disk size of the blob in bytes.
func (s *Store) Size(location string) (int64, error) {
	info, err := os.Stat(location)
	if err != nil {
		return 0, fmt.Errorf("failed to stat blob: %w", err)
	}
	return info.Size(), nil
}

// Exists reports whether a blob is present at location.
func (s *Store) Exists(location string) bool {
	_, err := os.Stat(location)
	return err == nil
}

// Delete removes the blob at location. It reports whether a blob was removed.
func (s *Store) Delete(location string) (bool, error) {
	err := os.Remove(location)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete blob: %w", err)
	}
	return true, nil
}
