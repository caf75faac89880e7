// Package hashutil computes the SHA-256 digests mod artifacts are identified by.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"

	"github.com/spf13/afero"
)

// FileSHA256 returns the lowercase hex SHA-256 of the file at path.
func FileSHA256(fs afero.Fs, path string) (string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = file.Close()
	}()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// BytesSHA256 returns the lowercase hex SHA-256 of data.
func BytesSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Normalize lowercases a hex digest and drops an optional "sha256:" prefix so
// digests from manifests and from disk compare equal.
func Normalize(digest string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(digest), "sha256:"))
}
