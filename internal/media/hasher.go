package media

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// Fingerprint computes the SHA256 hex digest of r in one streaming pass.
// The digest depends on the bytes alone, never on names or timestamps.
func Fingerprint(r io.Reader) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// FingerprintFile computes the SHA256 hex digest of the file at path.
// Failures to open or fully read the file are ReadErrors.
func FingerprintFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	defer file.Close()

	digest, err := Fingerprint(file)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	return digest, nil
}
