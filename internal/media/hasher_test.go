package media

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFingerprint_KnownDigest(t *testing.T) {
	digest, err := Fingerprint(strings.NewReader("hello world"))
	if err != nil {
		t.Fatalf("Fingerprint() failed: %v", err)
	}

	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if digest != want {
		t.Errorf("Fingerprint() = %s, want %s", digest, want)
	}
}

func TestFingerprintFile_IgnoresName(t *testing.T) {
	dir := t.TempDir()

	pathA := filepath.Join(dir, "IMG_0001.jpg")
	pathB := filepath.Join(dir, "renamed-copy.jpg")
	content := []byte("identical bytes")
	if err := os.WriteFile(pathA, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pathB, content, 0o644); err != nil {
		t.Fatal(err)
	}

	digestA, err := FingerprintFile(pathA)
	if err != nil {
		t.Fatalf("FingerprintFile(%s) failed: %v", pathA, err)
	}
	digestB, err := FingerprintFile(pathB)
	if err != nil {
		t.Fatalf("FingerprintFile(%s) failed: %v", pathB, err)
	}

	if digestA != digestB {
		t.Errorf("digests differ for identical content: %s vs %s", digestA, digestB)
	}
}

func TestFingerprintFile_MissingFile(t *testing.T) {
	_, err := FingerprintFile(filepath.Join(t.TempDir(), "missing.jpg"))
	if err == nil {
		t.Fatal("FingerprintFile() should fail for a missing file")
	}

	var re *ReadError
	if !errors.As(err, &re) {
		t.Errorf("err = %v, want a ReadError", err)
	}
}
