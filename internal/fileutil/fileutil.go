// Package fileutil writes files so readers never observe partial content.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to a temporary file in the destination
// directory and renames it into place.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// WriteFileVerified writes data atomically and re-reads the result, removing
// it when the size or SHA256 differs from data.
func WriteFileVerified(path string, data []byte, mode os.FileMode) error {
	if err := WriteFileAtomic(path, data, mode); err != nil {
		return err
	}
	written, err := os.ReadFile(path)
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("read back: %w", err)
	}
	if len(written) != len(data) {
		_ = os.Remove(path)
		return fmt.Errorf("write size mismatch: expected %d bytes, found %d bytes", len(data), len(written))
	}
	want := sha256.Sum256(data)
	got := sha256.Sum256(written)
	if !bytes.Equal(want[:], got[:]) {
		_ = os.Remove(path)
		return fmt.Errorf("write hash mismatch: file corrupted during write")
	}
	return nil
}
