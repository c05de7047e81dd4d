package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// MinimalChart is the smallest body accepted as a chart file.
const MinimalChart = "osu file format v14\n\n[General]\nAudioFilename: audio.mp3\nMode: 0\n"

// WriteScript writes an executable /bin/sh script named name under dir and
// returns its path.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script %s: %v", name, err)
	}
	return target
}

// CountFiles returns the number of regular files directly under dir. A
// missing directory counts as empty.
func CountFiles(t testing.TB, dir string) int {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0
		}
		t.Fatalf("read dir %s: %v", dir, err)
	}
	count := 0
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			count++
		}
	}
	return count
}
