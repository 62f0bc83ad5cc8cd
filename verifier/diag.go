package verifier

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// diagnosticTailLines bounds the portion of captured output carried in a
// failure diagnostic; full output lives in the run's .out files.
const diagnosticTailLines = 120

// tail returns the last n lines of text.
func tail(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// writeDiagnostic persists a raw diagnostic next to the run's other outputs
// so failures stay reproducible after the batch. Best effort.
func writeDiagnostic(dir, name, content string) {
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("⚠️  Failed to create output dir %s: %v", dir, err)
		return
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		log.Printf("⚠️  Failed to write %s: %v", name, err)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
