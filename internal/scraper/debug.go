package scraper

import (
	"fmt"
	"os"
	"path/filepath"
)

const debugPageFile = "debug_page.html"

// DebugDumper writes raw pages to disk when extraction needs a human look.
type DebugDumper struct {
	Dir string
}

func (d DebugDumper) DumpHTML(page string) (string, error) {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, debugPageFile)
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		return "", fmt.Errorf("write debug page failed: %w", err)
	}
	return path, nil
}
