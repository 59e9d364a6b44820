package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/sutra-starters/internal/mindmap"
)

const outline = "# Water\n## Cycle\n- Rain\n- Evaporation\n"

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.html")
	if err := writeHTML(path, outline, "Hindi"); err != nil {
		t.Fatalf("writeHTML: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "<!DOCTYPE html>") || !strings.Contains(string(b), "Water") {
		t.Fatalf("unexpected page:\n%s", b)
	}
	if err := writeHTML(filepath.Join(t.TempDir(), "missing", "map.html"), outline, "Hindi"); err == nil {
		t.Fatalf("expected an error for a missing directory")
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	if err := writePNG(path, outline, mindmap.ImageOptions{}); err != nil {
		t.Fatalf("writePNG: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || len(b) < 8 || string(b[1:4]) != "PNG" {
		t.Fatalf("not a png: err=%v len=%d", err, len(b))
	}
	if err := writePNG(path, "", mindmap.ImageOptions{}); err == nil {
		t.Fatalf("expected an error for an empty outline")
	}
}
