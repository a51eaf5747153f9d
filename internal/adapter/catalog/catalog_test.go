package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docrag/internal/domain"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		found         bool
		lastProcessed int64
		modTime       int64
		want          Decision
	}{
		{"new document", false, 0, 1000, DecisionProcess},
		{"unchanged", true, 1000, 500, DecisionSkip},
		{"modified after ingestion", true, 1000, 2000, DecisionProcess},
		{"modified at ingestion instant", true, 1000, 1000, DecisionSkip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.found, tt.lastProcessed, tt.modTime); got != tt.want {
				t.Errorf("Decide(%v, %d, %d) = %v, want %v",
					tt.found, tt.lastProcessed, tt.modTime, got, tt.want)
			}
		})
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Fatalf("fresh catalog has %d entries", c.Len())
	}

	entry := domain.CatalogEntry{
		Filename:               "report.pdf",
		FileSize:               2048,
		FileExtension:          ".pdf",
		ChunkCount:             7,
		LastProcessed:          "2026-08-24T10:00:00Z",
		LastProcessedTimestamp: 1787911200,
		Metadata:               map[string]string{"file_type": "pdf"},
	}
	c.Put("/docs/report.pdf", entry)
	c.Put("/docs/a.txt", domain.CatalogEntry{Filename: "a.txt"})
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.Len() != 2 {
		t.Fatalf("expected 2 entries after reload, got %d", reopened.Len())
	}
	got, ok := reopened.Get("/docs/report.pdf")
	if !ok {
		t.Fatal("entry lost across reload")
	}
	if got.ChunkCount != 7 || got.LastProcessedTimestamp != 1787911200 {
		t.Errorf("entry fields lost: %+v", got)
	}
	if got.Metadata["file_type"] != "pdf" {
		t.Errorf("metadata lost: %+v", got.Metadata)
	}
}

func TestCatalogPathsSorted(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "catalog.json"))
	if err != nil {
		t.Fatal(err)
	}
	c.Put("/docs/z.txt", domain.CatalogEntry{})
	c.Put("/docs/a.txt", domain.CatalogEntry{})
	c.Put("/docs/m.txt", domain.CatalogEntry{})

	paths := c.Paths()
	want := []string{"/docs/a.txt", "/docs/m.txt", "/docs/z.txt"}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("paths not sorted: %v", paths)
		}
	}
}

func TestCatalogDelete(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "catalog.json"))
	if err != nil {
		t.Fatal(err)
	}
	c.Put("/docs/a.txt", domain.CatalogEntry{})
	c.Delete("/docs/a.txt")
	if _, ok := c.Get("/docs/a.txt"); ok {
		t.Error("entry survived Delete")
	}
	c.Delete("/docs/missing.txt") // no-op
}

func TestCatalogUnreadableStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 {
		t.Errorf("unreadable catalog should start empty, got %d entries", c.Len())
	}
	warnings := c.Warnings()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "unreadable") {
		t.Errorf("expected unreadable warning, got %v", warnings)
	}
}

func TestCatalogSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store", "catalog.json")
	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	c.Put("/docs/a.txt", domain.CatalogEntry{Filename: "a.txt"})
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("catalog file not written: %v", err)
	}
}
