package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chunking.ChunkSize != 800 || cfg.Chunking.ChunkOverlap != 100 {
		t.Errorf("unexpected chunking defaults: %+v", cfg.Chunking)
	}
	if cfg.Embedding.Model != "nomic-embed-text" {
		t.Errorf("unexpected default model: %s", cfg.Embedding.Model)
	}
	if cfg.Embedding.BaseURL != "http://localhost:11434" {
		t.Errorf("unexpected default base URL: %s", cfg.Embedding.BaseURL)
	}
	if cfg.Retrieve.MaxChunks != 5 || cfg.Retrieve.ScoreThreshold != 0.1 {
		t.Errorf("unexpected retrieve defaults: %+v", cfg.Retrieve)
	}
	if cfg.Store.Path != ".docrag" {
		t.Errorf("unexpected store path: %s", cfg.Store.Path)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chunking.ChunkSize != 800 {
		t.Errorf("defaults not applied: %+v", cfg.Chunking)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docrag.yaml")
	content := []byte("chunking:\n  chunk_size: 400\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chunking.ChunkSize != 400 {
		t.Errorf("override not applied: %+v", cfg.Chunking)
	}
	if cfg.Chunking.ChunkOverlap != 100 {
		t.Errorf("untouched field lost its default: %+v", cfg.Chunking)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docrag.yaml")

	cfg := DefaultConfig()
	cfg.Embedding.Model = "mxbai-embed-large"
	cfg.Retrieve.MaxChunks = 12
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Embedding.Model != "mxbai-embed-large" || loaded.Retrieve.MaxChunks != 12 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	content := []byte("retrieve:\n  max_chunks: 9\n")
	if err := os.WriteFile(filepath.Join(dir, "docrag.yaml"), content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Retrieve.MaxChunks != 9 {
		t.Errorf("docrag.yaml not picked up: %+v", cfg.Retrieve)
	}

	// No config anywhere: defaults.
	cfg, err = LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Retrieve.MaxChunks != 5 {
		t.Errorf("expected defaults from empty dir: %+v", cfg.Retrieve)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "http://embed-host:11434")
	t.Setenv("DOCRAG_EMBEDDING_MODEL", "all-minilm")

	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Embedding.BaseURL != "http://embed-host:11434" {
		t.Errorf("OLLAMA_HOST not applied: %s", cfg.Embedding.BaseURL)
	}
	if cfg.Embedding.Model != "all-minilm" {
		t.Errorf("DOCRAG_EMBEDDING_MODEL not applied: %s", cfg.Embedding.Model)
	}
}

func TestStoreDir(t *testing.T) {
	cfg := DefaultConfig()
	if got := StoreDir("/proj", cfg); got != filepath.Join("/proj", ".docrag") {
		t.Errorf("relative store path not joined to root: %s", got)
	}

	cfg.Store.Path = "/var/lib/docrag"
	if got := StoreDir("/proj", cfg); got != "/var/lib/docrag" {
		t.Errorf("absolute store path not honored: %s", got)
	}
}
