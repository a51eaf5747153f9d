package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the document retrieval engine.
type Config struct {
	Documents DocumentsConfig `yaml:"documents"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Store     StoreConfig     `yaml:"store"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
}

// DocumentsConfig holds document scanning configuration.
type DocumentsConfig struct {
	Root     string   `yaml:"root"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// ChunkingConfig holds text segmentation configuration.
type ChunkingConfig struct {
	ChunkSize    int `yaml:"chunk_size"`    // max chunk length in bytes
	ChunkOverlap int `yaml:"chunk_overlap"` // overlap between consecutive chunks
}

// EmbeddingConfig holds embedding service configuration.
type EmbeddingConfig struct {
	Provider       string `yaml:"provider"` // "ollama" or "mock"
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"` // per-call timeout
	Dimension      int    `yaml:"dimension"`       // used by the mock provider
	CacheEnabled   bool   `yaml:"cache_enabled"`
}

// StoreConfig holds vector store persistence configuration.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// RetrieveConfig holds query-time retrieval configuration.
type RetrieveConfig struct {
	MaxChunks      int     `yaml:"max_chunks"`
	ScoreThreshold float64 `yaml:"score_threshold"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Documents: DocumentsConfig{
			Root:     "documents",
			Includes: []string{"**/*.pdf", "**/*.docx", "**/*.pptx", "**/*.txt"},
			Excludes: []string{"**/.docrag/**", "**/metadata/**"},
		},
		Chunking: ChunkingConfig{
			ChunkSize:    800,
			ChunkOverlap: 100,
		},
		Embedding: EmbeddingConfig{
			Provider:       "ollama",
			BaseURL:        "http://localhost:11434",
			Model:          "nomic-embed-text",
			TimeoutSeconds: 30,
			Dimension:      768,
			CacheEnabled:   true,
		},
		Store: StoreConfig{
			Path: ".docrag",
		},
		Retrieve: RetrieveConfig{
			MaxChunks:      5,
			ScoreThreshold: 0.1,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg.applyEnv(), nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg.applyEnv(), nil
}

// applyEnv overlays environment overrides. OLLAMA_HOST follows the Ollama
// CLI convention; DOCRAG_EMBEDDING_MODEL picks the embedding model.
func (c *Config) applyEnv() *Config {
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.Embedding.BaseURL = host
	}
	if model := os.Getenv("DOCRAG_EMBEDDING_MODEL"); model != "" {
		c.Embedding.Model = model
	}
	return c
}

// LoadFromDir loads configuration from a directory (looks for docrag.yaml,
// then .docrag/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docrag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".docrag", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig().applyEnv(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StoreDir returns the vector store directory under the given root.
func StoreDir(root string, c *Config) string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(root, c.Store.Path)
}

// EnsureStoreDir creates the store directory if missing.
func EnsureStoreDir(root string, c *Config) error {
	return os.MkdirAll(StoreDir(root, c), 0755)
}
