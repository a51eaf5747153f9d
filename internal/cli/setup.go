package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"docrag/config"
	"docrag/internal/adapter/cache"
	"docrag/internal/adapter/catalog"
	"docrag/internal/adapter/chunker"
	"docrag/internal/adapter/embedding"
	"docrag/internal/adapter/extractor"
	"docrag/internal/adapter/fs"
	"docrag/internal/adapter/store"
	"docrag/internal/port"
	"docrag/internal/usecase"
)

// buildPipeline wires the configured adapters into a Pipeline. The returned
// cleanup func releases held resources (the embedding cache database).
func buildPipeline() (*usecase.Pipeline, func(), error) {
	cfg := GetConfig()

	docsRoot := cfg.Documents.Root
	if !filepath.IsAbs(docsRoot) {
		docsRoot = filepath.Join(GetRootDir(), docsRoot)
	}

	storeDir := config.StoreDir(GetRootDir(), cfg)
	if err := config.EnsureStoreDir(GetRootDir(), cfg); err != nil {
		return nil, nil, fmt.Errorf("create store directory: %w", err)
	}

	var embedder port.Embedder
	var validator port.SetupValidator
	switch cfg.Embedding.Provider {
	case "mock":
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimension)
	case "ollama", "":
		ollama := embedding.NewOllamaEmbedder(
			cfg.Embedding.BaseURL,
			cfg.Embedding.Model,
			time.Duration(cfg.Embedding.TimeoutSeconds)*time.Second,
		)
		embedder = ollama
		validator = ollama
	default:
		return nil, nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}

	cleanup := func() {}
	if cfg.Embedding.CacheEnabled {
		cacheDB, err := cache.OpenEmbeddingCache(filepath.Join(storeDir, "embeddings.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("open embedding cache: %w", err)
		}
		embedder = cache.NewCachedEmbedder(embedder, cacheDB)
		cleanup = func() { cacheDB.Close() }
	}

	index, err := store.Open(storeDir, embedder.ModelName())
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("open vector store: %w", err)
	}

	cat, err := catalog.Open(filepath.Join(storeDir, "catalog.json"))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}

	warnings := append(index.Warnings(), cat.Warnings()...)

	ingestor := usecase.NewIngestor(
		docsRoot,
		fs.NewWalker(cfg.Documents.Includes, cfg.Documents.Excludes),
		extractor.New(),
		chunker.NewTextChunker(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap),
		embedder,
		index,
		cat,
	)
	retriever := usecase.NewRetriever(embedder, index)

	pipeline := usecase.NewPipeline(
		docsRoot,
		cfg.Retrieve.MaxChunks,
		cfg.Retrieve.ScoreThreshold,
		ingestor,
		retriever,
		index,
		cat,
		validator,
		warnings,
	)
	return pipeline, cleanup, nil
}

func printWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Println("\nWarnings:")
	for _, w := range warnings {
		fmt.Printf("  - %s\n", w)
	}
}
