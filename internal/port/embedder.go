package port

import "context"

// Embedder generates vector embeddings for text via an external model.
type Embedder interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, one vector per
	// input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// SetupValidator is implemented by embedders that can check their backing
// service before use. Not part of the query hot path.
type SetupValidator interface {
	// Validate checks that the service is reachable and the model is
	// available, pulling it if necessary.
	Validate(ctx context.Context) error
}
