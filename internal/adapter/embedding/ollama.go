// Package embedding provides clients for external embedding services.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"docrag/internal/domain"
)

// Default configuration values.
const (
	DefaultBaseURL     = "http://localhost:11434"
	DefaultModel       = "nomic-embed-text"
	DefaultTimeout     = 30 * time.Second
	DefaultPullTimeout = 300 * time.Second
)

// OllamaEmbedder generates embeddings through a local Ollama server.
type OllamaEmbedder struct {
	baseURL string
	model   string
	client  *http.Client
	puller  *http.Client // separate timeout: model pulls are slow
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

type pullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

// NewOllamaEmbedder creates an Ollama embedding client. Zero values fall
// back to the defaults above.
func NewOllamaEmbedder(baseURL, model string, timeout time.Duration) *OllamaEmbedder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &OllamaEmbedder{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
		puller:  &http.Client{Timeout: DefaultPullTimeout},
	}
}

// Embed generates an embedding for a single text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, e.unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, e.unavailable(fmt.Errorf("status %d: %s", resp.StatusCode, readBody(resp.Body)))
	}

	var embResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(embResp.Embedding) == 0 {
		return nil, e.unavailable(fmt.Errorf("empty embedding in response"))
	}

	return embResp.Embedding, nil
}

// EmbedBatch generates embeddings for multiple texts. Ollama has no native
// batch endpoint, so texts are embedded one call at a time.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d/%d: %w", i+1, len(texts), err)
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

// ListModels returns the names of models available on the server.
func (e *OllamaEmbedder) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/api/tags", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, e.unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, e.unavailable(fmt.Errorf("status %d: %s", resp.StatusCode, readBody(resp.Body)))
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	names := make([]string, len(tags.Models))
	for i, m := range tags.Models {
		names[i] = m.Name
	}
	return names, nil
}

// PullModel downloads a model onto the server. Setup path only.
func (e *OllamaEmbedder) PullModel(ctx context.Context, name string) error {
	body, err := json.Marshal(pullRequest{Name: name, Stream: false})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.puller.Do(req)
	if err != nil {
		return e.unavailable(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return e.unavailable(fmt.Errorf("pull %s: status %d: %s", name, resp.StatusCode, readBody(resp.Body)))
	}
	return nil
}

// Validate checks the server is reachable and the configured model is
// available, pulling it when missing. Not part of the query hot path.
func (e *OllamaEmbedder) Validate(ctx context.Context) error {
	names, err := e.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == e.model {
			return nil
		}
	}
	return e.PullModel(ctx, e.model)
}

func (e *OllamaEmbedder) ModelName() string {
	return e.model
}

func (e *OllamaEmbedder) unavailable(err error) error {
	return &domain.EmbeddingUnavailableError{URL: e.baseURL, Model: e.model, Err: err}
}

func readBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return "<unreadable body>"
	}
	return string(data)
}
