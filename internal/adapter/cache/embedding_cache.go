// Package cache persists text embeddings so unchanged chunks are not
// re-embedded across forced refreshes.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

var bucketEmbeddings = []byte("embeddings")

// EmbeddingCache is a BoltDB-backed map from (model, text) to vector.
type EmbeddingCache struct {
	db *bbolt.DB
}

// OpenEmbeddingCache opens (creating if needed) a cache database at path.
func OpenEmbeddingCache(path string) (*EmbeddingCache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEmbeddings)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create embeddings bucket: %w", err)
	}

	return &EmbeddingCache{db: db}, nil
}

// cacheKey hashes model and text into a fixed-size key. The model is part
// of the key so switching models never serves stale vectors.
func cacheKey(model, text string) []byte {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return h.Sum(nil)
}

// Get returns the cached vector for (model, text), if present.
func (c *EmbeddingCache) Get(model, text string) ([]float32, bool) {
	var vec []float32
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketEmbeddings).Get(cacheKey(model, text))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &vec)
	})
	if err != nil || vec == nil {
		return nil, false
	}
	return vec, true
}

// Put stores a vector for (model, text).
func (c *EmbeddingCache) Put(model, text string, vec []float32) error {
	data, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEmbeddings).Put(cacheKey(model, text), data)
	})
}

// Len returns the number of cached vectors.
func (c *EmbeddingCache) Len() int {
	n := 0
	c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketEmbeddings).Stats().KeyN
		return nil
	})
	return n
}

func (c *EmbeddingCache) Close() error {
	return c.db.Close()
}
