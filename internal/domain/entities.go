package domain

// Chunk is a bounded contiguous span of text carved from a source document,
// the atomic unit of indexing and retrieval.
type Chunk struct {
	ID         string
	Text       string
	SourceFile string
	PageNumber int // 1-based; 0 when the format has no pagination
	Metadata   map[string]string
}

// Segment is one extracted unit of a document before chunking: a PDF page,
// a PPTX slide, or the whole body for formats without pagination.
type Segment struct {
	Text       string
	PageNumber int
	Metadata   map[string]string
}

// SearchResult pairs an indexed chunk with its similarity to a query.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// CatalogEntry records the fingerprint of one ingested document, used to
// decide whether the document needs reprocessing on later runs.
type CatalogEntry struct {
	Filename               string            `json:"filename"`
	FileSize               int64             `json:"file_size"`
	FileExtension          string            `json:"file_extension"`
	ChunkCount             int               `json:"chunk_count"`
	LastProcessed          string            `json:"last_processed"`
	LastProcessedTimestamp int64             `json:"last_processed_timestamp"`
	Metadata               map[string]string `json:"metadata"`
}

// StoreStats describes the current contents of a vector index.
type StoreStats struct {
	TotalChunks  int
	Dimension    int
	ModelName    string
	SourceCounts map[string]int
	DiskBytes    int64
}

// IngestResult aggregates the outcome of one ingestion run. Per-document
// failures are collected in Errors; they never abort the batch.
type IngestResult struct {
	DocumentsFound     int
	DocumentsProcessed int
	DocumentsSkipped   int
	DocumentsRemoved   int
	ChunksCreated      int
	Errors             []string
}

// Document processing statuses reported by single-document operations.
const (
	StatusProcessed = "processed"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// DocumentResult is the structured status of a single-document operation.
type DocumentResult struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	FilePath      string `json:"file_path"`
	ChunksCreated int    `json:"chunks_created"`
}
