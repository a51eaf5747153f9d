package usecase

import (
	"context"
	"fmt"
	"os"

	"docrag/internal/domain"
	"docrag/internal/port"
)

// Pipeline is the high-level façade consumed by the CLI and by downstream
// generators. Conditions like "nothing indexed yet" are statuses, not
// errors.
type Pipeline struct {
	root      string
	maxChunks int
	threshold float64

	ingestor  *Ingestor
	retriever *Retriever
	index     port.VectorIndex
	catalog   port.Catalog
	validator port.SetupValidator

	// Load-time warnings from the store and catalog, surfaced in stats
	// and validation output.
	warnings []string
}

func NewPipeline(
	root string,
	maxChunks int,
	threshold float64,
	ingestor *Ingestor,
	retriever *Retriever,
	index port.VectorIndex,
	cat port.Catalog,
	validator port.SetupValidator,
	warnings []string,
) *Pipeline {
	return &Pipeline{
		root:      root,
		maxChunks: maxChunks,
		threshold: threshold,
		ingestor:  ingestor,
		retriever: retriever,
		index:     index,
		catalog:   cat,
		validator: validator,
		warnings:  warnings,
	}
}

// SetProgress installs a progress callback for ingestion runs.
func (p *Pipeline) SetProgress(fn ProgressFunc) {
	p.ingestor.Progress = fn
}

// Warnings returns load-time warnings from the store and catalog.
func (p *Pipeline) Warnings() []string {
	return append([]string(nil), p.warnings...)
}

// Initialize brings the index up to date with the document root,
// processing new and changed documents only.
func (p *Pipeline) Initialize(ctx context.Context) (*domain.IngestResult, error) {
	return p.ingestor.IngestAll(ctx, false)
}

// RefreshDocuments reprocesses every document regardless of catalog state.
func (p *Pipeline) RefreshDocuments(ctx context.Context) (*domain.IngestResult, error) {
	return p.ingestor.IngestAll(ctx, true)
}

// AddDocument ingests a single document by path. An unchanged document
// comes back with a skipped status unless force is set.
func (p *Pipeline) AddDocument(ctx context.Context, path string, force bool) *domain.DocumentResult {
	return p.ingestor.IngestFile(ctx, path, force)
}

// SearchDocuments returns the raw scored hits for a query.
func (p *Pipeline) SearchDocuments(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		k = p.maxChunks
	}
	return p.retriever.Search(ctx, query, k, p.threshold)
}

// RetrieveContext returns the formatted context block for a query. An
// empty index yields an empty string, not an error.
func (p *Pipeline) RetrieveContext(ctx context.Context, query string) (string, error) {
	return p.retriever.RetrieveContext(ctx, query, p.maxChunks, p.threshold)
}

// PipelineStats summarizes the current state of catalog and index.
type PipelineStats struct {
	DocumentsCataloged int
	Store              domain.StoreStats
	Warnings           []string
}

func (p *Pipeline) GetPipelineStats() PipelineStats {
	return PipelineStats{
		DocumentsCataloged: p.catalog.Len(),
		Store:              p.index.Stats(),
		Warnings:           p.Warnings(),
	}
}

// ClearAll drops the index and the catalog.
func (p *Pipeline) ClearAll() error {
	if err := p.index.Clear(); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	for _, path := range p.catalog.Paths() {
		p.catalog.Delete(path)
	}
	if err := p.catalog.Save(); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

// ValidationCheck is one named setup check.
type ValidationCheck struct {
	Name   string
	OK     bool
	Detail string
}

// ValidationReport aggregates setup checks with actionable recommendations.
type ValidationReport struct {
	Checks          []ValidationCheck
	Recommendations []string
}

// OK reports whether every check passed.
func (r *ValidationReport) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

// ValidateSetup checks the pieces a working pipeline needs: a documents
// directory, a reachable embedding service with the configured model, and
// an index with content.
func (p *Pipeline) ValidateSetup(ctx context.Context) *ValidationReport {
	report := &ValidationReport{}

	if info, err := os.Stat(p.root); err != nil {
		report.Checks = append(report.Checks, ValidationCheck{
			Name:   "documents directory",
			Detail: fmt.Sprintf("%s does not exist", p.root),
		})
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("create %s and place documents in it", p.root))
	} else if !info.IsDir() {
		report.Checks = append(report.Checks, ValidationCheck{
			Name:   "documents directory",
			Detail: fmt.Sprintf("%s is not a directory", p.root),
		})
	} else {
		report.Checks = append(report.Checks, ValidationCheck{
			Name: "documents directory", OK: true, Detail: p.root,
		})
	}

	if p.validator != nil {
		if err := p.validator.Validate(ctx); err != nil {
			report.Checks = append(report.Checks, ValidationCheck{
				Name:   "embedding service",
				Detail: err.Error(),
			})
			report.Recommendations = append(report.Recommendations,
				"check that the embedding service is running and the model is available")
		} else {
			report.Checks = append(report.Checks, ValidationCheck{
				Name: "embedding service", OK: true, Detail: "model available",
			})
		}
	}

	stats := p.index.Stats()
	if stats.TotalChunks == 0 {
		report.Checks = append(report.Checks, ValidationCheck{
			Name:   "vector index",
			Detail: "empty",
		})
		report.Recommendations = append(report.Recommendations,
			"run ingest to index the document collection")
	} else {
		report.Checks = append(report.Checks, ValidationCheck{
			Name: "vector index", OK: true,
			Detail: fmt.Sprintf("%d chunks from %d sources", stats.TotalChunks, len(stats.SourceCounts)),
		})
	}

	for _, w := range p.warnings {
		report.Recommendations = append(report.Recommendations, w)
	}

	return report
}
