// Package ingest runs the document processing pipeline: extract text,
// chunk it, embed the chunks, index the vectors, and enrich the document
// with a summary and keywords.
package ingest

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"docuvault/internal/blob"
	"docuvault/internal/contextutil"
	"docuvault/internal/extract"
	"docuvault/internal/llm"
	"docuvault/internal/service"
	"docuvault/internal/storage"
	"docuvault/internal/vectorstore"
)

// Enricher produces the optional summary and keywords for a processed
// document.
type Enricher interface {
	Summarize(ctx context.Context, text string) (string, error)
	ExtractKeywords(ctx context.Context, text string) ([]string, error)
}

// Pipeline processes uploaded documents. Runs for the same document
// serialize; runs for different documents may proceed concurrently.
type Pipeline struct {
	documents  storage.DocumentStore
	blobs      *blob.Store
	extractor  *extract.Extractor
	chunker    *Chunker
	embedder   llm.Embedder
	vectors    vectorstore.VectorStore
	enricher   Enricher
	collection string
	locks      *lockRegistry
}

// NewPipeline wires the processing pipeline.
func NewPipeline(
	documents storage.DocumentStore,
	blobs *blob.Store,
	extractor *extract.Extractor,
	chunker *Chunker,
	embedder llm.Embedder,
	vectors vectorstore.VectorStore,
	enricher Enricher,
	collection string,
) *Pipeline {
	return &Pipeline{
		documents:  documents,
		blobs:      blobs,
		extractor:  extractor,
		chunker:    chunker,
		embedder:   embedder,
		vectors:    vectors,
		enricher:   enricher,
		collection: collection,
		locks:      newLockRegistry(),
	}
}

// Process runs the full pipeline for one document. Extraction and embedding
// failures abort the run and leave the document unprocessed. A vector index
// failure is logged and the run continues; the document still becomes
// processed, just not searchable. Summary and keyword failures are
// best effort.
func (p *Pipeline) Process(ctx context.Context, doc *storage.DocumentRecord) error {
	release := p.locks.acquire(doc.ID)
	defer release()

	logger := contextutil.LoggerFromContext(ctx)

	data, err := p.blobs.Read(doc.FilePath)
	if err != nil {
		return fmt.Errorf("%w: read stored file: %v", service.ErrExtractionFailed, err)
	}

	kind, err := extract.KindForType(doc.FileType)
	if err != nil {
		return err
	}

	text, err := p.extractor.Extract(ctx, data, kind)
	if err != nil {
		return err
	}

	chunks := p.chunker.Split(text)
	if len(chunks) == 0 {
		logger.InfoContext(ctx, "document yielded no chunks, skipping index", "document_id", doc.ID)
		if err := p.documents.MarkProcessed(ctx, doc.ID, text, "", ""); err != nil {
			return fmt.Errorf("mark processed: %w", err)
		}
		return nil
	}

	// All chunks embed or none do.
	vecs, err := p.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return err
	}
	if len(vecs) != len(chunks) {
		return fmt.Errorf("%w: got %d vectors for %d chunks", service.ErrEmbeddingFailed, len(vecs), len(chunks))
	}

	indexed := p.reindex(ctx, doc.ID, chunks, vecs)

	summary, keywords := p.enrich(ctx, doc.ID, text)

	if err := p.documents.MarkProcessed(ctx, doc.ID, text, summary, storage.EncodeKeywords(keywords)); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}

	logger.InfoContext(ctx, "document processed",
		"document_id", doc.ID, "chunks", len(chunks), "indexed", indexed)
	return nil
}

// reindex replaces the document's points in the vector index. Stale points
// from a previous run are dropped first so a reprocessed document never
// leaves orphans behind. Index failures degrade the document to
// non-searchable but do not abort the run.
func (p *Pipeline) reindex(ctx context.Context, docID int64, chunks []string, vecs [][]float32) bool {
	logger := contextutil.LoggerFromContext(ctx)

	if err := p.vectors.DeleteByDocument(ctx, p.collection, docID); err != nil {
		logger.WarnContext(ctx, "failed to drop stale vectors, document will not be searchable",
			"document_id", docID, "error", err)
		return false
	}

	points := make([]vectorstore.Point, 0, len(chunks))
	for i, chunk := range chunks {
		points = append(points, vectorstore.Point{
			ID:  vectorstore.ChunkPointID(docID, i),
			Vec: vecs[i],
			Payload: map[string]any{
				"text":        chunk,
				"document_id": strconv.FormatInt(docID, 10),
				"chunk_index": i,
				"source":      fmt.Sprintf("document_%d", docID),
			},
		})
	}

	if err := p.vectors.Upsert(ctx, p.collection, points); err != nil {
		logger.WarnContext(ctx, "vector indexing failed, document will not be searchable",
			"document_id", docID, "error", err)
		return false
	}
	return true
}

// enrich generates the summary and keywords concurrently. Either may fail
// without affecting the run.
func (p *Pipeline) enrich(ctx context.Context, docID int64, text string) (string, []string) {
	logger := contextutil.LoggerFromContext(ctx)

	var (
		summary  string
		keywords []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := p.enricher.Summarize(gctx, text)
		if err != nil {
			logger.WarnContext(gctx, "summary generation failed", "document_id", docID, "error", err)
			return nil
		}
		summary = s
		return nil
	})
	g.Go(func() error {
		kws, err := p.enricher.ExtractKeywords(gctx, text)
		if err != nil {
			logger.WarnContext(gctx, "keyword extraction failed", "document_id", docID, "error", err)
			return nil
		}
		keywords = kws
		return nil
	})
	_ = g.Wait()

	return summary, keywords
}
