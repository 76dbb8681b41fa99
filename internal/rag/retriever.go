package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"phishing-paper-platform/internal/ai"
	"phishing-paper-platform/internal/config"
	"phishing-paper-platform/internal/logger"
	"phishing-paper-platform/internal/telemetry"
	"phishing-paper-platform/models"

	"golang.org/x/time/rate"
)

// NoRelevantContext is returned instead of an empty context string when no
// chunk clears the similarity threshold. Prompt construction relies on the
// context value never being empty.
const NoRelevantContext = "Tidak ada informasi relevan yang ditemukan dalam dokumen."

// ErrReindexRunning reports that another re-index run holds the ingest
// lock. Callers map it to a conflict, not a server failure.
var ErrReindexRunning = errors.New("re-index already running")

// ContentSource lists the chapter documents to ingest.
type ContentSource interface {
	ListContents(ctx context.Context) ([]models.Content, error)
}

// ChunkStore persists generated chunks so the index can be rebuilt at
// startup without re-embedding. Replacement must be delete-then-insert per
// content document.
type ChunkStore interface {
	ReplaceContentChunks(ctx context.Context, contentID string, chunks []models.ContentChunk) error
	DeleteContentChunks(ctx context.Context, contentID string) error
	ListChunks(ctx context.Context) ([]models.ContentChunk, error)
}

// IngestFailure records one document that could not be (re-)indexed.
type IngestFailure struct {
	ContentID string `json:"content_id"`
	Title     string `json:"title"`
	Error     string `json:"error"`
}

// IngestReport is the outcome of a full re-index run.
type IngestReport struct {
	DocumentsProcessed int             `json:"documents_processed"`
	ChunksGenerated    int             `json:"chunks_generated"`
	Failures           []IngestFailure `json:"failures"`
}

// Retriever orchestrates the pipeline: normalize -> chunk -> embed -> index
// at ingest time, and embed -> search -> format at query time.
type Retriever struct {
	contents ContentSource
	chunks   ChunkStore // optional; nil skips persistence
	embedder ai.Embedder
	index    *VectorIndex
	limiter  *rate.Limiter
	metrics  *telemetry.Metrics

	maxChunkSize int
	topK         int
	minScore     float64
	concurrency  int
	embedTimeout time.Duration

	// Re-index runs are exclusive relative to each other; searches are not
	// blocked because index swaps are atomic per document.
	ingestMu sync.Mutex
}

func NewRetriever(cfg *config.Config, contents ContentSource, chunks ChunkStore, embedder ai.Embedder, index *VectorIndex, metrics *telemetry.Metrics) (*Retriever, error) {
	if index.EmbedderID() != embedder.ID() {
		return nil, fmt.Errorf("index is tagged for embedder %q, got %q", index.EmbedderID(), embedder.ID())
	}
	if index.Dimension() != embedder.Dimension() {
		return nil, fmt.Errorf("index dimension %d does not match embedder dimension %d", index.Dimension(), embedder.Dimension())
	}

	concurrency := cfg.IngestConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	embedRate := rate.Inf
	if cfg.EmbedRPM > 0 {
		embedRate = rate.Limit(float64(cfg.EmbedRPM) / 60.0)
	}

	embedTimeout := time.Duration(cfg.EmbedTimeoutSec) * time.Second
	if embedTimeout <= 0 {
		embedTimeout = 15 * time.Second
	}

	return &Retriever{
		contents:     contents,
		chunks:       chunks,
		embedder:     embedder,
		index:        index,
		limiter:      rate.NewLimiter(embedRate, 1),
		metrics:      metrics,
		maxChunkSize: cfg.MaxChunkSize,
		topK:         cfg.RetrievalTopK,
		minScore:     cfg.MinSimilarity,
		concurrency:  concurrency,
		embedTimeout: embedTimeout,
	}, nil
}

// IngestAll re-runs ingestion over every content document. Documents fail
// independently: one embedding failure is recorded in the report and does
// not abort the rest. Only one run may be active at a time.
func (r *Retriever) IngestAll(ctx context.Context) (*IngestReport, error) {
	if !r.ingestMu.TryLock() {
		return nil, ErrReindexRunning
	}
	defer r.ingestMu.Unlock()

	contents, err := r.contents.ListContents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}

	report := &IngestReport{Failures: []IngestFailure{}}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, r.concurrency)
	)

	for _, content := range contents {
		wg.Add(1)
		sem <- struct{}{}
		go func(c models.Content) {
			defer wg.Done()
			defer func() { <-sem }()

			n, err := r.ingestContent(ctx, c)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures = append(report.Failures, IngestFailure{
					ContentID: c.ID.Hex(),
					Title:     c.Title,
					Error:     err.Error(),
				})
				logger.Warn("Ingestion failed for document", "content_id", c.ID.Hex(), "title", c.Title, "error", err)
				return
			}
			report.DocumentsProcessed++
			report.ChunksGenerated += n
		}(content)
	}
	wg.Wait()

	r.metrics.RecordChunksIndexed(report.ChunksGenerated)
	logger.Info("Re-index finished",
		"documents_processed", report.DocumentsProcessed,
		"chunks_generated", report.ChunksGenerated,
		"failures", len(report.Failures))
	return report, nil
}

// ingestContent chunks and embeds one document, then swaps its entries in
// the store and the index. Any failure before the swap leaves the previous
// entries untouched.
func (r *Retriever) ingestContent(ctx context.Context, c models.Content) (int, error) {
	plain := NormalizeMarkdown(c.Body)
	if plain == "" {
		return 0, fmt.Errorf("empty body")
	}

	texts := ChunkSentences(plain, r.maxChunkSize)
	if len(texts) == 0 {
		return 0, fmt.Errorf("no chunks produced")
	}

	contentID := c.ID.Hex()
	stored := make([]models.ContentChunk, 0, len(texts))
	entries := make([]IndexEntry, 0, len(texts))

	for i, text := range texts {
		vector, err := r.embed(ctx, text)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d: %w", i, err)
		}

		chunkID := fmt.Sprintf("%s-%d", contentID, i)
		stored = append(stored, models.ContentChunk{
			ContentID: c.ID,
			ChunkID:   chunkID,
			Order:     i,
			Text:      text,
			Title:     c.Title,
			Chapter:   c.Slug,
			Vector:    vector,
			Embedder:  r.embedder.ID(),
		})
		entries = append(entries, IndexEntry{
			ChunkID:   chunkID,
			ContentID: contentID,
			Title:     c.Title,
			Chapter:   c.Slug,
			Order:     i,
			Text:      text,
			Vector:    vector,
		})
	}

	if r.chunks != nil {
		if err := r.chunks.ReplaceContentChunks(ctx, contentID, stored); err != nil {
			return 0, fmt.Errorf("persist chunks: %w", err)
		}
	}

	if err := r.index.Upsert(contentID, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// LoadFromStore rebuilds the in-memory index from persisted chunks. Chunks
// produced by a different embedding function are skipped with a warning -
// they need a re-index, not a silent mix.
func (r *Retriever) LoadFromStore(ctx context.Context) (int, error) {
	if r.chunks == nil {
		return 0, nil
	}

	chunks, err := r.chunks.ListChunks(ctx)
	if err != nil {
		return 0, fmt.Errorf("list chunks: %w", err)
	}

	byContent := make(map[string][]IndexEntry)
	var order []string
	skipped := 0
	for _, chunk := range chunks {
		if chunk.Embedder != r.embedder.ID() || len(chunk.Vector) != r.index.Dimension() {
			skipped++
			continue
		}
		contentID := chunk.ContentID.Hex()
		if _, ok := byContent[contentID]; !ok {
			order = append(order, contentID)
		}
		byContent[contentID] = append(byContent[contentID], IndexEntry{
			ChunkID:   chunk.ChunkID,
			ContentID: contentID,
			Title:     chunk.Title,
			Chapter:   chunk.Chapter,
			Order:     chunk.Order,
			Text:      chunk.Text,
			Vector:    chunk.Vector,
		})
	}

	loaded := 0
	for _, contentID := range order {
		if err := r.index.Upsert(contentID, byContent[contentID]); err != nil {
			return loaded, err
		}
		loaded += len(byContent[contentID])
	}

	if skipped > 0 {
		logger.Warn("Skipped persisted chunks from another embedder, re-index required", "skipped", skipped, "embedder", r.embedder.ID())
	}
	return loaded, nil
}

// DeleteContent removes a document's chunks from the store and the index,
// in that order, so a failed store delete leaves stale entries searchable
// rather than resurrectable on restart.
func (r *Retriever) DeleteContent(ctx context.Context, contentID string) error {
	if r.chunks != nil {
		if err := r.chunks.DeleteContentChunks(ctx, contentID); err != nil {
			return err
		}
	}
	r.index.Delete(contentID)
	return nil
}

// Retrieve embeds the question and returns the ranked top-k results.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]SearchResult, error) {
	if k <= 0 {
		k = r.topK
	}

	vector, err := r.embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	start := time.Now()
	results, err := r.index.Search(vector, k)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordSearchDuration(time.Since(start).Seconds())
	return results, nil
}

// Context retrieves and formats the grounding context for a question. When
// nothing clears the similarity threshold the sentinel NoRelevantContext is
// returned with no sources.
func (r *Retriever) Context(ctx context.Context, question string, k int) (string, []models.SourceReference, error) {
	results, err := r.Retrieve(ctx, question, k)
	if err != nil {
		return "", nil, err
	}

	// Threshold is a post-filter on the ranked list
	filtered := results[:0:0]
	for _, result := range results {
		if result.Score >= r.minScore {
			filtered = append(filtered, result)
		}
	}

	if len(filtered) == 0 {
		return NoRelevantContext, nil, nil
	}

	blocks := make([]string, 0, len(filtered))
	sources := make([]models.SourceReference, 0, len(filtered))
	for i, result := range filtered {
		blocks = append(blocks, fmt.Sprintf("[Sumber %d: %s - %s]\n%s",
			i+1, result.Entry.Title, result.Entry.Chapter, result.Entry.Text))
		sources = append(sources, models.SourceReference{
			Title:          result.Entry.Title,
			Chapter:        result.Entry.Chapter,
			Snippet:        makeSnippet(result.Entry.Text, 150),
			RelevanceScore: result.Score,
		})
	}

	return strings.Join(blocks, "\n\n---\n\n"), sources, nil
}

// Index exposes the underlying vector index.
func (r *Retriever) Index() *VectorIndex {
	return r.index
}

// embed applies the shared rate limit and per-call timeout around the
// embedding service.
func (r *Retriever) embed(ctx context.Context, text string) ([]float32, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	embedCtx, cancel := context.WithTimeout(ctx, r.embedTimeout)
	defer cancel()

	return r.embedder.Embed(embedCtx, text)
}

func makeSnippet(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
