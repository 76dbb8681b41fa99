package rag

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// IndexEntry is one chunk with its vector, held in the in-memory index.
type IndexEntry struct {
	ChunkID   string
	ContentID string
	Title     string
	Chapter   string
	Order     int
	Text      string
	Vector    []float32
}

// SearchResult pairs an entry with its cosine similarity to the query.
type SearchResult struct {
	Entry IndexEntry
	Score float64
}

// VectorIndex is an in-memory cosine-similarity index over content chunks.
//
// The index is tagged with the identifier and dimension of the embedding
// function that produced its vectors; upserts and searches with a different
// dimension are rejected with an error rather than coerced, because a mixed
// index corrupts rankings silently.
//
// Upsert replaces all entries of one content document atomically: readers
// see either the old set or the new set, never a mix. Reads take a shared
// lock, so searches run concurrently with each other and only block for the
// duration of a per-document swap.
type VectorIndex struct {
	mu       sync.RWMutex
	embedder string
	dim      int
	entries  []IndexEntry
}

func NewVectorIndex(embedderID string, dim int) *VectorIndex {
	return &VectorIndex{embedder: embedderID, dim: dim}
}

// EmbedderID returns the identifier of the embedding function this index is
// tagged with.
func (idx *VectorIndex) EmbedderID() string {
	return idx.embedder
}

func (idx *VectorIndex) Dimension() int {
	return idx.dim
}

func (idx *VectorIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Upsert replaces every entry for contentID with the given entries. The
// entries are validated before any mutation, so a failed upsert leaves the
// previous entries intact.
func (idx *VectorIndex) Upsert(contentID string, entries []IndexEntry) error {
	if contentID == "" {
		return fmt.Errorf("index upsert: empty content id")
	}
	for _, e := range entries {
		if e.ContentID != contentID {
			return fmt.Errorf("index upsert: entry %s belongs to content %s, not %s", e.ChunkID, e.ContentID, contentID)
		}
		if len(e.Vector) != idx.dim {
			return fmt.Errorf("index upsert: entry %s has dimension %d, index expects %d", e.ChunkID, len(e.Vector), idx.dim)
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	kept := idx.entries[:0:0]
	for _, e := range idx.entries {
		if e.ContentID != contentID {
			kept = append(kept, e)
		}
	}
	idx.entries = append(kept, entries...)
	return nil
}

// Delete removes all entries for contentID.
func (idx *VectorIndex) Delete(contentID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	kept := idx.entries[:0:0]
	for _, e := range idx.entries {
		if e.ContentID != contentID {
			kept = append(kept, e)
		}
	}
	idx.entries = kept
}

// Clear drops every entry.
func (idx *VectorIndex) Clear() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = nil
}

// Search returns up to k entries ranked by descending cosine similarity.
// Ties keep insertion order. An empty index yields an empty result set; a
// query vector of the wrong dimension is an error.
func (idx *VectorIndex) Search(vector []float32, k int) ([]SearchResult, error) {
	if len(vector) != idx.dim {
		return nil, fmt.Errorf("index search: query vector dimension %d does not match index dimension %d", len(vector), idx.dim)
	}
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.entries) == 0 {
		return nil, nil
	}

	results := make([]SearchResult, 0, len(idx.entries))
	for _, e := range idx.entries {
		results = append(results, SearchResult{
			Entry: e,
			Score: cosineSimilarity(vector, e.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// cosineSimilarity computes (a.b)/(|a||b|). Zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
