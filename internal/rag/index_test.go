package rag

import (
	"testing"
)

func testEntry(contentID, chunkID string, order int, vector []float32) IndexEntry {
	return IndexEntry{
		ChunkID:   chunkID,
		ContentID: contentID,
		Title:     "Abstrak",
		Chapter:   "abstrak",
		Order:     order,
		Text:      "teks",
		Vector:    vector,
	}
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	idx := NewVectorIndex("local/test-3", 3)
	err := idx.Upsert("doc1", []IndexEntry{
		testEntry("doc1", "doc1-0", 0, []float32{1, 0, 0}),
		testEntry("doc1", "doc1-1", 1, []float32{0, 1, 0}),
		testEntry("doc1", "doc1-2", 2, []float32{0.9, 0.1, 0}),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	results, err := idx.Search([]float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Entry.ChunkID != "doc1-0" {
		t.Fatalf("expected exact match first, got %s", results[0].Entry.ChunkID)
	}
	if results[1].Entry.ChunkID != "doc1-2" {
		t.Fatalf("expected near match second, got %s", results[1].Entry.ChunkID)
	}
	if results[0].Score < results[1].Score {
		t.Fatalf("scores not descending: %f < %f", results[0].Score, results[1].Score)
	}
}

func TestSearchStableOrderOnTies(t *testing.T) {
	idx := NewVectorIndex("local/test-2", 2)
	if err := idx.Upsert("doc1", []IndexEntry{testEntry("doc1", "doc1-0", 0, []float32{1, 0})}); err != nil {
		t.Fatalf("upsert doc1: %v", err)
	}
	if err := idx.Upsert("doc2", []IndexEntry{testEntry("doc2", "doc2-0", 0, []float32{1, 0})}); err != nil {
		t.Fatalf("upsert doc2: %v", err)
	}

	results, err := idx.Search([]float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if results[0].Entry.ChunkID != "doc1-0" || results[1].Entry.ChunkID != "doc2-0" {
		t.Fatalf("ties must preserve insertion order, got %s then %s",
			results[0].Entry.ChunkID, results[1].Entry.ChunkID)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := NewVectorIndex("local/test-2", 2)
	results, err := idx.Search([]float32{1, 0}, 4)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestSearchRejectsDimensionMismatch(t *testing.T) {
	idx := NewVectorIndex("local/test-3", 3)
	if _, err := idx.Search([]float32{1, 0}, 4); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}

func TestUpsertReplacesDocumentEntries(t *testing.T) {
	idx := NewVectorIndex("local/test-2", 2)
	if err := idx.Upsert("doc1", []IndexEntry{
		testEntry("doc1", "doc1-0", 0, []float32{1, 0}),
		testEntry("doc1", "doc1-1", 1, []float32{0, 1}),
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	if err := idx.Upsert("doc1", []IndexEntry{testEntry("doc1", "doc1-0", 0, []float32{0, 1})}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if idx.Count() != 1 {
		t.Fatalf("expected old entries replaced, count=%d", idx.Count())
	}
}

func TestUpsertRejectsBadBatchWithoutMutating(t *testing.T) {
	idx := NewVectorIndex("local/test-2", 2)
	if err := idx.Upsert("doc1", []IndexEntry{testEntry("doc1", "doc1-0", 0, []float32{1, 0})}); err != nil {
		t.Fatalf("seed upsert: %v", err)
	}

	err := idx.Upsert("doc1", []IndexEntry{
		testEntry("doc1", "doc1-0", 0, []float32{0, 1}),
		testEntry("doc1", "doc1-1", 1, []float32{0, 1, 0}), // wrong dimension
	})
	if err == nil {
		t.Fatalf("expected dimension error")
	}
	if idx.Count() != 1 {
		t.Fatalf("failed upsert must not change the index, count=%d", idx.Count())
	}

	results, serr := idx.Search([]float32{1, 0}, 1)
	if serr != nil {
		t.Fatalf("search: %v", serr)
	}
	if len(results) != 1 || results[0].Score < 0.99 {
		t.Fatalf("previous entries must survive a failed upsert: %v", results)
	}
}

func TestDeleteAndClear(t *testing.T) {
	idx := NewVectorIndex("local/test-2", 2)
	_ = idx.Upsert("doc1", []IndexEntry{testEntry("doc1", "doc1-0", 0, []float32{1, 0})})
	_ = idx.Upsert("doc2", []IndexEntry{testEntry("doc2", "doc2-0", 0, []float32{0, 1})})

	idx.Delete("doc1")
	if idx.Count() != 1 {
		t.Fatalf("expected 1 entry after delete, got %d", idx.Count())
	}

	idx.Clear()
	if idx.Count() != 0 {
		t.Fatalf("expected empty index after clear, got %d", idx.Count())
	}
}
