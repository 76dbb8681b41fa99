package store

import (
	"context"
	"fmt"

	"phishing-paper-platform/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChunkStore persists embedded chunks so the vector index survives restarts.
type ChunkStore struct {
	col *mongo.Collection
}

func NewChunkStore(db *mongo.Database) *ChunkStore {
	return &ChunkStore{col: db.Collection("chunks")}
}

// ReplaceContentChunks swaps all chunks of one content document:
// delete-then-insert keyed by content id, so a re-index never leaves stale
// chunks behind.
func (s *ChunkStore) ReplaceContentChunks(ctx context.Context, contentID string, chunks []models.ContentChunk) error {
	oid, err := primitive.ObjectIDFromHex(contentID)
	if err != nil {
		return fmt.Errorf("invalid content id %s: %w", contentID, err)
	}

	if _, err := s.col.DeleteMany(ctx, bson.M{"content_id": oid}); err != nil {
		return fmt.Errorf("failed to delete old chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]interface{}, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chunk
	}
	if _, err := s.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}
	return nil
}

// ListChunks returns every persisted chunk, ordered by content and chunk
// order so index rebuilds are deterministic.
func (s *ChunkStore) ListChunks(ctx context.Context) ([]models.ContentChunk, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "content_id", Value: 1},
		{Key: "order", Value: 1},
	})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	defer cursor.Close(ctx)

	var chunks []models.ContentChunk
	if err := cursor.All(ctx, &chunks); err != nil {
		return nil, fmt.Errorf("failed to decode chunks: %w", err)
	}
	return chunks, nil
}

// DeleteContentChunks removes the chunks of a deleted content document.
func (s *ChunkStore) DeleteContentChunks(ctx context.Context, contentID string) error {
	oid, err := primitive.ObjectIDFromHex(contentID)
	if err != nil {
		return fmt.Errorf("invalid content id %s: %w", contentID, err)
	}
	if _, err := s.col.DeleteMany(ctx, bson.M{"content_id": oid}); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}
