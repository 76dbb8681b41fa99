package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ContentChunk is a denormalized retrieval chunk in the chunks collection.
// Keeping a separate collection lets re-indexing replace a document's chunks
// with a delete-then-insert without touching the contents collection.
type ContentChunk struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ContentID primitive.ObjectID `bson:"content_id"`
	ChunkID   string             `bson:"chunk_id"`
	Order     int                `bson:"order"`
	Text      string             `bson:"text"`
	Title     string             `bson:"title"`
	Chapter   string             `bson:"chapter"`
	Vector    []float32          `bson:"vector"`
	Embedder  string             `bson:"embedder"`
}
