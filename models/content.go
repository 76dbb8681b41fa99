package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content is one chapter of the paper as stored in the contents collection.
// The pipeline only reads it; editing happens in the admin panel.
type Content struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Slug       string             `bson:"slug" json:"slug"`
	Body       string             `bson:"body" json:"body"`
	Source     string             `bson:"source,omitempty" json:"source,omitempty"`
	OrderIndex int                `bson:"order_index" json:"order_index"`
	CreatedAt  time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt  time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ContentSummary is the listing shape returned by GET /contents and /search.
type ContentSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Excerpt string `json:"excerpt,omitempty"`
	URL     string `json:"url,omitempty"`
}
