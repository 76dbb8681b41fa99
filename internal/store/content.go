package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"phishing-paper-platform/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContentStore reads and writes the paper chapter documents.
type ContentStore struct {
	col *mongo.Collection
}

func NewContentStore(db *mongo.Database) *ContentStore {
	return &ContentStore{col: db.Collection("contents")}
}

// ListContents returns every chapter in reading order.
func (s *ContentStore) ListContents(ctx context.Context) ([]models.Content, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list contents: %w", err)
	}
	defer cursor.Close(ctx)

	var contents []models.Content
	if err := cursor.All(ctx, &contents); err != nil {
		return nil, fmt.Errorf("failed to decode contents: %w", err)
	}
	return contents, nil
}

// GetBySlug returns one chapter. mongo.ErrNoDocuments is passed through so
// handlers can map it to 404.
func (s *ContentStore) GetBySlug(ctx context.Context, slug string) (*models.Content, error) {
	var content models.Content
	if err := s.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&content); err != nil {
		return nil, err
	}
	return &content, nil
}

// Upsert inserts or updates a chapter keyed by slug. Used by the seeder and
// by content imports.
func (s *ContentStore) Upsert(ctx context.Context, content models.Content) error {
	update := bson.M{
		"$set": bson.M{
			"title":       content.Title,
			"body":        content.Body,
			"source":      content.Source,
			"order_index": content.OrderIndex,
			"updated_at":  content.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"slug":       content.Slug,
			"created_at": content.CreatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.col.UpdateOne(ctx, bson.M{"slug": content.Slug}, update, opts); err != nil {
		return fmt.Errorf("failed to upsert content %s: %w", content.Slug, err)
	}
	return nil
}

// Delete removes a chapter by slug and returns the deleted document so the
// caller can drop its chunks. mongo.ErrNoDocuments is passed through.
func (s *ContentStore) Delete(ctx context.Context, slug string) (*models.Content, error) {
	var content models.Content
	if err := s.col.FindOneAndDelete(ctx, bson.M{"slug": slug}).Decode(&content); err != nil {
		return nil, err
	}
	return &content, nil
}

// Search does a case-insensitive substring match over title and body and
// returns summaries with a short excerpt around the first match.
func (s *ContentStore) Search(ctx context.Context, query string, limit int) ([]models.ContentSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	// Quote the query so user input cannot inject regex syntax
	pattern := regexp.QuoteMeta(query)
	filter := bson.M{
		"$or": []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"body": bson.M{"$regex": pattern, "$options": "i"}},
		},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "order_index", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search contents: %w", err)
	}
	defer cursor.Close(ctx)

	var contents []models.Content
	if err := cursor.All(ctx, &contents); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	summaries := make([]models.ContentSummary, 0, len(contents))
	for _, content := range contents {
		summaries = append(summaries, models.ContentSummary{
			ID:      content.ID.Hex(),
			Title:   content.Title,
			Slug:    content.Slug,
			Excerpt: makeExcerpt(content.Body, query, 150),
			URL:     "/contents/" + content.Slug,
		})
	}
	return summaries, nil
}

// makeExcerpt returns up to max runes around the first occurrence of query,
// falling back to the document start when the match is only in the title.
func makeExcerpt(body, query string, max int) string {
	runes := []rune(body)
	start := 0
	if idx := strings.Index(strings.ToLower(body), strings.ToLower(query)); idx >= 0 {
		start = len([]rune(body[:idx]))
		if start > 40 {
			start -= 40
		} else {
			start = 0
		}
	}

	end := start + max
	if end > len(runes) {
		end = len(runes)
	}
	excerpt := strings.TrimSpace(string(runes[start:end]))
	if start > 0 {
		excerpt = "..." + excerpt
	}
	if end < len(runes) {
		excerpt += "..."
	}
	return excerpt
}
