package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ConnectMongoDB(cfg *Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	// Test connection
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	// Create indexes
	err = createIndexes(client, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	return client, nil
}

func createIndexes(client *mongo.Client, dbName string) error {
	db := client.Database(dbName)

	// Contents collection indexes
	contentsCollection := db.Collection("contents")
	contentIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "order_index", Value: 1}},
		},
	}
	_, err := contentsCollection.Indexes().CreateMany(context.Background(), contentIndexes)
	if err != nil {
		return err
	}

	// Chunks collection indexes for re-index deletes and startup loads
	chunksCollection := db.Collection("chunks")
	chunkIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "content_id", Value: 1}}},
		{Keys: bson.D{{Key: "chunk_id", Value: 1}}},
		{Keys: bson.D{{Key: "content_id", Value: 1}, {Key: "order", Value: 1}}},
	}
	_, err = chunksCollection.Indexes().CreateMany(context.Background(), chunkIndexes)
	if err != nil {
		return err
	}

	// Messages collection indexes
	messagesCollection := db.Collection("messages")
	messageIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "conversation_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "timestamp", Value: -1}},
		},
	}
	_, err = messagesCollection.Indexes().CreateMany(context.Background(), messageIndexes)
	if err != nil {
		return err
	}

	return nil
}
