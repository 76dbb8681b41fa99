package routes

import (
	"net/http"

	"phishing-paper-platform/internal/rag"
	"phishing-paper-platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func SetupHealthRoutes(router *gin.Engine, mongoClient *mongo.Client, rdb *redis.Client, retriever *rag.Retriever) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"indexed_chunks": retriever.Index().Count(),
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := utils.WithShortTimeout(c.Request.Context())
		defer cancel()

		if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "mongo unavailable"})
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}
