package routes

import (
	"errors"
	"net/http"

	"phishing-paper-platform/internal/config"
	"phishing-paper-platform/internal/logger"
	"phishing-paper-platform/internal/queue"
	"phishing-paper-platform/internal/rag"
	"phishing-paper-platform/internal/store"
	"phishing-paper-platform/middleware"
	"phishing-paper-platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupAdminRoutes registers the re-index endpoints behind the admin key.
// asynqClient may be nil, in which case only synchronous re-indexing is
// available.
func SetupAdminRoutes(router *gin.Engine, cfg *config.Config, retriever *rag.Retriever, contents *store.ContentStore, asynqClient *asynq.Client) {
	admin := router.Group("/admin")
	admin.Use(middleware.AdminKeyMiddleware(cfg))

	admin.POST("/index-content", func(c *gin.Context) {
		report, err := retriever.IngestAll(c.Request.Context())
		if err != nil {
			if errors.Is(err, rag.ErrReindexRunning) {
				utils.RespondWithError(c, http.StatusConflict, "reindex_in_progress",
					"A re-index is already running", nil)
				return
			}
			utils.RespondWithInternalError(c, "Re-index failed", gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, report)
	})

	admin.POST("/index-content/async", func(c *gin.Context) {
		if asynqClient == nil {
			utils.RespondWithInternalError(c, "Task queue is not configured", nil)
			return
		}

		task, err := queue.NewReindexTask(c.ClientIP())
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to create task", nil)
			return
		}

		info, err := asynqClient.EnqueueContext(c.Request.Context(), task)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to enqueue task", nil)
			return
		}

		logger.Info("Re-index task enqueued", "task_id", info.ID, "queue", info.Queue)
		c.JSON(http.StatusAccepted, gin.H{
			"status":  "queued",
			"task_id": info.ID,
		})
	})

	admin.GET("/contents", func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		all, err := contents.ListContents(ctx)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list contents", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"contents": all})
	})

	admin.DELETE("/contents/:slug", func(c *gin.Context) {
		slug := c.Param("slug")

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		content, err := contents.Delete(ctx, slug)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				utils.RespondWithNotFound(c, "Content not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to delete content", nil)
			return
		}

		if err := retriever.DeleteContent(ctx, content.ID.Hex()); err != nil {
			logger.Warn("Failed to drop chunks for deleted content", "slug", slug, "error", err)
		}

		logger.Info("Content deleted", "slug", slug, "content_id", content.ID.Hex())
		c.JSON(http.StatusOK, gin.H{"deleted": slug})
	})

	admin.GET("/index-status", func(c *gin.Context) {
		index := retriever.Index()
		c.JSON(http.StatusOK, gin.H{
			"chunks":   index.Count(),
			"embedder": index.EmbedderID(),
			"dim":      index.Dimension(),
		})
	})
}
