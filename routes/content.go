package routes

import (
	"errors"
	"net/http"
	"strings"

	"phishing-paper-platform/internal/store"
	"phishing-paper-platform/models"
	"phishing-paper-platform/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func SetupContentRoutes(router *gin.Engine, contents *store.ContentStore) {
	router.GET("/contents", func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		all, err := contents.ListContents(ctx)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list contents", nil)
			return
		}

		summaries := make([]models.ContentSummary, 0, len(all))
		for _, content := range all {
			summaries = append(summaries, models.ContentSummary{
				ID:      content.ID.Hex(),
				Title:   content.Title,
				Slug:    content.Slug,
				Excerpt: excerptOf(content.Body, 150),
				URL:     "/contents/" + content.Slug,
			})
		}
		c.JSON(http.StatusOK, gin.H{"contents": summaries})
	})

	router.GET("/contents/:slug", func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		content, err := contents.GetBySlug(ctx, c.Param("slug"))
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				utils.RespondWithNotFound(c, "Content not found")
				return
			}
			utils.RespondWithInternalError(c, "Failed to load content", nil)
			return
		}
		c.JSON(http.StatusOK, content)
	})
}

func excerptOf(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
