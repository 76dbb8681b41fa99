package routes

import (
	"net/http"
	"strings"

	"phishing-paper-platform/internal/store"
	"phishing-paper-platform/models"
	"phishing-paper-platform/utils"

	"github.com/gin-gonic/gin"
)

func SetupSearchRoutes(router *gin.Engine, contents *store.ContentStore) {
	router.GET("/search", func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if len([]rune(query)) < 2 {
			utils.RespondWithBadRequest(c, "Query must be at least 2 characters", nil)
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		results, err := contents.Search(ctx, query, 10)
		if err != nil {
			utils.RespondWithInternalError(c, "Search failed", nil)
			return
		}
		if results == nil {
			results = []models.ContentSummary{}
		}
		c.JSON(http.StatusOK, gin.H{"query": query, "results": results})
	})
}
