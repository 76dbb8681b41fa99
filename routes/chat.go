package routes

import (
	"net/http"
	"strings"
	"time"

	"phishing-paper-platform/internal/config"
	"phishing-paper-platform/internal/logger"
	"phishing-paper-platform/internal/rag"
	"phishing-paper-platform/internal/store"
	"phishing-paper-platform/models"
	"phishing-paper-platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func SetupChatRoutes(router *gin.Engine, cfg *config.Config, retriever *rag.Retriever, composer *rag.Composer, messages *store.MessageStore) {
	router.POST("/chat", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		question := strings.TrimSpace(req.Message)
		if question == "" {
			utils.RespondWithBadRequest(c, "Message must not be empty", nil)
			return
		}

		// Unknown modes degrade to the conversational one
		mode := req.Mode
		if mode != models.ModeNormal && mode != models.ModeAcademic {
			mode = models.ModeNormal
		}

		conversationID := req.ConversationID
		if conversationID == "" {
			conversationID = uuid.NewString()
		}

		ctx, cancel := utils.WithLongTimeout(c.Request.Context())
		defer cancel()

		contextStr, sources, err := retriever.Context(ctx, question, 0)
		reply := rag.FallbackReply
		if err != nil {
			logger.Error("Retrieval failed", "error", err, "conversation_id", conversationID)
		} else {
			reply = composer.Answer(ctx, mode, contextStr, question)
		}

		resp := models.ChatResponse{
			Reply:          reply,
			Sources:        sources,
			Mode:           mode,
			ConversationID: conversationID,
			Timestamp:      time.Now(),
		}
		if resp.Sources == nil {
			resp.Sources = []models.SourceReference{}
		}

		// Transcript persistence is best effort
		if messages != nil {
			msgCtx, msgCancel := utils.WithTimeout(c.Request.Context())
			defer msgCancel()
			if err := messages.Insert(msgCtx, models.Message{
				ConversationID: conversationID,
				Message:        question,
				Reply:          resp.Reply,
				Mode:           mode,
				Sources:        resp.Sources,
				Timestamp:      resp.Timestamp,
			}); err != nil {
				logger.Warn("Failed to persist chat message", "error", err)
			}
		}

		c.JSON(http.StatusOK, resp)
	})

	router.GET("/chat/history/:conversation_id", func(c *gin.Context) {
		if messages == nil {
			c.JSON(http.StatusOK, gin.H{"messages": []models.Message{}})
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		history, err := messages.ListByConversation(ctx, c.Param("conversation_id"), 50)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to load history", nil)
			return
		}
		if history == nil {
			history = []models.Message{}
		}
		c.JSON(http.StatusOK, gin.H{"messages": history})
	})
}
