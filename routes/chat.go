package routes

import (
	"context"
	"net/http"
	"time"

	"pdf-chat-backend/models"
	"pdf-chat-backend/utils"

	"github.com/gin-gonic/gin"
)

// Answerer produces a retrieval-augmented answer for a session's query.
type Answerer interface {
	Answer(ctx context.Context, sessionID, query string) (*models.ChatResult, error)
}

// SetupChatRoutes registers the chat endpoint.
func SetupChatRoutes(router *gin.Engine, answerer Answerer) {
	router.POST("/chat", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBind(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
		defer cancel()

		result, err := answerer.Answer(ctx, req.SessionID, req.Query)
		if err != nil {
			utils.RespondWithPipelineError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ChatResponse{
			Answer:          result.Answer,
			SourceDocuments: result.Sources,
			SessionID:       req.SessionID,
		})
	})
}
