package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pdf-chat-backend/utils"

	"github.com/gin-gonic/gin"
)

// SessionEnder tears down a session's index collection and stored files.
type SessionEnder interface {
	EndSession(ctx context.Context, sessionID string) (existed bool, err error)
}

type endSessionRequest struct {
	SessionID string `form:"session_id" json:"session_id" binding:"required"`
}

// SetupSessionRoutes registers the end-session endpoint. The endpoint always
// answers success-shaped: ending an unknown session is a no-op, and deletion
// failures are reported in the message rather than as an error status.
func SetupSessionRoutes(router *gin.Engine, ender SessionEnder) {
	router.POST("/end_session", func(c *gin.Context) {
		var req endSessionRequest
		if err := c.ShouldBind(&req); err != nil {
			utils.RespondWithBadRequest(c, "session_id is required", nil)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		existed, err := ender.EndSession(ctx, req.SessionID)
		switch {
		case err != nil:
			c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Error ending session: %v", err)})
		case existed:
			c.JSON(http.StatusOK, gin.H{"message": "Session ended and data cleared."})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Session not found."})
		}
	})
}
