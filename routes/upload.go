package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"pdf-chat-backend/internal/config"
	"pdf-chat-backend/models"
	"pdf-chat-backend/services"
	"pdf-chat-backend/utils"

	"github.com/gin-gonic/gin"
)

// Ingestor runs the upload-and-index pipeline for a batch of PDFs.
type Ingestor interface {
	Ingest(ctx context.Context, files []services.UploadedFile) (string, error)
}

// SetupUploadRoutes registers the PDF upload endpoint.
func SetupUploadRoutes(router *gin.Engine, cfg *config.Config, ingestor Ingestor) {
	router.POST("/upload_pdfs", func(c *gin.Context) {
		if err := c.Request.ParseMultipartForm(cfg.MaxFileSize); err != nil {
			utils.RespondWithBadRequest(c, "Failed to parse upload", gin.H{"error": err.Error()})
			return
		}

		form := c.Request.MultipartForm
		headers := form.File["files"]
		if len(headers) == 0 {
			utils.RespondWithBadRequest(c, "No files provided", nil)
			return
		}

		uploads := make([]services.UploadedFile, 0, len(headers))
		for _, header := range headers {
			if header.Size > cfg.MaxFileSize {
				utils.RespondWithError(c, http.StatusBadRequest, "file_too_large",
					fmt.Sprintf("File %s exceeds the maximum size", header.Filename), nil)
				return
			}

			file, err := header.Open()
			if err != nil {
				utils.RespondWithBadRequest(c, fmt.Sprintf("Cannot read file %s", header.Filename), nil)
				return
			}
			data, err := io.ReadAll(io.LimitReader(file, cfg.MaxFileSize))
			file.Close()
			if err != nil {
				utils.RespondWithBadRequest(c, fmt.Sprintf("Cannot read file %s", header.Filename), nil)
				return
			}

			uploads = append(uploads, services.UploadedFile{
				Name: header.Filename,
				Data: data,
			})
		}

		// Ingestion runs on its own server-side budget, detached from the
		// client connection: an upload that is abandoned mid-flight still
		// completes (or rolls itself back) here.
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.IngestTimeout)*time.Second)
		defer cancel()

		sessionID, err := ingestor.Ingest(ctx, uploads)
		if err != nil {
			utils.RespondWithPipelineError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.UploadResponse{SessionID: sessionID})
	})
}
