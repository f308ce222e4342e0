package services

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"pdf-chat-backend/internal/logger"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts plain text from PDF bytes. The pure-Go reader is
// tried first; if it yields nothing usable, pdftotext (poppler) is tried as a
// redundant parse before giving up.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract returns the full text content of one PDF document.
func (e *PDFExtractor) Extract(ctx context.Context, content []byte, filename string) (string, error) {
	text, err := e.extractWithGoPDF(content)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	if err != nil {
		logger.Debug("go-pdf extraction failed, trying pdftotext", "file", filename, "error", err)
	}

	text, popplerErr := e.extractWithPoppler(ctx, content)
	if popplerErr == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}

	if err == nil {
		err = fmt.Errorf("no text content")
	}
	return "", fmt.Errorf("failed to extract text from %s: %v", filename, err)
}

func (e *PDFExtractor) extractWithGoPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var textBuilder strings.Builder
	pages := reader.NumPage()

	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			logger.Debug("Failed to extract text from page", "page", i, "error", err)
			continue
		}

		if textBuilder.Len() > 0 {
			textBuilder.WriteString("\n\n")
		}
		textBuilder.WriteString(text)
	}

	return textBuilder.String(), nil
}

func (e *PDFExtractor) extractWithPoppler(ctx context.Context, content []byte) (string, error) {
	extractCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	cmd := exec.CommandContext(extractCtx, "pdftotext", "-layout", "-", "-")
	cmd.Stdin = bytes.NewReader(content)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext failed: %v, stderr: %s", err, stderr.String())
	}

	return stdout.String(), nil
}
