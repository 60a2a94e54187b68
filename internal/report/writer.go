// Package report writes crawl artifacts to disk.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/pageharvest/harvester/internal/crawler"
)

const (
	reportFileName  = "crawl_report.json"
	contentFileName = "crawled_content.txt"
)

// Writer implements crawler.ReportWriter on the local filesystem.
type Writer struct {
	logger *zap.Logger
}

// NewWriter returns a filesystem report writer.
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

type reportPayload struct {
	URL             string           `json:"url"`
	SessionID       string           `json:"session_id"`
	Timestamp       string           `json:"timestamp"`
	DurationSeconds float64          `json:"duration_seconds"`
	PagesCrawled    int              `json:"pages_crawled"`
	Pages           []crawler.Record `json:"pages"`
}

// Write saves the structured report and the flattened text concatenation
// under dir, creating it if needed, and returns the written paths.
func (w *Writer) Write(dir string, summary crawler.Summary) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create report dir %s: %w", dir, err)
	}

	payload := reportPayload{
		URL:             summary.URL,
		SessionID:       summary.SessionID,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		DurationSeconds: summary.DurationSeconds,
		PagesCrawled:    summary.PagesCrawled,
		Pages:           summary.Records,
	}
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	reportPath := filepath.Join(dir, reportFileName)
	if err := os.WriteFile(reportPath, raw, 0o600); err != nil {
		return nil, fmt.Errorf("write report %s: %w", reportPath, err)
	}

	contentPath := filepath.Join(dir, contentFileName)
	if err := os.WriteFile(contentPath, []byte(summary.FullText), 0o600); err != nil {
		return nil, fmt.Errorf("write content %s: %w", contentPath, err)
	}

	w.logger.Debug("report artifacts written",
		zap.String("report", reportPath), zap.String("content", contentPath))
	return []string{reportPath, contentPath}, nil
}
