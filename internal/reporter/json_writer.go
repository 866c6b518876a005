package reporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/qoslens/qoslens/internal/models"
	"github.com/qoslens/qoslens/pkg/config"
)

// WriteJSON writes the report to <output-dir>/report-<tenant>.json.
func WriteJSON(report *models.Report, cfg *config.Config) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	outputPath := filepath.Join(cfg.OutputDir, reportFileName(report, "json"))
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	slog.Debug("report written", slog.String("path", outputPath))
	return nil
}

func reportFileName(report *models.Report, ext string) string {
	if report.Metadata.TenantID == "" {
		return "report." + ext
	}
	return fmt.Sprintf("report-%s.%s", report.Metadata.TenantID, ext)
}
