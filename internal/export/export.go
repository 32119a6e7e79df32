package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/checkmark/internal/app"
	"github.com/shrimpsizemoose/checkmark/internal/privacy"
)

const ManifestFile = "manifest.json"

// Manifest describes one export run next to the exported files.
type Manifest struct {
	ExportID    string  `json:"export_id"`
	Component   string  `json:"component"`
	UserID      int64   `json:"userid"`
	Contexts    []int64 `json:"contexts"`
	GeneratedAt string  `json:"generated_at_utc"`
}

// UserDir is the directory a user's export lands in below outputDir.
func UserDir(outputDir string, userID int64) string {
	return filepath.Join(outputDir, fmt.Sprintf("user-%d", userID))
}

// ToDirectory exports the approved user data and writes it as JSON files
// into the user's directory below outputDir.
func ToDirectory(ctx context.Context, service *app.Service, approved privacy.ApprovedContextList, outputDir string) (string, error) {
	doc, err := service.ExportUser(ctx, approved)
	if err != nil {
		return "", fmt.Errorf("failed to export user %d: %w", approved.UserID, err)
	}

	dir := UserDir(outputDir, approved.UserID)
	if err := doc.Flush(dir); err != nil {
		return "", fmt.Errorf("failed to write export of user %d: %w", approved.UserID, err)
	}

	manifest := Manifest{
		ExportID:    uuid.New().String(),
		Component:   privacy.Component,
		UserID:      approved.UserID,
		Contexts:    doc.ContextIDs(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := writeManifest(dir, &manifest); err != nil {
		return "", err
	}

	logger.Info.Printf("Exported user %d: %d contexts into %s (export %s)",
		approved.UserID, len(manifest.Contexts), dir, manifest.ExportID)
	return dir, nil
}

func writeManifest(dir string, manifest *Manifest) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	content, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), content, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
