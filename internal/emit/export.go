package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// MIME types for exported resources.
const (
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// resourceMeta is the metadata sidecar written next to an exported file.
type resourceMeta struct {
	File       string    `json:"file"`
	MimeType   string    `json:"mime_type"`
	Title      string    `json:"title"`
	RunID      string    `json:"run_id"`
	ExportedAt time.Time `json:"exported_at"`
}

// ExportResource republishes a raw downloaded file as a dataset artifact
// in the output directory, with a JSON metadata sidecar.
func ExportResource(outDir, path, mimeType, title, runID string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	name := filepath.Base(path)
	dest := filepath.Join(outDir, name)
	if err := copyFile(path, dest); err != nil {
		return fmt.Errorf("export %s: %w", name, err)
	}

	meta := resourceMeta{
		File:       name,
		MimeType:   mimeType,
		Title:      title,
		RunID:      runID,
		ExportedAt: time.Now().UTC(),
	}
	body, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal resource metadata: %w", err)
	}
	if err := os.WriteFile(dest+".meta.json", body, 0o644); err != nil {
		return fmt.Errorf("write resource metadata: %w", err)
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
