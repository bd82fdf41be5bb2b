package emit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opendatamd/regcrawl/internal/entity"
)

// FileSink writes entities as newline-delimited JSON.
type FileSink struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
}

// NewFileSink creates the output file, truncating any previous run.
func NewFileSink(path string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	writer := bufio.NewWriter(file)
	return &FileSink{
		file:    file,
		writer:  writer,
		encoder: json.NewEncoder(writer),
	}, nil
}

// Emit appends one entity as a JSON line.
func (s *FileSink) Emit(_ context.Context, e *entity.Entity) error {
	if err := s.encoder.Encode(e); err != nil {
		return fmt.Errorf("encode entity %s: %w", e.ID, err)
	}
	return nil
}

// Close flushes and closes the output file.
func (s *FileSink) Close() error {
	if err := s.writer.Flush(); err != nil {
		s.file.Close()
		return fmt.Errorf("flush output: %w", err)
	}
	return s.file.Close()
}
