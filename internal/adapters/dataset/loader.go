package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Zato1one/weatherhist/internal/domain/weather"
)

// Loader reads weather records from a backing source.
type Loader interface {
	// Load reads and decodes all records, honoring ctx for cancellation.
	Load(ctx context.Context) ([]weather.Record, error)

	// Source names the backing source, e.g., a file path.
	Source() string
}

// FileLoader loads the dataset from a JSON file on disk. The file holds
// a single array of daily records.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader for the given file path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

// Load reads and decodes the dataset file.
func (l *FileLoader) Load(ctx context.Context) ([]weather.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load cancelled: %w", err)
	}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %q: %w", l.path, err)
	}

	var records []weather.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode dataset %q: %w", l.path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %q: %w", l.path, ErrEmptyDataset)
	}

	return records, nil
}

// Source returns the dataset file path.
func (l *FileLoader) Source() string {
	return l.path
}
