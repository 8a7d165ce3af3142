package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idilsaglam/todoclient/internal/model"
)

// JSON-backed storage for the dev backend. Single file, human-readable.
// Writes go to a temp file first and are renamed into place.

// DefaultFileName is used when no path is configured.
const DefaultFileName = "todos.json"

// Data is the on-disk document.
type Data struct {
	Todos  []model.Todo `json:"todos"`
	NextID int          `json:"next_id"`
}

// Load reads path. A missing file yields empty data with NextID 1.
func Load(path string) (Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Data{Todos: []model.Todo{}, NextID: 1}, nil
		}
		return Data{}, fmt.Errorf("read file: %w", err)
	}
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return Data{}, fmt.Errorf("json unmarshal: %w", err)
	}
	if d.Todos == nil {
		d.Todos = []model.Todo{}
	}
	for _, t := range d.Todos {
		if t.ID >= d.NextID {
			d.NextID = t.ID + 1
		}
	}
	if d.NextID < 1 {
		d.NextID = 1
	}
	return d, nil
}

// Save writes d to path, creating parent directories as needed.
func Save(path string, d Data) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
