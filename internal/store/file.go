package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File is a single-file JSON KV backend, the closest analogue to the
// browser localStorage the deployment model assumes: whole-blob read,
// mutate, whole-blob rewrite. A crash mid-write can corrupt the file;
// that is an accepted limitation of the single-writer scope.
type File struct {
	mu   sync.Mutex
	path string
}

func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &File{path: path}, nil
}

func (f *File) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	records := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode store file: %w", err)
		}
	}
	return records, nil
}

func (f *File) save(records map[string]json.RawMessage) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o644)
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	records, err := f.load()
	if err != nil {
		return nil, false, err
	}
	v, ok := records[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	records, err := f.load()
	if err != nil {
		return err
	}
	if !json.Valid(value) {
		// The file is one JSON document, so members must be valid JSON.
		return fmt.Errorf("store value for %q is not valid JSON", key)
	}
	records[key] = json.RawMessage(value)
	return f.save(records)
}

func (f *File) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	records, err := f.load()
	if err != nil {
		return err
	}
	delete(records, key)
	return f.save(records)
}

func (f *File) Close() error { return nil }
