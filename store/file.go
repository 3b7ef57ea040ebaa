package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FileKV stores all keys in a single JSON file, decoded lazily on each
// operation. Writes go through a temp file and rename so a crash never
// leaves a half-written library; the previous content is kept as a .bak.
// A corrupt file is moved aside (never deleted) and recovery from the
// backup is attempted once.
type FileKV struct {
	path   string
	logger *slog.Logger
}

// NewFileKV creates the parent directory if needed.
func NewFileKV(path string, logger *slog.Logger) (*FileKV, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileKV{path: path, logger: logger}, nil
}

func (f *FileKV) backupPath() string { return f.path + ".bak" }

// read decodes the whole file. A missing file is an empty map. A corrupt
// file is quarantined as <path>.corrupt-<unix>; if the backup decodes, it
// becomes the working copy, otherwise the store starts empty.
func (f *FileKV) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err == nil {
		if entries == nil {
			entries = map[string]json.RawMessage{}
		}
		return entries, nil
	}

	quarantine := fmt.Sprintf("%s.corrupt-%d", f.path, time.Now().Unix())
	if renameErr := os.Rename(f.path, quarantine); renameErr != nil {
		return nil, fmt.Errorf("quarantine corrupt store: %w", renameErr)
	}
	f.logger.Warn("store file corrupt, moved aside", "quarantine", quarantine)

	backup, err := os.ReadFile(f.backupPath())
	if err == nil {
		if err := json.Unmarshal(backup, &entries); err == nil && entries != nil {
			f.logger.Warn("recovered store from backup")
			return entries, nil
		}
	}
	return map[string]json.RawMessage{}, nil
}

func (f *FileKV) write(entries map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	if current, err := os.ReadFile(f.path); err == nil {
		if err := os.WriteFile(f.backupPath(), current, 0o644); err != nil {
			f.logger.Warn("write store backup failed", "error", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func (f *FileKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	entries, err := f.read()
	if err != nil {
		return nil, false, err
	}
	raw, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	return raw, true, nil
}

func (f *FileKV) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := f.read()
	if err != nil {
		return err
	}
	entries[key] = json.RawMessage(value)
	return f.write(entries)
}

func (f *FileKV) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.write(map[string]json.RawMessage{})
}
