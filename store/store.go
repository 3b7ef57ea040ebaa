// Package store persists the library. A small KV abstraction hides the
// backend (single JSON file or sqlite); the Adapter on top owns the
// storage keys, schema repair and defaulting so callers always receive a
// usable dataset.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"promptvault/model"
	"promptvault/validation"
)

// Storage keys. One value per concern, JSON-encoded.
const (
	KeyPrompts  = "prompts"
	KeyFolders  = "folders"
	KeySettings = "settings"
)

// MaxStoredPrompts caps the persisted library; the oldest entries are
// dropped first when the cap is exceeded.
const MaxStoredPrompts = 2000

// KV is a minimal key/value backend. Get reports presence explicitly so
// an absent key is not an error.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}

// Adapter layers schema repair and defaulting over a KV backend.
type Adapter struct {
	kv     KV
	logger *slog.Logger
}

// NewAdapter wraps a backend. A nil logger falls back to slog.Default.
func NewAdapter(kv KV, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{kv: kv, logger: logger}
}

// LoadResult is a complete, repaired dataset. ShouldSave is set when the
// loaded data differed from what was stored (defaults seeded, entries
// repaired or dropped) and should be written back once.
type LoadResult struct {
	Prompts          []model.Prompt
	Folders          model.FolderMap
	Settings         model.Settings
	SettingsWarnings []string
	ShouldSave       bool
}

// Load reads and repairs all three keys. Corrupt or missing values fall
// back to defaults rather than failing; only backend errors propagate.
func (a *Adapter) Load(ctx context.Context) (LoadResult, error) {
	var res LoadResult

	prompts, repaired, err := a.loadPrompts(ctx)
	if err != nil {
		return LoadResult{}, err
	}
	res.Prompts = prompts
	res.ShouldSave = res.ShouldSave || repaired

	folders, repaired, err := a.loadFolders(ctx)
	if err != nil {
		return LoadResult{}, err
	}
	res.Folders = folders
	res.ShouldSave = res.ShouldSave || repaired

	settings, warnings, err := a.LoadSettings(ctx)
	if err != nil {
		return LoadResult{}, err
	}
	res.Settings = settings
	res.SettingsWarnings = warnings

	return res, nil
}

func (a *Adapter) loadPrompts(ctx context.Context) ([]model.Prompt, bool, error) {
	raw, found, err := a.kv.Get(ctx, KeyPrompts)
	if err != nil {
		return nil, false, fmt.Errorf("load prompts: %w", err)
	}
	if !found {
		return model.DefaultPrompts(), true, nil
	}

	var stored []model.Prompt
	if err := json.Unmarshal(raw, &stored); err != nil {
		a.logger.Warn("stored prompts unreadable, falling back to defaults", "error", err)
		return model.DefaultPrompts(), true, nil
	}

	prompts, repaired := sanitizePrompts(stored)
	if repaired {
		a.logger.Warn("stored prompts repaired", "kept", len(prompts), "stored", len(stored))
	}
	return prompts, repaired, nil
}

func (a *Adapter) loadFolders(ctx context.Context) (model.FolderMap, bool, error) {
	raw, found, err := a.kv.Get(ctx, KeyFolders)
	if err != nil {
		return nil, false, fmt.Errorf("load folders: %w", err)
	}
	if !found {
		return model.DefaultFolders(), true, nil
	}

	var stored model.FolderMap
	if err := json.Unmarshal(raw, &stored); err != nil {
		a.logger.Warn("stored folders unreadable, falling back to defaults", "error", err)
		return model.DefaultFolders(), true, nil
	}

	folders, repaired := repairFolders(stored)
	if repaired {
		a.logger.Warn("stored folders repaired")
	}
	return folders, repaired, nil
}

// LoadSettings reads the settings key leniently: missing keys take their
// defaults and invalid values are reported as warnings, never as errors.
func (a *Adapter) LoadSettings(ctx context.Context) (model.Settings, []string, error) {
	raw, found, err := a.kv.Get(ctx, KeySettings)
	if err != nil {
		return model.Settings{}, nil, fmt.Errorf("load settings: %w", err)
	}
	if !found {
		return model.DefaultSettings(), nil, nil
	}

	var stored map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil {
		a.logger.Warn("stored settings unreadable, falling back to defaults", "error", err)
		return model.DefaultSettings(), []string{"stored settings were unreadable"}, nil
	}

	settings, warnings := validation.ValidateSettings(stored)
	return settings, warnings, nil
}

// Save writes prompts and folders.
func (a *Adapter) Save(ctx context.Context, prompts []model.Prompt, folders model.FolderMap) error {
	rawPrompts, err := json.Marshal(prompts)
	if err != nil {
		return fmt.Errorf("encode prompts: %w", err)
	}
	rawFolders, err := json.Marshal(folders)
	if err != nil {
		return fmt.Errorf("encode folders: %w", err)
	}
	if err := a.kv.Set(ctx, KeyPrompts, rawPrompts); err != nil {
		return fmt.Errorf("save prompts: %w", err)
	}
	if err := a.kv.Set(ctx, KeyFolders, rawFolders); err != nil {
		return fmt.Errorf("save folders: %w", err)
	}
	return nil
}

// SaveSettings writes the settings key.
func (a *Adapter) SaveSettings(ctx context.Context, settings model.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := a.kv.Set(ctx, KeySettings, raw); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Clear wipes the backend.
func (a *Adapter) Clear(ctx context.Context) error {
	return a.kv.Clear(ctx)
}

// sanitizePrompts drops unusable entries (missing id or title), dedupes
// ids keeping the first occurrence, and enforces MaxStoredPrompts by
// dropping the oldest entries from the front.
func sanitizePrompts(stored []model.Prompt) ([]model.Prompt, bool) {
	repaired := false
	seen := make(map[string]struct{}, len(stored))
	out := make([]model.Prompt, 0, len(stored))

	for _, p := range stored {
		if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Title) == "" {
			repaired = true
			continue
		}
		if _, dup := seen[p.ID]; dup {
			repaired = true
			continue
		}
		seen[p.ID] = struct{}{}
		if p.Tags == nil {
			p.Tags = []string{}
			repaired = true
		}
		out = append(out, p)
	}

	if len(out) > MaxStoredPrompts {
		out = out[len(out)-MaxStoredPrompts:]
		repaired = true
	}
	return out, repaired
}

// repairFolders restores the structural invariants: ids match keys,
// missing system folders are re-seeded, parents exist, and every
// subfolder list only names children that exist and point back.
func repairFolders(stored model.FolderMap) (model.FolderMap, bool) {
	repaired := false
	out := make(model.FolderMap, len(stored))

	for id, f := range stored {
		if strings.TrimSpace(id) == "" {
			repaired = true
			continue
		}
		if f.ID != id {
			f.ID = id
			repaired = true
		}
		out[id] = f
	}

	for id, def := range model.DefaultFolders() {
		if _, ok := out[id]; !ok {
			out[id] = def
			repaired = true
		}
	}

	for id, f := range out {
		if f.Parent != "" {
			if _, ok := out[f.Parent]; !ok {
				f.Parent = ""
				out[id] = f
				repaired = true
			}
		}

		kept := make([]string, 0, len(f.Subfolders))
		for _, sub := range f.Subfolders {
			child, ok := out[sub]
			if !ok || child.Parent != id {
				repaired = true
				continue
			}
			kept = append(kept, sub)
		}
		if len(kept) != len(f.Subfolders) || f.Subfolders == nil {
			f.Subfolders = kept
			out[id] = f
		}
	}

	// Children present in the map but missing from their parent's list.
	for id, f := range out {
		if f.Parent == "" {
			continue
		}
		parent := out[f.Parent]
		linked := false
		for _, sub := range parent.Subfolders {
			if sub == id {
				linked = true
				break
			}
		}
		if !linked {
			parent.Subfolders = append(parent.Subfolders, id)
			out[f.Parent] = parent
			repaired = true
		}
	}

	return out, repaired
}
