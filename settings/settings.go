// Package settings manages user preferences: a validated in-memory copy,
// persistence through the storage adapter, and change events for the UI.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"promptvault/events"
	"promptvault/model"
	"promptvault/store"
	vinput "promptvault/validation"
)

// EventType names every settings event.
type EventType string

const (
	EventLoaded       EventType = "settingsLoaded"
	EventChanged      EventType = "settingChanged"
	EventUpdated      EventType = "settingsUpdated"
	EventReset        EventType = "settingsReset"
	EventSaved        EventType = "settingsSaved"
	EventImported     EventType = "settingsImported"
	EventExported     EventType = "settingsExported"
	EventImportFailed EventType = "settingsImportFailed"
)

// Change pairs the old and new value of one setting.
type Change struct {
	Old any
	New any
}

// Event is the payload for every settings event; only the fields relevant
// to the event type are populated.
type Event struct {
	Type     EventType
	Key      string
	Value    any
	OldValue any
	Changes  map[string]Change
	Settings model.Settings
	Warnings []string
	Err      error
}

// Store holds the current settings and persists every accepted change
// immediately.
type Store struct {
	adapter  *store.Adapter
	logger   *slog.Logger
	hub      *events.Hub[EventType, Event]
	settings model.Settings
}

// NewStore starts with defaults; call Init to load persisted values.
func NewStore(adapter *store.Adapter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		adapter:  adapter,
		logger:   logger,
		hub:      events.NewHub[EventType, Event](logger),
		settings: model.DefaultSettings(),
	}
}

// Hub exposes the event hub for subscriptions.
func (s *Store) Hub() *events.Hub[EventType, Event] { return s.hub }

// Settings returns a copy of the current settings.
func (s *Store) Settings() model.Settings { return s.settings }

// Init loads persisted settings. Loading is lenient: missing keys keep
// their defaults and invalid values are surfaced as warnings. Only a
// backend failure is an error, and even then defaults remain usable.
func (s *Store) Init(ctx context.Context) error {
	loaded, warnings, err := s.adapter.LoadSettings(ctx)
	if err != nil {
		s.logger.Error("loading settings failed", "error", err)
		s.settings = model.DefaultSettings()
		s.hub.Emit(EventLoaded, Event{Type: EventLoaded, Settings: s.settings, Warnings: []string{"settings could not be loaded"}})
		return err
	}
	for _, w := range warnings {
		s.logger.Warn("settings value ignored", "warning", w)
	}
	s.settings = loaded
	s.hub.Emit(EventLoaded, Event{Type: EventLoaded, Settings: s.settings, Warnings: warnings})
	return nil
}

// Set validates and applies a single keyed value. Unknown keys and
// ill-typed or out-of-range values are rejected; setting a key to its
// current value is a silent no-op.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	next := s.settings
	old, err := applyKey(&next, key, value)
	if err != nil {
		return err
	}
	if next == s.settings {
		return nil
	}

	s.settings = next
	s.persist(ctx)
	s.hub.Emit(EventChanged, Event{Type: EventChanged, Key: key, Value: value, OldValue: old})
	return nil
}

// Update applies a full settings value, emitting one settingsUpdated event
// carrying the per-key diff. An update that changes nothing emits nothing.
func (s *Store) Update(ctx context.Context, next model.Settings) error {
	if err := validateEnums(next); err != nil {
		return err
	}

	changes := diff(s.settings, next)
	if len(changes) == 0 {
		return nil
	}

	s.settings = next
	s.persist(ctx)
	s.hub.Emit(EventUpdated, Event{Type: EventUpdated, Changes: changes, Settings: s.settings})
	return nil
}

// Reset restores the defaults and persists them.
func (s *Store) Reset(ctx context.Context) error {
	s.settings = model.DefaultSettings()
	s.persist(ctx)
	s.hub.Emit(EventReset, Event{Type: EventReset, Settings: s.settings})
	return nil
}

// Export produces the settings interchange document.
func (s *Store) Export() model.SettingsDocument {
	doc := model.SettingsDocument{
		Settings: settingsMap(s.settings),
		Exported: time.Now().UTC(),
		Version:  model.ExportVersion,
	}
	s.hub.Emit(EventExported, Event{Type: EventExported, Settings: s.settings})
	return doc
}

// ExportFilename names a settings export for the given day.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("prompt-library-settings-%s.json", now.UTC().Format("2006-01-02"))
}

// Import replaces the settings wholesale from an export document. The
// file must be valid JSON with a settings object; individual values are
// coerced leniently and reported as warnings.
func (s *Store) Import(ctx context.Context, raw []byte) ([]string, error) {
	var doc struct {
		Settings map[string]any `json:"settings"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		err = errors.New("error importing settings: not a valid JSON export")
		s.hub.Emit(EventImportFailed, Event{Type: EventImportFailed, Err: err})
		return nil, err
	}
	if doc.Settings == nil {
		err := errors.New("error importing settings: missing settings object")
		s.hub.Emit(EventImportFailed, Event{Type: EventImportFailed, Err: err})
		return nil, err
	}

	imported, warnings := vinput.ValidateSettings(doc.Settings)
	s.settings = imported
	s.persist(ctx)
	s.hub.Emit(EventImported, Event{Type: EventImported, Settings: s.settings, Warnings: warnings})
	return warnings, nil
}

// persist writes the settings. A storage failure is logged and skips the
// settingsSaved event but never blocks the change that triggered it.
func (s *Store) persist(ctx context.Context) {
	if err := s.adapter.SaveSettings(ctx, s.settings); err != nil {
		s.logger.Error("saving settings failed", "error", err)
		return
	}
	s.hub.Emit(EventSaved, Event{Type: EventSaved, Settings: s.settings})
}

// ResolveTheme maps the configured theme to a concrete one, consulting
// systemDark only for "auto".
func ResolveTheme(settings model.Settings, systemDark func() bool) model.Theme {
	if settings.Theme != model.ThemeAuto {
		return settings.Theme
	}
	if systemDark != nil && systemDark() {
		return model.ThemeDark
	}
	return model.ThemeLight
}

func applyKey(s *model.Settings, key string, value any) (old any, err error) {
	switch key {
	case "defaultFolder":
		v, ok := value.(string)
		if !ok || v == "" {
			return nil, fmt.Errorf("invalid value for %s: %v", key, value)
		}
		old, s.DefaultFolder = s.DefaultFolder, vinput.SanitizeForHTML(v)
	case "theme":
		v, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("invalid value for %s: %v", key, value)
		}
		if err := validation.Validate(v, validation.In("light", "dark", "auto")); err != nil {
			return nil, fmt.Errorf("invalid value for theme: %q", v)
		}
		old, s.Theme = s.Theme, model.Theme(v)
	case "autoSave":
		v, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("invalid value for %s: %v", key, value)
		}
		if err := validation.Validate(v, validation.In("immediate", "onClose", "manual")); err != nil {
			return nil, fmt.Errorf("invalid value for autoSave: %q", v)
		}
		old, s.AutoSave = s.AutoSave, model.AutoSaveMode(v)
	case "exportFormat":
		v, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("invalid value for %s: %v", key, value)
		}
		if err := validation.Validate(v, validation.In("json", "csv", "txt")); err != nil {
			return nil, fmt.Errorf("invalid value for exportFormat: %q", v)
		}
		old, s.ExportFormat = s.ExportFormat, model.ExportFormat(v)
	case "showDescriptions":
		v, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("invalid value for %s: %v", key, value)
		}
		old, s.ShowDescriptions = s.ShowDescriptions, v
	case "showTags":
		v, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("invalid value for %s: %v", key, value)
		}
		old, s.ShowTags = s.ShowTags, v
	case "autoCloseAfterCopy":
		v, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("invalid value for %s: %v", key, value)
		}
		old, s.AutoCloseAfterCopy = s.AutoCloseAfterCopy, v
	case "showToasts":
		v, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("invalid value for %s: %v", key, value)
		}
		old, s.ShowToasts = s.ShowToasts, v
	default:
		return nil, fmt.Errorf("unknown setting: %s", key)
	}
	return old, nil
}

func validateEnums(s model.Settings) error {
	if s.DefaultFolder == "" {
		return errors.New("invalid value for defaultFolder: empty")
	}
	if err := validation.Validate(string(s.Theme), validation.In("light", "dark", "auto")); err != nil {
		return fmt.Errorf("invalid value for theme: %q", s.Theme)
	}
	if err := validation.Validate(string(s.AutoSave), validation.In("immediate", "onClose", "manual")); err != nil {
		return fmt.Errorf("invalid value for autoSave: %q", s.AutoSave)
	}
	if err := validation.Validate(string(s.ExportFormat), validation.In("json", "csv", "txt")); err != nil {
		return fmt.Errorf("invalid value for exportFormat: %q", s.ExportFormat)
	}
	return nil
}

func diff(old, next model.Settings) map[string]Change {
	changes := make(map[string]Change)
	if old.DefaultFolder != next.DefaultFolder {
		changes["defaultFolder"] = Change{Old: old.DefaultFolder, New: next.DefaultFolder}
	}
	if old.Theme != next.Theme {
		changes["theme"] = Change{Old: old.Theme, New: next.Theme}
	}
	if old.AutoSave != next.AutoSave {
		changes["autoSave"] = Change{Old: old.AutoSave, New: next.AutoSave}
	}
	if old.ExportFormat != next.ExportFormat {
		changes["exportFormat"] = Change{Old: old.ExportFormat, New: next.ExportFormat}
	}
	if old.ShowDescriptions != next.ShowDescriptions {
		changes["showDescriptions"] = Change{Old: old.ShowDescriptions, New: next.ShowDescriptions}
	}
	if old.ShowTags != next.ShowTags {
		changes["showTags"] = Change{Old: old.ShowTags, New: next.ShowTags}
	}
	if old.AutoCloseAfterCopy != next.AutoCloseAfterCopy {
		changes["autoCloseAfterCopy"] = Change{Old: old.AutoCloseAfterCopy, New: next.AutoCloseAfterCopy}
	}
	if old.ShowToasts != next.ShowToasts {
		changes["showToasts"] = Change{Old: old.ShowToasts, New: next.ShowToasts}
	}
	return changes
}

func settingsMap(s model.Settings) map[string]any {
	return map[string]any{
		"defaultFolder":      s.DefaultFolder,
		"theme":              string(s.Theme),
		"autoSave":           string(s.AutoSave),
		"exportFormat":       string(s.ExportFormat),
		"showDescriptions":   s.ShowDescriptions,
		"showTags":           s.ShowTags,
		"autoCloseAfterCopy": s.AutoCloseAfterCopy,
		"showToasts":         s.ShowToasts,
	}
}
