package settings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"promptvault/model"
	"promptvault/store"
)

func newStore(t *testing.T) (*Store, *store.MemoryKV) {
	t.Helper()
	kv := store.NewMemoryKV()
	s := NewStore(store.NewAdapter(kv, nil), nil)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	return s, kv
}

func TestInitWithEmptyStorageUsesDefaults(t *testing.T) {
	s, _ := newStore(t)
	if s.Settings() != model.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", s.Settings())
	}
}

func TestSetPersistsAndEmitsChange(t *testing.T) {
	s, kv := newStore(t)
	ctx := context.Background()

	var got Event
	s.Hub().Subscribe(EventChanged, func(e Event) { got = e })

	if err := s.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if s.Settings().Theme != model.ThemeDark {
		t.Fatalf("theme not applied: %q", s.Settings().Theme)
	}
	if got.Key != "theme" || got.Value != "dark" || got.OldValue != model.ThemeLight {
		t.Fatalf("unexpected change event %+v", got)
	}

	raw, found, err := kv.Get(ctx, store.KeySettings)
	if err != nil || !found {
		t.Fatalf("settings not persisted: found=%v err=%v", found, err)
	}
	var persisted model.Settings
	if err := json.Unmarshal(raw, &persisted); err != nil {
		t.Fatalf("persisted settings unreadable: %v", err)
	}
	if persisted.Theme != model.ThemeDark {
		t.Fatalf("persisted theme wrong: %q", persisted.Theme)
	}
}

func TestSetRejectsInvalidValues(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "theme", "purple"); err == nil {
		t.Fatal("invalid enum must fail")
	}
	if err := s.Set(ctx, "showToasts", "yes"); err == nil {
		t.Fatal("ill-typed value must fail")
	}
	if err := s.Set(ctx, "unknownKey", true); err == nil {
		t.Fatal("unknown key must fail")
	}
	if s.Settings() != model.DefaultSettings() {
		t.Fatal("rejected sets must not change anything")
	}
}

func TestSetToCurrentValueEmitsNothing(t *testing.T) {
	s, _ := newStore(t)

	calls := 0
	s.Hub().Subscribe(EventChanged, func(Event) { calls++ })

	if err := s.Set(context.Background(), "theme", "light"); err != nil {
		t.Fatalf("no-op set failed: %v", err)
	}
	if calls != 0 {
		t.Fatalf("no-op set emitted %d events", calls)
	}
}

func TestSetSurvivesPersistFailure(t *testing.T) {
	s, kv := newStore(t)
	kv.FailSet = errors.New("disk full")

	changed, saved := 0, 0
	s.Hub().Subscribe(EventChanged, func(Event) { changed++ })
	s.Hub().Subscribe(EventSaved, func(Event) { saved++ })

	if err := s.Set(context.Background(), "theme", "dark"); err != nil {
		t.Fatalf("a storage failure must not block the change: %v", err)
	}
	if s.Settings().Theme != model.ThemeDark {
		t.Fatalf("theme not applied: %q", s.Settings().Theme)
	}
	if changed != 1 {
		t.Fatalf("listeners must still hear the change, got %d events", changed)
	}
	if saved != 0 {
		t.Fatal("settingsSaved must not fire on a failed write")
	}
}

func TestUpdateEmitsDiff(t *testing.T) {
	s, _ := newStore(t)

	var got Event
	s.Hub().Subscribe(EventUpdated, func(e Event) { got = e })

	next := s.Settings()
	next.Theme = model.ThemeDark
	next.ShowTags = false
	if err := s.Update(context.Background(), next); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if len(got.Changes) != 2 {
		t.Fatalf("expected 2 changes, got %+v", got.Changes)
	}
	if got.Changes["theme"].New != model.ThemeDark {
		t.Fatalf("theme change missing: %+v", got.Changes)
	}
	if _, ok := got.Changes["showDescriptions"]; ok {
		t.Fatal("unchanged keys must not appear in the diff")
	}
}

func TestUpdateRejectsInvalidEnums(t *testing.T) {
	s, _ := newStore(t)
	next := s.Settings()
	next.ExportFormat = "pdf"
	if err := s.Update(context.Background(), next); err == nil {
		t.Fatal("invalid enum must fail")
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if s.Settings() != model.DefaultSettings() {
		t.Fatalf("expected defaults after reset, got %+v", s.Settings())
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "autoSave", "manual"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	doc := s.Export()
	if doc.Version != model.ExportVersion {
		t.Fatalf("unexpected version %q", doc.Version)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	other, _ := newStore(t)
	warnings, err := other.Import(ctx, raw)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("clean import produced warnings: %v", warnings)
	}
	if other.Settings().AutoSave != model.AutoSaveManual {
		t.Fatalf("imported value lost: %+v", other.Settings())
	}
}

func TestImportIsLenientPerValueButStrictOnShape(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	if _, err := s.Import(ctx, []byte("not json")); err == nil {
		t.Fatal("invalid JSON must fail")
	}
	if _, err := s.Import(ctx, []byte(`{"version":"1.0"}`)); err == nil {
		t.Fatal("missing settings object must fail")
	}

	warnings, err := s.Import(ctx, []byte(`{"settings":{"theme":"neon","showTags":false}}`))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "theme") {
		t.Fatalf("expected a theme warning, got %v", warnings)
	}
	if s.Settings().Theme != model.ThemeLight {
		t.Fatal("invalid value must fall back to the default")
	}
	if s.Settings().ShowTags {
		t.Fatal("valid value must apply")
	}
}

func TestResolveTheme(t *testing.T) {
	s := model.DefaultSettings()
	s.Theme = model.ThemeDark
	if ResolveTheme(s, nil) != model.ThemeDark {
		t.Fatal("explicit theme must pass through")
	}
	s.Theme = model.ThemeAuto
	if ResolveTheme(s, func() bool { return true }) != model.ThemeDark {
		t.Fatal("auto with dark system must resolve dark")
	}
	if ResolveTheme(s, func() bool { return false }) != model.ThemeLight {
		t.Fatal("auto with light system must resolve light")
	}
	if ResolveTheme(s, nil) != model.ThemeLight {
		t.Fatal("auto without a probe must resolve light")
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	if got := ExportFilename(now); got != "prompt-library-settings-2026-08-30.json" {
		t.Fatalf("unexpected filename %q", got)
	}
}
