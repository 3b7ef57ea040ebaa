package tui

import (
	"context"
	"errors"
	"testing"

	"promptvault/model"
	"promptvault/settings"
	"promptvault/state"
	"promptvault/store"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	adapter := store.NewAdapter(store.NewMemoryKV(), nil)
	st := settings.NewStore(adapter, nil)
	if err := st.Init(context.Background()); err != nil {
		t.Fatalf("settings init failed: %v", err)
	}
	mgr := state.NewManager(adapter, nil, nil)
	if err := mgr.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return NewModel(mgr, st, nil)
}

func TestNewModelReportsLoadFailure(t *testing.T) {
	kv := store.NewMemoryKV()
	kv.FailGet = errors.New("disk gone")
	adapter := store.NewAdapter(kv, nil)

	st := settings.NewStore(adapter, nil)
	initErr := st.Init(context.Background())
	mgr := state.NewManager(adapter, nil, nil)
	loadErr := mgr.Load(context.Background())
	if initErr == nil && loadErr == nil {
		t.Fatal("a broken backend must fail initialization")
	}

	m := NewModel(mgr, st, loadErr)
	if !m.statusErr {
		t.Fatal("a failed load must open with an error status")
	}
	if m.status == "Ready" {
		t.Fatalf("user must be told defaults are in use, got %q", m.status)
	}
}

func TestPaneWidthsStayUsable(t *testing.T) {
	m := newTestModel(t)
	for _, total := range []int{-5, 0, 30, 80, 200} {
		left, right := m.paneWidths(total)
		if left < 20 || right < 20 {
			t.Fatalf("total %d produced unusable panes %d/%d", total, left, right)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("hello", 10); got != "hello" {
		t.Fatalf("short strings must pass through, got %q", got)
	}
	if got := truncateRunes("hello world", 5); got != "hell…" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateRunes("hello", 0); got != "" {
		t.Fatalf("zero width must yield empty, got %q", got)
	}
}

func TestFolderRowsStartWithSyntheticViews(t *testing.T) {
	m := newTestModel(t)
	rows := m.folderRows()
	if len(rows) < 3 {
		t.Fatalf("expected synthetic views plus folders, got %d rows", len(rows))
	}
	if rows[0].id != model.FolderAll || rows[1].id != model.FolderFavorites {
		t.Fatalf("synthetic views must come first, got %+v", rows[:2])
	}
	for _, row := range rows[2:] {
		if row.synthetic {
			t.Fatalf("real folder marked synthetic: %+v", row)
		}
	}
}

func TestNextSettingValueCycles(t *testing.T) {
	m := newTestModel(t)

	if got := m.nextSettingValue("theme"); got != "dark" {
		t.Fatalf("light should cycle to dark, got %v", got)
	}
	if got := m.nextSettingValue("showToasts"); got != false {
		t.Fatalf("showToasts should toggle off, got %v", got)
	}
	if got := m.nextSettingValue("defaultFolder"); got == m.settings.Settings().DefaultFolder {
		t.Fatalf("default folder should advance, got %v", got)
	}
}

func TestViewRendersWithoutSize(t *testing.T) {
	m := newTestModel(t)
	if m.View() != "loading..." {
		t.Fatal("zero-size view must render the placeholder")
	}
}
