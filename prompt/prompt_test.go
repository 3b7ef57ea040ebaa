package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"promptvault/model"
	"promptvault/validation"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteText(ctx context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func samplePrompts() []model.Prompt {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return []model.Prompt{
		{ID: "p1", Title: "Review checklist", Description: "for PRs", Content: "Review this change", Category: "programming/code-review", Tags: []string{"review"}, Created: created},
		{ID: "p2", Title: "Debug helper", Content: "Find the bug", Category: "programming/debugging", Tags: []string{"debug"}, Favorite: true, Created: created},
		{ID: "p3", Title: "Email intro", Content: "Dear someone", Category: "business/emails", Tags: []string{"email"}, Created: created},
		{ID: "p4", Title: "Standalone", Content: "Plain prompt", Category: "programming", Created: created},
	}
}

func TestSaveAppendsNewPrompt(t *testing.T) {
	prompts := samplePrompts()
	out, saved, isNew, err := Save(prompts, validation.PromptForm{Title: "New", Content: "body", Tags: "a,b"}, "")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !isNew {
		t.Fatal("expected a new prompt")
	}
	if len(out) != len(prompts)+1 {
		t.Fatalf("expected %d prompts, got %d", len(prompts)+1, len(out))
	}
	if !strings.HasPrefix(saved.ID, "prompt_") {
		t.Fatalf("unexpected id %q", saved.ID)
	}
	if saved.Favorite || saved.LastUsed != nil {
		t.Fatalf("new prompts start unfavorited and unused: %+v", saved)
	}
	if saved.Created.IsZero() {
		t.Fatal("created timestamp missing")
	}
}

func TestSaveUpdatesExistingPrompt(t *testing.T) {
	prompts := samplePrompts()
	out, saved, isNew, err := Save(prompts, validation.PromptForm{Title: "Renamed", Content: "new body"}, "p2")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if isNew {
		t.Fatal("expected an update")
	}
	if saved.ID != "p2" || saved.Title != "Renamed" {
		t.Fatalf("unexpected result: %+v", saved)
	}
	if !saved.Favorite {
		t.Fatal("favorite flag must survive an edit")
	}
	if prompts[1].Title != "Debug helper" {
		t.Fatal("input slice was mutated")
	}
	if len(out) != len(prompts) {
		t.Fatalf("update must not change the count, got %d", len(out))
	}
}

func TestSaveRejectsInvalidForm(t *testing.T) {
	if _, _, _, err := Save(samplePrompts(), validation.PromptForm{Title: "no content"}, ""); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDeleteUnknownIsNoOp(t *testing.T) {
	prompts := samplePrompts()
	out, _, ok := Delete(prompts, "missing")
	if ok {
		t.Fatal("unknown id must report false")
	}
	if len(out) != len(prompts) {
		t.Fatal("no-op delete changed the slice")
	}

	out, deleted, ok := Delete(prompts, "p3")
	if !ok || deleted.ID != "p3" {
		t.Fatalf("delete failed: %v %+v", ok, deleted)
	}
	if len(out) != len(prompts)-1 {
		t.Fatalf("expected %d prompts, got %d", len(prompts)-1, len(out))
	}
}

func TestToggleFavoriteRoundTrip(t *testing.T) {
	prompts := samplePrompts()

	out, fav, err := ToggleFavorite(prompts, "p1")
	if err != nil || !fav {
		t.Fatalf("expected favorite=true, got %v, %v", fav, err)
	}
	out, fav, err = ToggleFavorite(out, "p1")
	if err != nil || fav {
		t.Fatalf("expected favorite=false, got %v, %v", fav, err)
	}
	if out[0].Favorite != prompts[0].Favorite {
		t.Fatal("double toggle must restore the original value")
	}

	if _, _, err := ToggleFavorite(prompts, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCopyStampsLastUsed(t *testing.T) {
	clip := &fakeClipboard{}
	prompts := samplePrompts()

	out, _, ok := Copy(context.Background(), clip, prompts, "p1")
	if !ok {
		t.Fatal("copy failed")
	}
	if clip.text != prompts[0].Content && clip.text != out[0].Content {
		t.Fatalf("clipboard got %q", clip.text)
	}
	if out[0].LastUsed == nil {
		t.Fatal("lastUsed not stamped")
	}
	if prompts[0].LastUsed != nil {
		t.Fatal("input slice was mutated")
	}
}

func TestCopyFailuresAreBenign(t *testing.T) {
	prompts := samplePrompts()
	if _, _, ok := Copy(context.Background(), &fakeClipboard{err: errors.New("no tty")}, prompts, "p1"); ok {
		t.Fatal("clipboard error must report failure")
	}
	if _, _, ok := Copy(context.Background(), &fakeClipboard{}, prompts, "missing"); ok {
		t.Fatal("unknown id must report failure")
	}
	if _, _, ok := Copy(context.Background(), nil, prompts, "p1"); ok {
		t.Fatal("nil clipboard must report failure")
	}
	if prompts[0].LastUsed != nil {
		t.Fatal("failed copies must not stamp lastUsed")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	prompts := samplePrompts()
	doc := Export(prompts)
	if doc.Version != model.ExportVersion {
		t.Fatalf("unexpected version %q", doc.Version)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	out, count, err := Import(nil, raw)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if count != len(prompts) {
		t.Fatalf("expected %d imported, got %d", len(prompts), count)
	}
	for i, p := range out {
		if !strings.HasPrefix(p.ID, "imported_") {
			t.Fatalf("imported prompt %d kept id %q", i, p.ID)
		}
		if p.Title != prompts[i].Title || p.Category != prompts[i].Category {
			t.Fatalf("prompt %d content drifted: %+v", i, p)
		}
	}
}

func TestImportRejectsBadInput(t *testing.T) {
	existing := samplePrompts()

	if _, _, err := Import(existing, []byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
	if _, _, err := Import(existing, []byte(`{"other": []}`)); err == nil {
		t.Fatal("expected missing prompts array error")
	}
	if _, _, err := Import(existing, []byte(`{"prompts": [{"title":"x"}]}`)); err == nil {
		t.Fatal("entry without content must fail the batch")
	}
	if len(existing) != 4 {
		t.Fatal("failed imports must leave the input untouched")
	}
}

func TestFilterSearchOverridesFolder(t *testing.T) {
	prompts := samplePrompts()
	folders := model.DefaultFolders()

	got := Filter(prompts, folders, "business/emails", "  DEBUG ")
	if len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("search should span all folders, got %+v", got)
	}
}

func TestFilterSearchesTitleDescriptionAndTags(t *testing.T) {
	prompts := samplePrompts()
	folders := model.DefaultFolders()

	if got := Filter(prompts, folders, model.FolderAll, "PRs"); len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("description match failed: %+v", got)
	}
	if got := Filter(prompts, folders, model.FolderAll, "email"); len(got) != 1 || got[0].ID != "p3" {
		t.Fatalf("tag/title match failed: %+v", got)
	}
	if got := Filter(prompts, folders, model.FolderAll, "zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestFilterFolderViews(t *testing.T) {
	prompts := samplePrompts()
	folders := model.DefaultFolders()

	if got := Filter(prompts, folders, model.FolderAll, ""); len(got) != len(prompts) {
		t.Fatalf("all view must show everything, got %d", len(got))
	}
	if got := Filter(prompts, folders, model.FolderFavorites, ""); len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("favorites view wrong: %+v", got)
	}
	if got := Filter(prompts, folders, "programming/debugging", ""); len(got) != 1 || got[0].ID != "p2" {
		t.Fatalf("leaf folder must match exactly: %+v", got)
	}
}

func TestFilterParentIncludesOneLevelBelow(t *testing.T) {
	prompts := samplePrompts()
	folders := model.DefaultFolders()

	got := Filter(prompts, folders, "programming", "")
	ids := make(map[string]bool, len(got))
	for _, p := range got {
		ids[p.ID] = true
	}
	if !ids["p4"] || !ids["p1"] || !ids["p2"] {
		t.Fatalf("parent view must include its own and one level below, got %v", ids)
	}
	if ids["p3"] {
		t.Fatal("other branches must not leak into the parent view")
	}
}

func TestEncodeFormats(t *testing.T) {
	doc := Export(samplePrompts())

	jsonData, err := Encode(doc, model.ExportJSON)
	if err != nil {
		t.Fatalf("json encode failed: %v", err)
	}
	var parsed model.ExportDocument
	if err := json.Unmarshal(jsonData, &parsed); err != nil {
		t.Fatalf("json output unparseable: %v", err)
	}

	csvData, err := Encode(doc, model.ExportCSV)
	if err != nil {
		t.Fatalf("csv encode failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	if len(lines) != len(doc.Prompts)+1 {
		t.Fatalf("expected header plus %d rows, got %d lines", len(doc.Prompts), len(lines))
	}

	txtData, err := Encode(doc, model.ExportTXT)
	if err != nil {
		t.Fatalf("txt encode failed: %v", err)
	}
	if !strings.Contains(string(txtData), "Review checklist") {
		t.Fatal("txt output missing a title")
	}

	if _, err := Encode(doc, model.ExportFormat("xml")); err == nil {
		t.Fatal("unknown format must fail")
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)
	if got := ExportFilename(model.ExportJSON, now); got != "prompt-library-2026-08-30.json" {
		t.Fatalf("unexpected filename %q", got)
	}
	if got := ExportFilename(model.ExportCSV, now); got != "prompt-library-2026-08-30.csv" {
		t.Fatalf("unexpected filename %q", got)
	}
}
