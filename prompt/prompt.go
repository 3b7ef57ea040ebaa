// Package prompt holds the pure prompt operations: save, delete, favorite,
// clipboard copy, import/export and the folder/search filter. Functions
// return new top-level containers; the state manager owns adoption.
package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"promptvault/model"
	"promptvault/validation"
)

// ErrNotFound signals an operation on an unknown prompt id. Callers treat
// it as a benign no-op.
var ErrNotFound = errors.New("prompt not found")

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

func idSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

// NewID generates a prompt id.
func NewID() string {
	return fmt.Sprintf("prompt_%d_%s", time.Now().UnixMilli(), idSuffix())
}

func newImportID() string {
	return fmt.Sprintf("imported_%d_%s", time.Now().UnixMilli(), idSuffix())
}

// Save validates the form and either updates the prompt identified by
// editingID or appends a new one. isNew reports which happened. The input
// slice is never mutated.
func Save(prompts []model.Prompt, form validation.PromptForm, editingID string) (out []model.Prompt, saved model.Prompt, isNew bool, err error) {
	data, err := validation.ValidatePromptData(form)
	if err != nil {
		return nil, model.Prompt{}, false, err
	}

	if editingID != "" {
		for i, p := range prompts {
			if p.ID != editingID {
				continue
			}
			p.Title = data.Title
			p.Description = data.Description
			p.Category = data.Category
			p.Content = data.Content
			p.Tags = data.Tags

			out = model.ClonePrompts(prompts)
			out[i] = p
			return out, p, false, nil
		}
	}

	created := model.Prompt{
		ID:          NewID(),
		Title:       data.Title,
		Description: data.Description,
		Content:     data.Content,
		Category:    data.Category,
		Tags:        data.Tags,
		Created:     time.Now().UTC(),
	}
	out = append(model.ClonePrompts(prompts), created)
	return out, created, true, nil
}

// Delete removes the prompt with the given id. ok is false when the id is
// unknown, in which case the input is returned unchanged.
func Delete(prompts []model.Prompt, id string) (out []model.Prompt, deleted model.Prompt, ok bool) {
	for i, p := range prompts {
		if p.ID == id {
			out = make([]model.Prompt, 0, len(prompts)-1)
			out = append(out, prompts[:i]...)
			out = append(out, prompts[i+1:]...)
			return out, p, true
		}
	}
	return prompts, model.Prompt{}, false
}

// ToggleFavorite flips the favorite flag and returns the new value.
// Unknown ids yield ErrNotFound, distinct from a real toggle to false.
func ToggleFavorite(prompts []model.Prompt, id string) (out []model.Prompt, favorite bool, err error) {
	for i, p := range prompts {
		if p.ID == id {
			p.Favorite = !p.Favorite
			out = model.ClonePrompts(prompts)
			out[i] = p
			return out, p.Favorite, nil
		}
	}
	return nil, false, ErrNotFound
}

// Copy writes the prompt's content to the clipboard and stamps lastUsed on
// success. It never fails hard: unknown ids, a nil clipboard or a write
// error all yield ok=false with the input unchanged.
func Copy(ctx context.Context, clip Clipboard, prompts []model.Prompt, id string) (out []model.Prompt, copied model.Prompt, ok bool) {
	if clip == nil {
		return prompts, model.Prompt{}, false
	}
	for i, p := range prompts {
		if p.ID != id {
			continue
		}
		if err := clip.WriteText(ctx, p.Content); err != nil {
			return prompts, model.Prompt{}, false
		}
		now := time.Now().UTC()
		p.LastUsed = &now
		out = model.ClonePrompts(prompts)
		out[i] = p
		return out, p, true
	}
	return prompts, model.Prompt{}, false
}

// Import parses a raw JSON export document, validates the whole batch
// atomically, assigns fresh ids and appends to the existing prompts. On any
// failure the existing slice is untouched and a readable error is returned.
func Import(prompts []model.Prompt, raw []byte) (out []model.Prompt, count int, err error) {
	var doc struct {
		Prompts []model.Prompt `json:"prompts"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, 0, errors.New("error importing file: not a valid JSON export")
	}

	incoming, err := validation.ValidateImportData(doc.Prompts)
	if err != nil {
		return nil, 0, err
	}

	out = model.ClonePrompts(prompts)
	for _, p := range incoming {
		p.ID = newImportID()
		out = append(out, p)
	}
	return out, len(incoming), nil
}

// Export produces the interchange document. Writing it anywhere is the
// caller's concern.
func Export(prompts []model.Prompt) model.ExportDocument {
	return model.ExportDocument{
		Prompts:  model.ClonePrompts(prompts),
		Exported: time.Now().UTC(),
		Version:  model.ExportVersion,
	}
}

// ExportFilename names an export file for the given day, e.g.
// "prompt-library-2026-08-30.json".
func ExportFilename(format model.ExportFormat, now time.Time) string {
	return fmt.Sprintf("prompt-library-%s.%s", now.UTC().Format("2006-01-02"), format)
}

// Filter selects the prompts visible for the current folder and search
// query. A non-blank query searches title, description and tags across all
// folders, case-insensitively. Otherwise "all" shows everything,
// "favorites" the favorited prompts, a parent folder its own prompts plus
// those exactly one level below, and a leaf folder exact matches only.
func Filter(prompts []model.Prompt, folders model.FolderMap, currentFolder, searchQuery string) []model.Prompt {
	query := strings.ToLower(strings.TrimSpace(searchQuery))
	out := make([]model.Prompt, 0, len(prompts))

	if query != "" {
		for _, p := range prompts {
			if matchesQuery(p, query) {
				out = append(out, p)
			}
		}
		return out
	}

	switch currentFolder {
	case model.FolderAll:
		return model.ClonePrompts(prompts)
	case model.FolderFavorites:
		for _, p := range prompts {
			if p.Favorite {
				out = append(out, p)
			}
		}
		return out
	}

	current, known := folders[currentFolder]
	isParent := known && len(current.Subfolders) > 0
	depth := len(strings.Split(currentFolder, "/"))

	for _, p := range prompts {
		if p.Category == currentFolder {
			out = append(out, p)
			continue
		}
		if isParent && strings.HasPrefix(p.Category, currentFolder+"/") &&
			len(strings.Split(p.Category, "/")) == depth+1 {
			out = append(out, p)
		}
	}
	return out
}

func matchesQuery(p model.Prompt, query string) bool {
	if strings.Contains(strings.ToLower(p.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
