// Package folder holds the pure folder-hierarchy operations. Functions
// take the current folder map (and prompts where cascades apply) and return
// new top-level containers; callers own adoption and persistence.
package folder

import (
	"errors"
	"sort"
	"strings"

	"promptvault/model"
	"promptvault/validation"
)

var (
	ErrDuplicate = errors.New("a folder with this name already exists")
	ErrSystem    = errors.New("system folders cannot be edited")
	ErrNotFound  = errors.New("folder not found")
	ErrDepth     = errors.New("subfolders cannot contain subfolders")
)

// Slug derives the id fragment for a display name: lowercase, with every
// character outside [a-z0-9] replaced by a hyphen.
func Slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	return b.String()
}

// Create validates the name and icon, derives the path id (parent + "/" +
// slug for subfolders) and returns a new map containing the folder, linked
// into its parent's subfolder list.
func Create(folders model.FolderMap, name, icon, parent string) (model.FolderMap, model.Folder, error) {
	sanitized, err := validation.ValidateFolderName(name)
	if err != nil {
		return nil, model.Folder{}, err
	}
	validIcon, err := validation.ValidateIcon(icon)
	if err != nil {
		return nil, model.Folder{}, err
	}

	id := Slug(name)
	if parent != "" {
		p, ok := folders[parent]
		if !ok {
			return nil, model.Folder{}, ErrNotFound
		}
		if p.Parent != "" {
			return nil, model.Folder{}, ErrDepth
		}
		id = parent + "/" + id
	}

	if _, exists := folders[id]; exists {
		return nil, model.Folder{}, ErrDuplicate
	}

	out := model.CloneFolders(folders)
	created := model.Folder{
		ID:         id,
		Name:       sanitized,
		Icon:       validIcon,
		Parent:     parent,
		Subfolders: []string{},
	}
	out[id] = created

	if parent != "" {
		p := out[parent]
		p.Subfolders = append(p.Subfolders, id)
		out[parent] = p
	}

	return out, created, nil
}

// Edit renames a folder and/or changes its icon. The id stays stable; the
// derived id is only used to refuse a rename that slug-collides with a
// different existing folder. System folders cannot be edited and the parent
// cannot change.
func Edit(folders model.FolderMap, id, name, icon string) (model.FolderMap, error) {
	if model.IsSystemFolder(id) {
		return nil, ErrSystem
	}
	current, ok := folders[id]
	if !ok {
		return nil, ErrNotFound
	}

	sanitized, err := validation.ValidateFolderName(name)
	if err != nil {
		return nil, err
	}
	validIcon, err := validation.ValidateIcon(icon)
	if err != nil {
		return nil, err
	}

	derived := Slug(name)
	if current.Parent != "" {
		derived = current.Parent + "/" + derived
	}
	if derived != id {
		if _, taken := folders[derived]; taken {
			return nil, ErrDuplicate
		}
	}

	out := model.CloneFolders(folders)
	current = out[id]
	current.Name = sanitized
	current.Icon = validIcon
	out[id] = current
	return out, nil
}

// DeleteResult carries the state produced by a confirmed folder deletion.
type DeleteResult struct {
	Folders model.FolderMap
	Prompts []model.Prompt
	Name    string
}

// Delete removes a folder, every id in its subfolder list, its link in the
// parent's subfolder list, and every prompt categorized under it (exact id
// or "<id>/" prefix). The synthetic views and unknown ids return nil.
// Confirmation is the caller's concern; Delete assumes confirmed intent.
func Delete(folders model.FolderMap, prompts []model.Prompt, id string) *DeleteResult {
	if id == model.FolderFavorites || id == model.FolderAll {
		return nil
	}
	target, ok := folders[id]
	if !ok {
		return nil
	}

	outFolders := model.CloneFolders(folders)
	for _, sub := range target.Subfolders {
		delete(outFolders, sub)
	}
	if target.Parent != "" {
		if parent, ok := outFolders[target.Parent]; ok {
			kept := parent.Subfolders[:0]
			for _, sub := range parent.Subfolders {
				if sub != id {
					kept = append(kept, sub)
				}
			}
			parent.Subfolders = kept
			outFolders[target.Parent] = parent
		}
	}
	delete(outFolders, id)

	outPrompts := make([]model.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if p.Category == id || strings.HasPrefix(p.Category, id+"/") {
			continue
		}
		outPrompts = append(outPrompts, p)
	}

	return &DeleteResult{Folders: outFolders, Prompts: outPrompts, Name: target.Name}
}

// Cascade reports how many prompts and subfolders a deletion of id would
// remove, for confirmation messages. ok is false for synthetic or unknown
// ids.
func Cascade(folders model.FolderMap, prompts []model.Prompt, id string) (promptCount, subfolderCount int, ok bool) {
	if id == model.FolderFavorites || id == model.FolderAll {
		return 0, 0, false
	}
	target, exists := folders[id]
	if !exists {
		return 0, 0, false
	}
	for _, p := range prompts {
		if p.Category == id || strings.HasPrefix(p.Category, id+"/") {
			promptCount++
		}
	}
	return promptCount, len(target.Subfolders), true
}

// DisplayName resolves a folder id (including the synthetic views) to its
// user-facing name.
func DisplayName(folders model.FolderMap, id string) string {
	switch id {
	case model.FolderAll:
		return "All Prompts"
	case model.FolderFavorites:
		return "Favorites"
	}
	if f, ok := folders[id]; ok {
		return f.Name
	}
	return id
}

// OrderedTree flattens the hierarchy for display: top-level folders sorted
// by id, each immediately followed by its subfolders in listed order.
func OrderedTree(folders model.FolderMap) []model.Folder {
	tops := make([]model.Folder, 0, len(folders))
	for _, f := range folders {
		if f.Parent == "" {
			tops = append(tops, f)
		}
	}
	sort.Slice(tops, func(i, j int) bool { return tops[i].ID < tops[j].ID })

	out := make([]model.Folder, 0, len(folders))
	for _, top := range tops {
		out = append(out, top)
		for _, sub := range top.Subfolders {
			if child, ok := folders[sub]; ok {
				out = append(out, child)
			}
		}
	}
	return out
}
