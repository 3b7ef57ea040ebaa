package model

import "testing"

func TestIsSystemFolder(t *testing.T) {
	for _, id := range []string{FolderAll, FolderFavorites, "programming", "business", "personal", "creative", "research"} {
		if !IsSystemFolder(id) {
			t.Fatalf("%q should be a system folder", id)
		}
	}
	for _, id := range []string{"programming/debugging", "custom", ""} {
		if IsSystemFolder(id) {
			t.Fatalf("%q should not be a system folder", id)
		}
	}
}

func TestDefaultFoldersAreConsistent(t *testing.T) {
	folders := DefaultFolders()
	for id, f := range folders {
		if f.ID != id {
			t.Fatalf("folder %q carries id %q", id, f.ID)
		}
		if f.Parent != "" {
			parent, ok := folders[f.Parent]
			if !ok {
				t.Fatalf("folder %q references missing parent %q", id, f.Parent)
			}
			linked := false
			for _, sub := range parent.Subfolders {
				if sub == id {
					linked = true
				}
			}
			if !linked {
				t.Fatalf("parent %q does not list %q", f.Parent, id)
			}
		}
		for _, sub := range f.Subfolders {
			child, ok := folders[sub]
			if !ok {
				t.Fatalf("folder %q lists missing subfolder %q", id, sub)
			}
			if child.Parent != id {
				t.Fatalf("subfolder %q does not point back to %q", sub, id)
			}
		}
	}
}

func TestDefaultPromptsFileIntoDefaultFolders(t *testing.T) {
	folders := DefaultFolders()
	for _, p := range DefaultPrompts() {
		if _, ok := folders[p.Category]; !ok {
			t.Fatalf("default prompt %q filed into missing folder %q", p.ID, p.Category)
		}
		if p.Title == "" || p.Content == "" {
			t.Fatalf("default prompt %q is incomplete", p.ID)
		}
	}
}

func TestCloneFoldersIsDeep(t *testing.T) {
	original := DefaultFolders()
	clone := CloneFolders(original)

	f := clone["programming"]
	f.Subfolders[0] = "tampered"
	clone["programming"] = f

	if original["programming"].Subfolders[0] == "tampered" {
		t.Fatal("subfolder slice is shared between clones")
	}
}

func TestClonePromptsCopiesTopLevel(t *testing.T) {
	original := DefaultPrompts()
	clone := ClonePrompts(original)
	clone[0].Title = "tampered"
	if original[0].Title == "tampered" {
		t.Fatal("prompt slice is shared between clones")
	}
}
