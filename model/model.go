package model

import "time"

// Theme selects the color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// AutoSaveMode controls when edits are persisted.
type AutoSaveMode string

const (
	AutoSaveImmediate AutoSaveMode = "immediate"
	AutoSaveOnClose   AutoSaveMode = "onClose"
	AutoSaveManual    AutoSaveMode = "manual"
)

// ExportFormat selects the prompt export encoding.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
	ExportTXT  ExportFormat = "txt"
)

// Prompt is a reusable piece of text filed under a folder.
// Tags are deduplicated and keep first-seen order.
type Prompt struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Favorite    bool       `json:"favorite"`
	Created     time.Time  `json:"created"`
	LastUsed    *time.Time `json:"lastUsed"`
}

// Folder is a node in the two-level hierarchy. The ID doubles as a path
// key: a child id is "<parent>/<slug>". Parent is empty for top-level
// folders. Every id in Subfolders must exist and point back via Parent.
type Folder struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Icon       string   `json:"icon"`
	Parent     string   `json:"parent"`
	Subfolders []string `json:"subfolders"`
}

// FolderMap indexes folders by id.
type FolderMap map[string]Folder

// Synthetic folder views and the navigation default. Neither "all" nor
// "favorites" is stored in a FolderMap.
const (
	FolderAll       = "all"
	FolderFavorites = "favorites"
	FolderDefault   = "programming"
)

// SystemFolders cannot be renamed or edited. Favorites additionally
// cannot be deleted.
var SystemFolders = []string{
	FolderFavorites, "programming", "business", "personal", "creative", "research",
}

// IsSystemFolder reports whether id names a predefined folder.
func IsSystemFolder(id string) bool {
	if id == FolderAll {
		return true
	}
	for _, s := range SystemFolders {
		if s == id {
			return true
		}
	}
	return false
}

// DefaultIcon is used when a folder is created without one.
const DefaultIcon = "📁"

// Settings is the validated preference bag. Unknown keys are dropped on
// import and invalid values fall back to defaults, never rejected wholesale.
type Settings struct {
	DefaultFolder      string       `json:"defaultFolder"`
	Theme              Theme        `json:"theme"`
	AutoSave           AutoSaveMode `json:"autoSave"`
	ExportFormat       ExportFormat `json:"exportFormat"`
	ShowDescriptions   bool         `json:"showDescriptions"`
	ShowTags           bool         `json:"showTags"`
	AutoCloseAfterCopy bool         `json:"autoCloseAfterCopy"`
	ShowToasts         bool         `json:"showToasts"`
}

// DefaultSettings returns the built-in preferences.
func DefaultSettings() Settings {
	return Settings{
		DefaultFolder:      FolderDefault,
		Theme:              ThemeLight,
		AutoSave:           AutoSaveImmediate,
		ExportFormat:       ExportJSON,
		ShowDescriptions:   true,
		ShowTags:           true,
		AutoCloseAfterCopy: false,
		ShowToasts:         true,
	}
}

// ExportDocument is the prompt export/import interchange format.
type ExportDocument struct {
	Prompts  []Prompt  `json:"prompts"`
	Exported time.Time `json:"exported"`
	Version  string    `json:"version"`
}

// SettingsDocument is the settings export/import interchange format.
type SettingsDocument struct {
	Settings map[string]any `json:"settings"`
	Exported time.Time      `json:"exported"`
	Version  string         `json:"version"`
}

// ExportVersion tags both document formats.
const ExportVersion = "1.0"

// FolderMode distinguishes what the open folder form is doing.
type FolderMode string

const (
	FolderModeNone    FolderMode = ""
	FolderModeAddMain FolderMode = "add-main"
	FolderModeAddSub  FolderMode = "add-sub"
	FolderModeEdit    FolderMode = "edit"
)

// ClonePrompts returns a shallow copy of the prompt slice.
func ClonePrompts(prompts []Prompt) []Prompt {
	out := make([]Prompt, len(prompts))
	copy(out, prompts)
	return out
}

// CloneFolders returns a copy of the folder map with copied subfolder lists.
func CloneFolders(folders FolderMap) FolderMap {
	out := make(FolderMap, len(folders))
	for id, f := range folders {
		subs := make([]string, len(f.Subfolders))
		copy(subs, f.Subfolders)
		f.Subfolders = subs
		out[id] = f
	}
	return out
}
