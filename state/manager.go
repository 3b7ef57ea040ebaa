// Package state owns the application state and every mutation of it.
// The Manager delegates the actual work to the pure folder and prompt
// operations, adopts the returned containers, persists, and emits events
// the UI layers react to. Mutations follow one discipline: delegate,
// adopt, persist, emit.
package state

import (
	"context"
	"errors"
	"log/slog"

	"promptvault/events"
	"promptvault/folder"
	"promptvault/model"
	"promptvault/prompt"
	"promptvault/store"
	"promptvault/validation"
)

// EventType names every state event.
type EventType string

const (
	EventPromptAdded           EventType = "promptAdded"
	EventPromptAddFailed       EventType = "promptAddFailed"
	EventPromptUpdated         EventType = "promptUpdated"
	EventPromptDeleted         EventType = "promptDeleted"
	EventPromptFavoriteToggled EventType = "promptFavoriteToggled"
	EventPromptCopied          EventType = "promptCopied"
	EventFolderCreated         EventType = "folderCreated"
	EventFolderCreateFailed    EventType = "folderCreateFailed"
	EventFolderEdited          EventType = "folderEdited"
	EventFolderEditFailed      EventType = "folderEditFailed"
	EventFolderDeleted         EventType = "folderDeleted"
	EventFolderDeleteFailed    EventType = "folderDeleteFailed"
	EventCurrentFolderChanged  EventType = "currentFolderChanged"
	EventSearchQueryChanged    EventType = "searchQueryChanged"
	EventEditingPromptChanged  EventType = "editingPromptChanged"
	EventEditingFolderChanged  EventType = "editingFolderChanged"
	EventFolderModeChanged     EventType = "folderModeChanged"
	EventPromptsImported       EventType = "promptsImported"
	EventPromptsImportFailed   EventType = "promptsImportFailed"
	EventPromptsExported       EventType = "promptsExported"
	EventDataLoaded            EventType = "dataLoaded"
	EventDataLoadFailed        EventType = "dataLoadFailed"
	EventDataSaved             EventType = "dataSaved"
	EventDataReset             EventType = "dataReset"
	EventDataCleared           EventType = "dataCleared"
)

// Event is the payload for every state event; only the fields relevant to
// the event type are populated.
type Event struct {
	Type           EventType
	Prompt         model.Prompt
	PromptID       string
	Favorite       bool
	Folder         model.Folder
	FolderID       string
	FolderName     string
	CurrentFolder  string
	PreviousFolder string
	Query          string
	Mode           model.FolderMode
	Count          int
	Err            error
}

// ErrCannotDelete is returned when a folder delete is refused (favorites,
// the all view, or an unknown id).
var ErrCannotDelete = errors.New("this folder cannot be deleted")

// Manager coordinates all state. It is not safe for concurrent use; the
// application drives it from a single event loop.
type Manager struct {
	adapter *store.Adapter
	clip    prompt.Clipboard
	logger  *slog.Logger
	hub     *events.Hub[EventType, Event]

	prompts         []model.Prompt
	folders         model.FolderMap
	currentFolder   string
	searchQuery     string
	editingPromptID string
	editingFolderID string
	folderMode      model.FolderMode
}

// NewManager starts empty; call Load before use. A nil clipboard makes
// every copy a no-op failure rather than an error.
func NewManager(adapter *store.Adapter, clip prompt.Clipboard, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		adapter:       adapter,
		clip:          clip,
		logger:        logger,
		hub:           events.NewHub[EventType, Event](logger),
		prompts:       []model.Prompt{},
		folders:       model.FolderMap{},
		currentFolder: model.FolderDefault,
	}
}

// Hub exposes the event hub for subscriptions.
func (m *Manager) Hub() *events.Hub[EventType, Event] { return m.hub }

// Load pulls the dataset from storage. On a backend failure the manager
// falls back to the built-in defaults so the app stays usable, emits
// dataLoadFailed, and returns the error. Repaired or freshly seeded data
// is written back once.
func (m *Manager) Load(ctx context.Context) error {
	res, err := m.adapter.Load(ctx)
	if err != nil {
		m.logger.Error("loading data failed, using defaults", "error", err)
		m.prompts = model.DefaultPrompts()
		m.folders = model.DefaultFolders()
		m.hub.Emit(EventDataLoadFailed, Event{Type: EventDataLoadFailed, Err: err})
		return err
	}

	m.prompts = res.Prompts
	m.folders = res.Folders
	if res.ShouldSave {
		m.persist(ctx)
	}
	m.hub.Emit(EventDataLoaded, Event{Type: EventDataLoaded, Count: len(m.prompts)})
	return nil
}

// SavePrompt validates the form and adds a prompt, or updates the one
// being edited. isNew reports which happened; the editing state is
// cleared on success.
func (m *Manager) SavePrompt(ctx context.Context, form validation.PromptForm) (model.Prompt, bool, error) {
	next, saved, isNew, err := prompt.Save(m.prompts, form, m.editingPromptID)
	if err != nil {
		m.hub.Emit(EventPromptAddFailed, Event{Type: EventPromptAddFailed, Err: err})
		return model.Prompt{}, false, err
	}

	m.prompts = next
	m.SetEditingPrompt("")
	m.persist(ctx)

	if isNew {
		m.hub.Emit(EventPromptAdded, Event{Type: EventPromptAdded, Prompt: saved})
	} else {
		m.hub.Emit(EventPromptUpdated, Event{Type: EventPromptUpdated, Prompt: saved})
	}
	return saved, isNew, nil
}

// DeletePrompt removes a prompt. Unknown ids are a benign no-op.
func (m *Manager) DeletePrompt(ctx context.Context, id string) bool {
	next, deleted, ok := prompt.Delete(m.prompts, id)
	if !ok {
		return false
	}
	m.prompts = next
	if m.editingPromptID == id {
		m.SetEditingPrompt("")
	}
	m.persist(ctx)
	m.hub.Emit(EventPromptDeleted, Event{Type: EventPromptDeleted, Prompt: deleted, PromptID: id})
	return true
}

// ToggleFavorite flips a prompt's favorite flag and returns the new value.
func (m *Manager) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	next, favorite, err := prompt.ToggleFavorite(m.prompts, id)
	if err != nil {
		return false, err
	}
	m.prompts = next
	m.persist(ctx)
	m.hub.Emit(EventPromptFavoriteToggled, Event{Type: EventPromptFavoriteToggled, PromptID: id, Favorite: favorite})
	return favorite, nil
}

// CopyPrompt puts a prompt's content on the clipboard and stamps its
// lastUsed time. Failure is reported, never raised.
func (m *Manager) CopyPrompt(ctx context.Context, id string) bool {
	next, copied, ok := prompt.Copy(ctx, m.clip, m.prompts, id)
	if !ok {
		return false
	}
	m.prompts = next
	m.persist(ctx)
	m.hub.Emit(EventPromptCopied, Event{Type: EventPromptCopied, Prompt: copied, PromptID: id})
	return true
}

// ImportPrompts appends a validated batch from a JSON export. The batch
// is atomic: any invalid entry rejects the whole file.
func (m *Manager) ImportPrompts(ctx context.Context, raw []byte) (int, error) {
	next, count, err := prompt.Import(m.prompts, raw)
	if err != nil {
		m.hub.Emit(EventPromptsImportFailed, Event{Type: EventPromptsImportFailed, Err: err})
		return 0, err
	}
	m.prompts = next
	m.persist(ctx)
	m.hub.Emit(EventPromptsImported, Event{Type: EventPromptsImported, Count: count})
	return count, nil
}

// ExportPrompts produces the interchange document for the full library.
func (m *Manager) ExportPrompts() model.ExportDocument {
	doc := prompt.Export(m.prompts)
	m.hub.Emit(EventPromptsExported, Event{Type: EventPromptsExported, Count: len(doc.Prompts)})
	return doc
}

// CreateFolder adds a folder, as a subfolder when parent is non-empty.
func (m *Manager) CreateFolder(ctx context.Context, name, icon, parent string) (model.Folder, error) {
	next, created, err := folder.Create(m.folders, name, icon, parent)
	if err != nil {
		m.hub.Emit(EventFolderCreateFailed, Event{Type: EventFolderCreateFailed, Err: err})
		return model.Folder{}, err
	}
	m.folders = next
	m.persist(ctx)
	m.hub.Emit(EventFolderCreated, Event{Type: EventFolderCreated, Folder: created, FolderID: created.ID})
	return created, nil
}

// EditFolder renames a folder or changes its icon; the id stays stable.
func (m *Manager) EditFolder(ctx context.Context, id, name, icon string) error {
	next, err := folder.Edit(m.folders, id, name, icon)
	if err != nil {
		m.hub.Emit(EventFolderEditFailed, Event{Type: EventFolderEditFailed, FolderID: id, Err: err})
		return err
	}
	m.folders = next
	if m.editingFolderID == id {
		m.SetEditingFolder("")
	}
	m.persist(ctx)
	m.hub.Emit(EventFolderEdited, Event{Type: EventFolderEdited, FolderID: id})
	return nil
}

// DeleteFolder removes a folder, its subfolders and every prompt filed
// under them. Callers confirm with the user first; DeleteFolder assumes
// confirmed intent. Navigation moves to the default folder when the
// current one disappears.
func (m *Manager) DeleteFolder(ctx context.Context, id string) error {
	res := folder.Delete(m.folders, m.prompts, id)
	if res == nil {
		m.hub.Emit(EventFolderDeleteFailed, Event{Type: EventFolderDeleteFailed, FolderID: id, Err: ErrCannotDelete})
		return ErrCannotDelete
	}

	m.folders = res.Folders
	m.prompts = res.Prompts

	if _, ok := m.folders[m.currentFolder]; !ok &&
		m.currentFolder != model.FolderAll && m.currentFolder != model.FolderFavorites {
		m.SetCurrentFolder(model.FolderDefault)
	}
	if m.editingFolderID == id {
		m.SetEditingFolder("")
	}

	m.persist(ctx)
	m.hub.Emit(EventFolderDeleted, Event{Type: EventFolderDeleted, FolderID: id, FolderName: res.Name})
	return nil
}

// SetCurrentFolder navigates to a folder, clearing any active search.
// Selecting the current folder again does nothing.
func (m *Manager) SetCurrentFolder(id string) {
	if id == m.currentFolder {
		return
	}
	previous := m.currentFolder
	m.currentFolder = id
	m.SetSearchQuery("")
	m.hub.Emit(EventCurrentFolderChanged, Event{
		Type:           EventCurrentFolderChanged,
		CurrentFolder:  id,
		PreviousFolder: previous,
	})
}

// SetSearchQuery updates the live search input.
func (m *Manager) SetSearchQuery(query string) {
	if query == m.searchQuery {
		return
	}
	m.searchQuery = query
	m.hub.Emit(EventSearchQueryChanged, Event{Type: EventSearchQueryChanged, Query: query})
}

// SetEditingPrompt marks a prompt as being edited; empty clears it.
func (m *Manager) SetEditingPrompt(id string) {
	if id == m.editingPromptID {
		return
	}
	m.editingPromptID = id
	m.hub.Emit(EventEditingPromptChanged, Event{Type: EventEditingPromptChanged, PromptID: id})
}

// SetEditingFolder marks a folder as being edited; empty clears it.
func (m *Manager) SetEditingFolder(id string) {
	if id == m.editingFolderID {
		return
	}
	m.editingFolderID = id
	m.hub.Emit(EventEditingFolderChanged, Event{Type: EventEditingFolderChanged, FolderID: id})
}

// SetFolderMode records what the open folder form is doing.
func (m *Manager) SetFolderMode(mode model.FolderMode) {
	if mode == m.folderMode {
		return
	}
	m.folderMode = mode
	m.hub.Emit(EventFolderModeChanged, Event{Type: EventFolderModeChanged, Mode: mode})
}

// ResetToDefaults discards the library and restores the built-in prompts
// and folders.
func (m *Manager) ResetToDefaults(ctx context.Context) {
	m.prompts = model.DefaultPrompts()
	m.folders = model.DefaultFolders()
	m.SetCurrentFolder(model.FolderDefault)
	m.SetSearchQuery("")
	m.SetEditingPrompt("")
	m.SetEditingFolder("")
	m.SetFolderMode(model.FolderModeNone)
	m.persist(ctx)
	m.hub.Emit(EventDataReset, Event{Type: EventDataReset})
}

// ClearAll wipes storage entirely. The in-memory library becomes empty
// with the default folder hierarchy so navigation still works.
func (m *Manager) ClearAll(ctx context.Context) error {
	if err := m.adapter.Clear(ctx); err != nil {
		m.logger.Error("clearing storage failed", "error", err)
		return err
	}
	m.prompts = []model.Prompt{}
	m.folders = model.DefaultFolders()
	m.SetCurrentFolder(model.FolderDefault)
	m.SetSearchQuery("")
	m.hub.Emit(EventDataCleared, Event{Type: EventDataCleared})
	return nil
}

// FilteredPrompts applies the current folder and search query.
func (m *Manager) FilteredPrompts() []model.Prompt {
	return prompt.Filter(m.prompts, m.folders, m.currentFolder, m.searchQuery)
}

// Prompts returns a copy of all prompts.
func (m *Manager) Prompts() []model.Prompt { return model.ClonePrompts(m.prompts) }

// Folders returns a copy of the folder map.
func (m *Manager) Folders() model.FolderMap { return model.CloneFolders(m.folders) }

func (m *Manager) CurrentFolder() string        { return m.currentFolder }
func (m *Manager) SearchQuery() string          { return m.searchQuery }
func (m *Manager) EditingPromptID() string      { return m.editingPromptID }
func (m *Manager) EditingFolderID() string      { return m.editingFolderID }
func (m *Manager) FolderMode() model.FolderMode { return m.folderMode }

// persist writes the library. A storage failure is logged and reported as
// an event but never blocks the operation that triggered it.
func (m *Manager) persist(ctx context.Context) {
	if err := m.adapter.Save(ctx, m.prompts, m.folders); err != nil {
		m.logger.Error("saving data failed", "error", err)
		return
	}
	m.hub.Emit(EventDataSaved, Event{Type: EventDataSaved})
}
