// Package tui renders the prompt library as a two-pane terminal UI:
// folder tree on the left, prompts on the right, with modal forms for
// editing, settings and confirmations.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"promptvault/folder"
	"promptvault/model"
	"promptvault/prompt"
	"promptvault/settings"
	"promptvault/state"
	"promptvault/validation"
)

type focusPane int

const (
	focusFolders focusPane = iota
	focusPrompts
)

func (f focusPane) String() string {
	if f == focusPrompts {
		return "prompts"
	}
	return "folders"
}

type uiMode int

const (
	modeNormal uiMode = iota
	modeSearch
	modePromptForm
	modeFolderForm
	modeSettings
	modeConfirmDeletePrompt
	modeConfirmDeleteFolder
	modeConfirmReset
	modeConfirmClear
	modeImportPath
	modeSettingsImportPath
)

// promptFormFields in edit order.
var promptFormFields = []string{"Title", "Description", "Folder", "Content", "Tags"}

// settingsKeys in display order.
var settingsKeys = []string{
	"defaultFolder", "theme", "autoSave", "exportFormat",
	"showDescriptions", "showTags", "autoCloseAfterCopy", "showToasts",
}

type folderRow struct {
	id        string
	synthetic bool
}

type Model struct {
	mgr      *state.Manager
	settings *settings.Store
	ctrl     *controller

	focus        focusPane
	mode         uiMode
	folderCursor int
	promptCursor int
	input        string

	promptForm  validation.PromptForm
	promptField int

	folderName   string
	folderIcon   string
	folderField  int
	folderParent string

	settingsCursor int

	confirmID      string
	confirmSummary string

	status    string
	statusErr bool
	showHelp  bool

	width  int
	height int
}

// NewModel builds the UI over an already-loaded manager and settings
// store. loadErr is the initialization failure, if any; it becomes the
// opening status so the user knows the library is running on defaults.
func NewModel(mgr *state.Manager, st *settings.Store, loadErr error) *Model {
	m := &Model{
		mgr:      mgr,
		settings: st,
		ctrl:     newController(mgr, st),
		status:   "Ready",
	}
	mgr.SetCurrentFolder(st.Settings().DefaultFolder)
	m.ctrl.drain()
	if loadErr != nil {
		m.setStatus("Loading failed, using defaults", true)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch m.mode {
		case modeSearch, modeImportPath, modeSettingsImportPath:
			m.updateInputMode(msg)
		case modePromptForm:
			m.updatePromptForm(msg)
		case modeFolderForm:
			m.updateFolderForm(msg)
		case modeSettings:
			m.updateSettingsMode(msg)
		case modeConfirmDeletePrompt, modeConfirmDeleteFolder, modeConfirmReset, modeConfirmClear:
			m.updateConfirmMode(msg)
		default:
			if quit := m.updateNormalMode(msg); quit {
				m.ctrl.close()
				return m, tea.Quit
			}
		}
	}

	m.ensureSelection()
	if cmd := m.drainReactions(); cmd != nil {
		return m, cmd
	}
	return m, nil
}

// drainReactions turns accumulated controller reactions into the status
// line and, when configured, a quit command.
func (m *Model) drainReactions() tea.Cmd {
	toasts, quit := m.ctrl.drain()
	if len(toasts) > 0 {
		last := toasts[len(toasts)-1]
		for _, t := range toasts {
			if t.isErr {
				last = t
			}
		}
		m.setStatus(last.text, last.isErr)
	}
	if quit {
		m.ctrl.close()
		return tea.Quit
	}
	return nil
}

func (m *Model) updateNormalMode(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+c", "q":
		return true
	case "tab":
		if m.focus == focusFolders {
			m.focus = focusPrompts
		} else {
			m.focus = focusFolders
		}
		m.setStatus(fmt.Sprintf("Focus on %s", m.focus), false)
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "enter":
		m.handleEnter()
	case "a":
		m.startAdd()
	case "s":
		m.startAddSubfolder()
	case "e":
		m.startEdit()
	case "d":
		m.startDeleteConfirm()
	case "f", "x":
		m.toggleFavorite()
	case "y":
		m.copySelected()
	case "/":
		m.mode = modeSearch
		m.input = m.mgr.SearchQuery()
		m.setStatus("Search: type to filter across all folders", false)
	case "E":
		m.exportPrompts()
	case "I":
		m.mode = modeImportPath
		m.input = ""
		m.setStatus("Import: enter the path of a JSON export", false)
	case "o":
		m.mode = modeSettings
		m.settingsCursor = 0
	case "?":
		m.showHelp = !m.showHelp
	case "esc":
		if m.showHelp {
			m.showHelp = false
			break
		}
		if m.mgr.SearchQuery() != "" {
			m.mgr.SetSearchQuery("")
			m.promptCursor = 0
			m.setStatus("Search cleared", false)
		}
	}
	return false
}

func (m *Model) updateInputMode(msg tea.KeyMsg) {
	switch msg.String() {
	case "ctrl+c", "esc":
		if m.mode == modeSearch {
			m.mgr.SetSearchQuery("")
			m.promptCursor = 0
		}
		m.mode = modeNormal
		m.input = ""
		m.setStatus("Cancelled", false)
		return
	case "enter":
		m.applyInput()
		return
	}

	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		m.input = trimLastRune(m.input)
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}

	if m.mode == modeSearch {
		m.mgr.SetSearchQuery(m.input)
		m.promptCursor = 0
	}
}

func (m *Model) applyInput() {
	text := strings.TrimSpace(m.input)
	switch m.mode {
	case modeSearch:
		m.mgr.SetSearchQuery(text)
		m.mode = modeNormal
		m.input = ""
		m.promptCursor = 0
		if text == "" {
			m.setStatus("Search cleared", false)
			return
		}
		m.setStatus(fmt.Sprintf("Showing results for %q", text), false)
	case modeImportPath:
		if text == "" {
			m.setStatus("Import cancelled", false)
			m.mode = modeNormal
			m.input = ""
			return
		}
		raw, err := os.ReadFile(text)
		if err != nil {
			m.setStatus("Cannot read file: "+err.Error(), true)
			return
		}
		m.mode = modeNormal
		m.input = ""
		_, _ = m.mgr.ImportPrompts(context.Background(), raw)
	case modeSettingsImportPath:
		if text == "" {
			m.setStatus("Import cancelled", false)
			m.mode = modeSettings
			m.input = ""
			return
		}
		raw, err := os.ReadFile(text)
		if err != nil {
			m.setStatus("Cannot read file: "+err.Error(), true)
			return
		}
		m.mode = modeSettings
		m.input = ""
		_, _ = m.settings.Import(context.Background(), raw)
	}
}

func (m *Model) updatePromptForm(msg tea.KeyMsg) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.mgr.SetEditingPrompt("")
		m.mode = modeNormal
		m.setStatus("Cancelled", false)
		return
	case "tab", "down":
		m.promptField = (m.promptField + 1) % len(promptFormFields)
		return
	case "shift+tab", "up":
		m.promptField = (m.promptField + len(promptFormFields) - 1) % len(promptFormFields)
		return
	case "ctrl+s":
		m.submitPromptForm()
		return
	case "enter":
		if m.promptField == len(promptFormFields)-1 {
			m.submitPromptForm()
			return
		}
		if promptFormFields[m.promptField] == "Content" {
			*m.promptFieldValue() += "\n"
			return
		}
		m.promptField++
		return
	}

	field := m.promptFieldValue()
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		*field = trimLastRune(*field)
	case tea.KeySpace:
		*field += " "
	case tea.KeyRunes:
		*field += string(msg.Runes)
	}
}

func (m *Model) promptFieldValue() *string {
	switch promptFormFields[m.promptField] {
	case "Title":
		return &m.promptForm.Title
	case "Description":
		return &m.promptForm.Description
	case "Folder":
		return &m.promptForm.Category
	case "Content":
		return &m.promptForm.Content
	default:
		return &m.promptForm.Tags
	}
}

func (m *Model) submitPromptForm() {
	if _, _, err := m.mgr.SavePrompt(context.Background(), m.promptForm); err != nil {
		return // stay in the form, the toast carries the message
	}
	m.mode = modeNormal
	m.promptForm = validation.PromptForm{}
	m.promptField = 0
}

func (m *Model) updateFolderForm(msg tea.KeyMsg) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.mgr.SetEditingFolder("")
		m.mgr.SetFolderMode(model.FolderModeNone)
		m.mode = modeNormal
		m.setStatus("Cancelled", false)
		return
	case "tab", "down", "shift+tab", "up":
		m.folderField = 1 - m.folderField
		return
	case "enter":
		if m.folderField == 0 {
			m.folderField = 1
			return
		}
		m.submitFolderForm()
		return
	}

	field := &m.folderName
	if m.folderField == 1 {
		field = &m.folderIcon
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		*field = trimLastRune(*field)
	case tea.KeySpace:
		*field += " "
	case tea.KeyRunes:
		*field += string(msg.Runes)
	}
}

func (m *Model) submitFolderForm() {
	ctx := context.Background()
	var err error
	switch m.mgr.FolderMode() {
	case model.FolderModeEdit:
		err = m.mgr.EditFolder(ctx, m.mgr.EditingFolderID(), m.folderName, m.folderIcon)
	case model.FolderModeAddSub:
		_, err = m.mgr.CreateFolder(ctx, m.folderName, m.folderIcon, m.folderParent)
	default:
		_, err = m.mgr.CreateFolder(ctx, m.folderName, m.folderIcon, "")
	}
	if err != nil {
		return // stay in the form
	}
	m.mgr.SetFolderMode(model.FolderModeNone)
	m.mode = modeNormal
	m.folderName = ""
	m.folderIcon = ""
	m.folderField = 0
	m.folderParent = ""
}

func (m *Model) updateSettingsMode(msg tea.KeyMsg) {
	ctx := context.Background()
	switch msg.String() {
	case "ctrl+c", "esc", "o", "q":
		m.mode = modeNormal
		return
	case "j", "down":
		if m.settingsCursor < len(settingsKeys)-1 {
			m.settingsCursor++
		}
	case "k", "up":
		if m.settingsCursor > 0 {
			m.settingsCursor--
		}
	case "enter", " ", "space":
		key := settingsKeys[m.settingsCursor]
		_ = m.settings.Set(ctx, key, m.nextSettingValue(key))
	case "r":
		_ = m.settings.Reset(ctx)
	case "R":
		m.mode = modeConfirmReset
	case "C":
		m.mode = modeConfirmClear
	case "e":
		m.exportSettings()
	case "i":
		m.mode = modeSettingsImportPath
		m.input = ""
		m.setStatus("Import: enter the path of a settings export", false)
	}
}

// nextSettingValue cycles a setting to its next value: booleans toggle,
// enums advance in a fixed order, and the default folder walks the
// top-level folders.
func (m *Model) nextSettingValue(key string) any {
	s := m.settings.Settings()
	switch key {
	case "defaultFolder":
		var tops []string
		for _, f := range folder.OrderedTree(m.mgr.Folders()) {
			if f.Parent == "" {
				tops = append(tops, f.ID)
			}
		}
		if len(tops) == 0 {
			return s.DefaultFolder
		}
		for i, id := range tops {
			if id == s.DefaultFolder {
				return tops[(i+1)%len(tops)]
			}
		}
		return tops[0]
	case "theme":
		return cycle(string(s.Theme), "light", "dark", "auto")
	case "autoSave":
		return cycle(string(s.AutoSave), "immediate", "onClose", "manual")
	case "exportFormat":
		return cycle(string(s.ExportFormat), "json", "csv", "txt")
	case "showDescriptions":
		return !s.ShowDescriptions
	case "showTags":
		return !s.ShowTags
	case "autoCloseAfterCopy":
		return !s.AutoCloseAfterCopy
	default:
		return !s.ShowToasts
	}
}

func cycle(current string, values ...string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func (m *Model) updateConfirmMode(msg tea.KeyMsg) {
	ctx := context.Background()
	switch strings.ToLower(msg.String()) {
	case "y":
		switch m.mode {
		case modeConfirmDeletePrompt:
			m.mgr.DeletePrompt(ctx, m.confirmID)
		case modeConfirmDeleteFolder:
			_ = m.mgr.DeleteFolder(ctx, m.confirmID)
			m.folderCursor = 0
		case modeConfirmReset:
			m.mgr.ResetToDefaults(ctx)
		case modeConfirmClear:
			_ = m.mgr.ClearAll(ctx)
		}
		m.confirmID = ""
		m.confirmSummary = ""
		m.mode = modeNormal
	case "n", "esc", "enter":
		m.confirmID = ""
		m.confirmSummary = ""
		m.mode = modeNormal
		m.setStatus("Action cancelled", false)
	}
}

func (m *Model) moveCursor(delta int) {
	if m.focus == focusFolders {
		rows := m.folderRows()
		if len(rows) == 0 {
			return
		}
		m.folderCursor = clamp(m.folderCursor+delta, 0, len(rows)-1)
		return
	}
	prompts := m.mgr.FilteredPrompts()
	if len(prompts) == 0 {
		return
	}
	m.promptCursor = clamp(m.promptCursor+delta, 0, len(prompts)-1)
}

func (m *Model) handleEnter() {
	if m.focus == focusFolders {
		rows := m.folderRows()
		if len(rows) == 0 {
			return
		}
		row := rows[clamp(m.folderCursor, 0, len(rows)-1)]
		m.mgr.SetCurrentFolder(row.id)
		m.promptCursor = 0
		m.setStatus("Folder: "+folder.DisplayName(m.mgr.Folders(), row.id), false)
		return
	}
	m.copySelected()
}

func (m *Model) startAdd() {
	if m.focus == focusFolders {
		m.mode = modeFolderForm
		m.mgr.SetFolderMode(model.FolderModeAddMain)
		m.folderName = ""
		m.folderIcon = ""
		m.folderField = 0
		m.folderParent = ""
		return
	}

	category := m.mgr.CurrentFolder()
	if category == model.FolderAll || category == model.FolderFavorites {
		category = m.settings.Settings().DefaultFolder
	}
	m.mode = modePromptForm
	m.promptForm = validation.PromptForm{Category: category}
	m.promptField = 0
}

func (m *Model) startAddSubfolder() {
	if m.focus != focusFolders {
		return
	}
	row, ok := m.selectedFolderRow()
	if !ok || row.synthetic {
		m.setStatus("Select a folder to add a subfolder under", true)
		return
	}
	parent := row.id
	if f, ok := m.mgr.Folders()[parent]; ok && f.Parent != "" {
		parent = f.Parent
	}
	m.mode = modeFolderForm
	m.mgr.SetFolderMode(model.FolderModeAddSub)
	m.folderName = ""
	m.folderIcon = ""
	m.folderField = 0
	m.folderParent = parent
}

func (m *Model) startEdit() {
	if m.focus == focusFolders {
		row, ok := m.selectedFolderRow()
		if !ok || row.synthetic {
			m.setStatus("No folder selected", true)
			return
		}
		if model.IsSystemFolder(row.id) {
			m.setStatus("System folders cannot be edited", true)
			return
		}
		f := m.mgr.Folders()[row.id]
		m.mode = modeFolderForm
		m.mgr.SetFolderMode(model.FolderModeEdit)
		m.mgr.SetEditingFolder(row.id)
		m.folderName = f.Name
		m.folderIcon = f.Icon
		m.folderField = 0
		return
	}

	p, ok := m.selectedPrompt()
	if !ok {
		m.setStatus("No prompt selected", true)
		return
	}
	m.mode = modePromptForm
	m.mgr.SetEditingPrompt(p.ID)
	m.promptForm = validation.PromptForm{
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Content:     p.Content,
		Tags:        strings.Join(p.Tags, ", "),
	}
	m.promptField = 0
}

func (m *Model) startDeleteConfirm() {
	if m.focus == focusFolders {
		row, ok := m.selectedFolderRow()
		if !ok || row.synthetic || row.id == model.FolderFavorites {
			m.setStatus("This folder cannot be deleted", true)
			return
		}
		promptCount, subCount, ok := folder.Cascade(m.mgr.Folders(), m.mgr.Prompts(), row.id)
		if !ok {
			m.setStatus("This folder cannot be deleted", true)
			return
		}
		name := folder.DisplayName(m.mgr.Folders(), row.id)
		summary := name
		if promptCount > 0 || subCount > 0 {
			summary = fmt.Sprintf("%s (%d prompts, %d subfolders)", name, promptCount, subCount)
		}
		m.mode = modeConfirmDeleteFolder
		m.confirmID = row.id
		m.confirmSummary = summary
		return
	}

	p, ok := m.selectedPrompt()
	if !ok {
		m.setStatus("No prompt selected", true)
		return
	}
	m.mode = modeConfirmDeletePrompt
	m.confirmID = p.ID
	m.confirmSummary = p.Title
}

func (m *Model) toggleFavorite() {
	if m.focus != focusPrompts {
		return
	}
	p, ok := m.selectedPrompt()
	if !ok {
		m.setStatus("No prompt selected", true)
		return
	}
	_, _ = m.mgr.ToggleFavorite(context.Background(), p.ID)
}

func (m *Model) copySelected() {
	p, ok := m.selectedPrompt()
	if !ok {
		m.setStatus("No prompt selected", true)
		return
	}
	if !m.mgr.CopyPrompt(context.Background(), p.ID) {
		m.setStatus("Copy failed", true)
	}
}

func (m *Model) exportPrompts() {
	format := m.settings.Settings().ExportFormat
	doc := m.mgr.ExportPrompts()
	data, err := prompt.Encode(doc, format)
	if err != nil {
		m.setStatus("Export failed: "+err.Error(), true)
		return
	}
	name := prompt.ExportFilename(format, time.Now())
	if err := os.WriteFile(name, data, 0o644); err != nil {
		m.setStatus("Export failed: "+err.Error(), true)
		return
	}
	m.setStatus(fmt.Sprintf("Exported %d prompts to %s", len(doc.Prompts), name), false)
}

func (m *Model) exportSettings() {
	doc := m.settings.Export()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		m.setStatus("Export failed: "+err.Error(), true)
		return
	}
	name := settings.ExportFilename(time.Now())
	if err := os.WriteFile(name, data, 0o644); err != nil {
		m.setStatus("Export failed: "+err.Error(), true)
		return
	}
	m.setStatus("Settings exported to "+name, false)
}

// folderRows flattens the sidebar: the two synthetic views first, then
// the hierarchy in display order.
func (m *Model) folderRows() []folderRow {
	rows := []folderRow{
		{id: model.FolderAll, synthetic: true},
		{id: model.FolderFavorites, synthetic: true},
	}
	for _, f := range folder.OrderedTree(m.mgr.Folders()) {
		rows = append(rows, folderRow{id: f.ID})
	}
	return rows
}

func (m *Model) selectedFolderRow() (folderRow, bool) {
	rows := m.folderRows()
	if len(rows) == 0 {
		return folderRow{}, false
	}
	return rows[clamp(m.folderCursor, 0, len(rows)-1)], true
}

func (m *Model) selectedPrompt() (model.Prompt, bool) {
	prompts := m.mgr.FilteredPrompts()
	if len(prompts) == 0 {
		return model.Prompt{}, false
	}
	return prompts[clamp(m.promptCursor, 0, len(prompts)-1)], true
}

func (m *Model) ensureSelection() {
	rows := m.folderRows()
	m.folderCursor = clamp(m.folderCursor, 0, len(rows)-1)
	prompts := m.mgr.FilteredPrompts()
	if len(prompts) == 0 {
		m.promptCursor = 0
		return
	}
	m.promptCursor = clamp(m.promptCursor, 0, len(prompts)-1)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}
