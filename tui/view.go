package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"promptvault/folder"
	"promptvault/model"
)

type palette struct {
	selected lipgloss.Color
	accent   lipgloss.Color
	dim      lipgloss.Color
	frame    lipgloss.Color
	ok       lipgloss.Color
	err      lipgloss.Color
}

func themePalette(t model.Theme) palette {
	if t == model.ThemeLight {
		return palette{
			selected: lipgloss.Color("17"),
			accent:   lipgloss.Color("25"),
			dim:      lipgloss.Color("243"),
			frame:    lipgloss.Color("250"),
			ok:       lipgloss.Color("28"),
			err:      lipgloss.Color("124"),
		}
	}
	return palette{
		selected: lipgloss.Color("229"),
		accent:   lipgloss.Color("39"),
		dim:      lipgloss.Color("244"),
		frame:    lipgloss.Color("240"),
		ok:       lipgloss.Color("70"),
		err:      lipgloss.Color("9"),
	}
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}
	pal := themePalette(m.ctrl.currentTheme())

	folders := m.mgr.Folders()
	title := lipgloss.NewStyle().Bold(true).Render("promptvault")
	summary := fmt.Sprintf("folder: %s • %d prompts", folder.DisplayName(folders, m.mgr.CurrentFolder()), len(m.mgr.FilteredPrompts()))
	if q := m.mgr.SearchQuery(); q != "" {
		summary += fmt.Sprintf(" • search: %q", q)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Left,
		title,
		lipgloss.NewStyle().Foreground(pal.dim).Render("  "+summary),
	)

	viewW := m.viewportWidth()
	panelH := m.height - 5
	if panelH < 8 {
		panelH = 8
	}
	innerH := panelH - 2
	leftW, rightW := m.paneWidths(viewW - 4)

	var right string
	switch m.mode {
	case modeSettings:
		right = m.renderSettingsPanel(rightW, innerH, pal)
	case modePromptForm:
		right = m.renderPromptForm(rightW, innerH, pal)
	case modeFolderForm:
		right = m.renderFolderForm(rightW, innerH, pal)
	default:
		right = m.renderPromptsPanel(rightW, innerH, pal)
	}

	split := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderFoldersPanel(leftW, innerH, pal),
		lipgloss.NewStyle().Foreground(pal.frame).Render("│"),
		right,
	)

	frameColor := pal.frame
	if m.mode == modeNormal {
		frameColor = pal.accent
	}
	panes := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(frameColor).
		Width(viewW - 2).
		Height(panelH).
		Render(split)

	if m.showHelp {
		popupW := viewW - 8
		if popupW > 80 {
			popupW = 80
		}
		if popupW < 40 {
			popupW = 40
		}
		panes = lipgloss.Place(viewW, panelH, lipgloss.Center, lipgloss.Center, m.renderHelpOverlay(popupW, pal))
	}

	statusStyle := lipgloss.NewStyle().Foreground(pal.ok)
	if m.statusErr {
		statusStyle = lipgloss.NewStyle().Foreground(pal.err)
	}
	footer := m.renderFooter(m.status, statusStyle, m.contextualHelp(), pal)

	parts := []string{header, panes, footer}
	if line := m.promptLine(viewW); line != "" && !m.showHelp {
		parts = append(parts, line)
	}
	return strings.Join(parts, "\n")
}

func (m *Model) promptLine(width int) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Width(width)
	switch m.mode {
	case modeSearch:
		return style.Render("Search (/): " + m.input + "▌")
	case modeImportPath:
		return style.Render("Import prompts from: " + m.input + "▌")
	case modeSettingsImportPath:
		return style.Render("Import settings from: " + m.input + "▌")
	case modeConfirmDeletePrompt:
		return style.Render(fmt.Sprintf("Delete prompt %q? [y/N]", m.confirmSummary))
	case modeConfirmDeleteFolder:
		return style.Render(fmt.Sprintf("Delete folder %s and everything in it? [y/N]", m.confirmSummary))
	case modeConfirmReset:
		return style.Render("Reset the whole library to defaults? [y/N]")
	case modeConfirmClear:
		return style.Render("Clear ALL data? This cannot be undone. [y/N]")
	}
	return ""
}

func (m *Model) renderFoldersPanel(width, height int, pal palette) string {
	prompts := m.mgr.Prompts()
	folders := m.mgr.Folders()

	counts := make(map[string]int, len(folders))
	favorites := 0
	for _, p := range prompts {
		counts[p.Category]++
		if p.Favorite {
			favorites++
		}
	}

	rows := m.folderRows()
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, panelTitle("Folders", m.focus == focusFolders, pal))

	for i, row := range rows {
		cursor := " "
		if i == m.folderCursor {
			cursor = "▸"
		}

		var icon, name string
		count := counts[row.id]
		switch row.id {
		case model.FolderAll:
			icon, name, count = "📚", "All Prompts", len(prompts)
		case model.FolderFavorites:
			icon, name, count = "⭐", "Favorites", favorites
		default:
			f := folders[row.id]
			icon, name = f.Icon, f.Name
		}

		indent := ""
		if f, ok := folders[row.id]; ok && f.Parent != "" {
			indent = "  "
		}

		line := fmt.Sprintf("%s %s%s %s (%d)", cursor, indent, icon, name, count)
		style := lipgloss.NewStyle()
		if row.id == m.mgr.CurrentFolder() {
			style = style.Foreground(pal.accent)
		}
		if i == m.folderCursor {
			style = style.Bold(true)
			if m.focus == focusFolders {
				style = style.Foreground(pal.selected)
			}
		}
		lines = append(lines, style.Render(truncateRunes(line, width)))
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPromptsPanel(width, height int, pal palette) string {
	prompts := m.mgr.FilteredPrompts()
	prefs := m.settings.Settings()

	title := fmt.Sprintf("Prompts — %s", folder.DisplayName(m.mgr.Folders(), m.mgr.CurrentFolder()))
	if q := m.mgr.SearchQuery(); q != "" {
		title = fmt.Sprintf("Prompts — search %q", q)
	}

	lines := make([]string, 0, len(prompts)*2+1)
	lines = append(lines, panelTitle(title, m.focus == focusPrompts, pal))

	if len(prompts) == 0 {
		empty := "No prompts here. Press 'a' to add one."
		if m.mgr.SearchQuery() != "" {
			empty = "No prompts match the search."
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(pal.dim).Render(empty))
	}

	for i, p := range prompts {
		cursor := " "
		if i == m.promptCursor {
			cursor = "▸"
		}
		star := " "
		if p.Favorite {
			star = "★"
		}

		line := fmt.Sprintf("%s %s %s", cursor, star, p.Title)
		style := lipgloss.NewStyle()
		if i == m.promptCursor {
			style = style.Bold(true)
			if m.focus == focusPrompts {
				style = style.Foreground(pal.selected)
			}
		}
		lines = append(lines, style.Render(truncateRunes(line, width)))

		if prefs.ShowDescriptions && p.Description != "" {
			lines = append(lines, lipgloss.NewStyle().Foreground(pal.dim).Render(truncateRunes("     "+p.Description, width)))
		}
		if prefs.ShowTags && len(p.Tags) > 0 {
			tags := "     #" + strings.Join(p.Tags, " #")
			lines = append(lines, lipgloss.NewStyle().Foreground(pal.accent).Render(truncateRunes(tags, width)))
		}
	}

	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderSettingsPanel(width, height int, pal palette) string {
	s := m.settings.Settings()
	values := map[string]string{
		"defaultFolder":      s.DefaultFolder,
		"theme":              string(s.Theme),
		"autoSave":           string(s.AutoSave),
		"exportFormat":       string(s.ExportFormat),
		"showDescriptions":   onOff(s.ShowDescriptions),
		"showTags":           onOff(s.ShowTags),
		"autoCloseAfterCopy": onOff(s.AutoCloseAfterCopy),
		"showToasts":         onOff(s.ShowToasts),
	}

	lines := make([]string, 0, len(settingsKeys)+3)
	lines = append(lines, panelTitle("Settings", true, pal))
	for i, key := range settingsKeys {
		cursor := " "
		if i == m.settingsCursor {
			cursor = "▸"
		}
		line := fmt.Sprintf("%s %-20s %s", cursor, key, values[key])
		style := lipgloss.NewStyle()
		if i == m.settingsCursor {
			style = style.Bold(true).Foreground(pal.selected)
		}
		lines = append(lines, style.Render(truncateRunes(line, width)))
	}
	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Foreground(pal.dim).Render("enter cycles • r reset settings • e/i export/import"))
	lines = append(lines, lipgloss.NewStyle().Foreground(pal.dim).Render("R reset library • C clear all data • esc back"))

	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPromptForm(width, height int, pal palette) string {
	title := "New prompt"
	if m.mgr.EditingPromptID() != "" {
		title = "Edit prompt"
	}
	values := []string{
		m.promptForm.Title,
		m.promptForm.Description,
		m.promptForm.Category,
		m.promptForm.Content,
		m.promptForm.Tags,
	}

	lines := make([]string, 0, len(promptFormFields)+3)
	lines = append(lines, panelTitle(title, true, pal))
	for i, name := range promptFormFields {
		cursor := " "
		if i == m.promptField {
			cursor = "▸"
		}
		value := strings.ReplaceAll(values[i], "\n", "⏎")
		line := fmt.Sprintf("%s %-12s %s", cursor, name+":", value)
		if i == m.promptField {
			line += "▌"
		}
		style := lipgloss.NewStyle()
		if i == m.promptField {
			style = style.Bold(true).Foreground(pal.selected)
		}
		lines = append(lines, style.Render(truncateRunes(line, width)))
	}
	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Foreground(pal.dim).Render("tab next field • ctrl+s save • esc cancel"))
	lines = append(lines, lipgloss.NewStyle().Foreground(pal.dim).Render("tags are comma-separated • enter in content adds a line"))

	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFolderForm(width, height int, pal palette) string {
	var title string
	switch m.mgr.FolderMode() {
	case model.FolderModeEdit:
		title = "Edit folder"
	case model.FolderModeAddSub:
		title = fmt.Sprintf("New subfolder of %s", folder.DisplayName(m.mgr.Folders(), m.folderParent))
	default:
		title = "New folder"
	}

	fields := []struct {
		name  string
		value string
	}{
		{"Name:", m.folderName},
		{"Icon:", m.folderIcon},
	}

	lines := make([]string, 0, 5)
	lines = append(lines, panelTitle(title, true, pal))
	for i, f := range fields {
		cursor := " "
		if i == m.folderField {
			cursor = "▸"
		}
		line := fmt.Sprintf("%s %-6s %s", cursor, f.name, f.value)
		if i == m.folderField {
			line += "▌"
		}
		style := lipgloss.NewStyle()
		if i == m.folderField {
			style = style.Bold(true).Foreground(pal.selected)
		}
		lines = append(lines, style.Render(truncateRunes(line, width)))
	}
	lines = append(lines, "")
	lines = append(lines, lipgloss.NewStyle().Foreground(pal.dim).Render("enter confirms • empty icon uses 📁 • esc cancels"))

	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHelpOverlay(width int, pal palette) string {
	section := lipgloss.NewStyle().Foreground(pal.accent).Bold(true)
	line := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	rows := []string{
		lipgloss.NewStyle().Bold(true).Render("Keys"),
		"",
		section.Render("Global"),
		line.Render("  tab switch pane • j/k move • / search • ? help • q quit"),
		line.Render("  E export prompts • I import prompts • o settings"),
		"",
		section.Render("Folders pane"),
		line.Render("  enter open • a new folder • s new subfolder"),
		line.Render("  e edit • d delete (cascades)"),
		"",
		section.Render("Prompts pane"),
		line.Render("  enter/y copy • a new • e edit • d delete • f favorite"),
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pal.frame).
		Padding(1, 2).
		Width(width).
		Render(strings.Join(rows, "\n"))
}

func (m *Model) contextualHelp() string {
	switch m.mode {
	case modeSearch:
		return "Incremental search • enter keeps • esc clears"
	case modePromptForm, modeFolderForm:
		return "Type to edit • tab moves • esc cancels"
	case modeSettings:
		return "Settings • enter cycles value • esc back"
	case modeConfirmDeletePrompt, modeConfirmDeleteFolder, modeConfirmReset, modeConfirmClear:
		return "y confirms • n/esc cancels"
	case modeImportPath, modeSettingsImportPath:
		return "Enter a file path • esc cancels"
	}
	if m.focus == focusFolders {
		return "Folders • enter open • a/s add • e edit • d delete • tab prompts"
	}
	return "Prompts • enter copy • a add • e edit • f favorite • / search"
}

func (m *Model) renderFooter(statusText string, statusStyle lipgloss.Style, rightHint string, pal palette) string {
	left := strings.TrimSpace(statusText)
	if left == "" {
		left = "Ready"
	}
	right := strings.TrimSpace(rightHint)

	width := m.viewportWidth()
	leftW := utf8.RuneCountInString(left)
	rightW := utf8.RuneCountInString(right)
	if leftW+rightW+1 > width {
		maxLeft := width - rightW - 1
		if maxLeft < 8 {
			maxLeft = 8
		}
		left = truncateRunes(left, maxLeft)
		leftW = utf8.RuneCountInString(left)
	}

	padding := width - leftW - rightW
	if padding < 1 {
		padding = 1
	}
	return statusStyle.Render(left) + strings.Repeat(" ", padding) +
		lipgloss.NewStyle().Foreground(pal.dim).Render(right)
}

func panelTitle(title string, active bool, pal palette) string {
	base := lipgloss.NewStyle().Bold(true)
	if !active {
		return base.Render(title)
	}
	return base.Foreground(pal.selected).Render(title)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (m *Model) viewportWidth() int {
	if m.width > 1 {
		return m.width - 1
	}
	if m.width <= 0 {
		return 1
	}
	return m.width
}

func (m *Model) paneWidths(total int) (int, int) {
	if total <= 0 {
		return 24, 40
	}
	left := total / 3
	if left < 22 {
		left = 22
	}
	if left > 36 {
		left = 36
	}
	right := total - left - 1
	if right < 20 {
		right = 20
	}
	return left, right
}
