package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"

	"github.com/evanschultz/tableau/internal/app"
	"github.com/evanschultz/tableau/internal/domain"
	"github.com/evanschultz/tableau/internal/theme"
)

// Service is the session store the dashboard reads snapshots from and mutates.
type Service interface {
	Dashboard(context.Context) (app.Dashboard, error)
	AddTask(context.Context, string) (domain.Task, bool, error)
	ToggleTask(context.Context, int64) (domain.Task, bool, error)
	SetDraft(string)
	SetSearchTerm(string)
}

// focusZone identifies which part of the panel receives key presses.
type focusZone int

// focusAddInput and related constants are listed in tab order.
const (
	focusAddInput focusZone = iota
	focusAddButton
	focusSearch
	focusList
	focusZoneCount
)

const (
	statusLoading = "chargement..."
	statusReady   = "prêt"
	cardMinWidth  = 18
	// panelChromeLines counts the panel rows around the task list: border, title,
	// description, add row, search row and spacers.
	panelChromeLines = 8
)

// Model is the dashboard program state.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int
	err    error

	status string

	help help.Model
	keys keyMap

	focus       focusZone
	addInput    textinput.Model
	searchInput textinput.Model

	// board is the last store snapshot; stats and the visible list are read from it.
	board              app.Dashboard
	cursor             int
	pendingFocusTaskID int64

	writeClipboard func(string) error
	markdown       *markdownRenderer
}

// loadedMsg carries message data through update handling.
type loadedMsg struct {
	board app.Dashboard
	err   error
}

// actionMsg carries message data through update handling.
type actionMsg struct {
	err         error
	status      string
	reload      bool
	focusTaskID int64
	// restoreDraft is add-field text to put back after a failed add.
	restoreDraft string
}

// NewModel constructs a new value for this package.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:            svc,
		status:         statusLoading,
		help:           h,
		keys:           newKeyMap(),
		focus:          focusList,
		addInput:       newFormInput("+ ", "Nouvelle tâche..."),
		searchInput:    newFormInput("/ ", "Rechercher des tâches..."),
		writeClipboard: clipboard.WriteAll,
		markdown:       &markdownRenderer{style: "dark"},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	if term := m.searchInput.Value(); term != "" {
		m.svc.SetSearchTerm(term)
	}
	return m
}

// newFormInput builds an unbounded text field.
func newFormInput(prompt, placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = 0
	return in
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.resizeInputs()
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.board = msg.board
		if m.pendingFocusTaskID != 0 {
			m.focusTaskByID(m.pendingFocusTaskID)
			m.pendingFocusTaskID = 0
		}
		m.clampCursor()
		if m.status == "" || m.status == statusLoading {
			m.status = statusReady
		}
		return m, nil

	case actionMsg:
		if msg.restoreDraft != "" && m.addInput.Value() == "" {
			m.addInput.SetValue(msg.restoreDraft)
			m.addInput.CursorEnd()
			m.svc.SetDraft(msg.restoreDraft)
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.status != "" {
			m.status = msg.status
		}
		if msg.focusTaskID != 0 {
			m.pendingFocusTaskID = msg.focusTaskID
		}
		if msg.reload {
			return m, m.loadData
		}
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	default:
		return m, nil
	}
}

// loadData reads a fresh store snapshot.
func (m Model) loadData() tea.Msg {
	board, err := m.svc.Dashboard(context.Background())
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{board: board}
}

// handleKey routes one key press by overlay state and focus.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.help.ShowAll {
		switch {
		case key.Matches(msg, m.keys.toggleHelp), key.Matches(msg, m.keys.back):
			m.help.ShowAll = false
			m.status = statusReady
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		}
		return m, nil
	}
	if m.err != nil {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.reload):
			m.err = nil
			m.status = statusLoading
			return m, m.loadData
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.nextFocus):
		return m, m.setFocus(focusZone(wrapIndex(int(m.focus), 1, int(focusZoneCount))))
	case key.Matches(msg, m.keys.prevFocus):
		return m, m.setFocus(focusZone(wrapIndex(int(m.focus), -1, int(focusZoneCount))))
	}

	switch m.focus {
	case focusAddInput:
		return m.handleAddInputKey(msg)
	case focusAddButton:
		return m.handleAddButtonKey(msg)
	case focusSearch:
		return m.handleSearchKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleAddInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		return m, m.setFocus(focusList)
	case key.Matches(msg, m.keys.submit):
		return m.submitDraft()
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	m.svc.SetDraft(m.addInput.Value())
	return m, cmd
}

func (m Model) handleAddButtonKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		return m, m.setFocus(focusList)
	case key.Matches(msg, m.keys.submit), msg.String() == "space", msg.String() == " ":
		return m.submitDraft()
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.submit):
		return m, m.setFocus(focusList)
	}
	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if term := m.searchInput.Value(); term != before {
		m.svc.SetSearchTerm(term)
		m.cursor = 0
		return m, tea.Batch(cmd, m.loadData)
	}
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = true
		m.status = "aide"
		return m, nil
	case key.Matches(msg, m.keys.toggleTask):
		return m.toggleSelected()
	case key.Matches(msg, m.keys.copyTitle):
		return m.copySelected()
	case key.Matches(msg, m.keys.focusAdd):
		return m, m.setFocus(focusAddInput)
	case key.Matches(msg, m.keys.focusSearch):
		return m, m.setFocus(focusSearch)
	case key.Matches(msg, m.keys.reload):
		m.status = statusLoading
		return m, m.loadData
	case key.Matches(msg, m.keys.moveUp):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		if m.cursor < len(m.visibleTasks())-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.back):
		if m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.svc.SetSearchTerm("")
			m.cursor = 0
			m.status = "recherche effacée"
			return m, m.loadData
		}
		return m, nil
	default:
		return m, nil
	}
}

// handleMouseWheel moves the list cursor.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll || m.err != nil {
		return m, nil
	}
	visible := m.visibleTasks()
	if len(visible) == 0 {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.MouseWheelDown:
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	}
	return m, nil
}

// setFocus moves key focus to zone and returns the input focus command, if any.
func (m *Model) setFocus(zone focusZone) tea.Cmd {
	m.focus = zone
	m.addInput.Blur()
	m.searchInput.Blur()
	switch zone {
	case focusAddInput:
		m.addInput.CursorEnd()
		return m.addInput.Focus()
	case focusSearch:
		m.searchInput.CursorEnd()
		return m.searchInput.Focus()
	default:
		return nil
	}
}

// submitDraft adds a task from the add field. Blank text is ignored without a status.
// The field is cleared before the add runs, so a repeated confirm sees an empty draft.
func (m Model) submitDraft() (tea.Model, tea.Cmd) {
	draft := m.addInput.Value()
	if strings.TrimSpace(draft) == "" {
		return m, nil
	}
	m.addInput.SetValue("")
	m.svc.SetDraft("")
	svc := m.svc
	return m, func() tea.Msg {
		task, added, err := svc.AddTask(context.Background(), draft)
		if err != nil {
			return actionMsg{err: err, restoreDraft: draft}
		}
		if !added {
			return actionMsg{}
		}
		return actionMsg{status: "tâche ajoutée", reload: true, focusTaskID: task.ID}
	}
}

func (m Model) toggleSelected() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	svc := m.svc
	id := task.ID
	return m, func() tea.Msg {
		updated, toggled, err := svc.ToggleTask(context.Background(), id)
		if err != nil {
			return actionMsg{err: err}
		}
		if !toggled {
			return actionMsg{reload: true}
		}
		status := "tâche rouverte"
		if updated.Completed {
			status = "tâche terminée"
		}
		return actionMsg{status: status, reload: true, focusTaskID: id}
	}
}

// copySelected writes the selected title to the clipboard. Failures only reach the status line.
func (m Model) copySelected() (tea.Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	write := m.writeClipboard
	title := task.Title
	return m, func() tea.Msg {
		if err := write(title); err != nil {
			return actionMsg{status: "copie impossible : " + err.Error()}
		}
		return actionMsg{status: "copié : " + truncate(title, 48)}
	}
}

// visibleTasks returns the filtered list of the last snapshot.
func (m Model) visibleTasks() []domain.Task {
	return m.board.Visible
}

func (m Model) selectedTask() (domain.Task, bool) {
	visible := m.visibleTasks()
	if len(visible) == 0 {
		return domain.Task{}, false
	}
	return visible[clamp(m.cursor, 0, len(visible)-1)], true
}

func (m *Model) focusTaskByID(id int64) {
	for idx, task := range m.visibleTasks() {
		if task.ID == id {
			m.cursor = idx
			return
		}
	}
}

func (m *Model) clampCursor() {
	m.cursor = clamp(m.cursor, 0, len(m.visibleTasks())-1)
}

func (m *Model) resizeInputs() {
	inner := m.panelInnerWidth()
	if inner <= 0 {
		return
	}
	m.addInput.SetWidth(max(10, inner-18))
	m.searchInput.SetWidth(max(10, inner-6))
}

func (m Model) panelInnerWidth() int {
	if m.width <= 0 {
		return 0
	}
	return max(0, m.width-4)
}

func (m Model) focusLabel() string {
	switch m.focus {
	case focusAddInput:
		return "ajout"
	case focusAddButton:
		return "bouton"
	case focusSearch:
		return "recherche"
	default:
		return "liste"
	}
}

// View handles view.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// render builds the full screen as a string from the last store snapshot.
func (m Model) render() string {
	if m.err != nil {
		return "erreur : " + m.err.Error() + "\n\nr pour réessayer • q pour quitter\n"
	}
	if !m.ready {
		return statusLoading
	}

	accent := lipgloss.Color(theme.Accent)
	muted := lipgloss.Color(theme.Muted)
	dim := lipgloss.Color(theme.Dim)
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	visible := m.visibleTasks()
	stats := m.board.Stats

	top := strings.Join([]string{
		m.renderHeader(muted, dim),
		"",
		m.renderStatCards(stats, muted, dim),
		"",
	}, "\n")

	statusLine := ""
	if strings.TrimSpace(m.status) != "" && m.status != statusReady {
		statusLine = statusStyle.Render(m.status)
	}

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	listHeight := len(visible)
	if m.height > 0 {
		used := lipgloss.Height(top) + panelChromeLines + lipgloss.Height(helpLine)
		if statusLine != "" {
			used += lipgloss.Height(statusLine)
		}
		listHeight = max(1, m.height-used)
	}
	panel := m.renderPanel(visible, listHeight, accent, muted, dim)

	sections := []string{top, panel}
	if statusLine != "" {
		sections = append(sections, statusLine)
	}
	content := strings.Join(sections, "\n")
	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	fullContent := content + "\n" + helpLine

	if m.help.ShowAll {
		overlay := m.renderHelpOverlay(accent, muted, dim, m.width-8)
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}
	return fullContent
}

func (m Model) renderHeader(muted, dim color.Color) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Title))
	title := titleStyle.Render("Tableau de Bord React") + lipgloss.NewStyle().Foreground(dim).Render("  ["+m.focusLabel()+"]")
	subtitle := lipgloss.NewStyle().Foreground(muted).Render("Gérez vos tâches et suivez vos progrès")
	return title + "\n" + subtitle
}

// statCard is one summary card.
type statCard struct {
	label string
	value int
	color color.Color
}

func (m Model) renderStatCards(stats domain.Stats, muted, dim color.Color) string {
	cards := []statCard{
		{label: "Total Tâches", value: stats.Total, color: lipgloss.Color(theme.Neutral)},
		{label: "Terminées", value: stats.Completed, color: lipgloss.Color(theme.Success)},
		{label: "En Cours", value: stats.Pending, color: lipgloss.Color(theme.Warning)},
		{label: "Priorité Haute", value: stats.HighPriority, color: lipgloss.Color(theme.Danger)},
	}

	perRow := len(cards)
	cardWidth := cardMinWidth
	if m.width > 0 {
		switch {
		case m.width < 2*(cardMinWidth+1):
			perRow = 1
		case m.width < len(cards)*(cardMinWidth+1):
			perRow = 2
		}
		cardWidth = max(cardMinWidth, m.width/perRow-1)
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		MarginRight(1).
		Width(cardWidth)
	labelStyle := lipgloss.NewStyle().Foreground(muted)

	rendered := make([]string, 0, len(cards))
	for _, card := range cards {
		value := lipgloss.NewStyle().Bold(true).Foreground(card.color).Render(fmt.Sprintf("%d", card.value))
		rendered = append(rendered, cardStyle.Render(labelStyle.Render(card.label)+"\n"+value))
	}
	rows := make([]string, 0, (len(rendered)+perRow-1)/perRow)
	for start := 0; start < len(rendered); start += perRow {
		end := min(len(rendered), start+perRow)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderPanel(visible []domain.Task, listHeight int, accent, muted, dim color.Color) string {
	inner := m.panelInnerWidth()
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Title))
	descStyle := lipgloss.NewStyle().Foreground(muted)

	marker := func(zone focusZone) string {
		if m.focus == zone {
			return lipgloss.NewStyle().Foreground(accent).Render("▌")
		}
		return " "
	}

	buttonStyle := lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color(theme.Border))
	if m.focus == focusAddButton {
		buttonStyle = buttonStyle.Background(accent)
	}
	addRow := marker(focusAddInput) + m.addInput.View() + "  " + marker(focusAddButton) + buttonStyle.Render("Ajouter")
	searchRow := marker(focusSearch) + m.searchInput.View()

	lines := []string{
		titleStyle.Render("Gestion des Tâches"),
		descStyle.Render("Ajoutez, recherchez et gérez vos tâches quotidiennes"),
		"",
		addRow,
		searchRow,
		"",
	}

	if len(visible) == 0 {
		msg := "Aucune tâche pour le moment"
		if m.board.SearchTerm != "" {
			msg = "Aucune tâche trouvée"
		}
		emptyStyle := lipgloss.NewStyle().Foreground(muted)
		if inner > 0 {
			emptyStyle = emptyStyle.Width(inner).Align(lipgloss.Center)
		}
		lines = append(lines, emptyStyle.Render(msg))
	} else {
		cursor := clamp(m.cursor, 0, len(visible)-1)
		start, end := windowBounds(len(visible), cursor, max(1, listHeight))
		for idx := start; idx < end; idx++ {
			selected := m.focus == focusList && idx == cursor
			lines = append(lines, m.renderTaskRow(visible[idx], selected, inner, muted))
		}
	}

	border := dim
	if m.focus != focusList {
		border = accent
	}
	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	if m.width > 0 {
		panelStyle = panelStyle.Width(m.width)
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// renderTaskRow renders the checkbox, title and right-aligned priority badge.
// Completed rows are tinted green across their full width.
func (m Model) renderTaskRow(task domain.Task, selected bool, width int, muted color.Color) string {
	pointer := "  "
	if selected {
		pointer = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Selected)).Render("› ")
	}

	box := lipgloss.NewStyle().Foreground(muted).Render("[ ]")
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Title))
	if selected {
		titleStyle = titleStyle.Foreground(lipgloss.Color(theme.Selected)).Bold(true)
	}
	tint := lipgloss.NewStyle()
	if task.Completed {
		bg := lipgloss.Color(theme.CompletedBG)
		tint = tint.Background(bg)
		box = tint.Foreground(lipgloss.Color(theme.Success)).Render("[x]")
		titleStyle = tint.Strikethrough(true).Foreground(lipgloss.Color(theme.Completed))
	}

	badge := priorityBadgeStyle(task.Priority).Render(task.Priority.Label())
	title := task.Title
	if width > 0 {
		title = truncate(title, max(1, width-lipgloss.Width(badge)-7))
	}
	sep := tint.Render(" ")
	left := pointer + box + sep + titleStyle.Render(title)
	gap := 1
	if width > 0 {
		gap = max(1, width-lipgloss.Width(left)-lipgloss.Width(badge))
	}
	return left + tint.Render(strings.Repeat(" ", gap)) + badge
}

// priorityBadgeStyle maps high, medium and low to destructive, default and secondary looks.
func priorityBadgeStyle(p domain.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("230"))
	switch p {
	case domain.PriorityHigh:
		return base.Background(lipgloss.Color(theme.Danger))
	case domain.PriorityLow:
		return base.Foreground(lipgloss.Color(theme.Title)).Background(lipgloss.Color(theme.Border))
	default:
		return base.Background(lipgloss.Color(theme.Accent))
	}
}

// renderHelpOverlay renders the key reference as markdown inside a bordered box.
func (m Model) renderHelpOverlay(accent, muted, dim color.Color, maxWidth int) string {
	width := clamp(maxWidth, 40, 90)
	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Raccourcis clavier")
	body := m.markdown.render(m.helpMarkdown(), width-4)
	lines := []string{
		title,
		"",
		body,
		"",
		lipgloss.NewStyle().Foreground(muted).Render("? ou esc pour fermer"),
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		Width(width)
	return style.Render(strings.Join(lines, "\n"))
}

// helpMarkdown lists the current bindings, so config overrides show up here.
func (m Model) helpMarkdown() string {
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{title: "Liste", bindings: []key.Binding{m.keys.moveUp, m.keys.moveDown, m.keys.toggleTask, m.keys.copyTitle, m.keys.reload}},
		{title: "Formulaire", bindings: []key.Binding{m.keys.focusAdd, m.keys.focusSearch, m.keys.nextFocus, m.keys.prevFocus, m.keys.submit, m.keys.back}},
		{title: "Général", bindings: []key.Binding{m.keys.toggleHelp, m.keys.quit}},
	}
	var b strings.Builder
	for _, section := range sections {
		fmt.Fprintf(&b, "## %s\n\n", section.title)
		for _, binding := range section.bindings {
			h := binding.Help()
			fmt.Fprintf(&b, "- `%s` %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString("La recherche filtre la liste à chaque frappe, sans tenir compte de la casse.\n")
	return b.String()
}

// RenderDashboard loads svc once and returns a static render at width.
func RenderDashboard(ctx context.Context, svc Service, width int, opts ...Option) (string, error) {
	m := NewModel(svc, opts...)
	board, err := svc.Dashboard(ctx)
	if err != nil {
		return "", fmt.Errorf("load dashboard: %w", err)
	}
	m.board = board
	m.ready = true
	m.width = max(0, width)
	m.status = statusReady
	m.resizeInputs()
	return m.render(), nil
}

// wrapIndex wraps an index by delta for a bounded collection.
func wrapIndex(current int, delta int, total int) int {
	if total <= 0 {
		return 0
	}
	next := current + delta
	for next < 0 {
		next += total
	}
	for next >= total {
		next -= total
	}
	return next
}

// windowBounds returns an inclusive-exclusive list window that keeps selected visible.
func windowBounds(total, selected, windowSize int) (int, int) {
	if total <= 0 || windowSize <= 0 {
		return 0, 0
	}
	if total <= windowSize {
		return 0, total
	}
	selected = clamp(selected, 0, total-1)
	start := max(0, selected-windowSize/2)
	end := start + windowSize
	if end > total {
		end = total
		start = max(0, end-windowSize)
	}
	return start, end
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines pads or cuts content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		lines = append(lines, make([]string, maxLines-len(lines))...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay above base on a width x height canvas.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centered := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
	overlayLayer := lipgloss.NewLayer(centered).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate shortens s to max runes, ending with an ellipsis when cut.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
