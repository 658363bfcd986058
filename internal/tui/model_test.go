package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/evanschultz/tableau/internal/adapters/storage/memory"
	"github.com/evanschultz/tableau/internal/app"
	"github.com/evanschultz/tableau/internal/domain"
	"github.com/evanschultz/tableau/internal/theme"
)

type fakeService struct {
	mu         sync.Mutex
	tasks      []domain.Task
	nextID     int64
	draft      string
	searchTerm string
	err        error
}

func newFakeService(tasks ...domain.Task) *fakeService {
	f := &fakeService{tasks: append([]domain.Task(nil), tasks...)}
	for _, task := range tasks {
		if task.ID > f.nextID {
			f.nextID = task.ID
		}
	}
	return f
}

func (f *fakeService) Dashboard(context.Context) (app.Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return app.Dashboard{}, f.err
	}
	tasks := append([]domain.Task(nil), f.tasks...)
	return app.Dashboard{
		Tasks:      tasks,
		Visible:    domain.FilterTasks(tasks, f.searchTerm),
		Stats:      domain.ComputeStats(tasks),
		SearchTerm: f.searchTerm,
		Draft:      f.draft,
	}, nil
}

func (f *fakeService) AddTask(_ context.Context, text string) (domain.Task, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Task{}, false, f.err
	}
	if strings.TrimSpace(text) == "" {
		return domain.Task{}, false, nil
	}
	f.nextID++
	task, err := domain.NewTask(domain.TaskInput{ID: f.nextID, Title: text}, time.Now().UTC())
	if err != nil {
		return domain.Task{}, false, err
	}
	f.tasks = append(f.tasks, task)
	if f.draft == text {
		f.draft = ""
	}
	return task, true, nil
}

func (f *fakeService) ToggleTask(_ context.Context, id int64) (domain.Task, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Task{}, false, f.err
	}
	for idx := range f.tasks {
		if f.tasks[idx].ID == id {
			f.tasks[idx].Toggle()
			return f.tasks[idx], true, nil
		}
	}
	return domain.Task{}, false, nil
}

func (f *fakeService) SetDraft(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = text
}

func (f *fakeService) SetSearchTerm(term string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchTerm = term
}

func mustTask(t *testing.T, id int64, title string, priority domain.Priority, completed bool) domain.Task {
	t.Helper()
	task, err := domain.NewTask(domain.TaskInput{ID: id, Title: title, Priority: priority, Completed: completed}, time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	return task
}

func newSeededService(t *testing.T) *app.Service {
	t.Helper()
	svc := app.NewService(memory.New(), app.NewSequence(0), nil)
	if err := svc.SeedTasks(context.Background(), app.DefaultSeedTasks()); err != nil {
		t.Fatalf("SeedTasks() error = %v", err)
	}
	return svc
}

func TestModelLoadShowsSeededDashboard(t *testing.T) {
	m := loadReadyModel(t, NewModel(newSeededService(t)))

	if got := m.board.Stats; got != (domain.Stats{Total: 3, Completed: 1, Pending: 2, HighPriority: 1}) {
		t.Fatalf("unexpected stats %#v", got)
	}
	out := plainView(m)
	for _, want := range []string{
		"Tableau de Bord React",
		"Gérez vos tâches et suivez vos progrès",
		"Total Tâches",
		"Terminées",
		"En Cours",
		"Priorité Haute",
		"Gestion des Tâches",
		"Ajoutez, recherchez et gérez vos tâches quotidiennes",
		"Nouvelle tâche...",
		"Rechercher des tâches...",
		"Ajouter",
		"Réviser les composants React",
		"Implémenter l'authentification",
		"Optimiser les performances",
		"Haute",
		"Moyenne",
		"Basse",
		"[x]",
		"[ ]",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view\n%s", want, out)
		}
	}
	if m.status != statusReady {
		t.Fatalf("expected ready status, got %q", m.status)
	}
}

func TestModelAddTaskWithConfirmKey(t *testing.T) {
	svc := newFakeService()
	m := loadReadyModel(t, NewModel(svc))

	m = sendKey(t, m, keyRune('a'))
	if m.focus != focusAddInput {
		t.Fatalf("expected add input focus, got %v", m.focus)
	}
	m = typeText(t, m, "Write report")
	if svc.draft != "Write report" {
		t.Fatalf("expected draft mirrored to service, got %q", svc.draft)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(m.board.Tasks) != 1 || m.board.Tasks[0].Title != "Write report" {
		t.Fatalf("expected added task, got %#v", m.board.Tasks)
	}
	if m.board.Tasks[0].Completed || m.board.Tasks[0].Priority != domain.PriorityMedium {
		t.Fatalf("expected pending medium task, got %#v", m.board.Tasks[0])
	}
	if m.board.Stats.Total != 1 || m.board.Stats.Pending != 1 {
		t.Fatalf("unexpected stats %#v", m.board.Stats)
	}
	if m.addInput.Value() != "" {
		t.Fatalf("expected add field cleared, got %q", m.addInput.Value())
	}
	if m.status != "tâche ajoutée" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.focus != focusAddInput {
		t.Fatalf("expected focus to stay on add input, got %v", m.focus)
	}
	out := plainView(m)
	if !strings.Contains(out, "Write report") || !strings.Contains(out, "Moyenne") {
		t.Fatalf("expected new row with medium badge\n%s", out)
	}
}

func TestModelWhitespaceDraftIgnored(t *testing.T) {
	svc := newFakeService()
	m := loadReadyModel(t, NewModel(svc))
	m = sendKey(t, m, keyRune('a'))
	m = typeText(t, m, "   ")

	updated, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = updated.(Model)
	if cmd != nil {
		t.Fatal("expected no command for whitespace draft")
	}
	if len(svc.tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(svc.tasks))
	}
	if m.addInput.Value() != "   " {
		t.Fatalf("expected draft left untouched, got %q", m.addInput.Value())
	}
	if m.status != statusReady {
		t.Fatalf("expected no status change, got %q", m.status)
	}
}

func TestModelAddButtonSubmits(t *testing.T) {
	svc := newFakeService()
	m := loadReadyModel(t, NewModel(svc))
	m = sendKey(t, m, keyRune('a'))
	m = typeText(t, m, "Buy milk")
	m = sendKey(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != focusAddButton {
		t.Fatalf("expected button focus, got %v", m.focus)
	}

	m = applyMsg(t, m, keyRune(' '))
	if len(m.board.Tasks) != 1 || m.board.Tasks[0].Title != "Buy milk" {
		t.Fatalf("expected button to add task, got %#v", m.board.Tasks)
	}
	if m.addInput.Value() != "" {
		t.Fatalf("expected add field cleared, got %q", m.addInput.Value())
	}
}

func TestModelRepeatedConfirmAddsOnce(t *testing.T) {
	svc := newFakeService()
	m := loadReadyModel(t, NewModel(svc))
	m = sendKey(t, m, keyRune('a'))
	m = typeText(t, m, "Write report")

	updated, first := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = updated.(Model)
	if first == nil {
		t.Fatal("expected add command on first confirm")
	}
	if m.addInput.Value() != "" || svc.draft != "" {
		t.Fatalf("expected draft cleared on dispatch, field=%q store=%q", m.addInput.Value(), svc.draft)
	}
	updated, second := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = updated.(Model)
	if second != nil {
		t.Fatal("expected second confirm to see an empty draft")
	}

	m = applyCmd(t, m, first)
	if len(svc.tasks) != 1 || len(m.board.Tasks) != 1 {
		t.Fatalf("expected exactly one task, store=%d view=%d", len(svc.tasks), len(m.board.Tasks))
	}
}

func TestModelKeepsTextTypedWhileAddInFlight(t *testing.T) {
	svc := newFakeService()
	m := loadReadyModel(t, NewModel(svc))
	m = sendKey(t, m, keyRune('a'))
	m = typeText(t, m, "abc")

	updated, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = updated.(Model)
	m = typeText(t, m, "d")
	m = applyCmd(t, m, cmd)

	if m.addInput.Value() != "d" || svc.draft != "d" {
		t.Fatalf("expected newer text kept, field=%q store=%q", m.addInput.Value(), svc.draft)
	}
	if len(svc.tasks) != 1 || svc.tasks[0].Title != "abc" {
		t.Fatalf("expected submitted text added, got %#v", svc.tasks)
	}
}

func TestModelFailedAddRestoresDraft(t *testing.T) {
	svc := newFakeService()
	m := loadReadyModel(t, NewModel(svc))
	m = sendKey(t, m, keyRune('a'))
	m = typeText(t, m, "Write report")

	svc.err = errors.New("disk full")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.err == nil {
		t.Fatal("expected add error")
	}
	if m.addInput.Value() != "Write report" || svc.draft != "Write report" {
		t.Fatalf("expected draft restored, field=%q store=%q", m.addInput.Value(), svc.draft)
	}
}

func TestModelInputsAreUnbounded(t *testing.T) {
	svc := newFakeService()
	m := loadReadyModel(t, NewModel(svc))

	long := strings.Repeat("é", 250)
	m = sendKey(t, m, keyRune('a'))
	m = typeText(t, m, long)
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(svc.tasks) != 1 || svc.tasks[0].Title != long {
		t.Fatalf("expected full 250-rune title, got %d runes", len([]rune(svc.tasks[0].Title)))
	}

	term := strings.Repeat("z", 130)
	m = sendKey(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	m = sendKey(t, m, keyRune('/'))
	m = typeText(t, m, term)
	if svc.searchTerm != term {
		t.Fatalf("expected verbatim 130-rune term, got %d runes", len([]rune(svc.searchTerm)))
	}
}

func TestModelToggleSelectedTask(t *testing.T) {
	svc := newFakeService(
		mustTask(t, 1, "First", domain.PriorityHigh, false),
		mustTask(t, 2, "Second", domain.PriorityLow, false),
	)
	m := loadReadyModel(t, NewModel(svc))

	m = sendKey(t, m, keyRune('j'))
	if m.cursor != 1 {
		t.Fatalf("expected cursor=1, got %d", m.cursor)
	}
	m = applyMsg(t, m, keyRune('x'))
	if !svc.tasks[1].Completed || svc.tasks[0].Completed {
		t.Fatalf("expected only second task completed, got %#v", svc.tasks)
	}
	if m.status != "tâche terminée" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.cursor != 1 {
		t.Fatalf("expected cursor to stay on toggled task, got %d", m.cursor)
	}
	if got := m.board.Stats; got.Completed != 1 || got.Pending != 1 || got.HighPriority != 1 {
		t.Fatalf("unexpected stats after toggle %#v", got)
	}

	m = applyMsg(t, m, keyRune(' '))
	if svc.tasks[1].Completed {
		t.Fatal("expected second toggle to reopen task")
	}
	if m.status != "tâche rouverte" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.board.Tasks[0].Title != "First" || m.board.Tasks[1].Title != "Second" {
		t.Fatalf("expected order unchanged, got %#v", m.board.Tasks)
	}
}

func TestModelToggleOnEmptyListIsNoop(t *testing.T) {
	m := loadReadyModel(t, NewModel(newFakeService()))
	_, cmd := m.Update(keyRune('x'))
	if cmd != nil {
		t.Fatal("expected no command without a selected task")
	}
}

func TestModelSearchFiltersLive(t *testing.T) {
	svc := newFakeService(
		mustTask(t, 1, "Buy milk", domain.PriorityMedium, false),
		mustTask(t, 2, "Sell car", domain.PriorityMedium, false),
	)
	m := loadReadyModel(t, NewModel(svc))

	m = sendKey(t, m, keyRune('/'))
	if m.focus != focusSearch {
		t.Fatalf("expected search focus, got %v", m.focus)
	}
	m = typeText(t, m, "MILK")
	if svc.searchTerm != "MILK" {
		t.Fatalf("expected search term mirrored to service, got %q", svc.searchTerm)
	}
	m = reloadBoard(t, m)
	out := plainView(m)
	if !strings.Contains(out, "Buy milk") || strings.Contains(out, "Sell car") {
		t.Fatalf("expected only milk task visible\n%s", out)
	}
	if got := m.board.Stats; got.Total != 2 {
		t.Fatalf("expected stats over all tasks, got %#v", got)
	}

	m = typeText(t, m, "X")
	m = reloadBoard(t, m)
	if out := plainView(m); !strings.Contains(out, "Aucune tâche trouvée") {
		t.Fatalf("expected no-match message\n%s", out)
	}

	m = sendKey(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.focus != focusList || m.searchInput.Value() != "MILKX" {
		t.Fatalf("expected list focus with term kept, focus=%v term=%q", m.focus, m.searchInput.Value())
	}
	m = sendKey(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.searchInput.Value() != "" || svc.searchTerm != "" {
		t.Fatalf("expected search cleared, got %q / %q", m.searchInput.Value(), svc.searchTerm)
	}
	if m.status != "recherche effacée" {
		t.Fatalf("unexpected status %q", m.status)
	}
	m = reloadBoard(t, m)
	if out := plainView(m); !strings.Contains(out, "Sell car") {
		t.Fatalf("expected full list after clearing search\n%s", out)
	}
}

func TestModelToggleActsOnFilteredSelection(t *testing.T) {
	svc := newFakeService(
		mustTask(t, 1, "Buy milk", domain.PriorityMedium, false),
		mustTask(t, 2, "Sell car", domain.PriorityMedium, false),
	)
	m := loadReadyModel(t, NewModel(svc))
	m = sendKey(t, m, keyRune('/'))
	m = typeText(t, m, "car")
	m = reloadBoard(t, m)
	m = sendKey(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	m = applyMsg(t, m, keyRune('x'))
	if svc.tasks[0].Completed || !svc.tasks[1].Completed {
		t.Fatalf("expected filtered task toggled, got %#v", svc.tasks)
	}
}

func TestModelEmptyListMessage(t *testing.T) {
	m := loadReadyModel(t, NewModel(newFakeService()))
	out := plainView(m)
	if !strings.Contains(out, "Aucune tâche pour le moment") {
		t.Fatalf("expected empty-store message\n%s", out)
	}
	if strings.Contains(out, "Aucune tâche trouvée") {
		t.Fatalf("unexpected no-match message\n%s", out)
	}
}

func TestModelCompletedRowRendering(t *testing.T) {
	m := loadReadyModel(t, NewModel(newFakeService(mustTask(t, 1, "Done thing", domain.PriorityLow, true))))
	row := m.renderTaskRow(m.board.Tasks[0], false, 80, lipgloss.Color(theme.Muted))
	plain := ansi.Strip(row)
	if !strings.Contains(plain, "[x] Done thing") || !strings.Contains(plain, "Basse") {
		t.Fatalf("unexpected completed row %q", plain)
	}
	tint := "48;5;" + theme.CompletedBG
	if !strings.Contains(row, tint) {
		t.Fatalf("expected completed row tint %q, got %q", tint, row)
	}

	pending := mustTask(t, 2, "Open thing", domain.PriorityLow, false)
	if row := m.renderTaskRow(pending, false, 80, lipgloss.Color(theme.Muted)); strings.Contains(row, tint) {
		t.Fatalf("expected pending row without tint, got %q", row)
	}
}

func TestModelRendersStoreSearchTerm(t *testing.T) {
	svc := newFakeService(
		mustTask(t, 1, "Buy milk", domain.PriorityMedium, false),
		mustTask(t, 2, "Sell car", domain.PriorityMedium, false),
	)
	m := loadReadyModel(t, NewModel(svc))
	svc.SetSearchTerm("zzz")
	m = reloadBoard(t, m)

	out := plainView(m)
	if !strings.Contains(out, "Aucune tâche trouvée") || strings.Contains(out, "Buy milk") {
		t.Fatalf("expected the store search term to drive the list\n%s", out)
	}
	if m.board.Stats.Total != 2 {
		t.Fatalf("expected stats over all tasks, got %#v", m.board.Stats)
	}
}

func TestModelCopySelectedTitle(t *testing.T) {
	var copied string
	svc := newFakeService(mustTask(t, 1, "Buy milk", domain.PriorityMedium, false))
	m := loadReadyModel(t, NewModel(svc, WithClipboard(func(s string) error {
		copied = s
		return nil
	})))

	m = applyMsg(t, m, keyRune('y'))
	if copied != "Buy milk" {
		t.Fatalf("expected title copied, got %q", copied)
	}
	if m.status != "copié : Buy milk" {
		t.Fatalf("unexpected status %q", m.status)
	}

	m = loadReadyModel(t, NewModel(svc, WithClipboard(func(string) error {
		return errors.New("no clipboard")
	})))
	m = applyMsg(t, m, keyRune('y'))
	if m.status != "copie impossible : no clipboard" {
		t.Fatalf("unexpected status %q", m.status)
	}
	if m.err != nil {
		t.Fatalf("expected clipboard failure to stay out of the error view, got %v", m.err)
	}
}

func TestModelFocusCycle(t *testing.T) {
	m := loadReadyModel(t, NewModel(newFakeService()))
	want := []focusZone{focusAddInput, focusAddButton, focusSearch, focusList}
	for _, zone := range want {
		m = sendKey(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
		if m.focus != zone {
			t.Fatalf("expected focus %v, got %v", zone, m.focus)
		}
	}
	m = sendKey(t, m, tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if m.focus != focusSearch {
		t.Fatalf("expected shift+tab back to search, got %v", m.focus)
	}
	m = sendKey(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.focus != focusList {
		t.Fatalf("expected esc back to list, got %v", m.focus)
	}
}

func TestModelHelpOverlay(t *testing.T) {
	svc := newFakeService(mustTask(t, 1, "Task", domain.PriorityLow, false))
	m := loadReadyModel(t, NewModel(svc))

	m = sendKey(t, m, keyRune('?'))
	if !m.help.ShowAll {
		t.Fatal("expected help overlay")
	}
	if out := plainView(m); !strings.Contains(out, "Raccourcis") {
		t.Fatalf("expected help overlay title\n%s", out)
	}
	_, cmd := m.Update(keyRune('x'))
	if cmd != nil {
		t.Fatal("expected list keys ignored while help is open")
	}
	m = sendKey(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.help.ShowAll {
		t.Fatal("expected esc to close help")
	}
}

func TestModelHelpMarkdownReflectsKeyConfig(t *testing.T) {
	m := NewModel(newFakeService(), WithKeyConfig(KeyConfig{Copy: "c"}))
	md := m.helpMarkdown()
	if !strings.Contains(md, "`c` copier le titre") {
		t.Fatalf("expected configured copy key in help, got\n%s", md)
	}
}

func TestModelMouseWheel(t *testing.T) {
	svc := newFakeService(
		mustTask(t, 1, "One", domain.PriorityLow, false),
		mustTask(t, 2, "Two", domain.PriorityLow, false),
	)
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	if m.cursor != 1 {
		t.Fatalf("expected cursor=1 after wheel down, got %d", m.cursor)
	}
	m = applyMsg(t, m, tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	if m.cursor != 1 {
		t.Fatalf("expected cursor clamped at 1, got %d", m.cursor)
	}
	m = applyMsg(t, m, tea.MouseWheelMsg{Button: tea.MouseWheelUp})
	if m.cursor != 0 {
		t.Fatalf("expected cursor=0 after wheel up, got %d", m.cursor)
	}
}

func TestModelQuitKeys(t *testing.T) {
	m := loadReadyModel(t, NewModel(newFakeService()))
	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit cmd")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit message")
	}

	m = sendKey(t, m, keyRune('a'))
	updated, cmd := m.Update(keyRune('q'))
	m = updated.(Model)
	if m.addInput.Value() != "q" {
		t.Fatalf("expected q typed into add field, got %q", m.addInput.Value())
	}
	if cmd != nil {
		if _, ok := cmd().(tea.QuitMsg); ok {
			t.Fatal("expected q not to quit while typing")
		}
	}
	_, cmd = m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected ctrl+c to quit from add field")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit message from ctrl+c")
	}
}

func TestModelErrorViewAndRetry(t *testing.T) {
	svc := newFakeService(mustTask(t, 1, "Task", domain.PriorityLow, false))
	svc.err = errors.New("boom")
	m := loadReadyModel(t, NewModel(svc))
	if m.err == nil {
		t.Fatal("expected load error")
	}
	if out := m.render(); !strings.Contains(out, "erreur : boom") {
		t.Fatalf("expected error view, got %q", out)
	}

	svc.err = nil
	m = applyMsg(t, m, keyRune('r'))
	if m.err != nil || len(m.board.Tasks) != 1 {
		t.Fatalf("expected retry to recover, err=%v tasks=%d", m.err, len(m.board.Tasks))
	}
}

func TestModelKeyConfigOverride(t *testing.T) {
	svc := newFakeService(mustTask(t, 1, "Task", domain.PriorityLow, false))
	m := loadReadyModel(t, NewModel(svc, WithKeyConfig(KeyConfig{Toggle: "t"})))

	_, cmd := m.Update(keyRune('x'))
	if cmd != nil {
		t.Fatal("expected default toggle key to be replaced")
	}
	m = applyMsg(t, m, keyRune('t'))
	if !svc.tasks[0].Completed {
		t.Fatal("expected configured key to toggle")
	}
}

func TestModelShippedKeyDefaultsKeepToggleAlias(t *testing.T) {
	svc := newFakeService(mustTask(t, 1, "Task", domain.PriorityLow, false))
	m := loadReadyModel(t, NewModel(svc, WithKeyConfig(KeyConfig{Toggle: "space", Copy: "y", Add: "a", Search: "/"})))

	m = applyMsg(t, m, keyRune('x'))
	if !svc.tasks[0].Completed {
		t.Fatal("expected x to toggle with the shipped key config")
	}
	m = applyMsg(t, m, keyRune(' '))
	if svc.tasks[0].Completed {
		t.Fatal("expected space to toggle with the shipped key config")
	}
}

func TestModelViewModes(t *testing.T) {
	m := NewModel(newFakeService())
	if got := m.render(); got != statusLoading {
		t.Fatalf("expected loading view before size, got %q", got)
	}
	v := m.View()
	if v.MouseMode != tea.MouseModeCellMotion || !v.AltScreen {
		t.Fatal("expected alt screen with mouse enabled")
	}
}

func TestModelNarrowWidthStacksCards(t *testing.T) {
	m := NewModel(newSeededService(t))
	m = applyCmd(t, m, m.Init())
	m = applyMsg(t, m, tea.WindowSizeMsg{Width: 44, Height: 0})
	out := ansi.Strip(m.render())
	totalLine, highLine := -1, -1
	for idx, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Total Tâches") {
			totalLine = idx
		}
		if strings.Contains(line, "Priorité Haute") {
			highLine = idx
		}
	}
	if totalLine < 0 || highLine <= totalLine {
		t.Fatalf("expected cards stacked on narrow terminals\n%s", out)
	}
}

func TestRenderDashboardHeadless(t *testing.T) {
	svc := newSeededService(t)
	out, err := RenderDashboard(context.Background(), svc, 100, WithSearchTerm("perf"))
	if err != nil {
		t.Fatalf("RenderDashboard() error = %v", err)
	}
	plain := ansi.Strip(out)
	if !strings.Contains(plain, "Optimiser les performances") || strings.Contains(plain, "Réviser les composants React") {
		t.Fatalf("expected filtered render\n%s", plain)
	}
	dash, err := svc.Dashboard(context.Background())
	if err != nil || dash.SearchTerm != "perf" {
		t.Fatalf("expected search term stored, got %q (%v)", dash.SearchTerm, err)
	}

	failing := newFakeService()
	failing.err = errors.New("boom")
	if _, err := RenderDashboard(context.Background(), failing, 80); err == nil {
		t.Fatal("expected load error")
	}
}

func TestHelpers(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("unexpected truncate %q", got)
	}
	if got := wrapIndex(0, -1, 4); got != 3 {
		t.Fatalf("unexpected wrapIndex %d", got)
	}
	if start, end := windowBounds(10, 9, 4); start != 6 || end != 10 {
		t.Fatalf("unexpected window %d..%d", start, end)
	}
	if got := fitLines("a\nb\nc", 2); got != "a\n…" {
		t.Fatalf("unexpected fitLines %q", got)
	}
}

func plainView(m Model) string {
	return ansi.Strip(m.render())
}

// reloadBoard applies one store snapshot, as the reload command does after a search keystroke.
func reloadBoard(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, m, m.loadData())
}

func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 120, Height: 40})
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

// sendKey applies one message without running returned commands such as cursor blinks.
func sendKey(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return out
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = sendKey(t, m, keyRune(r))
	}
	return m
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}
