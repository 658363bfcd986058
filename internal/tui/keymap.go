package tui

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// KeyConfig holds user overrides for the rebindable list actions. Blank fields keep defaults.
type KeyConfig struct {
	Toggle string
	Copy   string
	Add    string
	Search string
}

// keyMap represents key map data used by this package.
type keyMap struct {
	quit        key.Binding
	reload      key.Binding
	toggleHelp  key.Binding
	moveUp      key.Binding
	moveDown    key.Binding
	toggleTask  key.Binding
	copyTitle   key.Binding
	focusAdd    key.Binding
	focusSearch key.Binding
	nextFocus   key.Binding
	prevFocus   key.Binding
	submit      key.Binding
	back        key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quitter")),
		reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recharger")),
		toggleHelp:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "aide")),
		moveUp:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "monter")),
		moveDown:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "descendre")),
		toggleTask:  key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space/x", "terminer / rouvrir")),
		copyTitle:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copier le titre")),
		focusAdd:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "nouvelle tâche")),
		focusSearch: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "rechercher")),
		nextFocus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "zone suivante")),
		prevFocus:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "zone précédente")),
		submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ajouter")),
		back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "retour à la liste")),
	}
}

// applyConfig rebinds the configurable actions. A value naming a key the
// binding already has leaves the built-in aliases in place.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.toggleTask, cfg.Toggle, "space", "terminer / rouvrir")
	configureBinding(&k.copyTitle, cfg.Copy, "y", "copier le titre")
	configureBinding(&k.focusAdd, cfg.Add, "a", "nouvelle tâche")
	configureBinding(&k.focusSearch, cfg.Search, "/", "rechercher")
}

// configureBinding replaces keys and help text on one binding. Blank values and
// values already bound are no-ops.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	keys, help := parseBindingKeys(raw, fallback)
	if hasAllKeys(*b, keys) {
		return
	}
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

func hasAllKeys(b key.Binding, keys []string) bool {
	for _, k := range keys {
		if !slices.Contains(b.Keys(), k) {
			return false
		}
	}
	return len(keys) > 0
}

// parseBindingKeys turns one configured key into matcher keys plus its help label.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = strings.TrimSpace(fallback)
	}
	if raw == "space" || raw == " " {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(raw) == 1 {
		r, _ := utf8.DecodeRuneInString(raw)
		if unicode.IsUpper(r) {
			return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw
		}
		return []string{raw}, raw
	}
	return []string{strings.ToLower(raw)}, raw
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.focusAdd, k.focusSearch, k.toggleTask, k.copyTitle, k.nextFocus, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveUp, k.moveDown, k.toggleTask, k.copyTitle, k.reload},
		{k.focusAdd, k.focusSearch, k.nextFocus, k.prevFocus, k.submit, k.back},
		{k.toggleHelp, k.quit},
	}
}
