package tui

// Option configures a Model.
type Option func(*Model)

func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.writeClipboard = write
		}
	}
}

// WithSearchTerm pre-fills the search field.
func WithSearchTerm(term string) Option {
	return func(m *Model) {
		m.searchInput.SetValue(term)
		m.searchInput.CursorEnd()
	}
}
