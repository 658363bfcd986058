// Package theme holds the ANSI 256 palette shared by the dashboard and the palette tool.
package theme

// Swatch names one palette entry.
type Swatch struct {
	Name  string
	Code  string
	Usage string
}

const (
	Accent      = "62"
	Title       = "252"
	Muted       = "241"
	Dim         = "239"
	Border      = "238"
	Selected    = "212"
	Success     = "42"
	Warning     = "214"
	Danger      = "203"
	Completed   = "243"
	CompletedBG = "22"
	Neutral     = "252"
)

// Palette lists every swatch in render order.
func Palette() []Swatch {
	return []Swatch{
		{Name: "Accent", Code: Accent, Usage: "focus borders, medium badge"},
		{Name: "Title", Code: Title, Usage: "header and card titles"},
		{Name: "Muted", Code: Muted, Usage: "subtitles, low badge"},
		{Name: "Dim", Code: Dim, Usage: "help footer"},
		{Name: "Border", Code: Border, Usage: "unfocused borders"},
		{Name: "Selected", Code: Selected, Usage: "list cursor"},
		{Name: "Success", Code: Success, Usage: "completed count, completed rows"},
		{Name: "Warning", Code: Warning, Usage: "pending count"},
		{Name: "Danger", Code: Danger, Usage: "high priority count and badge, errors"},
		{Name: "Completed", Code: Completed, Usage: "struck-through titles"},
		{Name: "CompletedBG", Code: CompletedBG, Usage: "completed row tint"},
		{Name: "Neutral", Code: Neutral, Usage: "total count"},
	}
}
