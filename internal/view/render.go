package view

const (
	Title       = "Grillz"
	Description = "Backend smoke test:"

	LabelIdle = "Ping backend (/health)"
	LabelBusy = "Pinging..."

	// Placeholder is shown while there is no result to display.
	Placeholder = "—"
)

// Model is everything the page needs to draw one view.
type Model struct {
	Title          string
	Description    string
	ButtonLabel    string
	ButtonDisabled bool
	Result         string
}

// Render is a pure function of the two state cells.
func Render(s State) Model {
	m := Model{
		Title:          Title,
		Description:    Description,
		ButtonLabel:    LabelIdle,
		ButtonDisabled: s.InFlight,
		Result:         s.Result,
	}
	if s.InFlight {
		m.ButtonLabel = LabelBusy
	}
	if m.Result == "" {
		m.Result = Placeholder
	}
	return m
}
