package ui

import tea "github.com/charmbracelet/bubbletea"

// Run runs the booth TUI until the user quits
func Run(opts Options) error {
	model := NewModel(opts)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
