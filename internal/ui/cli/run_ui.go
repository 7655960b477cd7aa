package cli

import (
	coreapp "smartlib/internal/core/app"

	tea "github.com/charmbracelet/bubbletea"
)

func runUI(app *coreapp.App) error {
	m := initialModel(app.LibraryService())
	p := tea.NewProgram(m, tea.WithAltScreen())

	app.SetUpdateHandler(func(update coreapp.Update) {
		summary := app.Library.Totals()
		go p.Send(updateMsg{
			books:  app.Library.Books(),
			usage:  update.Usage,
			totals: summary,
		})
	})
	defer app.SetUpdateHandler(nil)

	_, err := p.Run()
	return err
}
