package cli

import (
	"context"

	"smartlib/internal/core/ports"
	"smartlib/internal/data/library"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.input {
	case inputSearch:
		return handleSearchKeys(msg, m)
	case inputForm:
		return handleFormKeys(msg, m)
	case inputConfirmDelete:
		return handleConfirmKeys(msg, m)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab):
		if m.mode == panelBooks {
			m.mode = panelShelves
		} else {
			m.mode = panelBooks
		}
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.input = inputSearch
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Add):
		m.form = newBookForm("", ports.BookRequest{Shelf: m.defaultShelf()})
		m.input = inputForm
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		book, ok := m.selectedBook()
		if !ok {
			return m, nil
		}
		m.form = newBookForm(book.ID, ports.BookRequest{Title: book.Title, Author: book.Author, Shelf: book.Shelf})
		m.input = inputForm
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		book, ok := m.selectedBook()
		if !ok {
			return m, nil
		}
		m.pendingDelete = book
		m.input = inputConfirmDelete
		return m, nil
	case key.Matches(msg, m.keys.Route):
		return routeToSelection(m), nil
	case key.Matches(msg, m.keys.Capacity):
		shelf := m.selectedShelf()
		if shelf == "" {
			return m, nil
		}
		return increaseCapacity(m, ports.CapacityRequest{Shelf: shelf, Delta: 1}), nil
	case key.Matches(msg, m.keys.CapacityAll):
		return increaseCapacity(m, ports.CapacityRequest{All: true, Delta: 1}), nil
	case key.Matches(msg, m.keys.Map):
		m.showMap = !m.showMap
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.route = nil
		m.status = ""
		m.statusErr = false
		return m, nil
	}

	var cmd tea.Cmd
	if m.mode == panelBooks {
		m.bookList, cmd = m.bookList.Update(msg)
	} else {
		m.shelfTable, cmd = m.shelfTable.Update(msg)
	}
	return m, cmd
}

func handleSearchKeys(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.SetValue("")
		m.search.Blur()
		m.input = inputNone
		return m.refresh(), nil
	case tea.KeyEnter:
		m.search.Blur()
		m.input = inputNone
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m.refresh(), cmd
}

func handleFormKeys(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input = inputNone
		m.form = bookForm{}
		return m.ok("Cancelled."), nil
	case tea.KeyTab, tea.KeyDown:
		m.form = m.form.move(1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.form = m.form.move(-1)
		return m, nil
	case tea.KeyEnter:
		if !m.form.lastField() {
			m.form = m.form.move(1)
			return m, nil
		}
		return submitForm(m), nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func handleConfirmKeys(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	book := m.pendingDelete
	m.pendingDelete = library.Book{}
	m.input = inputNone

	if msg.String() != "y" && msg.String() != "Y" {
		return m.ok("Delete cancelled."), nil
	}
	if _, err := m.svc.Delete(context.Background(), book.ID); err != nil {
		return m.fail(err), nil
	}
	if m.route != nil && m.route.Book != nil && m.route.Book.ID == book.ID {
		m.route = nil
	}
	return m.refresh().ok("Deleted %q.", book.Title), nil
}

// submitForm keeps the form open on failure so the user can correct it.
func submitForm(m model) model {
	ctx := context.Background()
	req := m.form.request()

	var (
		book library.Book
		err  error
	)
	if m.form.editingID != "" {
		book, err = m.svc.Update(ctx, m.form.editingID, req)
	} else {
		book, err = m.svc.Add(ctx, req)
	}
	if err != nil {
		return m.fail(err)
	}

	editing := m.form.editingID != ""
	m.input = inputNone
	m.form = bookForm{}
	m = m.refresh()
	if editing {
		return m.ok("Updated %q on %s.", book.Title, book.Shelf)
	}
	return m.ok("Added %q to %s.", book.Title, book.Shelf)
}

func routeToSelection(m model) model {
	ctx := context.Background()
	var (
		res ports.RouteResult
		err error
	)
	if m.mode == panelShelves {
		shelf := m.selectedShelf()
		if shelf == "" {
			return m
		}
		res, err = m.svc.RouteToShelf(ctx, shelf)
	} else {
		book, ok := m.selectedBook()
		if !ok {
			return m
		}
		res, err = m.svc.RouteToBook(ctx, book.ID)
	}
	if err != nil {
		m.route = nil
		return m.fail(err)
	}
	m.route = &res
	m.status = ""
	m.statusErr = false
	return m
}

func increaseCapacity(m model, req ports.CapacityRequest) model {
	res, err := m.svc.IncreaseCapacity(context.Background(), req)
	if err != nil {
		return m.fail(err)
	}
	m = m.refresh()
	if req.All {
		return m.ok("Increased capacity of all %d shelves by %d.", len(res.Shelves), res.Delta)
	}
	return m.ok("Increased capacity of %s by %d.", res.Shelves[0], res.Delta)
}

func (m model) selectedBook() (library.Book, bool) {
	selected, ok := m.bookList.SelectedItem().(item)
	if !ok {
		return library.Book{}, false
	}
	for _, b := range m.books {
		if b.ID == selected.id {
			return b, true
		}
	}
	return library.Book{}, false
}

// selectedShelf is the highlighted table row on the shelves panel, or the
// shelf of the highlighted book on the books panel.
func (m model) selectedShelf() string {
	if m.mode == panelShelves {
		idx := m.shelfTable.Cursor()
		if idx < 0 || idx >= len(m.usage) {
			return ""
		}
		return m.usage[idx].Shelf
	}
	if book, ok := m.selectedBook(); ok {
		return book.Shelf
	}
	return ""
}

func (m model) defaultShelf() string {
	if shelf := m.selectedShelf(); shelf != "" {
		return shelf
	}
	if len(m.usage) > 0 {
		return m.usage[0].Shelf
	}
	return ""
}
