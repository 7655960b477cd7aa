package cli

import (
	"strings"

	"smartlib/internal/core/ports"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldTitle = iota
	fieldAuthor
	fieldShelf
	fieldCount
)

// bookForm edits the three user fields of a book. editingID is empty when
// the form adds a new book.
type bookForm struct {
	inputs    []textinput.Model
	focus     int
	editingID string
}

func newBookForm(editingID string, req ports.BookRequest) bookForm {
	labels := [fieldCount]string{"Title:  ", "Author: ", "Shelf:  "}
	values := [fieldCount]string{req.Title, req.Author, req.Shelf}

	f := bookForm{inputs: make([]textinput.Model, fieldCount), editingID: editingID}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = labels[i]
		in.CharLimit = 120
		in.SetValue(values[i])
		f.inputs[i] = in
	}
	f.inputs[fieldTitle].Focus()
	return f
}

func (f bookForm) request() ports.BookRequest {
	return ports.BookRequest{
		Title:  f.inputs[fieldTitle].Value(),
		Author: f.inputs[fieldAuthor].Value(),
		Shelf:  f.inputs[fieldShelf].Value(),
	}
}

func (f bookForm) lastField() bool {
	return f.focus == fieldCount-1
}

func (f bookForm) move(delta int) bookForm {
	inputs := make([]textinput.Model, len(f.inputs))
	copy(inputs, f.inputs)
	f.inputs = inputs

	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
	return f
}

func (f bookForm) update(msg tea.Msg) (bookForm, tea.Cmd) {
	inputs := make([]textinput.Model, len(f.inputs))
	copy(inputs, f.inputs)
	f.inputs = inputs

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f bookForm) View() string {
	heading := "Add book"
	if f.editingID != "" {
		heading = "Edit book"
	}
	lines := []string{statusStyle.Render(heading + " (tab: next field, enter: save, esc: cancel)")}
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	return strings.Join(lines, "\n")
}
