package library

import (
	"errors"
	"fmt"
	"strings"

	domainerrors "smartlib/internal/core/errors"

	"github.com/go-playground/validator/v10"
)

// bookInput is the trimmed form of a create or update request.
type bookInput struct {
	Title  string `validate:"required"`
	Author string `validate:"required"`
	Shelf  string `validate:"required"`
}

func newBookInput(title, author, shelf string) bookInput {
	return bookInput{
		Title:  strings.TrimSpace(title),
		Author: strings.TrimSpace(author),
		Shelf:  strings.TrimSpace(shelf),
	}
}

func (l *Library) validateInput(in bookInput) error {
	err := l.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domainerrors.Wrap(err, domainerrors.CodeValidationError, "invalid book")
	}
	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, strings.ToLower(fe.Field()))
	}
	return domainerrors.AddContext(
		domainerrors.Newf(domainerrors.CodeValidationError, "%s must not be empty", strings.Join(missing, ", ")),
		"fields", missing,
	)
}

// Add stores a new book on shelf. Nothing changes unless every check passes.
func (l *Library) Add(title, author, shelf string) (Book, error) {
	in := newBookInput(title, author, shelf)
	if err := l.validateInput(in); err != nil {
		return Book{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	capacity, ok := l.capacity[in.Shelf]
	if !ok {
		return Book{}, unknownShelf(in.Shelf)
	}
	if used := l.occupancyLocked(in.Shelf, ""); used >= capacity {
		return Book{}, shelfFull(in.Shelf, used, capacity)
	}

	book := Book{ID: l.newID(), Title: in.Title, Author: in.Author, Shelf: in.Shelf}
	l.books = append(l.books, book)
	return book, nil
}

// Update replaces the fields of the book with id. Capacity is only checked
// when the shelf changes, and the book itself is not counted against it.
func (l *Library) Update(id, title, author, shelf string) (Book, error) {
	in := newBookInput(title, author, shelf)

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexLocked(id)
	if idx < 0 {
		return Book{}, unknownBook(id)
	}
	if err := l.validateInput(in); err != nil {
		return Book{}, domainerrors.AddContext(err, domainerrors.CtxBook, id)
	}
	capacity, ok := l.capacity[in.Shelf]
	if !ok {
		return Book{}, unknownShelf(in.Shelf)
	}
	current := l.books[idx]
	if in.Shelf != current.Shelf {
		if used := l.occupancyLocked(in.Shelf, id); used >= capacity {
			return Book{}, shelfFull(in.Shelf, used, capacity)
		}
	}

	updated := Book{ID: current.ID, Title: in.Title, Author: in.Author, Shelf: in.Shelf}
	l.books[idx] = updated
	return updated, nil
}

// Delete removes the book with id and returns the removed record.
func (l *Library) Delete(id string) (Book, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexLocked(id)
	if idx < 0 {
		return Book{}, unknownBook(id)
	}
	removed := l.books[idx]
	l.books = append(l.books[:idx], l.books[idx+1:]...)
	return removed, nil
}

func (l *Library) Get(id string) (Book, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx := l.indexLocked(id)
	if idx < 0 {
		return Book{}, unknownBook(id)
	}
	return l.books[idx], nil
}

// Lookup resolves ref as a book id first, then as a case-insensitive exact
// title. The first title match in insertion order wins.
func (l *Library) Lookup(ref string) (Book, error) {
	ref = strings.TrimSpace(ref)
	l.mu.RLock()
	defer l.mu.RUnlock()
	if idx := l.indexLocked(ref); idx >= 0 {
		return l.books[idx], nil
	}
	for _, b := range l.books {
		if strings.EqualFold(b.Title, ref) {
			return b, nil
		}
	}
	return Book{}, unknownBook(ref)
}

func (l *Library) Books() []Book {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Book(nil), l.books...)
}

func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.books)
}

// Search matches query case-insensitively against title, author and shelf.
// A blank query returns the whole catalog.
func (l *Library) Search(query string) []Book {
	q := strings.ToLower(strings.TrimSpace(query))

	l.mu.RLock()
	defer l.mu.RUnlock()
	if q == "" {
		return append([]Book(nil), l.books...)
	}
	out := make([]Book, 0)
	for _, b := range l.books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.Shelf), q) {
			out = append(out, b)
		}
	}
	return out
}

func (l *Library) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, b := range l.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func unknownBook(id string) error {
	return domainerrors.AddContext(
		domainerrors.New(domainerrors.CodeNotFound, fmt.Sprintf("unknown book %q", id)),
		domainerrors.CtxBook, id,
	)
}
