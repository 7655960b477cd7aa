// Package library owns the in-memory catalog and the shelf capacity table.
//
// Both live behind one mutex: a capacity check and the insertion it guards
// happen under the same lock, so concurrent callers cannot overfill a shelf.
package library

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Book is one catalog record. ID is assigned on Add and never changes.
type Book struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Shelf  string `json:"shelf"`
}

// Shelf is the configured capacity of one shelf location.
type Shelf struct {
	Name     string
	Capacity int
}

type Library struct {
	mu sync.RWMutex

	books    []Book
	shelves  []string // configured order
	capacity map[string]int

	validate *validator.Validate
	newID    func() string
}

type Option func(*Library)

// WithIDGenerator replaces the uuid generator, mainly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(l *Library) {
		if fn != nil {
			l.newID = fn
		}
	}
}

func New(shelves []Shelf, opts ...Option) (*Library, error) {
	if len(shelves) == 0 {
		return nil, fmt.Errorf("at least one shelf is required")
	}

	l := &Library{
		shelves:  make([]string, 0, len(shelves)),
		capacity: make(map[string]int, len(shelves)),
		validate: validator.New(),
		newID:    func() string { return uuid.New().String() },
	}
	for i, shelf := range shelves {
		name := strings.TrimSpace(shelf.Name)
		if name == "" {
			return nil, fmt.Errorf("shelves[%d].name must not be empty", i)
		}
		if _, dup := l.capacity[name]; dup {
			return nil, fmt.Errorf("duplicate shelf %q", name)
		}
		if shelf.Capacity < 1 {
			return nil, fmt.Errorf("shelf %q capacity must be >= 1, got %d", name, shelf.Capacity)
		}
		l.shelves = append(l.shelves, name)
		l.capacity[name] = shelf.Capacity
	}

	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}
