package library

import (
	"fmt"
	"sync"
	"testing"

	domainerrors "smartlib/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() Option {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("b%d", n)
	})
}

func newTestLibrary(t *testing.T, capacity int) *Library {
	t.Helper()
	shelves := []Shelf{
		{Name: "Shelf-A", Capacity: capacity},
		{Name: "Shelf-B", Capacity: capacity},
		{Name: "Shelf-C", Capacity: capacity},
		{Name: "Annex-1", Capacity: capacity},
	}
	lib, err := New(shelves, sequentialIDs())
	require.NoError(t, err)
	return lib
}

func TestNew_RejectsBadShelves(t *testing.T) {
	tests := []struct {
		name    string
		shelves []Shelf
	}{
		{name: "none"},
		{name: "blank name", shelves: []Shelf{{Name: "  ", Capacity: 1}}},
		{name: "duplicate", shelves: []Shelf{{Name: "S", Capacity: 1}, {Name: "S", Capacity: 2}}},
		{name: "zero capacity", shelves: []Shelf{{Name: "S", Capacity: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.shelves)
			assert.Error(t, err)
		})
	}
}

func TestLibrary_AddAssignsUUIDByDefault(t *testing.T) {
	lib, err := New([]Shelf{{Name: "Shelf-A", Capacity: 2}})
	require.NoError(t, err)

	b1, err := lib.Add("AI", "Russell", "Shelf-A")
	require.NoError(t, err)
	b2, err := lib.Add("AI", "Russell", "Shelf-A")
	require.NoError(t, err)

	assert.Len(t, b1.ID, 36)
	assert.NotEqual(t, b1.ID, b2.ID)
}

func TestLibrary_AddTrimsAndStores(t *testing.T) {
	lib := newTestLibrary(t, 7)

	b, err := lib.Add("  Python Crash Course ", " Matthes", "Shelf-C ")
	require.NoError(t, err)
	assert.Equal(t, Book{ID: "b1", Title: "Python Crash Course", Author: "Matthes", Shelf: "Shelf-C"}, b)

	got, err := lib.Get("b1")
	require.NoError(t, err)
	assert.Equal(t, b, got)
	assert.Equal(t, 1, lib.Len())
}

func TestLibrary_AddFailuresLeaveCatalogUnchanged(t *testing.T) {
	lib := newTestLibrary(t, 3)
	for i := 0; i < 3; i++ {
		_, err := lib.Add(fmt.Sprintf("Book %d", i), "Author", "Shelf-A")
		require.NoError(t, err)
	}
	before := lib.Books()

	tests := []struct {
		name   string
		title  string
		author string
		shelf  string
		code   domainerrors.ErrorCode
	}{
		{name: "blank title", title: "   ", author: "X", shelf: "Shelf-B", code: domainerrors.CodeValidationError},
		{name: "blank author", title: "T", author: "", shelf: "Shelf-B", code: domainerrors.CodeValidationError},
		{name: "unknown shelf", title: "T", author: "X", shelf: "Shelf-Z", code: domainerrors.CodeNotFound},
		{name: "full shelf", title: "T", author: "X", shelf: "Shelf-A", code: domainerrors.CodeShelfFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lib.Add(tt.title, tt.author, tt.shelf)
			require.Error(t, err)
			assert.True(t, domainerrors.IsCode(err, tt.code), "got %v", err)
			assert.Equal(t, before, lib.Books())
		})
	}
}

func TestLibrary_FullShelfMessage(t *testing.T) {
	lib := newTestLibrary(t, 3)
	for i := 0; i < 3; i++ {
		_, err := lib.Add(fmt.Sprintf("Book %d", i), "Author", "Shelf-A")
		require.NoError(t, err)
	}

	_, err := lib.Add("Fourth", "Author", "Shelf-A")
	require.Error(t, err)
	assert.Equal(t, "Shelf-A is full (3/3)", domainerrors.MessageOf(err))

	used, err := lib.Occupancy("Shelf-A")
	require.NoError(t, err)
	assert.Equal(t, 3, used)
}

func TestLibrary_ValidationMessageNamesFields(t *testing.T) {
	lib := newTestLibrary(t, 3)
	_, err := lib.Add("", " ", "Shelf-A")
	require.Error(t, err)
	assert.Equal(t, "title, author must not be empty", domainerrors.MessageOf(err))
}

func TestLibrary_Update(t *testing.T) {
	lib := newTestLibrary(t, 2)
	a1, err := lib.Add("AI", "Russell", "Shelf-A")
	require.NoError(t, err)
	_, err = lib.Add("Database", "Silberschatz", "Shelf-B")
	require.NoError(t, err)
	_, err = lib.Add("Networks", "Tanenbaum", "Shelf-B")
	require.NoError(t, err)

	t.Run("same shelf skips capacity check", func(t *testing.T) {
		_, err := lib.Add("Ethics", "Singer", "Shelf-A")
		require.NoError(t, err)
		// Shelf-A is now full; editing a book already on it must still work.
		got, err := lib.Update(a1.ID, "Artificial Intelligence", "Russell & Norvig", "Shelf-A")
		require.NoError(t, err)
		assert.Equal(t, "Artificial Intelligence", got.Title)
		assert.Equal(t, a1.ID, got.ID)
	})

	t.Run("moving to full shelf fails", func(t *testing.T) {
		before := lib.Books()
		_, err := lib.Update(a1.ID, "AI", "Russell", "Shelf-B")
		require.Error(t, err)
		assert.True(t, domainerrors.IsCode(err, domainerrors.CodeShelfFull))
		assert.Equal(t, before, lib.Books())
	})

	t.Run("moving to shelf with room", func(t *testing.T) {
		got, err := lib.Update(a1.ID, "AI", "Russell", "Shelf-C")
		require.NoError(t, err)
		assert.Equal(t, "Shelf-C", got.Shelf)
		used, _ := lib.Occupancy("Shelf-A")
		assert.Equal(t, 1, used)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := lib.Update("missing", "T", "A", "Shelf-A")
		assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
	})

	t.Run("unknown shelf", func(t *testing.T) {
		_, err := lib.Update(a1.ID, "T", "A", "Shelf-Z")
		assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
	})

	t.Run("blank fields", func(t *testing.T) {
		_, err := lib.Update(a1.ID, "T", " ", "Shelf-A")
		assert.True(t, domainerrors.IsCode(err, domainerrors.CodeValidationError))
	})
}

func TestLibrary_DeleteFreesCapacity(t *testing.T) {
	lib := newTestLibrary(t, 1)
	b, err := lib.Add("AI", "Russell", "Shelf-A")
	require.NoError(t, err)

	removed, err := lib.Delete(b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, removed)
	assert.Zero(t, lib.Len())

	ok, err := lib.HasRoom("Shelf-A")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = lib.Delete(b.ID)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
}

func TestLibrary_Search(t *testing.T) {
	lib := newTestLibrary(t, 7)
	_, _ = lib.Add("AI", "Russell", "Shelf-A")
	_, _ = lib.Add("Database", "Silberschatz", "Shelf-B")
	_, _ = lib.Add("Python", "Matthes", "Shelf-C")

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"AI", "Database", "Python"}},
		{query: "   ", want: []string{"AI", "Database", "Python"}},
		{query: "PYTH", want: []string{"Python"}},
		{query: "russell", want: []string{"AI"}},
		{query: "shelf-b", want: []string{"Database"}},
		{query: "a", want: []string{"AI", "Database", "Python"}},
		{query: "nothing here", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := lib.Search(tt.query)
			titles := make([]string, 0, len(got))
			for _, b := range got {
				titles = append(titles, b.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestLibrary_Lookup(t *testing.T) {
	lib := newTestLibrary(t, 7)
	first, _ := lib.Add("Database", "Silberschatz", "Shelf-B")
	_, _ = lib.Add("database", "Someone Else", "Shelf-C")

	got, err := lib.Lookup("DATABASE")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	got, err = lib.Lookup("b2")
	require.NoError(t, err)
	assert.Equal(t, "Someone Else", got.Author)

	_, err = lib.Lookup("Unknown Title")
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
}

func TestLibrary_Capacity(t *testing.T) {
	lib := newTestLibrary(t, 1)
	_, err := lib.Add("AI", "Russell", "Shelf-A")
	require.NoError(t, err)

	_, err = lib.Add("Ethics", "Singer", "Shelf-A")
	require.True(t, domainerrors.IsCode(err, domainerrors.CodeShelfFull))

	require.NoError(t, lib.IncreaseCapacity("Shelf-A", 1))
	_, err = lib.Add("Ethics", "Singer", "Shelf-A")
	require.NoError(t, err)

	capacity, err := lib.Capacity("Shelf-A")
	require.NoError(t, err)
	assert.Equal(t, 2, capacity)

	assert.True(t, domainerrors.IsCode(lib.IncreaseCapacity("Shelf-A", 0), domainerrors.CodeValidationError))
	assert.True(t, domainerrors.IsCode(lib.IncreaseCapacity("Shelf-Z", 1), domainerrors.CodeNotFound))
	assert.True(t, domainerrors.IsCode(lib.IncreaseCapacityAll(-1), domainerrors.CodeValidationError))

	_, err = lib.Occupancy("Shelf-Z")
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
	_, err = lib.HasRoom("Shelf-Z")
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))
}

func TestLibrary_IncreaseCapacityAllAndTotals(t *testing.T) {
	lib := newTestLibrary(t, 7)
	_, _ = lib.Add("AI", "Russell", "Shelf-A")

	require.NoError(t, lib.IncreaseCapacityAll(1))

	assert.Equal(t, Totals{Books: 1, Shelves: 4, Capacity: 32}, lib.Totals())
	assert.Equal(t, []ShelfUsage{
		{Shelf: "Shelf-A", Used: 1, Capacity: 8},
		{Shelf: "Shelf-B", Used: 0, Capacity: 8},
		{Shelf: "Shelf-C", Used: 0, Capacity: 8},
		{Shelf: "Annex-1", Used: 0, Capacity: 8},
	}, lib.Usage())
}

func TestLibrary_IncreaseCapacityMatching(t *testing.T) {
	lib := newTestLibrary(t, 7)

	matched, err := lib.IncreaseCapacityMatching("Shelf-*", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shelf-A", "Shelf-B", "Shelf-C"}, matched)

	capacity, _ := lib.Capacity("Annex-1")
	assert.Equal(t, 7, capacity)
	capacity, _ = lib.Capacity("Shelf-B")
	assert.Equal(t, 9, capacity)

	matched, err = lib.IncreaseCapacityMatching("Shelf-[AC]", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shelf-A", "Shelf-C"}, matched)

	_, err = lib.IncreaseCapacityMatching("Vault-*", 1)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound))

	_, err = lib.IncreaseCapacityMatching("Shelf-*", 0)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeValidationError))
}

func TestLibrary_ConcurrentAddsNeverOverfill(t *testing.T) {
	lib, err := New([]Shelf{{Name: "Shelf-A", Capacity: 5}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := lib.Add(fmt.Sprintf("Book %d", i), "Author", "Shelf-A"); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, accepted)
	used, _ := lib.Occupancy("Shelf-A")
	assert.Equal(t, 5, used)
}
