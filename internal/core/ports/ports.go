package ports

import (
	"context"

	"smartlib/internal/data/library"
	"smartlib/internal/engine/planner"
)

// BookRequest carries the user-editable fields of a book.
type BookRequest struct {
	Title  string
	Author string
	Shelf  string
}

// CapacityRequest grows one shelf, every shelf (All), or every shelf matching
// a glob Pattern. Exactly one selector should be set. A zero Delta means 1.
type CapacityRequest struct {
	Shelf   string
	Pattern string
	All     bool
	Delta   int
}

// CapacityResult lists the shelves whose capacity changed.
type CapacityResult struct {
	Shelves []string
	Delta   int
}

// RouteResult is a planned walk from the facility start to a shelf.
type RouteResult struct {
	Book  *library.Book
	Shelf string
	Route planner.Route
	Stats planner.Stats
}

// FacilityNode is one node of the facility map with its optional coordinate.
type FacilityNode struct {
	ID     string
	X, Y   int
	HasPos bool
	Shelf  bool
}

// FacilitySnapshot describes the static facility map for renderers.
type FacilitySnapshot struct {
	Start string
	Nodes []FacilityNode
	Edges [][2]string
	// Unreachable lists shelves that no route can reach from Start.
	Unreachable []string
}

// CatalogSummary backs the stats view.
type CatalogSummary struct {
	Usage  []library.ShelfUsage
	Totals library.Totals
}

// LibraryService is the driving port used by the CLI and the TUI.
type LibraryService interface {
	Books(ctx context.Context) ([]library.Book, error)
	Search(ctx context.Context, query string) ([]library.Book, error)
	Add(ctx context.Context, req BookRequest) (library.Book, error)
	Update(ctx context.Context, id string, req BookRequest) (library.Book, error)
	Delete(ctx context.Context, id string) (library.Book, error)
	Usage(ctx context.Context) (CatalogSummary, error)
	IncreaseCapacity(ctx context.Context, req CapacityRequest) (CapacityResult, error)
	RouteToBook(ctx context.Context, ref string) (RouteResult, error)
	RouteToShelf(ctx context.Context, shelf string) (RouteResult, error)
	Facility(ctx context.Context) (FacilitySnapshot, error)
}
