package app

import (
	"context"
	"fmt"
	"strings"

	"smartlib/internal/core/errors"
	"smartlib/internal/core/ports"
	"smartlib/internal/data/library"
	"smartlib/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type libraryService struct {
	app *App
}

var _ ports.LibraryService = (*libraryService)(nil)

func NewLibraryService(app *App) ports.LibraryService {
	return &libraryService{app: app}
}

func (a *App) LibraryService() ports.LibraryService {
	return NewLibraryService(a)
}

func (s *libraryService) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.app == nil {
		return fmt.Errorf("app is required")
	}
	return nil
}

// finish records the outcome of a catalog operation on span and in metrics.
func finish(span trace.Span, operation string, err error) {
	observability.CatalogOperationsTotal.WithLabelValues(operation, operationResult(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(errors.CodeOf(err)))
	}
	span.End()
}

func (s *libraryService) Books(ctx context.Context) ([]library.Book, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return s.app.Library.Books(), nil
}

func (s *libraryService) Search(ctx context.Context, query string) ([]library.Book, error) {
	_, span := observability.Tracer.Start(ctx, "libraryService.Search",
		trace.WithAttributes(attribute.String("catalog.query", query)))
	if err := s.ready(ctx); err != nil {
		finish(span, "search", err)
		return nil, err
	}
	books := s.app.Library.Search(query)
	span.SetAttributes(attribute.Int("catalog.matches", len(books)))
	finish(span, "search", nil)
	return books, nil
}

func (s *libraryService) Add(ctx context.Context, req ports.BookRequest) (library.Book, error) {
	_, span := observability.Tracer.Start(ctx, "libraryService.Add",
		trace.WithAttributes(attribute.String("catalog.shelf", req.Shelf)))
	book, err := s.add(ctx, req)
	finish(span, "add", err)
	return book, err
}

func (s *libraryService) add(ctx context.Context, req ports.BookRequest) (library.Book, error) {
	if err := s.ready(ctx); err != nil {
		return library.Book{}, err
	}
	book, err := s.app.Library.Add(req.Title, req.Author, req.Shelf)
	if err != nil {
		return library.Book{}, errors.AddContext(err, errors.CtxOperation, "add")
	}
	s.app.emitUpdate("add")
	return book, nil
}

func (s *libraryService) Update(ctx context.Context, id string, req ports.BookRequest) (library.Book, error) {
	_, span := observability.Tracer.Start(ctx, "libraryService.Update",
		trace.WithAttributes(attribute.String("catalog.book", id), attribute.String("catalog.shelf", req.Shelf)))
	book, err := s.update(ctx, id, req)
	finish(span, "update", err)
	return book, err
}

func (s *libraryService) update(ctx context.Context, id string, req ports.BookRequest) (library.Book, error) {
	if err := s.ready(ctx); err != nil {
		return library.Book{}, err
	}
	book, err := s.app.Library.Update(id, req.Title, req.Author, req.Shelf)
	if err != nil {
		return library.Book{}, errors.AddContext(err, errors.CtxOperation, "update")
	}
	s.app.emitUpdate("update")
	return book, nil
}

func (s *libraryService) Delete(ctx context.Context, id string) (library.Book, error) {
	_, span := observability.Tracer.Start(ctx, "libraryService.Delete",
		trace.WithAttributes(attribute.String("catalog.book", id)))
	book, err := s.remove(ctx, id)
	finish(span, "delete", err)
	return book, err
}

func (s *libraryService) remove(ctx context.Context, id string) (library.Book, error) {
	if err := s.ready(ctx); err != nil {
		return library.Book{}, err
	}
	book, err := s.app.Library.Delete(id)
	if err != nil {
		return library.Book{}, errors.AddContext(err, errors.CtxOperation, "delete")
	}
	s.app.emitUpdate("delete")
	return book, nil
}

func (s *libraryService) Usage(ctx context.Context) (ports.CatalogSummary, error) {
	if err := s.ready(ctx); err != nil {
		return ports.CatalogSummary{}, err
	}
	return ports.CatalogSummary{
		Usage:  s.app.Library.Usage(),
		Totals: s.app.Library.Totals(),
	}, nil
}

func (s *libraryService) IncreaseCapacity(ctx context.Context, req ports.CapacityRequest) (ports.CapacityResult, error) {
	_, span := observability.Tracer.Start(ctx, "libraryService.IncreaseCapacity",
		trace.WithAttributes(
			attribute.String("capacity.shelf", req.Shelf),
			attribute.String("capacity.pattern", req.Pattern),
			attribute.Bool("capacity.all", req.All),
			attribute.Int("capacity.delta", req.Delta),
		))
	res, err := s.increaseCapacity(ctx, req)
	finish(span, "increase_capacity", err)
	return res, err
}

func (s *libraryService) increaseCapacity(ctx context.Context, req ports.CapacityRequest) (ports.CapacityResult, error) {
	if err := s.ready(ctx); err != nil {
		return ports.CapacityResult{}, err
	}
	if req.Delta == 0 {
		req.Delta = 1
	}
	lib := s.app.Library

	var shelves []string
	switch {
	case req.All:
		if err := lib.IncreaseCapacityAll(req.Delta); err != nil {
			return ports.CapacityResult{}, err
		}
		shelves = lib.Shelves()
	case strings.TrimSpace(req.Pattern) != "":
		matched, err := lib.IncreaseCapacityMatching(req.Pattern, req.Delta)
		if err != nil {
			return ports.CapacityResult{}, err
		}
		shelves = matched
	case strings.TrimSpace(req.Shelf) != "":
		shelf := strings.TrimSpace(req.Shelf)
		if err := lib.IncreaseCapacity(shelf, req.Delta); err != nil {
			return ports.CapacityResult{}, err
		}
		shelves = []string{shelf}
	default:
		return ports.CapacityResult{}, errors.New(errors.CodeValidationError, "choose a shelf, a pattern or all shelves")
	}

	s.app.emitUpdate("increase_capacity")
	return ports.CapacityResult{Shelves: shelves, Delta: req.Delta}, nil
}

func (s *libraryService) RouteToBook(ctx context.Context, ref string) (ports.RouteResult, error) {
	if err := s.ready(ctx); err != nil {
		return ports.RouteResult{}, err
	}
	book, route, stats, err := s.app.RouteToBook(ctx, ref)
	if err != nil {
		return ports.RouteResult{}, err
	}
	return ports.RouteResult{Book: &book, Shelf: book.Shelf, Route: route, Stats: stats}, nil
}

func (s *libraryService) RouteToShelf(ctx context.Context, shelf string) (ports.RouteResult, error) {
	if err := s.ready(ctx); err != nil {
		return ports.RouteResult{}, err
	}
	shelf = strings.TrimSpace(shelf)
	route, stats, err := s.app.RouteToShelf(ctx, shelf)
	if err != nil {
		return ports.RouteResult{}, err
	}
	return ports.RouteResult{Shelf: shelf, Route: route, Stats: stats}, nil
}

func (s *libraryService) Facility(ctx context.Context) (ports.FacilitySnapshot, error) {
	if err := s.ready(ctx); err != nil {
		return ports.FacilitySnapshot{}, err
	}
	shelves := s.app.shelfNodes()
	snap := ports.FacilitySnapshot{
		Start:       s.app.Config.Facility.Start,
		Edges:       s.app.Graph.Edges(),
		Unreachable: sortedCopy(s.app.unreachable),
	}
	for _, id := range s.app.Graph.Nodes() {
		node := ports.FacilityNode{ID: id, Shelf: shelves[id]}
		if pos, ok := s.app.Heuristic.Position(id); ok {
			node.X, node.Y, node.HasPos = pos.X, pos.Y, true
		}
		snap.Nodes = append(snap.Nodes, node)
	}
	return snap, nil
}
