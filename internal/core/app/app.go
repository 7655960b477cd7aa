package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"smartlib/internal/core/config"
	"smartlib/internal/core/errors"
	"smartlib/internal/data/library"
	"smartlib/internal/engine/graph"
	"smartlib/internal/engine/planner"
	"smartlib/internal/shared/observability"
)

// Update is emitted after every successful catalog or capacity change.
type Update struct {
	Operation string
	Books     int
	Usage     []library.ShelfUsage
}

type App struct {
	Config    *config.Config
	Graph     *graph.Graph
	Heuristic *graph.Heuristic
	Planner   *planner.Planner
	Library   *library.Library

	unreachable []string

	updateMu sync.RWMutex
	onUpdate func(Update)
}

type options struct {
	library []library.Option
	planner []planner.Option
}

type Option func(*options)

// WithLibraryOptions forwards options to the catalog, e.g. a fixed id generator.
func WithLibraryOptions(opts ...library.Option) Option {
	return func(o *options) { o.library = append(o.library, opts...) }
}

// WithPlannerOptions forwards options to the route planner, e.g. a tracer.
func WithPlannerOptions(opts ...planner.Option) Option {
	return func(o *options) { o.planner = append(o.planner, opts...) }
}

// New builds the facility graph, the heuristic, the planner and the seeded
// catalog from cfg. cfg is validated first since env overrides may have
// changed it after Load.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %w", stderrors.Join(errs...))
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	g, err := graph.New(cfg.Facility.Adjacency)
	if err != nil {
		return nil, fmt.Errorf("build facility graph: %w", err)
	}

	positions := make(map[string]graph.Point, len(cfg.Facility.Positions))
	for id, pos := range cfg.Facility.Positions {
		positions[id] = graph.Point{X: pos.X, Y: pos.Y}
	}
	h := graph.NewHeuristic(positions, graph.WithStepLength(graph.AdmissibleStep(g, positions)))

	shelves := make([]library.Shelf, 0, len(cfg.Shelves))
	for _, s := range cfg.Shelves {
		shelves = append(shelves, library.Shelf{Name: s.Name, Capacity: cfg.ShelfCapacity(s)})
	}
	lib, err := library.New(shelves, o.library...)
	if err != nil {
		return nil, fmt.Errorf("build library: %w", err)
	}
	for i, b := range cfg.Books {
		if _, err := lib.Add(b.Title, b.Author, b.Shelf); err != nil {
			return nil, fmt.Errorf("seed books[%d]: %w", i, err)
		}
	}

	a := &App{
		Config:    cfg,
		Graph:     g,
		Heuristic: h,
		Planner:   planner.New(g, h, o.planner...),
		Library:   lib,
	}

	depth, err := g.Reachable(cfg.Facility.Start)
	if err != nil {
		return nil, err
	}
	for _, shelf := range lib.Shelves() {
		if _, ok := depth[shelf]; !ok {
			a.unreachable = append(a.unreachable, shelf)
		}
	}
	if len(a.unreachable) > 0 {
		slog.Warn("shelves unreachable from start", "start", cfg.Facility.Start, "shelves", a.unreachable)
	}

	observability.FacilityNodes.Set(float64(g.NodeCount()))
	observability.FacilityEdges.Set(float64(g.EdgeCount()))
	a.refreshInventoryMetrics()

	slog.Debug("facility loaded",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"step_length", h.StepLength(),
		"books", lib.Len(),
	)
	return a, nil
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) CurrentUpdate(operation string) Update {
	return Update{
		Operation: operation,
		Books:     a.Library.Len(),
		Usage:     a.Library.Usage(),
	}
}

func (a *App) emitUpdate(operation string) {
	a.refreshInventoryMetrics()

	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(a.CurrentUpdate(operation))
	}
}

// Unreachable lists shelves with no path from the start node.
func (a *App) Unreachable() []string {
	return append([]string(nil), a.unreachable...)
}

// RouteToShelf plans from the configured start node to shelf.
func (a *App) RouteToShelf(ctx context.Context, shelf string) (planner.Route, planner.Stats, error) {
	if !a.Library.IsShelf(shelf) {
		return planner.Route{}, planner.Stats{}, errors.AddContext(
			errors.Newf(errors.CodeNotFound, "unknown shelf %q", shelf),
			errors.CtxShelf, shelf,
		)
	}

	started := time.Now()
	route, stats, err := a.Planner.PlanWithStats(ctx, a.Config.Facility.Start, shelf)
	observability.RouteSearchDuration.Observe(time.Since(started).Seconds())
	observability.RoutePlansTotal.WithLabelValues(routeResult(err)).Inc()
	observability.RouteExpandedNodes.Observe(float64(stats.Expanded))
	if err != nil {
		return planner.Route{}, stats, errors.AddContext(err, errors.CtxShelf, shelf)
	}
	observability.RouteSteps.Observe(float64(route.Steps()))

	slog.Debug("route planned",
		"shelf", shelf,
		"path", route.String(),
		"steps", route.Steps(),
		"expanded", stats.Expanded,
	)
	return route, stats, nil
}

// RouteToBook resolves ref by id or title and plans to the book's shelf.
func (a *App) RouteToBook(ctx context.Context, ref string) (library.Book, planner.Route, planner.Stats, error) {
	book, err := a.Library.Lookup(ref)
	if err != nil {
		observability.RoutePlansTotal.WithLabelValues(routeResult(err)).Inc()
		return library.Book{}, planner.Route{}, planner.Stats{}, err
	}
	route, stats, err := a.RouteToShelf(ctx, book.Shelf)
	if err != nil {
		return book, planner.Route{}, stats, errors.AddContext(err, errors.CtxBook, book.ID)
	}
	return book, route, stats, nil
}

func (a *App) refreshInventoryMetrics() {
	usage := a.Library.Usage()
	books := 0
	for _, u := range usage {
		observability.ShelfOccupancy.WithLabelValues(u.Shelf).Set(float64(u.Used))
		observability.ShelfCapacity.WithLabelValues(u.Shelf).Set(float64(u.Capacity))
		books += u.Used
	}
	observability.CatalogBooks.Set(float64(books))
}

// shelfNodes returns the set of configured shelves.
func (a *App) shelfNodes() map[string]bool {
	out := make(map[string]bool)
	for _, s := range a.Library.Shelves() {
		out[s] = true
	}
	return out
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func routeResult(err error) string {
	switch {
	case err == nil:
		return "found"
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.IsCode(err, errors.CodeNoRoute):
		return "no_route"
	case errors.IsCode(err, errors.CodeNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func operationResult(err error) string {
	if err == nil {
		return "ok"
	}
	switch errors.CodeOf(err) {
	case errors.CodeNotFound:
		return "not_found"
	case errors.CodeValidationError:
		return "invalid"
	case errors.CodeShelfFull:
		return "shelf_full"
	default:
		return "error"
	}
}
