// Package planner computes shortest routes over the facility map with an
// A* search on unit-cost edges.
package planner

import (
	"container/heap"
	"context"
	"strings"

	domainerrors "smartlib/internal/core/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Graph is the read side of the facility map the search walks.
type Graph interface {
	Has(id string) bool
	Neighbors(id string) ([]string, error)
}

// Heuristic estimates remaining hops. It must never overestimate.
type Heuristic interface {
	Estimate(from, to string) int
}

// Route is an adjacency-respecting walk from start to goal.
type Route struct {
	Nodes []string
}

// Steps is the number of edges walked.
func (r Route) Steps() int {
	if len(r.Nodes) == 0 {
		return 0
	}
	return len(r.Nodes) - 1
}

func (r Route) Start() string {
	if len(r.Nodes) == 0 {
		return ""
	}
	return r.Nodes[0]
}

func (r Route) Goal() string {
	if len(r.Nodes) == 0 {
		return ""
	}
	return r.Nodes[len(r.Nodes)-1]
}

func (r Route) String() string {
	return strings.Join(r.Nodes, " -> ")
}

// Stats describes the work a single search did.
type Stats struct {
	Expanded int
	Pushed   int
}

type Planner struct {
	graph     Graph
	heuristic Heuristic
	tracer    trace.Tracer
}

type Option func(*Planner)

func WithTracer(tracer trace.Tracer) Option {
	return func(p *Planner) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

type zeroHeuristic struct{}

func (zeroHeuristic) Estimate(string, string) int { return 0 }

// New binds a planner to one graph. A nil heuristic degrades the search to
// breadth-first order.
func New(g Graph, h Heuristic, opts ...Option) *Planner {
	if h == nil {
		h = zeroHeuristic{}
	}
	p := &Planner{
		graph:     g,
		heuristic: h,
		tracer:    otel.Tracer("smartlib/planner"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) Plan(ctx context.Context, start, goal string) (Route, error) {
	route, _, err := p.PlanWithStats(ctx, start, goal)
	return route, err
}

// PlanWithStats runs the search and reports how many nodes it expanded.
// Unknown endpoints fail with CodeNotFound before any search; a goal the
// frontier never reaches fails with CodeNoRoute.
func (p *Planner) PlanWithStats(ctx context.Context, start, goal string) (Route, Stats, error) {
	ctx, span := p.tracer.Start(ctx, "planner.Plan", trace.WithAttributes(
		attribute.String("route.start", start),
		attribute.String("route.goal", goal),
	))
	defer span.End()

	route, stats, err := p.search(ctx, start, goal)
	span.SetAttributes(
		attribute.Int("route.expanded", stats.Expanded),
		attribute.Int("route.pushed", stats.Pushed),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domainerrors.CodeOf(err)))
		return Route{}, stats, err
	}
	span.SetAttributes(attribute.Int("route.steps", route.Steps()))
	return route, stats, nil
}

func (p *Planner) search(ctx context.Context, start, goal string) (Route, Stats, error) {
	var stats Stats

	if !p.graph.Has(start) {
		return Route{}, stats, unknownNode(start)
	}
	if !p.graph.Has(goal) {
		return Route{}, stats, unknownNode(goal)
	}
	if start == goal {
		return Route{Nodes: []string{start}}, stats, nil
	}

	open := &frontier{}
	heap.Init(open)
	var seq uint64
	push := func(node string, cost, estimate int) {
		heap.Push(open, frontierItem{estimate: estimate, cost: cost, seq: seq, node: node})
		seq++
		stats.Pushed++
	}

	best := map[string]int{start: 0}
	parent := make(map[string]string)
	push(start, 0, 0)

	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return Route{}, stats, err
		}

		item := heap.Pop(open).(frontierItem)
		if item.node == goal {
			return Route{Nodes: reconstruct(parent, start, goal)}, stats, nil
		}
		// A cheaper path to this node was pushed after this entry.
		if item.cost > best[item.node] {
			continue
		}
		stats.Expanded++

		neighbors, err := p.graph.Neighbors(item.node)
		if err != nil {
			return Route{}, stats, domainerrors.AddContext(err, domainerrors.CtxNode, item.node)
		}
		tentative := item.cost + 1
		for _, next := range neighbors {
			if known, ok := best[next]; ok && tentative >= known {
				continue
			}
			best[next] = tentative
			parent[next] = item.node
			push(next, tentative, tentative+p.heuristic.Estimate(next, goal))
		}
	}

	err := domainerrors.Newf(domainerrors.CodeNoRoute, "no route from %s to %s", start, goal)
	err = domainerrors.AddContext(err, domainerrors.CtxNode, goal)
	return Route{}, stats, err
}

func unknownNode(id string) error {
	return domainerrors.AddContext(
		domainerrors.Newf(domainerrors.CodeNotFound, "unknown location %q", id),
		domainerrors.CtxNode, id,
	)
}

func reconstruct(parent map[string]string, start, goal string) []string {
	path := []string{goal}
	for node := goal; node != start; {
		node = parent[node]
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
