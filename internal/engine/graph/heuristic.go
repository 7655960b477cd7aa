package graph

// Point is a location on the facility map, in map units.
type Point struct {
	X int
	Y int
}

// Manhattan is |dx| + |dy|.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Heuristic estimates the remaining hops between two locations from their
// map coordinates.
type Heuristic struct {
	positions map[string]Point
	step      int
}

type HeuristicOption func(*Heuristic)

// WithStepLength sets how many map units one edge may cover at most.
// Values below 1 are ignored.
func WithStepLength(units int) HeuristicOption {
	return func(h *Heuristic) {
		if units > 0 {
			h.step = units
		}
	}
}

func NewHeuristic(positions map[string]Point, opts ...HeuristicOption) *Heuristic {
	h := &Heuristic{
		positions: make(map[string]Point, len(positions)),
		step:      1,
	}
	for id, p := range positions {
		h.positions[id] = p
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Estimate is the Manhattan distance between from and to divided by the step
// length, rounded down. A node without a coordinate estimates 0, which turns
// the search into plain breadth-first order for that pair.
func (h *Heuristic) Estimate(from, to string) int {
	if h == nil {
		return 0
	}
	a, ok := h.positions[from]
	if !ok {
		return 0
	}
	b, ok := h.positions[to]
	if !ok {
		return 0
	}
	return Manhattan(a, b) / h.step
}

func (h *Heuristic) Position(id string) (Point, bool) {
	p, ok := h.positions[id]
	return p, ok
}

func (h *Heuristic) StepLength() int {
	return h.step
}

// AdmissibleStep is a step length that keeps Estimate at or below
// the hop count for every pair of positioned nodes, i.e. the largest
// ceil(Manhattan(a, b) / hops(a, b)) over connected pairs. Pairs joined only
// through unpositioned nodes count too. It is 1 when no pair qualifies.
func AdmissibleStep(g *Graph, positions map[string]Point) int {
	step := 1
	for from, a := range positions {
		depth, err := g.Reachable(from)
		if err != nil {
			continue
		}
		for to, hops := range depth {
			b, ok := positions[to]
			if !ok || hops == 0 {
				continue
			}
			if ratio := ceilDiv(Manhattan(a, b), hops); ratio > step {
				step = ratio
			}
		}
	}
	return step
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}
