package planner

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	domainerrors "smartlib/internal/core/errors"
	"smartlib/internal/engine/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func libraryPlanner(t *testing.T, opts ...Option) (*Planner, *graph.Graph) {
	t.Helper()
	g, err := graph.New(map[string][]string{
		"Entrance": {"Hall-1"},
		"Hall-1":   {"Entrance", "Hall-2", "Shelf-A", "Shelf-B"},
		"Hall-2":   {"Hall-1", "Shelf-C", "Shelf-D", "Shelf-E"},
		"Shelf-A":  {"Hall-1"},
		"Shelf-B":  {"Hall-1"},
		"Shelf-C":  {"Hall-2"},
		"Shelf-D":  {"Hall-2"},
		"Shelf-E":  {"Hall-2"},
	})
	require.NoError(t, err)
	positions := map[string]graph.Point{
		"Entrance": {X: 30, Y: 30},
		"Hall-1":   {X: 140, Y: 30},
		"Hall-2":   {X: 250, Y: 30},
		"Shelf-A":  {X: 110, Y: 95},
		"Shelf-B":  {X: 180, Y: 95},
		"Shelf-C":  {X: 250, Y: 95},
		"Shelf-D":  {X: 330, Y: 95},
		"Shelf-E":  {X: 410, Y: 95},
	}
	h := graph.NewHeuristic(positions, graph.WithStepLength(graph.AdmissibleStep(g, positions)))
	return New(g, h, opts...), g
}

func TestPlanner_Plan(t *testing.T) {
	p, _ := libraryPlanner(t)

	tests := []struct {
		name   string
		start  string
		goal   string
		expect []string
		code   domainerrors.ErrorCode
	}{
		{
			name:   "shelf behind second hall",
			start:  "Entrance",
			goal:   "Shelf-C",
			expect: []string{"Entrance", "Hall-1", "Hall-2", "Shelf-C"},
		},
		{
			name:   "shelf off first hall",
			start:  "Entrance",
			goal:   "Shelf-B",
			expect: []string{"Entrance", "Hall-1", "Shelf-B"},
		},
		{
			name:   "shelf to shelf",
			start:  "Shelf-A",
			goal:   "Shelf-E",
			expect: []string{"Shelf-A", "Hall-1", "Hall-2", "Shelf-E"},
		},
		{
			name:   "start equals goal",
			start:  "Entrance",
			goal:   "Entrance",
			expect: []string{"Entrance"},
		},
		{
			name:  "unknown goal",
			start: "Entrance",
			goal:  "Shelf-Z",
			code:  domainerrors.CodeNotFound,
		},
		{
			name:  "unknown start",
			start: "Loading-Dock",
			goal:  "Shelf-A",
			code:  domainerrors.CodeNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			route, err := p.Plan(context.Background(), tc.start, tc.goal)
			if tc.code != "" {
				require.Error(t, err)
				assert.True(t, domainerrors.IsCode(err, tc.code), "expected %s, got %v", tc.code, err)
				assert.Empty(t, route.Nodes)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expect, route.Nodes)
			assert.Equal(t, len(tc.expect)-1, route.Steps())
			assert.Equal(t, tc.start, route.Start())
			assert.Equal(t, tc.goal, route.Goal())
		})
	}
}

func TestPlanner_ConcreteScenarioSteps(t *testing.T) {
	g, err := graph.New(map[string][]string{
		"Entrance": {"Hall-1"},
		"Hall-1":   {"Entrance", "Hall-2", "Shelf-A"},
		"Hall-2":   {"Hall-1", "Shelf-C"},
		"Shelf-A":  {"Hall-1"},
		"Shelf-C":  {"Hall-2"},
	})
	require.NoError(t, err)

	route, err := New(g, nil).Plan(context.Background(), "Entrance", "Shelf-C")
	require.NoError(t, err)
	assert.Equal(t, []string{"Entrance", "Hall-1", "Hall-2", "Shelf-C"}, route.Nodes)
	assert.Equal(t, 3, route.Steps())
	assert.Equal(t, "Entrance -> Hall-1 -> Hall-2 -> Shelf-C", route.String())
}

func TestPlanner_NoRoute(t *testing.T) {
	g, err := graph.New(map[string][]string{
		"Entrance": {"Hall-1"},
		"Hall-1":   {"Entrance"},
		"Annex":    {"Shelf-X"},
		"Shelf-X":  {"Annex"},
	})
	require.NoError(t, err)

	_, stats, err := New(g, nil).PlanWithStats(context.Background(), "Entrance", "Shelf-X")
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNoRoute))
	assert.Equal(t, 2, stats.Expanded)
}

func TestPlanner_TieBreakFollowsNeighborOrder(t *testing.T) {
	build := func(first, second string) *graph.Graph {
		g, err := graph.New(map[string][]string{
			"A": {first, second},
			"B": {"A", "D"},
			"C": {"A", "D"},
			"D": {"B", "C"},
		})
		require.NoError(t, err)
		return g
	}

	route, err := New(build("B", "C"), nil).Plan(context.Background(), "A", "D")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "D"}, route.Nodes)

	route, err = New(build("C", "B"), nil).Plan(context.Background(), "A", "D")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, route.Nodes)

	// Same input, same answer.
	for i := 0; i < 20; i++ {
		again, err := New(build("C", "B"), nil).Plan(context.Background(), "A", "D")
		require.NoError(t, err)
		assert.Equal(t, route.Nodes, again.Nodes)
	}
}

func TestPlanner_CancelledContext(t *testing.T) {
	p, _ := libraryPlanner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Plan(ctx, "Entrance", "Shelf-E")
	assert.ErrorIs(t, err, context.Canceled)
}

// bfsDistances is an independent reference for unweighted shortest paths.
func bfsDistances(adjacency map[string][]string, from string) map[string]int {
	dist := map[string]int{from: 0}
	queue := []string{from}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[curr] {
			if _, ok := dist[next]; !ok {
				dist[next] = dist[curr] + 1
				queue = append(queue, next)
			}
		}
	}
	return dist
}

func randomFacility(rng *rand.Rand, n int, edgeChance float64) (map[string][]string, map[string]graph.Point) {
	adjacency := make(map[string][]string, n)
	positions := make(map[string]graph.Point, n)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = fmt.Sprintf("N%02d", i)
		adjacency[ids[i]] = []string{}
		positions[ids[i]] = graph.Point{X: rng.Intn(400), Y: rng.Intn(200)}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < edgeChance {
				adjacency[ids[i]] = append(adjacency[ids[i]], ids[j])
				adjacency[ids[j]] = append(adjacency[ids[j]], ids[i])
			}
		}
	}
	return adjacency, positions
}

func TestPlanner_MatchesBreadthFirstDistances(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 40; trial++ {
		adjacency, positions := randomFacility(rng, 12, 0.2)
		g, err := graph.New(adjacency)
		require.NoError(t, err)
		h := graph.NewHeuristic(positions, graph.WithStepLength(graph.AdmissibleStep(g, positions)))
		p := New(g, h)

		start := "N00"
		reference := bfsDistances(adjacency, start)
		for _, goal := range g.Nodes() {
			route, err := p.Plan(context.Background(), start, goal)
			want, reachable := reference[goal]
			if !reachable {
				require.Truef(t, domainerrors.IsCode(err, domainerrors.CodeNoRoute), "trial %d goal %s: %v", trial, goal, err)
				continue
			}
			require.NoErrorf(t, err, "trial %d goal %s", trial, goal)
			assert.Equalf(t, want, route.Steps(), "trial %d goal %s route %v", trial, goal, route.Nodes)

			assert.Equal(t, start, route.Start())
			assert.Equal(t, goal, route.Goal())
			for i := 0; i+1 < len(route.Nodes); i++ {
				neighbors, err := g.Neighbors(route.Nodes[i])
				require.NoError(t, err)
				assert.Containsf(t, neighbors, route.Nodes[i+1], "trial %d: %s and %s are not adjacent", trial, route.Nodes[i], route.Nodes[i+1])
			}
		}
	}
}

func TestPlanner_PartialCoordinatesStayShortest(t *testing.T) {
	// Only Entrance, Far and Shelf are placed. Far sits on the short path but
	// looks distant, and the long detour is entirely unplaced.
	adjacency := map[string][]string{
		"Entrance": {"U", "a1"},
		"U":        {"Entrance", "Far"},
		"Far":      {"U", "V"},
		"V":        {"Far", "Shelf"},
		"Shelf":    {"V", "a5"},
		"a1":       {"Entrance", "a2"},
		"a2":       {"a1", "a3"},
		"a3":       {"a2", "a4"},
		"a4":       {"a3", "a5"},
		"a5":       {"a4", "Shelf"},
	}
	positions := map[string]graph.Point{
		"Entrance": {X: 0, Y: 0},
		"Far":      {X: 10000, Y: 0},
		"Shelf":    {X: 0, Y: 0},
	}
	g, err := graph.New(adjacency)
	require.NoError(t, err)
	h := graph.NewHeuristic(positions, graph.WithStepLength(graph.AdmissibleStep(g, positions)))

	route, err := New(g, h).Plan(context.Background(), "Entrance", "Shelf")
	require.NoError(t, err)
	assert.Equal(t, []string{"Entrance", "U", "Far", "V", "Shelf"}, route.Nodes)
	assert.Equal(t, bfsDistances(adjacency, "Entrance")["Shelf"], route.Steps())
}

func TestPlanner_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	p, _ := libraryPlanner(t, WithTracer(provider.Tracer("planner-test")))

	_, err := p.Plan(context.Background(), "Entrance", "Shelf-D")
	require.NoError(t, err)
	_, err = p.Plan(context.Background(), "Entrance", "Shelf-Z")
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "planner.Plan", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.Int("route.steps", 3))
	assert.Contains(t, spans[0].Attributes(), attribute.String("route.goal", "Shelf-D"))
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
