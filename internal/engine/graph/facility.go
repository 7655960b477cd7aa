package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	domainerrors "smartlib/internal/core/errors"
)

// ErrInvalidTopology marks adjacency data that cannot describe an undirected facility.
var ErrInvalidTopology = errors.New("invalid facility topology")

// Graph is the static facility map: named locations joined by unweighted,
// undirected edges. It is built once at startup and never mutated, so reads
// need no locking.
type Graph struct {
	adjacency map[string][]string
	nodes     []string
	edgeCount int
}

// New copies adjacency into a Graph. Every edge must be listed from both
// ends; a one-sided edge, a self loop, an empty id or a repeated neighbor is
// a configuration error.
func New(adjacency map[string][]string) (*Graph, error) {
	if len(adjacency) == 0 {
		return nil, fmt.Errorf("%w: adjacency is empty", ErrInvalidTopology)
	}

	g := &Graph{
		adjacency: make(map[string][]string, len(adjacency)),
		nodes:     make([]string, 0, len(adjacency)),
	}

	for node, neighbors := range adjacency {
		if strings.TrimSpace(node) == "" {
			return nil, fmt.Errorf("%w: empty node id", ErrInvalidTopology)
		}
		seen := make(map[string]bool, len(neighbors))
		for _, next := range neighbors {
			if strings.TrimSpace(next) == "" {
				return nil, fmt.Errorf("%w: %s lists an empty neighbor", ErrInvalidTopology, node)
			}
			if next == node {
				return nil, fmt.Errorf("%w: %s lists itself as a neighbor", ErrInvalidTopology, node)
			}
			if seen[next] {
				return nil, fmt.Errorf("%w: %s lists %s more than once", ErrInvalidTopology, node, next)
			}
			seen[next] = true
			if !contains(adjacency[next], node) {
				return nil, fmt.Errorf("%w: edge %s -> %s has no reverse edge", ErrInvalidTopology, node, next)
			}
		}
		g.adjacency[node] = append([]string(nil), neighbors...)
		g.nodes = append(g.nodes, node)
		g.edgeCount += len(neighbors)
	}

	sort.Strings(g.nodes)
	g.edgeCount /= 2
	return g, nil
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}

func (g *Graph) Has(id string) bool {
	_, ok := g.adjacency[id]
	return ok
}

// Neighbors returns the configured neighbor order of id. The slice is a copy.
func (g *Graph) Neighbors(id string) ([]string, error) {
	neighbors, ok := g.adjacency[id]
	if !ok {
		return nil, domainerrors.AddContext(
			domainerrors.Newf(domainerrors.CodeNotFound, "unknown location %q", id),
			domainerrors.CtxNode, id,
		)
	}
	return append([]string(nil), neighbors...), nil
}

// Nodes returns all node ids sorted by name.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

// Edges lists every undirected edge once as a sorted pair, ordered by pair.
func (g *Graph) Edges() [][2]string {
	edges := make([][2]string, 0, g.edgeCount)
	for _, from := range g.nodes {
		for _, to := range g.adjacency[from] {
			if from < to {
				edges = append(edges, [2]string{from, to})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] == edges[j][0] {
			return edges[i][1] < edges[j][1]
		}
		return edges[i][0] < edges[j][0]
	})
	return edges
}

// Reachable returns the hop distance from `from` to every node it can reach,
// including itself at depth 0.
func (g *Graph) Reachable(from string) (map[string]int, error) {
	if !g.Has(from) {
		return nil, domainerrors.AddContext(
			domainerrors.Newf(domainerrors.CodeNotFound, "unknown location %q", from),
			domainerrors.CtxNode, from,
		)
	}

	depth := map[string]int{from: 0}
	queue := []string{from}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, next := range g.adjacency[curr] {
			if _, visited := depth[next]; visited {
				continue
			}
			depth[next] = depth[curr] + 1
			queue = append(queue, next)
		}
	}
	return depth, nil
}
