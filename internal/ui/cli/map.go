package cli

import (
	"sort"
	"strings"

	"smartlib/internal/core/ports"

	"github.com/charmbracelet/lipgloss"
)

const (
	mapColumns = 60
	mapRows    = 4
)

// renderFacilityMap lays node labels out on a character grid scaled from the
// configured coordinates. Nodes on route are wrapped in brackets; the start
// node is prefixed with '>'. Nodes without a coordinate are listed below.
func renderFacilityMap(snap ports.FacilitySnapshot, route []string) string {
	onRoute := make(map[string]bool, len(route))
	for _, id := range route {
		onRoute[id] = true
	}

	var placed, unplaced []ports.FacilityNode
	for _, n := range snap.Nodes {
		if n.HasPos {
			placed = append(placed, n)
		} else {
			unplaced = append(unplaced, n)
		}
	}

	var b strings.Builder
	if len(placed) > 0 {
		minX, maxX := placed[0].X, placed[0].X
		minY, maxY := placed[0].Y, placed[0].Y
		for _, n := range placed[1:] {
			minX, maxX = min(minX, n.X), max(maxX, n.X)
			minY, maxY = min(minY, n.Y), max(maxY, n.Y)
		}
		scaleX := ceilDiv(maxX-minX, mapColumns)
		scaleY := ceilDiv(maxY-minY, mapRows)

		type cell struct {
			row, col int
			label    string
		}
		cells := make([]cell, 0, len(placed))
		rows := 0
		for _, n := range placed {
			c := cell{
				row:   (n.Y - minY) / scaleY,
				col:   (n.X - minX) / scaleX,
				label: nodeLabel(n, snap.Start, onRoute[n.ID]),
			}
			rows = max(rows, c.row+1)
			cells = append(cells, c)
		}
		sort.Slice(cells, func(i, j int) bool {
			if cells[i].row != cells[j].row {
				return cells[i].row < cells[j].row
			}
			return cells[i].col < cells[j].col
		})

		lines := make([]strings.Builder, rows)
		for _, c := range cells {
			line := &lines[c.row]
			width := lipgloss.Width(line.String())
			// Push labels right instead of overwriting a neighbour.
			pad := c.col - width
			if width > 0 && pad < 1 {
				pad = 1
			}
			line.WriteString(strings.Repeat(" ", max(pad, 0)))
			line.WriteString(c.label)
		}
		for i := range lines {
			b.WriteString(strings.TrimRight(lines[i].String(), " "))
			b.WriteByte('\n')
		}
	}

	if len(unplaced) > 0 {
		labels := make([]string, 0, len(unplaced))
		for _, n := range unplaced {
			labels = append(labels, nodeLabel(n, snap.Start, onRoute[n.ID]))
		}
		b.WriteString("unplaced: " + strings.Join(labels, " ") + "\n")
	}
	if len(snap.Unreachable) > 0 {
		b.WriteString("unreachable: " + strings.Join(snap.Unreachable, ", ") + "\n")
	}
	if len(route) > 0 {
		b.WriteString("route: " + strings.Join(route, " -> ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func nodeLabel(n ports.FacilityNode, start string, highlighted bool) string {
	label := n.ID
	if n.ID == start {
		label = ">" + label
	}
	if highlighted {
		label = "[" + label + "]"
	}
	return label
}

func ceilDiv(span, buckets int) int {
	if span <= 0 {
		return 1
	}
	return max(1, (span+buckets-1)/buckets)
}
