package systems

// ResourceIndex provides cell-grid radius queries over the environment's
// resources. It is rebuilt once per tick after regeneration; movement runs
// against it before foraging mutates the pool, so staleness within a tick
// is bounded to resources consumed earlier the same frame.
type ResourceIndex struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]Resource
}

// NewResourceIndex creates a grid covering the given world size.
func NewResourceIndex(bounds Bounds, cellSize float64) *ResourceIndex {
	cols := int(bounds.Width/cellSize) + 1
	rows := int(bounds.Height/cellSize) + 1
	cells := make([][]Resource, cols*rows)
	for i := range cells {
		cells[i] = make([]Resource, 0, 4)
	}
	return &ResourceIndex{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Rebuild clears the grid and reinserts all resources.
func (g *ResourceIndex) Rebuild(resources []Resource) {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	for _, r := range resources {
		idx := g.cellIndex(r.X, r.Y)
		g.cells[idx] = append(g.cells[idx], r)
	}
}

// Nearest returns the closest resource within radius of (x, y).
// Ties are broken by first-found in iteration order, which carries no
// meaning beyond determinism for a fixed grid state.
func (g *ResourceIndex) Nearest(x, y, radius float64) (Resource, bool) {
	cellRadius := int(radius/g.cellSize) + 1
	centerCol := int(x / g.cellSize)
	centerRow := int(y / g.cellSize)

	bestSq := radius * radius
	var best Resource
	found := false

	for dc := -cellRadius; dc <= cellRadius; dc++ {
		col := centerCol + dc
		if col < 0 || col >= g.cols {
			continue
		}
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			row := centerRow + dr
			if row < 0 || row >= g.rows {
				continue
			}
			for _, r := range g.cells[row*g.cols+col] {
				distSq := distanceSq(x, y, r.X, r.Y)
				if (!found && distSq <= bestSq) || (found && distSq < bestSq) {
					best = r
					bestSq = distSq
					found = true
				}
			}
		}
	}

	return best, found
}

// cellIndex returns the flat index for a world position, clamped to the grid.
func (g *ResourceIndex) cellIndex(x, y float64) int {
	col := int(x / g.cellSize)
	row := int(y / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return row*g.cols + col
}
