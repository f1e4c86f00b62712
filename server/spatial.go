package main

const (
	SpatialCellSize  = 4.0
	SpatialOrigin    = FieldMin - BorderMargin // world coordinate of cell (0,0)
	SpatialCols      = 50                      // (2*100)/4
	SpatialRows      = 50
	SpatialMaxRadius = HeadRadius * (1 + MaxSnakeSizeForScale*ScaleUpStepsRatio) // largest collider
)

// Collider is one entry in the grid. Exactly one of Owner, Food or Pickup is set
// depending on Kind.
type Collider struct {
	Kind   ColliderKind
	Pos    Vec2
	Radius float64
	Owner  *Actor
	Index  int // segment index, -1 for a head
	Food   *FoodItem
	Pickup *BoosterPickup
}

// SpatialGrid is a fixed-size grid for broad-phase proximity queries.
// Entries are bucketed by center; queries widen by SpatialMaxRadius.
type SpatialGrid struct {
	cells   [SpatialCols * SpatialRows][]int
	entries []Collider
}

// NewSpatialGrid creates an empty grid covering the bordered arena
func NewSpatialGrid() *SpatialGrid {
	return &SpatialGrid{}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.entries = g.entries[:0]
}

// Len returns the number of inserted colliders
func (g *SpatialGrid) Len() int { return len(g.entries) }

func cellCoord(v float64, limit int) int {
	c := int((v - SpatialOrigin) / SpatialCellSize)
	if c < 0 {
		return 0
	}
	if c >= limit {
		return limit - 1
	}
	return c
}

// Insert adds a collider at its center cell
func (g *SpatialGrid) Insert(c Collider) {
	idx := cellCoord(c.Pos.Y, SpatialRows)*SpatialCols + cellCoord(c.Pos.X, SpatialCols)
	g.cells[idx] = append(g.cells[idx], len(g.entries))
	g.entries = append(g.entries, c)
}

// QueryBuf appends the indices of all entries in cells near the circle to buf
func (g *SpatialGrid) QueryBuf(p Vec2, radius float64, buf []int) []int {
	r := radius + SpatialMaxRadius
	minCX := cellCoord(p.X-r, SpatialCols)
	maxCX := cellCoord(p.X+r, SpatialCols)
	minCY := cellCoord(p.Y-r, SpatialRows)
	maxCY := cellCoord(p.Y+r, SpatialRows)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cy*SpatialCols+cx]...)
		}
	}
	return buf
}

// Overlap appends every collider in mask that overlaps the circle
func (g *SpatialGrid) Overlap(p Vec2, radius float64, mask KindMask, out []Collider) []Collider {
	var idx [64]int
	for _, i := range g.QueryBuf(p, radius, idx[:0]) {
		c := &g.entries[i]
		if !mask.Has(c.Kind) {
			continue
		}
		if CheckCollision(p.X, p.Y, radius, c.Pos.X, c.Pos.Y, c.Radius) {
			out = append(out, *c)
		}
	}
	return out
}

// Any reports whether some collider in mask overlaps the circle and passes keep
func (g *SpatialGrid) Any(p Vec2, radius float64, mask KindMask, keep func(*Collider) bool) bool {
	var idx [64]int
	for _, i := range g.QueryBuf(p, radius, idx[:0]) {
		c := &g.entries[i]
		if !mask.Has(c.Kind) {
			continue
		}
		if keep != nil && !keep(c) {
			continue
		}
		if CheckCollision(p.X, p.Y, radius, c.Pos.X, c.Pos.Y, c.Radius) {
			return true
		}
	}
	return false
}
