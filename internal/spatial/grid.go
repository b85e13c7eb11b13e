// Package spatial implements the uniform-grid spatial hash used for the
// collision broad phase.
package spatial

import (
	"fmt"
	"math"

	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/geom"
)

// DefaultCellSize is the grid cell edge length in world units.
const DefaultCellSize = 100

// Cell addresses a grid cell by integer index; cell (i, j) spans
// [i*size, (i+1)*size) on x and likewise on y.
type Cell struct {
	X int64
	Y int64
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Grid buckets entity ids into square cells. Each entity remembers the cells
// it occupies so removal touches only those cells.
// Accessed only from the simulation goroutine — no locks.
type Grid struct {
	size    float64
	cells   map[Cell]*ecs.EntitySet
	members map[ecs.EntityID][]Cell
}

func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		panic(fmt.Errorf("spatial: cell size must be positive, got %v", cellSize))
	}
	return &Grid{
		size:    cellSize,
		cells:   make(map[Cell]*ecs.EntitySet, 256),
		members: make(map[ecs.EntityID][]Cell, 256),
	}
}

func (g *Grid) CellSize() float64 { return g.size }

// CoordToCell floors p onto the grid.
func (g *Grid) CoordToCell(p geom.Vec2) Cell {
	return Cell{
		X: int64(math.Floor(p.X / g.size)),
		Y: int64(math.Floor(p.Y / g.size)),
	}
}

// Origin is the world coordinate of c's minimum corner.
func (g *Grid) Origin(c Cell) geom.Vec2 {
	return geom.V(float64(c.X)*g.size, float64(c.Y)*g.size)
}

// CellsForPoint is the single cell containing p.
func (g *Grid) CellsForPoint(p geom.Vec2) []Cell {
	return []Cell{g.CoordToCell(p)}
}

// CellsForCircle lists every cell whose square footprint intersects the
// circle, walking the cell indices spanned by the circle's bounding box.
func (g *Grid) CellsForCircle(center geom.Vec2, radius float64) []Cell {
	lo := g.CoordToCell(geom.V(center.X-radius, center.Y-radius))
	hi := g.CoordToCell(geom.V(center.X+radius, center.Y+radius))
	out := make([]Cell, 0, 4)
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			c := Cell{X: x, Y: y}
			if geom.CircleTouchesSquare(center, radius, g.Origin(c), g.size) {
				out = append(out, c)
			}
		}
	}
	return out
}

// Insert records id in cells, replacing any previous placement.
func (g *Grid) Insert(id ecs.EntityID, cells []Cell) {
	g.Remove(id)
	for _, c := range cells {
		set := g.cells[c]
		if set == nil {
			set = ecs.NewEntitySet()
			g.cells[c] = set
		}
		set.Add(id)
	}
	g.members[id] = cells
}

// Remove takes id out of every cell it occupies.
func (g *Grid) Remove(id ecs.EntityID) {
	cells, ok := g.members[id]
	if !ok {
		return
	}
	for _, c := range cells {
		set := g.cells[c]
		if set == nil {
			continue
		}
		set.Remove(id)
		if set.Len() == 0 {
			delete(g.cells, c)
		}
	}
	delete(g.members, id)
}

// CellsOf returns the cells id currently occupies; read-only.
func (g *Grid) CellsOf(id ecs.EntityID) []Cell { return g.members[id] }

// At returns the ids in cell c; read-only, may be nil.
func (g *Grid) At(c Cell) []ecs.EntityID {
	if set := g.cells[c]; set != nil {
		return set.Slice()
	}
	return nil
}

// Near visits every entity sharing at least one cell with id, once each,
// excluding id itself.
func (g *Grid) Near(id ecs.EntityID, seen map[ecs.EntityID]struct{}, fn func(ecs.EntityID)) {
	for k := range seen {
		delete(seen, k)
	}
	for _, c := range g.members[id] {
		for _, other := range g.At(c) {
			if other == id {
				continue
			}
			if _, dup := seen[other]; dup {
				continue
			}
			seen[other] = struct{}{}
			fn(other)
		}
	}
}

// Len is the number of indexed entities.
func (g *Grid) Len() int { return len(g.members) }

// OccupiedCells is the number of non-empty cells.
func (g *Grid) OccupiedCells() int { return len(g.cells) }

// Clear drops every entry.
func (g *Grid) Clear() {
	g.cells = make(map[Cell]*ecs.EntitySet, 256)
	g.members = make(map[ecs.EntityID][]Cell, 256)
}
