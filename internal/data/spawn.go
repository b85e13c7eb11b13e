package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/arena/internal/component"
	"github.com/l1jgo/arena/internal/core/ecs"
	"github.com/l1jgo/arena/internal/geom"
	"gopkg.in/yaml.v3"
)

// Point is a 2D coordinate written as {x: .., y: ..}.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p Point) Vec() geom.Vec2 { return geom.V(p.X, p.Y) }

// ShapeEntry describes a collision shape. Kind is "rect" (Width, Height)
// or "polygon" (Vertices, counter-clockwise).
type ShapeEntry struct {
	Kind     string                    `yaml:"kind"`
	Width    float64                   `yaml:"width"`
	Height   float64                   `yaml:"height"`
	Vertices []Point                   `yaml:"vertices"`
	Offset   Point                     `yaml:"offset"`
	Types    []component.CollisionType `yaml:"types"`
	Disabled bool                      `yaml:"disabled"`
}

// SpawnEntry places Count bodies starting at Origin, each Spacing apart.
type SpawnEntry struct {
	Name     string      `yaml:"name"`
	Count    int         `yaml:"count"`
	Origin   Point       `yaml:"origin"`
	Spacing  Point       `yaml:"spacing"`
	Angle    float64     `yaml:"angle"`
	Velocity *Point      `yaml:"velocity"`
	Spin     float64     `yaml:"spin"`
	Shape    *ShapeEntry `yaml:"shape"`
}

// SpawnTable is the demo population loaded at boot.
type SpawnTable struct {
	entries []SpawnEntry
}

// LoadSpawnList loads spawn_list.yaml.
func LoadSpawnList(path string) (*SpawnTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn list: %w", err)
	}
	t, err := ParseSpawnList(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func ParseSpawnList(raw []byte) (*SpawnTable, error) {
	var entries []SpawnEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse spawn list: %w", err)
	}
	for i := range entries {
		e := &entries[i]
		if e.Count == 0 {
			e.Count = 1
		}
		if e.Count < 0 {
			return nil, fmt.Errorf("spawn %q: negative count %d", e.Name, e.Count)
		}
		if e.Shape == nil {
			continue
		}
		switch e.Shape.Kind {
		case "rect":
			if e.Shape.Width <= 0 || e.Shape.Height <= 0 {
				return nil, fmt.Errorf("spawn %q: rect needs positive width and height", e.Name)
			}
		case "polygon":
			if len(e.Shape.Vertices) < 3 {
				return nil, fmt.Errorf("spawn %q: polygon needs at least 3 vertices, got %d", e.Name, len(e.Shape.Vertices))
			}
		default:
			return nil, fmt.Errorf("spawn %q: unknown shape kind %q", e.Name, e.Shape.Kind)
		}
	}
	return &SpawnTable{entries: entries}, nil
}

func (t *SpawnTable) Entries() []SpawnEntry { return t.entries }

// Count returns the total number of bodies the table spawns.
func (t *SpawnTable) Count() int {
	n := 0
	for i := range t.entries {
		n += t.entries[i].Count
	}
	return n
}

func (s *ShapeEntry) build() *component.CollisionShape {
	var shape *component.CollisionShape
	if s.Kind == "rect" {
		shape = component.NewRect(s.Width, s.Height, s.Offset.Vec(), s.Types...)
	} else {
		vs := make([]geom.Vec2, len(s.Vertices))
		for i, p := range s.Vertices {
			vs[i] = p.Vec()
		}
		shape = component.NewPolygon(vs, s.Offset.Vec(), s.Types...)
	}
	shape.SetDisabled(s.Disabled)
	return shape
}

// Populate creates every body of the table in w and returns their ids in
// table order.
func (t *SpawnTable) Populate(w *ecs.World) []ecs.EntityID {
	ids := make([]ecs.EntityID, 0, t.Count())
	for i := range t.entries {
		e := &t.entries[i]
		for n := 0; n < e.Count; n++ {
			at := e.Origin.Vec().Add(e.Spacing.Vec().Scale(float64(n)))
			id := w.AddEntity()
			w.AddComponent(id, component.NewPosition(at.X, at.Y, e.Angle))
			if e.Velocity != nil {
				w.AddComponent(id, component.NewVelocity(e.Velocity.X, e.Velocity.Y, e.Spin))
			}
			if e.Shape != nil {
				w.AddComponent(id, e.Shape.build())
			}
			ids = append(ids, id)
		}
	}
	return ids
}
