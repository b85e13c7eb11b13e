package geom

import "fmt"

// Range is a closed projection interval on an axis.
type Range struct {
	Min float64
	Max float64
}

// Overlaps reports whether the two intervals share at least one point.
func (r Range) Overlaps(o Range) bool {
	return !(r.Max < o.Min || o.Max < r.Min)
}

// Project returns the interval covered by vertices along axis.
func Project(vertices []Vec2, axis Vec2) Range {
	if len(vertices) == 0 {
		return Range{}
	}
	p := vertices[0].Dot(axis)
	r := Range{Min: p, Max: p}
	for _, v := range vertices[1:] {
		p = v.Dot(axis)
		if p < r.Min {
			r.Min = p
		} else if p > r.Max {
			r.Max = p
		}
	}
	return r
}

// ProjectAll projects vertices onto every axis, writing into dst.
// dst must have exactly one slot per axis.
func ProjectAll(vertices, axes []Vec2, dst []Range) {
	if len(dst) != len(axes) {
		panic(fmt.Errorf("geom: projection buffer has %d slots for %d axes", len(dst), len(axes)))
	}
	for i, a := range axes {
		dst[i] = Project(vertices, a)
	}
}

// Transform writes local vertices rotated by angle and translated by origin into dst.
func Transform(local []Vec2, origin Vec2, angle float64, dst []Vec2) {
	if len(dst) != len(local) {
		panic(fmt.Errorf("geom: transform buffer has %d slots for %d vertices", len(dst), len(local)))
	}
	for i, v := range local {
		dst[i] = v.Rotate(angle).Add(origin)
	}
}

// Edges writes the unit direction of each polygon edge (v[i] → v[i+1], wrapping) into dst.
func Edges(vertices []Vec2, dst []Vec2) {
	if len(dst) != len(vertices) {
		panic(fmt.Errorf("geom: edge buffer has %d slots for %d vertices", len(dst), len(vertices)))
	}
	n := len(vertices)
	for i := range vertices {
		dst[i] = vertices[(i+1)%n].Sub(vertices[i]).Normalize()
	}
}

// Normals writes the outward normal of each edge for counter-clockwise winding.
func Normals(edges []Vec2, dst []Vec2) {
	if len(dst) != len(edges) {
		panic(fmt.Errorf("geom: axis buffer has %d slots for %d edges", len(dst), len(edges)))
	}
	for i, e := range edges {
		dst[i] = e.Perp()
	}
}

// RectCorners returns the four corners of a w×h rectangle centred on the origin,
// counter-clockwise starting bottom-left.
func RectCorners(w, h float64) []Vec2 {
	hw, hh := w/2, h/2
	return []Vec2{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
}

// CircleTouchesSquare reports whether the circle (c, r) intersects the
// axis-aligned square with min corner `min` and side length `size`.
func CircleTouchesSquare(c Vec2, r float64, min Vec2, size float64) bool {
	nx := clamp(c.X, min.X, min.X+size)
	ny := clamp(c.Y, min.Y, min.Y+size)
	dx, dy := c.X-nx, c.Y-ny
	return dx*dx+dy*dy <= r*r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
