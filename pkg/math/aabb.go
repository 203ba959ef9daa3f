package math

import "github.com/chewxy/math32"

// AABB is an axis-aligned bounding box. The zero value is empty.
type AABB struct {
	Min   Vec3 `json:"min"`
	Max   Vec3 `json:"max"`
	Valid bool `json:"-"`
}

// NewAABB creates a box from explicit corners.
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max, Valid: true}
}

// EmptyAABB returns a box that contains no points.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether no point has been added.
func (b AABB) IsEmpty() bool {
	return !b.Valid
}

// AddPoint grows the box to contain p.
func (b *AABB) AddPoint(p Vec3) {
	if !b.Valid {
		b.Min, b.Max, b.Valid = p, p, true
		return
	}
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Merge grows the box to contain other.
func (b *AABB) Merge(other AABB) {
	if !other.Valid {
		return
	}
	b.AddPoint(other.Min)
	b.AddPoint(other.Max)
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extents.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside the box, boundary included.
func (b AABB) Contains(p Vec3) bool {
	if !b.Valid {
		return false
	}
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// AABBOf computes the bounds of a point list.
func AABBOf(points [][3]float32) AABB {
	var b AABB
	for _, p := range points {
		b.AddPoint(V3(p))
	}
	return b
}
