// Package mesh assembles renderable triangle arrays from parsed Sherman and Rommel geometry.
package mesh

import (
	"fmt"

	"github.com/Faultbox/sherman/pkg/formats"
	pmath "github.com/Faultbox/sherman/pkg/math"
)

// Renderable holds flat per-vertex arrays and a single triangle index stream.
// All attribute slices have the same length.
type Renderable struct {
	Name          string                `json:"name"`
	Vertices      [][3]float32          `json:"vertices"`
	Normals       [][3]float32          `json:"normals"`
	UVs           [][2]float32          `json:"uvs"`
	Colors        [][4]float32          `json:"colors"`
	Triangles     [][3]uint32           `json:"triangles"`
	MaterialIndex formats.MaterialIndex `json:"materialIndex"`
}

// VertexCount returns the number of emitted vertices.
func (r *Renderable) VertexCount() int { return len(r.Vertices) }

// Validate checks that attribute arrays line up and every index is in range.
func (r *Renderable) Validate() error {
	n := len(r.Vertices)
	if len(r.Normals) != n || len(r.UVs) != n || len(r.Colors) != n {
		return fmt.Errorf("attribute lengths differ: %d vertices, %d normals, %d uvs, %d colors",
			n, len(r.Normals), len(r.UVs), len(r.Colors))
	}
	for i, tri := range r.Triangles {
		for _, idx := range tri {
			if int(idx) >= n {
				return fmt.Errorf("triangle %d index %d >= %d vertices", i, idx, n)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (r *Renderable) Clone() Renderable {
	return Renderable{
		Name:          r.Name,
		Vertices:      append([][3]float32(nil), r.Vertices...),
		Normals:       append([][3]float32(nil), r.Normals...),
		UVs:           append([][2]float32(nil), r.UVs...),
		Colors:        append([][4]float32(nil), r.Colors...),
		Triangles:     append([][3]uint32(nil), r.Triangles...),
		MaterialIndex: r.MaterialIndex,
	}
}

// Scale multiplies every position by s.
func (r *Renderable) Scale(s float32) {
	for i, v := range r.Vertices {
		r.Vertices[i] = pmath.V3(v).Scale(s).Array()
	}
}

// Translate offsets every position by d.
func (r *Renderable) Translate(d [3]float32) {
	offset := pmath.V3(d)
	for i, v := range r.Vertices {
		r.Vertices[i] = pmath.V3(v).Add(offset).Array()
	}
}

// CalculateAABB returns the bounds of all positions.
func (r *Renderable) CalculateAABB() pmath.AABB {
	return pmath.AABBOf(r.Vertices)
}

// Merge appends other's vertices and triangles, rebasing its indices by the
// current vertex count. The material index of r is kept.
func (r *Renderable) Merge(other Renderable) {
	base := uint32(len(r.Vertices))
	r.Vertices = append(r.Vertices, other.Vertices...)
	r.Normals = append(r.Normals, other.Normals...)
	r.UVs = append(r.UVs, other.UVs...)
	r.Colors = append(r.Colors, other.Colors...)
	for _, tri := range other.Triangles {
		r.Triangles = append(r.Triangles, [3]uint32{tri[0] + base, tri[1] + base, tri[2] + base})
	}
}
