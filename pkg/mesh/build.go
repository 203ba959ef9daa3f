package mesh

import (
	"fmt"

	"github.com/Faultbox/sherman/pkg/formats"
	pmath "github.com/Faultbox/sherman/pkg/math"
)

// cornerKey identifies a (position, attribute) pair of a face corner.
type cornerKey struct {
	vertex, param uint32
}

// assembler emits one vertex per distinct corner key, in first-seen order.
type assembler struct {
	out   Renderable
	index map[cornerKey]uint32
}

func newAssembler(name string, material formats.MaterialIndex) *assembler {
	return &assembler{
		out:   Renderable{Name: name, MaterialIndex: material},
		index: make(map[cornerKey]uint32),
	}
}

// corner returns the output index for key, calling emit to append a new vertex
// the first time the key is seen.
func (a *assembler) corner(key cornerKey, emit func(r *Renderable)) uint32 {
	if idx, ok := a.index[key]; ok {
		return idx
	}
	idx := uint32(len(a.out.Vertices))
	emit(&a.out)
	a.index[key] = idx
	return idx
}

func (a *assembler) triangle(t [3]uint32) {
	a.out.Triangles = append(a.out.Triangles, t)
}

// colorRGB255 widens an integer RGB colour to normalized RGBA with alpha 1.
func colorRGB255(c [3]uint32) [4]float32 {
	return [4]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, 1}
}

// FromMesh assembles the faces selected by a v1 mesh. Faces are split by
// material, one renderable per material in order of first use.
func FromMesh(obj *formats.GeometryObject, m *formats.Mesh) ([]Renderable, error) {
	byMaterial := make(map[formats.MaterialIndex]*assembler)
	var order []formats.MaterialIndex

	for _, fi := range m.FaceIndices {
		if int(fi) >= len(obj.Faces) {
			return nil, fmt.Errorf("mesh %q: face index %d >= %d", m.Name.String, fi, len(obj.Faces))
		}
		face := &obj.Faces[fi]

		a, ok := byMaterial[face.MaterialIndex]
		if !ok {
			a = newAssembler(obj.Name.String+"/"+m.Name.String, face.MaterialIndex)
			byMaterial[face.MaterialIndex] = a
			order = append(order, face.MaterialIndex)
		}

		var tri [3]uint32
		for c := 0; c < 3; c++ {
			v, p := face.VertexIndices[c], face.ParamIndices[c]
			if int(v) >= len(obj.Vertices) || int(p) >= len(obj.VertexParams) {
				return nil, fmt.Errorf("mesh %q: face %d corner %d out of range", m.Name.String, fi, c)
			}
			tri[c] = a.corner(cornerKey{v, p}, func(r *Renderable) {
				params := &obj.VertexParams[p]
				r.Vertices = append(r.Vertices, obj.Vertices[v])
				r.Normals = append(r.Normals, params.Normal)
				r.UVs = append(r.UVs, params.UV)
				r.Colors = append(r.Colors, colorRGB255(params.Color))
			})
		}
		a.triangle(tri)
	}

	out := make([]Renderable, 0, len(order))
	for _, mat := range order {
		out = append(out, byMaterial[mat].out)
	}
	return out, nil
}

// FromGeometryObject assembles every mesh of a v1 object.
func FromGeometryObject(obj *formats.GeometryObject) ([]Renderable, error) {
	var out []Renderable
	for i := range obj.Meshes {
		rs, err := FromMesh(obj, &obj.Meshes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
	}
	return out, nil
}

// FromFaceGroup assembles a v2 face group.
func FromFaceGroup(obj *formats.MapGeometryObject, g *formats.FaceGroup) (Renderable, error) {
	a := newAssembler(obj.Name.String, g.MaterialIndex)
	params := &g.VertexParams
	nParams := params.Count()
	if len(params.UVs) != nParams || len(params.Colors) != nParams {
		return Renderable{}, fmt.Errorf("face group of %q: parameter arrays differ in length", obj.Name.String)
	}
	if len(g.FaceParamIndices) != len(g.FaceVertexIndices) {
		return Renderable{}, fmt.Errorf("face group of %q: %d vertex triples, %d param triples",
			obj.Name.String, len(g.FaceVertexIndices), len(g.FaceParamIndices))
	}

	for f := range g.FaceVertexIndices {
		var tri [3]uint32
		for c := 0; c < 3; c++ {
			v, p := g.FaceVertexIndices[f][c], g.FaceParamIndices[f][c]
			if int(v) >= len(obj.Vertices) || int(p) >= nParams {
				return Renderable{}, fmt.Errorf("face group of %q: face %d corner %d out of range", obj.Name.String, f, c)
			}
			tri[c] = a.corner(cornerKey{uint32(v), uint32(p)}, func(r *Renderable) {
				r.Vertices = append(r.Vertices, obj.Vertices[v])
				r.Normals = append(r.Normals, params.Normals[p])
				r.UVs = append(r.UVs, params.UVs[p])
				r.Colors = append(r.Colors, params.Colors[p])
			})
		}
		a.triangle(tri)
	}
	return a.out, nil
}

// FromMapGeometryObject assembles every face group of a v2 object.
func FromMapGeometryObject(obj *formats.MapGeometryObject) ([]Renderable, error) {
	out := make([]Renderable, 0, len(obj.FaceGroups))
	for i := range obj.FaceGroups {
		r, err := FromFaceGroup(obj, &obj.FaceGroups[i])
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// FromCollisionMesh assembles a v2 collision mesh. Collision geometry has no
// texture coordinates or material; UVs are zero and colours white.
func FromCollisionMesh(info *formats.CollisionInformation, cm *formats.CollisionMesh) (Renderable, error) {
	a := newAssembler(cm.Name.String, formats.NoMaterial)
	for _, fi := range cm.FaceIndices {
		if int(fi) >= len(info.Faces) {
			return Renderable{}, fmt.Errorf("collision mesh %q: face index %d >= %d", cm.Name.String, fi, len(info.Faces))
		}
		face := &info.Faces[fi]
		var tri [3]uint32
		for c := 0; c < 3; c++ {
			v, n := face.VertexIndices[c], face.NormalIndices[c]
			if int(v) >= len(info.Vertices) || int(n) >= len(info.Normals) {
				return Renderable{}, fmt.Errorf("collision mesh %q: face %d corner %d out of range", cm.Name.String, fi, c)
			}
			tri[c] = a.corner(cornerKey{uint32(v), uint32(n)}, func(r *Renderable) {
				nrm := info.Normals[n]
				r.Vertices = append(r.Vertices, info.Vertices[v])
				r.Normals = append(r.Normals, pmath.Vec3{X: nrm[0], Y: nrm[1], Z: nrm[2]}.Normalize().Array())
				r.UVs = append(r.UVs, [2]float32{})
				r.Colors = append(r.Colors, [4]float32{1, 1, 1, 1})
			})
		}
		a.triangle(tri)
	}
	return a.out, nil
}
