package formats

// VertexParams is the per-corner attribute bundle of v1 geometry.
type VertexParams struct {
	Normal  [3]float32 `json:"normal"`
	UV      [2]float32 `json:"uv"`
	Unknown float32    `json:"unknown10"`
	Color   [3]uint32  `json:"color"`
}

// Face is a v1 triangle referencing vertices and vertex parameters separately.
type Face struct {
	VertexIndices [3]uint32     `json:"vertexIndices"`
	ParamIndices  [3]uint32     `json:"paramIndices"`
	FaceNormal    [4]float32    `json:"faceNormal"`
	MaterialIndex MaterialIndex `json:"materialIndex"`
}

// Mesh is a named selection of an object's faces.
type Mesh struct {
	Unknown0               uint32          `json:"unknown0"`
	Name                   SizedCString    `json:"name"`
	FaceIndices            []uint32        `json:"faceIndices"`
	GeometryFlags          GeometryFlags   `json:"geometryFlags"`
	GeometryFlagsEvaluated map[string]bool `json:"geometryFlagsEvaluated"`
}

// GeometryObject is a v1 (SOB and R6 map) geometry object.
type GeometryObject struct {
	Size uint32 `json:"size"`
	ID   uint32 `json:"id"`
	VersionedName
	Vertices     [][3]float32   `json:"vertices"`
	VertexParams []VertexParams `json:"vertexParams"`
	Faces        []Face         `json:"faces"`
	Meshes       []Mesh         `json:"meshes"`
}

// FaceCount returns the number of triangles in the object.
func (g *GeometryObject) FaceCount() int { return len(g.Faces) }

// MeshByName returns the mesh with the given name, or nil.
func (g *GeometryObject) MeshByName(name string) *Mesh {
	for i := range g.Meshes {
		if g.Meshes[i].Name.String == name {
			return &g.Meshes[i]
		}
	}
	return nil
}

const (
	vertexParamsSize = 12 + 8 + 4 + 12
	faceSize         = 12 + 12 + 16 + 4
)

func readVertexParams(p *parser) VertexParams {
	return VertexParams{
		Normal:  p.vec3(),
		UV:      p.vec2(),
		Unknown: p.f32(),
		Color:   p.u32x3(),
	}
}

func readMesh(p *parser, faceCount int) Mesh {
	m := Mesh{
		Unknown0: p.u32(),
		Name:     p.str(),
	}
	n := p.count(4)
	m.FaceIndices = make([]uint32, 0, n)
	for i := 0; i < n && p.ok(); i++ {
		idx := p.u32()
		p.checkIndex("face index", uint64(idx), uint64(faceCount))
		m.FaceIndices = append(m.FaceIndices, idx)
	}
	m.GeometryFlags = GeometryFlags(p.u32())
	m.GeometryFlagsEvaluated = m.GeometryFlags.Decode()
	return m
}

// readGeometryObject reads a v1 geometry object and checks every index it holds.
func readGeometryObject(p *parser, materialCount int) GeometryObject {
	g := GeometryObject{
		Size: p.u32(),
		ID:   p.u32(),
	}
	g.VersionedName = readVersionedName(p)

	nVerts := p.count(12)
	g.Vertices = readList(p, "vertex", nVerts, (*parser).vec3)

	nParams := p.count(vertexParamsSize)
	g.VertexParams = readList(p, "vertexParams", nParams, readVertexParams)

	nFaces := p.count(faceSize)
	g.Faces = readList(p, "face", nFaces, func(p *parser) Face {
		f := Face{
			VertexIndices: p.u32x3(),
			ParamIndices:  p.u32x3(),
			FaceNormal:    p.vec4(),
		}
		f.MaterialIndex = p.materialIndex(materialCount)
		for _, v := range f.VertexIndices {
			p.checkIndex("vertex index", uint64(v), uint64(nVerts))
		}
		for _, v := range f.ParamIndices {
			p.checkIndex("param index", uint64(v), uint64(nParams))
		}
		return f
	})

	nMeshes := p.count(16)
	g.Meshes = readList(p, "mesh", nMeshes, func(p *parser) Mesh {
		return readMesh(p, nFaces)
	})
	return g
}

// readGeometryList reads the geometry list header and its v1 objects.
func readGeometryList(p *parser, materialCount int) (ListHeader, []GeometryObject) {
	leave := p.enter(SentinelGeometryList)
	defer leave()

	h, n := readListHeader(p, SentinelGeometryList, 16)
	objects := readList(p, "object", n, func(p *parser) GeometryObject {
		return readGeometryObject(p, materialCount)
	})
	return h, objects
}
