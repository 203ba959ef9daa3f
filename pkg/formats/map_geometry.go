package formats

// VertexParamCollection holds a face group's per-corner attributes as parallel arrays.
type VertexParamCollection struct {
	Normals [][3]float32 `json:"normals"`
	UVs     [][2]float32 `json:"uvs"`
	Colors  [][4]float32 `json:"colors"`
}

// Count returns the number of parameter entries.
func (c *VertexParamCollection) Count() int { return len(c.Normals) }

// FaceGroup is a set of v2 faces sharing one material and one parameter collection.
type FaceGroup struct {
	MaterialIndex     MaterialIndex         `json:"materialIndex"`
	FaceNormals       [][4]float32          `json:"faceNormals"`
	FaceVertexIndices [][3]uint16           `json:"faceVertexIndices"`
	FaceParamIndices  [][3]uint16           `json:"faceVertexParamIndices"`
	VertexParams      VertexParamCollection `json:"vertexParams"`
}

// FaceCount returns the number of triangles in the group.
func (g *FaceGroup) FaceCount() int { return len(g.FaceVertexIndices) }

// CollisionFace is a triangle of the collision hull.
type CollisionFace struct {
	VertexIndices   [3]uint16 `json:"vertexIndices"`
	NormalIndices   [3]uint16 `json:"normalIndices"`
	FaceNormalIndex uint16    `json:"faceNormalIndex"`
	Unknown         uint16    `json:"unknown"`
}

// CollisionMesh is a named selection of collision faces.
type CollisionMesh struct {
	Size uint32 `json:"size"`
	ID   uint32 `json:"id"`
	VersionedName
	Unknown                uint8           `json:"unknown"`
	GeometryFlags          GeometryFlags   `json:"geometryFlags"`
	GeometryFlagsEvaluated map[string]bool `json:"geometryFlagsEvaluated"`
	FaceIndices            []uint16        `json:"faceIndices"`
}

// CollisionInformation is the collision hull of a v2 geometry object.
type CollisionInformation struct {
	Vertices [][3]float32    `json:"vertices"`
	Normals  [][4]float32    `json:"normals"`
	Faces    []CollisionFace `json:"faces"`
	Meshes   []CollisionMesh `json:"collisionMeshDefinitions"`
}

// MapGeometryObject is a v2 (RS map) geometry object.
type MapGeometryObject struct {
	Size uint32 `json:"size"`
	ID   uint32 `json:"id"`
	VersionedName
	Vertices             [][3]float32         `json:"vertices"`
	FaceGroups           []FaceGroup          `json:"faceGroups"`
	CollisionInformation CollisionInformation `json:"collisionInformation"`
}

// FaceCount returns the number of render triangles across all face groups.
func (g *MapGeometryObject) FaceCount() int {
	total := 0
	for i := range g.FaceGroups {
		total += g.FaceGroups[i].FaceCount()
	}
	return total
}

func readFaceGroup(p *parser, materialCount, vertexCount int) FaceGroup {
	g := FaceGroup{MaterialIndex: p.materialIndex(materialCount)}

	nFaces := p.count(16 + 6 + 6)
	g.FaceNormals = make([][4]float32, 0, nFaces)
	for i := 0; i < nFaces && p.ok(); i++ {
		g.FaceNormals = append(g.FaceNormals, p.vec4())
	}
	g.FaceVertexIndices = make([][3]uint16, 0, nFaces)
	for i := 0; i < nFaces && p.ok(); i++ {
		g.FaceVertexIndices = append(g.FaceVertexIndices, p.u16x3())
	}
	g.FaceParamIndices = make([][3]uint16, 0, nFaces)
	for i := 0; i < nFaces && p.ok(); i++ {
		g.FaceParamIndices = append(g.FaceParamIndices, p.u16x3())
	}

	leave := p.enter("vertexParams")
	nParams := p.count(12 + 8 + 16)
	c := VertexParamCollection{
		Normals: make([][3]float32, 0, nParams),
		UVs:     make([][2]float32, 0, nParams),
		Colors:  make([][4]float32, 0, nParams),
	}
	for i := 0; i < nParams && p.ok(); i++ {
		c.Normals = append(c.Normals, p.vec3())
	}
	for i := 0; i < nParams && p.ok(); i++ {
		c.UVs = append(c.UVs, p.vec2())
	}
	for i := 0; i < nParams && p.ok(); i++ {
		c.Colors = append(c.Colors, p.vec4())
	}
	g.VertexParams = c
	leave()

	for f := 0; f < nFaces && p.ok(); f++ {
		for _, v := range g.FaceVertexIndices[f] {
			p.checkIndex("vertex index", uint64(v), uint64(vertexCount))
		}
		for _, v := range g.FaceParamIndices[f] {
			p.checkIndex("param index", uint64(v), uint64(nParams))
		}
	}
	return g
}

func readCollisionMesh(p *parser, faceCount int) CollisionMesh {
	m := CollisionMesh{
		Size: p.u32(),
		ID:   p.u32(),
	}
	m.VersionedName = readVersionedName(p)
	m.Unknown = p.u8()
	m.GeometryFlags = GeometryFlags(p.u32())
	m.GeometryFlagsEvaluated = m.GeometryFlags.Decode()

	n := p.count(2)
	m.FaceIndices = make([]uint16, 0, n)
	for i := 0; i < n && p.ok(); i++ {
		idx := p.u16()
		p.checkIndex("collision face index", uint64(idx), uint64(faceCount))
		m.FaceIndices = append(m.FaceIndices, idx)
	}
	return m
}

func readCollisionInformation(p *parser) CollisionInformation {
	leave := p.enter("collisionInformation")
	defer leave()

	var c CollisionInformation
	nVerts := p.count(12)
	c.Vertices = readList(p, "vertex", nVerts, (*parser).vec3)
	nNormals := p.count(16)
	c.Normals = readList(p, "normal", nNormals, (*parser).vec4)

	nFaces := p.count(16)
	c.Faces = readList(p, "face", nFaces, func(p *parser) CollisionFace {
		f := CollisionFace{
			VertexIndices:   p.u16x3(),
			NormalIndices:   p.u16x3(),
			FaceNormalIndex: p.u16(),
			Unknown:         p.u16(),
		}
		for _, v := range f.VertexIndices {
			p.checkIndex("vertex index", uint64(v), uint64(nVerts))
		}
		for _, n := range f.NormalIndices {
			p.checkIndex("normal index", uint64(n), uint64(nNormals))
		}
		p.checkIndex("face normal index", uint64(f.FaceNormalIndex), uint64(nNormals))
		return f
	})

	nMeshes := p.count(8 + 4 + 1 + 4 + 4)
	c.Meshes = readList(p, "collisionMesh", nMeshes, func(p *parser) CollisionMesh {
		return readCollisionMesh(p, nFaces)
	})
	return c
}

// readMapGeometryObject reads a v2 geometry object.
func readMapGeometryObject(p *parser, materialCount int) MapGeometryObject {
	g := MapGeometryObject{
		Size: p.u32(),
		ID:   p.u32(),
	}
	g.VersionedName = readVersionedName(p)

	nVerts := p.count(12)
	g.Vertices = readList(p, "vertex", nVerts, (*parser).vec3)

	nGroups := p.count(4 + 4 + 4)
	g.FaceGroups = readList(p, "faceGroup", nGroups, func(p *parser) FaceGroup {
		return readFaceGroup(p, materialCount, nVerts)
	})
	g.CollisionInformation = readCollisionInformation(p)
	return g
}

func readMapGeometryList(p *parser, materialCount int) (ListHeader, []MapGeometryObject) {
	leave := p.enter(SentinelGeometryList)
	defer leave()

	h, n := readListHeader(p, SentinelGeometryList, 16)
	objects := readList(p, "object", n, func(p *parser) MapGeometryObject {
		return readMapGeometryObject(p, materialCount)
	})
	return h, objects
}
