package formats

// GeometryFlags is the bitset carried on v1 meshes and v2 collision meshes.
type GeometryFlags uint32

// Known geometry flag bits.
const (
	GeometryClimbable GeometryFlags = 1 << iota
	GeometryNoCollide2D
	GeometryInvisible
	GeometryUnknown2
	GeometryFloorPolygon2D
	GeometryNoCollide3D
	GeometryUnknown4
	GeometryNoShadows
	GeometryUnknown5
	GeometryNoRender
)

var geometryFlagNames = []struct {
	flag GeometryFlags
	name string
}{
	{GeometryClimbable, "GF_CLIMBABLE"},
	{GeometryNoCollide2D, "GF_NOCOLLIDE2D"},
	{GeometryInvisible, "GF_INVISIBLE"},
	{GeometryUnknown2, "GF_UNKNOWN2"},
	{GeometryFloorPolygon2D, "GF_FLOORPOLYGON2D"},
	{GeometryNoCollide3D, "GF_NOCOLLIDE3D"},
	{GeometryUnknown4, "GF_UNKNOWN4"},
	{GeometryNoShadows, "GF_NOSHADOWS"},
	{GeometryUnknown5, "GF_UNKNOWN5"},
	{GeometryNoRender, "GF_NORENDER"},
}

// Has reports whether all bits of flag are set.
func (f GeometryFlags) Has(flag GeometryFlags) bool {
	return f&flag == flag
}

// Decode returns every known flag name mapped to whether it is set.
func (f GeometryFlags) Decode() map[string]bool {
	out := make(map[string]bool, len(geometryFlagNames))
	for _, n := range geometryFlagNames {
		out[n.name] = f.Has(n.flag)
	}
	return out
}

// Unknown returns set bits that have no name.
func (f GeometryFlags) Unknown() GeometryFlags {
	known := GeometryFlags(0)
	for _, n := range geometryFlagNames {
		known |= n.flag
	}
	return f &^ known
}
