package formats

import pmath "github.com/Faultbox/sherman/pkg/math"

// Portal connects two rooms through a polygon.
type Portal struct {
	Size     uint32       `json:"size"`
	ID       uint32       `json:"id"`
	Name     SizedCString `json:"name"`
	Vertices [][3]float32 `json:"vertices"`
	RoomA    uint32       `json:"roomA"`
	RoomB    uint32       `json:"roomB"`
}

func readPortal(p *parser) Portal {
	pt := Portal{
		Size: p.u32(),
		ID:   p.u32(),
		Name: p.str(),
	}
	n := p.count(12)
	pt.Vertices = readList(p, "vertex", n, (*parser).vec3)
	pt.RoomA = p.u32()
	pt.RoomB = p.u32()
	return pt
}

// Light is a MAP v1 light source.
type Light struct {
	Size uint32 `json:"size"`
	ID   uint32 `json:"id"`
	VersionedName
	Transform            [9]float32 `json:"transformMatrix"`
	Position             [3]float32 `json:"position"`
	Color                [3]uint32  `json:"color"`
	ConstantAttenuation  float32    `json:"constantAttenuation"`
	LinearAttenuation    float32    `json:"linearAttenuation"`
	QuadraticAttenuation float32    `json:"quadraticAttenuation"`
	Falloff              float32    `json:"falloff"`
	Energy               float32    `json:"energy"`
	Type                 LightType  `json:"type"`
}

// readMatrix3 reads a row-major 3x3 matrix and rejects non-finite entries.
func readMatrix3(p *parser) [9]float32 {
	var m [9]float32
	for i := range m {
		m[i] = p.f32()
	}
	if !p.ok() {
		return m
	}
	for i, v := range m {
		if !pmath.IsFinite(v) {
			p.failf(ErrInvalidValue, "transform entry %d is %v", i, v)
			break
		}
	}
	return m
}

func readLight(p *parser) Light {
	l := Light{
		Size: p.u32(),
		ID:   p.u32(),
	}
	l.VersionedName = readVersionedName(p)
	l.Transform = readMatrix3(p)
	l.Position = p.vec3()
	l.Color = p.u32x3()
	l.ConstantAttenuation = p.f32()
	l.LinearAttenuation = p.f32()
	l.QuadraticAttenuation = p.f32()
	l.Falloff = p.f32()
	l.Energy = p.f32()
	l.Type = LightType(p.u8())
	return l
}

// MapObject is a placed object whose payload is kept as opaque bytes.
type MapObject struct {
	Size uint32 `json:"size"`
	Type uint32 `json:"objectType"`
	VersionedName
	Payload []byte `json:"payload"`
}

// mapObjectHeaderSize is the four header words the v1 payload formula subtracts.
const mapObjectHeaderSize = 16

func readMapObject(p *parser) MapObject {
	o := MapObject{
		Size: p.u32(),
		Type: p.u32(),
	}
	o.VersionedName = readVersionedName(p)
	if !p.ok() {
		return o
	}

	version, _ := o.VersionNumber()
	var n int64
	switch {
	case version >= 5:
		n = int64(o.Size)
	case version == 1:
		n = int64(o.Size) - mapObjectHeaderSize - int64(o.Name.Length) - int64(o.versionLabelLength())
		if n < 0 {
			p.failf(ErrInvalidValue, "map object size %d smaller than its header", o.Size)
			return o
		}
	default:
		p.fail(&VersionError{Kind: "map object", Version: version})
		return o
	}
	if n > int64(p.r.Remaining()) {
		p.failf(ErrUnexpectedEOF, "map object payload of %d bytes, %d remain", n, p.r.Remaining())
		return o
	}
	o.Payload = p.bytes(int(n))
	return o
}

func readPortalList(p *parser) (ListHeader, []Portal) {
	leave := p.enter(SentinelPortalList)
	defer leave()

	h, n := readListHeader(p, SentinelPortalList, 8+4+4+8)
	return h, readList(p, "portal", n, readPortal)
}

func readLightList(p *parser) (ListHeader, []Light) {
	leave := p.enter(SentinelLightList)
	defer leave()

	h, n := readListHeader(p, SentinelLightList, 8+4+36+12+12+20+1)
	return h, readList(p, "light", n, readLight)
}

func readObjectList(p *parser) (ListHeader, []MapObject) {
	leave := p.enter(SentinelObjectList)
	defer leave()

	h, n := readListHeader(p, SentinelObjectList, 8+4)
	return h, readList(p, "object", n, readMapObject)
}
