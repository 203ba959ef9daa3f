package formats

import (
	"bytes"
	"encoding/binary"
)

// builder writes little-endian test files.
type builder struct {
	buf bytes.Buffer
}

func (b *builder) bytes() []byte { return b.buf.Bytes() }

func (b *builder) u8(v uint8) *builder {
	b.buf.WriteByte(v)
	return b
}

func (b *builder) u16(vs ...uint16) *builder {
	for _, v := range vs {
		binary.Write(&b.buf, binary.LittleEndian, v)
	}
	return b
}

func (b *builder) u32(vs ...uint32) *builder {
	for _, v := range vs {
		binary.Write(&b.buf, binary.LittleEndian, v)
	}
	return b
}

func (b *builder) f32(vs ...float32) *builder {
	for _, v := range vs {
		binary.Write(&b.buf, binary.LittleEndian, v)
	}
	return b
}

func (b *builder) raw(p []byte) *builder {
	b.buf.Write(p)
	return b
}

// str writes a sized C-string.
func (b *builder) str(s string) *builder {
	b.u32(uint32(len(s) + 1))
	b.buf.WriteString(s)
	b.buf.WriteByte(0)
	return b
}

// versioned writes a name, preceded by a Version sub-record when version >= 0.
func (b *builder) versioned(version int, name string) *builder {
	if version >= 0 {
		b.str(versionLabel).u32(uint32(version))
	}
	return b.str(name)
}

func (b *builder) section(sentinel string) *builder {
	return b.u32(0, 0).str(sentinel)
}

func (b *builder) listHeader(sentinel string, count int) *builder {
	return b.u32(0, 0).str(sentinel).u32(uint32(count))
}

func strLen(s string) uint32 { return uint32(len(s) + 1) }

type testMaterial struct {
	name, texture string
	version       int // -1 for none
	rs            bool
	opacity       float32
	sizeOverride  uint32
}

func (m testMaterial) size() uint32 {
	if m.sizeOverride != 0 {
		return m.sizeOverride
	}
	n := strLen(m.name) + strLen(m.texture)
	if m.version >= 0 {
		n += strLen(versionLabel)
	}
	if m.rs {
		return materialFixedSizeRS + n
	}
	return materialFixedSizeR6 + n
}

func (b *builder) material(m testMaterial) *builder {
	b.u32(m.size(), 1).versioned(m.version, m.name).str(m.texture)
	b.f32(m.opacity, 0).u32(3, uint32(AlphaOpaque))
	if m.rs {
		b.f32(0.1, 0.1, 0.1, 1, 1, 1, 1, 1, 0.9, 0.9, 0.9, 1)
	} else {
		b.u32(25, 25, 25, 255, 255, 255, 229, 229, 229)
	}
	return b.f32(0).u8(0)
}

func (b *builder) materialList(ms ...testMaterial) *builder {
	b.u32(0, 0).str(SentinelMaterialList).u32(uint32(len(ms)))
	for _, m := range ms {
		b.material(m)
	}
	return b
}

// triangleObjectV1 writes a v1 object holding one triangle and one mesh.
func (b *builder) triangleObjectV1(name string, material uint32) *builder {
	b.u32(0, 2).versioned(1, name)
	b.u32(3).f32(0, 0, 0, 1, 0, 0, 0, 1, 0)
	b.u32(2)
	b.f32(0, 0, 1, 0, 0, 0).u32(255, 0, 0)
	b.f32(0, 0, 1, 1, 1, 0).u32(0, 255, 0)
	b.u32(1)
	b.u32(0, 1, 2, 0, 1, 1).f32(0, 0, 1, 0).u32(material)
	b.u32(1)
	b.u32(0).str(name + "_mesh").u32(1, 0).u32(uint32(GeometryInvisible | GeometryNoShadows))
	return b
}

func createTestSOB(materials []testMaterial, objects int) []byte {
	b := &builder{}
	b.section(SentinelBeginModel)
	b.materialList(materials...)
	b.listHeader(SentinelGeometryList, objects)
	for i := 0; i < objects; i++ {
		b.triangleObjectV1("object", 0)
	}
	b.str(SentinelEndModel)
	return b.bytes()
}
