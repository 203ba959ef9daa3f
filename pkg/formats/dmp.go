package formats

import (
	"fmt"
	"os"
)

// DMPLight is a Rommel light with RGBA float colour and cone angles.
type DMPLight struct {
	Size uint32 `json:"size"`
	ID   uint32 `json:"id"`
	VersionedName
	Transform            [9]float32 `json:"transformMatrix"`
	Position             [3]float32 `json:"position"`
	Color                [4]float32 `json:"color"`
	ConstantAttenuation  float32    `json:"constantAttenuation"`
	LinearAttenuation    float32    `json:"linearAttenuation"`
	QuadraticAttenuation float32    `json:"quadraticAttenuation"`
	Falloff              float32    `json:"falloff"`
	Energy               float32    `json:"energy"`
	InnerAngle           float32    `json:"innerAngle"`
	OuterAngle           float32    `json:"outerAngle"`
	Type                 LightType  `json:"type"`
}

// DMP is a parsed light sidecar file.
type DMP struct {
	Header          SectionHeader `json:"header"`
	LightListHeader ListHeader    `json:"lightListHeader"`
	Lights          []DMPLight    `json:"lights"`
	Footer          SizedCString  `json:"footer"`
}

func readDMPLight(p *parser) DMPLight {
	l := DMPLight{
		Size: p.u32(),
		ID:   p.u32(),
	}
	l.VersionedName = readVersionedName(p)
	l.Transform = readMatrix3(p)
	l.Position = p.vec3()
	l.Color = p.vec4()
	l.ConstantAttenuation = p.f32()
	l.LinearAttenuation = p.f32()
	l.QuadraticAttenuation = p.f32()
	l.Falloff = p.f32()
	l.Energy = p.f32()
	l.InnerAngle = p.f32()
	l.OuterAngle = p.f32()
	l.Type = LightType(p.u8())
	return l
}

// ParseDMP parses a light file from raw bytes.
func ParseDMP(data []byte) (*DMP, []Warning, error) {
	p := newParser(data)
	d := &DMP{}

	leave := p.enter("Header")
	d.Header = readSectionHeader(p, SentinelBeginDMP)
	leave()

	leave = p.enter(SentinelLightList)
	var n int
	d.LightListHeader, n = readListHeader(p, SentinelLightList, 8+4+36+12+16+28+1)
	d.Lights = readList(p, "light", n, readDMPLight)
	leave()

	leave = p.enter("Footer")
	d.Footer = p.expect(SentinelEndDMP)
	leave()
	p.finish()

	if p.err != nil {
		return nil, nil, p.err
	}
	return d, p.warnings, nil
}

// ParseDMPFile parses a light file from disk.
func ParseDMPFile(path string) (*DMP, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading DMP file: %w", err)
	}
	return ParseDMP(data)
}
