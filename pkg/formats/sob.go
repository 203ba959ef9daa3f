// Package formats provides parsers for Sherman and Rommel engine file formats.
package formats

import (
	"fmt"
	"os"
)

// SOB is a parsed v1 model file.
type SOB struct {
	Header             SectionHeader      `json:"header"`
	GameVersion        GameVersion        `json:"gameVersion"`
	MaterialListHeader MaterialListHeader `json:"materialListHeader"`
	Materials          []Material         `json:"materials"`
	GeometryListHeader ListHeader         `json:"geometryListHeader"`
	GeometryObjects    []GeometryObject   `json:"geometryObjects"`
	Footer             SizedCString       `json:"footer"`
}

// ParseSOB parses a model from raw bytes. On failure no partial model is returned.
func ParseSOB(data []byte) (*SOB, []Warning, error) {
	p := newParser(data)
	sob := &SOB{}

	leave := p.enter("Header")
	sob.Header = readSectionHeader(p, SentinelBeginModel)
	leave()

	sob.MaterialListHeader, sob.Materials = readMaterials(p)
	sob.GameVersion = gameVersionOf(sob.Materials)
	sob.GeometryListHeader, sob.GeometryObjects = readGeometryList(p, len(sob.Materials))

	leave = p.enter("Footer")
	sob.Footer = p.expect(SentinelEndModel)
	leave()
	p.finish()

	if p.err != nil {
		return nil, nil, p.err
	}
	return sob, p.warnings, nil
}

// ParseSOBFile parses a model file from disk.
func ParseSOBFile(path string) (*SOB, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading SOB file: %w", err)
	}
	return ParseSOB(data)
}

// GeometryObjectByName returns the object with the given name, or nil.
func (s *SOB) GeometryObjectByName(name string) *GeometryObject {
	for i := range s.GeometryObjects {
		if s.GeometryObjects[i].Name.String == name {
			return &s.GeometryObjects[i]
		}
	}
	return nil
}

// GetTotalVertexCount returns the number of vertices across all objects.
func (s *SOB) GetTotalVertexCount() int {
	total := 0
	for _, g := range s.GeometryObjects {
		total += len(g.Vertices)
	}
	return total
}

// GetTotalFaceCount returns the number of faces across all objects.
func (s *SOB) GetTotalFaceCount() int {
	total := 0
	for _, g := range s.GeometryObjects {
		total += len(g.Faces)
	}
	return total
}

// gameVersionOf returns the layout inferred from the first material.
func gameVersionOf(materials []Material) GameVersion {
	if len(materials) == 0 {
		return GameVersionR6
	}
	return materials[0].GameVersion
}
