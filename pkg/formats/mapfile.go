// Package formats provides parsers for Sherman and Rommel engine file formats.
package formats

import (
	"fmt"
	"os"
	"time"
)

// MapHeader opens a map file.
type MapHeader struct {
	SectionHeader
	TimePOSIX uint32 `json:"timePOSIX"`
}

// Time returns the header timestamp.
func (h MapHeader) Time() time.Time {
	return time.Unix(int64(h.TimePOSIX), 0).UTC()
}

// Map is a parsed level file. Exactly one of GeometryObjects (R6) and
// MapGeometryObjects (RS) is populated, selected by GameVersion.
type Map struct {
	Header             MapHeader           `json:"header"`
	GameVersion        GameVersion         `json:"gameVersion"`
	MaterialListHeader MaterialListHeader  `json:"materialListHeader"`
	Materials          []Material          `json:"materials"`
	GeometryListHeader ListHeader          `json:"geometryListHeader"`
	GeometryObjects    []GeometryObject    `json:"geometryObjects,omitempty"`
	MapGeometryObjects []MapGeometryObject `json:"mapGeometryObjects,omitempty"`
	PortalListHeader   ListHeader          `json:"portalListHeader"`
	Portals            []Portal            `json:"portals"`
	LightListHeader    ListHeader          `json:"lightListHeader"`
	Lights             []Light             `json:"lights"`
	ObjectListHeader   ListHeader          `json:"objectListHeader"`
	Objects            []MapObject         `json:"objects"`
	RoomListHeader     ListHeader          `json:"roomListHeader"`
	Rooms              []Room              `json:"rooms"`
	PlanningListHeader ListHeader          `json:"planningLevelListHeader"`
	PlanningLevels     []PlanningLevel     `json:"planningLevels"`
	Footer             SizedCString        `json:"footer"`
}

// ParseMap parses a level from raw bytes. The geometry encoding follows the
// layout of the first material; a map without materials is read as R6.
func ParseMap(data []byte) (*Map, []Warning, error) {
	p := newParser(data)
	m := &Map{}

	leave := p.enter("Header")
	m.Header.SectionHeader = readSectionHeader(p, SentinelBeginMap)
	m.Header.TimePOSIX = p.u32()
	leave()

	m.MaterialListHeader, m.Materials = readMaterials(p)
	m.GameVersion = gameVersionOf(m.Materials)
	if m.GameVersion == GameVersionRS {
		m.GeometryListHeader, m.MapGeometryObjects = readMapGeometryList(p, len(m.Materials))
	} else {
		m.GeometryListHeader, m.GeometryObjects = readGeometryList(p, len(m.Materials))
	}

	m.PortalListHeader, m.Portals = readPortalList(p)
	m.LightListHeader, m.Lights = readLightList(p)
	m.ObjectListHeader, m.Objects = readObjectList(p)
	m.RoomListHeader, m.Rooms = readRoomList(p)
	m.PlanningListHeader, m.PlanningLevels = readPlanningLevelList(p)

	leave = p.enter("Footer")
	m.Footer = p.expect(SentinelEndMap)
	leave()
	p.finish()

	if p.err != nil {
		return nil, nil, p.err
	}
	return m, append(p.warnings, m.checkPortalRooms()...), nil
}

// ParseMapFile parses a level file from disk.
func ParseMapFile(path string) (*Map, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading MAP file: %w", err)
	}
	return ParseMap(data)
}

// checkPortalRooms warns about portals that name rooms the map does not have.
// Shipping maps contain such portals, so they are not fatal.
func (m *Map) checkPortalRooms() []Warning {
	var out []Warning
	bound := uint32(len(m.Rooms))
	for i, pt := range m.Portals {
		for _, room := range [2]uint32{pt.RoomA, pt.RoomB} {
			if room >= bound {
				out = append(out, Warning{
					Path:    fmt.Sprintf("%s/portal[%d]", SentinelPortalList, i),
					Message: fmt.Sprintf("room index %d >= room count %d", room, bound),
				})
			}
		}
	}
	return out
}

// MaterialForFace returns the material of a v1 face, or nil for the no-material sentinel.
func (m *Map) MaterialForFace(f Face) *Material {
	if f.MaterialIndex.IsNone() || int(f.MaterialIndex) >= len(m.Materials) {
		return nil
	}
	return &m.Materials[f.MaterialIndex]
}

// MaterialFor returns the material at idx, or nil for the sentinel.
func (m *Map) MaterialFor(idx MaterialIndex) *Material {
	if idx.IsNone() || int(idx) >= len(m.Materials) {
		return nil
	}
	return &m.Materials[idx]
}

// GeometryObjectCount returns the number of geometry objects of either encoding.
func (m *Map) GeometryObjectCount() int {
	return len(m.GeometryObjects) + len(m.MapGeometryObjects)
}

// GetTotalFaceCount returns the number of render faces across all objects.
func (m *Map) GetTotalFaceCount() int {
	total := 0
	for i := range m.GeometryObjects {
		total += m.GeometryObjects[i].FaceCount()
	}
	for i := range m.MapGeometryObjects {
		total += m.MapGeometryObjects[i].FaceCount()
	}
	return total
}

// RoomByName returns the room with the given name, or nil.
func (m *Map) RoomByName(name string) *Room {
	for i := range m.Rooms {
		if m.Rooms[i].Name.String == name {
			return &m.Rooms[i]
		}
	}
	return nil
}
