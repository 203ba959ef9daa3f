package formats

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Faultbox/sherman/pkg/stream"
)

// SizedCString is the engine's length-prefixed, NUL-terminated string.
type SizedCString = stream.SizedCString

// Section sentinels.
const (
	SentinelBeginModel        = "BeginModel"
	SentinelEndModel          = "EndModel"
	SentinelBeginMap          = "BeginMapv2.1"
	SentinelEndMap            = "EndMap"
	SentinelMaterialList      = "MaterialList"
	SentinelGeometryList      = "GeometryList"
	SentinelPortalList        = "PortalList"
	SentinelLightList         = "LightList"
	SentinelObjectList        = "ObjectList"
	SentinelRoomList          = "RoomList"
	SentinelPlanningLevelList = "PlanningLevelList"
	SentinelBeginDMP          = "BeginDMP"
	SentinelEndDMP            = "EndDMP"

	versionLabel = "Version"
)

// SectionHeader opens a file or section: size, id and a sentinel string.
type SectionHeader struct {
	Size     uint32       `json:"size"`
	ID       uint32       `json:"id"`
	Sentinel SizedCString `json:"sentinel"`
}

func readSectionHeader(p *parser, sentinel string) SectionHeader {
	return SectionHeader{
		Size:     p.u32(),
		ID:       p.u32(),
		Sentinel: p.expect(sentinel),
	}
}

// MaterialListHeader precedes the material records.
type MaterialListHeader struct {
	Size         uint32       `json:"size"`
	Unknown1     uint32       `json:"unknown1"`
	BeginMessage SizedCString `json:"beginMessage"`
	Count        uint32       `json:"count"`
}

// minMaterialSize is the smallest material record: size, id, two empty
// strings and the R6 body.
const minMaterialSize = 8 + 8 + 57

// readMaterialListHeader reads the header and validates its count the same
// way readListHeader does.
func readMaterialListHeader(p *parser) (MaterialListHeader, int) {
	h := MaterialListHeader{
		Size:         p.u32(),
		Unknown1:     p.u32(),
		BeginMessage: p.expect(SentinelMaterialList),
	}
	n := p.count(minMaterialSize)
	h.Count = uint32(n)
	return h, n
}

// ListHeader precedes geometry, portal, light, object, room and planning-level lists.
type ListHeader struct {
	Size  uint32       `json:"size"`
	ID    uint32       `json:"id"`
	Name  SizedCString `json:"name"`
	Count uint32       `json:"count"`
}

// GeometryListHeader is the list header in front of geometry objects.
type GeometryListHeader = ListHeader

// readListHeader reads a list header and validates its count against the
// smallest possible element size.
func readListHeader(p *parser, sentinel string, minElemSize int) (ListHeader, int) {
	h := ListHeader{
		Size: p.u32(),
		ID:   p.u32(),
		Name: p.expect(sentinel),
	}
	n := p.count(minElemSize)
	h.Count = uint32(n)
	return h, n
}

// VersionInfo is the optional "Version" sub-record found inside some records.
type VersionInfo struct {
	Label  SizedCString `json:"label"`
	Number uint32       `json:"number"`
}

// VersionedName is a record name that may be preceded by a version sub-record.
type VersionedName struct {
	Version *VersionInfo `json:"version,omitempty"`
	Name    SizedCString `json:"name"`
}

// VersionNumber returns the embedded version, if the record carried one.
func (v VersionedName) VersionNumber() (uint32, bool) {
	if v.Version == nil {
		return 0, false
	}
	return v.Version.Number, true
}

// versionLabelLength is the encoded length of the "Version" label, 0 when absent.
func (v VersionedName) versionLabelLength() uint32 {
	if v.Version == nil {
		return 0
	}
	return v.Version.Label.Length
}

// readVersionedName reads a string that is either the literal "Version"
// (followed by a u32 and the real name) or the name itself.
func readVersionedName(p *parser) VersionedName {
	first := p.str()
	if !p.ok() {
		return VersionedName{}
	}
	if first.String != versionLabel {
		return VersionedName{Name: first}
	}
	v := &VersionInfo{Label: first, Number: p.u32()}
	return VersionedName{Version: v, Name: p.str()}
}

// GameVersion identifies which engine generation wrote a file.
type GameVersion int

const (
	GameVersionUnknown GameVersion = iota
	GameVersionR6                  // Rainbow Six (Sherman)
	GameVersionRS                  // Rogue Spear (Rommel)
)

// String returns the short game code.
func (g GameVersion) String() string {
	switch g {
	case GameVersionR6:
		return "R6"
	case GameVersionRS:
		return "RS"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the version by name.
func (g GameVersion) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// AlphaMethod is a material's transparency method.
type AlphaMethod uint32

const (
	AlphaOpaque       AlphaMethod = 1
	AlphaMasked       AlphaMethod = 2
	AlphaBlend        AlphaMethod = 3
	AlphaMethodLookup AlphaMethod = 4
)

// String returns the method name.
func (a AlphaMethod) String() string {
	switch a {
	case AlphaOpaque:
		return "Opaque"
	case AlphaMasked:
		return "Masked"
	case AlphaBlend:
		return "AlphaBlend"
	case AlphaMethodLookup:
		return "MethodLookup"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(a))
	}
}

// MarshalText encodes the method by name.
func (a AlphaMethod) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// LightType distinguishes spot lights from point lights.
type LightType uint8

const (
	LightPoint LightType = 0
	LightSpot  LightType = 1
)

// IsSpot reports whether the light is a spot light; any other value is a point light.
func (t LightType) IsSpot() bool { return t == LightSpot }

// String returns "Spotlight" or "Pointlight".
func (t LightType) String() string {
	if t.IsSpot() {
		return "Spotlight"
	}
	return "Pointlight"
}

// MarshalText encodes the light type by name.
func (t LightType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// NoMaterial marks a face without a material.
const NoMaterial MaterialIndex = math.MaxUint32

// MaterialIndex refers into a file's material list.
type MaterialIndex uint32

// IsNone reports whether the index is the no-material sentinel.
func (m MaterialIndex) IsNone() bool { return m == NoMaterial }

// String returns the index or UINT_MAX.
func (m MaterialIndex) String() string {
	if m.IsNone() {
		return "UINT_MAX"
	}
	return strconv.FormatUint(uint64(m), 10)
}

// MarshalJSON encodes the sentinel as the string "UINT_MAX" and other values as numbers.
func (m MaterialIndex) MarshalJSON() ([]byte, error) {
	if m.IsNone() {
		return []byte(`"UINT_MAX"`), nil
	}
	return []byte(strconv.FormatUint(uint64(m), 10)), nil
}

func (p *parser) materialIndex(materialCount int) MaterialIndex {
	m := MaterialIndex(p.u32())
	if !m.IsNone() {
		p.checkIndex("material index", uint64(m), uint64(materialCount))
	}
	return m
}
