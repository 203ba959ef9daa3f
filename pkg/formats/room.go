package formats

import pmath "github.com/Faultbox/sherman/pkg/math"

// PlanArea is the planning overlay polygon soup of a room level.
type PlanArea struct {
	Size uint32 `json:"size"`
	ID   uint32 `json:"id"`
	VersionedName
	Vertices [][3]float32 `json:"vertices"`
	Faces    [][3]uint32  `json:"faces"`
}

// ShermanLevel is one floor of a room.
type ShermanLevel struct {
	Name      SizedCString `json:"name"`
	Transform [12]float32  `json:"transform"`
	AABB      pmath.AABB   `json:"aabb"`
	Unknown2  uint32       `json:"unknown2"`
	PlanArea  PlanArea     `json:"planArea"`
}

// RoomTransition links a room level to a neighbouring area.
type RoomTransition struct {
	Level  uint32       `json:"level"`
	Name   SizedCString `json:"name"`
	Coords [6]float32   `json:"coords"`
}

// Room groups the levels, transitions and floor heights of one map room.
type Room struct {
	ID          uint32           `json:"id"`
	Name        SizedCString     `json:"name"`
	Unknown1    uint8            `json:"unknown1"`
	Levels      []ShermanLevel   `json:"shermanLevels"`
	Transitions []RoomTransition `json:"transitions"`
	Heights     []float32        `json:"levelHeights"`
}

// PlanningLevel lists the rooms shown on one floor of the planning map.
type PlanningLevel struct {
	Number      float32        `json:"levelNumber"`
	FloorHeight float32        `json:"floorHeight"`
	Rooms       []SizedCString `json:"roomNames"`
}

func readPlanArea(p *parser) PlanArea {
	leave := p.enter("planArea")
	defer leave()

	a := PlanArea{
		Size: p.u32(),
		ID:   p.u32(),
	}
	a.VersionedName = readVersionedName(p)
	nVerts := p.count(12)
	a.Vertices = readList(p, "vertex", nVerts, (*parser).vec3)
	nFaces := p.count(12)
	a.Faces = readList(p, "face", nFaces, func(p *parser) [3]uint32 {
		f := p.u32x3()
		for _, v := range f {
			p.checkIndex("vertex index", uint64(v), uint64(nVerts))
		}
		return f
	})
	return a
}

func readShermanLevel(p *parser) ShermanLevel {
	l := ShermanLevel{Name: p.str()}
	for i := range l.Transform {
		l.Transform[i] = p.f32()
	}
	lo, hi := p.vec3(), p.vec3()
	l.AABB = pmath.NewAABB(pmath.V3(lo), pmath.V3(hi))
	l.Unknown2 = p.u32()
	l.PlanArea = readPlanArea(p)
	return l
}

func readRoomTransition(p *parser) RoomTransition {
	t := RoomTransition{
		Level: p.u32(),
		Name:  p.str(),
	}
	for i := range t.Coords {
		t.Coords[i] = p.f32()
	}
	return t
}

func readRoom(p *parser) Room {
	r := Room{
		ID:       p.u32(),
		Name:     p.str(),
		Unknown1: p.u8(),
	}
	n := p.count(4 + 48 + 24 + 4 + 16)
	r.Levels = readList(p, "shermanLevel", n, readShermanLevel)
	n = p.count(4 + 4 + 24)
	r.Transitions = readList(p, "transition", n, readRoomTransition)
	n = p.count(4)
	r.Heights = p.floats(n)
	return r
}

func readPlanningLevel(p *parser) PlanningLevel {
	l := PlanningLevel{
		Number:      p.f32(),
		FloorHeight: p.f32(),
	}
	n := p.count(4)
	l.Rooms = readList(p, "room", n, (*parser).str)
	return l
}

func readRoomList(p *parser) (ListHeader, []Room) {
	leave := p.enter(SentinelRoomList)
	defer leave()

	h, n := readListHeader(p, SentinelRoomList, 4+4+1+12)
	return h, readList(p, "room", n, readRoom)
}

func readPlanningLevelList(p *parser) (ListHeader, []PlanningLevel) {
	leave := p.enter(SentinelPlanningLevelList)
	defer leave()

	h, n := readListHeader(p, SentinelPlanningLevelList, 12)
	return h, readList(p, "planningLevel", n, readPlanningLevel)
}
