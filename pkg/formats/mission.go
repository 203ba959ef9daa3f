package formats

import (
	"fmt"
	"os"
	"strings"
)

// Mission is a parsed mission description (.MIS or .MPS).
type Mission struct {
	MapFile      string `json:"mapFile"`
	Directory    string `json:"directory"`
	Name         string `json:"name"`
	PlanFile     string `json:"planFile"`
	BriefingFile string `json:"briefingFile"`
	DebriefFile  string `json:"debriefFile"`
	PictureFile  string `json:"pictureFile"`

	ClipDistances [8]float32 `json:"clipDistances"`

	FogEnabled   bool       `json:"fogEnabled"`
	FogColor     [3]int     `json:"fogColor"`
	FogDistances [2]float32 `json:"fogDistances"`

	AmbientColor    [3]int `json:"ambientColor"`
	BackgroundColor [3]int `json:"backgroundColor"`

	CloudsEnabled    bool    `json:"cloudsEnabled"`
	CloudsTexture    string  `json:"cloudsTexture"`
	CloudsMultiplier float32 `json:"cloudsMultiplier"`
	CloudsSpeed      float32 `json:"cloudsSpeed"`

	OutdoorRooms []string `json:"outdoorRooms"`
	FogRooms     []string `json:"fogRooms"`
}

// ParseMission parses a mission file. Any missing or malformed field is a
// *TextError naming the line and token.
func ParseMission(data []byte) (*Mission, []Warning, error) {
	tokens, err := Tokenize(data)
	if err != nil {
		return nil, nil, err
	}
	ts := &tokenStream{tokens: tokens}
	m := &Mission{}

	prelude := []struct {
		dst  *string
		what string
	}{
		{&m.MapFile, "map file"},
		{&m.Directory, "directory"},
		{&m.Name, "mission name"},
		{&m.PlanFile, "plan file"},
		{&m.BriefingFile, "briefing file"},
		{&m.DebriefFile, "debrief file"},
		{&m.PictureFile, "picture file"},
	}
	for _, f := range prelude {
		if *f.dst, err = ts.str(f.what); err != nil {
			return nil, nil, err
		}
	}

	if err := ts.numbers("clip distance", m.ClipDistances[:]); err != nil {
		return nil, nil, err
	}

	if m.FogEnabled, err = ts.flag("fog enabled"); err != nil {
		return nil, nil, err
	}
	if err := ts.integers("fog colour", m.FogColor[:]); err != nil {
		return nil, nil, err
	}
	if err := ts.numbers("fog distance", m.FogDistances[:]); err != nil {
		return nil, nil, err
	}
	if err := ts.integers("ambient colour", m.AmbientColor[:]); err != nil {
		return nil, nil, err
	}
	if err := ts.integers("background colour", m.BackgroundColor[:]); err != nil {
		return nil, nil, err
	}

	if m.CloudsEnabled, err = ts.flag("clouds enabled"); err != nil {
		return nil, nil, err
	}
	if m.CloudsTexture, err = ts.str("clouds texture"); err != nil {
		return nil, nil, err
	}
	if m.CloudsMultiplier, err = ts.number("clouds multiplier"); err != nil {
		return nil, nil, err
	}
	if m.CloudsSpeed, err = ts.number("clouds speed"); err != nil {
		return nil, nil, err
	}

	if m.OutdoorRooms, err = readNameList(ts, "OutdoorRooms"); err != nil {
		return nil, nil, err
	}
	if m.FogRooms, err = readNameList(ts, "FogRooms"); err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	if !ts.done() {
		t, _ := ts.peek()
		warnings = append(warnings, Warning{
			Line:    t.Line,
			Message: fmt.Sprintf("%d trailing tokens starting at %q", len(ts.tokens)-ts.pos, t.Text),
		})
	}
	return m, warnings, nil
}

// ParseMissionFile parses a mission file from disk.
func ParseMissionFile(path string) (*Mission, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading mission file: %w", err)
	}
	return ParseMission(data)
}

// readNameList reads "<keyword> name... End".
func readNameList(ts *tokenStream, keyword string) ([]string, error) {
	if err := ts.keyword(keyword); err != nil {
		return nil, err
	}
	names := []string{}
	for {
		t, err := ts.next("End")
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(t.Text, "End") && !t.Quoted {
			return names, nil
		}
		names = append(names, t.Text)
	}
}
