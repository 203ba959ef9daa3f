package formats

import (
	"errors"
	"strings"
	"testing"
)

func TestParseMission(t *testing.T) {
	src := `M01.map "data\\map\\m01" "Operation Steel Wind" M01.pln brief.txt debrief.txt m01.bmp
10.0f 20.0 30 40f 50 60 70 80.5F
1 128 128 140 100.0f 900.0f
64 64 64
0 0 0
1 clouds.RSB 1.5 0.02
OutdoorRooms courtyard "roof top" End
FogRooms End
`
	m, warnings, err := ParseMission([]byte(src))
	if err != nil {
		t.Fatalf("ParseMission failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if m.MapFile != "M01.map" || m.Name != "Operation Steel Wind" || m.PictureFile != "m01.bmp" {
		t.Errorf("prelude = %+v", m)
	}
	if m.ClipDistances != [8]float32{10, 20, 30, 40, 50, 60, 70, 80.5} {
		t.Errorf("clip distances = %v", m.ClipDistances)
	}
	if !m.FogEnabled || m.FogColor != [3]int{128, 128, 140} || m.FogDistances != [2]float32{100, 900} {
		t.Errorf("fog = %v %v %v", m.FogEnabled, m.FogColor, m.FogDistances)
	}
	if m.AmbientColor != [3]int{64, 64, 64} || m.BackgroundColor != [3]int{} {
		t.Errorf("colours = %v %v", m.AmbientColor, m.BackgroundColor)
	}
	if !m.CloudsEnabled || m.CloudsTexture != "clouds.RSB" || m.CloudsMultiplier != 1.5 || m.CloudsSpeed != 0.02 {
		t.Errorf("clouds = %+v", m)
	}
	if len(m.OutdoorRooms) != 2 || m.OutdoorRooms[1] != "roof top" || len(m.FogRooms) != 0 {
		t.Errorf("rooms = %v %v", m.OutdoorRooms, m.FogRooms)
	}
}

func TestParseMission_FloatSuffix(t *testing.T) {
	prelude := "a b c d e f g "
	tail := " 0 0 0 0 0 0 0 0 0 0 0 0 0 x 1 1 OutdoorRooms End FogRooms End"
	withF, _, err := ParseMission([]byte(prelude + "1.25f 2f 3.5F 4 5 6 7 8" + tail))
	if err != nil {
		t.Fatalf("ParseMission failed: %v", err)
	}
	without, _, err := ParseMission([]byte(prelude + "1.25 2 3.5 4 5 6 7 8" + tail))
	if err != nil {
		t.Fatalf("ParseMission failed: %v", err)
	}
	if withF.ClipDistances != without.ClipDistances {
		t.Errorf("suffix changed values: %v vs %v", withF.ClipDistances, without.ClipDistances)
	}
}

func TestParseMission_Errors(t *testing.T) {
	base := "a b c d e f g 1 2 3 4 5 6 7 8 0 0 0 0 0 0 0 0 0 0 0 0 0 x 1 1 "
	tests := []struct {
		name string
		src  string
	}{
		{"truncated prelude", "a b c"},
		{"bad float", "a b c d e f g 1 2 three 4 5 6 7 8"},
		{"missing OutdoorRooms", base + "FogRooms End"},
		{"unterminated list", base + "OutdoorRooms one two"},
		{"line too long", strings.Repeat("m", MaxLineSize+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseMission([]byte(tt.src))
			if !errors.Is(err, ErrMalformedText) {
				t.Fatalf("expected ErrMalformedText, got %v", err)
			}
			var te *TextError
			if !errors.As(err, &te) || te.Line != 1 {
				t.Errorf("text error = %+v", te)
			}
		})
	}
}

func TestParseMission_TrailingTokens(t *testing.T) {
	src := "a b c d e f g 1 2 3 4 5 6 7 8 0 0 0 0 0 0 0 0 0 0 0 0 0 x 1 1 OutdoorRooms End FogRooms End extra"
	_, warnings, err := ParseMission([]byte(src))
	if err != nil {
		t.Fatalf("ParseMission failed: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v", warnings)
	}
}
