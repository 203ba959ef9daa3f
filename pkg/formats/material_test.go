package formats

import (
	"errors"
	"testing"
)

func TestInferGameVersion(t *testing.T) {
	tests := []struct {
		name                         string
		size, nameL, versionL, texL uint32
		want                         GameVersion
	}{
		{"r6 no version", 73 + 10 + 19, 10, 0, 19, GameVersionR6},
		{"r6 with version", 73 + 10 + 8 + 31, 10, 8, 31, GameVersionR6},
		{"rs", 69 + 5 + 8 + 6, 5, 8, 6, GameVersionRS},
		{"unknown", 100, 5, 8, 6, GameVersionUnknown},
		{"underflow", 3, 5, 8, 6, GameVersionUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferGameVersion(tt.size, tt.nameL, tt.versionL, tt.texL); got != tt.want {
				t.Errorf("InferGameVersion = %v, want %v", got, tt.want)
			}
		})
	}
}

func parseOneMaterial(t *testing.T, m testMaterial) (Material, error) {
	t.Helper()
	b := &builder{}
	b.material(m)
	p := newParser(b.bytes())
	got := readMaterial(p)
	if p.err == nil && p.r.Remaining() != 0 {
		t.Errorf("%d bytes left after material", p.r.Remaining())
	}
	return got, p.err
}

func TestReadMaterial_R6(t *testing.T) {
	m, err := parseOneMaterial(t, testMaterial{name: "WI_plain5", texture: "Wl_paper_congo_tan_leaves1.BMP", version: 1, opacity: 1})
	if err != nil {
		t.Fatalf("readMaterial failed: %v", err)
	}
	if m.GameVersion != GameVersionR6 || m.NormalizedColors {
		t.Errorf("version = %v normalized = %v", m.GameVersion, m.NormalizedColors)
	}
	if v, ok := m.VersionNumber(); !ok || v != 1 {
		t.Errorf("version number = %d, %v", v, ok)
	}
	if m.Opacity != 1 || m.TextureAddressMode != 3 || m.AlphaMethod != AlphaOpaque {
		t.Errorf("opacity=%v addr=%d alpha=%v", m.Opacity, m.TextureAddressMode, m.AlphaMethod)
	}
	want := [][]float32{{25, 25, 25}, {255, 255, 255}, {229, 229, 229}}
	got := [][]float32{m.AmbientColor, m.DiffuseColor, m.SpecularColor}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("colour %d = %v, want %v", i, got[i], want[i])
				break
			}
		}
	}
	if m.TwoSided {
		t.Error("twoSided should be false")
	}
}

func TestReadMaterial_RS(t *testing.T) {
	m, err := parseOneMaterial(t, testMaterial{name: "wall", texture: "wall.RSB", version: 2, rs: true, opacity: 0.25})
	if err != nil {
		t.Fatalf("readMaterial failed: %v", err)
	}
	if m.GameVersion != GameVersionRS || !m.NormalizedColors {
		t.Errorf("version = %v normalized = %v", m.GameVersion, m.NormalizedColors)
	}
	if len(m.DiffuseColor) != 4 || m.Diffuse() != [4]float32{1, 1, 1, 1} {
		t.Errorf("diffuse = %v", m.DiffuseColor)
	}
	if m.Ambient()[0] != 0.1 {
		t.Errorf("ambient = %v", m.Ambient())
	}
}

func TestReadMaterial_UnknownLayout(t *testing.T) {
	_, err := parseOneMaterial(t, testMaterial{name: "x", texture: "y", version: 1, opacity: 1, sizeOverride: 500})
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
	var ve *VersionError
	if !errors.As(err, &ve) || ve.Kind != "material layout" {
		t.Errorf("version error = %+v", ve)
	}
}

func TestReadMaterial_NoVersionDefaultsToR6(t *testing.T) {
	m, err := parseOneMaterial(t, testMaterial{name: "x", texture: "y", version: -1, opacity: 1, sizeOverride: 500})
	if err != nil {
		t.Fatalf("readMaterial failed: %v", err)
	}
	if m.GameVersion != GameVersionR6 {
		t.Errorf("version = %v, want R6", m.GameVersion)
	}
}

func TestGeometryFlags(t *testing.T) {
	f := GeometryClimbable | GeometryNoRender | GeometryFlags(1<<20)
	d := f.Decode()
	if len(d) != 10 {
		t.Errorf("expected 10 named flags, got %d", len(d))
	}
	if !d["GF_CLIMBABLE"] || !d["GF_NORENDER"] || d["GF_INVISIBLE"] {
		t.Errorf("decoded = %v", d)
	}
	if f.Unknown() != GeometryFlags(1<<20) {
		t.Errorf("unknown bits = %x", uint32(f.Unknown()))
	}
	if GeometryNoRender != 1<<9 {
		t.Errorf("GF_NORENDER bit = %x", uint32(GeometryNoRender))
	}
}

func TestEnumText(t *testing.T) {
	tests := []struct {
		v    interface{ MarshalText() ([]byte, error) }
		want string
	}{
		{GameVersionR6, "R6"},
		{GameVersionRS, "RS"},
		{GameVersionUnknown, "Unknown"},
		{AlphaOpaque, "Opaque"},
		{AlphaMasked, "Masked"},
		{AlphaBlend, "AlphaBlend"},
		{AlphaMethodLookup, "MethodLookup"},
		{LightSpot, "Spotlight"},
		{LightPoint, "Pointlight"},
		{LightType(7), "Pointlight"},
		{BlendColorKey, "colorkey"},
	}
	for _, tt := range tests {
		got, err := tt.v.MarshalText()
		if err != nil || string(got) != tt.want {
			t.Errorf("MarshalText(%v) = %q, %v; want %q", tt.v, got, err, tt.want)
		}
	}
}
