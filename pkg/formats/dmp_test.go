package formats

import (
	"errors"
	"testing"
)

func createTestDMP(lights int, typ uint8) []byte {
	b := &builder{}
	b.section(SentinelBeginDMP)
	b.listHeader(SentinelLightList, lights)
	for i := 0; i < lights; i++ {
		b.u32(0, uint32(i)).versioned(1, "light")
		b.f32(1, 0, 0, 0, 1, 0, 0, 0, 1)
		b.f32(1, 2, 3)
		b.f32(1, 0.5, 0.25, 1)
		b.f32(1, 0, 0, 50, 3)
		b.f32(0.3, 0.6)
		b.u8(typ)
	}
	b.str(SentinelEndDMP)
	return b.bytes()
}

func TestParseDMP(t *testing.T) {
	d, warnings, err := ParseDMP(createTestDMP(2, 1))
	if err != nil {
		t.Fatalf("ParseDMP failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if len(d.Lights) != 2 {
		t.Fatalf("expected 2 lights, got %d", len(d.Lights))
	}
	l := d.Lights[1]
	if l.ID != 1 || l.Color != [4]float32{1, 0.5, 0.25, 1} || l.Energy != 3 {
		t.Errorf("light = %+v", l)
	}
	if l.InnerAngle != 0.3 || l.OuterAngle != 0.6 || !l.Type.IsSpot() {
		t.Errorf("cone = %v %v %v", l.InnerAngle, l.OuterAngle, l.Type)
	}
	if d.Footer.String != SentinelEndDMP {
		t.Errorf("footer = %q", d.Footer.String)
	}
}

func TestParseDMP_Truncated(t *testing.T) {
	data := createTestDMP(1, 0)
	_, _, err := ParseDMP(data[:len(data)-10])
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}
