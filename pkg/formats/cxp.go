package formats

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// BlendMode is the transparency mode a CXP record assigns to a texture.
type BlendMode int

const (
	BlendOpaque BlendMode = iota
	BlendColorKey
	BlendAlpha
)

// String returns the blend mode name.
func (b BlendMode) String() string {
	switch b {
	case BlendColorKey:
		return "colorkey"
	case BlendAlpha:
		return "alphablend"
	default:
		return "opaque"
	}
}

// MarshalText encodes the blend mode by name.
func (b BlendMode) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Animation is a frame-cycling texture definition.
type Animation struct {
	Type     string   `json:"type"`
	Interval float32  `json:"interval"`
	Textures []string `json:"textures"`
}

// CXPMaterial is one Material or Surface record of a CXP file.
type CXPMaterial struct {
	Name          string      `json:"name"`
	Kind          string      `json:"kind"`
	Line          int         `json:"line"`
	BlendMode     BlendMode   `json:"blendMode"`
	ColorKey      *[3]int     `json:"colorKey,omitempty"`
	MipMap        *[2]int     `json:"mipMap,omitempty"`
	TextureFormat []string    `json:"textureFormat,omitempty"`
	GunPass       bool        `json:"gunPass"`
	GrenadePass   bool        `json:"grenadePass"`
	SoftwareAlpha bool        `json:"softwareAlpha"`
	NoSubsample   bool        `json:"noSubsample"`
	Animated      *Animation  `json:"animated,omitempty"`
	Scroll        *[3]float32 `json:"scroll,omitempty"`
}

// CXP is a parsed material-properties file.
type CXP struct {
	Materials []CXPMaterial `json:"materials"`

	index   map[string]int
	indexed int
}

// Reindex rebuilds the name index used by Find. ParseCXP calls it; call it
// again after renaming records in place.
func (c *CXP) Reindex() {
	c.index = make(map[string]int, len(c.Materials))
	for i := range c.Materials {
		c.index[strings.ToLower(c.Materials[i].Name)] = i
	}
	c.indexed = len(c.Materials)
}

// Find returns the record for a texture or material name, ignoring case.
// Later records override earlier ones of the same name. Find does not modify
// c, so concurrent lookups are safe; when Materials has grown since the last
// Reindex it scans the slice instead.
func (c *CXP) Find(name string) *CXPMaterial {
	if c.index != nil && c.indexed == len(c.Materials) {
		i, ok := c.index[strings.ToLower(name)]
		if !ok {
			return nil
		}
		return &c.Materials[i]
	}
	for i := len(c.Materials) - 1; i >= 0; i-- {
		if strings.EqualFold(c.Materials[i].Name, name) {
			return &c.Materials[i]
		}
	}
	return nil
}

// ParseCXP parses a material-properties file. It never fails: a malformed
// record is reported as a warning and parsing resumes one token after the
// record opener.
func ParseCXP(data []byte) (*CXP, []Warning) {
	tokens, err := Tokenize(data)
	ts := &tokenStream{tokens: tokens}
	cxp := &CXP{}
	var warnings []Warning
	if err != nil {
		w := Warning{Message: fmt.Sprintf("ignoring rest of file: %v", err)}
		var te *TextError
		if errors.As(err, &te) {
			w.Line = te.Line
		}
		warnings = append(warnings, w)
	}

	for !ts.done() {
		tok := ts.tokens[ts.pos]
		if !isRecordOpener(tok.Text) {
			ts.pos++
			continue
		}
		start := ts.pos
		rec, recWarnings, err := parseCXPRecord(ts)
		if err != nil {
			warnings = append(warnings, Warning{Line: tok.Line, Message: fmt.Sprintf("skipping record: %v", err)})
			ts.pos = start + 1
			continue
		}
		warnings = append(warnings, recWarnings...)
		cxp.Materials = append(cxp.Materials, rec)
	}
	cxp.Reindex()
	return cxp, warnings
}

// ParseCXPFile parses a material-properties file from disk.
func ParseCXPFile(path string) (*CXP, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading CXP file: %w", err)
	}
	cxp, warnings := ParseCXP(data)
	return cxp, warnings, nil
}

func isRecordOpener(s string) bool {
	return strings.EqualFold(s, "Material") || strings.EqualFold(s, "Surface")
}

func parseCXPRecord(ts *tokenStream) (CXPMaterial, []Warning, error) {
	opener, _ := ts.next("Material")
	rec := CXPMaterial{Kind: opener.Text, Line: opener.Line}
	var warnings []Warning

	name, err := ts.next("material name")
	if err != nil {
		return rec, nil, err
	}
	if isRecordOpener(name.Text) || strings.EqualFold(name.Text, "End") {
		return rec, nil, &TextError{Line: name.Line, Token: name.Text, Reason: "expected material name"}
	}
	rec.Name = name.Text

	for {
		t, err := ts.next("End")
		if err != nil {
			return rec, nil, err
		}
		switch strings.ToLower(t.Text) {
		case "end":
			return rec, warnings, nil
		case "material", "surface":
			return rec, nil, &TextError{Line: t.Line, Token: t.Text, Reason: "record not closed with End"}
		case "mipmap":
			var v [2]int
			if err := ts.integers("mipmap value", v[:]); err != nil {
				return rec, nil, err
			}
			rec.MipMap = &v
		case "colorkey":
			var v [3]int
			if err := ts.integers("colorkey component", v[:]); err != nil {
				return rec, nil, err
			}
			rec.ColorKey = &v
			rec.BlendMode = BlendColorKey
		case "alphablend":
			rec.BlendMode = BlendAlpha
		case "textureformat":
			rec.TextureFormat = make([]string, 5)
			for i := range rec.TextureFormat {
				if rec.TextureFormat[i], err = ts.str("texture format field"); err != nil {
					return rec, nil, err
				}
			}
		case "gunpass":
			rec.GunPass = true
		case "grenadepass":
			rec.GrenadePass = true
		case "softwarealpha":
			rec.SoftwareAlpha = true
		case "nosubsample":
			rec.NoSubsample = true
		case "animated":
			a, err := parseAnimation(ts)
			if err != nil {
				return rec, nil, err
			}
			rec.Animated = a
		case "scroll", "scrolling":
			var v [3]float32
			if err := ts.numbers("scroll value", v[:]); err != nil {
				return rec, nil, err
			}
			rec.Scroll = &v
		default:
			warnings = append(warnings, Warning{
				Line:    t.Line,
				Message: fmt.Sprintf("unknown keyword %q in %s", t.Text, rec.Name),
			})
		}
	}
}

func parseAnimation(ts *tokenStream) (*Animation, error) {
	a := &Animation{}
	var err error
	if a.Type, err = ts.str("animation type"); err != nil {
		return nil, err
	}
	if a.Interval, err = ts.number("animation interval"); err != nil {
		return nil, err
	}
	n, err := ts.integer("animation frame count")
	if err != nil {
		return nil, err
	}
	if n < 0 || n > len(ts.tokens)-ts.pos {
		return nil, ts.errorf(fmt.Sprint(n), "frame count exceeds remaining tokens")
	}
	a.Textures = make([]string, n)
	for i := range a.Textures {
		if a.Textures[i], err = ts.str("animation frame"); err != nil {
			return nil, err
		}
	}
	return a, nil
}
