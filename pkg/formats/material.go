package formats

// Material layout constants: the record size minus the lengths of its
// embedded strings identifies the colour encoding.
const (
	materialFixedSizeR6 = 73
	materialFixedSizeRS = 69
)

// InferGameVersion determines a material's layout from its declared size and
// the L fields of its name, version label and texture name strings.
func InferGameVersion(size, nameLen, versionLen, textureLen uint32) GameVersion {
	rest := int64(size) - int64(nameLen) - int64(versionLen) - int64(textureLen)
	switch rest {
	case materialFixedSizeR6:
		return GameVersionR6
	case materialFixedSizeRS:
		return GameVersionRS
	default:
		return GameVersionUnknown
	}
}

// Material is a surface definition shared by models and maps.
type Material struct {
	Size uint32 `json:"size"`
	ID   uint32 `json:"id"`
	VersionedName
	TextureName        SizedCString `json:"textureName"`
	Opacity            float32      `json:"opacity"`
	EmissiveStrength   float32      `json:"emissiveStrength"`
	TextureAddressMode uint32       `json:"textureAddressMode"`
	AlphaMethod        AlphaMethod  `json:"alphaMethod"`

	// R6 stores 0..255 integer triples, RS stores normalized RGBA floats.
	AmbientColor     []float32 `json:"ambientColor"`
	DiffuseColor     []float32 `json:"diffuseColor"`
	SpecularColor    []float32 `json:"specularColor"`
	NormalizedColors bool      `json:"normalizedColors"`

	SpecularLevel float32     `json:"specularLevel"`
	TwoSided      bool        `json:"twoSided"`
	GameVersion   GameVersion `json:"gameVersion"`
}

// Ambient returns the ambient colour as normalized RGBA.
func (m *Material) Ambient() [4]float32 { return normalizeColor(m.AmbientColor, m.NormalizedColors) }

// Diffuse returns the diffuse colour as normalized RGBA.
func (m *Material) Diffuse() [4]float32 { return normalizeColor(m.DiffuseColor, m.NormalizedColors) }

// Specular returns the specular colour as normalized RGBA.
func (m *Material) Specular() [4]float32 {
	return normalizeColor(m.SpecularColor, m.NormalizedColors)
}

func normalizeColor(c []float32, normalized bool) [4]float32 {
	out := [4]float32{0, 0, 0, 1}
	for i := 0; i < len(c) && i < 4; i++ {
		if normalized {
			out[i] = c[i]
		} else {
			out[i] = c[i] / 255
		}
	}
	return out
}

func readMaterial(p *parser) Material {
	m := Material{
		Size: p.u32(),
		ID:   p.u32(),
	}
	m.VersionedName = readVersionedName(p)
	m.TextureName = p.str()
	if !p.ok() {
		return m
	}

	m.GameVersion = InferGameVersion(m.Size, m.Name.Length, m.versionLabelLength(), m.TextureName.Length)
	if m.GameVersion == GameVersionUnknown {
		if m.Version != nil {
			rest := int64(m.Size) - int64(m.Name.Length) - int64(m.versionLabelLength()) - int64(m.TextureName.Length)
			p.fail(&VersionError{Kind: "material layout", Version: uint32(rest)})
			return m
		}
		m.GameVersion = GameVersionR6
	}

	m.Opacity = p.f32()
	m.EmissiveStrength = p.f32()
	m.TextureAddressMode = p.u32()
	m.AlphaMethod = AlphaMethod(p.u32())

	if m.GameVersion == GameVersionRS {
		m.NormalizedColors = true
		m.AmbientColor = p.floats(4)
		m.DiffuseColor = p.floats(4)
		m.SpecularColor = p.floats(4)
	} else {
		m.AmbientColor = p.colorU32()
		m.DiffuseColor = p.colorU32()
		m.SpecularColor = p.colorU32()
	}

	m.SpecularLevel = p.f32()
	m.TwoSided = p.u8() != 0

	if p.ok() && !(m.Opacity >= 0 && m.Opacity <= 1) {
		p.failf(ErrInvalidValue, "opacity %v outside 0..1", m.Opacity)
	}
	return m
}

// colorU32 reads an RGB triple of u32 values as floats.
func (p *parser) colorU32() []float32 {
	c := p.u32x3()
	return []float32{float32(c[0]), float32(c[1]), float32(c[2])}
}

// readMaterials reads the material list header and its records.
func readMaterials(p *parser) (MaterialListHeader, []Material) {
	leave := p.enter(SentinelMaterialList)
	defer leave()

	h, n := readMaterialListHeader(p)
	if !p.ok() {
		return h, nil
	}
	return h, readList(p, "material", n, readMaterial)
}
