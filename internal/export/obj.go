package export

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Faultbox/sherman/pkg/encoding"
	"github.com/Faultbox/sherman/pkg/formats"
	"github.com/Faultbox/sherman/pkg/mesh"
)

// noMaterialName is used for faces without a material.
const noMaterialName = "none"

// MaterialName returns the OBJ/MTL name for a material index.
// Names are made whitespace free; missing materials get a numbered name.
func MaterialName(materials []formats.Material, idx formats.MaterialIndex) string {
	if idx.IsNone() {
		return noMaterialName
	}
	if int(idx) >= len(materials) || materials[idx].Name.String == "" {
		return fmt.Sprintf("material_%d", idx)
	}
	return strings.Join(strings.Fields(materials[idx].Name.String), "_")
}

// TextureFile returns the image name an MTL should reference for a material
// texture: its base name with the extension canonicalized to .PNG.
func TextureFile(name string) string {
	base := filepath.Base(encoding.NormalizeSlashes(name))
	if base == "." || base == "" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".PNG"
}

// WriteOBJ writes renderables as Wavefront OBJ, one object per renderable.
// Face indices are global and 1-based; V is flipped to OBJ's bottom-left origin.
func WriteOBJ(w io.Writer, mtlName string, renderables []mesh.Renderable, materials []formats.Material) error {
	bw := bufio.NewWriter(w)
	if mtlName != "" {
		fmt.Fprintf(bw, "mtllib %s\n", mtlName)
	}

	base := 1
	for i := range renderables {
		r := &renderables[i]
		if err := r.Validate(); err != nil {
			return fmt.Errorf("renderable %q: %w", r.Name, err)
		}
		name := strings.Join(strings.Fields(r.Name), "_")
		if name == "" {
			name = fmt.Sprintf("object_%d", i)
		}
		fmt.Fprintf(bw, "o %s\nusemtl %s\n", name, MaterialName(materials, r.MaterialIndex))
		for _, v := range r.Vertices {
			fmt.Fprintf(bw, "v %g %g %g\n", v[0], v[1], v[2])
		}
		for _, uv := range r.UVs {
			fmt.Fprintf(bw, "vt %g %g\n", uv[0], 1-uv[1])
		}
		for _, n := range r.Normals {
			fmt.Fprintf(bw, "vn %g %g %g\n", n[0], n[1], n[2])
		}
		for _, t := range r.Triangles {
			a, b, c := base+int(t[0]), base+int(t[1]), base+int(t[2])
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}
		base += r.VertexCount()
	}
	return bw.Flush()
}

const mtlTemplate = `{{range .}}newmtl {{.Name}}
Ka {{rgb .Ambient}}
Kd {{rgb .Diffuse}}
Ks {{rgb .Specular}}
Ns {{.Shininess}}
d {{.Opacity}}
illum 2
{{if .Texture}}map_Kd {{.Texture}}
{{end}}
{{end}}`

type mtlEntry struct {
	Name                       string
	Ambient, Diffuse, Specular [4]float32
	Shininess, Opacity         float32
	Texture                    string
}

var mtlTmpl = template.Must(template.New("mtl").Funcs(template.FuncMap{
	"rgb": func(c [4]float32) string { return fmt.Sprintf("%g %g %g", c[0], c[1], c[2]) },
}).Parse(mtlTemplate))

// WriteMTL writes a material library for the materials used by renderables,
// in first-use order. Faces without a material share a plain white entry.
func WriteMTL(w io.Writer, renderables []mesh.Renderable, materials []formats.Material) error {
	seen := make(map[string]bool)
	var entries []mtlEntry
	for _, r := range renderables {
		name := MaterialName(materials, r.MaterialIndex)
		if seen[name] {
			continue
		}
		seen[name] = true

		e := mtlEntry{Name: name, Ambient: [4]float32{1, 1, 1, 1}, Diffuse: [4]float32{1, 1, 1, 1}, Opacity: 1}
		if !r.MaterialIndex.IsNone() && int(r.MaterialIndex) < len(materials) {
			m := &materials[r.MaterialIndex]
			e.Ambient, e.Diffuse, e.Specular = m.Ambient(), m.Diffuse(), m.Specular()
			e.Shininess = m.SpecularLevel
			e.Opacity = m.Opacity
			e.Texture = TextureFile(m.TextureName.String)
		}
		entries = append(entries, e)
	}

	bw := bufio.NewWriter(w)
	if err := mtlTmpl.Execute(bw, entries); err != nil {
		return err
	}
	return bw.Flush()
}
