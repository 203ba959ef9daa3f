package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/sherman/pkg/formats"
	"github.com/Faultbox/sherman/pkg/game"
)

func cmdInfo(args []string, out io.Writer) error {
	if len(args) != 1 {
		return usagef("usage: rstool info <file|game-path>")
	}
	path := args[0]

	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if st.IsDir() {
		return gameInfo(path, out)
	}

	line, err := fileInfo(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s\n", filepath.Base(path), line)
	return nil
}

// fileInfo summarizes one asset file, choosing the parser by extension.
func fileInfo(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".sob":
		sob, warnings, err := formats.ParseSOBFile(path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s model, %d materials, %d objects, %d vertices, %d faces%s",
			sob.GameVersion, len(sob.Materials), len(sob.GeometryObjects),
			sob.GetTotalVertexCount(), sob.GetTotalFaceCount(), warningSuffix(warnings)), nil
	case ".map":
		m, warnings, err := formats.ParseMapFile(path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s map, %d materials, %d objects, %d faces, %d portals, %d lights, %d map objects, %d rooms, %d planning levels%s",
			m.GameVersion, len(m.Materials), m.GeometryObjectCount(), m.GetTotalFaceCount(),
			len(m.Portals), len(m.Lights), len(m.Objects), len(m.Rooms), len(m.PlanningLevels),
			warningSuffix(warnings)), nil
	case ".rsb":
		img, warnings, err := formats.ParseRSBFile(path)
		if err != nil {
			return "", err
		}
		kind := fmt.Sprintf("%d-%d-%d-%d", img.BitDepths.R, img.BitDepths.G, img.BitDepths.B, img.BitDepths.A)
		switch {
		case img.IsDXT():
			kind = fmt.Sprintf("DXT type %d", img.DXTType)
		case img.HasPalette():
			kind += " + palette"
		}
		return fmt.Sprintf("image v%d, %dx%d, %s%s", img.Version, img.Width, img.Height, kind, warningSuffix(warnings)), nil
	case ".dmp":
		dmp, warnings, err := formats.ParseDMPFile(path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d lights%s", len(dmp.Lights), warningSuffix(warnings)), nil
	case ".cxp":
		cxp, warnings, err := formats.ParseCXPFile(path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d material properties%s", len(cxp.Materials), warningSuffix(warnings)), nil
	case ".mis", ".mps":
		mis, warnings, err := formats.ParseMissionFile(path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("mission %q, map %s%s", mis.Name, mis.MapFile, warningSuffix(warnings)), nil
	default:
		return "", usagef("info: unsupported file type %q", ext)
	}
}

func warningSuffix(warnings []formats.Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%d warnings)", len(warnings))
}

// gameInfo summarizes a game installation.
func gameInfo(root string, out io.Writer) error {
	l, err := game.Load(root)
	if err != nil {
		return err
	}
	missions, err := l.Missions()
	if err != nil {
		return err
	}
	maps, err := l.Maps()
	if err != nil {
		return err
	}
	textures, err := l.Textures()
	if err != nil {
		return err
	}

	mods := make([]string, 0, len(l.Mods))
	for _, m := range l.Mods {
		mods = append(mods, m.Name)
	}
	modList := "none"
	if len(mods) > 0 {
		modList = strings.Join(mods, ", ")
	}
	fmt.Fprintf(out, "%s (%s engine): %d missions, %d maps, %d textures, mods: %s\n",
		l.Title.Name, l.Engine, len(missions), len(maps), len(textures), modList)
	return nil
}
