package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/sherman/internal/batch"
	"github.com/Faultbox/sherman/internal/config"
	"github.com/Faultbox/sherman/internal/export"
	"github.com/Faultbox/sherman/internal/logger"
	"github.com/Faultbox/sherman/internal/texture"
	"github.com/Faultbox/sherman/pkg/formats"
	"github.com/Faultbox/sherman/pkg/game"
	"github.com/Faultbox/sherman/pkg/mesh"
)

// parseCommand parses a subcommand's flags and checks it got exactly one operand.
func parseCommand(fs *flag.FlagSet, args []string, operand string) (string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return "", usagef("%s: %v", fs.Name(), err)
	}
	if fs.NArg() != 1 {
		return "", usagef("usage: rstool %s %s", fs.Name(), operand)
	}
	return fs.Arg(0), nil
}

// wrote reports an output file: a log entry and a line on out.
func wrote(out io.Writer, path string) {
	logger.Info("wrote", zap.String("file", path))
	fmt.Fprintf(out, "Wrote: %s\n", path)
}

func writeJSON(cfg *config.Config, out io.Writer, path string, v any) error {
	if err := export.WriteJSON(path, v, cfg.Output.IndentJSON); err != nil {
		return err
	}
	wrote(out, path)
	return nil
}

// writeOBJ writes objPath and a material library beside it.
func writeOBJ(out io.Writer, objPath string, rs []mesh.Renderable, materials []formats.Material) error {
	mtlPath := strings.TrimSuffix(objPath, filepath.Ext(objPath)) + ".mtl"

	f, err := os.Create(objPath)
	if err != nil {
		return err
	}
	if err := export.WriteOBJ(f, filepath.Base(mtlPath), rs, materials); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	wrote(out, objPath)

	m, err := os.Create(mtlPath)
	if err != nil {
		return err
	}
	if err := export.WriteMTL(m, rs, materials); err != nil {
		m.Close()
		return err
	}
	if err := m.Close(); err != nil {
		return err
	}
	wrote(out, mtlPath)
	return nil
}

func cmdConvertMap(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("convert-map", flag.ContinueOnError)
	writeObj := fs.Bool("obj", false, "Also write a Wavefront OBJ of the map geometry")
	collision := fs.Bool("collision", false, "Include collision meshes in the OBJ (RS maps)")
	in, err := parseCommand(fs, args, "[-obj] [-collision] <in.map>")
	if err != nil {
		return err
	}

	m, warnings, err := formats.ParseMapFile(in)
	if err != nil {
		return err
	}
	logger.Warnings(in, warnings)
	if err := writeJSON(cfg, out, in+".JSON", m); err != nil {
		return err
	}
	if !*writeObj {
		return nil
	}

	rs, err := mapRenderables(m, *collision)
	if err != nil {
		return err
	}
	return writeOBJ(out, in+".obj", rs, m.Materials)
}

// mapRenderables assembles every geometry object of a map.
func mapRenderables(m *formats.Map, collision bool) ([]mesh.Renderable, error) {
	var out []mesh.Renderable
	for i := range m.GeometryObjects {
		rs, err := mesh.FromGeometryObject(&m.GeometryObjects[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
	}
	for i := range m.MapGeometryObjects {
		obj := &m.MapGeometryObjects[i]
		rs, err := mesh.FromMapGeometryObject(obj)
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
		if !collision {
			continue
		}
		for j := range obj.CollisionInformation.Meshes {
			r, err := mesh.FromCollisionMesh(&obj.CollisionInformation, &obj.CollisionInformation.Meshes[j])
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
	}
	return out, nil
}

func cmdConvertSOB(cfg *config.Config, args []string, out io.Writer) error {
	in, err := parseCommand(flag.NewFlagSet("convert-sob", flag.ContinueOnError), args, "<in.sob>")
	if err != nil {
		return err
	}

	sob, warnings, err := formats.ParseSOBFile(in)
	if err != nil {
		return err
	}
	logger.Warnings(in, warnings)
	if err := writeJSON(cfg, out, in+".JSON", sob); err != nil {
		return err
	}
	if !cfg.Output.WriteOBJ {
		return nil
	}

	var rs []mesh.Renderable
	for i := range sob.GeometryObjects {
		objRs, err := mesh.FromGeometryObject(&sob.GeometryObjects[i])
		if err != nil {
			return err
		}
		rs = append(rs, objRs...)
	}
	return writeOBJ(out, in+".obj", rs, sob.Materials)
}

func cmdConvertRSB(cfg *config.Config, args []string, out io.Writer) error {
	in, err := parseCommand(flag.NewFlagSet("convert-rsb", flag.ContinueOnError), args, "<in.rsb>")
	if err != nil {
		return err
	}

	rsb, warnings, err := formats.ParseRSBFile(in)
	if err != nil {
		return err
	}
	logger.Warnings(in, warnings)

	stem := strings.TrimSuffix(in, filepath.Ext(in))
	img, err := texture.FromRSB(rsb)
	if err != nil {
		return err
	}
	if err := texture.WritePNG(stem+".PNG", img); err != nil {
		return err
	}
	wrote(out, stem+".PNG")

	if !cfg.Output.WritePalettePNG {
		return nil
	}
	if pal, ok := texture.FromRSBPalette(rsb); ok {
		if err := texture.WritePNG(stem+"-256.PNG", pal); err != nil {
			return err
		}
		wrote(out, stem+"-256.PNG")
	}
	return nil
}

func cmdConvertDMP(cfg *config.Config, args []string, out io.Writer) error {
	in, err := parseCommand(flag.NewFlagSet("convert-dmp", flag.ContinueOnError), args, "<in.dmp>")
	if err != nil {
		return err
	}
	dmp, warnings, err := formats.ParseDMPFile(in)
	if err != nil {
		return err
	}
	logger.Warnings(in, warnings)
	return writeJSON(cfg, out, in+".JSON", dmp)
}

func cmdConvertCXP(cfg *config.Config, args []string, out io.Writer) error {
	in, err := parseCommand(flag.NewFlagSet("convert-cxp", flag.ContinueOnError), args, "<in.cxp>")
	if err != nil {
		return err
	}
	cxp, warnings, err := formats.ParseCXPFile(in)
	if err != nil {
		return err
	}
	logger.Warnings(in, warnings)
	return writeJSON(cfg, out, in+".JSON", cxp)
}

func cmdConvertMission(cfg *config.Config, args []string, out io.Writer) error {
	in, err := parseCommand(flag.NewFlagSet("convert-mis", flag.ContinueOnError), args, "<in.mis>")
	if err != nil {
		return err
	}
	mis, warnings, err := formats.ParseMissionFile(in)
	if err != nil {
		return err
	}
	logger.Warnings(in, warnings)
	return writeJSON(cfg, out, in+".JSON", mis)
}

func cmdBuildPNGCache(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("build-png-cache", flag.ContinueOnError)
	mipmaps := fs.Bool("mipmaps", cfg.Cache.MipMaps, "Also write .MIPn.PNG levels")
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return usagef("build-png-cache: %v", err)
	}

	root := cfg.Game.Path
	switch {
	case fs.NArg() == 1:
		root = fs.Arg(0)
	case fs.NArg() > 1 || root == "":
		return usagef("usage: rstool build-png-cache <game-path>")
	}

	l, err := game.Load(root)
	if err != nil {
		return err
	}
	if err := l.SetMod(cfg.Game.Mod); err != nil {
		return usagef("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := batch.BuildPNGCache(ctx, l, batch.Options{
		Workers:           cfg.Cache.Workers,
		Overwrite:         cfg.Cache.Overwrite,
		MipMaps:           *mipmaps,
		ColorKeyTolerance: cfg.Cache.ColorKeyTolerance,
		IncludeBMP:        cfg.Cache.IncludeBMP,
		IncludeTGA:        cfg.Cache.IncludeTGA,
	})
	fmt.Fprintf(out, "%s (%s): %d sources, %d written, %d skipped, %d failed, %d colour keyed, %d shadowed\n",
		l.Title.Name, l.Engine, stats.Sources, stats.Written, stats.Skipped, stats.Failed, stats.ColorKeyed, stats.Shadowed)
	return err
}
