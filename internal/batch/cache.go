// Package batch converts whole game installations in parallel.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/sherman/internal/logger"
	"github.com/Faultbox/sherman/internal/texture"
	"github.com/Faultbox/sherman/pkg/formats"
	"github.com/Faultbox/sherman/pkg/game"
)

// CacheSuffix replaces a source texture's extension in its cache file name.
const CacheSuffix = ".CACHE.PNG"

// Options controls BuildPNGCache.
type Options struct {
	Workers           int // 0 = runtime.NumCPU()
	Overwrite         bool
	MipMaps           bool
	ColorKeyTolerance float64
	IncludeBMP        bool
	IncludeTGA        bool
}

// Stats summarizes a cache build.
type Stats struct {
	Sources    int `json:"sources"`
	Shadowed   int `json:"shadowed"`
	Written    int `json:"written"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
	ColorKeyed int `json:"colorKeyed"`
	MipLevels  int `json:"mipLevels"`
}

type counters struct {
	written, skipped, failed, keyed, mips atomic.Int64
}

// CachePath returns the cache file written for a source texture.
func CachePath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + CacheSuffix
}

// MipPath returns the file written for mip level n (n >= 1) of a source texture.
func MipPath(src string, level int) string {
	return fmt.Sprintf("%s.MIP%d.PNG", strings.TrimSuffix(src, filepath.Ext(src)), level)
}

// sourcePrecedence ranks sources that map to the same cache file; lower wins.
var sourcePrecedence = map[string]int{".rsb": 0, ".bmp": 1, ".tga": 2}

func precedence(src string) int {
	if p, ok := sourcePrecedence[strings.ToLower(filepath.Ext(src))]; ok {
		return p
	}
	return len(sourcePrecedence)
}

// dedupeSources keeps one source per cache file, compared ignoring case.
// An .rsb beats a .bmp which beats a .tga; equal ranks fall back to the
// lexically smaller path. Order of the kept sources is preserved.
func dedupeSources(sources []string) (kept, shadowed []string) {
	winner := make(map[string]string, len(sources))
	for _, src := range sources {
		key := strings.ToLower(CachePath(src))
		cur, seen := winner[key]
		if !seen || precedence(src) < precedence(cur) || (precedence(src) == precedence(cur) && src < cur) {
			winner[key] = src
		}
	}
	for _, src := range sources {
		if winner[strings.ToLower(CachePath(src))] == src {
			kept = append(kept, src)
		} else {
			shadowed = append(shadowed, src)
		}
	}
	return kept, shadowed
}

// BuildPNGCache converts every texture of the installation to a .CACHE.PNG
// beside its source, applying CXP colour keys. Sources sharing a cache file
// are reduced to one before any work starts. Files are converted
// concurrently; a file that fails is logged and counted, and the returned
// error summarizes the failures. Cancelling ctx stops scheduling new files.
func BuildPNGCache(ctx context.Context, l *game.Loader, opts Options) (Stats, error) {
	keys, err := loadColorKeys(l)
	if err != nil {
		return Stats{}, err
	}

	exts := []string{".rsb"}
	if opts.IncludeBMP {
		exts = append(exts, ".bmp")
	}
	if opts.IncludeTGA {
		exts = append(exts, ".tga")
	}
	found, err := l.Textures(exts...)
	if err != nil {
		return Stats{}, err
	}
	sources, shadowed := dedupeSources(found)
	for _, src := range shadowed {
		logger.Debug("texture shadowed by a source with the same cache file",
			zap.String("file", src), zap.String("cache", CachePath(src)))
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger.Info("building PNG cache",
		zap.String("root", l.Root),
		zap.Int("sources", len(sources)),
		zap.Int("shadowed", len(shadowed)),
		zap.Int("colorKeys", len(keys)),
		zap.Int("workers", workers))

	var (
		c        counters
		mu       sync.Mutex
		firstErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, src := range sources {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := cacheTexture(src, keys, opts, &c); err != nil {
				c.failed.Add(1)
				logger.Error("texture conversion failed", zap.String("file", src), zap.Error(err))
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
			return nil
		})
	}
	waitErr := g.Wait()
	l.Refresh()

	stats := Stats{
		Sources:    len(sources),
		Shadowed:   len(shadowed),
		Written:    int(c.written.Load()),
		Skipped:    int(c.skipped.Load()),
		Failed:     int(c.failed.Load()),
		ColorKeyed: int(c.keyed.Load()),
		MipLevels:  int(c.mips.Load()),
	}
	logger.Info("PNG cache done",
		zap.Int("written", stats.Written),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed))

	if waitErr == nil {
		waitErr = ctx.Err()
	}
	if waitErr != nil {
		return stats, waitErr
	}
	if stats.Failed > 0 {
		return stats, fmt.Errorf("%d of %d textures failed: %w", stats.Failed, stats.Sources, firstErr)
	}
	return stats, nil
}

// cacheTexture converts one source file.
func cacheTexture(src string, keys map[string][3]uint8, opts Options, c *counters) error {
	dst := CachePath(src)
	if !opts.Overwrite {
		if _, err := os.Stat(dst); err == nil {
			c.skipped.Add(1)
			return nil
		}
	}

	img, err := decodeSource(src)
	if err != nil {
		return err
	}
	if key, ok := keys[textureKey(src)]; ok {
		texture.ApplyColorKey(img, key, opts.ColorKeyTolerance)
		c.keyed.Add(1)
	}
	if err := texture.WritePNG(dst, img); err != nil {
		return err
	}
	c.written.Add(1)
	log := logger.With(zap.String("file", dst))
	log.Debug("cached texture", zap.Int("width", img.Rect.Dx()), zap.Int("height", img.Rect.Dy()))

	if opts.MipMaps {
		levels, ok := texture.GenerateMipMaps(img)
		if !ok {
			return nil
		}
		for i := 1; i < len(levels); i++ {
			if err := texture.WritePNG(MipPath(src, i), levels[i]); err != nil {
				return err
			}
			c.mips.Add(1)
		}
	}
	return nil
}

// decodeSource reads a texture, logging RSB parse warnings.
func decodeSource(src string) (*image.NRGBA, error) {
	if !strings.EqualFold(filepath.Ext(src), ".rsb") {
		return texture.DecodeFile(src)
	}
	rsb, warnings, err := formats.ParseRSBFile(src)
	if err != nil {
		return nil, err
	}
	logger.Warnings(src, warnings)
	return texture.FromRSB(rsb)
}

// textureKey normalizes a texture or CXP record name for colour-key lookup.
func textureKey(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// loadColorKeys collects colour keys from every CXP file of the installation.
// Files are read in sorted order, so later files override earlier entries.
func loadColorKeys(l *game.Loader) (map[string][3]uint8, error) {
	files, err := l.CXPFiles()
	if err != nil {
		return nil, err
	}
	keys := make(map[string][3]uint8)
	for _, f := range files {
		cxp, warnings, err := formats.ParseCXPFile(f)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		logger.Warnings(f, warnings)
		for i := range cxp.Materials {
			m := &cxp.Materials[i]
			if m.BlendMode == formats.BlendColorKey && m.ColorKey != nil {
				keys[textureKey(m.Name)] = texture.KeyFromInts(*m.ColorKey)
			}
		}
	}
	return keys, nil
}
