// Package game identifies Sherman and Rommel game installations and resolves
// asset paths inside them.
package game

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Faultbox/sherman/pkg/encoding"
)

// ErrUnknownGame is returned when no known executable is found in the root.
var ErrUnknownGame = errors.New("no known game executable found")

// EngineVersion is the engine generation of a title.
type EngineVersion int

const (
	EngineUnknown EngineVersion = iota
	EngineSherman
	EngineRommel
)

// String returns the engine code name.
func (e EngineVersion) String() string {
	switch e {
	case EngineSherman:
		return "Sherman"
	case EngineRommel:
		return "Rommel"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the engine by name.
func (e EngineVersion) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Title describes a supported game.
type Title struct {
	Name       string        `json:"name"`
	Executable string        `json:"executable"`
	Engine     EngineVersion `json:"engine"`
}

var knownTitles = []Title{
	{"Rainbow Six", "RainbowSix.exe", EngineSherman},
	{"Rogue Spear", "RogueSpear.exe", EngineRommel},
	{"Covert Operations", "CovertOperations.exe", EngineRommel},
	{"Urban Operations", "UrbanOperations.exe", EngineRommel},
	{"Black Thorn", "BlackThorn.exe", EngineRommel},
}

const (
	eagleWatchMarker = "RainbowSixMP.exe"

	// EagleWatch is the mod name recorded when the Eagle Watch expansion is installed.
	EagleWatch = "Eagle Watch"
)

// Mod is a modification directory under the game's mods folder.
type Mod struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Loader describes one game installation.
type Loader struct {
	Root      string        `json:"root"`
	DataDir   string        `json:"dataDir"`
	ModsDir   string        `json:"modsDir"`
	Title     Title         `json:"title"`
	Engine    EngineVersion `json:"engine"`
	Mods      []Mod         `json:"mods"`
	ActiveMod string        `json:"activeMod,omitempty"`

	eagleWatch bool
	dirs       *dirCache
}

// Load identifies the game installed at root.
func Load(root string) (*Loader, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening game root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("game root %s is not a directory", root)
	}

	l := &Loader{Root: root, dirs: newDirCache()}
	for _, t := range knownTitles {
		if _, ok := l.dirs.lookup(root, t.Executable); ok {
			l.Title = t
			l.Engine = t.Engine
			break
		}
	}
	if l.Engine == EngineUnknown {
		return nil, fmt.Errorf("%w in %s", ErrUnknownGame, root)
	}

	l.DataDir = l.subdir(root, "data")
	l.ModsDir = l.subdir(root, "mods")

	if _, ok := l.dirs.lookup(root, eagleWatchMarker); ok {
		l.eagleWatch = true
		l.Mods = append(l.Mods, Mod{Name: EagleWatch, Path: l.subdir(l.ModsDir, "EagleWatch")})
	}
	if ents, err := os.ReadDir(l.ModsDir); err == nil {
		for _, e := range ents {
			if !e.IsDir() || (l.eagleWatch && strings.EqualFold(e.Name(), "EagleWatch")) {
				continue
			}
			l.Mods = append(l.Mods, Mod{Name: e.Name(), Path: filepath.Join(l.ModsDir, e.Name())})
		}
	}
	return l, nil
}

// subdir returns the on-disk spelling of parent/name, or the joined path if absent.
func (l *Loader) subdir(parent, name string) string {
	if actual, ok := l.dirs.lookup(parent, name); ok {
		return filepath.Join(parent, actual)
	}
	return filepath.Join(parent, name)
}

// HasEagleWatch reports whether the Eagle Watch expansion is installed.
func (l *Loader) HasEagleWatch() bool { return l.eagleWatch }

// SetMod selects the mod used for texture resolution. An empty name clears it.
func (l *Loader) SetMod(name string) error {
	if name == "" {
		l.ActiveMod = ""
		return nil
	}
	for _, m := range l.Mods {
		if strings.EqualFold(m.Name, name) || strings.EqualFold(filepath.Base(m.Path), name) {
			l.ActiveMod = m.Name
			return nil
		}
	}
	return fmt.Errorf("unknown mod %q", name)
}

func (l *Loader) activeModDir() string {
	for _, m := range l.Mods {
		if m.Name == l.ActiveMod {
			return m.Path
		}
	}
	return ""
}

// Missions lists mission files (.MIS, plus .MPS with Eagle Watch) under the data and mods directories.
func (l *Loader) Missions() ([]string, error) {
	exts := []string{".mis"}
	if l.eagleWatch {
		exts = append(exts, ".mps")
	}
	return l.find(exts...)
}

// Maps lists level files.
func (l *Loader) Maps() ([]string, error) { return l.find(".map") }

// CXPFiles lists material-property files.
func (l *Loader) CXPFiles() ([]string, error) { return l.find(".cxp") }

// Textures lists image files with the given extensions (".rsb" when none are given).
func (l *Loader) Textures(exts ...string) ([]string, error) {
	if len(exts) == 0 {
		exts = []string{".rsb"}
	}
	return l.find(exts...)
}

// find walks the data and mods directories for files with one of exts, ignoring case.
// The result is sorted.
func (l *Loader) find(exts ...string) ([]string, error) {
	var out []string
	for _, dir := range []string{l.DataDir, l.ModsDir} {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == dir && errors.Is(err, fs.ErrNotExist) {
					return filepath.SkipDir
				}
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			for _, e := range exts {
				if ext == strings.ToLower(e) && !isCacheOutput(path) {
					out = append(out, path)
					break
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// isCacheOutput reports whether path is a generated .CACHE.PNG file.
func isCacheOutput(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".cache.png")
}

// CacheStats returns directory-listing cache hits and misses.
func (l *Loader) CacheStats() (hits, misses int) { return l.dirs.stats() }

// Refresh drops cached directory listings, e.g. after writing new files.
func (l *Loader) Refresh() { l.dirs.clear() }

// textureExts are source extensions canonicalized to .PNG during resolution.
var textureExts = map[string]bool{".bmp": true, ".rsb": true, ".tga": true}

// textureCandidates lists file names to try for a texture reference, in order.
func textureCandidates(name string) []string {
	base := filepath.Base(encoding.NormalizeSlashes(name))
	stem := base
	if ext := filepath.Ext(base); textureExts[strings.ToLower(ext)] {
		stem = strings.TrimSuffix(base, ext)
	}
	out := []string{stem + ".PNG", stem + ".CACHE.PNG", base}
	if !strings.HasPrefix(strings.ToUpper(base), "TGA") {
		out = append(out, "TGA"+stem+".PNG", "TGA"+stem+".CACHE.PNG", "TGA"+base)
	}
	return out
}

// ResolveTexture finds the file for a texture named by a material in
// referencingFile. It searches the referencing file's directory, then
// <data>/texture, then the active mod's texture directory.
func (l *Loader) ResolveTexture(name, referencingFile string) (string, bool) {
	var dirs []string
	if referencingFile != "" {
		dirs = append(dirs, filepath.Dir(referencingFile))
	}
	dirs = append(dirs, l.subdir(l.DataDir, "texture"))
	if modDir := l.activeModDir(); modDir != "" {
		dirs = append(dirs, l.subdir(modDir, "texture"))
	}

	candidates := textureCandidates(name)
	for _, dir := range dirs {
		for _, c := range candidates {
			if actual, ok := l.dirs.lookup(dir, c); ok {
				return filepath.Join(dir, actual), true
			}
		}
	}
	return "", false
}
