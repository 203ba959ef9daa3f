package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, parts ...string) string {
	t.Helper()
	path := filepath.Join(parts...)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// createTestGame lays out a small Rainbow Six install with Eagle Watch.
func createTestGame(t *testing.T) string {
	root := t.TempDir()
	touch(t, root, "RAINBOWSIX.EXE")
	touch(t, root, "RainbowSixMP.exe")
	touch(t, root, "Data", "Map", "M01", "M01.MAP")
	touch(t, root, "Data", "Map", "M01", "WALL.CACHE.PNG")
	touch(t, root, "Data", "Mission", "M01.MIS")
	touch(t, root, "Data", "Texture", "Sky.png")
	touch(t, root, "Data", "Texture", "Sherman.CXP")
	touch(t, root, "Data", "Texture", "TGAhud.RSB")
	touch(t, root, "Mods", "EagleWatch", "Mission", "EW01.MPS")
	touch(t, root, "Mods", "EagleWatch", "Texture", "ewonly.RSB")
	touch(t, root, "Mods", "Custom", "Map", "C01.map")
	return root
}

func TestLoad_DetectsTitleAndMods(t *testing.T) {
	root := createTestGame(t)
	l, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if l.Engine != EngineSherman || l.Title.Name != "Rainbow Six" {
		t.Errorf("title = %+v", l.Title)
	}
	if !l.HasEagleWatch() {
		t.Error("Eagle Watch not detected")
	}
	if filepath.Base(l.DataDir) != "Data" || filepath.Base(l.ModsDir) != "Mods" {
		t.Errorf("dirs = %s, %s", l.DataDir, l.ModsDir)
	}
	if len(l.Mods) != 2 || l.Mods[0].Name != EagleWatch || l.Mods[1].Name != "Custom" {
		t.Errorf("mods = %+v", l.Mods)
	}
}

func TestLoad_EngineByExecutable(t *testing.T) {
	tests := []struct {
		exe  string
		want EngineVersion
	}{
		{"RainbowSix.exe", EngineSherman},
		{"roguespear.exe", EngineRommel},
		{"CovertOperations.exe", EngineRommel},
		{"UrbanOperations.exe", EngineRommel},
		{"BlackThorn.exe", EngineRommel},
	}
	for _, tt := range tests {
		t.Run(tt.exe, func(t *testing.T) {
			root := t.TempDir()
			touch(t, root, tt.exe)
			l, err := Load(root)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if l.Engine != tt.want {
				t.Errorf("engine = %v, want %v", l.Engine, tt.want)
			}
			if l.HasEagleWatch() {
				t.Error("unexpected Eagle Watch")
			}
		})
	}
}

func TestLoad_UnknownGame(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
}

func TestLoader_Enumerate(t *testing.T) {
	l, err := Load(createTestGame(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	missions, err := l.Missions()
	if err != nil || len(missions) != 2 {
		t.Errorf("missions = %v, %v", missions, err)
	}
	maps, err := l.Maps()
	if err != nil || len(maps) != 2 {
		t.Errorf("maps = %v, %v", maps, err)
	}
	cxps, _ := l.CXPFiles()
	if len(cxps) != 1 {
		t.Errorf("cxp files = %v", cxps)
	}
	textures, _ := l.Textures()
	if len(textures) != 2 {
		t.Errorf("textures = %v", textures)
	}
	pngs, _ := l.Textures(".png")
	if len(pngs) != 1 {
		t.Errorf("cache outputs must not be listed as sources: %v", pngs)
	}
}

func TestLoader_MissionsWithoutEagleWatch(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "RogueSpear.exe")
	touch(t, root, "data", "mission", "a.mis")
	touch(t, root, "data", "mission", "b.mps")
	l, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	missions, _ := l.Missions()
	if len(missions) != 1 {
		t.Errorf(".MPS files need Eagle Watch: %v", missions)
	}
}

func TestLoader_ResolveTexture(t *testing.T) {
	root := createTestGame(t)
	l, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	mapFile := filepath.Join(root, "Data", "Map", "M01", "M01.MAP")

	tests := []struct {
		name     string
		texture  string
		mod      string
		wantBase string
	}{
		{"cache png beside referencing file", "wall.bmp", "", "WALL.CACHE.PNG"},
		{"png in data texture", `texture\SKY.RSB`, "", "Sky.png"},
		{"tga prefixed fallback", "hud.RSB", "", "TGAhud.RSB"},
		{"mod texture", "EWONLY.rsb", EagleWatch, "ewonly.RSB"},
		{"mod texture needs active mod", "EWONLY.rsb", "", ""},
		{"missing", "nothing.bmp", EagleWatch, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := l.SetMod(tt.mod); err != nil {
				t.Fatalf("SetMod: %v", err)
			}
			got, ok := l.ResolveTexture(tt.texture, mapFile)
			if tt.wantBase == "" {
				if ok {
					t.Errorf("expected no match, got %s", got)
				}
				return
			}
			if !ok || filepath.Base(got) != tt.wantBase {
				t.Errorf("ResolveTexture = %q, %v; want %s", got, ok, tt.wantBase)
			}
		})
	}

	if hits, _ := l.CacheStats(); hits == 0 {
		t.Error("directory listings should be cached")
	}
}

func TestLoader_SetModUnknown(t *testing.T) {
	l, err := Load(createTestGame(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := l.SetMod("nope"); err == nil {
		t.Error("expected error for unknown mod")
	}
	if err := l.SetMod("custom"); err != nil || l.ActiveMod != "Custom" {
		t.Errorf("SetMod(custom) = %v, active %q", err, l.ActiveMod)
	}
}

func TestTextureCandidates(t *testing.T) {
	got := textureCandidates(`Data\Texture\Wall.BMP`)
	want := []string{"Wall.PNG", "Wall.CACHE.PNG", "Wall.BMP", "TGAWall.PNG", "TGAWall.CACHE.PNG", "TGAWall.BMP"}
	if len(got) != len(want) {
		t.Fatalf("candidates = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d = %q, want %q", i, got[i], want[i])
		}
	}
}
