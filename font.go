package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// BuiltinFontFamily names the Go fonts compiled into the binary. They are the
// last link of every fallback chain.
const BuiltinFontFamily = "Go"

type FontKey struct {
	Family string
	Bold   bool
	Size   float64
}

// Font is a loaded face plus the parsed font it came from. The parsed font is
// used for glyph coverage; a nil ttf means every rune is assumed printable.
type Font struct {
	Key        FontKey
	Face       font.Face
	Source     string
	ttf        *truetype.Font
	lineHeight int
	ascent     int
}

func newFont(key FontKey, ttf *truetype.Font, source string) *Font {
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    key.Size,
		Hinting: font.HintingFull,
	})
	return newFontFromFace(key, face, ttf, source)
}

func newFontFromFace(key FontKey, face font.Face, ttf *truetype.Font, source string) *Font {
	f := &Font{Key: key, Face: face, Source: source, ttf: ttf}
	bounds, _ := font.BoundString(face, "Ay")
	f.lineHeight = (bounds.Max.Y - bounds.Min.Y).Ceil()
	f.ascent = (-bounds.Min.Y).Ceil()
	return f
}

// LineHeight is the ink height of "Ay".
func (f *Font) LineHeight() int { return f.lineHeight }

// Ascent is the distance from the top of the "Ay" ink box to the baseline.
func (f *Font) Ascent() int { return f.ascent }

// HasGlyph reports whether the font maps r to a real glyph.
func (f *Font) HasGlyph(r rune) bool {
	if f.ttf == nil {
		return true
	}
	return f.ttf.Index(r) != 0
}

// Printable drops runes the font cannot render.
func (f *Font) Printable(text string) string {
	if f.ttf == nil {
		return text
	}
	for _, r := range text {
		if !f.HasGlyph(r) {
			var b strings.Builder
			for _, r := range text {
				if f.HasGlyph(r) {
					b.WriteRune(r)
				}
			}
			return b.String()
		}
	}
	return text
}

var (
	builtinOnce    sync.Once
	builtinRegular *truetype.Font
	builtinBold    *truetype.Font
	builtinErr     error
)

func parseBuiltinFonts() {
	builtinRegular, builtinErr = truetype.Parse(goregular.TTF)
	if builtinErr != nil {
		return
	}
	builtinBold, builtinErr = truetype.Parse(gobold.TTF)
}

func loadBuiltinFont(bold bool, size float64) (*Font, error) {
	builtinOnce.Do(parseBuiltinFonts)
	if builtinErr != nil {
		return nil, fmt.Errorf("failed to parse builtin font: %w", builtinErr)
	}
	ttf, source := builtinRegular, "goregular"
	if bold {
		ttf, source = builtinBold, "gobold"
	}
	return newFont(FontKey{Family: BuiltinFontFamily, Bold: bold, Size: size}, ttf, source), nil
}

// FontCache hands out faces keyed by family, weight and size. Entries are
// loaded on first request and live for the lifetime of the cache.
type FontCache struct {
	family string
	dirs   []string
	faces  map[FontKey]*Font
	paths  map[string]string
	mutex  sync.RWMutex
}

// NewFontCache returns a cache that resolves family from the font
// directories. An empty family or BuiltinFontFamily uses only the Go fonts.
func NewFontCache(family string, dirs []string) *FontCache {
	if len(dirs) == 0 {
		dirs = defaultFontDirs()
	}
	return &FontCache{
		family: family,
		dirs:   dirs,
		faces:  make(map[FontKey]*Font),
		paths:  make(map[string]string),
	}
}

func NewBuiltinFontCache() *FontCache {
	return NewFontCache(BuiltinFontFamily, nil)
}

func (fc *FontCache) Family() string {
	if fc.family == "" {
		return BuiltinFontFamily
	}
	return fc.family
}

// Seed stores f under the cache's family for its weight and size, replacing
// any loaded entry.
func (fc *FontCache) Seed(f *Font) {
	key := FontKey{Family: fc.Family(), Bold: f.Key.Bold, Size: f.Key.Size}
	fc.mutex.Lock()
	fc.faces[key] = f
	fc.mutex.Unlock()
}

// Get never fails: the chain is family+weight, family regular, builtin.
func (fc *FontCache) Get(bold bool, size float64) *Font {
	key := FontKey{Family: fc.Family(), Bold: bold, Size: size}

	fc.mutex.RLock()
	if f, exists := fc.faces[key]; exists {
		fc.mutex.RUnlock()
		return f
	}
	fc.mutex.RUnlock()

	f := fc.load(key)

	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	if existing, exists := fc.faces[key]; exists {
		return existing
	}
	fc.faces[key] = f
	return f
}

func (fc *FontCache) load(key FontKey) *Font {
	if key.Family != BuiltinFontFamily {
		f, err := fc.loadFamily(key.Family, key.Bold, key.Size)
		if err == nil {
			return f
		}
		logWarnModule("font", "%s bold=%v size=%.0f: %v", key.Family, key.Bold, key.Size, err)
		if key.Bold {
			if f, err := fc.loadFamily(key.Family, false, key.Size); err == nil {
				f.Key = key
				return f
			}
		}
	}

	f, err := loadBuiltinFont(key.Bold, key.Size)
	if err != nil {
		// goregular is compiled in; this only happens on a corrupt build.
		panic(err)
	}
	f.Key = key
	return f
}

func (fc *FontCache) loadFamily(family string, bold bool, size float64) (*Font, error) {
	name := fontFileName(family, bold)
	path := fc.lookupPath(name)
	if path == "" {
		return nil, fmt.Errorf("font file %s not found", name)
	}

	f, err := loadFontFile(path, FontKey{Family: family, Bold: bold, Size: size})
	if err != nil {
		return nil, err
	}
	logInfoModule("font", "Using font: %s (%.0fpx)", filepath.Base(path), size)
	return f, nil
}

// loadFontFile parses a TrueType file into a face for key.
func loadFontFile(path string, key FontKey) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %v", err)
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %v", filepath.Base(path), err)
	}
	return newFont(key, ttf, path), nil
}

func (fc *FontCache) lookupPath(name string) string {
	fc.mutex.RLock()
	path, exists := fc.paths[name]
	fc.mutex.RUnlock()
	if exists {
		return path
	}

	path = findFontByName(fc.dirs, []string{name})

	fc.mutex.Lock()
	fc.paths[name] = path
	fc.mutex.Unlock()
	return path
}

func fontFileName(family string, bold bool) string {
	family = strings.ReplaceAll(family, " ", "")
	if bold {
		return family + "-Bold.ttf"
	}
	return family + ".ttf"
}

func defaultFontDirs() []string {
	dirs := []string{
		"/usr/share/fonts",
		"/usr/local/share/fonts",
		"/System/Library/Fonts",
		"/Library/Fonts",
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".fonts"),
			filepath.Join(home, ".local/share/fonts"),
		)
	}
	return dirs
}

func findFontByName(fontDirs []string, fontNames []string) string {
	for _, fontName := range fontNames {
		for _, dir := range fontDirs {
			if _, err := os.Stat(dir); err != nil {
				continue
			}
			cmd := exec.Command("find", dir, "-name", fontName, "-type", "f")
			output, err := cmd.Output()
			if err != nil {
				continue
			}

			lines := strings.Split(strings.TrimSpace(string(output)), "\n")
			for _, line := range lines {
				// truetype.Parse cannot read collections
				if line != "" && (strings.HasSuffix(line, ".ttf") || strings.HasSuffix(line, ".otf")) {
					if _, err := gg.LoadFontFace(line, 16); err == nil {
						return line
					}
				}
			}
		}
	}
	return ""
}
