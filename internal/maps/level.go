package maps

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
)

// Level files live side by side in one directory:
//
//	<slug>.png             graphics
//	<slug>_key.png         block key
//	<slug>_background.png  optional backdrop
//
// Any of them may be a .bmp instead.
const (
	keySuffix        = "_key"
	backgroundSuffix = "_background"
)

var imageExts = []string{".png", ".bmp"}

// LoadLevel reads and classifies the level named slug from dir.
func LoadLevel(dir, slug string) (*Map, error) {
	gfx, err := loadImage(dir, slug)
	if err != nil {
		return nil, fmt.Errorf("load graphics: %w", err)
	}
	key, err := loadImage(dir, slug+keySuffix)
	if err != nil {
		return nil, fmt.Errorf("load key: %w", err)
	}

	m, err := New(gfx, key)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", slug, err)
	}
	m.Name = slug

	// Background is optional
	if bg, err := loadImage(dir, slug+backgroundSuffix); err == nil {
		m.Background = bg
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("load background: %w", err)
	}

	return m, nil
}

// LoadLevels scans a directory for key images and loads every level that
// has one, indexed by slug.
func LoadLevels(dir string) (map[string]*Map, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read levels directory: %w", err)
	}

	levels := make(map[string]*Map)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !isImageExt(ext) {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), ext)
		if !strings.HasSuffix(base, keySuffix) {
			continue
		}
		slug := strings.TrimSuffix(base, keySuffix)
		if _, exists := levels[slug]; exists {
			return nil, fmt.Errorf("duplicate level %q in %s", slug, entry.Name())
		}
		m, err := LoadLevel(dir, slug)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", entry.Name(), err)
		}
		levels[slug] = m
	}

	if len(levels) == 0 {
		return nil, fmt.Errorf("no levels in %s", dir)
	}
	return levels, nil
}

func isImageExt(ext string) bool {
	for _, e := range imageExts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// loadImage decodes dir/name with the first supported extension that
// exists. It returns an os.IsNotExist error when none does.
func loadImage(dir, name string) (image.Image, error) {
	for _, ext := range imageExts {
		path := filepath.Join(dir, name+ext)
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return img, nil
	}
	return nil, &os.PathError{Op: "open", Path: filepath.Join(dir, name), Err: os.ErrNotExist}
}

// Arena colors used by DefaultMap's graphics.
var (
	arenaSky   = color.NRGBA{R: 0x87, G: 0xCE, B: 0xEB, A: 0xFF}
	arenaRock  = color.NRGBA{R: 0x6B, G: 0x4F, B: 0x2A, A: 0xFF}
	arenaIce   = color.NRGBA{R: 0xB0, G: 0xE8, B: 0xFF, A: 0xFF}
	arenaStarC = color.NRGBA{R: 0xFF, G: 0xE0, B: 0x40, A: 0xFF}
)

// DefaultMap returns a simple walled arena with a few platforms, used when
// no level files are available.
func DefaultMap() *Map {
	w, h := 320, 200
	key := image.NewNRGBA(image.Rect(0, 0, w, h))
	gfx := image.NewNRGBA(image.Rect(0, 0, w, h))

	paint := func(r image.Rectangle, b Block, c color.NRGBA) {
		for kc, kb := range KeyColors {
			if kb == b {
				draw.Draw(key, r, image.NewUniform(kc), image.Point{}, draw.Src)
				break
			}
		}
		draw.Draw(gfx, r, image.NewUniform(c), image.Point{}, draw.Src)
	}

	paint(key.Bounds(), Empty, arenaSky)
	paint(image.Rect(0, h-12, w, h), Solid, arenaRock) // floor
	paint(image.Rect(0, 0, 6, h), Solid, arenaRock)    // left wall
	paint(image.Rect(w-6, 0, w, h), Solid, arenaRock)  // right wall
	paint(image.Rect(40, 140, 120, 146), Solid, arenaRock)
	paint(image.Rect(180, 110, 280, 115), Slippery, arenaIce)
	paint(image.Rect(90, 70, 170, 75), Solid, arenaRock)
	paint(image.Rect(130, 50, 131, 51), Special, arenaStarC)
	paint(image.Rect(230, 90, 231, 91), Special, arenaStarC)

	m, err := New(gfx, key)
	if err != nil {
		// Both images are built above with identical bounds.
		panic(err)
	}
	m.Name = "arena"
	return m
}
