package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/image/bmp"

	"worms-world/internal/game"
	"worms-world/internal/maps"
)

// Key colors written for each block kind.
var keyColors = map[maps.Block]color.NRGBA{}

func init() {
	for c, b := range maps.KeyColors {
		keyColors[b] = c
	}
}

// palette colors the graphics image for one theme.
type palette struct {
	skyTop, skyBottom color.NRGBA
	top               color.NRGBA // surface layer
	soil, soilDark    color.NRGBA
	platform          color.NRGBA
	star              color.NRGBA
}

var themes = map[string]palette{
	"grass": {
		skyTop:    rgb(0x5A, 0x9B, 0xE0),
		skyBottom: rgb(0xBF, 0xE3, 0xFF),
		top:       rgb(0x4C, 0xB0, 0x3A),
		soil:      rgb(0x8A, 0x5A, 0x2B),
		soilDark:  rgb(0x5E, 0x3C, 0x1C),
		platform:  rgb(0x80, 0x80, 0x88),
		star:      rgb(0xFF, 0xE0, 0x40),
	},
	"snow": {
		skyTop:    rgb(0x2A, 0x3A, 0x66),
		skyBottom: rgb(0x9A, 0xB0, 0xD0),
		top:       rgb(0xF4, 0xF8, 0xFF),
		soil:      rgb(0x6E, 0x7A, 0x8C),
		soilDark:  rgb(0x44, 0x4E, 0x5E),
		platform:  rgb(0xB0, 0xE8, 0xFF),
		star:      rgb(0xFF, 0xE0, 0x40),
	},
	"desert": {
		skyTop:    rgb(0xE8, 0x9A, 0x4A),
		skyBottom: rgb(0xFF, 0xE2, 0xA8),
		top:       rgb(0xF0, 0xD0, 0x80),
		soil:      rgb(0xD0, 0xA0, 0x58),
		soilDark:  rgb(0xA0, 0x70, 0x38),
		platform:  rgb(0x90, 0x60, 0x30),
		star:      rgb(0xFF, 0xFF, 0xFF),
	},
}

func rgb(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}
}

func main() {
	seed := flag.Uint64("seed", 0, "random seed (0 = random)")
	size := flag.String("size", "640x400", "level size as WxH")
	name := flag.String("name", "custom", "level slug, used for the file names")
	theme := flag.String("theme", "grass", "color theme (grass, snow, desert)")
	format := flag.String("format", "png", "image format (png, bmp)")
	out := flag.String("out", ".", "output directory")
	flag.Parse()

	pal, ok := themes[*theme]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown theme %q (available: grass, snow, desert)\n", *theme)
		os.Exit(1)
	}
	encode, ok := encoders[*format]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q (available: png, bmp)\n", *format)
		os.Exit(1)
	}

	w, h, err := parseSize(*size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	fmt.Fprintf(os.Stderr, "Generating %dx%d %s level %q (seed %d)...\n", w, h, *theme, *name, *seed)

	blocks := generateTerrain(w, h, *seed, *theme == "snow")
	key, gfx := paint(blocks, w, h, pal, *seed)

	// The result must load and be playable before it is written
	m, err := maps.New(gfx, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	m.Name = *name
	level := game.ParseLevel(*name)
	if _, err := game.New(m, level, rand.New(rand.NewPCG(*seed, *seed))); err != nil {
		fmt.Fprintf(os.Stderr, "Error: generated level is not playable: %v\n", err)
		os.Exit(1)
	}

	for _, f := range []struct {
		suffix string
		img    image.Image
	}{{"", gfx}, {"_key", key}} {
		path := filepath.Join(*out, *name+f.suffix+"."+*format)
		if err := writeImage(path, f.img, encode); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	}

	// Print block distribution summary
	counts := m.Counts()
	total := w * h
	fmt.Fprintf(os.Stderr, "\nBlock distribution:\n")
	for _, b := range []maps.Block{maps.Empty, maps.Solid, maps.Slippery, maps.Special} {
		if c, ok := counts[b]; ok {
			fmt.Fprintf(os.Stderr, "  %-10s %7d (%5.1f%%)\n", b, c, float64(c)/float64(total)*100)
		}
	}
}

var encoders = map[string]func(io.Writer, image.Image) error{
	"png": png.Encode,
	"bmp": bmp.Encode,
}

func writeImage(path string, img image.Image, encode func(io.Writer, image.Image) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func parseSize(s string) (int, int, error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q (expected WxH)", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil || w < minSize {
		return 0, 0, fmt.Errorf("invalid width %q (minimum %d)", parts[0], minSize)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil || h < minSize {
		return 0, 0, fmt.Errorf("invalid height %q (minimum %d)", parts[1], minSize)
	}
	return w, h, nil
}

// Terrain shape.
const (
	minSize       = 128
	wallWidth     = 4
	floorDepth    = 6 // rows at the bottom that caves never open
	topSoil       = 3
	platformThick = 4
)

// surfaceNoise shapes the ground line; caveNoise hollows out the ground.
var (
	surfaceNoise = octaves{freq: 0.008, count: 4, lacunarity: 2, persistence: 0.5}
	caveNoise    = octaves{freq: 0.025, count: 3, lacunarity: 2, persistence: 0.5}
	soilNoise    = octaves{freq: 0.08, count: 2, lacunarity: 2, persistence: 0.5}
)

// generateTerrain returns a row-major block grid: a noisy ground line with
// caves, side walls, floating platforms and a few star spawns above the
// ground. Platforms are slippery on icy levels.
func generateTerrain(w, h int, seed uint64, icy bool) []maps.Block {
	ground := newNoise(seed)
	caves := newNoise(seed + 1)
	rng := rand.New(rand.NewPCG(seed+100, seed))

	blocks := make([]maps.Block, w*h)
	set := func(x, y int, b maps.Block) {
		if x >= 0 && x < w && y >= 0 && y < h {
			blocks[y*w+x] = b
		}
	}

	surface := make([]int, w)
	for x := range surface {
		surface[x] = int(float64(h)*0.45 + ground.fractal(float64(x), 0, surfaceNoise)*float64(h)*0.4)
		for y := surface[x]; y < h; y++ {
			open := y > surface[x]+topSoil*3 && y < h-floorDepth &&
				caves.fractal(float64(x), float64(y), caveNoise) > 0.68
			if !open {
				set(x, y, maps.Solid)
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < wallWidth; x++ {
			set(x, y, maps.Solid)
			set(w-1-x, y, maps.Solid)
		}
	}

	platform := maps.Solid
	if icy {
		platform = maps.Slippery
	}
	for range 3 + rng.IntN(4) {
		length := 30 + rng.IntN(60)
		x0 := wallWidth + rng.IntN(max(1, w-2*wallWidth-length))
		y0 := max(20, surface[x0]-40-rng.IntN(60))
		for y := y0; y < y0+platformThick; y++ {
			for x := x0; x < x0+length; x++ {
				set(x, y, platform)
			}
		}
	}

	for range 2 + rng.IntN(3) {
		x := wallWidth + 10 + rng.IntN(max(1, w-2*wallWidth-20))
		for y := surface[x] - 30; y > 0; y-- {
			if blocks[y*w+x] == maps.Empty {
				set(x, y, maps.Special)
				break
			}
		}
	}
	return blocks
}

// paint renders the key and graphics images for a block grid.
func paint(blocks []maps.Block, w, h int, pal palette, seed uint64) (key, gfx *image.NRGBA) {
	key = image.NewNRGBA(image.Rect(0, 0, w, h))
	gfx = image.NewNRGBA(image.Rect(0, 0, w, h))
	soil := newNoise(seed + 2)

	for y := 0; y < h; y++ {
		sky := lerp(pal.skyTop, pal.skyBottom, float64(y)/float64(h-1))
		for x := 0; x < w; x++ {
			b := blocks[y*w+x]
			key.SetNRGBA(x, y, keyColors[b])

			c := sky
			switch b {
			case maps.Solid:
				c = lerp(pal.soil, pal.soilDark, soil.fractal(float64(x), float64(y), soilNoise))
				if exposed(blocks, w, x, y) {
					c = pal.top
				}
			case maps.Slippery:
				c = pal.platform
			case maps.Special:
				c = pal.star
			}
			gfx.SetNRGBA(x, y, c)
		}
	}
	return key, gfx
}

// exposed reports whether open air lies within topSoil pixels above x,y.
func exposed(blocks []maps.Block, w, x, y int) bool {
	for d := 1; d <= topSoil; d++ {
		if y-d < 0 {
			return false
		}
		if !blocks[(y-d)*w+x].Tangible() {
			return true
		}
	}
	return false
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	t = min(max(t, 0), 1)
	mix := func(p, q uint8) uint8 {
		return uint8(float64(p) + (float64(q)-float64(p))*t + 0.5)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xFF}
}
