package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strings"

	"worms-world/internal/game"
	"worms-world/internal/maps"
	"worms-world/internal/render"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "validate":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: maptools validate <levels-dir>")
			os.Exit(1)
		}
		os.Exit(runValidate(args[0]))
	case "viz":
		fs := flag.NewFlagSet("viz", flag.ExitOnError)
		cols := fs.Int("cols", 100, "output width in characters")
		fs.Parse(args)
		if fs.NArg() != 2 {
			fmt.Fprintln(os.Stderr, "Usage: maptools viz [-cols N] <levels-dir> <level>")
			os.Exit(1)
		}
		os.Exit(runViz(fs.Arg(0), fs.Arg(1), *cols))
	case "stats":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: maptools stats <levels-dir> <level>")
			os.Exit(1)
		}
		os.Exit(runStats(args[0], args[1]))
	case "all":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "Usage: maptools all <levels-dir>")
			os.Exit(1)
		}
		os.Exit(runAll(args[0]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: maptools <command> <path> [level]

Commands:
  validate <levels-dir>           Check every level can be played
  viz      <levels-dir> <level>   Render the block key as colored ASCII art
  stats    <levels-dir> <level>   Show block distribution and tangible %
  all      <levels-dir>           Run validate + viz + stats for all levels`)
}

// placementTrials is how many seeded rounds validate starts per level.
const placementTrials = 5

// --- validate ---

func runValidate(dir string) int {
	levels, err := maps.LoadLevels(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		return 1
	}

	errors := 0
	for _, name := range sortedNames(levels) {
		m := levels[name]
		fmt.Printf("Validating %q...\n", name)
		level := game.ParseLevel(name)
		if level == game.LevelCustom {
			fmt.Printf("  WARN: %q is not a known level, playing with default rules\n", name)
		}

		counts := m.Counts()
		if counts[maps.Empty]+counts[maps.Special] == 0 {
			fmt.Println("  ERROR: level has no free space")
			errors++
			continue
		}

		// Every round must be able to place all of its bodies
		failed := 0
		for seed := uint64(1); seed <= placementTrials; seed++ {
			if _, err := game.New(m, level, rand.New(rand.NewPCG(seed, seed))); err != nil {
				fmt.Printf("  ERROR: seed %d: %v\n", seed, err)
				failed++
			}
		}
		errors += failed

		if failed == 0 {
			fmt.Printf("  OK (%dx%d, %d star spawns, %s)\n", m.Width, m.Height, counts[maps.Special], level.TimeLimit())
		}
	}

	if errors > 0 {
		fmt.Printf("\n%d error(s) found\n", errors)
		return 1
	}
	fmt.Printf("\nAll %d levels valid\n", len(levels))
	return 0
}

// --- viz ---

// blockGlyphs gives the character and ANSI color code drawn for a block.
var blockGlyphs = map[maps.Block]struct {
	ch   string
	code int
}{
	maps.Empty:    {" ", 0},
	maps.Solid:    {"█", 33},
	maps.Slippery: {"▒", 36},
	maps.Special:  {"*", 95},
}

func runViz(dir, slug string, cols int) int {
	m, err := maps.LoadLevel(dir, slug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("%s (%dx%d)\n", m.Name, m.Width, m.Height)
	fmt.Print(vizString(m, cols))
	return 0
}

// vizString samples the block key onto a grid cols characters wide.
// Terminal cells are about twice as tall as wide, so each row covers two
// columns' worth of pixels. Tangible blocks win over free ones and a star
// spawn anywhere in a cell shows.
func vizString(m *maps.Map, cols int) string {
	cols = max(1, min(cols, m.Width))
	step := (m.Width + cols - 1) / cols
	rows := (m.Height + 2*step - 1) / (2 * step)

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col*step < m.Width; col++ {
			b := cellBlock(m, col*step, row*2*step, step, 2*step)
			g := blockGlyphs[b]
			if g.code == 0 {
				sb.WriteString(g.ch)
				continue
			}
			sb.WriteString(render.SGR(g.code) + g.ch + render.Reset)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func cellBlock(m *maps.Map, x0, y0, w, h int) maps.Block {
	best := maps.Empty
	for y := y0; y < y0+h && y < m.Height; y++ {
		for x := x0; x < x0+w && x < m.Width; x++ {
			switch b := m.BlockAt(x, y); {
			case b == maps.Special:
				return b
			case b.Tangible() && best == maps.Empty:
				best = b
			}
		}
	}
	return best
}

// --- stats ---

func runStats(dir, slug string) int {
	m, err := maps.LoadLevel(dir, slug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	total := m.Width * m.Height
	fmt.Printf("%s (%dx%d = %d pixels)\n\n", m.Name, m.Width, m.Height, total)

	counts := m.Counts()
	type entry struct {
		block maps.Block
		count int
	}
	var sorted []entry
	for b, c := range counts {
		sorted = append(sorted, entry{b, c})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].block < sorted[j].block
	})

	tangible := 0
	for _, e := range sorted {
		pct := float64(e.count) / float64(total) * 100
		bar := strings.Repeat("█", int(pct/2))
		fmt.Printf("  %-10s %8d (%5.1f%%) %s\n", e.block, e.count, pct, bar)
		if e.block.Tangible() {
			tangible += e.count
		}
	}

	level := game.ParseLevel(m.Name)
	fmt.Printf("\nTangible:    %d/%d (%.1f%%)\n", tangible, total, float64(tangible)/float64(total)*100)
	fmt.Printf("Star spawns: %d\n", len(m.Cells(maps.Special)))
	fmt.Printf("Time limit:  %s\n", level.TimeLimit())
	fmt.Printf("Snow:        %v\n", level.Snowy())
	return 0
}

// --- all ---

func runAll(dir string) int {
	fmt.Println("=== VALIDATE ===")
	if code := runValidate(dir); code != 0 {
		return code
	}

	levels, err := maps.LoadLevels(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	for _, name := range sortedNames(levels) {
		fmt.Printf("\n=== VIZ: %s ===\n", name)
		fmt.Print(vizString(levels[name], 100))
		fmt.Printf("\n=== STATS: %s ===\n", name)
		runStats(dir, name)
	}
	return 0
}

func sortedNames(levels map[string]*maps.Map) []string {
	names := make([]string, 0, len(levels))
	for name := range levels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
