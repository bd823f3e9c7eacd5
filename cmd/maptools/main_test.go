package main

import (
	"strings"
	"testing"

	"worms-world/internal/maps"
)

func TestVizString(t *testing.T) {
	m := maps.DefaultMap()
	out := vizString(m, 80)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	// 320 pixels at 4 per column, 8 pixel rows per line
	if len(lines) != 25 {
		t.Fatalf("got %d lines, want 25", len(lines))
	}
	if !strings.Contains(out, "*") {
		t.Error("star spawns not shown")
	}
	if !strings.Contains(lines[len(lines)-1], "█") {
		t.Error("floor not shown on the last line")
	}
	if !strings.Contains(out, "▒") {
		t.Error("slippery platform not shown")
	}
}

func TestCellBlockPrefersSpecial(t *testing.T) {
	m := maps.DefaultMap()
	// (130,50) is a star spawn pixel in open air
	if b := cellBlock(m, 128, 48, 4, 8); b != maps.Special {
		t.Errorf("cellBlock = %v, want special", b)
	}
	if b := cellBlock(m, 0, 0, 4, 8); b != maps.Solid {
		t.Errorf("cellBlock at wall = %v, want solid", b)
	}
	if b := cellBlock(m, 60, 20, 4, 8); b != maps.Empty {
		t.Errorf("cellBlock in air = %v, want empty", b)
	}
}
