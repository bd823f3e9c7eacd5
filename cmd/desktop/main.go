// Command desktop plays one level in a window.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"math/rand/v2"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"worms-world/internal/game"
	"worms-world/internal/maps"
	"worms-world/internal/render"
)

const (
	screenW = 640
	screenH = 400
)

var (
	skyColor   = color.RGBA{20, 24, 40, 255}
	flakeColor = color.RGBA{250, 250, 255, 255}
	hudShade   = color.RGBA{0, 0, 0, 140}

	bodyColors = map[game.Kind]color.RGBA{
		game.KindWorm: {240, 130, 160, 255},
		game.KindBoo:  {230, 230, 250, 255},
		game.KindCoin: {250, 210, 40, 255},
		game.KindFlag: {60, 200, 90, 255},
		game.KindStar: {120, 220, 255, 255},
	}
	redCoin = color.RGBA{220, 50, 40, 255}
	booIdle = color.RGBA{160, 160, 190, 255}
)

// Desktop adapts a game round to ebiten.Game.
type Desktop struct {
	m     *maps.Map
	level game.Level

	round    *game.Game
	snap     game.Snapshot
	tick     uint64
	mapImg   *ebiten.Image
	bgImg    *ebiten.Image // nil without a background
	startErr error
}

func newDesktop(m *maps.Map, level game.Level) *Desktop {
	d := &Desktop{
		m:      m,
		level:  level,
		mapImg: ebiten.NewImageFromImage(m.Graphics),
	}
	if m.Background != nil {
		d.bgImg = ebiten.NewImageFromImage(m.Background)
	}
	d.restart()
	return d
}

func (d *Desktop) restart() {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	g, err := game.New(d.m, d.level, rng)
	if err != nil {
		d.startErr = err
		return
	}
	d.round = g
	d.tick = 0
	d.snap = g.Snapshot(0, nil)
}

func (d *Desktop) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if d.round == nil {
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		d.restart()
		return nil
	}

	g := d.round
	g.SetMoving(false, ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft))
	g.SetMoving(true, ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight))
	g.SetZoom(true, ebiten.IsKeyPressed(ebiten.KeyEqual) || ebiten.IsKeyPressed(ebiten.KeyKPAdd))
	g.SetZoom(false, ebiten.IsKeyPressed(ebiten.KeyMinus) || ebiten.IsKeyPressed(ebiten.KeyKPSubtract))

	if inpututil.IsKeyJustPressed(ebiten.KeyW) || inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.Jump()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.CenterCamera()
	}
	pans := []struct {
		key    ebiten.Key
		dx, dy int
	}{
		{ebiten.KeyI, 0, -game.PanStep},
		{ebiten.KeyK, 0, game.PanStep},
		{ebiten.KeyJ, -game.PanStep, 0},
		{ebiten.KeyL, game.PanStep, 0},
	}
	for _, p := range pans {
		if ebiten.IsKeyPressed(p.key) {
			g.PanCamera(p.dx, p.dy)
		}
	}

	d.tick++
	events := g.Tick(game.TickInterval)
	d.snap = g.Snapshot(d.tick, events)
	if d.snap.Outcome.Final() && len(events) > 0 {
		log.Printf("Round over on %s: %v, final score %d", d.level.Slug(), d.snap.Outcome, d.snap.Final)
	}
	return nil
}

func (d *Desktop) Draw(screen *ebiten.Image) {
	screen.Fill(skyColor)
	if d.round == nil {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Could not start %s: %v\nEsc to quit", d.level.Slug(), d.startErr))
		return
	}

	view := d.snap.View
	if view.Empty() {
		view = d.m.Bounds()
	}
	sx := float64(screenW) / float64(view.Dx())
	sy := float64(screenH) / float64(view.Dy())

	drawRegion := func(img *ebiten.Image) {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(sx, sy)
		screen.DrawImage(img.SubImage(view.Add(img.Bounds().Min)).(*ebiten.Image), op)
	}
	if d.bgImg != nil {
		drawRegion(d.bgImg)
	}
	drawRegion(d.mapImg)

	fill := func(r image.Rectangle, c color.Color) {
		r = r.Sub(view.Min)
		vector.FillRect(screen,
			float32(float64(r.Min.X)*sx), float32(float64(r.Min.Y)*sy),
			float32(float64(r.Dx())*sx), float32(float64(r.Dy())*sy),
			c, false)
	}
	for _, b := range d.snap.Bodies {
		c := bodyColors[b.Kind]
		switch {
		case b.Kind == game.KindCoin && b.Red:
			c = redCoin
		case b.Kind == game.KindBoo && !b.Moving:
			c = booIdle
		}
		for _, r := range b.Rects {
			fill(r, c)
		}
	}
	for _, fl := range d.snap.Flakes {
		x, y := int(fl.Body.X), int(fl.Body.Y)
		size := 1
		if fl.Large {
			size = 2
		}
		fill(image.Rect(x, y, x+size, y+size), flakeColor)
	}

	d.drawHUD(screen)
}

func (d *Desktop) drawHUD(screen *ebiten.Image) {
	vector.FillRect(screen, 0, 0, screenW, 34, hudShade, false)
	s := d.snap
	line := fmt.Sprintf("%s   Coins %d   Time %s   Jumps %s",
		strings.ToUpper(s.Level.Slug()), s.Score, render.FormatClock(s.Remaining), strings.Repeat("o", s.Jumps))
	ebitenutil.DebugPrintAt(screen, line, 6, 2)

	var status string
	switch {
	case s.Outcome == game.EventWin:
		status = fmt.Sprintf("You reached the flag! Final score %d   R Restart  Esc Quit", s.Final)
	case s.Outcome.Final():
		status = "Game over: " + s.Outcome.String() + "   R Restart  Esc Quit"
	default:
		status = "A/D Move  W/Space Jump  +/- Zoom  IJKL Pan  C Center  R Restart"
	}
	ebitenutil.DebugPrintAt(screen, status, 6, 18)
}

func (d *Desktop) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	levelsDir := flag.String("levels", "assets/levels", "directory of level images")
	slug := flag.String("level", "snowman", "level to play")
	flag.Parse()

	m, err := maps.LoadLevel(*levelsDir, *slug)
	if err != nil {
		log.Printf("Could not load %s from %s: %v, using the default arena", *slug, *levelsDir, err)
		m = maps.DefaultMap()
	}
	log.Printf("Level loaded: %s (%dx%d)", m.Name, m.Width, m.Height)

	ebiten.SetWindowSize(screenW*2, screenH*2)
	ebiten.SetWindowTitle("Worms World")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(game.TickRate)

	if err := ebiten.RunGame(newDesktop(m, game.ParseLevel(m.Name))); err != nil {
		log.Fatalf("Game error: %v", err)
	}
}
