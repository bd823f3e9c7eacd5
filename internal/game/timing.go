package game

import "time"

// TickInterval is the simulated time advanced by one tick.
const TickInterval = 100 * time.Millisecond

// TickRate is the number of ticks per second.
const TickRate = int(time.Second / TickInterval)

// SecsToTicks converts a duration in seconds to game ticks.
func SecsToTicks(s float64) int {
	t := int(s * float64(TickRate))
	if t < 1 {
		t = 1
	}
	return t
}

// Level timers and spawn intervals.
const (
	DefaultTimeLimit   = 180 * time.Second
	LargeTimeLimit     = 300 * time.Second
	StarHiddenFor      = 3 * time.Second
	FlakeSpawnInterval = 100 * time.Millisecond
)

// CameraGlide is how long, in seconds, centering the camera takes.
const CameraGlide float32 = 0.5

// Zoom factors applied once per tick while a zoom control is held.
const (
	ZoomInScale  = 0.8
	ZoomOutScale = 1.2
)

// PanStep is how far, in map pixels, one pan command moves the camera.
const PanStep = 8

// DeadCoordinate is where bodies wait before being placed on the map.
const DeadCoordinate = -50
