package game

import (
	"fmt"
	"strings"
	"time"
)

// Level selects the rules a map is played with.
type Level int

const (
	LevelCustom Level = iota // any map without a level of its own
	LevelShip
	LevelSnowman
	LevelDinosaurs
	LevelDesert
	LevelTycoon
	LevelVolcano
	LevelJapan
)

var levelSlugs = [...]string{
	LevelCustom:    "custom",
	LevelShip:      "ship",
	LevelSnowman:   "snowman",
	LevelDinosaurs: "dinosaurs",
	LevelDesert:    "desert",
	LevelTycoon:    "tycoon",
	LevelVolcano:   "volcano",
	LevelJapan:     "japan",
}

// Levels lists the built-in levels in menu order.
var Levels = []Level{
	LevelShip, LevelSnowman, LevelDinosaurs, LevelDesert, LevelTycoon, LevelVolcano, LevelJapan,
}

// Slug is the level's file name stem, as used by maps.LoadLevel.
func (l Level) Slug() string {
	if l >= 0 && int(l) < len(levelSlugs) {
		return levelSlugs[l]
	}
	return fmt.Sprintf("level(%d)", int(l))
}

func (l Level) String() string {
	return l.Slug()
}

// ParseLevel maps a slug to its level. Unknown slugs are LevelCustom.
func ParseLevel(slug string) Level {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for i, s := range levelSlugs {
		if s == slug {
			return Level(i)
		}
	}
	return LevelCustom
}

// Large levels get more time and more coins.
func (l Level) Large() bool {
	return l == LevelTycoon || l == LevelJapan
}

// Snowy levels have falling flakes in the foreground.
func (l Level) Snowy() bool {
	return l == LevelSnowman
}

// TimeLimit is how long the player has to reach the flag.
func (l Level) TimeLimit() time.Duration {
	if l.Large() {
		return LargeTimeLimit
	}
	return DefaultTimeLimit
}

// coinRange returns the minimum coin count and the size of the random
// range added to it.
func (l Level) coinRange() (least, spread int) {
	if l.Large() {
		return 10, 30
	}
	return 3, 20
}
