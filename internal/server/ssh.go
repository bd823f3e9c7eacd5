// Package server serves games over SSH. Every session plays its own
// round; nothing is shared between sessions except the loaded maps.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gliderlabs/ssh"

	"worms-world/internal/game"
	"worms-world/internal/maps"
	"worms-world/internal/render"
)

// ErrUnknownLevel is returned for a level name that was not loaded.
var ErrUnknownLevel = errors.New("unknown level")

// SSHServer wraps the SSH listener and starts a game per session.
type SSHServer struct {
	addr         string
	hostKey      string
	levels       map[string]*maps.Map
	defaultLevel string

	server *ssh.Server
}

// NewSSHServer creates a new SSH server bound to the given address.
// Sessions play defaultLevel unless they name another level as the SSH
// command, as in "ssh -t -p 2222 host snowman".
func NewSSHServer(addr, hostKey string, levels map[string]*maps.Map, defaultLevel string) *SSHServer {
	s := &SSHServer{
		addr:         addr,
		hostKey:      hostKey,
		levels:       levels,
		defaultLevel: defaultLevel,
	}
	s.server = &ssh.Server{
		Addr:    addr,
		Handler: s.handleSession,
	}
	return s
}

// Start begins listening for SSH connections. It returns nil once
// Shutdown has been called.
func (s *SSHServer) Start() error {
	if err := s.server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	log.Printf("SSH server listening on %s", s.addr)
	err := s.server.ListenAndServe()
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for sessions to end
// until ctx expires.
func (s *SSHServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Levels returns the names of the playable levels, sorted.
func (s *SSHServer) Levels() []string {
	names := make([]string, 0, len(s.levels))
	for name := range s.levels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveLevel picks the level named by the session command, or the
// default level when there is none.
func (s *SSHServer) resolveLevel(args []string) (string, *maps.Map, error) {
	name := s.defaultLevel
	if len(args) > 0 {
		name = strings.ToLower(strings.TrimSpace(args[0]))
	}
	m, ok := s.levels[name]
	if !ok {
		return "", nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownLevel, name, strings.Join(s.Levels(), ", "))
	}
	return name, m, nil
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	// Require PTY
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	name, m, err := s.resolveLevel(sess.Command())
	if err != nil {
		fmt.Fprintf(sess, "Error: %v\n", err)
		return
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	g, err := game.New(m, game.ParseLevel(name), rng)
	if err != nil {
		log.Printf("Could not start %s for %s: %v", name, sess.User(), err)
		fmt.Fprintf(sess, "Error: %v\n", err)
		return
	}
	loop := game.NewLoop(g)
	go loop.Run()

	log.Printf("Player connected: %s playing %s", sess.User(), name)
	defer func() {
		loop.Stop()
		log.Printf("Player disconnected: %s", sess.User())
	}()

	// Terminal dimensions
	termW := ptyReq.Window.Width
	termH := ptyReq.Window.Height
	var termMu sync.Mutex

	engine := render.NewEngine(termW, termH)

	// Setup terminal
	io.WriteString(sess, render.EnterScreen())
	defer io.WriteString(sess, render.LeaveScreen())

	quitCh := make(chan struct{})
	resized := make(chan struct{}, 1)

	// Goroutine: read input
	go func() {
		defer close(quitCh)
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				return
			}
			events, quit := parseInput(buf[:n])
			for _, ev := range events {
				loop.Send(ev)
			}
			if quit {
				return
			}
		}
	}()

	// Goroutine: handle window resizes
	go func() {
		for win := range winCh {
			termMu.Lock()
			termW = win.Width
			termH = win.Height
			termMu.Unlock()
			select {
			case resized <- struct{}{}:
			default:
			}
		}
	}()

	draw := func(snap game.Snapshot) {
		termMu.Lock()
		w, h := termW, termH
		termMu.Unlock()
		if out := engine.Render(snap, w, h); len(out) > 0 {
			io.WriteString(sess, out)
		}
	}

	// Main render loop: read from the frame channel
	frames := loop.Frames()
	var last game.Snapshot
	for {
		select {
		case <-quitCh:
			return
		case <-resized:
			if last.Map != nil {
				draw(last)
			}
		case snap, ok := <-frames:
			if !ok {
				// Round over; keep showing the last frame until the player quits
				frames = nil
				if last.Outcome != game.EventNone {
					log.Printf("Game over for %s on %s: %v, score %d", sess.User(), name, last.Outcome, last.Final)
				}
				continue
			}
			last = snap
			draw(snap)
		}
	}
}

// parseInput converts raw terminal bytes into input events. Terminals
// report no key releases, so held controls arrive as taps.
// Handles WASD, arrow key escape sequences, zoom, pan, Q and Ctrl-C.
func parseInput(data []byte) (events []game.InputEvent, quit bool) {
	tap := func(a game.Action) {
		events = append(events, game.InputEvent{Action: a, Pressed: true, Tap: true})
	}
	press := func(a game.Action) {
		events = append(events, game.InputEvent{Action: a, Pressed: true})
	}

	i := 0
	for i < len(data) {
		// Check for escape sequences (arrow keys)
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			switch data[i+2] {
			case 'A':
				press(game.ActionJump)
			case 'C':
				tap(game.ActionRight)
			case 'D':
				tap(game.ActionLeft)
			}
			i += 3
			continue
		}

		// Single byte inputs
		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case 'a', 'A':
			tap(game.ActionLeft)
		case 'd', 'D':
			tap(game.ActionRight)
		case 'w', 'W', ' ':
			press(game.ActionJump)
		case '+', '=':
			tap(game.ActionZoomIn)
		case '-', '_':
			tap(game.ActionZoomOut)
		case 'i', 'I':
			press(game.ActionPanUp)
		case 'k', 'K':
			press(game.ActionPanDown)
		case 'j', 'J':
			press(game.ActionPanLeft)
		case 'l', 'L':
			press(game.ActionPanRight)
		case 'c', 'C':
			press(game.ActionCenter)
		case 'q', 'Q', 3: // 3 is Ctrl-C
			return events, true
		}
		i += size
	}
	return events, false
}
