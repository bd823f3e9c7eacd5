package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"worms-world/internal/maps"
	"worms-world/internal/server"
)

const (
	defaultAddr     = ":2222"
	hostKeyPath     = "host_key"
	shutdownTimeout = 5 * time.Second
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	levelsDir := flag.String("levels", "assets/levels", "directory of level images")
	defaultLevel := flag.String("level", "", "level played when the session names none (default: first loaded)")
	flag.Parse()

	// Generate host key if it doesn't exist
	if err := ensureHostKey(hostKeyPath); err != nil {
		log.Fatalf("Host key error: %v", err)
	}

	// Load all levels from directory
	levels, err := maps.LoadLevels(*levelsDir)
	if err != nil {
		log.Printf("Could not load levels from %s: %v, using the default arena", *levelsDir, err)
		dm := maps.DefaultMap()
		levels = map[string]*maps.Map{dm.Name: dm}
	}
	for name, m := range levels {
		counts := m.Counts()
		log.Printf("Level loaded: %s (%dx%d, %d star spawns)", name, m.Width, m.Height, counts[maps.Special])
	}

	listenAddr := defaultAddr
	if port := os.Getenv("PORT"); port != "" {
		listenAddr = ":" + port
	}
	if *defaultLevel == "" {
		*defaultLevel = firstLevel(levels)
	} else if _, ok := levels[*defaultLevel]; !ok {
		log.Fatalf("Default level %q not loaded", *defaultLevel)
	}
	sshServer := server.NewSSHServer(listenAddr, hostKeyPath, levels, *defaultLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(sshServer.Start)
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return sshServer.Shutdown(shutdownCtx)
	})

	log.Printf("Starting Worms World, connect with: ssh -t -p %s localhost [level]", listenAddr[1:])
	if err := g.Wait(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Fatalf("SSH server error: %v", err)
	}
}

// firstLevel returns the alphabetically first level name.
func firstLevel(levels map[string]*maps.Map) string {
	names := make([]string, 0, len(levels))
	for name := range levels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0]
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	log.Println("Generating new host key...")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, &pem.Block{Type: "PRIVATE KEY", Bytes: keyBytes})
}
