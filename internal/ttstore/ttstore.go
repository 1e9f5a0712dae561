// Package ttstore persists a transposition table, tagged with its capacity
// and win length, to disk between process restarts, the way the reference
// backend's
// tt_persistence.go keeps its AI caches warm across redeploys.
package ttstore

import (
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nndbnb/unbounded-gomoku/internal/engine"
)

// dockerCacheDir mirrors the reference backend's convention of preferring
// a mounted cache volume when one is present, falling back to the path as
// given otherwise.
var dockerCacheDir = "/cache_logs"

type snapshot struct {
	Capacity  int
	WinLength int
	Entries   []engine.Entry
}

// Save writes tt's occupied entries to path, tagged with winLength so a
// later Load can refuse to restore into an incompatible table. Creates
// parent directories as needed.
func Save(path string, winLength int, tt *engine.TranspositionTable) error {
	resolved := resolvePath(path)
	dir := filepath.Dir(resolved)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ttstore: create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(resolved)
	if err != nil {
		return fmt.Errorf("ttstore: create %s: %w", resolved, err)
	}
	defer file.Close()

	entries := tt.Snapshot()
	snap := snapshot{Capacity: tt.Capacity(), WinLength: winLength, Entries: entries}
	if err := gob.NewEncoder(file).Encode(&snap); err != nil {
		return fmt.Errorf("ttstore: encode %s: %w", resolved, err)
	}
	log.Printf("[ttstore] saved %s (%d entries)", resolved, len(entries))
	return nil
}

// Load restores entries from path into tt, refusing the snapshot if its
// capacity or win length doesn't match the live table. Returns the number
// of entries restored; a missing file is not an error.
func Load(path string, winLength int, tt *engine.TranspositionTable) (int, error) {
	resolved := resolvePath(path)
	file, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[ttstore] no snapshot at %s", resolved)
			return 0, nil
		}
		return 0, fmt.Errorf("ttstore: open %s: %w", resolved, err)
	}
	defer file.Close()

	var snap snapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return 0, fmt.Errorf("ttstore: decode %s: %w", resolved, err)
	}

	if snap.Capacity != tt.Capacity() || snap.WinLength != winLength {
		log.Printf("[ttstore] snapshot (%d/%d) does not match live table (%d/%d); skipping",
			snap.Capacity, snap.WinLength, tt.Capacity(), winLength)
		return 0, nil
	}

	tt.Restore(snap.Entries)
	log.Printf("[ttstore] restored %s (%d entries)", resolved, len(snap.Entries))
	return len(snap.Entries), nil
}

func resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if stat, err := os.Stat(dockerCacheDir); err == nil && stat.IsDir() {
		return filepath.Join(dockerCacheDir, path)
	}
	return path
}
