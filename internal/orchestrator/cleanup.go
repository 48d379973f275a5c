package orchestrator

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/scanbind/internal/compiler"
)

// StaleWorkDirAge is how old an abandoned compile directory must be before
// the sweep at startup removes it.
const StaleWorkDirAge = time.Hour

// cleanupRun removes the intermediate artifacts of a finished run unless the
// caller asked to keep them, then sweeps all compile work directories.
func (o *Orchestrator) cleanupRun(opts Options, docs ...string) {
	if opts.KeepTemps {
		log.Debug().Msg("keeping intermediate artifacts")
		return
	}
	for _, d := range docs {
		if d == "" {
			continue
		}
		if err := os.Remove(filepath.Join(o.dir, d)); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("file", d).Msg("cleanup failed")
		}
	}
	CleanupWorkDirs(o.dir, 0)
}

// CleanupWorkDirs removes compiler work directories under dir older than
// maxAge. Zero sweeps everything, including the current run's directories.
func CleanupWorkDirs(dir string, maxAge time.Duration) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	now := time.Now()
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), compiler.WorkDirPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			log.Warn().Err(err).Str("dir", e.Name()).Msg("work dir cleanup failed")
		} else {
			log.Debug().Str("dir", e.Name()).Msg("removed compile work dir")
		}
	}
}
