package rescale

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/scanbind/internal/config"
	"github.com/local/scanbind/internal/sequence"
)

// Rescaler drives the external image tool that crops and resamples raw scans
// to the fixed page geometry.
type Rescaler struct {
	bin  string
	geom config.RescaleConfig
}

// New picks the configured binary, or the first ImageMagick entrypoint found
// on PATH when none is configured.
func New(bin string, geom config.RescaleConfig) *Rescaler {
	if bin == "" {
		bin = "magick"
		if _, err := exec.LookPath(bin); err != nil {
			bin = "convert"
		}
	}
	return &Rescaler{bin: bin, geom: geom}
}

// Bin returns the binary the rescaler will invoke.
func (r *Rescaler) Bin() string { return r.bin }

// IsAvailable reports whether the binary is on PATH.
func (r *Rescaler) IsAvailable() bool {
	_, err := exec.LookPath(r.bin)
	return err == nil
}

// Version returns the tool's version line for diagnostics.
func (r *Rescaler) Version() (string, error) {
	out, err := exec.Command(r.bin, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("%s not available: %w", r.bin, err)
	}
	return strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0]), nil
}

// Rescale converts one raw page into its processed sibling and returns the
// new filename. The image is resized to fill the target geometry and cropped
// from the top, then written as JPEG at the configured density and quality.
func (r *Rescaler) Rescale(ctx context.Context, dir, name string) (string, error) {
	dst := sequence.ScaledName(name)
	args := r.buildArgs(name, dst)

	log.Debug().Str("cmd", r.bin+" "+strings.Join(args, " ")).Msg("rescale command")
	start := time.Now()

	cmd := exec.CommandContext(ctx, r.bin, args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("rescale %q: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	if _, err := os.Stat(filepath.Join(dir, dst)); err != nil {
		return "", fmt.Errorf("rescale %q: output %q was not created", name, dst)
	}

	log.Info().
		Str("file", name).
		Str("output", dst).
		Dur("duration", time.Since(start)).
		Msg("rescaled page")
	return dst, nil
}

func (r *Rescaler) buildArgs(src, dst string) []string {
	size := fmt.Sprintf("%dx%d", r.geom.Width, r.geom.Height)
	return []string{
		src,
		"-resize", size + "^",
		"-gravity", r.geom.Gravity,
		"-extent", size,
		"-units", "PixelsPerInch",
		"-density", strconv.Itoa(r.geom.Density),
		"-quality", strconv.Itoa(r.geom.Quality),
		dst,
	}
}
