package compiler

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WorkDirPrefix names the per-run directories Compile creates for the
// compiler's auxiliary output. The cleanup stage sweeps them by this prefix.
const WorkDirPrefix = "texrun-"

// Compiler drives the external document compiler that turns generated
// descriptions into PDFs.
type Compiler struct {
	bin string
}

// New returns a compiler around bin, defaulting to pdflatex.
func New(bin string) *Compiler {
	if bin == "" {
		bin = "pdflatex"
	}
	return &Compiler{bin: bin}
}

// Bin returns the binary the compiler will invoke.
func (c *Compiler) Bin() string { return c.bin }

// IsAvailable reports whether the binary is on PATH.
func (c *Compiler) IsAvailable() bool {
	_, err := exec.LookPath(c.bin)
	return err == nil
}

// Version returns the tool's version line for diagnostics.
func (c *Compiler) Version() (string, error) {
	out, err := exec.Command(c.bin, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("%s not available: %w", c.bin, err)
	}
	return strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0]), nil
}

// Compile runs the compiler on a description inside dir and moves the
// produced PDF next to it. The compiler names its output after the
// description with the final extension stripped, whatever that extension is.
// Auxiliary files stay behind in a texrun work directory.
func (c *Compiler) Compile(ctx context.Context, dir, doc string) (string, error) {
	jobPDF := strings.TrimSuffix(doc, filepath.Ext(doc)) + ".pdf"
	workDir := WorkDirPrefix + uuid.New().String()
	if err := os.MkdirAll(filepath.Join(dir, workDir), 0o755); err != nil {
		return "", fmt.Errorf("create compile work dir: %w", err)
	}

	args := []string{"-interaction=nonstopmode", "-halt-on-error", "-output-directory", workDir, doc}
	log.Debug().Str("cmd", c.bin+" "+strings.Join(args, " ")).Msg("compile command")
	start := time.Now()

	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("compile %q: %w: %s", doc, err, tail(string(out), 400))
	}

	produced := filepath.Join(dir, workDir, jobPDF)
	if _, err := os.Stat(produced); err != nil {
		return "", fmt.Errorf("compile %q: output %q was not created", doc, jobPDF)
	}
	if err := os.Rename(produced, filepath.Join(dir, jobPDF)); err != nil {
		return "", fmt.Errorf("move compiled output: %w", err)
	}

	log.Info().
		Str("doc", doc).
		Str("output", jobPDF).
		Dur("duration", time.Since(start)).
		Msg("compiled document")
	return jobPDF, nil
}

// tail keeps the end of the tool output; the compiler buries its error there.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
