package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"

	"github.com/local/scanbind/internal/archive"
	"github.com/local/scanbind/internal/compiler"
	"github.com/local/scanbind/internal/config"
	"github.com/local/scanbind/internal/filetype"
	"github.com/local/scanbind/internal/preview"
	"github.com/local/scanbind/internal/rename"
	"github.com/local/scanbind/internal/rescale"
)

// Stages selects which parts of the pipeline run. All false means all run.
type Stages struct {
	Rescale bool
	Build   bool
	Compile bool
}

func (s Stages) none() bool { return !s.Rescale && !s.Build && !s.Compile }

// Options control one run.
type Options struct {
	Stages    Stages
	Landscape bool
	Reverse   bool
	Direct    bool
	Preview   bool
	KeepTemps bool
}

// MissingInputFileError reports an argument absent on disk. Inputs are
// checked eagerly, before any stage mutates anything.
type MissingInputFileError struct {
	Name string
}

func (e *MissingInputFileError) Error() string {
	return fmt.Sprintf("input file %q not found", e.Name)
}

// MixedInputError reports arguments that classify into different pipelines.
type MixedInputError struct {
	First  string
	Second string
}

func (e *MixedInputError) Error() string {
	return fmt.Sprintf("mixed inputs: %q and %q cannot share a run", e.First, e.Second)
}

// Orchestrator sequences the resolve, rename, describe and compile stages of
// one batch invocation. Stages run strictly one after another.
type Orchestrator struct {
	cfg      config.Config
	dir      string
	detector *filetype.Detector
	rescaler *rescale.Rescaler
	compiler *compiler.Compiler
}

// New wires an orchestrator from configuration.
func New(cfg config.Config) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		detector: filetype.New(),
		rescaler: rescale.New(cfg.Tools.RescalerBin, cfg.Rescale),
		compiler: compiler.New(cfg.Tools.CompilerBin),
	}
}

// Run validates the arguments and executes the pipeline their class selects.
// Arguments may carry a directory component; the run is anchored in the
// first argument's directory and every argument must live in it.
func (o *Orchestrator) Run(ctx context.Context, args []string, opts Options) error {
	if len(args) == 0 {
		return fmt.Errorf("no input files given")
	}
	if opts.Stages.none() {
		opts.Stages = Stages{Rescale: true, Build: true, Compile: true}
	}
	if opts.Landscape && opts.Reverse {
		return fmt.Errorf("choose one of landscape or reverse-landscape")
	}

	o.dir = filepath.Dir(args[0])
	names := make([]string, len(args))
	for i, a := range args {
		if filepath.Dir(a) != o.dir {
			return fmt.Errorf("inputs span multiple directories: %q and %q", args[0], a)
		}
		names[i] = filepath.Base(a)
	}

	// Every input must exist and classify before anything is touched.
	var class filetype.Class
	for i, name := range names {
		path := filepath.Join(o.dir, name)
		if _, err := os.Stat(path); err != nil {
			return &MissingInputFileError{Name: name}
		}
		c, err := o.detector.Detect(path)
		if err != nil {
			return err
		}
		if c == filetype.ClassUnknown {
			return fmt.Errorf("unsupported input %q", name)
		}
		if i == 0 {
			class = c
		} else if c != class {
			return &MixedInputError{First: names[0], Second: name}
		}
	}

	// Compile dirs abandoned by a crashed run would confuse this one.
	CleanupWorkDirs(o.dir, StaleWorkDirAge)

	var (
		final string
		err   error
	)
	switch class {
	case filetype.ClassImage:
		if len(names) > 1 {
			return fmt.Errorf("image runs take one representative file, got %d", len(names))
		}
		if opts.Landscape || opts.Reverse {
			log.Warn().Msg("landscape flags apply to pdf merges only, ignoring")
		}
		final, err = o.runImages(ctx, names[0], opts)
	case filetype.ClassPDF:
		final, err = o.runMerge(ctx, names, opts)
	}
	if err != nil {
		return err
	}
	if final == "" {
		// Selected stages stopped before producing a document.
		return nil
	}
	return o.finish(ctx, final, opts)
}

// finish logs the result and runs the post-build extras.
func (o *Orchestrator) finish(ctx context.Context, final string, opts Options) error {
	path := filepath.Join(o.dir, final)
	if n, err := api.PageCountFile(path); err == nil {
		log.Info().Str("output", final).Int("pages", n).Msg("document assembled")
	} else {
		log.Info().Str("output", final).Msg("document assembled")
		log.Debug().Err(err).Msg("page count unavailable")
	}

	if opts.Preview {
		img, err := preview.RenderFirstPage(path, o.cfg.Preview)
		if err != nil {
			log.Warn().Err(err).Msg("preview render failed")
		} else {
			log.Info().Str("preview", filepath.Base(img)).Msg("preview written")
		}
	}

	if o.cfg.Archive.Bucket != "" {
		url, err := archive.Store(ctx, o.cfg.Archive, path)
		if err != nil {
			return fmt.Errorf("archive upload: %w", err)
		}
		log.Info().Str("url", url).Msg("document archived")
	}
	return nil
}

// surfaceApplied reports renames deliberately left on disk after a tool
// failure, so the directory can be inspected exactly as the tool saw it.
func (o *Orchestrator) surfaceApplied(applied rename.Mapping) {
	if len(applied) == 0 {
		return
	}
	for _, p := range applied {
		log.Error().Str("current", p.Safe).Str("original", p.Original).Msg("file left under tool-safe name")
	}
	log.Error().
		Int("count", len(applied)).
		Msg("renames left in place after tool failure, restore the names before the next run")
}

// outputBase trims the trailing separator off a prefix so artifacts read
// naturally: page_0001.png assembles into page.pdf.
func outputBase(prefix string) string {
	base := strings.TrimRight(prefix, "._- ")
	if base == "" {
		base = "assembled"
	}
	return base
}
