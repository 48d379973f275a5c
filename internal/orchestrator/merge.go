package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/local/scanbind/internal/rename"
	"github.com/local/scanbind/internal/sequence"
	"github.com/local/scanbind/internal/texdoc"
)

// runMerge drives the partial-document pipeline: resolve the pdf siblings,
// describe the merge and compile it, or hand the set to the direct engine.
func (o *Orchestrator) runMerge(ctx context.Context, names []string, opts Options) (string, error) {
	if opts.Stages.Rescale && !opts.Stages.Build && !opts.Stages.Compile {
		return "", fmt.Errorf("the rescale stage does not apply to pdf inputs")
	}

	seq, err := sequence.NewResolver(o.dir).Resolve(names, sequence.KindPDF)
	if err != nil {
		return "", err
	}

	// Glob resolutions name the output after the shared prefix, explicit
	// lists after the first argument.
	base := seq.Prefix
	if !seq.Explicit {
		base = outputBase(seq.Prefix)
	}

	angle := 0
	switch {
	case opts.Landscape:
		angle = o.cfg.Rotate.Landscape
	case opts.Reverse:
		angle = o.cfg.Rotate.Reverse
	}

	mapping, err := rename.NewMapping(seq.Names())
	if err != nil {
		return "", err
	}
	doc := texdoc.MergeName(base)

	if opts.Stages.Build {
		if _, err := texdoc.WriteMerge(o.dir, base, mapping.SafeNames(), angle); err != nil {
			return "", err
		}
		log.Info().Str("doc", doc).Int("inputs", len(seq.Pages)).Msg("build stage done")
	} else if !opts.Direct {
		if _, err := os.Stat(filepath.Join(o.dir, doc)); err != nil {
			return "", fmt.Errorf("description %q not found: run the build stage first", doc)
		}
	}

	if !opts.Stages.Compile {
		return "", nil
	}

	final := base + ".pdf"
	if opts.Direct {
		if mapping.NeedsApply() {
			log.Debug().Msg("direct engine accepts any filename, rename protocol skipped")
		}
		if err := o.validateInputs(seq.Names()); err != nil {
			return "", err
		}
		if err := o.directMerge(seq.Names(), final, angle); err != nil {
			return "", err
		}
		o.cleanupRun(opts, doc)
		return final, nil
	}

	if !o.compiler.IsAvailable() {
		return "", fmt.Errorf("compiler %q not found in PATH", o.compiler.Bin())
	}

	applied, err := mapping.Apply(o.dir)
	if err != nil {
		if rerr := applied.Revert(o.dir); rerr != nil {
			log.Error().Err(rerr).Msg("undo of partial rename failed")
		}
		return "", fmt.Errorf("rename apply: %w", err)
	}

	outPDF, err := o.compiler.Compile(ctx, o.dir, doc)
	if err != nil {
		o.surfaceApplied(applied)
		return "", err
	}

	// In explicit mode the output carries the first input's own name, and the
	// revert below would restore that input right over the compiled document.
	// Park the result until every original name is back.
	parked := outPDF + ".merging"
	if err := os.Rename(filepath.Join(o.dir, outPDF), filepath.Join(o.dir, parked)); err != nil {
		o.surfaceApplied(applied)
		return "", fmt.Errorf("park compiled output: %w", err)
	}

	if err := applied.Revert(o.dir); err != nil {
		return "", fmt.Errorf("rename revert: %w", err)
	}

	if err := os.Rename(filepath.Join(o.dir, parked), filepath.Join(o.dir, outPDF)); err != nil {
		return "", fmt.Errorf("finalize merge output: %w", err)
	}

	o.cleanupRun(opts, doc)
	return outPDF, nil
}
