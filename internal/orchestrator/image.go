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

// runImages drives the scanned-page pipeline for one representative image:
// rescale the raw sequence, describe the processed one, compile twice and
// keep the wrapper's output, which drops the title page.
func (o *Orchestrator) runImages(ctx context.Context, rep string, opts Options) (string, error) {
	resolver := sequence.NewResolver(o.dir)

	if opts.Stages.Rescale {
		seq, err := resolver.Resolve([]string{rep}, sequence.KindRaw)
		if err != nil {
			return "", err
		}
		if !o.rescaler.IsAvailable() {
			return "", fmt.Errorf("rescaler %q not found in PATH", o.rescaler.Bin())
		}
		for _, p := range seq.Pages {
			if _, err := o.rescaler.Rescale(ctx, o.dir, p.Name); err != nil {
				return "", err
			}
		}
		log.Info().Int("pages", len(seq.Pages)).Str("prefix", seq.Prefix).Msg("rescale stage done")
	}

	if !opts.Stages.Build && !opts.Stages.Compile {
		return "", nil
	}

	seq, err := resolver.Resolve([]string{rep}, sequence.KindScaled)
	if err != nil {
		return "", err
	}
	base := outputBase(seq.Prefix)
	mapping, err := rename.NewMapping(seq.Names())
	if err != nil {
		return "", err
	}

	innerDoc := texdoc.InnerName(base)
	outerDoc := texdoc.OuterName(base)
	if opts.Stages.Build {
		geom := texdoc.PageGeometry{
			WidthIn:  float64(o.cfg.Rescale.Width) / float64(o.cfg.Rescale.Density),
			HeightIn: float64(o.cfg.Rescale.Height) / float64(o.cfg.Rescale.Density),
		}
		if _, err := texdoc.WriteInner(o.dir, base, mapping.SafeNames(), geom); err != nil {
			return "", err
		}
		if _, err := texdoc.WriteOuter(o.dir, base); err != nil {
			return "", err
		}
		log.Info().Str("inner", innerDoc).Str("outer", outerDoc).Int("pages", len(seq.Pages)).Msg("build stage done")
	} else {
		// Descriptions must be left over from an earlier build run.
		docs := []string{innerDoc}
		if !opts.Direct {
			docs = append(docs, outerDoc)
		}
		for _, d := range docs {
			if _, err := os.Stat(filepath.Join(o.dir, d)); err != nil {
				return "", fmt.Errorf("description %q not found: run the build stage first", d)
			}
		}
	}

	if !opts.Stages.Compile {
		return "", nil
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

	innerPDF, err := o.compiler.Compile(ctx, o.dir, innerDoc)
	if err != nil {
		o.surfaceApplied(applied)
		return "", err
	}

	var outerPDF string
	if opts.Direct {
		// Strip the title page in place instead of the wrapper compile.
		if err := trimTitlePage(filepath.Join(o.dir, innerPDF)); err != nil {
			o.surfaceApplied(applied)
			return "", err
		}
	} else {
		if outerPDF, err = o.compiler.Compile(ctx, o.dir, outerDoc); err != nil {
			o.surfaceApplied(applied)
			return "", err
		}
	}

	if err := applied.Revert(o.dir); err != nil {
		return "", fmt.Errorf("rename revert: %w", err)
	}

	if outerPDF != "" {
		if err := os.Rename(filepath.Join(o.dir, outerPDF), filepath.Join(o.dir, innerPDF)); err != nil {
			return "", fmt.Errorf("splice wrapper output: %w", err)
		}
	}

	o.cleanupRun(opts, innerDoc, outerDoc)
	return innerPDF, nil
}
