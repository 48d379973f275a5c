package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog/log"
)

// pdfConf is the relaxed configuration used throughout: scanner-produced and
// previously assembled documents are often not strictly conformant.
func pdfConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// validateInputs rejects merge inputs the direct engine cannot read, before
// any of them is consumed.
func (o *Orchestrator) validateInputs(names []string) error {
	for _, n := range names {
		if err := api.ValidateFile(filepath.Join(o.dir, n), pdfConf()); err != nil {
			return fmt.Errorf("input %q is not a usable pdf: %w", n, err)
		}
	}
	return nil
}

// directMerge assembles the inputs without the external compiler. The merge
// lands in a temporary file first: the output name may coincide with an
// input, and pdfcpu must never truncate a file it still has to read.
func (o *Orchestrator) directMerge(names []string, final string, angle int) error {
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(o.dir, n)
	}

	tmp := filepath.Join(o.dir, final+".merging")
	if err := api.MergeCreateFile(paths, tmp, false, pdfConf()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("merge: %w", err)
	}
	if angle != 0 {
		if err := api.RotateFile(tmp, "", angle, nil, pdfConf()); err != nil {
			os.Remove(tmp)
			return fmt.Errorf("rotate by %d: %w", angle, err)
		}
	}
	if err := os.Rename(tmp, filepath.Join(o.dir, final)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize merge: %w", err)
	}

	log.Info().
		Int("inputs", len(names)).
		Int("angle", angle).
		Str("output", final).
		Msg("merged without compiler")
	return nil
}

// trimTitlePage drops page 1 in place. The picture document opens with a
// generated title page that is not part of the assembled output.
func trimTitlePage(path string) error {
	if err := api.TrimFile(path, "", []string{"2-"}, pdfConf()); err != nil {
		return fmt.Errorf("trim title page: %w", err)
	}
	return nil
}
