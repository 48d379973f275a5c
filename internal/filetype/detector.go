package filetype

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

// Class is the coarse input category that selects a pipeline.
type Class string

const (
	ClassImage   Class = "image"
	ClassPDF     Class = "pdf"
	ClassUnknown Class = "unknown"
)

// Detector classifies input files by magic bytes, falling back to the
// extension when the content is inconclusive.
type Detector struct{}

// New creates a detector.
func New() *Detector {
	return &Detector{}
}

// Detect returns the pipeline class for path.
func (d *Detector) Detect(path string) (Class, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return ClassUnknown, fmt.Errorf("detect file type of %q: %w", filepath.Base(path), err)
	}
	log.Debug().Str("file", filepath.Base(path)).Str("mime", mtype.String()).Msg("detected file type")

	switch {
	case mtype.Is("application/pdf"):
		return ClassPDF, nil
	case strings.HasPrefix(mtype.String(), "image/"):
		return ClassImage, nil
	}

	// Scans arrive from odd sources with sparse headers; trust the
	// extension when magic bytes settle nothing.
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ClassPDF, nil
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".gif", ".webp":
		return ClassImage, nil
	}
	return ClassUnknown, nil
}
