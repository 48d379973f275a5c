package preview

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"

	"github.com/local/scanbind/internal/config"
)

// Suffix is appended to the document's stem to name its preview image.
const Suffix = "_preview.jpg"

// RenderFirstPage renders page 1 of an assembled document to a JPEG next to
// it and returns the image path.
func RenderFirstPage(pdfPath string, cfg config.PreviewConfig) (string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("open pdf for preview: %w", err)
	}
	defer doc.Close()

	img, err := doc.ImageDPI(0, float64(cfg.DPI))
	if err != nil {
		return "", fmt.Errorf("render first page: %w", err)
	}

	var final image.Image = img
	if cfg.Gray {
		bounds := img.Bounds()
		gray := image.NewGray(bounds)
		draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
		final = gray
	}

	out := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + Suffix
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create preview file: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, final, &jpeg.Options{Quality: cfg.Quality}); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}

	log.Debug().
		Str("file", out).
		Int("dpi", cfg.DPI).
		Bool("gray", cfg.Gray).
		Msg("rendered preview")
	return out, nil
}
