package texdoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Artifact naming. The compiler strips the final extension of a description
// to name its output, so MergeName("My_file") compiles to My_file.pdf.
const (
	InnerExt = ".tex"
	OuterTag = "_outer"
	MergeExt = ".tex-assembled"
)

// InnerName returns the picture document filename for a base.
func InnerName(base string) string { return base + InnerExt }

// OuterName returns the wrapper document filename for a base.
func OuterName(base string) string { return base + OuterTag + InnerExt }

// MergeName returns the merge description filename for a base.
func MergeName(base string) string { return base + MergeExt }

// PageGeometry is the physical page size of the picture document, derived
// from the rescaler's pixel geometry and density.
type PageGeometry struct {
	WidthIn  float64
	HeightIn float64
}

// WriteInner writes the picture document for one scanned sequence: a title
// page, then one page per image in the order given. Image names must already
// be tool-safe. Returns the description filename.
func WriteInner(dir, base string, images []string, geom PageGeometry) (string, error) {
	var b strings.Builder
	b.WriteString("\\documentclass{article}\n")
	fmt.Fprintf(&b, "\\usepackage[paperwidth=%.2fin,paperheight=%.2fin,margin=0pt]{geometry}\n", geom.WidthIn, geom.HeightIn)
	b.WriteString("\\usepackage{graphicx}\n")
	b.WriteString("\\pagestyle{empty}\n")
	fmt.Fprintf(&b, "\\title{%s}\n", escape(base))
	b.WriteString("\\author{}\n\\date{}\n")
	b.WriteString("\\begin{document}\n")
	b.WriteString("\\maketitle\n\\thispagestyle{empty}\n\\clearpage\n")
	for _, img := range images {
		fmt.Fprintf(&b, "\\noindent\\includegraphics[width=\\paperwidth,height=\\paperheight,keepaspectratio]{%s}\\clearpage\n", img)
	}
	b.WriteString("\\end{document}\n")

	name := InnerName(base)
	if err := write(dir, name, b.String()); err != nil {
		return "", err
	}
	log.Debug().Str("doc", name).Int("pages", len(images)).Msg("wrote picture document")
	return name, nil
}

// WriteOuter writes the wrapper that keeps pages 2 and onward of the
// compiled picture document, dropping the title page.
func WriteOuter(dir, base string) (string, error) {
	var b strings.Builder
	b.WriteString("\\documentclass{article}\n")
	b.WriteString("\\usepackage{pdfpages}\n")
	b.WriteString("\\pagestyle{empty}\n")
	b.WriteString("\\begin{document}\n")
	fmt.Fprintf(&b, "\\includepdf[pages=2-,fitpaper=true]{%s.pdf}\n", base)
	b.WriteString("\\end{document}\n")

	name := OuterName(base)
	if err := write(dir, name, b.String()); err != nil {
		return "", err
	}
	log.Debug().Str("doc", name).Msg("wrote wrapper document")
	return name, nil
}

// WriteMerge writes the description that stitches finished documents
// together in the order given. A non-zero angle turns every page, for
// landscape originals. Input names must already be tool-safe.
func WriteMerge(dir, base string, pdfs []string, angle int) (string, error) {
	opts := "pages=-,fitpaper=true"
	if angle != 0 {
		opts += fmt.Sprintf(",angle=%d", angle)
	}

	var b strings.Builder
	b.WriteString("\\documentclass{article}\n")
	b.WriteString("\\usepackage{pdfpages}\n")
	b.WriteString("\\pagestyle{empty}\n")
	b.WriteString("\\begin{document}\n")
	for _, p := range pdfs {
		fmt.Fprintf(&b, "\\includepdf[%s]{%s}\n", opts, p)
	}
	b.WriteString("\\end{document}\n")

	name := MergeName(base)
	if err := write(dir, name, b.String()); err != nil {
		return "", err
	}
	log.Debug().Str("doc", name).Int("inputs", len(pdfs)).Int("angle", angle).Msg("wrote merge description")
	return name, nil
}

func write(dir, name, content string) error {
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

var texEscaper = strings.NewReplacer(
	"\\", "\\textbackslash{}",
	"_", "\\_",
	"%", "\\%",
	"&", "\\&",
	"#", "\\#",
	"$", "\\$",
	"{", "\\{",
	"}", "\\}",
	"~", "\\textasciitilde{}",
	"^", "\\textasciicircum{}",
)

// escape makes arbitrary text safe to typeset on the title page.
func escape(s string) string { return texEscaper.Replace(s) }
