package sequence

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Page is one resolved member of a sequence. Derived fields are computed at
// resolution time and never re-parsed downstream.
type Page struct {
	Name   string
	Prefix string
	Token  Token
	Kind   Kind
}

// Sequence is an ordered set of sibling pages sharing one prefix.
type Sequence struct {
	Prefix   string
	Kind     Kind
	Pages    []Page
	Explicit bool // caller supplied the full list, order untouched
}

// Names returns the member filenames in sequence order.
func (s *Sequence) Names() []string {
	names := make([]string, len(s.Pages))
	for i, p := range s.Pages {
		names[i] = p.Name
	}
	return names
}

var (
	imageTailRe = regexp.MustCompile(`[0-9]+([.,][0-9]+)?$`)
	pdfTailRe   = regexp.MustCompile(`([._ -][A-Za-z]{1,8})?[._ -]?[0-9]+([.,][0-9]+)?$`)
)

// DerivePrefix strips extension, processed marker and trailing token from a
// representative filename. Image kinds keep the separator before the token
// (page_0001.png yields "page_"); the pdf kind also drops a short alphabetic
// marker segment, so My_file.CH.1.pdf yields "My_file".
func DerivePrefix(name string, kind Kind) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = strings.TrimSuffix(stem, ScaledMarker)
	if kind == KindPDF {
		return pdfTailRe.ReplaceAllString(stem, "")
	}
	return imageTailRe.ReplaceAllString(stem, "")
}

const imageExtAlt = `\.(?i:png|jpe?g|tiff?|bmp|gif|webp)$`

// memberPattern matches the directory entries belonging to a prefix for one
// kind. The token shape is strict here so unrelated files sharing the prefix
// stay out, and so an already assembled output never matches as a member.
func memberPattern(prefix string, kind Kind) *regexp.Regexp {
	quoted := regexp.QuoteMeta(prefix)
	switch kind {
	case KindScaled:
		return regexp.MustCompile(`^` + quoted + `[0-9]+([.,][0-9]+)?` + regexp.QuoteMeta(ScaledMarker) + imageExtAlt)
	case KindPDF:
		return regexp.MustCompile(`^` + quoted + `([._ -][A-Za-z]{1,8})?[._ -]?[0-9]+([.,][0-9]+)?\.(?i:pdf)$`)
	default:
		return regexp.MustCompile(`^` + quoted + `[0-9]+([.,][0-9]+)?` + imageExtAlt)
	}
}

// Resolver discovers the sibling files of a representative inside one
// directory.
type Resolver struct {
	dir string
}

// NewResolver returns a resolver scoped to dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{dir: dir}
}

// Resolve expands names into the full ordered sequence for the given kind.
// Image kinds take exactly one representative and keep lexicographic
// directory order. The pdf kind globs siblings of a single representative
// and orders them by token; a multi-name list is taken verbatim, in the
// order given.
func (r *Resolver) Resolve(names []string, kind Kind) (*Sequence, error) {
	if len(names) == 0 {
		return nil, &EmptyError{Kind: kind}
	}
	if kind == KindPDF && len(names) > 1 {
		return explicitSequence(names), nil
	}
	if kind != KindPDF && len(names) > 1 {
		return nil, fmt.Errorf("%s resolution takes one representative, got %d names", kind, len(names))
	}

	rep := filepath.Base(names[0])
	prefix := DerivePrefix(rep, kind)
	pages, err := r.collect(prefix, kind)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, &EmptyError{Prefix: prefix, Kind: kind}
	}

	if kind == KindPDF {
		sort.SliceStable(pages, func(i, j int) bool {
			return Compare(pages[i].Token, pages[j].Token) < 0
		})
	}

	for i := 1; i < len(pages); i++ {
		if Compare(pages[i-1].Token, pages[i].Token) >= 0 {
			return nil, &OrderError{Prev: pages[i-1].Name, Next: pages[i].Name}
		}
	}

	expected := rep
	if kind == KindScaled {
		expected = ScaledName(rep)
	}
	if pages[0].Name != expected {
		return nil, &MismatchError{Expected: expected, Actual: pages[0].Name}
	}

	log.Debug().
		Str("prefix", prefix).
		Str("kind", string(kind)).
		Int("pages", len(pages)).
		Msg("resolved sequence")

	return &Sequence{Prefix: prefix, Kind: kind, Pages: pages}, nil
}

// collect scans the directory for members of prefix. Entries come back in
// lexicographic name order, which is the ordering contract for image kinds.
func (r *Resolver) collect(prefix string, kind Kind) ([]Page, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", r.dir, err)
	}
	pattern := memberPattern(prefix, kind)

	var pages []Page
	for _, e := range entries {
		if e.IsDir() || !pattern.MatchString(e.Name()) {
			continue
		}
		tok, err := Extract(e.Name(), prefix)
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{Name: e.Name(), Prefix: prefix, Token: tok, Kind: kind})
	}
	return pages, nil
}

// explicitSequence wraps a caller-supplied file list without reordering or
// validation beyond what the orchestrator already did. The prefix is the
// first name's stem; output names derive from it.
func explicitSequence(names []string) *Sequence {
	pages := make([]Page, len(names))
	for i, n := range names {
		base := filepath.Base(n)
		pages[i] = Page{Name: base, Kind: KindPDF}
	}
	first := pages[0].Name
	return &Sequence{
		Prefix:   strings.TrimSuffix(first, filepath.Ext(first)),
		Kind:     KindPDF,
		Pages:    pages,
		Explicit: true,
	}
}
