package rename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
)

// Pair maps one original filename to its tool-safe form.
type Pair struct {
	Original string
	Safe     string
}

// Mapping is an ordered set of rename pairs for one run.
type Mapping []Pair

// NewMapping pairs each name with its sanitized form, preserving order.
// Names already free of offending characters map to themselves. The mapping
// must stay invertible, so a safe form colliding with another member is
// rejected rather than guessed around.
func NewMapping(names []string) (Mapping, error) {
	m := make(Mapping, len(names))
	seen := make(map[string]string, len(names))
	for i, n := range names {
		safe := sanitize(n)
		if prev, ok := seen[safe]; ok {
			return nil, fmt.Errorf("rename collision: %q and %q both map to %q", prev, n, safe)
		}
		seen[safe] = n
		m[i] = Pair{Original: n, Safe: safe}
	}
	return m, nil
}

// Sanitize rewrites names into forms the external toolchain accepts. Periods
// outside the final extension, commas and whitespace are encoded through an
// underscore escape; everything else passes through unchanged.
func Sanitize(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = sanitize(n)
	}
	return out
}

func sanitize(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	safe := encode(stem)
	if ext != "" {
		safe += "." + encode(ext[1:])
	}
	return safe
}

func encode(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '.':
			b.WriteString("_d")
		case r == ',':
			b.WriteString("_c")
		case r == ' ':
			b.WriteString("_s")
		case unicode.IsSpace(r):
			fmt.Fprintf(&b, "_u%04x", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SafeNames returns the mapping's safe side in order.
func (m Mapping) SafeNames() []string {
	names := make([]string, len(m))
	for i, p := range m {
		names[i] = p.Safe
	}
	return names
}

// NeedsApply reports whether any pair changes its filename at all.
func (m Mapping) NeedsApply() bool {
	for _, p := range m {
		if p.Original != p.Safe {
			return true
		}
	}
	return false
}

// Apply renames originals to their safe forms inside dir, in order, skipping
// pairs that are already safe. It returns the pairs actually renamed; on
// error that prefix is exactly what must be undone.
func (m Mapping) Apply(dir string) (Mapping, error) {
	applied := Mapping{}
	for _, p := range m {
		if p.Original == p.Safe {
			continue
		}
		if err := os.Rename(filepath.Join(dir, p.Original), filepath.Join(dir, p.Safe)); err != nil {
			return applied, fmt.Errorf("rename %q to %q: %w", p.Original, p.Safe, err)
		}
		applied = append(applied, p)
		log.Debug().Str("from", p.Original).Str("to", p.Safe).Msg("renamed for toolchain")
	}
	return applied, nil
}

// Revert renames safe forms back to their originals in reverse order. It
// keeps going past individual failures and returns them joined, so one stuck
// file does not strand the rest.
func (m Mapping) Revert(dir string) error {
	var errs []error
	for i := len(m) - 1; i >= 0; i-- {
		p := m[i]
		if p.Original == p.Safe {
			continue
		}
		if err := os.Rename(filepath.Join(dir, p.Safe), filepath.Join(dir, p.Original)); err != nil {
			errs = append(errs, fmt.Errorf("restore %q to %q: %w", p.Safe, p.Original, err))
			continue
		}
		log.Debug().Str("from", p.Safe).Str("to", p.Original).Msg("restored original name")
	}
	return errors.Join(errs...)
}
