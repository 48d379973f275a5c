package sequence

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Kind selects which sibling set a resolution targets.
type Kind string

const (
	KindRaw    Kind = "raw"    // original scans, any image extension
	KindScaled Kind = "scaled" // rescaler output, marked stem
	KindPDF    Kind = "pdf"    // partial documents for merging
)

// ScaledMarker is appended to a page's stem by the rescale stage.
const ScaledMarker = "_small"

// ScaledExt is the extension the rescale stage writes.
const ScaledExt = ".jpg"

// Token orders pages within a sequence. Major is the page number; the
// optional minor part places inserted pages, so 7,5 sorts between 7 and 8.
type Token struct {
	Major int
	Minor int
}

// Compare orders two tokens by major then minor, both ascending. It returns
// a negative value when a sorts before b, zero when equal, positive
// otherwise.
func Compare(a, b Token) int {
	if a.Major != b.Major {
		if a.Major < b.Major {
			return -1
		}
		return 1
	}
	if a.Minor != b.Minor {
		if a.Minor < b.Minor {
			return -1
		}
		return 1
	}
	return 0
}

// Extract returns the ordering token of name once prefix is factored out:
// the first run of digits, with an optional minor part joined by a comma or
// period directly between digit runs. The extension never starts a minor
// part because digits must follow the separator immediately.
func Extract(name, prefix string) (Token, error) {
	rest := strings.TrimPrefix(name, prefix)

	i := 0
	for i < len(rest) && !isDigit(rest[i]) {
		i++
	}
	if i == len(rest) {
		return Token{}, &TokenNotFoundError{Name: name}
	}
	j := i
	for j < len(rest) && isDigit(rest[j]) {
		j++
	}
	major, err := strconv.Atoi(rest[i:j])
	if err != nil {
		return Token{}, &TokenNotFoundError{Name: name}
	}

	tok := Token{Major: major}
	if j+1 < len(rest) && (rest[j] == ',' || rest[j] == '.') && isDigit(rest[j+1]) {
		k := j + 1
		for k < len(rest) && isDigit(rest[k]) {
			k++
		}
		if minor, err := strconv.Atoi(rest[j+1 : k]); err == nil {
			tok.Minor = minor
		}
	}

	if tok.Major == 0 {
		return Token{}, &ZeroTokenError{Name: name}
	}
	return tok, nil
}

// ScaledName returns the filename the rescale stage writes for a raw page.
// Already marked names pass through unchanged.
func ScaledName(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if strings.HasSuffix(stem, ScaledMarker) {
		return name
	}
	return stem + ScaledMarker + ScaledExt
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
