package sequence

import "fmt"

// TokenNotFoundError reports a filename carrying no ordering token.
type TokenNotFoundError struct {
	Name string
}

func (e *TokenNotFoundError) Error() string {
	return fmt.Sprintf("no ordering token in %q", e.Name)
}

// ZeroTokenError reports a token whose major part is zero. Pages are
// numbered from 1.
type ZeroTokenError struct {
	Name string
}

func (e *ZeroTokenError) Error() string {
	return fmt.Sprintf("zero ordering token in %q: pages are numbered from 1", e.Name)
}

// MismatchError reports a resolved sequence that does not start with the
// file the caller supplied. Usually the representative was mistyped or the
// directory holds leftovers from another run.
type MismatchError struct {
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("sequence mismatch: expected first member %q, resolved %q", e.Expected, e.Actual)
}

// EmptyError reports a resolution that matched no files.
type EmptyError struct {
	Prefix string
	Kind   Kind
}

func (e *EmptyError) Error() string {
	if e.Kind == KindScaled {
		return fmt.Sprintf("no processed pages found for prefix %q: run the rescale stage first", e.Prefix)
	}
	return fmt.Sprintf("no %s pages found for prefix %q", e.Kind, e.Prefix)
}

// OrderError reports members whose tokens do not strictly increase in
// resolved order: duplicate page numbers, or unpadded ones that sort wrong.
type OrderError struct {
	Prev string
	Next string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("ordering tokens not strictly increasing: %q then %q", e.Prev, e.Next)
}
