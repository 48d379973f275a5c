package rename

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeEncodesOffendingCharacters(t *testing.T) {
	in := []string{
		"My file.CH.1.pdf",
		"page_0007,5.png",
		"page_0001_small.jpg",
		"tab\there.pdf",
	}
	want := []string{
		"My_sfile_dCH_d1.pdf",
		"page_0007_c5.png",
		"page_0001_small.jpg",
		"tab_u0009here.pdf",
	}
	assert.Equal(t, want, Sanitize(in))
}

func TestSanitizeKeepsFinalExtension(t *testing.T) {
	got := Sanitize([]string{"a.b.c.pdf"})
	assert.Equal(t, []string{"a_db_dc.pdf"}, got)
	assert.Equal(t, ".pdf", filepath.Ext(got[0]))
}

func TestNewMappingIdentityNeedsNoApply(t *testing.T) {
	m, err := NewMapping([]string{"page_0001_small.jpg", "page_0002_small.jpg"})
	require.NoError(t, err)
	assert.False(t, m.NeedsApply())

	applied, err := m.Apply(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestNewMappingRejectsCollisions(t *testing.T) {
	// "a_db.pdf" is clean and must pass through, but "a.b.pdf" encodes to
	// the same name; that run cannot be inverted.
	_, err := NewMapping([]string{"a_db.pdf", "a.b.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision")
}

func TestSanitizeDistinguishesSimilarNames(t *testing.T) {
	in := []string{"a_b.pdf", "a b.pdf", "a.b.pdf", "a,b.pdf"}
	out := Sanitize(in)
	seen := map[string]bool{}
	for _, s := range out {
		assert.False(t, seen[s], "duplicate safe name %q", s)
		seen[s] = true
	}
	assert.Equal(t, "a_b.pdf", out[0])
}

func TestApplyAndRevertRoundTrip(t *testing.T) {
	dir := t.TempDir()
	names := []string{"My file.CH.1.pdf", "My file.CH.2.pdf", "plain.pdf"}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}

	m, err := NewMapping(names)
	require.NoError(t, err)
	require.True(t, m.NeedsApply())

	applied, err := m.Apply(dir)
	require.NoError(t, err)
	assert.Len(t, applied, 2) // plain.pdf is already safe

	assert.FileExists(t, filepath.Join(dir, "My_sfile_dCH_d1.pdf"))
	assert.NoFileExists(t, filepath.Join(dir, "My file.CH.1.pdf"))
	assert.FileExists(t, filepath.Join(dir, "plain.pdf"))

	require.NoError(t, applied.Revert(dir))
	for _, n := range names {
		assert.FileExists(t, filepath.Join(dir, n))
	}
	assert.NoFileExists(t, filepath.Join(dir, "My_sfile_dCH_d1.pdf"))
}

func TestApplyStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a b.pdf"), []byte("x"), 0o644))
	// "c d.pdf" never exists, so its rename must fail.

	m, err := NewMapping([]string{"a b.pdf", "c d.pdf"})
	require.NoError(t, err)

	applied, err := m.Apply(dir)
	require.Error(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, "a b.pdf", applied[0].Original)

	require.NoError(t, applied.Revert(dir))
	assert.FileExists(t, filepath.Join(dir, "a b.pdf"))
}

func TestRevertKeepsGoingPastFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok_sname.pdf"), []byte("x"), 0o644))

	m := Mapping{
		{Original: "ok name.pdf", Safe: "ok_sname.pdf"},
		{Original: "gone name.pdf", Safe: "gone_sname.pdf"}, // safe form missing
	}
	err := m.Revert(dir)
	require.Error(t, err)
	assert.FileExists(t, filepath.Join(dir, "ok name.pdf"))
}
