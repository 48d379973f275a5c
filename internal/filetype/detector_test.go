package filetype

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

var (
	pngHeader  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
)

func TestDetectByMagicBytes(t *testing.T) {
	d := New()

	class, err := d.Detect(writeFixture(t, "scan", pngHeader))
	require.NoError(t, err)
	assert.Equal(t, ClassImage, class)

	class, err = d.Detect(writeFixture(t, "photo", jpegHeader))
	require.NoError(t, err)
	assert.Equal(t, ClassImage, class)

	class, err = d.Detect(writeFixture(t, "doc", []byte("%PDF-1.4\nfixture\n")))
	require.NoError(t, err)
	assert.Equal(t, ClassPDF, class)
}

func TestDetectFallsBackToExtension(t *testing.T) {
	d := New()

	// Content settles nothing, the extension decides.
	class, err := d.Detect(writeFixture(t, "odd.pdf", []byte("not really a pdf")))
	require.NoError(t, err)
	assert.Equal(t, ClassPDF, class)

	class, err = d.Detect(writeFixture(t, "odd.tif", []byte("not really an image")))
	require.NoError(t, err)
	assert.Equal(t, ClassImage, class)
}

func TestDetectUnknown(t *testing.T) {
	class, err := New().Detect(writeFixture(t, "notes.txt", []byte("plain text")))
	require.NoError(t, err)
	assert.Equal(t, ClassUnknown, class)
}

func TestDetectMissingFile(t *testing.T) {
	_, err := New().Detect(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
}
