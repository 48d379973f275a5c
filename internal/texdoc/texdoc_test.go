package texdoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readDoc(t *testing.T, dir, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(b)
}

func TestWriteInnerTitleThenPages(t *testing.T) {
	dir := t.TempDir()
	images := []string{"page_0001_small.jpg", "page_0002_small.jpg"}

	doc, err := WriteInner(dir, "page", images, PageGeometry{WidthIn: 7.81, HeightIn: 10.96})
	require.NoError(t, err)
	assert.Equal(t, "page.tex", doc)

	s := readDoc(t, dir, doc)
	assert.Contains(t, s, "paperwidth=7.81in,paperheight=10.96in")
	assert.Contains(t, s, "\\title{page}")

	title := strings.Index(s, "\\maketitle")
	first := strings.Index(s, "page_0001_small.jpg")
	second := strings.Index(s, "page_0002_small.jpg")
	require.True(t, title >= 0 && first >= 0 && second >= 0)
	assert.Less(t, title, first)
	assert.Less(t, first, second)
}

func TestWriteInnerEscapesTitle(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteInner(dir, "My_file", []string{"My_file1_small.jpg"}, PageGeometry{WidthIn: 7.81, HeightIn: 10.96})
	require.NoError(t, err)

	s := readDoc(t, dir, "My_file.tex")
	assert.Contains(t, s, "\\title{My\\_file}")
	// The filename itself is not typeset and stays untouched.
	assert.Contains(t, s, "{My_file1_small.jpg}")
}

func TestWriteOuterDropsTitlePage(t *testing.T) {
	dir := t.TempDir()
	doc, err := WriteOuter(dir, "page")
	require.NoError(t, err)
	assert.Equal(t, "page_outer.tex", doc)

	s := readDoc(t, dir, doc)
	assert.Contains(t, s, "\\includepdf[pages=2-,fitpaper=true]{page.pdf}")
}

func TestWriteMergeKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	pdfs := []string{"My_file_dCH_d1.pdf", "My_file_dCH_d3.pdf", "My_file_dCH_d20.pdf"}

	doc, err := WriteMerge(dir, "My_file", pdfs, 0)
	require.NoError(t, err)
	assert.Equal(t, "My_file.tex-assembled", doc)

	s := readDoc(t, dir, doc)
	assert.NotContains(t, s, "angle=")
	i1 := strings.Index(s, "{My_file_dCH_d1.pdf}")
	i3 := strings.Index(s, "{My_file_dCH_d3.pdf}")
	i20 := strings.Index(s, "{My_file_dCH_d20.pdf}")
	require.True(t, i1 >= 0 && i3 >= 0 && i20 >= 0)
	assert.Less(t, i1, i3)
	assert.Less(t, i3, i20)
}

func TestWriteMergeLandscapeAngle(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteMerge(dir, "book", []string{"book1.pdf"}, 90)
	require.NoError(t, err)
	assert.Contains(t, readDoc(t, dir, "book.tex-assembled"), "angle=90")

	_, err = WriteMerge(dir, "book", []string{"book1.pdf"}, 270)
	require.NoError(t, err)
	assert.Contains(t, readDoc(t, dir, "book.tex-assembled"), "angle=270")
}

func TestArtifactNames(t *testing.T) {
	assert.Equal(t, "x.tex", InnerName("x"))
	assert.Equal(t, "x_outer.tex", OuterName("x"))
	assert.Equal(t, "x.tex-assembled", MergeName("x"))
}
