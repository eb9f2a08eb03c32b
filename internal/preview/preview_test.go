package preview

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestPageSizePx(t *testing.T) {
	c := qt.New(t)

	// US Letter: 612x792 points.
	w, h := pageSizePx(612, 792)
	c.Assert(w, qt.Equals, 640)
	c.Assert(h, qt.Equals, 828)

	// A degenerate MediaBox falls back to Letter.
	w, h = pageSizePx(0, 0)
	c.Assert(w, qt.Equals, 640)
	c.Assert(h, qt.Equals, 828)

	// Landscape keeps aspect ratio.
	w, h = pageSizePx(792, 612)
	c.Assert(w, qt.Equals, 640)
	c.Assert(h < w, qt.IsTrue)
}

func TestRenderTextPageProducesCanvas(t *testing.T) {
	c := qt.New(t)

	img := renderTextPage("Jane Doe\nBackend Engineer", 640, 828)
	c.Assert(img.Bounds().Dx(), qt.Equals, 640)
	c.Assert(img.Bounds().Dy(), qt.Equals, 828)

	var buf bytes.Buffer
	c.Assert(png.Encode(&buf, img), qt.IsNil)
	decoded, err := png.Decode(&buf)
	c.Assert(err, qt.IsNil)
	c.Assert(decoded.Bounds().Dx(), qt.Equals, 640)
}

func TestWrapText(t *testing.T) {
	c := qt.New(t)

	lines := wrapText("one two three four five", 9)
	c.Assert(lines, qt.DeepEquals, []string{"one two", "three", "four five"})

	// Words longer than the limit are hard-broken.
	lines = wrapText("abcdefghij", 4)
	c.Assert(lines, qt.DeepEquals, []string{"abcd", "efgh", "ij"})

	// Blank lines disappear.
	c.Assert(wrapText("\n\n  \n", 10), qt.HasLen, 0)

	for _, line := range wrapText(strings.Repeat("word ", 50), 20) {
		c.Assert(len(line) <= 20, qt.IsTrue)
	}
}

func TestGenerateRejectsGarbage(t *testing.T) {
	c := qt.New(t)

	g := &Generator{attempts: 2, delay: 0}
	_, err := g.Generate(context.Background(), []byte("not a pdf"))
	c.Assert(err, qt.IsNotNil)
}
