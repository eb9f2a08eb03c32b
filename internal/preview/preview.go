// Package preview turns the first page of an uploaded PDF into a PNG
// thumbnail and extracts the document text for analysis.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/resumely/backend/internal/retry"
	"github.com/wudi/pdfkit/extractor"
	"github.com/wudi/pdfkit/ir"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrNoPages is returned for PDFs with an empty page tree.
var ErrNoPages = errors.New("pdf has no pages")

const (
	previewWidth = 640
	marginPx     = 24
	lineHeightPx = 16
)

// Result carries everything the upload pipeline needs from one parse pass.
type Result struct {
	PNG       []byte
	Text      string
	PageCount int
	Width     int
	Height    int
}

type Generator struct {
	attempts int
	delay    time.Duration
}

func NewGenerator() *Generator {
	return &Generator{attempts: retry.DefaultAttempts, delay: retry.DefaultDelay}
}

// Generate parses the PDF (retry-wrapped, parsers trip over partially
// flushed uploads) and renders a text proof of the first page at the page's
// aspect ratio.
func (g *Generator) Generate(ctx context.Context, pdf []byte) (*Result, error) {
	var result *Result
	err := retry.Do(ctx, g.attempts, g.delay, func(ctx context.Context) error {
		r, err := parse(ctx, pdf)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generate preview: %w", err)
	}
	return result, nil
}

func parse(ctx context.Context, pdf []byte) (*Result, error) {
	pipe := ir.NewDefault()
	doc, err := pipe.Parse(ctx, bytes.NewReader(pdf))
	if err != nil {
		return nil, err
	}
	if len(doc.Pages) == 0 {
		return nil, retry.Permanent(ErrNoPages)
	}

	var pageText, fullText string
	if dec := doc.Decoded(); dec != nil {
		if ext, err := extractor.New(dec); err == nil {
			if pages, err := ext.ExtractText(); err == nil {
				var all strings.Builder
				for _, p := range pages {
					if p.Page == 0 {
						pageText = p.Content
					}
					all.WriteString(p.Content)
					all.WriteString("\n")
				}
				fullText = strings.TrimSpace(all.String())
			}
		}
	}

	box := doc.Pages[0].MediaBox
	width, height := pageSizePx(box.URX-box.LLX, box.URY-box.LLY)

	img := renderTextPage(pageText, width, height)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, retry.Permanent(err)
	}

	return &Result{
		PNG:       buf.Bytes(),
		Text:      fullText,
		PageCount: len(doc.Pages),
		Width:     width,
		Height:    height,
	}, nil
}

// pageSizePx scales the page's point dimensions to the preview width,
// preserving aspect ratio. Degenerate boxes fall back to US Letter.
func pageSizePx(wPt, hPt float64) (int, int) {
	if wPt <= 0 || hPt <= 0 {
		wPt, hPt = 612, 792
	}
	height := int(float64(previewWidth) * hPt / wPt)
	if height < 1 {
		height = 1
	}
	return previewWidth, height
}

// renderTextPage draws wrapped text onto a white canvas. This is a proof of
// the page content, not a pixel-exact render.
func renderTextPage(text string, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}

	maxChars := (width - 2*marginPx) / face.Advance
	if maxChars < 1 {
		maxChars = 1
	}

	y := marginPx + lineHeightPx
	for _, line := range wrapText(text, maxChars) {
		if y > height-marginPx {
			break
		}
		drawer.Dot = fixed.P(marginPx, y)
		drawer.DrawString(line)
		y += lineHeightPx
	}
	return img
}

// wrapText splits text into lines of at most maxChars characters, breaking
// on word boundaries where possible.
func wrapText(text string, maxChars int) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		current := ""
		for _, word := range strings.Fields(raw) {
			for len(word) > maxChars {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				lines = append(lines, word[:maxChars])
				word = word[maxChars:]
			}
			switch {
			case current == "":
				current = word
			case len(current)+1+len(word) <= maxChars:
				current += " " + word
			default:
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}
