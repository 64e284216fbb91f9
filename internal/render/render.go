// Package render draws badge icons: a filled circle inscribed in a transparent
// square canvas with a single glyph centered on top.
//
// [Renderer.RenderFile] is the main entry point. The font is resolved once by
// the caller (see the fonts package) and shared read-only across renders; each
// render allocates its own canvas.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"tools.zach/dev/badgeicon/internal/atomicfile"
)

// ///////////////////////////////////////////////
// Defaults
// ///////////////////////////////////////////////

const (
	// DefaultGlyph is the label drawn on the badge.
	DefaultGlyph = "Y"
	// DefaultMargin is the inset of the badge circle from each canvas edge.
	DefaultMargin = 1
	// DefaultVerticalBias shifts the glyph up by this many pixels.
	DefaultVerticalBias = 1
	// DefaultFontScale is the font size in points relative to the canvas size.
	DefaultFontScale = 0.6
	// DPI is the resolution used to convert points to pixels (1pt = 1px).
	DPI = 72
)

var (
	// DefaultBadgeColor is #1A73E8.
	DefaultBadgeColor = color.NRGBA{R: 0x1A, G: 0x73, B: 0xE8, A: 0xFF}
	// DefaultGlyphColor is white.
	DefaultGlyphColor = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// circleKappa is the control point distance for a cubic Bézier quarter circle.
const circleKappa = 0.5522847498

// ///////////////////////////////////////////////
// Errors
// ///////////////////////////////////////////////

var (
	// ErrInvalidSize is returned for a size that is zero or negative.
	ErrInvalidSize = errors.New("icon size must be a positive integer")
	// ErrUnsupportedFormat is returned when the output extension has no encoder.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// WriteError reports that an encoded icon could not be written to Path.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return "write " + e.Path + ": " + e.Err.Error() }

func (e *WriteError) Unwrap() error { return e.Err }

// ///////////////////////////////////////////////
// Types
// ///////////////////////////////////////////////

// Style holds the fixed visual parameters shared by every icon size.
type Style struct {
	// Glyph is the single character drawn on the badge.
	Glyph string
	// Badge is the circle fill color.
	Badge color.NRGBA
	// Foreground is the glyph color.
	Foreground color.NRGBA
	// Margin is the badge inset in pixels on every side.
	Margin int
	// VerticalBias moves the glyph up by this many pixels after centering.
	VerticalBias int
	// FontScale sets the font size to round(FontScale * size) points.
	FontScale float64
}

// DefaultStyle returns the stock blue "Y" badge style.
func DefaultStyle() Style {
	return Style{
		Glyph:        DefaultGlyph,
		Badge:        DefaultBadgeColor,
		Foreground:   DefaultGlyphColor,
		Margin:       DefaultMargin,
		VerticalBias: DefaultVerticalBias,
		FontScale:    DefaultFontScale,
	}
}

// FontSize returns the point size used for a canvas of size pixels.
// The result is never below 1.
func (s Style) FontSize(size int) float64 {
	return math.Max(1, math.Round(s.FontScale*float64(size)))
}

// Layout describes where the badge and glyph land on a canvas.
type Layout struct {
	// Size is the canvas side length in pixels.
	Size int
	// FontSize is the glyph size in points.
	FontSize float64
	// Badge is the bounding box of the inscribed circle.
	Badge image.Rectangle
	// Glyph is the measured ink box of the glyph in canvas coordinates.
	Glyph image.Rectangle
	// Dot is the baseline origin passed to the font drawer.
	Dot fixed.Point26_6
}

// Renderer renders icons of any size in a single [Style] with a resolved font.
type Renderer struct {
	style Style
	font  *opentype.Font
}

// New returns a Renderer for style using f. f must be non-nil; the fonts
// package always yields a usable font.
func New(style Style, f *opentype.Font) *Renderer {
	return &Renderer{style: style, font: f}
}

// Style returns the renderer's style.
func (r *Renderer) Style() Style { return r.style }

// ///////////////////////////////////////////////
// Rendering
// ///////////////////////////////////////////////

// Layout computes the badge and glyph placement for size without drawing.
func (r *Renderer) Layout(size int) (Layout, error) {
	if size <= 0 {
		return Layout{}, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	face, err := r.newFace(size)
	if err != nil {
		return Layout{}, err
	}
	defer face.Close()
	return r.layout(face, size), nil
}

// Render draws the icon for size onto a new transparent canvas.
func (r *Renderer) Render(size int) (*image.NRGBA, Layout, error) {
	if size <= 0 {
		return nil, Layout{}, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	face, err := r.newFace(size)
	if err != nil {
		return nil, Layout{}, err
	}
	defer face.Close()

	lay := r.layout(face, size)

	// image.NewNRGBA zeroes the buffer, so every pixel starts fully transparent.
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	fillCircle(img, lay.Badge, r.style.Badge)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(r.style.Foreground),
		Face: face,
		Dot:  lay.Dot,
	}
	d.DrawString(r.style.Glyph)

	return img, lay, nil
}

// RenderPNG renders the icon for size and returns the PNG bytes.
func (r *Renderer) RenderPNG(size int) ([]byte, error) {
	img, _, err := r.Render(size)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encodePNG(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderFile renders the icon for size and writes it to path in the format
// implied by the path's extension, replacing any existing file. Write
// failures are reported as [*WriteError]; nothing is written for an invalid
// size or unsupported extension.
func (r *Renderer) RenderFile(ctx context.Context, size int, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	enc, err := EncoderFor(path)
	if err != nil {
		return err
	}
	img, _, err := r.Render(size)
	if err != nil {
		return err
	}
	err = atomicfile.WriteFunc(path, 0o644, func(w io.Writer) error {
		return enc(w, img)
	})
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// newFace creates a face for the size's point size at [DPI].
func (r *Renderer) newFace(size int) (font.Face, error) {
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    r.style.FontSize(size),
		DPI:     DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

// layout places the badge and centers the glyph by its measured ink box,
// not by nominal font metrics, so centering holds for any font.
func (r *Renderer) layout(face font.Face, size int) Layout {
	m := r.style.Margin
	// Built literally: image.Rect would swap the corners when size < 2*m.
	badge := image.Rectangle{Min: image.Pt(m, m), Max: image.Pt(size-m, size-m)}

	bounds, _ := font.BoundString(face, r.style.Glyph)
	glyphW := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphH := (bounds.Max.Y - bounds.Min.Y).Ceil()

	inkX := (size - glyphW) / 2
	inkY := (size-glyphH)/2 - r.style.VerticalBias

	return Layout{
		Size:     size,
		FontSize: r.style.FontSize(size),
		Badge:    badge,
		Glyph:    image.Rect(inkX, inkY, inkX+glyphW, inkY+glyphH),
		Dot:      fixed.P(inkX-bounds.Min.X.Floor(), inkY-bounds.Min.Y.Floor()),
	}
}

// fillCircle fills the ellipse inscribed in box with c, anti-aliased.
// An empty box draws nothing.
func fillCircle(dst *image.NRGBA, box image.Rectangle, c color.NRGBA) {
	if box.Empty() {
		return
	}
	cx := float32(box.Min.X+box.Max.X) / 2
	cy := float32(box.Min.Y+box.Max.Y) / 2
	rx := float32(box.Dx()) / 2
	ry := float32(box.Dy()) / 2
	kx, ky := circleKappa*rx, circleKappa*ry

	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(cx+rx, cy)
	z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	z.ClosePath()
	z.DrawOp = draw.Over
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// ///////////////////////////////////////////////
// Encoding
// ///////////////////////////////////////////////

// Encoder writes an image in a specific raster format.
type Encoder func(w io.Writer, img image.Image) error

// EncoderFor returns the encoder for path's extension (case-insensitive).
func EncoderFor(path string) (Encoder, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return encodePNG, nil
	default:
		return nil, fmt.Errorf("%w %q for %s", ErrUnsupportedFormat, ext, path)
	}
}

// encodePNG writes img as a PNG, preserving the alpha channel.
func encodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}
