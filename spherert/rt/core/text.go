package core

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// AtlasSize is the edge length of the square R8 glyph atlas.
const AtlasSize = 256

// TextVertex matches the vertex layout in text.wgsl.
type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

// TextVertexSize is the byte stride of TextVertex.
const TextVertexSize = 32

type glyph struct {
	uvMin   [2]float32
	uvMax   [2]float32
	size    [2]float32
	bearing [2]float32
	advance float32
}

// TextAtlas holds printable ASCII rasterized from the Go Regular font.
type TextAtlas struct {
	Image      *image.Alpha
	glyphs     map[rune]glyph
	ascent     float32
	lineHeight float32
}

func NewTextAtlas(size float64) (*TextAtlas, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	defer face.Close()

	a := &TextAtlas{
		Image:  image.NewAlpha(image.Rect(0, 0, AtlasSize, AtlasSize)),
		glyphs: make(map[rune]glyph),
	}
	m := face.Metrics()
	a.ascent = float32(m.Ascent.Ceil())
	a.lineHeight = float32(m.Height.Ceil())

	const pad = 2
	x, y, row := pad, pad, 0
	for r := rune(' '); r <= '~'; r++ {
		bounds, mask, maskPt, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w, h := bounds.Dx(), bounds.Dy()
		if x+w+pad > AtlasSize {
			x = pad
			y += row + pad
			row = 0
		}
		if y+h+pad > AtlasSize {
			return nil, fmt.Errorf("glyph atlas overflow at %q with font size %v", r, size)
		}
		draw.Draw(a.Image, image.Rect(x, y, x+w, y+h), mask, maskPt, draw.Src)

		a.glyphs[r] = glyph{
			uvMin:   [2]float32{float32(x) / AtlasSize, float32(y) / AtlasSize},
			uvMax:   [2]float32{float32(x+w) / AtlasSize, float32(y+h) / AtlasSize},
			size:    [2]float32{float32(w), float32(h)},
			bearing: [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			advance: float32(adv) / 64,
		}
		x += w + pad
		if h > row {
			row = h
		}
	}
	return a, nil
}

func (a *TextAtlas) LineHeight() float32 {
	return a.lineHeight
}

// Vertices lays text out from the top-left pixel (px, py) and returns two
// triangles per visible glyph in clip space for a screenW x screenH target.
func (a *TextAtlas) Vertices(text string, px, py float32, color [4]float32, screenW, screenH int) []TextVertex {
	out := make([]TextVertex, 0, len(text)*6)
	sw, sh := float32(screenW), float32(screenH)
	toClip := func(x, y float32) [2]float32 {
		return [2]float32{x/sw*2 - 1, 1 - y/sh*2}
	}

	penX, baseline := px, py+a.ascent
	for _, r := range text {
		if r == '\n' {
			penX = px
			baseline += a.lineHeight
			continue
		}
		g, ok := a.glyphs[r]
		if !ok {
			continue
		}
		if g.size[0] > 0 && g.size[1] > 0 {
			x0, y0 := penX+g.bearing[0], baseline+g.bearing[1]
			x1, y1 := x0+g.size[0], y0+g.size[1]
			tl := TextVertex{Pos: toClip(x0, y0), UV: g.uvMin, Color: color}
			tr := TextVertex{Pos: toClip(x1, y0), UV: [2]float32{g.uvMax[0], g.uvMin[1]}, Color: color}
			bl := TextVertex{Pos: toClip(x0, y1), UV: [2]float32{g.uvMin[0], g.uvMax[1]}, Color: color}
			br := TextVertex{Pos: toClip(x1, y1), UV: g.uvMax, Color: color}
			out = append(out, tl, tr, bl, tr, br, bl)
		}
		penX += g.advance
	}
	return out
}

// TextVertexBytes flattens vertices into the GPU upload layout.
func TextVertexBytes(vs []TextVertex) []byte {
	buf := make([]byte, 0, len(vs)*TextVertexSize)
	for _, v := range vs {
		for _, f := range [8]float32{v.Pos[0], v.Pos[1], v.UV[0], v.UV[1], v.Color[0], v.Color[1], v.Color[2], v.Color[3]} {
			buf = appendFloat32(buf, f)
		}
	}
	return buf
}
