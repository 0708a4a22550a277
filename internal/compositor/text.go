package compositor

import (
	"image"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/echocapsule/mediakit/internal/enhance"
)

// dateStampRelSize is the date stamp height relative to the shorter canvas
// side, drawn monospace bottom-left like a film camera burn-in.
const dateStampRelSize = 0.035

var (
	fontsOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
	monoFont    *opentype.Font
)

func loadFonts() {
	fontsOnce.Do(func() {
		// The embedded Go fonts cannot fail to parse.
		regularFont, _ = opentype.Parse(goregular.TTF)
		boldFont, _ = opentype.Parse(gobold.TTF)
		monoFont, _ = opentype.Parse(gomono.TTF)
	})
}

func faceFor(name string, size float64) font.Face {
	loadFonts()

	f := regularFont
	switch strings.ToLower(name) {
	case "bold":
		f = boldFont
	case "mono", "monospace":
		f = monoFont
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		face, _ = opentype.NewFace(regularFont, &opentype.FaceOptions{Size: size, DPI: 72})
	}
	return face
}

// parseColor understands #rgb and #rrggbb hex plus a handful of names; the
// state stores colors the way the app's UI picked them.
func parseColor(s string, fallback color.NRGBA) color.NRGBA {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "":
		return fallback
	case "white":
		return color.NRGBA{255, 255, 255, 255}
	case "black":
		return color.NRGBA{0, 0, 0, 255}
	}

	if !strings.HasPrefix(s, "#") {
		return fallback
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return fallback
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fallback
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// drawString paints text with an optional stroke outline onto dst with the
// baseline starting at (x,y). The outline is a multi-offset repaint in the
// outline color under the fill.
func drawString(dst *image.NRGBA, text string, face font.Face, x, y int, fill, outline color.NRGBA, outlineWidth int) {
	d := &font.Drawer{Dst: dst, Face: face}

	if outlineWidth > 0 {
		d.Src = image.NewUniform(outline)
		for dy := -outlineWidth; dy <= outlineWidth; dy++ {
			for dx := -outlineWidth; dx <= outlineWidth; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				d.Dot = fixed.P(x+dx, y+dy)
				d.DrawString(text)
			}
		}
	}

	d.Src = image.NewUniform(fill)
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

func measure(face font.Face, text string) int {
	d := &font.Drawer{Face: face}
	return d.MeasureString(text).Ceil()
}

// drawDateStamp paints the date stamp monospace at a fixed relative size in
// the bottom-left corner, with a thin dark outline for legibility.
func drawDateStamp(img *image.NRGBA, stamp *enhance.OverlayText) *image.NRGBA {
	if stamp == nil || stamp.Text == "" {
		return img
	}

	b := img.Bounds()
	minSide := b.Dx()
	if b.Dy() < minSide {
		minSide = b.Dy()
	}

	size := float64(minSide) * dateStampRelSize
	face := faceFor("mono", size)

	margin := int(size * 0.8)
	x := b.Min.X + margin
	y := b.Max.Y - margin

	fill := parseColor(stamp.Color, color.NRGBA{255, 176, 59, 255})
	drawString(img, stamp.Text, face, x, y, fill, color.NRGBA{0, 0, 0, 255}, 1)

	return img
}

// drawCaption paints the legacy caption centered at its percentage position.
func drawCaption(img *image.NRGBA, caption *enhance.OverlayText) *image.NRGBA {
	if caption == nil || caption.Text == "" {
		return img
	}

	b := img.Bounds()

	size := caption.Size
	if size <= 0 {
		size = float64(b.Dy()) * 0.05
	}
	face := faceFor("bold", size)

	width := measure(face, caption.Text)
	x := b.Min.X + int(caption.X/100*float64(b.Dx())) - width/2
	y := b.Min.Y + int(caption.Y/100*float64(b.Dy()))

	fill := parseColor(caption.Color, color.NRGBA{255, 255, 255, 255})
	drawString(img, caption.Text, face, x, y, fill, color.NRGBA{0, 0, 0, 255}, 2)

	return img
}

// stickerGlyphs maps sticker types to drawable glyphs. Types without a glyph
// fall back to a star.
var stickerGlyphs = map[string]string{
	"heart":   "♥",
	"star":    "★",
	"sun":     "☀",
	"moon":    "☾",
	"flower":  "❀",
	"note":    "♪",
	"sparkle": "✷",
}

// drawStickers paints each sticker instance as its glyph at the stored
// percentage position and size, in list order.
func drawStickers(img *image.NRGBA, stickers []enhance.Sticker) *image.NRGBA {
	if len(stickers) == 0 {
		return img
	}

	b := img.Bounds()

	for _, s := range stickers {
		glyph, ok := stickerGlyphs[s.Type]
		if !ok {
			glyph = stickerGlyphs["star"]
		}

		size := s.Size
		if size <= 0 {
			size = float64(b.Dy()) * 0.08
		}
		face := faceFor("regular", size)

		width := measure(face, glyph)
		x := b.Min.X + int(s.X/100*float64(b.Dx())) - width/2
		y := b.Min.Y + int(s.Y/100*float64(b.Dy())) + int(size/2)

		drawString(img, glyph, face, x, y, color.NRGBA{255, 255, 255, 255}, color.NRGBA{0, 0, 0, 200}, 1)
	}

	return img
}

// drawTextLayers paints the free text overlays in list order. Each layer is
// rendered into its own transparent raster, rotated about its anchor, and
// composited back, so rotation never disturbs pixels outside the layer.
func drawTextLayers(img *image.NRGBA, layers []enhance.TextLayer) *image.NRGBA {
	if len(layers) == 0 {
		return img
	}

	b := img.Bounds()

	for _, l := range layers {
		if l.Text == "" {
			continue
		}

		size := l.Size
		if size <= 0 {
			size = float64(b.Dy()) * 0.05
		}
		face := faceFor(l.Font, size)

		width := measure(face, l.Text)
		pad := int(size) + int(l.OutlineWidth) + int(l.ShadowBlur)*2

		layer := imaging.New(width+pad*2, int(size)+pad*2, color.NRGBA{})
		fill := parseColor(l.Color, color.NRGBA{255, 255, 255, 255})
		outline := parseColor(l.OutlineColor, color.NRGBA{0, 0, 0, 255})

		baselineY := pad + int(size)

		if l.ShadowBlur > 0 {
			shadow := imaging.New(width+pad*2, int(size)+pad*2, color.NRGBA{})
			drawString(shadow, l.Text, face, pad, baselineY, color.NRGBA{0, 0, 0, 200}, color.NRGBA{}, 0)
			shadow = imaging.Blur(shadow, l.ShadowBlur)
			layer = imaging.Overlay(layer, shadow, image.Pt(0, 0), 1)
		}

		drawString(layer, l.Text, face, pad, baselineY, fill, outline, int(l.OutlineWidth))

		if l.Rotation != 0 {
			layer = imaging.Rotate(layer, -l.Rotation, color.NRGBA{})
		}

		// Composite centered on the layer's anchor.
		cx := b.Min.X + int(l.X/100*float64(b.Dx()))
		cy := b.Min.Y + int(l.Y/100*float64(b.Dy()))
		pos := image.Pt(cx-layer.Bounds().Dx()/2, cy-layer.Bounds().Dy()/2)

		img = imaging.Overlay(img, layer, pos, 1)
	}

	return img
}
