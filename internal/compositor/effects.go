package compositor

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/disintegration/imaging"

	"github.com/echocapsule/mediakit/internal/enhance"
)

// Fixed effect intensities. Effects are on/off only; these values define each
// effect's identity.
const (
	vignetteStrength = 0.55
	grainStrength    = 18.0
	lightLeakAlpha   = 0.35
	bokehCount       = 12
	confettiCount    = 80
)

// Polaroid border widths as fractions of the shorter canvas side. The bottom
// border is the wide one, like the print.
const (
	polaroidEdge   = 0.05
	polaroidBottom = 0.18
)

func applyEffect(img *image.NRGBA, id enhance.EffectID, rng *rand.Rand) *image.NRGBA {
	switch id {
	case enhance.EffectVignette:
		return vignette(img)
	case enhance.EffectGrain:
		return grain(img, rng)
	case enhance.EffectLightLeak:
		return lightLeak(img)
	case enhance.EffectBokeh:
		return bokeh(img, rng)
	case enhance.EffectConfetti:
		return confetti(img, rng)
	case enhance.EffectPolaroid:
		return polaroid(img)
	}
	return img
}

// vignette darkens toward the corners with a radial falloff.
func vignette(img *image.NRGBA) *image.NRGBA {
	out := imaging.Clone(img)
	b := out.Bounds()
	w, h := b.Dx(), b.Dy()

	cx := float64(w) / 2
	cy := float64(h) / 2
	maxDist := math.Hypot(cx, cy)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dist := math.Hypot(float64(x)-cx, float64(y)-cy) / maxDist
			// Flat center, falloff past 40% of the radius.
			fade := (dist - 0.4) / 0.6
			if fade <= 0 {
				continue
			}
			factor := 1 - fade*fade*vignetteStrength

			i := out.PixOffset(x+b.Min.X, y+b.Min.Y)
			out.Pix[i] = uint8(float64(out.Pix[i]) * factor)
			out.Pix[i+1] = uint8(float64(out.Pix[i+1]) * factor)
			out.Pix[i+2] = uint8(float64(out.Pix[i+2]) * factor)
		}
	}

	return out
}

// grain perturbs every pixel with signed noise, a full image-data pass.
func grain(img *image.NRGBA, rng *rand.Rand) *image.NRGBA {
	out := imaging.Clone(img)
	pix := out.Pix

	for i := 0; i < len(pix); i += 4 {
		n := (rng.Float64()*2 - 1) * grainStrength
		pix[i] = clamp8(float64(pix[i]) + n)
		pix[i+1] = clamp8(float64(pix[i+1]) + n)
		pix[i+2] = clamp8(float64(pix[i+2]) + n)
	}

	return out
}

// lightLeak washes a warm radial gradient in from the top-right corner using
// a screen blend.
func lightLeak(img *image.NRGBA) *image.NRGBA {
	out := imaging.Clone(img)
	b := out.Bounds()
	w, h := b.Dx(), b.Dy()

	ox := float64(w) * 0.85
	oy := float64(h) * 0.1
	radius := float64(w) * 0.7

	leakR, leakG, leakB := 255.0, 180.0, 120.0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dist := math.Hypot(float64(x)-ox, float64(y)-oy)
			if dist >= radius {
				continue
			}
			a := (1 - dist/radius) * lightLeakAlpha

			i := out.PixOffset(x+b.Min.X, y+b.Min.Y)
			out.Pix[i] = screen8(out.Pix[i], leakR*a)
			out.Pix[i+1] = screen8(out.Pix[i+1], leakG*a)
			out.Pix[i+2] = screen8(out.Pix[i+2], leakB*a)
		}
	}

	return out
}

// screen8 is the screen blend of a base channel with a weighted overlay value.
func screen8(base uint8, over float64) uint8 {
	return clamp8(255 - (255-float64(base))*(255-over)/255)
}

// bokeh scatters soft translucent circles of varying size across the frame.
func bokeh(img *image.NRGBA, rng *rand.Rand) *image.NRGBA {
	out := imaging.Clone(img)
	b := out.Bounds()
	w, h := b.Dx(), b.Dy()

	minSide := math.Min(float64(w), float64(h))

	for c := 0; c < bokehCount; c++ {
		cx := rng.Float64() * float64(w)
		cy := rng.Float64() * float64(h)
		radius := minSide * (0.03 + rng.Float64()*0.08)
		alpha := 0.15 + rng.Float64()*0.25
		warm := rng.Float64() * 60

		softCircle(out, cx, cy, radius, 255, 255-warm/2, 255-warm, alpha)
	}

	return out
}

// softCircle additively draws one radial-gradient disc.
func softCircle(img *image.NRGBA, cx, cy, radius, cr, cg, cb, alpha float64) {
	b := img.Bounds()

	x0 := int(math.Max(0, cx-radius))
	x1 := int(math.Min(float64(b.Dx()-1), cx+radius))
	y0 := int(math.Max(0, cy-radius))
	y1 := int(math.Min(float64(b.Dy()-1), cy+radius))

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dist := math.Hypot(float64(x)-cx, float64(y)-cy)
			if dist >= radius {
				continue
			}
			// Soft edge over the outer third of the disc.
			a := alpha
			if dist > radius*0.66 {
				a *= (radius - dist) / (radius * 0.34)
			}

			i := img.PixOffset(x+b.Min.X, y+b.Min.Y)
			img.Pix[i] = clamp8(float64(img.Pix[i])*(1-a) + cr*a)
			img.Pix[i+1] = clamp8(float64(img.Pix[i+1])*(1-a) + cg*a)
			img.Pix[i+2] = clamp8(float64(img.Pix[i+2])*(1-a) + cb*a)
		}
	}
}

var confettiPalette = []color.NRGBA{
	{R: 255, G: 99, B: 132, A: 255},
	{R: 255, G: 205, B: 86, A: 255},
	{R: 75, G: 192, B: 192, A: 255},
	{R: 153, G: 102, B: 255, A: 255},
	{R: 255, G: 159, B: 64, A: 255},
	{R: 54, G: 162, B: 235, A: 255},
}

// confetti scatters small rotated rectangles of palette colors.
func confetti(img *image.NRGBA, rng *rand.Rand) *image.NRGBA {
	out := imaging.Clone(img)
	b := out.Bounds()
	w, h := b.Dx(), b.Dy()

	side := math.Max(4, math.Min(float64(w), float64(h))*0.012)

	for c := 0; c < confettiCount; c++ {
		col := confettiPalette[rng.Intn(len(confettiPalette))]

		piece := imaging.New(int(side), int(side*1.6), col)
		piece = imaging.Rotate(piece, rng.Float64()*360, color.NRGBA{})

		x := rng.Intn(w)
		y := rng.Intn(h)
		out = imaging.Overlay(out, piece, image.Pt(x, y), 0.9)
	}

	return out
}

// polaroid grows the canvas into a white frame with the classic wide bottom
// border and redraws the content inset.
func polaroid(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	minSide := math.Min(float64(w), float64(h))
	edge := int(minSide * polaroidEdge)
	bottom := int(minSide * polaroidBottom)

	frame := imaging.New(w+edge*2, h+edge+bottom, color.NRGBA{R: 250, G: 248, B: 242, A: 255})
	return imaging.Paste(frame, img, image.Pt(edge, edge))
}
