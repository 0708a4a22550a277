package compositor

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/echocapsule/mediakit/internal/enhance"
)

// applyFilterChain runs the named filter's fixed chain, then the user's
// brightness/contrast/saturation adjustments. Defaults are skipped so an
// untouched state leaves the pixels alone.
func applyFilterChain(img *image.NRGBA, st *enhance.State) *image.NRGBA {
	chain, ok := enhance.PhotoFilters[st.FilterID]
	if !ok {
		chain = enhance.PhotoFilters[enhance.FilterNone]
	}

	if chain.Sepia > 0 {
		img = sepiaMix(img, chain.Sepia)
	}
	if chain.Grayscale > 0 {
		img = grayscaleMix(img, chain.Grayscale)
	}
	if chain.Brightness != 0 && chain.Brightness != 1 {
		img = imaging.AdjustBrightness(img, (chain.Brightness-1)*100)
	}
	if chain.Contrast != 0 && chain.Contrast != 1 {
		img = imaging.AdjustContrast(img, (chain.Contrast-1)*100)
	}
	if chain.Saturate != 0 && chain.Saturate != 1 {
		img = imaging.AdjustSaturation(img, (chain.Saturate-1)*100)
	}
	if chain.Blur > 0 {
		img = imaging.Blur(img, chain.Blur)
	}

	if st.Brightness != 100 {
		img = imaging.AdjustBrightness(img, float64(st.Brightness-100)/2)
	}
	if st.Contrast != 100 {
		img = imaging.AdjustContrast(img, float64(st.Contrast-100)/2)
	}
	if st.Saturation != 100 {
		img = imaging.AdjustSaturation(img, float64(st.Saturation-100))
	}

	return img
}

// sepiaMix blends the standard sepia tone matrix into the image by amount in
// [0,1].
func sepiaMix(img *image.NRGBA, amount float64) *image.NRGBA {
	out := imaging.Clone(img)
	pix := out.Pix

	for i := 0; i < len(pix); i += 4 {
		r := float64(pix[i])
		g := float64(pix[i+1])
		b := float64(pix[i+2])

		sr := 0.393*r + 0.769*g + 0.189*b
		sg := 0.349*r + 0.686*g + 0.168*b
		sb := 0.272*r + 0.534*g + 0.131*b

		pix[i] = clamp8(r + (sr-r)*amount)
		pix[i+1] = clamp8(g + (sg-g)*amount)
		pix[i+2] = clamp8(b + (sb-b)*amount)
	}

	return out
}

// grayscaleMix blends the luminance image in by amount in [0,1].
func grayscaleMix(img *image.NRGBA, amount float64) *image.NRGBA {
	out := imaging.Clone(img)
	pix := out.Pix

	for i := 0; i < len(pix); i += 4 {
		r := float64(pix[i])
		g := float64(pix[i+1])
		b := float64(pix[i+2])

		lum := 0.299*r + 0.587*g + 0.114*b

		pix[i] = clamp8(r + (lum-r)*amount)
		pix[i+1] = clamp8(g + (lum-g)*amount)
		pix[i+2] = clamp8(b + (lum-b)*amount)
	}

	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
