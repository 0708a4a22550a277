// Package compositor renders a resolved photo (or a representative video
// frame) with the enhancement state applied: geometric transforms, the named
// filter chain, procedural effects, overlays, and a final crop, encoded as
// JPEG.
//
// The pass order is fixed and load-bearing for visual parity: flips and
// rotation first, then color, then effects in EffectOrder, then the overlay
// layers, and the crop strictly last so overlays outside the crop are
// discarded.
package compositor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"github.com/echocapsule/mediakit/internal/enhance"
)

// JPEGQuality is the fixed encoder quality of every rendered output.
const JPEGQuality = 92

// ErrRenderFailed wraps any failure inside a single render call. It is fatal
// to that save/use action only; the editing session survives and the user can
// retry.
var ErrRenderFailed = errors.New("render failed")

// Renderer produces enhanced JPEG output from a decoded source image.
type Renderer struct {
	// Seed fixes the randomness of procedural effects (grain, bokeh,
	// confetti). Zero seeds from the clock; tests set it for reproducible
	// output.
	Seed int64
}

// NewRenderer returns a Renderer with clock-seeded effect randomness.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Decode turns an image payload into a draw source, honoring EXIF
// orientation.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode source image: %v", ErrRenderFailed, err)
	}
	return img, nil
}

// Render applies the full enhancement state to src and encodes JPEG bytes.
// The context is checked between passes, so closing the editing surface
// cancels an in-flight render instead of leaking the work.
func (r *Renderer) Render(ctx context.Context, src image.Image, st *enhance.State) ([]byte, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source image", ErrRenderFailed)
	}

	seed := r.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	img := imaging.Clone(src)

	// Pass 1: geometry. Flips apply in the source frame, rotation last so a
	// non-180 multiple swaps the canvas to the rotated bounding box.
	if st.FlipHorizontal {
		img = imaging.FlipH(img)
	}
	if st.FlipVertical {
		img = imaging.FlipV(img)
	}
	if st.Rotation != 0 {
		img = imaging.Rotate(img, -st.Rotation, color.NRGBA{0, 0, 0, 255})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Pass 2: named filter chain, then the per-axis adjustments, each only
	// when non-default.
	img = applyFilterChain(img, st)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Pass 3: procedural effects, fixed order.
	for _, id := range enhance.EffectOrder {
		if !st.VisualEffects[id] {
			continue
		}
		img = applyEffect(img, id, rng)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	// Pass 4: overlay layers.
	img = drawDateStamp(img, st.DateStamp)
	img = drawCaption(img, st.Caption)
	img = drawStickers(img, st.Stickers)
	img = drawTextLayers(img, st.TextLayers)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Pass 5: crop is always the last geometric operation; overlays outside
	// the final crop are discarded with the cropped pixels.
	if st.Crop != nil {
		img = applyCrop(img, *st.Crop)
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("%w: encode jpeg: %v", ErrRenderFailed, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%w: encoder produced an empty payload", ErrRenderFailed)
	}

	log.Debug().
		Str("filter", string(st.FilterID)).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Int("output_bytes", out.Len()).
		Msg("Render complete")

	return out.Bytes(), nil
}

// applyCrop extracts the crop region, converting percentage coordinates to
// absolute pixels of the current canvas.
func applyCrop(img *image.NRGBA, crop enhance.CropRegion) *image.NRGBA {
	crop.Clamp()

	b := img.Bounds()
	x := b.Min.X + int(crop.X/100*float64(b.Dx()))
	y := b.Min.Y + int(crop.Y/100*float64(b.Dy()))
	w := int(crop.Width / 100 * float64(b.Dx()))
	h := int(crop.Height / 100 * float64(b.Dy()))
	if w < 1 || h < 1 {
		return img
	}

	return imaging.Crop(img, image.Rect(x, y, x+w, y+h))
}
