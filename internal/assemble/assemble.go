// Package assemble packages rendered output for the persistence
// collaborators: the vault (backup) and the in-progress capsule. It owns the
// backup-before-use ordering and the bulk carousel path that keeps untouched
// items byte-identical.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/echocapsule/mediakit/internal/audiofx"
	"github.com/echocapsule/mediakit/internal/compositor"
	"github.com/echocapsule/mediakit/internal/enhance"
	"github.com/echocapsule/mediakit/internal/media"
)

// ErrBackupFailed reports that the mandatory save-to-vault step failed. The
// whole action aborts; nothing reaches the capsule on unbacked media. It is a
// blocking error, never a warning.
var ErrBackupFailed = errors.New("vault backup failed")

// Metadata echoes every enhancement applied to an output, for auditability
// and re-editing. A passthrough output carries nil Metadata.
type Metadata struct {
	Filter        enhance.FilterID      `json:"filter,omitempty"`
	AudioFilter   enhance.AudioFilterID `json:"audioFilter,omitempty"`
	Effects       []enhance.EffectID    `json:"effects,omitempty"`
	Brightness    int                   `json:"brightness"`
	Contrast      int                   `json:"contrast"`
	Saturation    int                   `json:"saturation"`
	Rotation      float64               `json:"rotation,omitempty"`
	Flipped       bool                  `json:"flipped,omitempty"`
	Cropped       bool                  `json:"cropped,omitempty"`
	Stickers      int                   `json:"stickers,omitempty"`
	TextLayers    int                   `json:"textLayers,omitempty"`
	TypeDowngrade bool                  `json:"typeDowngrade,omitempty"`
}

func metadataFor(st *enhance.State) *Metadata {
	meta := &Metadata{
		Filter:      st.FilterID,
		AudioFilter: st.AudioFilterID,
		Brightness:  st.Brightness,
		Contrast:    st.Contrast,
		Saturation:  st.Saturation,
		Rotation:    st.Rotation,
		Flipped:     st.FlipHorizontal || st.FlipVertical,
		Cropped:     st.Crop != nil,
		Stickers:    len(st.Stickers),
		TextLayers:  len(st.TextLayers),
	}
	for _, id := range enhance.EffectOrder {
		if st.VisualEffects[id] {
			meta.Effects = append(meta.Effects, id)
		}
	}
	return meta
}

// Enhanced is one pipeline output: the encoded payload plus what was done to
// it. Type may differ from the source type; a video rendered through the
// visual pipeline degrades to a single still photo.
type Enhanced struct {
	Data     []byte
	Type     media.Type
	Filename string
	Metadata *Metadata
}

// Saver persists an output into the user's vault. Implementations must not
// return until the output is durably stored.
type Saver interface {
	Save(ctx context.Context, item Enhanced) error
}

// CapsuleSink attaches outputs to the in-progress capsule.
type CapsuleSink interface {
	Attach(ctx context.Context, items []Enhanced) error
}

// Assembler runs the render-and-hand-off flow.
type Assembler struct {
	loader   *media.Loader
	renderer *compositor.Renderer
}

// New returns an Assembler using the given loader and renderer.
func New(loader *media.Loader, renderer *compositor.Renderer) *Assembler {
	return &Assembler{loader: loader, renderer: renderer}
}

// Render produces the Enhanced output for one resolved item. Items at the
// default state pass through untouched: the original bytes, original type, no
// metadata, never re-encoded.
func (a *Assembler) Render(ctx context.Context, local *media.Local, st *enhance.State) (Enhanced, error) {
	if st == nil || st.IsDefault() {
		return Enhanced{
			Data:     local.Data,
			Type:     local.Handle.Type,
			Filename: local.Handle.Filename,
		}, nil
	}

	switch local.Handle.Type {
	case media.TypeAudio:
		return a.renderAudio(ctx, local, st)
	case media.TypePhoto, media.TypeVideo:
		return a.renderVisual(ctx, local, st)
	}

	return Enhanced{}, fmt.Errorf("cannot render media type %q", local.Handle.Type)
}

func (a *Assembler) renderVisual(ctx context.Context, local *media.Local, st *enhance.State) (Enhanced, error) {
	var (
		src        image.Image
		downgraded bool
		err        error
	)

	if local.Handle.Type == media.TypeVideo {
		// One representative frame; the item downgrades to a still photo.
		// Documented behavior, surfaced to the user, not silently fixed.
		src, err = compositor.Frame(ctx, local.Data)
		downgraded = true
		if err == nil {
			log.Warn().
				Str("id", local.Handle.ID).
				Msg("Video enhancement produces a single photo frame, not an enhanced video")
		}
	} else {
		src, err = compositor.Decode(local.Data)
	}
	if err != nil {
		return Enhanced{}, err
	}

	data, err := a.renderer.Render(ctx, src, st)
	if err != nil {
		return Enhanced{}, err
	}

	meta := metadataFor(st)
	meta.TypeDowngrade = downgraded

	return Enhanced{
		Data:     data,
		Type:     media.TypePhoto,
		Filename: outputName(local.Handle.Filename, ".jpg"),
		Metadata: meta,
	}, nil
}

func (a *Assembler) renderAudio(ctx context.Context, local *media.Local, st *enhance.State) (Enhanced, error) {
	params := enhance.AudioFilters[st.AudioFilterID]

	res, err := audiofx.Render(ctx, local.Data, params)
	if err != nil {
		return Enhanced{}, err
	}

	if res.Degraded {
		// Disclosed fallback: the payload is the unprocessed source and must
		// not claim an applied filter.
		log.Warn().Str("id", local.Handle.ID).Msg("Audio processing did not apply, using original recording")
		return Enhanced{
			Data:     local.Data,
			Type:     media.TypeAudio,
			Filename: local.Handle.Filename,
		}, nil
	}

	out := Enhanced{
		Data:     res.Data,
		Type:     media.TypeAudio,
		Filename: outputName(local.Handle.Filename, ".wav"),
	}
	if !res.Applied.IsZero() {
		out.Metadata = metadataFor(st)
	}
	return out, nil
}

// outputName swaps the source extension for the rendered container's,
// defaulting a missing name to "capsule-media".
func outputName(filename, ext string) string {
	if filename == "" {
		return "capsule-media" + ext
	}
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return base + ext
}
