package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrLoadFailed wraps every failure to turn a Handle into local bytes. Callers
// surface it to the user as "failed to load media"; the loader does not retry.
var ErrLoadFailed = errors.New("failed to load media")

// RemoteFetchTimeout bounds a single remote payload fetch. The rendering
// pipeline itself carries no timeout; only the collaborator boundary does.
const RemoteFetchTimeout = 30 * time.Second

// MaxRemoteBytes caps how much a remote fetch will read. Beyond this the
// source is rejected rather than buffered without bound.
const MaxRemoteBytes = 512 << 20

// Local is a resolved media item: payload fully in memory, safe for pixel and
// PCM reads. It is the only form the compositor and audio processor accept, so
// a remote source can never taint a render surface.
type Local struct {
	Handle   Handle
	Data     []byte
	MIME     string
	Metadata *Metadata
}

// Loader resolves Handles into Local items.
type Loader struct {
	client *http.Client
}

// NewLoader returns a Loader using a fetch client bounded by RemoteFetchTimeout.
func NewLoader() *Loader {
	return &Loader{
		client: &http.Client{Timeout: RemoteFetchTimeout},
	}
}

// Resolve produces a locally readable copy of the handle's payload.
//
// Both already-local payloads and remote URLs funnel through the same path:
// local bytes are wrapped directly, remote references are fetched and
// rewrapped before any pixel or sample read happens. There is deliberately no
// same-origin shortcut; every render reads from a local copy.
func (l *Loader) Resolve(ctx context.Context, h Handle) (*Local, error) {
	data := h.Data

	if data == nil {
		if h.URL == "" {
			return nil, fmt.Errorf("%w: handle %q has neither payload nor URL", ErrLoadFailed, h.ID)
		}

		fetched, err := l.fetch(ctx, h.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
		}
		data = fetched
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: handle %q resolved to an empty payload", ErrLoadFailed, h.ID)
	}

	mime := l.mimeFor(h, data)

	// QuickTime and MP4 share the ISO BMFF layout, so a .mov payload can be
	// retagged as video/mp4 without re-encoding.
	if mime == "video/quicktime" {
		mime = "video/mp4"
	}

	local := &Local{Handle: h, Data: data, MIME: mime}

	if h.Type == TypePhoto {
		meta, err := ExtractMetadata(data)
		if err != nil {
			log.Debug().Err(err).Str("id", h.ID).Msg("No EXIF metadata, continuing without it")
		} else {
			local.Metadata = meta
		}
	}

	log.Debug().
		Str("id", h.ID).
		Str("type", string(h.Type)).
		Str("mime", mime).
		Int("size_bytes", len(data)).
		Msg("Media resolved")

	return local, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxRemoteBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}
	if len(data) > MaxRemoteBytes {
		return nil, fmt.Errorf("fetch %s: payload exceeds %d bytes", url, MaxRemoteBytes)
	}

	return data, nil
}

// mimeFor determines the MIME type from the filename extension when present,
// falling back to content sniffing for extensionless handles.
func (l *Loader) mimeFor(h Handle, data []byte) string {
	if h.Filename != "" {
		if mime, err := GetMIMEType(filepath.Ext(h.Filename)); err == nil {
			return mime
		}
	}
	return SniffMIME(data)
}

// SniffMIME detects a payload's container from its magic bytes. Unrecognized
// payloads report application/octet-stream.
func SniffMIME(data []byte) string {
	switch {
	case len(data) >= 3 && bytes.Equal(data[:3], []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return "image/png"
	case len(data) >= 6 && (bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a"))):
		return "image/gif"
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp"
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return "audio/wav"
	case len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")):
		if bytes.HasPrefix(data[8:12], []byte("qt")) {
			return "video/quicktime"
		}
		return "video/mp4"
	case len(data) >= 3 && bytes.Equal(data[:3], []byte("ID3")):
		return "audio/mpeg"
	case len(data) >= 4 && bytes.Equal(data[:4], []byte("OggS")):
		return "audio/ogg"
	}
	return "application/octet-stream"
}
