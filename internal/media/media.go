// Package media defines the input unit of the enhancement pipeline and the
// source loader that turns any media reference into locally readable bytes.
//
// Every pipeline run starts from a Handle: a typed reference to a photo, video
// or audio item carrying either the raw payload or a remote URL. Resolve
// funnels both cases through the same path so that downstream raster and PCM
// reads never touch a remote source directly.
package media

import (
	"fmt"
	"strings"
	"time"
)

// Type classifies a media item for pipeline routing.
type Type string

const (
	TypePhoto Type = "photo"
	TypeVideo Type = "video"
	TypeAudio Type = "audio"
)

// SupportedImageExtensions defines the file extensions accepted as photo input.
var SupportedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// SupportedVideoExtensions defines the file extensions accepted as video input.
var SupportedVideoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
}

// SupportedAudioExtensions defines the file extensions accepted as audio input.
var SupportedAudioExtensions = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".webm": "audio/webm",
}

// Handle is one input unit for the pipeline. It is immutable once loaded; a
// new Handle is produced for every pipeline run, never mutated in place.
type Handle struct {
	// ID is a stable per-item identifier. Enhancement state is keyed by it,
	// so reordering or removing carousel items never misattributes edits.
	ID string

	Type Type

	// Data holds the payload when the item is already local. When Data is
	// nil, URL must point at the remote source.
	Data []byte
	URL  string

	// Filename is the display name, used for output naming. Optional.
	Filename string

	// VaultID identifies the vault entry this handle originated from, when
	// the user picked it out of their vault. Optional.
	VaultID string
}

// Metadata describes a loaded photo, extracted from EXIF where available.
type Metadata struct {
	Latitude  float64
	Longitude float64
	HasGPS    bool

	DateTaken time.Time
	HasDate   bool

	CameraMake  string
	CameraModel string
}

// GetMIMEType returns the MIME type for a given file extension.
func GetMIMEType(ext string) (string, error) {
	ext = strings.ToLower(ext)

	if mimeType, ok := SupportedImageExtensions[ext]; ok {
		return mimeType, nil
	}

	if mimeType, ok := SupportedVideoExtensions[ext]; ok {
		return mimeType, nil
	}

	if mimeType, ok := SupportedAudioExtensions[ext]; ok {
		return mimeType, nil
	}

	return "", fmt.Errorf("unsupported file extension: %s", ext)
}

// TypeForExtension maps a file extension to the pipeline media type.
func TypeForExtension(ext string) (Type, error) {
	ext = strings.ToLower(ext)

	switch {
	case IsImage(ext):
		return TypePhoto, nil
	case IsVideo(ext):
		return TypeVideo, nil
	case IsAudio(ext):
		return TypeAudio, nil
	}

	return "", fmt.Errorf("unsupported file extension: %s", ext)
}

// IsImage returns true if the file extension corresponds to an image.
func IsImage(ext string) bool {
	_, ok := SupportedImageExtensions[strings.ToLower(ext)]
	return ok
}

// IsVideo returns true if the file extension corresponds to a video.
func IsVideo(ext string) bool {
	_, ok := SupportedVideoExtensions[strings.ToLower(ext)]
	return ok
}

// IsAudio returns true if the file extension corresponds to an audio file.
func IsAudio(ext string) bool {
	_, ok := SupportedAudioExtensions[strings.ToLower(ext)]
	return ok
}

// IsSupported returns true if the file extension is supported at all.
func IsSupported(ext string) bool {
	return IsImage(ext) || IsVideo(ext) || IsAudio(ext)
}
