package media

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/evanoberholster/imagemeta"
)

// ExtractMetadata extracts EXIF metadata from an in-memory photo payload.
//
// Pure Go via the imagemeta library, which reads only the metadata bytes of
// the payload. GPS coordinates arrive as EXIF Rational pairs; the library
// converts them to float64 including the N/S and E/W reference direction.
// The date-taken value is what the compositor's date stamp overlay defaults to.
func ExtractMetadata(data []byte) (*Metadata, error) {
	exifData, err := imagemeta.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode EXIF metadata: %w", err)
	}

	meta := &Metadata{}

	gps := exifData.GPS
	if gps.Latitude() != 0 || gps.Longitude() != 0 {
		meta.Latitude = gps.Latitude()
		meta.Longitude = gps.Longitude()
		meta.HasGPS = true
	}

	// Date fallback chain: DateTimeOriginal > CreateDate > ModifyDate.
	switch {
	case !exifData.DateTimeOriginal().IsZero():
		meta.DateTaken = exifData.DateTimeOriginal()
		meta.HasDate = true
	case !exifData.CreateDate().IsZero():
		meta.DateTaken = exifData.CreateDate()
		meta.HasDate = true
	case !exifData.ModifyDate().IsZero():
		meta.DateTaken = exifData.ModifyDate()
		meta.HasDate = true
	}

	meta.CameraMake = strings.TrimSpace(exifData.Make)
	meta.CameraModel = strings.TrimSpace(exifData.Model)

	return meta, nil
}
