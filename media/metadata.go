package media

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Metadata contains EXIF and dimension information for an uploaded image
type Metadata struct {
	Width        *int
	Height       *int
	Aperture     *float64
	ShutterSpeed *string
	ISO          *int
	FocalLength  *float64
	CameraMake   *string
	CameraModel  *string
	TakenAt      *time.Time
}

// helper to safely get and convert a rational tag (like Aperture, FocalLength)
func getRational(exifData *exif.Exif, tagName exif.FieldName) *float64 {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		// some cameras store these as plain integers
		valInt, errInt := tag.Int(0)
		if errInt == nil {
			fVal := float64(valInt)
			return &fVal
		}
		return nil
	}
	val := float64(num) / float64(den)
	return &val
}

func getInt(exifData *exif.Exif, tagName exif.FieldName) *int {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	val, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return &val
}

// string tags come back quoted and sometimes padded with NULs
func getString(exifData *exif.Exif, tagName exif.FieldName) *string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	val, err := tag.StringVal()
	if err != nil {
		return nil
	}
	val = strings.TrimSpace(strings.TrimRight(val, "\x00"))
	if val == "" {
		return nil
	}
	return &val
}

func getShutterSpeed(exifData *exif.Exif) *string {
	tag, err := exifData.Get(exif.ExposureTime)
	if err != nil || tag == nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return nil
	}

	if num == 1 && den > 1 {
		s := fmt.Sprintf("1/%d", den)
		return &s
	}

	val := float64(num) / float64(den)
	var s string
	if val >= 1.0 {
		s = fmt.Sprintf("%.1fs", val)
	} else {
		s = fmt.Sprintf("%.4fs", val)
	}
	return &s
}

// ReadMetadata extracts dimensions and camera EXIF from r. missing EXIF is not
// an error; only a failure to rewind r is.
func ReadMetadata(r io.ReadSeeker) (*Metadata, error) {
	meta := &Metadata{}

	cfg, format, err := image.DecodeConfig(r)
	if err == nil {
		w, h := cfg.Width, cfg.Height
		meta.Width, meta.Height = &w, &h
	} else {
		log.Printf("metadata: Could not decode dimensions (format %q): %v", format, err)
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("metadata: failed to rewind: %w", err)
	}

	exifData, err := exif.Decode(r)
	if err != nil {
		return meta, nil
	}

	meta.Aperture = getRational(exifData, exif.FNumber)
	meta.ShutterSpeed = getShutterSpeed(exifData)
	meta.ISO = getInt(exifData, exif.ISOSpeedRatings)
	meta.FocalLength = getRational(exifData, exif.FocalLength)
	meta.CameraMake = getString(exifData, exif.Make)
	meta.CameraModel = getString(exifData, exif.Model)

	if dt, err := exifData.DateTime(); err == nil {
		meta.TakenAt = &dt
	}

	return meta, nil
}

// ReadStoredMetadata is ReadMetadata for a file already in store
func ReadStoredMetadata(store Store, relPath string) (*Metadata, error) {
	rc, _, err := store.Open(relPath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rs, ok := rc.(io.ReadSeeker)
	if !ok {
		return nil, fmt.Errorf("metadata: %s is not seekable", relPath)
	}
	return ReadMetadata(rs)
}
