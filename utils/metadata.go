package utils

import (
	"bytes"
	"image"
	"log"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
)

// CaptureMetadata is the subset of EXIF data recorded when a reference image
// is enrolled
type CaptureMetadata struct {
	Width       *int    `json:"width,omitempty"`
	Height      *int    `json:"height,omitempty"`
	CameraMake  *string `json:"camera_make,omitempty"`
	CameraModel *string `json:"camera_model,omitempty"`
	TakenAt     *int64  `json:"taken_at,omitempty"`
}

// helper to safely get a string tag, trimming null terminators
func getString(exifData *exif.Exif, tagName exif.FieldName) *string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	val := strings.Trim(strings.TrimRight(tag.String(), "\x00"), "\"")
	if val == "" {
		return nil
	}
	return &val
}

// GetCaptureMetadata extracts capture metadata from raw image bytes. Missing
// EXIF data is normal (webcam captures rarely carry any) and yields a struct
// with only the decodable dimensions.
func GetCaptureMetadata(data []byte) CaptureMetadata {
	meta := CaptureMetadata{}

	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		w, h := config.Width, config.Height
		meta.Width = &w
		meta.Height = &h
	}

	exifData, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		// not necessarily a problem, file might just lack EXIF data
		log.Printf("metadata: no EXIF data found: %v", err)
		return meta
	}

	meta.CameraMake = getString(exifData, exif.Make)
	meta.CameraModel = getString(exifData, exif.Model)

	if dt, err := exifData.DateTime(); err == nil {
		ts := dt.Unix()
		meta.TakenAt = &ts
	}

	return meta
}
