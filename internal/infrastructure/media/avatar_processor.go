// Package media provides image processing for uploaded profile avatars.
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// AvatarProcessor decodes uploaded avatar images, squares and resizes
// them, and stores the result as webp.
type AvatarProcessor struct {
	basePath  string
	maxPixels int
	quality   float32
}

// NewAvatarProcessor creates a new AvatarProcessor instance.
func NewAvatarProcessor(basePath string, maxPixels int, quality float32) *AvatarProcessor {
	return &AvatarProcessor{
		basePath:  basePath,
		maxPixels: maxPixels,
		quality:   quality,
	}
}

// ProcessBase64Avatar handles a base64 avatar upload (with or without a
// data-URI prefix) and returns the stored file path.
func (p *AvatarProcessor) ProcessBase64Avatar(data, identityID string) (string, error) {
	if data == "" {
		return "", fmt.Errorf("empty base64 data")
	}

	// Strip any data URI prefix; format is sniffed from the bytes.
	if idx := strings.Index(data, "base64,"); idx >= 0 {
		data = data[idx+len("base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("invalid base64 image data: %w", err)
	}

	src, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("unsupported image format: %w", err)
	}

	// Square-crop around the center, then clamp to the avatar size.
	side := src.Bounds().Dx()
	if h := src.Bounds().Dy(); h < side {
		side = h
	}
	squared := imaging.CropCenter(src, side, side)
	if side > p.maxPixels {
		squared = imaging.Resize(squared, p.maxPixels, p.maxPixels, imaging.Lanczos)
	}

	targetDir := filepath.Join(p.basePath, "avatars")
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create avatar directory: %w", err)
	}

	target := filepath.Join(targetDir, identityID+".webp")
	if err := webp.Save(target, squared, &webp.Options{Quality: p.quality}); err != nil {
		return "", fmt.Errorf("failed to write avatar: %w", err)
	}
	return target, nil
}
