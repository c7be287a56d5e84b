// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package codec wraps the WebP decoder and PNG encoder used by the converter.
package codec

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/webp"

	"github.com/pdiddy/webp2png/pkg/types"
)

// DecodeWebP decodes a lossy or lossless WebP stream, with or without alpha.
// Lossy images without alpha decode to *image.YCbCr, lossy images with alpha
// to *image.NYCbCrA and lossless images to *image.NRGBA.
func DecodeWebP(r io.Reader) (image.Image, error) {
	img, err := webp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding webp: %w", err)
	}
	return img, nil
}

// WebPConfig returns the dimensions and colour model of a WebP stream
// without decoding the pixel data.
func WebPConfig(r io.Reader) (image.Config, error) {
	cfg, err := webp.DecodeConfig(r)
	if err != nil {
		return image.Config{}, fmt.Errorf("reading webp header: %w", err)
	}
	return cfg, nil
}

// ParseCompression maps a configured compression name to its constant.
// An empty string selects CompressionBest.
func ParseCompression(s string) (types.Compression, error) {
	switch c := types.Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return types.CompressionBest, nil
	case types.CompressionDefault, types.CompressionBest, types.CompressionSpeed, types.CompressionNone:
		return c, nil
	default:
		return "", fmt.Errorf("unknown compression %q: want default, best, speed, or none", s)
	}
}

// EncodePNG writes img as PNG at the given compression level. An image
// whose Opaque method reports true is written without an alpha channel.
func EncodePNG(w io.Writer, img image.Image, c types.Compression) error {
	enc := &png.Encoder{CompressionLevel: pngLevel(c)}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

func pngLevel(c types.Compression) png.CompressionLevel {
	switch c {
	case types.CompressionBest:
		return png.BestCompression
	case types.CompressionSpeed:
		return png.BestSpeed
	case types.CompressionNone:
		return png.NoCompression
	default:
		return png.DefaultCompression
	}
}
