// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package samples draws demonstration images and writes them as WebP files
// for trying out the converter. Opaque samples are lossy; the overlay sample
// is lossless with a translucent alpha channel.
package samples

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/dustin/go-humanize"
	"github.com/fogleman/gg"

	"github.com/pdiddy/webp2png/internal/codec"
	"github.com/pdiddy/webp2png/pkg/types"
)

const (
	// DefaultDir is where samples are written when no directory is configured.
	DefaultDir     = "demo_images"
	defaultQuality = 90
)

// Sample is one generated demonstration image.
type Sample struct {
	// Name is the file name, including the .webp extension.
	Name string
	// Lossless selects VP8L encoding; alpha is only kept exactly in that mode.
	Lossless bool
	// Draw renders the image.
	Draw func() image.Image
}

// All returns the built-in samples in generation order.
func All() []Sample {
	return []Sample{
		{Name: "gradient.webp", Draw: drawGradient},
		{Name: "shapes.webp", Draw: drawShapes},
		{Name: "text_effects.webp", Draw: drawTextEffects},
		{Name: "test_image.webp", Draw: drawTestImage},
		{Name: "overlay.webp", Lossless: true, Draw: drawOverlay},
	}
}

// Generate writes every sample into cfg.Dir, printing one line per file to
// w, and returns the written paths.
func Generate(cfg types.SamplesConfig, w io.Writer) ([]string, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = DefaultDir
	}
	quality := cfg.Quality
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	var paths []string
	for _, s := range All() {
		path := filepath.Join(dir, s.Name)
		hdr, n, err := write(path, s.Draw(), s.Lossless, quality)
		if err != nil {
			return paths, fmt.Errorf("writing sample %s: %w", s.Name, err)
		}
		fmt.Fprintf(w, "created: %s (%dx%d, %s)\n", path, hdr.Width, hdr.Height, humanize.Bytes(uint64(n)))
		paths = append(paths, path)
	}
	return paths, nil
}

// write encodes img as WebP to path. It returns the header read back from
// the encoded stream and the file size.
func write(path string, img image.Image, lossless bool, quality float32) (image.Config, int, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: lossless, Quality: quality}); err != nil {
		return image.Config{}, 0, fmt.Errorf("encoding webp: %w", err)
	}
	hdr, err := codec.WebPConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return image.Config{}, 0, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return image.Config{}, 0, err
	}
	return hdr, buf.Len(), nil
}

// drawGradient is a vertical red-to-lavender gradient with a caption.
func drawGradient() image.Image {
	const w, h = 300, 200
	dc := gg.NewContext(w, h)
	for y := 0; y < h; y++ {
		r := 255 - y*100/h
		g := 107 + y*50/h
		b := 107 + y*100/h
		dc.SetRGB255(r, g, b)
		dc.DrawRectangle(0, float64(y), w, 1)
		dc.Fill()
	}
	dc.SetHexColor("#ffffff")
	dc.DrawString("Gradient", 50, 80)
	return dc.Image()
}

// drawShapes is a circle, rectangle and triangle on a teal background.
func drawShapes() image.Image {
	dc := gg.NewContext(300, 200)
	dc.SetHexColor("#4ECDC4")
	dc.Clear()

	dc.DrawCircle(100, 100, 50)
	dc.SetHexColor("#FFE66D")
	dc.FillPreserve()
	dc.SetHexColor("#FF6B6B")
	dc.SetLineWidth(3)
	dc.Stroke()

	dc.DrawRectangle(180, 80, 70, 40)
	dc.SetHexColor("#FF6B6B")
	dc.FillPreserve()
	dc.SetHexColor("#4ECDC4")
	dc.SetLineWidth(2)
	dc.Stroke()

	dc.MoveTo(200, 150)
	dc.LineTo(220, 180)
	dc.LineTo(240, 150)
	dc.ClosePath()
	dc.SetHexColor("#FFE66D")
	dc.Fill()

	dc.SetHexColor("#ffffff")
	dc.DrawString("Shapes", 100, 20)
	return dc.Image()
}

// drawTextEffects is shadowed text over a grid.
func drawTextEffects() image.Image {
	const w, h = 300, 200
	dc := gg.NewContext(w, h)
	dc.SetHexColor("#45B7D1")
	dc.Clear()

	dc.SetHexColor("#2C3E50")
	dc.SetLineWidth(1)
	for x := 0; x < w; x += 20 {
		dc.DrawLine(float64(x), 0, float64(x), h)
	}
	for y := 0; y < h; y += 20 {
		dc.DrawLine(0, float64(y), w, float64(y))
	}
	dc.Stroke()

	const text = "TEXT EFFECTS"
	dc.SetHexColor("#34495E")
	dc.DrawString(text, 52, 82)
	dc.SetHexColor("#ECF0F1")
	dc.DrawString(text, 50, 80)
	return dc.Image()
}

// drawTestImage is a blue-to-white gradient with centred text and a border.
func drawTestImage() image.Image {
	const w, h = 400, 300
	dc := gg.NewContext(w, h)
	for y := 0; y < h; y++ {
		dc.SetRGB255(74+(255-74)*y/h, 144+(255-144)*y/h, 226+(255-226)*y/h)
		dc.DrawRectangle(0, float64(y), w, 1)
		dc.Fill()
	}

	const text = "Test WebP Image"
	dc.SetHexColor("#2C3E50")
	dc.DrawStringAnchored(text, w/2+2, h/2+2, 0.5, 0.5)
	dc.SetHexColor("#ffffff")
	dc.DrawStringAnchored(text, w/2, h/2, 0.5, 0.5)

	dc.SetLineWidth(3)
	dc.DrawRectangle(10, 10, w-20, h-20)
	dc.Stroke()
	return dc.Image()
}

// drawOverlay is a set of translucent discs on a transparent canvas.
func drawOverlay() image.Image {
	const w, h = 200, 200
	dc := gg.NewContext(w, h)

	dc.SetRGBA255(255, 107, 107, 255)
	dc.DrawCircle(70, 80, 50)
	dc.Fill()

	dc.SetRGBA255(78, 205, 196, 160)
	dc.DrawCircle(130, 80, 50)
	dc.Fill()

	dc.SetRGBA255(255, 230, 109, 96)
	dc.DrawCircle(100, 130, 50)
	dc.Fill()

	return dc.Image()
}
