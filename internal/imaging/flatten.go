// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imaging normalizes decoded rasters into opaque three-channel
// images. Transparent sources are composited onto a solid background with
// the standard "over" operator; opaque sources are converted to RGB.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// White is the default background for transparent pixels.
var White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Flatten returns an opaque RGB rendition of img with the same width and
// height. The result bounds start at the origin.
//
// If img carries an alpha channel, it is composited over a canvas filled
// with bg: out = src*a + bg*(1-a) per channel. Otherwise it is converted
// with the standard colour model rules. An *RGB input whose bounds start
// at the origin is returned as is; one with an offset is returned as a
// re-based view sharing the same pixels.
func Flatten(img image.Image, bg color.Color) *RGB {
	if rgb, ok := img.(*RGB); ok {
		if rgb.Rect.Min == (image.Point{}) {
			return rgb
		}
		return &RGB{
			Pix:    rgb.Pix,
			Stride: rgb.Stride,
			Rect:   image.Rect(0, 0, rgb.Rect.Dx(), rgb.Rect.Dy()),
		}
	}
	if HasAlpha(img) {
		return composite(img, bg)
	}
	return toRGB(img)
}

// HasAlpha reports whether img's colour mode carries a transparency
// channel. It classifies by mode, not by pixel content: an NRGBA image whose
// pixels are all opaque still carries alpha.
func HasAlpha(img image.Image) bool {
	switch m := img.(type) {
	case *RGB, *image.Gray, *image.Gray16, *image.YCbCr, *image.CMYK:
		return false
	case *image.Paletted:
		for _, c := range m.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
		return false
	}

	switch img.ColorModel() {
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model,
		color.NYCbCrAModel, color.AlphaModel, color.Alpha16Model:
		return true
	}
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	// Unknown models are composited.
	return true
}

// composite draws img over a canvas filled with bg.
func composite(img image.Image, bg color.Color) *RGB {
	b := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(opaque(bg)), image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Over)
	return fromRGBA(canvas)
}

// fromRGBA drops the alpha byte of an opaque RGBA canvas.
func fromRGBA(src *image.RGBA) *RGB {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := NewRGB(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		si := y * src.Stride
		di := y * dst.Stride
		for x := 0; x < w; x++ {
			dst.Pix[di+0] = src.Pix[si+0]
			dst.Pix[di+1] = src.Pix[si+1]
			dst.Pix[di+2] = src.Pix[si+2]
			si += 4
			di += 3
		}
	}
	return dst
}

// toRGB converts an opaque image. Gray values are replicated across the
// three channels; YCbCr uses the JFIF conversion.
func toRGB(img image.Image) *RGB {
	b := img.Bounds()
	dst := NewRGB(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch m := img.(type) {
	case *image.Gray:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				v := m.GrayAt(x, y).Y
				dst.SetRGB(x-b.Min.X, y-b.Min.Y, v, v, v)
			}
		}
	case *image.YCbCr:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := m.YCbCrAt(x, y)
				r, g, bl := color.YCbCrToRGB(c.Y, c.Cb, c.Cr)
				dst.SetRGB(x-b.Min.X, y-b.Min.Y, r, g, bl)
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				r, g, bl, _ := img.At(x, y).RGBA()
				dst.SetRGB(x-b.Min.X, y-b.Min.Y, uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			}
		}
	}
	return dst
}

// opaque returns c with its alpha forced to 0xff.
func opaque(c color.Color) color.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return color.RGBA{R: n.R, G: n.G, B: n.B, A: 0xff}
}

// ParseHexColor parses "#rgb" or "#rrggbb" (the leading '#' is optional)
// into an opaque colour.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q: want #rgb or #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
