// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nrgbaFill returns a w×h NRGBA image where every pixel is c.
func nrgbaFill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestHasAlpha(t *testing.T) {
	r := image.Rect(0, 0, 2, 2)
	tests := []struct {
		name string
		img  image.Image
		want bool
	}{
		{"rgb", NewRGB(r), false},
		{"gray", image.NewGray(r), false},
		{"gray16", image.NewGray16(r), false},
		{"ycbcr", image.NewYCbCr(r, image.YCbCrSubsampleRatio420), false},
		{"cmyk", image.NewCMYK(r), false},
		{"nrgba", image.NewNRGBA(r), true},
		{"rgba", image.NewRGBA(r), true},
		{"nrgba64", image.NewNRGBA64(r), true},
		{"nycbcra", image.NewNYCbCrA(r, image.YCbCrSubsampleRatio444), true},
		{"alpha", image.NewAlpha(r), true},
		{"opaque palette", image.NewPaletted(r, color.Palette{color.Black, color.White}), false},
		{"palette with transparent entry", image.NewPaletted(r, color.Palette{color.Black, color.Transparent}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasAlpha(tt.img))
		})
	}
}

func TestFlatten_RGBPassthrough(t *testing.T) {
	src := NewRGB(image.Rect(0, 0, 3, 2))
	src.SetRGB(1, 1, 10, 20, 30)

	got := Flatten(src, White)
	assert.Same(t, src, got, "an RGB image should be returned unchanged")
}

func TestFlatten_OpaqueInputsAreIdentity(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 3))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i * 20)
	}

	ycc := image.NewYCbCr(image.Rect(0, 0, 4, 4), image.YCbCrSubsampleRatio444)
	for i := range ycc.Y {
		ycc.Y[i] = uint8(i * 15)
		ycc.Cb[i] = uint8(100 + i)
		ycc.Cr[i] = uint8(200 - i)
	}

	opaqueRGBA := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for i := 0; i < len(opaqueRGBA.Pix); i += 4 {
		opaqueRGBA.Pix[i+0] = uint8(i)
		opaqueRGBA.Pix[i+1] = uint8(255 - i)
		opaqueRGBA.Pix[i+2] = uint8(i * 2)
		opaqueRGBA.Pix[i+3] = 0xff
	}

	for name, src := range map[string]image.Image{
		"gray":        gray,
		"ycbcr":       ycc,
		"opaque rgba": opaqueRGBA,
	} {
		t.Run(name, func(t *testing.T) {
			got := Flatten(src, White)
			b := src.Bounds()
			require.Equal(t, b.Dx(), got.Bounds().Dx())
			require.Equal(t, b.Dy(), got.Bounds().Dy())
			assert.True(t, got.Opaque())

			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					want := color.RGBAModel.Convert(src.At(x, y)).(color.RGBA)
					assert.Equal(t, want, got.RGBAt(x-b.Min.X, y-b.Min.Y), "pixel (%d,%d)", x, y)
				}
			}
		})
	}
}

func TestFlatten_GrayReplicatedAcrossChannels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 1, 1))
	gray.SetGray(0, 0, color.Gray{Y: 77})

	got := Flatten(gray, White)
	assert.Equal(t, color.RGBA{R: 77, G: 77, B: 77, A: 0xff}, got.RGBAt(0, 0))
}

func TestFlatten_AlphaCompositing(t *testing.T) {
	tests := []struct {
		name string
		src  color.NRGBA
		bg   color.RGBA
		want color.RGBA
	}{
		{
			name: "fully opaque pixel unchanged",
			src:  color.NRGBA{R: 12, G: 200, B: 99, A: 255},
			bg:   White,
			want: color.RGBA{R: 12, G: 200, B: 99, A: 255},
		},
		{
			name: "fully transparent pixel becomes white",
			src:  color.NRGBA{R: 12, G: 200, B: 99, A: 0},
			bg:   White,
			want: White,
		},
		{
			name: "fully transparent pixel takes custom background",
			src:  color.NRGBA{R: 1, G: 2, B: 3, A: 0},
			bg:   color.RGBA{R: 0x20, G: 0x40, B: 0x60, A: 0xff},
			want: color.RGBA{R: 0x20, G: 0x40, B: 0x60, A: 0xff},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flatten(nrgbaFill(2, 2, tt.src), tt.bg)
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					assert.Equal(t, tt.want, got.RGBAt(x, y))
				}
			}
		})
	}
}

func TestFlatten_IntermediateAlphaInterpolates(t *testing.T) {
	src := color.NRGBA{R: 0, G: 100, B: 200, A: 0}
	for _, a := range []uint8{1, 64, 128, 191, 254} {
		src.A = a
		got := Flatten(nrgbaFill(1, 1, src), White).RGBAt(0, 0)

		f := float64(a) / 255
		expect := func(c uint8) float64 { return float64(c)*f + 255*(1-f) }
		assert.InDelta(t, expect(src.R), float64(got.R), 1.0, "alpha %d red", a)
		assert.InDelta(t, expect(src.G), float64(got.G), 1.0, "alpha %d green", a)
		assert.InDelta(t, expect(src.B), float64(got.B), 1.0, "alpha %d blue", a)
		assert.Equal(t, uint8(0xff), got.A)
	}
}

func TestFlatten_OffsetBoundsRebased(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 7, 8, 9))
	src.SetNRGBA(5, 7, color.NRGBA{R: 9, G: 8, B: 7, A: 255})

	got := Flatten(src, White)
	assert.Equal(t, image.Rect(0, 0, 3, 2), got.Bounds())
	assert.Equal(t, color.RGBA{R: 9, G: 8, B: 7, A: 255}, got.RGBAt(0, 0))
	assert.Equal(t, White, got.RGBAt(2, 1))
}

func TestFlatten_OffsetRGBRebased(t *testing.T) {
	src := NewRGB(image.Rect(4, 2, 7, 4))
	src.SetRGB(4, 2, 1, 2, 3)
	src.SetRGB(6, 3, 40, 50, 60)

	got := Flatten(src, White)
	assert.NotSame(t, src, got)
	assert.Equal(t, image.Rect(0, 0, 3, 2), got.Bounds())
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, got.RGBAt(0, 0))
	assert.Equal(t, color.RGBA{R: 40, G: 50, B: 60, A: 255}, got.RGBAt(2, 1))
	assert.Equal(t, image.Rect(4, 2, 7, 4), src.Bounds(), "input is left untouched")
}

func TestRGB_SetDiscardsAlpha(t *testing.T) {
	img := NewRGB(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	img.Set(5, 5, color.White) // out of bounds is a no-op

	assert.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 255}, img.RGBAt(0, 0))
	assert.Equal(t, color.RGBA{}, img.RGBAt(5, 5))
	assert.Len(t, img.Pix, 6)
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{in: "#ffffff", want: White},
		{in: "FF6B6B", want: color.RGBA{R: 0xff, G: 0x6b, B: 0x6b, A: 0xff}},
		{in: "#4ecdc4", want: color.RGBA{R: 0x4e, G: 0xcd, B: 0xc4, A: 0xff}},
		{in: "#000", want: color.RGBA{A: 0xff}},
		{in: " #abc ", want: color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}},
		{in: "#abcd", wantErr: true},
		{in: "#zzzzzz", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
