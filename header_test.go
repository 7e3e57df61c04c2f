package pngpayload_test

import (
	"testing"

	pngpayload "github.com/bep/pngpayload"
	qt "github.com/frankban/quicktest"
)

func TestHeaderAccessors(t *testing.T) {
	c := qt.New(t)

	h := pngpayload.NewHeader()
	err := h.Set(256, 256, 8, pngpayload.ColorAlphaTrueColor, 0, 0, 0)
	c.Assert(err, qt.IsNil)

	width, err := h.Width()
	c.Assert(err, qt.IsNil)
	c.Assert(width, qt.Equals, uint32(256))

	height, err := h.Height()
	c.Assert(err, qt.IsNil)
	c.Assert(height, qt.Equals, uint32(256))

	bd, err := h.BitDepth()
	c.Assert(err, qt.IsNil)
	c.Assert(bd, qt.Equals, uint8(8))

	ct, err := h.ColorType()
	c.Assert(err, qt.IsNil)
	c.Assert(ct, qt.Equals, pngpayload.ColorAlphaTrueColor)

	pt, err := h.PixelType()
	c.Assert(err, qt.IsNil)
	c.Assert(pt, qt.Equals, pngpayload.AlphaTrueColorPixel8Bit)

	bits, err := h.PixelBits()
	c.Assert(err, qt.IsNil)
	c.Assert(bits, qt.Equals, 32)

	// One filter byte per row plus 4 bytes per pixel.
	size, err := h.BufferSize()
	c.Assert(err, qt.IsNil)
	c.Assert(size, qt.Equals, 256*(1+256*4))
}

func TestHeaderPixelTypes(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		colorType pngpayload.ColorType
		bitDepth  uint8
		pixelType pngpayload.PixelType
	}{
		{pngpayload.ColorGrayscale, 1, pngpayload.GrayscalePixel1Bit},
		{pngpayload.ColorGrayscale, 2, pngpayload.GrayscalePixel2Bit},
		{pngpayload.ColorGrayscale, 4, pngpayload.GrayscalePixel4Bit},
		{pngpayload.ColorGrayscale, 8, pngpayload.GrayscalePixel8Bit},
		{pngpayload.ColorGrayscale, 16, pngpayload.GrayscalePixel16Bit},
		{pngpayload.ColorTrueColor, 8, pngpayload.TrueColorPixel8Bit},
		{pngpayload.ColorTrueColor, 16, pngpayload.TrueColorPixel16Bit},
		{pngpayload.ColorPalette, 1, pngpayload.PalettePixel1Bit},
		{pngpayload.ColorPalette, 2, pngpayload.PalettePixel2Bit},
		{pngpayload.ColorPalette, 4, pngpayload.PalettePixel4Bit},
		{pngpayload.ColorPalette, 8, pngpayload.PalettePixel8Bit},
		{pngpayload.ColorAlphaGrayscale, 8, pngpayload.AlphaGrayscalePixel8Bit},
		{pngpayload.ColorAlphaGrayscale, 16, pngpayload.AlphaGrayscalePixel16Bit},
		{pngpayload.ColorAlphaTrueColor, 8, pngpayload.AlphaTrueColorPixel8Bit},
		{pngpayload.ColorAlphaTrueColor, 16, pngpayload.AlphaTrueColorPixel16Bit},
	}

	for _, test := range tests {
		h := pngpayload.NewHeader()
		c.Assert(h.Set(1, 1, test.bitDepth, test.colorType, 0, 0, 0), qt.IsNil)
		pt, err := h.PixelType()
		c.Assert(err, qt.IsNil)
		c.Assert(pt, qt.Equals, test.pixelType)
	}
}

func TestHeaderInvalidCombinations(t *testing.T) {
	c := qt.New(t)

	var depthErr *pngpayload.InvalidBitDepthError
	var colorErr *pngpayload.InvalidColorTypeError

	h := pngpayload.NewHeader()
	c.Assert(h.Set(1, 1, 4, pngpayload.ColorTrueColor, 0, 0, 0), qt.IsNil)
	_, err := h.PixelType()
	c.Assert(err, qt.ErrorAs, &depthErr)
	c.Assert(depthErr.Depth, qt.Equals, uint8(4))

	c.Assert(h.Set(1, 1, 16, pngpayload.ColorPalette, 0, 0, 0), qt.IsNil)
	_, err = h.PixelType()
	c.Assert(err, qt.ErrorAs, &depthErr)

	c.Assert(h.Set(1, 1, 8, pngpayload.ColorType(5), 0, 0, 0), qt.IsNil)
	_, err = h.PixelType()
	c.Assert(err, qt.ErrorAs, &colorErr)
	c.Assert(colorErr.ColorType, qt.Equals, uint8(5))
}

func TestHeaderBufferSizePacked(t *testing.T) {
	c := qt.New(t)

	// 10 pixels at 1 bit each pack into 2 bytes per row.
	h := pngpayload.NewHeader()
	c.Assert(h.Set(10, 3, 1, pngpayload.ColorGrayscale, 0, 0, 0), qt.IsNil)
	size, err := h.BufferSize()
	c.Assert(err, qt.IsNil)
	c.Assert(size, qt.Equals, 3*(1+2))

	// 16-bit grayscale, two bytes per pixel.
	c.Assert(h.Set(5, 2, 16, pngpayload.ColorGrayscale, 0, 0, 0), qt.IsNil)
	size, err = h.BufferSize()
	c.Assert(err, qt.IsNil)
	c.Assert(size, qt.Equals, 2*(1+10))
}

func TestHeaderShortData(t *testing.T) {
	c := qt.New(t)

	chunk, err := pngpayload.NewChunk("IHDR", make([]byte, 4))
	c.Assert(err, qt.IsNil)

	img := pngpayload.NewImage()
	img.AddChunk(chunk)

	h, err := img.Header()
	c.Assert(err, qt.IsNil)

	var sizeErr *pngpayload.InsufficientSizeError
	_, err = h.Width()
	c.Assert(err, qt.ErrorAs, &sizeErr)
	c.Assert(sizeErr.Needed, qt.Equals, 13)
}
