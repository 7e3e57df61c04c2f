package pngpayload_test

import (
	"encoding/binary"
	"math/rand"

	pngpayload "github.com/bep/pngpayload"
	qt "github.com/frankban/quicktest"
)

// headerParams maps a pixel type back onto its IHDR bit depth and color type.
func headerParams(pt pngpayload.PixelType) (uint8, pngpayload.ColorType) {
	switch pt {
	case pngpayload.GrayscalePixel1Bit:
		return 1, pngpayload.ColorGrayscale
	case pngpayload.GrayscalePixel2Bit:
		return 2, pngpayload.ColorGrayscale
	case pngpayload.GrayscalePixel4Bit:
		return 4, pngpayload.ColorGrayscale
	case pngpayload.GrayscalePixel8Bit:
		return 8, pngpayload.ColorGrayscale
	case pngpayload.GrayscalePixel16Bit:
		return 16, pngpayload.ColorGrayscale
	case pngpayload.TrueColorPixel8Bit:
		return 8, pngpayload.ColorTrueColor
	case pngpayload.TrueColorPixel16Bit:
		return 16, pngpayload.ColorTrueColor
	case pngpayload.PalettePixel8Bit:
		return 8, pngpayload.ColorPalette
	case pngpayload.AlphaGrayscalePixel8Bit:
		return 8, pngpayload.ColorAlphaGrayscale
	case pngpayload.AlphaTrueColorPixel8Bit:
		return 8, pngpayload.ColorAlphaTrueColor
	case pngpayload.AlphaTrueColorPixel16Bit:
		return 16, pngpayload.ColorAlphaTrueColor
	}
	panic("unhandled pixel type")
}

// newTestPayload builds an in-memory image with deterministic pseudo-random
// pixels and fresh IDAT chunks.
func newTestPayload(c *qt.C, width, height int, pt pngpayload.PixelType, seed int64) *pngpayload.Payload {
	c.Helper()

	p := pngpayload.NewPayload()
	bitDepth, colorType := headerParams(pt)
	c.Assert(p.NewHeader().Set(uint32(width), uint32(height), bitDepth, colorType, 0, 0, 0), qt.IsNil)

	rnd := rand.New(rand.NewSource(seed))
	lines := make([]*pngpayload.Scanline, height)
	for i := range lines {
		s := pngpayload.NewScanline(pt, width)
		data := s.Bytes()
		for j := range data {
			data[j] = byte(rnd.Intn(256))
		}
		lines[i] = s
	}

	c.Assert(p.SetScanlines(lines), qt.IsNil)
	c.Assert(p.CompressImageData(0, pngpayload.CompressionDefault), qt.IsNil)

	return p
}

// reload serializes a payload and parses the bytes back into a fresh one.
func reload(c *qt.C, p *pngpayload.Payload) *pngpayload.Payload {
	c.Helper()
	out, err := pngpayload.ParsePayload(p.ToFile(), true)
	c.Assert(err, qt.IsNil)
	return out
}

// scanlineBytes snapshots the raw bytes of every loaded scanline.
func scanlineBytes(c *qt.C, img *pngpayload.Image) [][]byte {
	c.Helper()
	out := make([][]byte, img.ScanlineCount())
	for i := range out {
		s, err := img.Scanline(i)
		c.Assert(err, qt.IsNil)
		out[i] = append([]byte(nil), s.Bytes()...)
	}
	return out
}

// fileChunkTags walks an emitted PNG byte stream and returns its chunk tags
// in order, independently of the package's own parser.
func fileChunkTags(c *qt.C, data []byte) []string {
	c.Helper()

	var tags []string
	offset := 8
	for offset < len(data) {
		length := int(binary.BigEndian.Uint32(data[offset:]))
		tag := string(data[offset+4 : offset+8])
		tags = append(tags, tag)
		offset += 12 + length
		if tag == "IEND" {
			break
		}
	}
	return tags
}
