package pngpayload_test

import (
	"bytes"
	"testing"

	pngpayload "github.com/bep/pngpayload"
	qt "github.com/frankban/quicktest"
)

func TestCompressRoundTrip(t *testing.T) {
	c := qt.New(t)

	data := bytes.Repeat([]byte("compressible payload "), 100)

	for _, level := range []int{
		pngpayload.CompressionDefault,
		pngpayload.CompressionNone,
		1,
		pngpayload.CompressionBest,
	} {
		compressed, err := pngpayload.Compress(data, level)
		c.Assert(err, qt.IsNil)

		decompressed, err := pngpayload.Decompress(compressed)
		c.Assert(err, qt.IsNil)
		c.Assert(decompressed, qt.DeepEquals, data)
	}
}

func TestCompressInvalidLevel(t *testing.T) {
	c := qt.New(t)

	_, err := pngpayload.Compress([]byte("x"), 42)
	var zerr *pngpayload.ZlibError
	c.Assert(err, qt.ErrorAs, &zerr)
}

func TestDecompressGarbage(t *testing.T) {
	c := qt.New(t)

	_, err := pngpayload.Decompress([]byte("definitely not a zlib stream"))
	var zerr *pngpayload.ZlibError
	c.Assert(err, qt.ErrorAs, &zerr)
}
