package pngpayload_test

import (
	"testing"

	pngpayload "github.com/bep/pngpayload"
	qt "github.com/frankban/quicktest"
)

func FuzzParseImage(f *testing.F) {
	c := qt.New(f)

	seed := newTestPayload(c, 8, 8, pngpayload.TrueColorPixel8Bit, 71)
	seed.SetTrailingData([]byte("trailing"))
	if _, err := seed.AddTextPayload("kw", []byte("payload")); err != nil {
		f.Fatal(err)
	}
	f.Add(seed.ToFile())
	f.Add([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	f.Add([]byte("not a png at all"))

	f.Fuzz(func(t *testing.T, data []byte) {
		img, err := pngpayload.ParseImage(data, true)
		if err != nil {
			return
		}

		// Anything that parses must serialize and reparse cleanly.
		out := img.ToFile()
		if _, err := pngpayload.ParseImage(out, true); err != nil {
			t.Fatalf("reparse failed: %v", err)
		}
	})
}

func FuzzParseIcon(f *testing.F) {
	c := qt.New(f)

	ico := newTestIcon(c, 2)
	file, err := ico.ToFile()
	if err != nil {
		f.Fatal(err)
	}
	f.Add(file)
	f.Add([]byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		ico, err := pngpayload.ParseIcon(data)
		if err != nil {
			return
		}
		if ico.Size() == 0 {
			return
		}
		out, err := ico.ToFile()
		if err != nil {
			t.Fatalf("serialize failed: %v", err)
		}
		if _, err := pngpayload.ParseIcon(out); err != nil {
			t.Fatalf("reparse failed: %v", err)
		}
	})
}
