package pngpayload_test

import (
	"testing"

	pngpayload "github.com/bep/pngpayload"
	qt "github.com/frankban/quicktest"
)

func TestEndianSwap(t *testing.T) {
	c := qt.New(t)

	c.Assert(pngpayload.EndianSwap16(0x1234), qt.Equals, uint16(0x3412))
	c.Assert(pngpayload.EndianSwap32(0x12345678), qt.Equals, uint32(0x78563412))
	c.Assert(pngpayload.EndianSwap32(pngpayload.EndianSwap32(0xdeadbeef)), qt.Equals, uint32(0xdeadbeef))
}

func TestBase64RoundTrip(t *testing.T) {
	c := qt.New(t)

	for _, data := range [][]byte{
		nil,
		{0},
		[]byte("a"),
		[]byte("ab"),
		[]byte("abc"),
		[]byte("Just an arbitrary payload, nothing suspicious here!"),
		{0xff, 0x00, 0x80, 0x7f},
	} {
		s := pngpayload.Base64Encode(data)
		c.Assert(pngpayload.IsBase64String(s), qt.IsTrue)

		decoded, err := pngpayload.Base64Decode(s)
		c.Assert(err, qt.IsNil)
		c.Assert(decoded, qt.DeepEquals, data)
	}
}

func TestIsBase64String(t *testing.T) {
	c := qt.New(t)

	c.Assert(pngpayload.IsBase64String("SGVsbG8="), qt.IsTrue)
	c.Assert(pngpayload.IsBase64String("SGVsbG8hIQ=="), qt.IsTrue)
	c.Assert(pngpayload.IsBase64String(""), qt.IsTrue)

	// '=' is only valid as trailing padding.
	c.Assert(pngpayload.IsBase64String("SGV=bG8h"), qt.IsFalse)
	c.Assert(pngpayload.IsBase64String("SGVsbG8h!"), qt.IsFalse)
	c.Assert(pngpayload.IsBase64String("SGVsbG8h "), qt.IsFalse)
	c.Assert(pngpayload.IsBase64String("not base64!"), qt.IsFalse)
}

func TestBase64DecodeErrors(t *testing.T) {
	c := qt.New(t)

	_, err := pngpayload.Base64Decode("SGVsbG8h!")
	var charErr *pngpayload.InvalidBase64CharacterError
	c.Assert(err, qt.ErrorAs, &charErr)
	c.Assert(charErr.Char, qt.Equals, byte('!'))

	// Valid alphabet, invalid shape.
	_, err = pngpayload.Base64Decode("A")
	var strErr *pngpayload.InvalidBase64StringError
	c.Assert(err, qt.ErrorAs, &strErr)
}
