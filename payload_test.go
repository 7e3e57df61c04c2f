package pngpayload_test

import (
	"testing"

	pngpayload "github.com/bep/pngpayload"
	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

var payloadBody = []byte("Just an arbitrary payload, nothing suspicious here!")

func TestTextPayloadRoundTrip(t *testing.T) {
	c := qt.New(t)

	c.Assert(payloadBody, qt.HasLen, 51)

	p := newTestPayload(c, 16, 16, pngpayload.AlphaTrueColorPixel8Bit, 21)
	_, err := p.AddTextPayload("tEXt payload", payloadBody)
	c.Assert(err, qt.IsNil)

	p2 := reload(c, p)

	// The emitted chunk body is keyword, separator, base64 of the payload.
	chunks, err := p2.GetChunks("tEXt")
	c.Assert(err, qt.IsNil)
	c.Assert(chunks, qt.HasLen, 1)
	wantBody := append([]byte("tEXt payload\x00"), pngpayload.Base64Encode(payloadBody)...)
	c.Assert(chunks[0].Data(), qt.DeepEquals, wantBody)

	got, err := p2.ExtractTextPayloads("tEXt payload")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.HasLen, 1)
	c.Assert(got[0], qt.DeepEquals, payloadBody)
}

func TestZTextPayloadRoundTrip(t *testing.T) {
	c := qt.New(t)

	p := newTestPayload(c, 16, 16, pngpayload.AlphaTrueColorPixel8Bit, 23)
	_, err := p.AddZTextPayload("zTXt payload", payloadBody)
	c.Assert(err, qt.IsNil)

	p2 := reload(c, p)

	// The emitted chunk body is keyword, separator, method byte, deflated
	// base64 of the payload.
	chunks, err := p2.GetChunks("zTXt")
	c.Assert(err, qt.IsNil)
	c.Assert(chunks, qt.HasLen, 1)
	data := chunks[0].Data()
	c.Assert(string(data[:14]), qt.Equals, "zTXt payload\x00\x00")
	inflated, err := pngpayload.Decompress(data[14:])
	c.Assert(err, qt.IsNil)
	c.Assert(string(inflated), qt.Equals, pngpayload.Base64Encode(payloadBody))

	got, err := p2.ExtractZTextPayloads("zTXt payload")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.HasLen, 1)
	c.Assert(got[0], qt.DeepEquals, payloadBody)
}

func TestTextPayloadMultiple(t *testing.T) {
	c := qt.New(t)

	p := newTestPayload(c, 8, 8, pngpayload.TrueColorPixel8Bit, 25)
	first := []byte("first")
	second := []byte("second")
	_, err := p.AddTextPayload("multi", first)
	c.Assert(err, qt.IsNil)
	_, err = p.AddTextPayload("multi", second)
	c.Assert(err, qt.IsNil)
	_, err = p.AddTextPayload("other", []byte("unrelated"))
	c.Assert(err, qt.IsNil)

	got, err := reload(c, p).ExtractTextPayloads("multi")
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.CmpEquals(cmp.Transformer("s", func(b []byte) string { return string(b) })), [][]byte{first, second})
}

func TestTextPayloadInvalidBase64FailsWholeCall(t *testing.T) {
	c := qt.New(t)

	p := newTestPayload(c, 8, 8, pngpayload.TrueColorPixel8Bit, 27)
	_, err := p.AddTextPayload("kw", []byte("fine"))
	c.Assert(err, qt.IsNil)
	_, err = p.AddText("kw", "not base64 at all!")
	c.Assert(err, qt.IsNil)

	var b64Err *pngpayload.InvalidBase64StringError
	_, err = p.ExtractTextPayloads("kw")
	c.Assert(err, qt.ErrorAs, &b64Err)
}

func TestTextPayloadMissingGroup(t *testing.T) {
	c := qt.New(t)

	p := newTestPayload(c, 8, 8, pngpayload.TrueColorPixel8Bit, 29)

	var notFound *pngpayload.ChunkNotFoundError
	_, err := p.ExtractTextPayloads("absent")
	c.Assert(err, qt.ErrorAs, &notFound)
	c.Assert(notFound.Tag, qt.Equals, "tEXt")
}

func TestRemoveTextPayload(t *testing.T) {
	c := qt.New(t)

	p := newTestPayload(c, 8, 8, pngpayload.TrueColorPixel8Bit, 31)
	_, err := p.AddTextPayload("kw", []byte("payload"))
	c.Assert(err, qt.IsNil)

	c.Assert(p.RemoveTextPayload("kw", []byte("missing")), qt.Equals, pngpayload.ErrTextNotFound)
	c.Assert(p.RemoveTextPayload("kw", []byte("payload")), qt.IsNil)

	texts, err := p.GetText("kw")
	c.Assert(err, qt.IsNil)
	c.Assert(texts, qt.HasLen, 0)
}
