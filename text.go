package pngpayload

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// maxKeywordLength is the PNG limit on tEXt/zTXt keywords.
const maxKeywordLength = 79

// Text chunks carry Latin-1 text per the PNG specification; Go strings are
// UTF-8, so keyword and body cross the charmap on the way in and out.
func encodeLatin1(s string) ([]byte, error) {
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("pngpayload: not latin-1: %w", err)
	}
	return b, nil
}

func decodeLatin1(b []byte) string {
	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(b)
	return string(out)
}

// Text is a typed view over a tEXt chunk: keyword, null separator, text.
type Text struct {
	c *Chunk
}

// NewText builds a tEXt chunk with the given keyword and text. A keyword
// longer than 79 bytes fails with ErrKeywordTooLong; an empty keyword is not
// rejected.
func NewText(keyword, text string) (*Text, error) {
	c, _ := NewChunk("tEXt", nil)
	t := &Text{c: c}
	if err := t.SetKeyword(keyword, true); err != nil {
		return nil, err
	}
	if err := t.SetText(text); err != nil {
		return nil, err
	}
	return t, nil
}

// TextView wraps an existing tEXt chunk in a typed view.
func TextView(c *Chunk) *Text {
	return &Text{c: c}
}

// Chunk returns the underlying chunk.
func (t *Text) Chunk() *Chunk { return t.c }

// nullTerminator returns the index of the keyword's null separator, or false
// when the chunk has no keyword.
func (t *Text) nullTerminator() (int, bool) {
	data := t.c.Data()
	for i, b := range data {
		if b == 0 {
			return i, true
		}
	}
	return 0, false
}

func (t *Text) textOffset() int {
	if zero, ok := t.nullTerminator(); ok {
		return zero + 1
	}
	return 0
}

// HasKeyword reports whether the chunk has a keyword.
func (t *Text) HasKeyword() bool {
	_, ok := t.nullTerminator()
	return ok
}

// Keyword returns the chunk's keyword.
func (t *Text) Keyword() (string, error) {
	zero, ok := t.nullTerminator()
	if !ok {
		return "", ErrNoKeyword
	}
	return decodeLatin1(t.c.Data()[:zero]), nil
}

// SetKeyword assigns the chunk's keyword. With validate set, keywords longer
// than 79 bytes fail with ErrKeywordTooLong; pass false to round-trip
// nonconforming data.
func (t *Text) SetKeyword(keyword string, validate bool) error {
	kw, err := encodeLatin1(keyword)
	if err != nil {
		return err
	}
	if validate && len(kw) > maxKeywordLength {
		return ErrKeywordTooLong
	}

	data := t.c.Data()
	if zero, ok := t.nullTerminator(); ok {
		data = data[zero+1:]
	}

	out := make([]byte, 0, len(kw)+1+len(data))
	out = append(out, kw...)
	out = append(out, 0)
	out = append(out, data...)
	t.c.SetData(out)
	return nil
}

// HasText reports whether the chunk has a text body.
func (t *Text) HasText() bool {
	data := t.c.Data()
	if zero, ok := t.nullTerminator(); ok {
		return len(data) > zero+1
	}
	return len(data) > 0
}

// Text returns the chunk's text body, or the empty string when absent.
func (t *Text) Text() string {
	if !t.HasText() {
		return ""
	}
	return decodeLatin1(t.c.Data()[t.textOffset():])
}

// SetText assigns the chunk's text body.
func (t *Text) SetText(text string) error {
	body, err := encodeLatin1(text)
	if err != nil {
		return err
	}

	data := t.c.Data()[:t.textOffset()]
	out := make([]byte, 0, len(data)+len(body))
	out = append(out, data...)
	out = append(out, body...)
	t.c.SetData(out)
	return nil
}

// ZText is a typed view over a zTXt chunk: keyword, null separator,
// compression method byte, deflated text.
type ZText struct {
	c *Chunk
}

// NewZText builds a zTXt chunk with the given keyword and text. The text is
// deflated at the best compression level with method 0 (zlib).
func NewZText(keyword, text string) (*ZText, error) {
	c, _ := NewChunk("zTXt", nil)
	t := &ZText{c: c}
	if err := t.SetKeyword(keyword, true); err != nil {
		return nil, err
	}
	if err := t.SetCompressionMethod(0); err != nil {
		return nil, err
	}
	if err := t.SetText(text); err != nil {
		return nil, err
	}
	return t, nil
}

// ZTextView wraps an existing zTXt chunk in a typed view.
func ZTextView(c *Chunk) *ZText {
	return &ZText{c: c}
}

// Chunk returns the underlying chunk.
func (t *ZText) Chunk() *Chunk { return t.c }

// nullTerminator returns the index of the keyword's null separator. A zero
// byte at position 0 counts as no keyword, to distinguish an absent keyword
// from an empty keyword followed by the compression method byte.
func (t *ZText) nullTerminator() (int, bool) {
	data := t.c.Data()
	for i, b := range data {
		if b == 0 {
			if i == 0 {
				return 0, false
			}
			return i, true
		}
	}
	return 0, false
}

func (t *ZText) textOffset() int {
	if zero, ok := t.nullTerminator(); ok {
		return zero + 2
	}
	return 1
}

// HasKeyword reports whether the chunk has a keyword.
func (t *ZText) HasKeyword() bool {
	_, ok := t.nullTerminator()
	return ok
}

// Keyword returns the chunk's keyword.
func (t *ZText) Keyword() (string, error) {
	zero, ok := t.nullTerminator()
	if !ok {
		return "", ErrNoKeyword
	}
	return decodeLatin1(t.c.Data()[:zero]), nil
}

// SetKeyword assigns the chunk's keyword. With validate set, keywords longer
// than 79 bytes fail with ErrKeywordTooLong.
func (t *ZText) SetKeyword(keyword string, validate bool) error {
	kw, err := encodeLatin1(keyword)
	if err != nil {
		return err
	}
	if validate && len(kw) > maxKeywordLength {
		return ErrKeywordTooLong
	}

	data := t.c.Data()
	if zero, ok := t.nullTerminator(); ok {
		data = data[zero+1:]
	}

	out := make([]byte, 0, len(kw)+1+len(data))
	out = append(out, kw...)
	out = append(out, 0)
	out = append(out, data...)
	t.c.SetData(out)
	return nil
}

// CompressionMethod returns the chunk's compression method byte. Only method
// 0 (zlib) is defined.
func (t *ZText) CompressionMethod() (uint8, error) {
	zero, ok := t.nullTerminator()
	if !ok {
		return 0, ErrNoKeyword
	}
	data := t.c.Data()
	if zero+1 == len(data) {
		return 0, &OutOfBoundsError{Index: zero + 1, Limit: len(data)}
	}
	return data[zero+1], nil
}

// SetCompressionMethod assigns the chunk's compression method byte.
func (t *ZText) SetCompressionMethod(m uint8) error {
	zero, ok := t.nullTerminator()
	if !ok {
		return ErrNoKeyword
	}
	data := t.c.Data()
	if zero+1 == len(data) {
		t.c.SetData(append(data, m))
		return nil
	}
	data[zero+1] = m
	return nil
}

// HasText reports whether the chunk has a deflated text body.
func (t *ZText) HasText() bool {
	data := t.c.Data()
	if zero, ok := t.nullTerminator(); ok {
		return len(data) > zero+2
	}
	return len(data) > 0
}

// Text inflates and returns the chunk's text body.
func (t *ZText) Text() (string, error) {
	if !t.HasText() {
		return "", nil
	}
	raw, err := Decompress(t.c.Data()[t.textOffset():])
	if err != nil {
		return "", err
	}
	return decodeLatin1(raw), nil
}

// SetText deflates and assigns the chunk's text body.
func (t *ZText) SetText(text string) error {
	body, err := encodeLatin1(text)
	if err != nil {
		return err
	}
	compressed, err := Compress(body, CompressionBest)
	if err != nil {
		return err
	}

	data := t.c.Data()
	if t.HasText() {
		data = data[:t.textOffset()]
	}

	// Make sure the compression method byte is present before the body.
	needMethod := len(data) == 0
	if !needMethod {
		if zero, ok := t.nullTerminator(); ok && len(data) == zero+1 {
			needMethod = true
		}
	}

	out := make([]byte, 0, len(data)+1+len(compressed))
	out = append(out, data...)
	if needMethod {
		out = append(out, 0)
	}
	out = append(out, compressed...)
	t.c.SetData(out)
	return nil
}
