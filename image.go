// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package pngpayload

import (
	"bytes"
)

// canonicalChunkOrder is the tag order used at save time. Tags not listed
// are emitted after these in first-seen order, followed by IEND.
var canonicalChunkOrder = []string{
	// critical chunks
	"IHDR", "gAMA", "PLTE", "IDAT",

	// ancillary chunks
	"tRNS", "cHRM", "iCCP", "sBIT", "sRGB", "cICP",
	"tEXt", "zTXt", "iTXt", "bKGD", "hIST", "pHYs", "sPLT",
	"eXIf", "tIME", "acTL", "fcTL", "fdAT",
}

// DefaultIDATChunkSize is the IDAT segmentation size used when rewriting
// image data.
const DefaultIDATChunkSize = 8192

// Image is a parsed PNG: an ordered, tag-keyed chunk map, an optional
// trailing-data slot, and an optional slot of decoded scanlines.
//
// Saving an image that was never loaded preserves its IDAT bytes verbatim;
// this is the path used by the trailing-data and text payload engines to
// avoid re-encoding pixels.
type Image struct {
	chunks   map[string][]*Chunk
	tagOrder []string // tags in first-seen order

	trailing    []byte
	hasTrailing bool

	scanlines []*Scanline
}

// NewImage returns an empty image.
func NewImage() *Image {
	return &Image{chunks: make(map[string][]*Chunk)}
}

// ParseImage parses a PNG byte stream. With validate set, every chunk's CRC
// is checked against the recomputed value.
func ParseImage(data []byte, validate bool) (*Image, error) {
	img := NewImage()
	if err := img.Parse(data, validate); err != nil {
		return nil, err
	}
	return img, nil
}

// ParseImageFile reads and parses the named PNG file.
func ParseImageFile(path string, validate bool) (*Image, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImage(data, validate)
}

// Parse resets the image and parses the given PNG byte stream into it.
func (img *Image) Parse(data []byte, validate bool) error {
	if len(data) < len(Signature) {
		return &InsufficientSizeError{Given: len(data), Needed: len(Signature)}
	}
	if !bytes.Equal(data[:len(Signature)], Signature[:]) {
		return ErrBadSignature
	}

	chunks := make(map[string][]*Chunk)
	var tagOrder []string

	offset := len(Signature)
	sawEnd := false
	for offset < len(data) {
		raw, err := ParseRawChunk(data, offset)
		if err != nil {
			return err
		}
		offset += raw.ChunkSize()

		if validate && !raw.Validate() {
			return &BadCRCError{Given: raw.CRC(), Expected: raw.ComputedCRC()}
		}

		tag := raw.Tag().String()
		if _, seen := chunks[tag]; !seen {
			tagOrder = append(tagOrder, tag)
		}
		chunks[tag] = append(chunks[tag], raw.ToChunk())

		if tag == "IEND" {
			sawEnd = true
			break
		}
	}

	img.chunks = chunks
	img.tagOrder = tagOrder
	img.trailing = nil
	img.hasTrailing = false
	img.scanlines = nil

	if sawEnd && offset < len(data) {
		img.trailing = bytes.Clone(data[offset:])
		img.hasTrailing = true
	}

	return nil
}

// Clone returns a deep copy of the image, including any loaded scanlines.
func (img *Image) Clone() *Image {
	out := NewImage()
	for _, tag := range img.tagOrder {
		out.tagOrder = append(out.tagOrder, tag)
		for _, c := range img.chunks[tag] {
			out.chunks[tag] = append(out.chunks[tag], c.Clone())
		}
	}
	if img.hasTrailing {
		out.trailing = bytes.Clone(img.trailing)
		out.hasTrailing = true
	}
	if img.scanlines != nil {
		out.scanlines = make([]*Scanline, len(img.scanlines))
		for i, s := range img.scanlines {
			out.scanlines[i] = s.Clone()
		}
	}
	return out
}

// HasChunk reports whether the image holds at least one chunk with the tag.
func (img *Image) HasChunk(tag string) bool {
	return len(img.chunks[tag]) > 0
}

// GetChunks returns the chunks stored under the tag, in insertion order.
func (img *Image) GetChunks(tag string) ([]*Chunk, error) {
	group, ok := img.chunks[tag]
	if !ok {
		return nil, &ChunkNotFoundError{Tag: tag}
	}
	return group, nil
}

// AddChunk appends a chunk to its tag group.
func (img *Image) AddChunk(c *Chunk) {
	tag := c.Tag().String()
	if _, seen := img.chunks[tag]; !seen {
		img.tagOrder = append(img.tagOrder, tag)
	}
	img.chunks[tag] = append(img.chunks[tag], c)
}

func (img *Image) setChunkGroup(tag string, group []*Chunk) {
	if _, seen := img.chunks[tag]; !seen {
		img.tagOrder = append(img.tagOrder, tag)
	}
	img.chunks[tag] = group
}

// HasHeader reports whether the image has an IHDR chunk.
func (img *Image) HasHeader() bool {
	return img.HasChunk("IHDR")
}

// Header returns a typed view over the image's IHDR chunk.
func (img *Image) Header() (*Header, error) {
	if !img.HasHeader() {
		return nil, ErrNoHeaderChunk
	}
	return &Header{c: img.chunks["IHDR"][0]}, nil
}

// NewHeader replaces any existing IHDR chunk with a fresh zeroed one and
// returns its typed view.
func (img *Image) NewHeader() *Header {
	h := NewHeader()
	img.setChunkGroup("IHDR", []*Chunk{h.Chunk()})
	return h
}

// Width returns the image width from the header.
func (img *Image) Width() (uint32, error) {
	h, err := img.Header()
	if err != nil {
		return 0, err
	}
	return h.Width()
}

// Height returns the image height from the header.
func (img *Image) Height() (uint32, error) {
	h, err := img.Header()
	if err != nil {
		return 0, err
	}
	return h.Height()
}

// HasImageData reports whether the image has IDAT chunks.
func (img *Image) HasImageData() bool {
	return img.HasChunk("IDAT")
}

// IsLoaded reports whether scanlines have been materialized.
func (img *Image) IsLoaded() bool {
	return img.scanlines != nil
}

// Scanline returns the scanline at the given row index. The returned pointer
// is the image's own row; mutating it mutates the image.
func (img *Image) Scanline(index int) (*Scanline, error) {
	if !img.IsLoaded() {
		return nil, ErrNoImageData
	}
	if index < 0 || index >= len(img.scanlines) {
		return nil, &OutOfBoundsError{Index: index, Limit: len(img.scanlines)}
	}
	return img.scanlines[index], nil
}

// ScanlineCount returns the number of loaded scanlines.
func (img *Image) ScanlineCount() int {
	return len(img.scanlines)
}

// SetScanlines installs decoded scanlines, replacing any loaded image data.
// The rows must match the header's height and pixel type.
func (img *Image) SetScanlines(lines []*Scanline) error {
	h, err := img.Header()
	if err != nil {
		return err
	}
	height, err := h.Height()
	if err != nil {
		return err
	}
	pt, err := h.PixelType()
	if err != nil {
		return err
	}

	if len(lines) != int(height) {
		return ErrScanlineMismatch
	}
	for _, s := range lines {
		if s.PixelType() != pt {
			return ErrPixelMismatch
		}
	}

	img.scanlines = lines
	return nil
}

// Load decompresses the image data and reconstructs every scanline.
func (img *Image) Load() error {
	if err := img.DecompressImageData(); err != nil {
		return err
	}
	return img.Reconstruct()
}

// DecompressImageData concatenates the IDAT chunks in order, inflates them
// and cuts the result into typed scanlines.
func (img *Image) DecompressImageData() error {
	if !img.HasImageData() {
		return ErrNoImageDataChunks
	}
	h, err := img.Header()
	if err != nil {
		return err
	}

	var combined []byte
	for _, c := range img.chunks["IDAT"] {
		combined = append(combined, c.Data()...)
	}

	raw, err := Decompress(combined)
	if err != nil {
		return err
	}

	lines, err := scanlinesFromRaw(h, raw)
	if err != nil {
		return err
	}

	img.scanlines = lines
	return nil
}

// Reconstruct undoes every scanline's filter in place, top to bottom, using
// the row above as context. On failure the image is left unchanged.
func (img *Image) Reconstruct() error {
	if !img.IsLoaded() {
		return ErrNoImageData
	}

	result := make([]*Scanline, len(img.scanlines))
	for i, s := range img.scanlines {
		var prev *Scanline
		if i > 0 {
			prev = result[i-1]
		}
		line, err := s.Reconstruct(prev)
		if err != nil {
			return err
		}
		result[i] = line
	}

	img.scanlines = result
	return nil
}

// Filter re-filters every scanline, picking the best filter per row, using
// the current raw row above as context. On failure the image is left
// unchanged.
func (img *Image) Filter() error {
	if !img.IsLoaded() {
		return ErrNoImageData
	}

	result := make([]*Scanline, len(img.scanlines))
	for i, s := range img.scanlines {
		var prev *Scanline
		if i > 0 {
			prev = img.scanlines[i-1]
		}
		line, err := s.Filter(prev)
		if err != nil {
			return err
		}
		result[i] = line
	}

	img.scanlines = result
	return nil
}

// CompressImageData serializes the scanlines, deflates them at the given
// level and replaces the IDAT group. A chunkSize of zero emits a single IDAT
// chunk; otherwise chunks are at most chunkSize bytes each. The scanlines'
// current filter bytes are used as-is; call Filter first after editing
// pixels.
func (img *Image) CompressImageData(chunkSize, level int) error {
	if !img.IsLoaded() {
		return ErrNoImageData
	}

	var combined []byte
	for _, s := range img.scanlines {
		combined = append(combined, s.ToRaw()...)
	}

	compressed, err := Compress(combined, level)
	if err != nil {
		return err
	}

	var group []*Chunk
	if chunkSize <= 0 {
		c, _ := NewChunk("IDAT", compressed)
		group = []*Chunk{c}
	} else {
		for i := 0; i < len(compressed); i += chunkSize {
			end := i + chunkSize
			if end > len(compressed) {
				end = len(compressed)
			}
			c, _ := NewChunk("IDAT", bytes.Clone(compressed[i:end]))
			group = append(group, c)
		}
	}

	img.setChunkGroup("IDAT", group)
	return nil
}

// HasTrailingData reports whether the image carries bytes after IEND.
func (img *Image) HasTrailingData() bool {
	return img.hasTrailing
}

// TrailingData returns the bytes stored after IEND.
func (img *Image) TrailingData() ([]byte, error) {
	if !img.hasTrailing {
		return nil, ErrNoTrailingData
	}
	return img.trailing, nil
}

// SetTrailingData stores bytes to be appended after IEND at save time.
func (img *Image) SetTrailingData(data []byte) {
	img.trailing = bytes.Clone(data)
	img.hasTrailing = true
}

// ClearTrailingData removes any trailing bytes.
func (img *Image) ClearTrailingData() {
	img.trailing = nil
	img.hasTrailing = false
}

// ToFile serializes the image: signature, chunks in canonical order with
// first-seen order for unknown tags, a synthesized IEND if absent, and any
// trailing data.
func (img *Image) ToFile() []byte {
	tags := make([]string, 0, len(img.tagOrder)+1)
	tags = append(tags, canonicalChunkOrder...)

	inCanonical := func(tag string) bool {
		for _, t := range canonicalChunkOrder {
			if t == tag {
				return true
			}
		}
		return false
	}

	for _, tag := range img.tagOrder {
		if tag != "IEND" && !inCanonical(tag) {
			tags = append(tags, tag)
		}
	}
	tags = append(tags, "IEND")

	out := append([]byte(nil), Signature[:]...)
	for _, tag := range tags {
		for _, c := range img.chunks[tag] {
			out = c.AppendWire(out)
		}
	}

	if !img.HasChunk("IEND") {
		end, _ := NewChunk("IEND", nil)
		out = end.AppendWire(out)
	}

	if img.hasTrailing {
		out = append(out, img.trailing...)
	}

	return out
}

// Save serializes the image and writes it to the named file.
func (img *Image) Save(path string) error {
	return WriteFile(path, img.ToFile())
}

// HasText reports whether the image has tEXt chunks.
func (img *Image) HasText() bool {
	return img.HasChunk("tEXt")
}

// AddText appends a tEXt chunk with the given keyword and text.
func (img *Image) AddText(keyword, text string) (*Text, error) {
	t, err := NewText(keyword, text)
	if err != nil {
		return nil, err
	}
	img.AddChunk(t.Chunk())
	return t, nil
}

// GetText returns all tEXt chunks whose keyword matches, in chunk order.
func (img *Image) GetText(keyword string) ([]*Text, error) {
	group, err := img.GetChunks("tEXt")
	if err != nil {
		return nil, err
	}

	var result []*Text
	for _, c := range group {
		t := &Text{c: c}
		kw, err := t.Keyword()
		if err != nil {
			continue
		}
		if kw == keyword {
			result = append(result, t)
		}
	}
	return result, nil
}

// RemoveText removes the first tEXt chunk structurally equal to the given
// keyword and text.
func (img *Image) RemoveText(keyword, text string) error {
	t, err := NewText(keyword, text)
	if err != nil {
		return err
	}
	return img.removeChunkEqual("tEXt", t.Chunk())
}

// HasZText reports whether the image has zTXt chunks.
func (img *Image) HasZText() bool {
	return img.HasChunk("zTXt")
}

// AddZText appends a zTXt chunk with the given keyword and deflated text.
func (img *Image) AddZText(keyword, text string) (*ZText, error) {
	t, err := NewZText(keyword, text)
	if err != nil {
		return nil, err
	}
	img.AddChunk(t.Chunk())
	return t, nil
}

// GetZText returns all zTXt chunks whose keyword matches, in chunk order.
func (img *Image) GetZText(keyword string) ([]*ZText, error) {
	group, err := img.GetChunks("zTXt")
	if err != nil {
		return nil, err
	}

	var result []*ZText
	for _, c := range group {
		t := &ZText{c: c}
		kw, err := t.Keyword()
		if err != nil {
			continue
		}
		if kw == keyword {
			result = append(result, t)
		}
	}
	return result, nil
}

// RemoveZText removes the first zTXt chunk structurally equal to the given
// keyword and text.
func (img *Image) RemoveZText(keyword, text string) error {
	t, err := NewZText(keyword, text)
	if err != nil {
		return err
	}
	return img.removeChunkEqual("zTXt", t.Chunk())
}

func (img *Image) removeChunkEqual(tag string, target *Chunk) error {
	group := img.chunks[tag]
	for i, c := range group {
		if c.Equal(target) {
			img.chunks[tag] = append(group[:i:i], group[i+1:]...)
			return nil
		}
	}
	return ErrTextNotFound
}
