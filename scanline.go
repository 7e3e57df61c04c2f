// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package pngpayload

import (
	"bytes"
	"encoding/binary"
)

// Filter types applied per scanline before compression.
const (
	FilterNone uint8 = iota
	FilterSub
	FilterUp
	FilterAverage
	FilterPaeth

	numFilterTypes
)

// Scanline is one row of an image: a filter-type byte and the row's packed
// pixel spans. For sub-8-bit pixel types a span is a single byte holding
// several samples, MSB first; otherwise a span is one whole pixel, with
// 16-bit channels big-endian.
type Scanline struct {
	pixelType  PixelType
	filterType uint8
	data       []byte
}

// NewScanline returns a zeroed scanline of the given pixel type and width.
func NewScanline(pt PixelType, width int) *Scanline {
	spans := (width + pt.samplesPerSpan() - 1) / pt.samplesPerSpan()
	return &Scanline{
		pixelType: pt,
		data:      make([]byte, spans*pt.spanBytes()),
	}
}

// readLine reads one scanline from the raw inflated image buffer at offset.
func readLine(pt PixelType, raw []byte, offset, width int) (*Scanline, error) {
	if offset >= len(raw) {
		return nil, &OutOfBoundsError{Index: offset, Limit: len(raw)}
	}
	filterType := raw[offset]
	byteWidth := (pt.Bits()*width + 7) / 8
	if offset+1+byteWidth > len(raw) {
		return nil, &OutOfBoundsError{Index: offset + 1 + byteWidth, Limit: len(raw)}
	}
	spans := (width + pt.samplesPerSpan() - 1) / pt.samplesPerSpan()
	data := make([]byte, spans*pt.spanBytes())
	copy(data, raw[offset+1:])
	return &Scanline{pixelType: pt, filterType: filterType, data: data}, nil
}

// scanlinesFromRaw cuts the inflated image buffer into height scanlines.
func scanlinesFromRaw(h *Header, raw []byte) ([]*Scanline, error) {
	width, err := h.Width()
	if err != nil {
		return nil, err
	}
	pt, err := h.PixelType()
	if err != nil {
		return nil, err
	}
	bufferSize, err := h.BufferSize()
	if err != nil {
		return nil, err
	}
	if len(raw) != bufferSize {
		return nil, ErrPixelMismatch
	}

	byteWidth := (pt.Bits()*int(width) + 7) / 8
	var result []*Scanline
	for i := 0; i < bufferSize; i += byteWidth + 1 {
		line, err := readLine(pt, raw, i, int(width))
		if err != nil {
			return nil, err
		}
		result = append(result, line)
	}
	return result, nil
}

// PixelType returns the scanline's pixel type.
func (s *Scanline) PixelType() PixelType { return s.pixelType }

// FilterType returns the scanline's filter-type byte.
func (s *Scanline) FilterType() uint8 { return s.filterType }

// SetFilterType assigns the scanline's filter-type byte.
func (s *Scanline) SetFilterType(ft uint8) { s.filterType = ft }

// SpanCount returns the number of pixel spans in the row.
func (s *Scanline) SpanCount() int {
	return len(s.data) / s.pixelType.spanBytes()
}

// PixelWidth returns the number of samples the row can address, including any
// unused samples packed into the final span.
func (s *Scanline) PixelWidth() int {
	return s.SpanCount() * s.pixelType.samplesPerSpan()
}

// Bytes returns the row's packed pixel bytes, excluding the filter byte.
func (s *Scanline) Bytes() []byte { return s.data }

// ToRaw returns the row's wire form: the filter byte followed by the packed
// pixel bytes.
func (s *Scanline) ToRaw() []byte {
	out := make([]byte, 0, 1+len(s.data))
	out = append(out, s.filterType)
	return append(out, s.data...)
}

// Clone returns a deep copy of the scanline.
func (s *Scanline) Clone() *Scanline {
	return &Scanline{
		pixelType:  s.pixelType,
		filterType: s.filterType,
		data:       bytes.Clone(s.data),
	}
}

// Pixel returns the decoded pixel at index.
func (s *Scanline) Pixel(index int) (Pixel, error) {
	if index < 0 || index >= s.PixelWidth() {
		return Pixel{}, &OutOfBoundsError{Index: index, Limit: s.PixelWidth()}
	}

	pt := s.pixelType
	p := NewPixel(pt)

	if pt.Bits() < 8 {
		samples := pt.samplesPerSpan()
		b := s.data[index/samples]
		shift := (samples - 1 - index%samples) * pt.Bits()
		p.ch[0] = uint16(b>>shift) & uint16(pt.SampleMax())
		return p, nil
	}

	base := index * pt.spanBytes()
	for i := 0; i < pt.Channels(); i++ {
		if pt.SampleBits() == 16 {
			p.ch[i] = binary.BigEndian.Uint16(s.data[base+i*2:])
		} else {
			p.ch[i] = uint16(s.data[base+i])
		}
	}
	return p, nil
}

// SetPixel assigns the pixel at index. The pixel's type must match the
// scanline's.
func (s *Scanline) SetPixel(index int, p Pixel) error {
	if p.Type() != s.pixelType {
		return ErrPixelMismatch
	}
	if index < 0 || index >= s.PixelWidth() {
		return &OutOfBoundsError{Index: index, Limit: s.PixelWidth()}
	}

	pt := s.pixelType

	if pt.Bits() < 8 {
		samples := pt.samplesPerSpan()
		shift := (samples - 1 - index%samples) * pt.Bits()
		mask := byte(pt.SampleMax()<<shift) ^ 0xFF
		b := &s.data[index/samples]
		*b = (*b & mask) | byte(p.ch[0])<<shift
		return nil
	}

	base := index * pt.spanBytes()
	for i := 0; i < pt.Channels(); i++ {
		if pt.SampleBits() == 16 {
			binary.BigEndian.PutUint16(s.data[base+i*2:], p.ch[i])
		} else {
			s.data[base+i] = byte(p.ch[i])
		}
	}
	return nil
}

// paethPredict picks the Paeth predictor among left, prev and prevLeft.
func paethPredict(left, prev, prevLeft int) int {
	p := left + prev - prevLeft
	pa := abs(p - left)
	pb := abs(p - prev)
	pc := abs(p - prevLeft)

	if pa <= pb && pa <= pc {
		return left
	}
	if pb <= pc {
		return prev
	}
	return prevLeft
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Reconstruct undoes the scanline's filter using the previous raw row as
// context, returning a new scanline with filter type None. A nil prev means
// the first row.
func (s *Scanline) Reconstruct(prev *Scanline) (*Scanline, error) {
	if s.filterType == FilterNone {
		return s.Clone(), nil
	}
	if prev != nil && prev.SpanCount() != s.SpanCount() {
		return nil, ErrScanlineMismatch
	}
	if len(s.data) == 0 {
		return nil, ErrNoPixels
	}
	if s.filterType >= numFilterTypes {
		return nil, &InvalidFilterTypeError{FilterType: s.filterType}
	}

	result := s.Clone()
	bpp := s.pixelType.spanBytes()

	for k := range result.data {
		curr := int(result.data[k])
		var left, up, upLeft int
		if k >= bpp {
			left = int(result.data[k-bpp])
		}
		if prev != nil {
			up = int(prev.data[k])
			if k >= bpp {
				upLeft = int(prev.data[k-bpp])
			}
		}

		switch s.filterType {
		case FilterSub:
			result.data[k] = byte(curr + left)
		case FilterUp:
			result.data[k] = byte(curr + up)
		case FilterAverage:
			result.data[k] = byte(curr + (left+up)/2)
		case FilterPaeth:
			result.data[k] = byte(curr + paethPredict(left, up, upLeft))
		}
	}

	result.filterType = FilterNone
	return result, nil
}

// FilterWith applies one filter type to a raw scanline using the previous raw
// row as context, returning a new filtered scanline. The receiver must be
// unfiltered.
func (s *Scanline) FilterWith(filterType uint8, prev *Scanline) (*Scanline, error) {
	if s.filterType != FilterNone {
		return nil, ErrAlreadyFiltered
	}
	if prev != nil && prev.SpanCount() != s.SpanCount() {
		return nil, ErrScanlineMismatch
	}
	if len(s.data) == 0 {
		return nil, ErrNoPixels
	}
	if filterType >= numFilterTypes {
		return nil, &InvalidFilterTypeError{FilterType: filterType}
	}
	if filterType == FilterNone {
		return s.Clone(), nil
	}

	result := s.Clone()
	bpp := s.pixelType.spanBytes()

	for k := range s.data {
		curr := int(s.data[k])
		var left, up, upLeft int
		if k >= bpp {
			left = int(s.data[k-bpp])
		}
		if prev != nil {
			up = int(prev.data[k])
			if k >= bpp {
				upLeft = int(prev.data[k-bpp])
			}
		}

		switch filterType {
		case FilterSub:
			result.data[k] = byte(curr - left)
		case FilterUp:
			result.data[k] = byte(curr - up)
		case FilterAverage:
			result.data[k] = byte(curr - (left+up)/2)
		case FilterPaeth:
			result.data[k] = byte(curr - paethPredict(left, up, upLeft))
		}
	}

	result.filterType = filterType
	return result, nil
}

// Filter applies the filter type whose output has the smallest absolute
// signed-byte sum, a proxy for the minimum-sum-of-absolute-differences
// heuristic.
func (s *Scanline) Filter(prev *Scanline) (*Scanline, error) {
	var best *Scanline
	var bestSum int

	for ft := uint8(0); ft < numFilterTypes; ft++ {
		filtered, err := s.FilterWith(ft, prev)
		if err != nil {
			return nil, err
		}

		sum := 0
		for _, b := range filtered.data {
			sum += int(int8(b))
		}
		sum = abs(sum)

		if ft == 0 || sum < bestSum {
			best, bestSum = filtered, sum
		}
	}

	return best, nil
}
