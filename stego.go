// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package pngpayload

import (
	"bytes"
	"encoding/binary"
)

// The stego container is framed by two 3-byte magics with a little-endian
// payload size in between:
//
//	"FCD" | size: u32 LE | size bytes of zlib-compressed data | "DCF"
//
// The frame is written into the low 4 bits of each red, green and blue
// channel sample, raster-scan order, one nibble per channel, skipping alpha.
var (
	stegoHeader = []byte("FCD")
	stegoFooter = []byte("DCF")
)

const (
	stegoBitsPerChannel = 4
	stegoChannels       = 3
	stegoFrameOverhead  = 3 + 4 + 3 // header, size, footer
)

func stegoSupported(pt PixelType) bool {
	return pt == TrueColorPixel8Bit || pt == AlphaTrueColorPixel8Bit
}

// stegoCapacityBits returns the number of payload bits the image can hold:
// four bits per color channel of every pixel.
func (p *Payload) stegoCapacityBits() (int, error) {
	h, err := p.Header()
	if err != nil {
		return 0, err
	}
	width, err := h.Width()
	if err != nil {
		return 0, err
	}
	height, err := h.Height()
	if err != nil {
		return 0, err
	}
	return int(width) * int(height) * stegoChannels * stegoBitsPerChannel, nil
}

// ReadStegoData collects bitCount bits starting at bitOffset from the low
// nibbles of the image's color channels. Both arguments must be multiples
// of 4; bitCount is additionally rounded up from whole bytes by callers.
func (p *Payload) ReadStegoData(bitOffset, bitCount int) ([]byte, error) {
	if bitOffset%stegoBitsPerChannel != 0 {
		return nil, &InvalidBitOffsetError{Offset: bitOffset}
	}
	if !p.IsLoaded() {
		return nil, ErrNoImageData
	}

	h, err := p.Header()
	if err != nil {
		return nil, err
	}
	pt, err := h.PixelType()
	if err != nil {
		return nil, err
	}
	if !stegoSupported(pt) {
		return nil, &UnsupportedPixelTypeError{PixelType: pt}
	}
	width, err := h.Width()
	if err != nil {
		return nil, err
	}

	nibbles := bitCount / stegoBitsPerChannel
	out := make([]byte, 0, (nibbles+1)/2)

	var acc byte
	for i := 0; i < nibbles; i++ {
		nibbleIdx := bitOffset/stegoBitsPerChannel + i
		pixelIdx := nibbleIdx / stegoChannels
		channel := nibbleIdx % stegoChannels

		line, err := p.Scanline(pixelIdx / int(width))
		if err != nil {
			return nil, err
		}
		px, err := line.Pixel(pixelIdx % int(width))
		if err != nil {
			return nil, err
		}
		v, err := px.Channel(channel)
		if err != nil {
			return nil, err
		}

		nibble := byte(v) & 0x0F
		if i%2 == 0 {
			acc = nibble
		} else {
			out = append(out, acc|nibble<<4)
		}
	}
	if nibbles%2 != 0 {
		out = append(out, acc)
	}

	return out, nil
}

// WriteStegoData overwrites the low nibbles of the image's color channels
// with data, starting at bitOffset: the low nibble of each byte first, then
// the high nibble.
func (p *Payload) WriteStegoData(bitOffset int, data []byte) error {
	if bitOffset%stegoBitsPerChannel != 0 {
		return &InvalidBitOffsetError{Offset: bitOffset}
	}
	if !p.IsLoaded() {
		return ErrNoImageData
	}

	h, err := p.Header()
	if err != nil {
		return err
	}
	pt, err := h.PixelType()
	if err != nil {
		return err
	}
	if !stegoSupported(pt) {
		return &UnsupportedPixelTypeError{PixelType: pt}
	}
	width, err := h.Width()
	if err != nil {
		return err
	}

	for i := 0; i < len(data)*2; i++ {
		nibble := data[i/2] & 0x0F
		if i%2 != 0 {
			nibble = data[i/2] >> 4
		}

		nibbleIdx := bitOffset/stegoBitsPerChannel + i
		pixelIdx := nibbleIdx / stegoChannels
		channel := nibbleIdx % stegoChannels

		line, err := p.Scanline(pixelIdx / int(width))
		if err != nil {
			return err
		}
		px, err := line.Pixel(pixelIdx % int(width))
		if err != nil {
			return err
		}
		v, err := px.Channel(channel)
		if err != nil {
			return err
		}
		if err := px.SetChannel(channel, int(byte(v)&0xF0|nibble)); err != nil {
			return err
		}
		if err := line.SetPixel(pixelIdx%int(width), px); err != nil {
			return err
		}
	}

	return nil
}

// HasStegoPayload reports whether the loaded image carries a stego frame:
// the header magic at bit offset 0, a payload size that fits the image's
// nibble capacity, and the footer magic right after the payload.
func (p *Payload) HasStegoPayload() bool {
	if !p.IsLoaded() {
		return false
	}

	header, err := p.ReadStegoData(0, len(stegoHeader)*8)
	if err != nil || !bytes.Equal(header, stegoHeader) {
		return false
	}

	sizeBytes, err := p.ReadStegoData(len(stegoHeader)*8, 4*8)
	if err != nil {
		return false
	}
	size := int(binary.LittleEndian.Uint32(sizeBytes))

	capacity, err := p.stegoCapacityBits()
	if err != nil {
		return false
	}
	if (stegoFrameOverhead+size)*8 > capacity {
		return false
	}

	footer, err := p.ReadStegoData((stegoFrameOverhead-len(stegoFooter)+size)*8, len(stegoFooter)*8)
	if err != nil {
		return false
	}
	return bytes.Equal(footer, stegoFooter)
}

// CreateStegoPayload deflates data at the best compression level, frames it,
// and writes the frame into the low nibbles of a copy of the image. The copy
// is re-filtered and recompressed so the stego-bearing pixels are persisted
// in fresh IDAT chunks.
func (p *Payload) CreateStegoPayload(data []byte) (*Payload, error) {
	h, err := p.Header()
	if err != nil {
		return nil, err
	}
	pt, err := h.PixelType()
	if err != nil {
		return nil, err
	}
	if !stegoSupported(pt) {
		return nil, &UnsupportedPixelTypeError{PixelType: pt}
	}

	compressed, err := Compress(data, CompressionBest)
	if err != nil {
		return nil, err
	}

	frame := make([]byte, 0, stegoFrameOverhead+len(compressed))
	frame = append(frame, stegoHeader...)
	frame = binary.LittleEndian.AppendUint32(frame, uint32(len(compressed)))
	frame = append(frame, compressed...)
	frame = append(frame, stegoFooter...)

	capacity, err := p.stegoCapacityBits()
	if err != nil {
		return nil, err
	}
	if need := len(frame) * 8; need > capacity {
		return nil, &ImageTooSmallError{Have: capacity, Need: need}
	}

	result := p.Clone()
	if !result.IsLoaded() {
		if err := result.Load(); err != nil {
			return nil, err
		}
	}

	if err := result.WriteStegoData(0, frame); err != nil {
		return nil, err
	}
	if err := result.Filter(); err != nil {
		return nil, err
	}
	if err := result.CompressImageData(DefaultIDATChunkSize, CompressionDefault); err != nil {
		return nil, err
	}

	return result, nil
}

// ExtractStegoPayload reads the framed payload out of the loaded image and
// inflates it.
func (p *Payload) ExtractStegoPayload() ([]byte, error) {
	if !p.HasStegoPayload() {
		return nil, ErrNoStegoData
	}

	sizeBytes, err := p.ReadStegoData(len(stegoHeader)*8, 4*8)
	if err != nil {
		return nil, err
	}
	size := int(binary.LittleEndian.Uint32(sizeBytes))

	compressed, err := p.ReadStegoData((stegoFrameOverhead-len(stegoFooter))*8, size*8)
	if err != nil {
		return nil, err
	}

	return Decompress(compressed)
}
