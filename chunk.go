// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package pngpayload

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
)

// ChunkTag is the 4-byte type code of a PNG chunk.
type ChunkTag [4]byte

// NewChunkTag builds a ChunkTag from a string, which must be exactly 4 bytes.
func NewChunkTag(s string) (ChunkTag, error) {
	var t ChunkTag
	if len(s) != 4 {
		return t, ErrInvalidChunkTag
	}
	copy(t[:], s)
	return t, nil
}

func (t ChunkTag) String() string { return string(t[:]) }

// Chunk is an owned PNG chunk: a tag and its data bytes. The length and CRC
// of the wire form are derived, never stored.
type Chunk struct {
	tag  ChunkTag
	data []byte
}

// NewChunk builds an owned chunk. The data slice is retained, not copied.
func NewChunk(tag string, data []byte) (*Chunk, error) {
	t, err := NewChunkTag(tag)
	if err != nil {
		return nil, err
	}
	return &Chunk{tag: t, data: data}, nil
}

// Tag returns the chunk's type code.
func (c *Chunk) Tag() ChunkTag { return c.tag }

// Length returns the length of the chunk's data.
func (c *Chunk) Length() int { return len(c.data) }

// Data returns the chunk's data bytes.
func (c *Chunk) Data() []byte { return c.data }

// SetData replaces the chunk's data bytes.
func (c *Chunk) SetData(data []byte) { c.data = data }

// CRC computes the CRC-32 of the chunk's tag followed by its data.
func (c *Chunk) CRC() uint32 {
	crc := crc32.Update(0, crc32.IEEETable, c.tag[:])
	if len(c.data) > 0 {
		crc = crc32.Update(crc, crc32.IEEETable, c.data)
	}
	return crc
}

// Equal reports whether two chunks agree in tag and data.
func (c *Chunk) Equal(other *Chunk) bool {
	return c.tag == other.tag && bytes.Equal(c.data, other.data)
}

// Clone returns a deep copy of the chunk.
func (c *Chunk) Clone() *Chunk {
	return &Chunk{tag: c.tag, data: bytes.Clone(c.data)}
}

// WireSize returns the on-wire size of the chunk: length, tag, data and CRC.
func (c *Chunk) WireSize() int {
	return 4 + 4 + len(c.data) + 4
}

// AppendWire appends the chunk's wire form to dst and returns the result.
func (c *Chunk) AppendWire(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(c.data)))
	dst = append(dst, c.tag[:]...)
	dst = append(dst, c.data...)
	return binary.BigEndian.AppendUint32(dst, c.CRC())
}

// WireFormat returns the chunk's wire form: length, tag, data, CRC.
func (c *Chunk) WireFormat() []byte {
	return c.AppendWire(make([]byte, 0, c.WireSize()))
}

// RawChunk is a view over a chunk inside an externally owned buffer. It holds
// no copies; all accessors read through to the buffer.
type RawChunk struct {
	buf    []byte
	offset int
	length int
}

// ParseRawChunk binds a RawChunk view to the chunk starting at offset in buf,
// verifying that the declared data length and the trailing CRC fit.
func ParseRawChunk(buf []byte, offset int) (RawChunk, error) {
	if len(buf) == 0 {
		return RawChunk{}, &InsufficientSizeError{Given: 0, Needed: 12}
	}
	if offset+4 > len(buf) {
		return RawChunk{}, &OutOfBoundsError{Index: offset + 4, Limit: len(buf)}
	}
	length := int(binary.BigEndian.Uint32(buf[offset:]))
	if offset+8 > len(buf) {
		return RawChunk{}, &OutOfBoundsError{Index: offset + 8, Limit: len(buf)}
	}
	end := offset + 8 + length + 4
	if end > len(buf) {
		return RawChunk{}, &OutOfBoundsError{Index: end, Limit: len(buf)}
	}
	return RawChunk{buf: buf, offset: offset, length: length}, nil
}

// Length returns the declared data length.
func (r RawChunk) Length() int { return r.length }

// Tag returns the chunk's type code.
func (r RawChunk) Tag() ChunkTag {
	var t ChunkTag
	copy(t[:], r.buf[r.offset+4:])
	return t
}

// Data returns a view of the chunk's data bytes.
func (r RawChunk) Data() []byte {
	return r.buf[r.offset+8 : r.offset+8+r.length]
}

// CRC returns the stored CRC.
func (r RawChunk) CRC() uint32 {
	return binary.BigEndian.Uint32(r.buf[r.offset+8+r.length:])
}

// ComputedCRC recomputes the CRC over the tag and data bytes.
func (r RawChunk) ComputedCRC() uint32 {
	return crc32.ChecksumIEEE(r.buf[r.offset+4 : r.offset+8+r.length])
}

// Validate reports whether the stored CRC matches the recomputed one.
func (r RawChunk) Validate() bool {
	return r.ComputedCRC() == r.CRC()
}

// ChunkSize returns the total on-wire size of the chunk.
func (r RawChunk) ChunkSize() int {
	return 4 + 4 + r.length + 4
}

// ToChunk converts the view into an owned chunk, copying the data.
func (r RawChunk) ToChunk() *Chunk {
	return &Chunk{tag: r.Tag(), data: bytes.Clone(r.Data())}
}
