// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package pngpayload

import (
	"errors"
	"fmt"
)

var (
	// ErrBadSignature is returned when the first 8 bytes of a buffer are not the PNG signature.
	ErrBadSignature = errors.New("pngpayload: bad png signature")

	// ErrInvalidChunkTag is returned when a chunk tag is not exactly 4 bytes.
	ErrInvalidChunkTag = errors.New("pngpayload: invalid chunk tag")

	// ErrAlreadyFiltered is returned when filtering a scanline whose filter type is not None.
	ErrAlreadyFiltered = errors.New("pngpayload: scanline already filtered")

	// ErrScanlineMismatch is returned when two scanlines that should agree in span count do not.
	ErrScanlineMismatch = errors.New("pngpayload: scanline mismatch")

	// ErrPixelMismatch is returned when a pixel or buffer does not match the expected pixel type.
	ErrPixelMismatch = errors.New("pngpayload: pixel mismatch")

	// ErrNoPixels is returned when an operation needs pixel data and the scanline has none.
	ErrNoPixels = errors.New("pngpayload: no pixels")

	// ErrNoHeaderChunk is returned when an image has no IHDR chunk.
	ErrNoHeaderChunk = errors.New("pngpayload: no header chunk")

	// ErrNoImageDataChunks is returned when an image has no IDAT chunks.
	ErrNoImageDataChunks = errors.New("pngpayload: no image data chunks")

	// ErrNoImageData is returned when an operation needs loaded scanlines and there are none.
	ErrNoImageData = errors.New("pngpayload: no image data loaded")

	// ErrNoKeyword is returned when a text chunk has no keyword.
	ErrNoKeyword = errors.New("pngpayload: no keyword")

	// ErrKeywordTooLong is returned when a text keyword exceeds 79 bytes.
	ErrKeywordTooLong = errors.New("pngpayload: keyword too long")

	// ErrTextNotFound is returned when removing a text chunk that does not exist.
	ErrTextNotFound = errors.New("pngpayload: text not found")

	// ErrNoStegoData is returned when extracting a stego payload from an image that has none.
	ErrNoStegoData = errors.New("pngpayload: no stego data")

	// ErrNoTrailingData is returned when reading trailing data from an image that has none.
	ErrNoTrailingData = errors.New("pngpayload: no trailing data")

	// ErrInvalidIconHeader is returned when an ICONDIR header is malformed.
	ErrInvalidIconHeader = errors.New("pngpayload: invalid icon header")

	// ErrNoIconData is returned when serializing an icon with no entries.
	ErrNoIconData = errors.New("pngpayload: no icon data")
)

// BadCRCError reports a chunk whose stored CRC disagrees with the recomputed one.
type BadCRCError struct {
	Given    uint32
	Expected uint32
}

func (e *BadCRCError) Error() string {
	return fmt.Sprintf("pngpayload: bad crc: got %#08x, expected %#08x", e.Given, e.Expected)
}

// OutOfBoundsError reports a generic range violation.
type OutOfBoundsError struct {
	Index int
	Limit int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("pngpayload: out of bounds: index %d, limit %d", e.Index, e.Limit)
}

// InsufficientSizeError reports a buffer smaller than an operation needs.
type InsufficientSizeError struct {
	Given  int
	Needed int
}

func (e *InsufficientSizeError) Error() string {
	return fmt.Sprintf("pngpayload: insufficient size: got %d, need %d", e.Given, e.Needed)
}

// InvalidBitDepthError reports a bit depth outside {1,2,4,8,16} for the color type.
type InvalidBitDepthError struct {
	Depth uint8
}

func (e *InvalidBitDepthError) Error() string {
	return fmt.Sprintf("pngpayload: invalid bit depth %d", e.Depth)
}

// InvalidColorTypeError reports a color type outside {0,2,3,4,6}.
type InvalidColorTypeError struct {
	ColorType uint8
}

func (e *InvalidColorTypeError) Error() string {
	return fmt.Sprintf("pngpayload: invalid color type %d", e.ColorType)
}

// InvalidPixelTypeError reports a pixel type outside the known variants.
type InvalidPixelTypeError struct {
	PixelType PixelType
}

func (e *InvalidPixelTypeError) Error() string {
	return fmt.Sprintf("pngpayload: invalid pixel type %d", int(e.PixelType))
}

// InvalidFilterTypeError reports a scanline filter type outside 0..4.
type InvalidFilterTypeError struct {
	FilterType uint8
}

func (e *InvalidFilterTypeError) Error() string {
	return fmt.Sprintf("pngpayload: invalid filter type %d", e.FilterType)
}

// IntegerOverflowError reports a sample value that exceeds the sample's maximum.
type IntegerOverflowError struct {
	Given int
	Max   int
}

func (e *IntegerOverflowError) Error() string {
	return fmt.Sprintf("pngpayload: integer overflow: %d exceeds max %d", e.Given, e.Max)
}

// ZlibError wraps a failure from the underlying deflate/inflate stream.
type ZlibError struct {
	Err error
}

func (e *ZlibError) Error() string {
	return fmt.Sprintf("pngpayload: zlib: %v", e.Err)
}

func (e *ZlibError) Unwrap() error { return e.Err }

// InvalidBase64CharacterError reports a character outside the base64 alphabet.
type InvalidBase64CharacterError struct {
	Char byte
}

func (e *InvalidBase64CharacterError) Error() string {
	return fmt.Sprintf("pngpayload: invalid base64 character %q", e.Char)
}

// InvalidBase64StringError reports a string that is not valid base64.
type InvalidBase64StringError struct {
	S string
}

func (e *InvalidBase64StringError) Error() string {
	return fmt.Sprintf("pngpayload: invalid base64 string %q", e.S)
}

// UnsupportedPixelTypeError reports a pixel type an operation cannot handle.
type UnsupportedPixelTypeError struct {
	PixelType PixelType
}

func (e *UnsupportedPixelTypeError) Error() string {
	return fmt.Sprintf("pngpayload: unsupported pixel type %v", e.PixelType)
}

// ImageTooSmallError reports an image whose nibble capacity cannot hold a stego frame.
type ImageTooSmallError struct {
	Have int
	Need int
}

func (e *ImageTooSmallError) Error() string {
	return fmt.Sprintf("pngpayload: image too small: capacity %d bits, need %d bits", e.Have, e.Need)
}

// InvalidBitOffsetError reports a stego bit offset that is not a multiple of 4.
type InvalidBitOffsetError struct {
	Offset int
}

func (e *InvalidBitOffsetError) Error() string {
	return fmt.Sprintf("pngpayload: invalid bit offset %d", e.Offset)
}

// ChunkNotFoundError reports a missing chunk group.
type ChunkNotFoundError struct {
	Tag string
}

func (e *ChunkNotFoundError) Error() string {
	return fmt.Sprintf("pngpayload: chunk %q not found", e.Tag)
}

// OpenFileFailureError reports a file that could not be opened, read or written.
type OpenFileFailureError struct {
	Path string
	Err  error
}

func (e *OpenFileFailureError) Error() string {
	return fmt.Sprintf("pngpayload: open %q: %v", e.Path, e.Err)
}

func (e *OpenFileFailureError) Unwrap() error { return e.Err }
