package pngpayload

import (
	"encoding/binary"
)

const headerLength = 13

// Header is a typed view over an IHDR chunk's 13-byte payload.
type Header struct {
	c *Chunk
}

// NewHeader returns a header over a fresh IHDR chunk with zeroed fields.
func NewHeader() *Header {
	c, _ := NewChunk("IHDR", make([]byte, headerLength))
	return &Header{c: c}
}

// Chunk returns the underlying IHDR chunk.
func (h *Header) Chunk() *Chunk { return h.c }

func (h *Header) check() error {
	if h.c.Length() != headerLength {
		return &InsufficientSizeError{Given: h.c.Length(), Needed: headerLength}
	}
	return nil
}

// Set assigns all IHDR fields at once.
func (h *Header) Set(width, height uint32, bitDepth uint8, colorType ColorType, compressionMethod, filterMethod, interlaceMethod uint8) error {
	if err := h.SetWidth(width); err != nil {
		return err
	}
	h.SetHeight(height)
	h.SetBitDepth(bitDepth)
	h.SetColorType(colorType)
	h.SetCompressionMethod(compressionMethod)
	h.SetFilterMethod(filterMethod)
	h.SetInterlaceMethod(interlaceMethod)
	return nil
}

// Width returns the image width in pixels.
func (h *Header) Width() (uint32, error) {
	if err := h.check(); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(h.c.Data()[0:]), nil
}

// SetWidth assigns the image width.
func (h *Header) SetWidth(width uint32) error {
	if err := h.check(); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(h.c.Data()[0:], width)
	return nil
}

// Height returns the image height in pixels.
func (h *Header) Height() (uint32, error) {
	if err := h.check(); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(h.c.Data()[4:]), nil
}

// SetHeight assigns the image height.
func (h *Header) SetHeight(height uint32) error {
	if err := h.check(); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(h.c.Data()[4:], height)
	return nil
}

// BitDepth returns the bits per channel sample.
func (h *Header) BitDepth() (uint8, error) {
	if err := h.check(); err != nil {
		return 0, err
	}
	return h.c.Data()[8], nil
}

// SetBitDepth assigns the bits per channel sample.
func (h *Header) SetBitDepth(bitDepth uint8) error {
	if err := h.check(); err != nil {
		return err
	}
	h.c.Data()[8] = bitDepth
	return nil
}

// ColorType returns the PNG color type.
func (h *Header) ColorType() (ColorType, error) {
	if err := h.check(); err != nil {
		return 0, err
	}
	return ColorType(h.c.Data()[9]), nil
}

// SetColorType assigns the PNG color type.
func (h *Header) SetColorType(colorType ColorType) error {
	if err := h.check(); err != nil {
		return err
	}
	h.c.Data()[9] = uint8(colorType)
	return nil
}

// CompressionMethod returns the IHDR compression method byte.
func (h *Header) CompressionMethod() (uint8, error) {
	if err := h.check(); err != nil {
		return 0, err
	}
	return h.c.Data()[10], nil
}

// SetCompressionMethod assigns the IHDR compression method byte.
func (h *Header) SetCompressionMethod(m uint8) error {
	if err := h.check(); err != nil {
		return err
	}
	h.c.Data()[10] = m
	return nil
}

// FilterMethod returns the IHDR filter method byte.
func (h *Header) FilterMethod() (uint8, error) {
	if err := h.check(); err != nil {
		return 0, err
	}
	return h.c.Data()[11], nil
}

// SetFilterMethod assigns the IHDR filter method byte.
func (h *Header) SetFilterMethod(m uint8) error {
	if err := h.check(); err != nil {
		return err
	}
	h.c.Data()[11] = m
	return nil
}

// InterlaceMethod returns the IHDR interlace method byte.
func (h *Header) InterlaceMethod() (uint8, error) {
	if err := h.check(); err != nil {
		return 0, err
	}
	return h.c.Data()[12], nil
}

// SetInterlaceMethod assigns the IHDR interlace method byte.
func (h *Header) SetInterlaceMethod(m uint8) error {
	if err := h.check(); err != nil {
		return err
	}
	h.c.Data()[12] = m
	return nil
}

// PixelType derives the pixel type from the color type and bit depth.
func (h *Header) PixelType() (PixelType, error) {
	ct, err := h.ColorType()
	if err != nil {
		return 0, err
	}
	bd, err := h.BitDepth()
	if err != nil {
		return 0, err
	}
	return pixelTypeFor(ct, bd)
}

// PixelBits returns the bits per pixel.
func (h *Header) PixelBits() (int, error) {
	pt, err := h.PixelType()
	if err != nil {
		return 0, err
	}
	return pt.Bits(), nil
}

// strideBytes returns the byte width of one row's pixel data, excluding the
// filter byte.
func (h *Header) strideBytes() (int, error) {
	width, err := h.Width()
	if err != nil {
		return 0, err
	}
	bits, err := h.PixelBits()
	if err != nil {
		return 0, err
	}
	strideBits := int(width) * bits
	return (strideBits + 7) / 8, nil
}

// BufferSize returns the exact expected size of the inflated image data:
// height rows of one filter byte plus the packed pixel bytes.
func (h *Header) BufferSize() (int, error) {
	height, err := h.Height()
	if err != nil {
		return 0, err
	}
	stride, err := h.strideBytes()
	if err != nil {
		return 0, err
	}
	return int(height) * (1 + stride), nil
}
