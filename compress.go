package pngpayload

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Compression levels accepted by Compress. They mirror the underlying
// deflate levels: -1 selects the default, 0 stores, 9 compresses best.
const (
	CompressionDefault = zlib.DefaultCompression
	CompressionNone    = zlib.NoCompression
	CompressionBest    = zlib.BestCompression
)

const compressStagingSize = 8192

// Compress deflates data as a zlib stream at the given level.
func Compress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, &ZlibError{Err: err}
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, &ZlibError{Err: err}
	}
	if err := zw.Close(); err != nil {
		return nil, &ZlibError{Err: err}
	}
	return buf.Bytes(), nil
}

// Decompress inflates a zlib stream into the full decompressed buffer.
func Decompress(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ZlibError{Err: err}
	}
	defer zr.Close()

	var out bytes.Buffer
	if _, err := io.CopyBuffer(&out, zr, make([]byte, compressStagingSize)); err != nil {
		return nil, &ZlibError{Err: err}
	}
	return out.Bytes(), nil
}
