package pngpayload

import (
	"encoding/base64"
	"math/bits"
	"os"
)

// EndianSwap16 swaps the byte order of a 16-bit value.
func EndianSwap16(v uint16) uint16 {
	return bits.ReverseBytes16(v)
}

// EndianSwap32 swaps the byte order of a 32-bit value.
func EndianSwap32(v uint32) uint32 {
	return bits.ReverseBytes32(v)
}

func isBase64Alpha(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '+' || c == '/'
}

// IsBase64String reports whether s consists only of the standard base64
// alphabet, with '=' permitted only as trailing padding. A '=' in the middle
// of the body rejects the string.
func IsBase64String(s string) bool {
	inPadding := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '=' {
			inPadding = true
			continue
		}
		if inPadding || !isBase64Alpha(c) {
			return false
		}
	}
	return true
}

// Base64Encode encodes data with the standard alphabet and '=' padding.
func Base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Base64Decode decodes a standard-alphabet base64 string.
// A character outside the alphabet, or any non-'=' character after '='
// padding, fails with InvalidBase64CharacterError; any other malformation
// fails with InvalidBase64StringError. The empty string decodes to nil.
func Base64Decode(s string) ([]byte, error) {
	inPadding := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '=' {
			inPadding = true
			continue
		}
		if !inPadding && isBase64Alpha(c) {
			continue
		}
		return nil, &InvalidBase64CharacterError{Char: c}
	}

	out, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &InvalidBase64StringError{S: s}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// ReadFile reads the named file into memory.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &OpenFileFailureError{Path: path, Err: err}
	}
	return data, nil
}

// WriteFile writes data to the named file, creating or truncating it.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &OpenFileFailureError{Path: path, Err: err}
	}
	return nil
}
