// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package pngpayload embeds, extracts and detects arbitrary binary payloads
// inside PNG images and the PNG bitmaps of Windows ICO files.
//
// The package is built around a self-contained PNG codec: files are split
// into an ordered chunk map, the IDAT stream is inflated and cut into typed
// scanlines, filters are undone and reapplied, and the whole structure is
// reassembled bit-exactly. Four payload engines operate on top of it:
// trailing data appended after IEND, base64 bodies in tEXt and zTXt chunks,
// and a 4-bit LSB steganographic container written across the color channels
// of 8-bit RGB and RGBA images.
package pngpayload

// Signature is the 8-byte magic every PNG file starts with.
var Signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
