package pngpayload

import (
	"bytes"
	"encoding/binary"
)

const (
	iconDirSize      = 6
	iconDirEntrySize = 16
)

// IconDirEntry is the on-wire directory record of one icon bitmap. All
// integers are little-endian.
type IconDirEntry struct {
	Width      uint8
	Height     uint8
	ColorCount uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	Bytes      uint32
	Offset     uint32
}

// IconEntry pairs a directory record with its bitmap bytes. The bytes are
// kept opaque; an entry is PNG-typed iff they start with the PNG signature.
type IconEntry struct {
	Header IconDirEntry
	Data   []byte
}

// IconEntryType classifies an icon bitmap entry.
type IconEntryType int

const (
	IconEntryBMP IconEntryType = iota
	IconEntryPNG
)

// Icon is a parsed Windows ICO file: an ICONDIR and its bitmap entries.
type Icon struct {
	entries []IconEntry
}

// NewIcon returns an empty icon.
func NewIcon() *Icon {
	return &Icon{}
}

// ParseIcon parses an ICO byte stream.
func ParseIcon(data []byte) (*Icon, error) {
	ico := NewIcon()
	if err := ico.Parse(data); err != nil {
		return nil, err
	}
	return ico, nil
}

// ParseIconFile reads and parses the named ICO file.
func ParseIconFile(path string) (*Icon, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseIcon(data)
}

// Parse resets the icon and parses the given ICO byte stream into it.
func (ico *Icon) Parse(data []byte) error {
	if len(data) < iconDirSize {
		return &InsufficientSizeError{Given: len(data), Needed: iconDirSize}
	}

	reserved := binary.LittleEndian.Uint16(data[0:])
	typ := binary.LittleEndian.Uint16(data[2:])
	count := int(binary.LittleEndian.Uint16(data[4:]))

	if reserved != 0 || typ != 1 {
		return ErrInvalidIconHeader
	}

	dirSize := iconDirSize + iconDirEntrySize*count
	if dirSize > len(data) {
		return &OutOfBoundsError{Index: dirSize, Limit: len(data)}
	}

	entries := make([]IconEntry, 0, count)
	for i := 0; i < count; i++ {
		rec := data[iconDirSize+i*iconDirEntrySize:]
		entry := IconDirEntry{
			Width:      rec[0],
			Height:     rec[1],
			ColorCount: rec[2],
			Reserved:   rec[3],
			Planes:     binary.LittleEndian.Uint16(rec[4:]),
			BitCount:   binary.LittleEndian.Uint16(rec[6:]),
			Bytes:      binary.LittleEndian.Uint32(rec[8:]),
			Offset:     binary.LittleEndian.Uint32(rec[12:]),
		}

		end := int(entry.Offset) + int(entry.Bytes)
		if end > len(data) {
			return &OutOfBoundsError{Index: end, Limit: len(data)}
		}
		entries = append(entries, IconEntry{
			Header: entry,
			Data:   bytes.Clone(data[entry.Offset:end]),
		})
	}

	ico.entries = entries
	return nil
}

// Size returns the number of bitmap entries.
func (ico *Icon) Size() int { return len(ico.entries) }

// Entry returns the bitmap entry at index. The returned pointer is the
// icon's own entry; mutating it mutates the icon.
func (ico *Icon) Entry(index int) (*IconEntry, error) {
	if index < 0 || index >= len(ico.entries) {
		return nil, &OutOfBoundsError{Index: index, Limit: len(ico.entries)}
	}
	return &ico.entries[index], nil
}

// SetEntry replaces the bitmap entry at index.
func (ico *Icon) SetEntry(index int, entry IconEntry) error {
	if index < 0 || index >= len(ico.entries) {
		return &OutOfBoundsError{Index: index, Limit: len(ico.entries)}
	}
	ico.entries[index] = entry
	return nil
}

// InsertEntry inserts a bitmap entry at index.
func (ico *Icon) InsertEntry(index int, entry IconEntry) error {
	if index < 0 || index > len(ico.entries) {
		return &OutOfBoundsError{Index: index, Limit: len(ico.entries)}
	}
	ico.entries = append(ico.entries[:index], append([]IconEntry{entry}, ico.entries[index:]...)...)
	return nil
}

// AppendEntry appends a bitmap entry.
func (ico *Icon) AppendEntry(entry IconEntry) {
	ico.entries = append(ico.entries, entry)
}

// RemoveEntry removes the bitmap entry at index.
func (ico *Icon) RemoveEntry(index int) error {
	if index < 0 || index >= len(ico.entries) {
		return &OutOfBoundsError{Index: index, Limit: len(ico.entries)}
	}
	ico.entries = append(ico.entries[:index], ico.entries[index+1:]...)
	return nil
}

// EntryType classifies the entry at index as PNG or BMP by its leading bytes.
func (ico *Icon) EntryType(index int) (IconEntryType, error) {
	entry, err := ico.Entry(index)
	if err != nil {
		return 0, err
	}
	if len(entry.Data) >= len(Signature) && bytes.Equal(entry.Data[:len(Signature)], Signature[:]) {
		return IconEntryPNG, nil
	}
	return IconEntryBMP, nil
}

// FirstPNGEntry returns the index of the first PNG-typed entry.
func (ico *Icon) FirstPNGEntry() (int, bool) {
	for i := range ico.entries {
		if t, err := ico.EntryType(i); err == nil && t == IconEntryPNG {
			return i, true
		}
	}
	return 0, false
}

// EntryPayload parses the entry at index as a nested PNG payload image.
func (ico *Icon) EntryPayload(index int, validate bool) (*Payload, error) {
	entry, err := ico.Entry(index)
	if err != nil {
		return nil, err
	}
	return ParsePayload(entry.Data, validate)
}

// SetEntryPayload writes a nested PNG payload image back into the entry at
// index. The entry's byte count is fixed up at serialization time.
func (ico *Icon) SetEntryPayload(index int, p *Payload) error {
	entry, err := ico.Entry(index)
	if err != nil {
		return err
	}
	entry.Data = p.ToFile()
	return nil
}

// ToFile serializes the icon: the ICONDIR, then each entry's bytes at
// recomputed offsets.
func (ico *Icon) ToFile() ([]byte, error) {
	if len(ico.entries) == 0 {
		return nil, ErrNoIconData
	}

	dirSize := iconDirSize + iconDirEntrySize*len(ico.entries)
	out := make([]byte, dirSize)

	binary.LittleEndian.PutUint16(out[0:], 0)
	binary.LittleEndian.PutUint16(out[2:], 1)
	binary.LittleEndian.PutUint16(out[4:], uint16(len(ico.entries)))

	for i, entry := range ico.entries {
		rec := out[iconDirSize+i*iconDirEntrySize:]
		rec[0] = entry.Header.Width
		rec[1] = entry.Header.Height
		rec[2] = entry.Header.ColorCount
		rec[3] = entry.Header.Reserved
		binary.LittleEndian.PutUint16(rec[4:], entry.Header.Planes)
		binary.LittleEndian.PutUint16(rec[6:], entry.Header.BitCount)
		binary.LittleEndian.PutUint32(rec[8:], uint32(len(entry.Data)))
		binary.LittleEndian.PutUint32(rec[12:], uint32(len(out)))

		out = append(out, entry.Data...)
	}

	return out, nil
}

// Save serializes the icon and writes it to the named file.
func (ico *Icon) Save(path string) error {
	data, err := ico.ToFile()
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}
