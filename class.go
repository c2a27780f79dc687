// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package maxfile

import "fmt"

// ClassDirectory3 chunk idns.
const (
	idnClassEntry  uint16 = 0x2040
	idnClassName   uint16 = 0x2042
	idnClassHeader uint16 = 0x2060
)

// ClassHeader is the 4xi32 header packed into a class entry's header
// child: which DLL registers the class, its 2-part class ID, and its
// super-class ID.
type ClassHeader struct {
	DllIndex     int32
	ClassIDPart1 int32
	ClassIDPart2 int32
	SuperClassID int32
}

// ClassEntry is one registered class: its name and its decoded
// header. Index is its 0-based position in ClassDirectory3, which is
// also the value scene-object headers use to reference it.
type ClassEntry struct {
	Index  int
	Name   string
	Header ClassHeader
}

// ClassDecoder turns the parsed chunk tree of the ClassDirectory3
// stream into an ordered list of ClassEntry.
type ClassDecoder struct {
	utf16 utf16Decoder
}

// NewClassDecoder returns a ready-to-use ClassDecoder.
func NewClassDecoder() *ClassDecoder {
	return &ClassDecoder{utf16: newUTF16Decoder()}
}

// Decode walks the top-level chunks of a parsed ClassDirectory3
// stream and returns its classes, in file order.
func (d *ClassDecoder) Decode(chunks []Chunk) ([]ClassEntry, error) {
	var entries []ClassEntry
	for _, c := range chunks {
		if c.Header.Idn != idnClassEntry {
			return nil, fmt.Errorf("%w: expected class entry tag 0x%x, got 0x%x",
				ErrMalformedClassEntry, idnClassEntry, c.Header.Idn)
		}
		entry, err := d.decodeEntry(c, len(entries))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (d *ClassDecoder) decodeEntry(c Chunk, index int) (ClassEntry, error) {
	if !c.IsContainer() || len(c.Children) != 2 {
		return ClassEntry{}, fmt.Errorf("%w: expected a 2-child container, got kind=%s children=%d",
			ErrMalformedClassEntry, c.Header.Kind, len(c.Children))
	}
	headerChunk, nameChunk := c.Children[0], c.Children[1]
	if headerChunk.Header.Idn != idnClassHeader {
		return ClassEntry{}, fmt.Errorf("%w: expected header child 0x%x, got 0x%x",
			ErrMalformedClassEntry, idnClassHeader, headerChunk.Header.Idn)
	}
	if nameChunk.Header.Idn != idnClassName {
		return ClassEntry{}, fmt.Errorf("%w: expected name child 0x%x, got 0x%x",
			ErrMalformedClassEntry, idnClassName, nameChunk.Header.Idn)
	}
	header, err := decodeClassHeader(headerChunk.Bytes)
	if err != nil {
		return ClassEntry{}, fmt.Errorf("%w: decoding header: %v", ErrMalformedClassEntry, err)
	}
	name, err := d.utf16.Decode(nameChunk.Bytes)
	if err != nil {
		return ClassEntry{}, fmt.Errorf("%w: decoding name: %v", ErrMalformedClassEntry, err)
	}
	return ClassEntry{Index: index, Name: name, Header: header}, nil
}

func decodeClassHeader(b []byte) (ClassHeader, error) {
	if len(b) != 16 {
		return ClassHeader{}, fmt.Errorf("expected 16 bytes (4 x i32), got %d", len(b))
	}
	r := NewByteReader(b)
	dllIndex, err := r.ReadI32LE()
	if err != nil {
		return ClassHeader{}, err
	}
	part1, err := r.ReadI32LE()
	if err != nil {
		return ClassHeader{}, err
	}
	part2, err := r.ReadI32LE()
	if err != nil {
		return ClassHeader{}, err
	}
	superClassID, err := r.ReadI32LE()
	if err != nil {
		return ClassHeader{}, err
	}
	return ClassHeader{
		DllIndex:     dllIndex,
		ClassIDPart1: part1,
		ClassIDPart2: part2,
		SuperClassID: superClassID,
	}, nil
}

// CameraSuperClassID is the super_class_id value 3ds Max assigns to
// camera object classes. The value comes from observed files; it is
// the only super_class_id the camera query treats as a camera.
const CameraSuperClassID = 0x20
