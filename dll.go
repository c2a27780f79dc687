// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package maxfile

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// DllDirectory chunk idns, as decoded by DllDecoder.
const (
	idnDllName        uint16 = 0x2037
	idnDllEntry       uint16 = 0x2038
	idnDllDescription uint16 = 0x2039
	idnDllHeader      uint16 = 0x21c0
)

// DllEntry is one registered DLL: its human-readable description and
// its file name, in the order the directory lists them.
type DllEntry struct {
	Description string
	Name        string
}

// DllDecoder turns the parsed chunk tree of the DllDirectory stream
// into an ordered list of DllEntry, indexed the same way class
// entries reference them (dll_index is positional into this list).
type DllDecoder struct {
	utf16 utf16Decoder
}

// NewDllDecoder returns a ready-to-use DllDecoder.
func NewDllDecoder() *DllDecoder {
	return &DllDecoder{utf16: newUTF16Decoder()}
}

// Decode walks the top-level chunks of a parsed DllDirectory stream
// and returns the DLLs it registers, in file order.
func (d *DllDecoder) Decode(chunks []Chunk) ([]DllEntry, error) {
	var entries []DllEntry
	for _, c := range chunks {
		switch c.Header.Idn {
		case idnDllHeader:
			// Header/version chunk, not itself a DLL entry.
			continue
		case idnDllEntry:
			entry, err := d.decodeEntry(c)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		default:
			return nil, &UnknownDllTagError{Idn: c.Header.Idn}
		}
	}
	return entries, nil
}

func (d *DllDecoder) decodeEntry(c Chunk) (DllEntry, error) {
	if !c.IsContainer() || len(c.Children) != 2 {
		return DllEntry{}, fmt.Errorf("%w: expected a 2-child container, got kind=%s children=%d",
			ErrMalformedDllEntry, c.Header.Kind, len(c.Children))
	}
	descChunk, nameChunk := c.Children[0], c.Children[1]
	if descChunk.Header.Idn != idnDllDescription {
		return DllEntry{}, fmt.Errorf("%w: expected description child 0x%x, got 0x%x",
			ErrMalformedDllEntry, idnDllDescription, descChunk.Header.Idn)
	}
	if nameChunk.Header.Idn != idnDllName {
		return DllEntry{}, fmt.Errorf("%w: expected name child 0x%x, got 0x%x",
			ErrMalformedDllEntry, idnDllName, nameChunk.Header.Idn)
	}
	desc, err := d.utf16.Decode(descChunk.Bytes)
	if err != nil {
		return DllEntry{}, fmt.Errorf("%w: decoding description: %v", ErrMalformedDllEntry, err)
	}
	name, err := d.utf16.Decode(nameChunk.Bytes)
	if err != nil {
		return DllEntry{}, fmt.Errorf("%w: decoding name: %v", ErrMalformedDllEntry, err)
	}
	return DllEntry{Description: desc, Name: name}, nil
}

// Sentinel dll_index values: every other non-negative index resolves
// positionally into the decoded DllEntry list.
const (
	dllIndexBuiltin = -1
	dllIndexScript  = -2
)

// ResolveDll resolves a class entry's dll_index against the decoded
// DLL list, per the -1/-2/positional convention, returning the
// (name, description) pair spec.md §4.7 and §8 scenario 6 specify:
// -1 yields ("builtin", "Built-in type"), -2 yields ("script",
// "Scripted class"), and any other in-range index yields the matching
// DllEntry's own (name, description).
func ResolveDll(dlls []DllEntry, index int32) (name, description string, err error) {
	switch index {
	case dllIndexBuiltin:
		return "builtin", "Built-in type", nil
	case dllIndexScript:
		return "script", "Scripted class", nil
	}
	if index < 0 || int(index) >= len(dlls) {
		return "", "", &InvalidDllIndexError{Index: index}
	}
	return dlls[index].Name, dlls[index].Description, nil
}

// utf16Decoder decodes UTF-16LE byte strings, trimming a trailing
// NUL terminator. It wraps golang.org/x/text/encoding/unicode the way
// the teacher's helper.go wraps it for PE version-resource strings.
type utf16Decoder struct {
	decoder *encoding.Decoder
}

func newUTF16Decoder() utf16Decoder {
	return utf16Decoder{decoder: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()}
}

func (u utf16Decoder) Decode(b []byte) (string, error) {
	out, err := u.decoder.Bytes(b)
	if err != nil {
		return "", err
	}
	for len(out) > 0 && out[len(out)-1] == 0 {
		out = out[:len(out)-1]
	}
	return string(out), nil
}
