// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package maxfile

import (
	"bytes"
	"fmt"
)

// propertyMarker precedes every property-group header in the
// document-summary stream.
var propertyMarker = [4]byte{0x1e, 0x00, 0x00, 0x00}

// propertySentinel follows the last header and precedes the total
// string count.
var propertySentinel = [4]byte{0x1e, 0x10, 0x00, 0x00}

// propertyDelimiter separates a header's name string from its count.
var propertyDelimiter = [4]byte{0x03, 0x00, 0x00, 0x00}

// PropertyGroup is one named header in the document-summary property
// stream together with the strings it owns, in file order.
type PropertyGroup struct {
	Name   string
	Values []string
}

// PropertyTable is the fully decoded document-summary property
// stream: an ordered list of groups, each carrying its own strings.
type PropertyTable struct {
	Groups []PropertyGroup
}

// PropertyParser decodes the \x05DocumentSummaryInformation stream's
// custom property layout. This format is not chunk-based: it is a
// flat scan for a marker, a run of headers, a sentinel, and then the
// strings themselves, grouped by the header that announced them.
type PropertyParser struct{}

// NewPropertyParser returns a ready-to-use PropertyParser.
func NewPropertyParser() *PropertyParser {
	return &PropertyParser{}
}

// Parse decodes buf into a PropertyTable.
//
// The total string count declared by the sentinel must equal the sum
// of the per-header counts read afterward; a mismatch is a hard
// MalformedProperties error rather than a warning, since there is no
// way to know which header's strings are missing or extra.
func (p *PropertyParser) Parse(buf []byte) (*PropertyTable, error) {
	start := bytes.Index(buf, propertyMarker[:])
	if start < 0 {
		return nil, fmt.Errorf("%w: marker not found", ErrMalformedProperties)
	}
	r := NewByteReader(buf)
	if err := r.Seek(int64(start)); err != nil {
		return nil, err
	}

	type header struct {
		name  string
		count int32
	}
	var headers []header

	for {
		peek, ok := r.Peek4()
		if !ok || peek != propertyMarker {
			break
		}
		if _, err := r.Read(4); err != nil {
			return nil, err
		}
		name, err := p.readString(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading header name: %v", ErrMalformedProperties, err)
		}
		delim, err := r.Read(4)
		if err != nil {
			return nil, fmt.Errorf("%w: reading header delimiter: %v", ErrMalformedProperties, err)
		}
		if !bytes.Equal(delim, propertyDelimiter[:]) {
			return nil, fmt.Errorf("%w: expected delimiter after header %q, got % x", ErrMalformedProperties, name, delim)
		}
		count, err := r.ReadI32LE()
		if err != nil {
			return nil, fmt.Errorf("%w: reading header count: %v", ErrMalformedProperties, err)
		}
		headers = append(headers, header{name: name, count: count})
	}

	sentinel, err := r.Read(4)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sentinel: %v", ErrMalformedProperties, err)
	}
	if !bytes.Equal(sentinel, propertySentinel[:]) {
		return nil, fmt.Errorf("%w: expected sentinel, got % x", ErrMalformedProperties, sentinel)
	}

	total, err := r.ReadI32LE()
	if err != nil {
		return nil, fmt.Errorf("%w: reading total string count: %v", ErrMalformedProperties, err)
	}

	table := &PropertyTable{}
	var consumed int32
	for _, h := range headers {
		group := PropertyGroup{Name: h.name, Values: make([]string, 0, h.count)}
		for i := int32(0); i < h.count; i++ {
			v, err := p.readString(r)
			if err != nil {
				return nil, fmt.Errorf("%w: reading value %d of header %q: %v", ErrMalformedProperties, i, h.name, err)
			}
			group.Values = append(group.Values, v)
			consumed++
		}
		table.Groups = append(table.Groups, group)
	}

	if consumed != total {
		return nil, fmt.Errorf("%w: declared %d strings, read %d", ErrMalformedProperties, total, consumed)
	}

	return table, nil
}

// readString reads a length-prefixed string: an i32 LE byte length
// followed by exactly that many bytes, truncated at the first NUL.
// The length the file stores already accounts for any padding, so no
// further rounding is applied here.
func (p *PropertyParser) readString(r *ByteReader) (string, error) {
	n, err := r.ReadI32LE()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("%w: negative string length %d", ErrMalformedProperties, n)
	}
	raw, err := r.Read(int(n))
	if err != nil {
		return "", err
	}
	if idx := bytes.IndexByte(raw, 0); idx >= 0 {
		raw = raw[:idx]
	}
	return string(raw), nil
}
