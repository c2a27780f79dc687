// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package maxfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func lenPrefixedString(s string) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int32(len(s)))
	buf.WriteString(s)
	return buf.Bytes()
}

func buildPropertyStream(headerNames []string, valuesPerHeader [][]string) []byte {
	var buf bytes.Buffer
	for i, name := range headerNames {
		buf.Write(propertyMarker[:])
		buf.Write(lenPrefixedString(name))
		buf.Write(propertyDelimiter[:])
		binary.Write(&buf, binary.LittleEndian, int32(len(valuesPerHeader[i])))
	}
	buf.Write(propertySentinel[:])
	total := 0
	for _, vs := range valuesPerHeader {
		total += len(vs)
	}
	binary.Write(&buf, binary.LittleEndian, int32(total))
	for _, vs := range valuesPerHeader {
		for _, v := range vs {
			buf.Write(lenPrefixedString(v))
		}
	}
	return buf.Bytes()
}

func TestPropertyParserHappyPath(t *testing.T) {
	buf := buildPropertyStream(
		[]string{"SummaryInformation", "DocumentSummaryInformation"},
		[][]string{{"Title", "Author"}, {"Category"}},
	)
	table, err := NewPropertyParser().Parse(buf)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(table.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(table.Groups))
	}
	if table.Groups[0].Name != "SummaryInformation" || len(table.Groups[0].Values) != 2 {
		t.Fatalf("unexpected group 0: %+v", table.Groups[0])
	}
	if table.Groups[0].Values[0] != "Title" || table.Groups[0].Values[1] != "Author" {
		t.Fatalf("unexpected values: %+v", table.Groups[0].Values)
	}
	if table.Groups[1].Name != "DocumentSummaryInformation" || table.Groups[1].Values[0] != "Category" {
		t.Fatalf("unexpected group 1: %+v", table.Groups[1])
	}
}

func TestPropertyParserTruncatesAtNUL(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(propertyMarker[:])
	buf.Write(lenPrefixedString("Group"))
	buf.Write(propertyDelimiter[:])
	binary.Write(&buf, binary.LittleEndian, int32(1))
	buf.Write(propertySentinel[:])
	binary.Write(&buf, binary.LittleEndian, int32(1))
	// value length 8 but content NUL-terminated after 5 bytes: decoder
	// must still read all 8 bytes and truncate at the first NUL.
	binary.Write(&buf, binary.LittleEndian, int32(8))
	buf.Write([]byte("Hello\x00\x00\x00"))

	table, err := NewPropertyParser().Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if table.Groups[0].Values[0] != "Hello" {
		t.Fatalf("got %q, want %q", table.Groups[0].Values[0], "Hello")
	}
}

func TestPropertyParserCountMismatchIsFatal(t *testing.T) {
	buf := buildPropertyStream([]string{"Group"}, [][]string{{"A", "B"}})
	// corrupt the declared total to be one too many.
	const sentinelAndCountOffset = len(propertyMarker) + 4 /*name len*/ + len("Group") + len(propertyDelimiter) + 4
	data := append([]byte{}, buf...)
	totalOffset := sentinelAndCountOffset + len(propertySentinel)
	binary.LittleEndian.PutUint32(data[totalOffset:], 3)

	_, err := NewPropertyParser().Parse(data)
	if err == nil {
		t.Fatalf("expected a count-mismatch error")
	}
	if !errors.Is(err, ErrMalformedProperties) {
		t.Fatalf("got %v, want ErrMalformedProperties", err)
	}
}

func TestPropertyParserMissingMarkerFails(t *testing.T) {
	_, err := NewPropertyParser().Parse([]byte{0, 1, 2, 3})
	if !errors.Is(err, ErrMalformedProperties) {
		t.Fatalf("got %v, want ErrMalformedProperties", err)
	}
}
