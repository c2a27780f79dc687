// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package maxfile

import (
	"bytes"
	"testing"
)

func shortHeader(idn uint16, container bool, payloadLen int) []byte {
	length := uint32(shortHeaderSize + payloadLen)
	if container {
		length |= 1 << 31
	}
	buf := make([]byte, 6)
	buf[0], buf[1] = byte(idn), byte(idn>>8)
	buf[2] = byte(length)
	buf[3] = byte(length >> 8)
	buf[4] = byte(length >> 16)
	buf[5] = byte(length >> 24)
	return buf
}

func extendedHeader(idn uint16, container bool, payloadLen int) []byte {
	length := uint64(extendedHeaderSize + payloadLen)
	if container {
		length |= 1 << 63
	}
	buf := make([]byte, 14)
	buf[0], buf[1] = byte(idn), byte(idn>>8)
	// marker word is zero
	for i := 0; i < 8; i++ {
		buf[6+i] = byte(length >> (8 * i))
	}
	return buf
}

func TestChunkParserShortValue(t *testing.T) {
	buf := append(shortHeader(0x2039, false, 4), []byte{0x01, 0x02, 0x03, 0x04}...)
	chunks, err := NewChunkParser().Parse(buf)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	c := chunks[0]
	if c.IsContainer() {
		t.Fatalf("got container, want value")
	}
	if c.Header.Idn != 0x2039 {
		t.Fatalf("got idn 0x%x, want 0x2039", c.Header.Idn)
	}
	if !bytes.Equal(c.Bytes, []byte{0x01, 0x02, 0x03, 0x04}) {
		t.Fatalf("got bytes %x, want 01020304", c.Bytes)
	}
}

func TestChunkParserShortContainer(t *testing.T) {
	inner := shortHeader(0x2039, false, 2)
	inner = append(inner, 0xaa, 0xbb)
	outer := shortHeader(0x2038, true, len(inner))
	buf := append(outer, inner...)

	chunks, err := NewChunkParser().Parse(buf)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(chunks) != 1 || !chunks[0].IsContainer() {
		t.Fatalf("expected a single container chunk")
	}
	if len(chunks[0].Children) != 1 {
		t.Fatalf("got %d children, want 1", len(chunks[0].Children))
	}
}

func TestChunkParserExtendedValue(t *testing.T) {
	payload := make([]byte, 300)
	for i := range payload {
		payload[i] = byte(i)
	}
	buf := append(extendedHeader(0x100, false, len(payload)), payload...)

	chunks, err := NewChunkParser().Parse(buf)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(chunks) != 1 || chunks[0].IsContainer() {
		t.Fatalf("expected a single value chunk")
	}
	if !chunks[0].Header.Extended {
		t.Fatalf("expected Extended = true")
	}
	if !bytes.Equal(chunks[0].Bytes, payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestChunkParserExtendedContainer(t *testing.T) {
	inner := shortHeader(0x1, false, 1)
	inner = append(inner, 0x42)
	outer := extendedHeader(0x2, true, len(inner))
	buf := append(outer, inner...)

	chunks, err := NewChunkParser().Parse(buf)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(chunks) != 1 || !chunks[0].IsContainer() || !chunks[0].Header.Extended {
		t.Fatalf("expected a single extended container chunk")
	}
}

func TestChunkParserNested(t *testing.T) {
	leaf := shortHeader(0x10, false, 1)
	leaf = append(leaf, 0x7)
	mid := shortHeader(0x11, true, len(leaf))
	mid = append(mid, leaf...)
	top := shortHeader(0x12, true, len(mid))
	buf := append(top, mid...)

	chunks, err := NewChunkParser().Parse(buf)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if chunks[0].Depth != 1 || chunks[0].Children[0].Depth != 2 || chunks[0].Children[0].Children[0].Depth != 3 {
		t.Fatalf("unexpected depth tracking: %+v", chunks)
	}
}

func TestChunkParserTruncatedContainerFails(t *testing.T) {
	inner := shortHeader(0x1, false, 4)
	inner = append(inner, 0xaa, 0xbb, 0xcc, 0xdd)
	outer := shortHeader(0x2, true, len(inner)+10) // lies about the length
	buf := append(outer, inner...)

	if _, err := NewChunkParser().Parse(buf); err == nil {
		t.Fatalf("expected an error for a mismatched container length")
	}
}

func TestChunkParserZeroExtendedLengthFails(t *testing.T) {
	buf := make([]byte, 14)
	buf[0], buf[1] = 0x01, 0x00
	// marker and extended length both zero
	if _, err := NewChunkParser().Parse(buf); err == nil {
		t.Fatalf("expected an error for a zero extended length")
	}
}
