// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package maxfile

import (
	"fmt"
	"strings"
)

// ChunkKind distinguishes a container chunk (holds further chunks)
// from a value chunk (holds opaque payload bytes).
type ChunkKind int

// The two kinds of chunk.
const (
	ChunkValue ChunkKind = iota
	ChunkContainer
)

func (k ChunkKind) String() string {
	if k == ChunkContainer {
		return "Container"
	}
	return "Value"
}

// header byte sizes for the short and extended header forms.
const (
	shortHeaderSize    = 2 + 4     // idn (u16) + length (i32)
	extendedHeaderSize = 2 + 4 + 8 // idn (u16) + 0 marker (i32) + length (i64)

	// maxNestingDepth bounds recursion depth against pathological or
	// adversarial input. The format only needs to tolerate 64 levels
	// (spec.md §4.3); this is a generous multiple of that floor.
	maxNestingDepth = 4096
)

// ChunkHeader is the decoded header of one chunk: its tag, the byte
// length of its payload (header excluded), its kind, and whether the
// 64-bit extended length form was used.
type ChunkHeader struct {
	Idn         uint16
	ValueLength int64
	Kind        ChunkKind
	Extended    bool
}

// byteSize returns the on-wire size of this header alone.
func (h ChunkHeader) byteSize() int64 {
	if h.Extended {
		return extendedHeaderSize
	}
	return shortHeaderSize
}

// Chunk is a parsed node of the chunk tree: either a Value chunk
// carrying raw bytes, or a Container chunk carrying ordered children.
// Depth counts containers from the top level (1) downward and is
// carried only for pretty-printing; decoders never branch on it.
type Chunk struct {
	Header   ChunkHeader
	Bytes    []byte
	Children []Chunk
	Depth    int
}

// IsContainer reports whether this chunk holds children rather than
// raw bytes.
func (c Chunk) IsContainer() bool {
	return c.Header.Kind == ChunkContainer
}

// String renders a chunk and its descendants the way the original
// tool's chunk tree dump did: hex, ASCII, and (for 4-byte values) a
// decoded little-endian int32, indented by nesting depth. This is
// computed on demand — Chunk itself stores only raw bytes.
func (c Chunk) String() string {
	var b strings.Builder
	c.writeTo(&b)
	return b.String()
}

func (c Chunk) writeTo(b *strings.Builder) {
	pad := strings.Repeat("  ", c.Depth)
	ext := ""
	if c.Header.Extended {
		ext = " ext"
	}
	if c.IsContainer() {
		fmt.Fprintf(b, "%s[0x%x Container %d %d%s]\n", pad, c.Header.Idn,
			c.Header.ValueLength, len(c.Children), ext)
		for _, child := range c.Children {
			child.writeTo(b)
		}
		return
	}
	fmt.Fprintf(b, "%s[0x%x Value %d%s]\n", pad, c.Header.Idn, c.Header.ValueLength, ext)
	fmt.Fprintf(b, "%s  hex: %x\n", pad, c.Bytes)
	fmt.Fprintf(b, "%s  ascii: %s\n", pad, asciiView(c.Bytes))
	if len(c.Bytes) == 4 {
		v := int32(uint32(c.Bytes[0]) | uint32(c.Bytes[1])<<8 | uint32(c.Bytes[2])<<16 | uint32(c.Bytes[3])<<24)
		fmt.Fprintf(b, "%s  int: %d\n", pad, v)
	}
}

func asciiView(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c >= 0x20 && c < 0x7f {
			out[i] = c
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}

// ChunkParser decodes a byte stream into a tree of Chunks. It is the
// one generic parser every per-stream decoder in this module builds
// on: it does not interpret idn values, only the container/value
// structure.
type ChunkParser struct{}

// NewChunkParser returns a ready-to-use ChunkParser. It carries no
// state between calls to Parse.
func NewChunkParser() *ChunkParser {
	return &ChunkParser{}
}

// Parse decodes the whole buffer as an ordered sequence of top-level
// chunks, failing if bytes remain unconsumed or are exhausted early.
func (p *ChunkParser) Parse(buf []byte) ([]Chunk, error) {
	r := NewByteReader(buf)
	return p.readSequence(r, int64(len(buf)), 1)
}

// ReadHeader consumes one chunk header from r.
func (p *ChunkParser) ReadHeader(r *ByteReader) (ChunkHeader, error) {
	idn, err := r.ReadU16LE()
	if err != nil {
		return ChunkHeader{}, fmt.Errorf("reading chunk idn: %w", err)
	}

	rawLen, err := r.ReadU32LE()
	if err != nil {
		return ChunkHeader{}, fmt.Errorf("reading chunk length: %w", err)
	}

	extended := false
	var magnitude uint64
	var signBitSet bool

	if rawLen == 0 {
		extended = true
		raw64Signed, err := r.ReadI64LE()
		if err != nil {
			return ChunkHeader{}, fmt.Errorf("reading extended chunk length: %w", err)
		}
		raw64 := uint64(raw64Signed)
		if raw64 == 0 {
			return ChunkHeader{}, fmt.Errorf("%w: extended length is zero", ErrMalformedChunk)
		}
		signBitSet = raw64&(1<<63) != 0
		magnitude = raw64 &^ (1 << 63)
	} else {
		signBitSet = rawLen&(1<<31) != 0
		magnitude = uint64(rawLen &^ (1 << 31))
	}

	kind := ChunkValue
	if signBitSet {
		kind = ChunkContainer
	}

	header := ChunkHeader{Idn: idn, Kind: kind, Extended: extended}
	valueLength := int64(magnitude) - header.byteSize()
	if valueLength < 0 {
		return ChunkHeader{}, fmt.Errorf("%w: chunk length %d smaller than its own header", ErrMalformedChunk, magnitude)
	}
	header.ValueLength = valueLength
	return header, nil
}

// ReadOne consumes one header, then either its value payload or,
// recursively, its children.
func (p *ChunkParser) ReadOne(r *ByteReader, depth int) (Chunk, error) {
	header, err := p.ReadHeader(r)
	if err != nil {
		return Chunk{}, err
	}
	if header.Kind == ChunkContainer {
		children, err := p.readSequence(r, header.ValueLength, depth+1)
		if err != nil {
			return Chunk{}, err
		}
		return Chunk{Header: header, Children: children, Depth: depth}, nil
	}
	data, err := r.Read(int(header.ValueLength))
	if err != nil {
		return Chunk{}, fmt.Errorf("reading value payload for idn 0x%x: %w", header.Idn, err)
	}
	return Chunk{Header: header, Bytes: data, Depth: depth}, nil
}

// readSequence reads chunks from r until exactly length bytes have
// been consumed.
func (p *ChunkParser) readSequence(r *ByteReader, length int64, depth int) ([]Chunk, error) {
	if depth > maxNestingDepth {
		return nil, fmt.Errorf("%w: nesting exceeds %d levels", ErrMalformedChunk, maxNestingDepth)
	}
	start := r.Tell()
	var items []Chunk
	for r.Tell()-start < length {
		chunk, err := p.ReadOne(r, depth)
		if err != nil {
			return nil, err
		}
		items = append(items, chunk)
	}
	if consumed := r.Tell() - start; consumed != length {
		return nil, fmt.Errorf("%w: container consumed %d bytes, expected %d", ErrMalformedChunk, consumed, length)
	}
	return items, nil
}
