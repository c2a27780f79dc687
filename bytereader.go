// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package maxfile

import "encoding/binary"

// ByteReader is a typed little-endian cursor over an in-memory buffer.
// It is the max-dump equivalent of the teacher's offset-based
// ReadUint16/ReadUint32/ReadUint64 helpers on File, generalized into a
// standalone cursor so the chunk parser and property parser can share
// it without owning a whole File.
type ByteReader struct {
	buf []byte
	pos int
}

// NewByteReader wraps buf for sequential little-endian reads.
func NewByteReader(buf []byte) *ByteReader {
	return &ByteReader{buf: buf}
}

// Tell returns the current read offset.
func (r *ByteReader) Tell() int64 {
	return int64(r.pos)
}

// Len returns the number of unread bytes remaining.
func (r *ByteReader) Len() int64 {
	return int64(len(r.buf) - r.pos)
}

// Seek repositions the cursor to an absolute offset.
func (r *ByteReader) Seek(offset int64) error {
	if offset < 0 || offset > int64(len(r.buf)) {
		return ErrShortRead
	}
	r.pos = int(offset)
	return nil
}

// Read consumes and returns the next n bytes. A short read is fatal.
func (r *ByteReader) Read(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, ErrShortRead
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU16LE reads a little-endian uint16.
func (r *ByteReader) ReadU16LE() (uint16, error) {
	b, err := r.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadI32LE reads a little-endian int32.
func (r *ByteReader) ReadI32LE() (int32, error) {
	b, err := r.Read(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// ReadU32LE reads a little-endian uint32.
func (r *ByteReader) ReadU32LE() (uint32, error) {
	b, err := r.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadI64LE reads a little-endian int64.
func (r *ByteReader) ReadI64LE() (int64, error) {
	b, err := r.Read(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

// Peek4 returns, without consuming, the next 4 bytes if available.
func (r *ByteReader) Peek4() ([4]byte, bool) {
	var out [4]byte
	if r.pos+4 > len(r.buf) {
		return out, false
	}
	copy(out[:], r.buf[r.pos:r.pos+4])
	return out, true
}
