// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package maxfile

import (
	"errors"
	"fmt"
)

// Errors returned by the CFB, chunk, property, DLL, class, linker and
// camera-query layers. Parameterized kinds are the struct error types
// further down, whose Unwrap returns the matching sentinel below so
// callers can still errors.Is against it.
var (
	// ErrShortRead is returned when a read asks for more bytes than
	// remain in the buffer.
	ErrShortRead = errors.New("short read: not enough bytes remaining")

	// ErrUnknownStream is returned when Container.OpenStream is asked
	// for a stream the container does not have.
	ErrUnknownStream = errors.New("unknown stream")

	// ErrMalformedChunk is returned when a container's declared length
	// does not match the bytes its children actually consume, or when
	// an extended length header claims a zero extended length.
	ErrMalformedChunk = errors.New("malformed chunk")

	// ErrMalformedProperties is returned when the document-summary
	// property stream's layout is violated, including a total-count
	// mismatch between the declared count and the sum of per-header
	// counts.
	ErrMalformedProperties = errors.New("malformed property stream")

	// ErrUnknownDllTag is returned when a DllDirectory top-level chunk
	// carries a tag the decoder does not recognize.
	ErrUnknownDllTag = errors.New("unknown dll directory tag")

	// ErrMalformedDllEntry is returned when a 0x2038 dll-entry
	// container's children do not match the expected shape.
	ErrMalformedDllEntry = errors.New("malformed dll entry")

	// ErrMalformedClassEntry is returned when a 0x2040 class-entry
	// container's children do not match the expected shape.
	ErrMalformedClassEntry = errors.New("malformed class entry")

	// ErrInvalidDllIndex is returned when a class entry's dll_index
	// does not resolve to -1, -2, or a valid index into the dll list.
	ErrInvalidDllIndex = errors.New("invalid dll index")

	// ErrUnknownClassIndex is returned when a scene object's header idn
	// does not index into the class table.
	ErrUnknownClassIndex = errors.New("unknown class index")

	// ErrNoNodeClass is returned when ClassDirectory3 has no entry
	// named "Node".
	ErrNoNodeClass = errors.New("no Node class in class directory")

	// ErrNodeMissingName is returned when a Node scene object has no
	// 0x962 name child.
	ErrNodeMissingName = errors.New("node scene object missing a name child")
)

// UnknownStreamError reports a missing CFB stream along with the set
// of streams the container actually has, so a caller can present a
// useful diagnostic.
type UnknownStreamError struct {
	Name      string
	Available []string
}

func (e *UnknownStreamError) Error() string {
	return fmt.Sprintf("%v: %q (available: %v)", ErrUnknownStream, e.Name, e.Available)
}

func (e *UnknownStreamError) Unwrap() error { return ErrUnknownStream }

// UnknownDllTagError reports a DllDirectory tag the decoder does not
// recognize.
type UnknownDllTagError struct {
	Idn uint16
}

func (e *UnknownDllTagError) Error() string {
	return fmt.Sprintf("%v: 0x%x", ErrUnknownDllTag, e.Idn)
}

func (e *UnknownDllTagError) Unwrap() error { return ErrUnknownDllTag }

// InvalidDllIndexError reports a class entry's dll_index failing to
// resolve against the dll list.
type InvalidDllIndexError struct {
	Index int32
}

func (e *InvalidDllIndexError) Error() string {
	return fmt.Sprintf("%v: %d", ErrInvalidDllIndex, e.Index)
}

func (e *InvalidDllIndexError) Unwrap() error { return ErrInvalidDllIndex }

// UnknownClassIndexError reports a scene object header idn with no
// matching class-table entry.
type UnknownClassIndexError struct {
	Index uint16
}

func (e *UnknownClassIndexError) Error() string {
	return fmt.Sprintf("%v: %d", ErrUnknownClassIndex, e.Index)
}

func (e *UnknownClassIndexError) Unwrap() error { return ErrUnknownClassIndex }
