// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package maxfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/richardlehane/mscfb"
)

// Container holds every stream of an opened CFB/OLE2 file, read fully
// into memory. Once Open returns, the underlying OS file has already
// been closed and unmapped: a Container never holds the file open or
// mapped across a parse, matching the resource discipline required of
// this layer.
type Container struct {
	streams map[string][]byte
}

// Open reads path as a CFB/OLE2 compound file and returns a Container
// holding every stream's bytes. The file is memory-mapped to avoid a
// full copy during the initial read, then copied into owned buffers
// and unmapped/closed before Open returns — the teacher's mmap-go
// idiom, adapted to a one-shot read instead of a held-open mapping.
func Open(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	owned := make([]byte, len(m))
	copy(owned, m)
	if err := m.Unmap(); err != nil {
		return nil, fmt.Errorf("unmapping %s: %w", path, err)
	}

	return OpenBytes(owned)
}

// OpenBytes parses an in-memory CFB/OLE2 image. It is the byte-slice
// counterpart to Open, used by NewBytes and by Open itself once the
// file has been mapped and copied.
func OpenBytes(buf []byte) (*Container, error) {
	doc, err := mscfb.New(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("reading compound file: %w", err)
	}

	streams := make(map[string][]byte)
	entry, err := doc.Next()
	for err == nil {
		data := make([]byte, entry.Size)
		if _, readErr := io.ReadFull(entry, data); readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("reading stream %q: %w", entry.Name, readErr)
		}
		streams[entry.Name] = data
		entry, err = doc.Next()
	}
	if err != io.EOF {
		return nil, fmt.Errorf("enumerating compound file entries: %w", err)
	}

	return &Container{streams: streams}, nil
}

// OpenStream returns the bytes of the named top-level stream.
func (c *Container) OpenStream(name string) ([]byte, error) {
	data, ok := c.streams[name]
	if !ok {
		return nil, &UnknownStreamError{Name: name, Available: c.StreamNames()}
	}
	return data, nil
}

// StreamNames returns every stream name the container holds, sorted
// for stable diagnostics.
func (c *Container) StreamNames() []string {
	names := make([]string, 0, len(c.streams))
	for name := range c.streams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
