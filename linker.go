// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package maxfile

import "fmt"

// LinkedClassEntry is a ClassEntry with its registering DLL's name and
// description resolved, the flattened record the terse class/DLL
// listings print.
type LinkedClassEntry struct {
	ClassEntry
	DllName        string
	DllDescription string
}

// LinkClassesToDlls resolves every class entry's dll_index against
// the decoded DLL list, producing the flattened listing the --parse-stream
// diagnostic prints for ClassDirectory3.
func LinkClassesToDlls(classes []ClassEntry, dlls []DllEntry) ([]LinkedClassEntry, error) {
	linked := make([]LinkedClassEntry, 0, len(classes))
	for _, c := range classes {
		name, desc, err := ResolveDll(dlls, c.Header.DllIndex)
		if err != nil {
			return nil, fmt.Errorf("class %q (index %d): %w", c.Name, c.Index, err)
		}
		linked = append(linked, LinkedClassEntry{ClassEntry: c, DllName: name, DllDescription: desc})
	}
	return linked, nil
}

// SceneEntry is one top-level object in the Scene stream, annotated
// with the name of the class its header idn resolves to and its own
// positional index among scene objects — the two pieces of
// information the camera query and the scene listing both need.
type SceneEntry struct {
	SelfIndex int
	ClassName string
	Chunk     Chunk
}

// AnnotateScene walks the top-level chunks of a parsed Scene stream
// and, for each one, resolves its header idn into the class that
// registers it, attaching the class name and the object's own
// 0-based position in the scene.
func AnnotateScene(sceneChunks []Chunk, classes []ClassEntry) ([]SceneEntry, error) {
	entries := make([]SceneEntry, 0, len(sceneChunks))
	for i, c := range sceneChunks {
		idx := int(c.Header.Idn)
		if idx < 0 || idx >= len(classes) {
			return nil, fmt.Errorf("scene object %d: %w", i, &UnknownClassIndexError{Index: c.Header.Idn})
		}
		entries = append(entries, SceneEntry{
			SelfIndex: i,
			ClassName: classes[idx].Name,
			Chunk:     c,
		})
	}
	return entries, nil
}
