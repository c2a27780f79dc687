// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package maxfile

import "fmt"

// Scene object child idns the camera query reads directly.
const (
	idnNodeReferences uint16 = 0x2035 // packed i32 LE reference array
	idnNodeName       uint16 = 0x962  // UTF-16LE node name
)

const nodeClassName = "Node"

// ListCameras returns the name of every Node scene object that
// references a camera object, in scene order.
//
// A camera is any scene object whose class resolves to a class entry
// with SuperClassID == CameraSuperClassID. A Node references a camera
// when its 0x2035 child's packed reference array contains that
// camera's self index. A Node with no 0x2035 child simply has no
// references and is skipped, not an error; a camera-referencing Node
// with no 0x962 name child is NodeMissingName, which is fatal, since a
// nameless node leaves the query unable to report what it found. The
// name of a Node that references no camera is not looked up.
func ListCameras(scene []SceneEntry, classes []ClassEntry) ([]string, error) {
	if !hasClass(classes, nodeClassName) {
		return nil, ErrNoNodeClass
	}

	cameraSelfIndexes := make(map[int]bool)
	for _, e := range scene {
		idx := int(e.Chunk.Header.Idn)
		if idx >= 0 && idx < len(classes) && classes[idx].Header.SuperClassID == CameraSuperClassID {
			cameraSelfIndexes[e.SelfIndex] = true
		}
	}

	var names []string
	for _, e := range scene {
		if e.ClassName != nodeClassName {
			continue
		}
		refs, ok, err := nodeReferences(e.Chunk)
		if err != nil {
			return nil, fmt.Errorf("node at scene index %d: %w", e.SelfIndex, err)
		}
		if !ok {
			continue
		}
		referencesCamera := false
		for _, ref := range refs {
			if cameraSelfIndexes[ref] {
				referencesCamera = true
				break
			}
		}
		if !referencesCamera {
			continue
		}
		name, err := nodeName(e.Chunk)
		if err != nil {
			return nil, fmt.Errorf("node at scene index %d: %w", e.SelfIndex, err)
		}
		names = append(names, name)
	}
	return names, nil
}

func hasClass(classes []ClassEntry, name string) bool {
	for _, c := range classes {
		if c.Name == name {
			return true
		}
	}
	return false
}

// nodeReferences returns the decoded 0x2035 reference array of a Node
// scene object, or ok=false if it has no such child.
func nodeReferences(c Chunk) ([]int, bool, error) {
	child, ok := findChild(c, idnNodeReferences)
	if !ok {
		return nil, false, nil
	}
	if len(child.Bytes)%4 != 0 {
		return nil, false, fmt.Errorf("reference array length %d is not a multiple of 4", len(child.Bytes))
	}
	r := NewByteReader(child.Bytes)
	refs := make([]int, 0, len(child.Bytes)/4)
	for r.Len() > 0 {
		v, err := r.ReadI32LE()
		if err != nil {
			return nil, false, err
		}
		refs = append(refs, int(v))
	}
	return refs, true, nil
}

// nodeName returns the decoded 0x962 name of a Node scene object.
func nodeName(c Chunk) (string, error) {
	child, ok := findChild(c, idnNodeName)
	if !ok {
		return "", ErrNodeMissingName
	}
	d := newUTF16Decoder()
	return d.Decode(child.Bytes)
}

func findChild(c Chunk, idn uint16) (Chunk, bool) {
	for _, child := range c.Children {
		if child.Header.Idn == idn {
			return child, true
		}
	}
	return Chunk{}, false
}
