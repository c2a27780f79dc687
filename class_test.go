// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package maxfile

import (
	"encoding/binary"
	"errors"
	"testing"
)

func classHeaderBytes(dllIndex, p1, p2, superClassID int32) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:], uint32(dllIndex))
	binary.LittleEndian.PutUint32(buf[4:], uint32(p1))
	binary.LittleEndian.PutUint32(buf[8:], uint32(p2))
	binary.LittleEndian.PutUint32(buf[12:], uint32(superClassID))
	return buf
}

func TestClassDecoderDecode(t *testing.T) {
	chunks := []Chunk{
		containerChunk(idnClassEntry,
			valueChunk(idnClassHeader, classHeaderBytes(0, 1, 2, CameraSuperClassID)),
			valueChunk(idnClassName, utf16leBytes("Camera")),
		),
		containerChunk(idnClassEntry,
			valueChunk(idnClassHeader, classHeaderBytes(-1, 3, 4, 0x1)),
			valueChunk(idnClassName, utf16leBytes("Node")),
		),
	}

	entries, err := NewClassDecoder().Decode(chunks)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != "Camera" || entries[0].Index != 0 {
		t.Fatalf("unexpected entry 0: %+v", entries[0])
	}
	if entries[0].Header.SuperClassID != CameraSuperClassID {
		t.Fatalf("got super_class_id %d, want 0x20", entries[0].Header.SuperClassID)
	}
	if entries[1].Name != "Node" || entries[1].Index != 1 {
		t.Fatalf("unexpected entry 1: %+v", entries[1])
	}
}

func TestClassDecoderMalformedHeaderLength(t *testing.T) {
	chunks := []Chunk{containerChunk(idnClassEntry,
		valueChunk(idnClassHeader, []byte{1, 2, 3}),
		valueChunk(idnClassName, utf16leBytes("Broken")),
	)}
	_, err := NewClassDecoder().Decode(chunks)
	if !errors.Is(err, ErrMalformedClassEntry) {
		t.Fatalf("got %v, want ErrMalformedClassEntry", err)
	}
}

func TestLinkClassesToDlls(t *testing.T) {
	classes := []ClassEntry{
		{Index: 0, Name: "Camera", Header: ClassHeader{DllIndex: dllIndexBuiltin}},
		{Index: 1, Name: "MyScript", Header: ClassHeader{DllIndex: dllIndexScript}},
		{Index: 2, Name: "Widget", Header: ClassHeader{DllIndex: 0}},
	}
	dlls := []DllEntry{{Name: "custattribcontainer.dlo", Description: "Custom Attribute Container (Autodesk)"}}

	linked, err := LinkClassesToDlls(classes, dlls)
	if err != nil {
		t.Fatalf("LinkClassesToDlls() error = %v", err)
	}
	if linked[0].DllName != "builtin" || linked[0].DllDescription != "Built-in type" {
		t.Errorf("got (%q, %q), want (builtin, Built-in type)", linked[0].DllName, linked[0].DllDescription)
	}
	if linked[1].DllName != "script" || linked[1].DllDescription != "Scripted class" {
		t.Errorf("got (%q, %q), want (script, Scripted class)", linked[1].DllName, linked[1].DllDescription)
	}
	if linked[2].DllName != "custattribcontainer.dlo" || linked[2].DllDescription != "Custom Attribute Container (Autodesk)" {
		t.Errorf("got (%q, %q), want (custattribcontainer.dlo, Custom Attribute Container (Autodesk))",
			linked[2].DllName, linked[2].DllDescription)
	}
}

func TestLinkClassesToDllsInvalidIndex(t *testing.T) {
	classes := []ClassEntry{{Index: 0, Name: "Widget", Header: ClassHeader{DllIndex: 5}}}
	_, err := LinkClassesToDlls(classes, nil)
	if !errors.Is(err, ErrInvalidDllIndex) {
		t.Fatalf("got %v, want ErrInvalidDllIndex", err)
	}
}
