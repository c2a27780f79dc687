// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package maxfile reads 3ds Max .max scene files: a CFB/OLE2 compound
// file holding a proprietary chunk-based binary format that registers
// plugin DLLs, registers classes those DLLs implement, and lays out a
// scene graph of objects referencing those classes.
package maxfile

import (
	"fmt"

	"github.com/NeKidaem/max-dump/log"
)

// Well-known top-level stream names inside a .max compound file.
const (
	StreamClassData              = "ClassData"
	StreamClassDirectory3        = "ClassDirectory3"
	StreamConfig                 = "Config"
	StreamDllDirectory           = "DllDirectory"
	StreamFileAssetMetaData3     = "FileAssetMetaData3"
	StreamScene                  = "Scene"
	StreamScriptedCustAttribDefs = "ScriptedCustAttribDefs"
	StreamVideoPostQueue         = "VideoPostQueue"
	StreamDocumentSummary        = "\x05DocumentSummaryInformation"
)

// Options configures how a File is opened. A nil Options or nil Logger
// falls back to log.DefaultHelper, which writes warnings and above to
// stderr: opening and parsing never requires a logger.
type Options struct {
	Logger *log.Helper
}

// File is the decoded form of a .max scene file: its DLL registry,
// its class registry (each entry linked back to the DLL that
// registers it), and its scene graph (each top-level object
// annotated with the class it resolves to).
type File struct {
	container *Container

	DLLs    []DllEntry
	Classes []LinkedClassEntry
	Scene   []SceneEntry

	log *log.Helper
}

// New opens and fully decodes the .max file at path.
func New(path string, opts *Options) (*File, error) {
	c, err := Open(path)
	if err != nil {
		return nil, err
	}
	return newFromContainer(c, opts)
}

// NewBytes decodes an in-memory .max file image, for callers that
// already have the bytes (tests, streaming ingestion, fuzzing).
func NewBytes(buf []byte, opts *Options) (*File, error) {
	c, err := OpenBytes(buf)
	if err != nil {
		return nil, err
	}
	return newFromContainer(c, opts)
}

func newFromContainer(c *Container, opts *Options) (*File, error) {
	helper := log.DefaultHelper()
	if opts != nil && opts.Logger != nil {
		helper = opts.Logger
	}

	f := &File{container: c, log: helper}

	if err := f.parse(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) parse() error {
	cp := NewChunkParser()

	dllBuf, err := f.container.OpenStream(StreamDllDirectory)
	if err != nil {
		return fmt.Errorf("opening %s: %w", StreamDllDirectory, err)
	}
	dllChunks, err := cp.Parse(dllBuf)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", StreamDllDirectory, err)
	}
	dlls, err := NewDllDecoder().Decode(dllChunks)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", StreamDllDirectory, err)
	}
	f.log.Debugf("decoded %d dll entries", len(dlls))

	classBuf, err := f.container.OpenStream(StreamClassDirectory3)
	if err != nil {
		return fmt.Errorf("opening %s: %w", StreamClassDirectory3, err)
	}
	classChunks, err := cp.Parse(classBuf)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", StreamClassDirectory3, err)
	}
	classes, err := NewClassDecoder().Decode(classChunks)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", StreamClassDirectory3, err)
	}
	f.log.Debugf("decoded %d class entries", len(classes))

	linked, err := LinkClassesToDlls(classes, dlls)
	if err != nil {
		return fmt.Errorf("linking classes to dlls: %w", err)
	}

	sceneBuf, err := f.container.OpenStream(StreamScene)
	if err != nil {
		return fmt.Errorf("opening %s: %w", StreamScene, err)
	}
	sceneChunks, err := cp.Parse(sceneBuf)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", StreamScene, err)
	}

	// The Scene stream is itself a single top-level container; its
	// children are the positionally-indexed scene objects.
	if len(sceneChunks) == 1 && sceneChunks[0].IsContainer() {
		sceneChunks = sceneChunks[0].Children
	}

	scene, err := AnnotateScene(sceneChunks, classes)
	if err != nil {
		return fmt.Errorf("annotating scene: %w", err)
	}
	f.log.Debugf("annotated %d scene objects", len(scene))

	f.DLLs = dlls
	f.Classes = linked
	f.Scene = scene
	return nil
}

// ListCameras returns the name of every scene node that references a
// camera object, in scene order.
func (f *File) ListCameras() ([]string, error) {
	classes := make([]ClassEntry, len(f.Classes))
	for i, c := range f.Classes {
		classes[i] = c.ClassEntry
	}
	return ListCameras(f.Scene, classes)
}

// Properties decodes the document-summary property stream, if the
// container has one.
func (f *File) Properties() (*PropertyTable, error) {
	buf, err := f.container.OpenStream(StreamDocumentSummary)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", StreamDocumentSummary, err)
	}
	return NewPropertyParser().Parse(buf)
}

// ParseStream parses an arbitrary stream by name as a chunk tree,
// for the --parse-stream diagnostic.
func (f *File) ParseStream(name string) ([]Chunk, error) {
	buf, err := f.container.OpenStream(name)
	if err != nil {
		return nil, err
	}
	return NewChunkParser().Parse(buf)
}

// DumpStream returns the raw bytes of an arbitrary stream by name,
// for the --dump-stream diagnostic.
func (f *File) DumpStream(name string) ([]byte, error) {
	return f.container.OpenStream(name)
}

// StreamNames returns every top-level stream name present in the
// underlying container.
func (f *File) StreamNames() []string {
	return f.container.StreamNames()
}
