// Package esmdiff is the high-level entry point: open container files,
// scan them, and compare two or three of them, returning plain structured
// data. Rendering, CLIs, and report formatting live elsewhere.
package esmdiff

import (
	"fmt"

	"github.com/esmtools/esmdiff/esm"
	"github.com/esmtools/esmdiff/esm/diff"
	"github.com/esmtools/esmdiff/esm/schema"
	"github.com/esmtools/esmdiff/internal/mmfile"
)

// File is an opened, scanned container. Close releases the underlying
// mapping; the File must not be used afterwards.
type File struct {
	*esm.File
	cleanup func() error
}

// Open maps the file at path and scans it.
func Open(path string) (*File, error) {
	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("esmdiff: open %s: %w", path, err)
	}
	parsed, err := esm.Parse(data)
	if err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("esmdiff: parse %s: %w", path, err)
	}
	parsed.Name = path
	return &File{File: parsed, cleanup: cleanup}, nil
}

// Close releases the file mapping.
func (f *File) Close() error {
	if f.cleanup == nil {
		return nil
	}
	err := f.cleanup()
	f.cleanup = nil
	return err
}

// CompareFiles opens and scans both paths and classifies every record pair.
// Resolvers are built from each file's own editor IDs unless the options
// already carry them.
func CompareFiles(pathA, pathB string, opts diff.Options) (*diff.Result, error) {
	a, err := Open(pathA)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	b, err := Open(pathB)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	if opts.ResolverA == nil {
		opts.ResolverA = BuildResolver(a.File)
	}
	if opts.ResolverB == nil {
		opts.ResolverB = BuildResolver(b.File)
	}
	return diff.Compare(a.File, b.File, opts), nil
}

// BuildResolver indexes a file's FormID → editor-ID names for reference
// reconciliation during diff. Records without a readable editor ID are
// simply absent; the diff degrades to raw-value comparison for them.
func BuildResolver(f *esm.File) diff.Resolver {
	resolver := make(diff.Resolver)
	for _, rec := range f.Records {
		if rec.IsGroup || rec.Header.FormID == 0 {
			continue
		}
		subs, ok := f.Subrecords(rec)
		if !ok {
			continue
		}
		edid := esm.FindSubrecord(subs, "EDID", 0)
		if edid == nil || len(edid.Data) == 0 {
			continue
		}
		name, err := schema.DecodeFieldValue(edid.Data, schema.ZString, f.BigEndian)
		if err != nil || name == "" {
			continue
		}
		resolver[rec.Header.FormID] = name
	}
	return resolver
}
