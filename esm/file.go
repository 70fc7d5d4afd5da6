package esm

import (
	"errors"

	"github.com/esmtools/esmdiff/internal/format"
)

// File bundles a scanned container: the resident buffer, its resolved
// endianness, the flat record list, and every warning the scan produced.
// A File is read-only after Parse; independent Files never share state.
type File struct {
	Name      string
	Data      []byte
	BigEndian bool
	Header    *FileHeader
	Records   []Record
	Warnings  []Warning
}

// Parse detects endianness and scans the whole buffer. The only error is a
// buffer shorter than one record header; everything else degrades to
// warnings on the returned File.
func Parse(data []byte) (*File, error) {
	big, ok := DetectEndian(data)
	f, err := ParseWithEndian(data, big)
	if err != nil {
		return nil, err
	}
	if !ok {
		f.Warnings = append([]Warning{{
			Offset: 0,
			Kind:   WarnUnknownEndianness,
			Detail: "leading signature matched neither byte order, assuming little-endian",
		}}, f.Warnings...)
	}
	return f, nil
}

// ParseWithEndian scans the buffer under a caller-chosen endianness,
// bypassing detection.
func ParseWithEndian(data []byte, bigEndian bool) (*File, error) {
	records, warnings, err := ScanAllRecords(data, bigEndian)
	if err != nil {
		return nil, err
	}
	f := &File{
		Data:      data,
		BigEndian: bigEndian,
		Records:   records,
		Warnings:  warnings,
	}
	if hdr, err := ParseFileHeader(data, bigEndian); err == nil {
		f.Header = hdr
	}
	return f, nil
}

// RecordData returns a record's payload, decompressing when needed.
func (f *File) RecordData(rec Record) ([]byte, bool) {
	return RecordData(f.Data, rec, f.BigEndian)
}

// Subrecords parses a record's payload into its subrecord list. ok is false
// when the payload is unavailable.
func (f *File) Subrecords(rec Record) ([]Subrecord, bool) {
	payload, ok := f.RecordData(rec)
	if !ok {
		return nil, false
	}
	return ParseSubrecords(payload, f.BigEndian), true
}

// FindRecord returns the index-th non-group record with the given FormID and
// signature, or nil. Index counts duplicates in scan order.
func (f *File) FindRecord(formID uint32, signature string, index int) *Record {
	seen := 0
	for i := range f.Records {
		r := &f.Records[i]
		if r.IsGroup || r.Header.FormID != formID || r.Header.Signature != signature {
			continue
		}
		if seen == index {
			return r
		}
		seen++
	}
	return nil
}

// RecordsOfType returns all non-group records with the given signature, in
// scan order.
func (f *File) RecordsOfType(signature string) []Record {
	var out []Record
	for _, r := range f.Records {
		if !r.IsGroup && r.Header.Signature == signature {
			out = append(out, r)
		}
	}
	return out
}

// Path maps a record back to its structural breadcrumb by locating its own
// header offset. Useful for matching records across files by path when
// FormIDs themselves are suspect.
func (f *File) Path(rec Record) ([]Crumb, error) {
	loc, err := Locate(f.Data, f.BigEndian, 0, len(f.Data), rec.Offset)
	if err != nil {
		return nil, err
	}
	if loc.Record == nil || loc.Record.Offset != rec.Offset {
		return nil, errors.New("esm: record offset not found in its own file")
	}
	return loc.Breadcrumb, nil
}

// MinBufferSize is the smallest parseable input: one record header.
const MinBufferSize = format.RecordHeaderSize
