// Package format houses the low-level layout of the ES record-container
// format. The goal is to keep the byte-level knowledge focused,
// allocation-free where possible, and independent from the public API so
// higher-level packages can orchestrate the data in a more ergonomic form.
//
// The container exists in two physical encodings of the same logical data:
// an uncompressed little-endian reference encoding and a compressed
// big-endian console encoding. Every multi-byte field, signatures included,
// is byte-reversed in the big-endian encoding.
package format

var (
	// FileSignature is the four-byte signature of the leading file-header
	// record in the little-endian encoding. In the big-endian encoding the
	// bytes appear reversed; see DetectEndian in the esm package.
	FileSignature = []byte{'T', 'E', 'S', '4'}

	// GroupSignature identifies a group container record. A group's payload
	// is itself a sequence of sibling records/groups.
	GroupSignature = []byte{'G', 'R', 'U', 'P'}
)

const (
	// RecordHeaderSize is the size of every record header, group or leaf.
	// Layout:
	//   0x00  signature   (4 bytes)
	//   0x04  size        (uint32) payload size for leaves; whole subtree
	//                     span including this header for groups
	//   0x08  flags       (uint32) -- grouping label slot also, see below
	//   0x0C  formID      (uint32) -- grouping label for groups
	//   0x10  revision    (uint32) -- group-type tag for groups
	//   0x14  version     (uint16)
	//   0x16  reserved    (uint16)
	RecordHeaderSize = 24

	// Record header field offsets.
	SignatureOffset = 0x00
	SignatureSize   = 4
	SizeOffset      = 0x04
	FlagsOffset     = 0x08
	FormIDOffset    = 0x0C
	RevisionOffset  = 0x10
	VersionOffset   = 0x14
	ReservedOffset  = 0x16

	// Group headers reuse the same 24-byte shape: the formID slot carries the
	// 4-byte grouping label and the revision slot carries the group-type tag.
	GroupLabelOffset = FormIDOffset
	GroupTypeOffset  = RevisionOffset

	// FormatInfoSize is the size of the 12-byte format-info payload carried by
	// the leading header record:
	//   0x00  version      (float32)
	//   0x04  record count (uint32)
	//   0x08  next object  (uint32)
	FormatInfoSize = 12

	FormatInfoVersionOffset = 0x00
	FormatInfoCountOffset   = 0x04
	FormatInfoNextIDOffset  = 0x08

	// SubrecordHeaderSize is the header preceding every subrecord payload:
	// 4-byte signature + uint16 data size. Subrecords are densely packed with
	// no alignment padding.
	SubrecordHeaderSize = 6

	SubrecordSizeOffset = 0x04

	// CompressedPrefixSize is the uint32 decompressed-length field that
	// precedes the zlib stream in a compressed payload.
	CompressedPrefixSize = 4
)

// Record flag bits.
const (
	// FlagMaster marks the top-level master record.
	FlagMaster = 0x00000001

	// FlagCompressed marks a record whose payload is a uint32 decompressed
	// length followed by a zlib stream.
	FlagCompressed = 0x00040000
)

// Safety limits for adversarial input. The source data regularly originates
// from raw process memory dumps, so garbage headers are the common case, not
// the exception.
const (
	// MaxDecompressedSize rejects implausible declared decompressed lengths
	// before any allocation happens. A corrupted length field can claim
	// gigabytes; nothing legitimate exceeds this.
	MaxDecompressedSize = 100 << 20 // 100 MiB

	// MaxGroupDepth caps group nesting during descent. Real containers stay
	// under a dozen levels; anything deeper is structural corruption.
	MaxGroupDepth = 64
)

// Group-type tags stored in the group header's type slot. They select the
// grouping strategy for the group's children.
const (
	GroupTopLevel       = 0  // children share the record type named by the label
	GroupWorldChildren  = 1  // children belong to the world identified by the label FormID
	GroupInteriorBlock  = 2  // interior cell block (label = block number)
	GroupInteriorSub    = 3  // interior cell sub-block (label = sub-block number)
	GroupExteriorBlock  = 4  // exterior spatial block (label = packed Y,X int16 pair)
	GroupExteriorSub    = 5  // exterior spatial sub-block (label = packed Y,X int16 pair)
	GroupCellChildren   = 6  // children of the cell identified by the label FormID
	GroupTopicChildren  = 7  // children of the dialog topic identified by the label FormID
	GroupCellPersistent = 8  // persistent bucket of a cell's children
	GroupCellTemporary  = 9  // temporary bucket of a cell's children
	GroupCellDistant    = 10 // visible-when-distant bucket of a cell's children
)
