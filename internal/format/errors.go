package format

import "errors"

var (
	// ErrBufferTooSmall indicates the input is shorter than the minimum
	// file header. This is the one hard failure: there is nothing to scan.
	ErrBufferTooSmall = errors.New("format: buffer smaller than minimum header")

	// ErrTruncated indicates a structure declared more bytes than the buffer holds.
	ErrTruncated = errors.New("format: truncated buffer")

	// ErrSignatureMismatch indicates a structure had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")

	// ErrDepthExceeded indicates group nesting passed MaxGroupDepth,
	// treated as structural corruption rather than descending further.
	ErrDepthExceeded = errors.New("format: group nesting too deep")

	// ErrNoPayload indicates a record's payload is unavailable, typically
	// because decompression failed or the declared size was implausible.
	ErrNoPayload = errors.New("format: record payload unavailable")
)
