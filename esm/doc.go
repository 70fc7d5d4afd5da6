// Package esm parses the hierarchical ES record-container format.
//
// A container is a byte buffer holding a leading file-header record followed
// by sibling records and groups until end of buffer. The same logical data
// ships in two physical encodings: an uncompressed little-endian reference
// encoding and a compressed big-endian console encoding. Endianness is
// detected once per buffer and every reader takes the resolved flag.
//
// All types are read-only views constructed during a scan; nothing is
// mutated afterwards, so independent scans over different buffers may run
// concurrently without locking.
//
// Corrupted input is the expected common case (buffers frequently originate
// from raw process-memory dumps). Structural problems are collected as
// Warnings and the scan continues; the only hard failure is a buffer
// shorter than one record header.
package esm
