// Package format implements the safetensors container format: named, typed,
// multi-dimensional byte buffers plus free-form string metadata in a single
// contiguous allocation, laid out for zero-copy reads.
//
//	Format Structure:
//	  [8 bytes: header length N (uint64 LE)]
//	  [N bytes: JSON header, UTF-8]
//	  [tensor data: raw bytes, back to back]
//
// The JSON header maps each tensor name to its dtype, logical shape and
// byte range within the data segment, with an optional "__metadata__" entry
// holding a flat string-to-string map:
//
//	{"w": {"dtype": "F32", "shape": [2, 3], "data_offsets": [0, 24]},
//	 "__metadata__": {"format": "v1"}}
//
// Offsets are relative to the start of the data segment and must tile it
// exactly: every byte belongs to exactly one tensor. A buffer is validated
// in full before any tensor view is handed out, so a view never references
// unchecked data.
//
// Deserialization is zero-copy: every TensorView borrows from the buffer
// passed to Deserialize (or from the mapping created by Open), and the
// buffer must outlive all views derived from it. The package holds no
// global state; independent buffers can be processed concurrently.
package format
