// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package safetensors reads and writes the safetensors container format:
// named, typed, multi-dimensional byte buffers plus free-form string
// metadata in a single contiguous buffer, designed for fast, zero-copy
// loading.
//
// # Basic Usage
//
//	import "github.com/born-ml/safetensors"
//
//	// Serialize
//	w, err := safetensors.NewTensorView(safetensors.F32, []int64{2, 3}, raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	buf, err := safetensors.Serialize(
//	    []safetensors.NamedTensor{{Name: "w", View: w}},
//	    map[string]string{"format": "v1"},
//	)
//
//	// Deserialize (zero-copy: views borrow buf)
//	st, err := safetensors.Deserialize(buf)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	view, err := st.Tensor("w")
//
//	// Or map a file directly
//	f, err := safetensors.Open("model.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
// # Ownership
//
// Deserialized tensor views never own their bytes: they borrow from the
// buffer passed to Deserialize, or from the file mapping created by Open.
// The buffer must outlive every view derived from it, and must not be
// mutated while any view is alive.
//
// # Concurrency
//
// The codec is stateless. All operations are safe to invoke concurrently
// on independent buffers; there is no global registry, cache, or lock.
package safetensors
