package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	json "github.com/goccy/go-json"
)

// MetadataKey is the reserved header key holding the free-form
// string-to-string metadata map.
const MetadataKey = "__metadata__"

// MaxHeaderSize caps the JSON header at 100MB, matching the reference
// implementation. Anything larger is rejected before parsing.
const MaxHeaderSize = 100 * 1024 * 1024

// TensorInfo describes one tensor entry in the header. Shape is the logical
// shape; DataOffsets are begin/end byte positions relative to the start of
// the data segment, not the file.
type TensorInfo struct {
	DType       Dtype    `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// NamedTensorInfo pairs a header entry with its tensor name. Slices of
// these preserve header order, which a plain map cannot.
type NamedTensorInfo struct {
	Name string
	Info TensorInfo
}

// EncodeHeader renders the canonical JSON header: tensor entries in slice
// order with fixed key order (dtype, shape, data_offsets), then the
// metadata entry last when metadata is non-empty.
func EncodeHeader(entries []NamedTensorInfo, metadata map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(e.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tensor name %q: %w", e.Name, err)
		}
		if e.Info.Shape == nil {
			e.Info.Shape = []int64{}
		}
		info, err := json.Marshal(e.Info)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tensor %q: %w", e.Name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(info)
	}
	if len(metadata) > 0 {
		if len(entries) > 0 {
			buf.WriteByte(',')
		}
		meta, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		buf.WriteString(`"` + MetadataKey + `":`)
		buf.Write(meta)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// rawTensorInfo mirrors TensorInfo with pointer fields so absent keys are
// distinguishable from zero values.
type rawTensorInfo struct {
	DType       *string   `json:"dtype"`
	Shape       *[]int64  `json:"shape"`
	DataOffsets *[2]int64 `json:"data_offsets"`
}

// DecodeHeader parses the JSON header, preserving entry order and rejecting
// duplicate keys. It returns the tensor entries in header order plus the
// metadata map (nil when the metadata entry is absent). The header must be
// a single JSON object; trailing whitespace is tolerated because writers
// may pad the header for alignment.
func DecodeHeader(raw []byte) ([]NamedTensorInfo, map[string]string, error) {
	if int64(len(raw)) > MaxHeaderSize {
		return nil, nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, len(raw))
	}
	if !utf8.Valid(raw) {
		return nil, nil, ErrInvalidUTF8
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("%w: top level is not an object", ErrMalformedHeader)
	}

	var (
		entries  []NamedTensorInfo
		metadata map[string]string
		seen     = make(map[string]struct{})
	)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("%w: non-string key", ErrMalformedHeader)
		}
		if _, dup := seen[key]; dup {
			return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateName, key)
		}
		seen[key] = struct{}{}

		if key == MetadataKey {
			if err := dec.Decode(&metadata); err != nil {
				return nil, nil, fmt.Errorf("%w: %s: %v", ErrMalformedHeader, MetadataKey, err)
			}
			continue
		}

		var info rawTensorInfo
		if err := dec.Decode(&info); err != nil {
			return nil, nil, fmt.Errorf("%w: tensor %q: %v", ErrMalformedHeader, key, err)
		}
		switch {
		case info.DType == nil:
			return nil, nil, fmt.Errorf("%w: tensor %q: dtype", ErrMissingField, key)
		case info.Shape == nil:
			return nil, nil, fmt.Errorf("%w: tensor %q: shape", ErrMissingField, key)
		case info.DataOffsets == nil:
			return nil, nil, fmt.Errorf("%w: tensor %q: data_offsets", ErrMissingField, key)
		}
		dtype, err := ParseDtype(*info.DType)
		if err != nil {
			return nil, nil, fmt.Errorf("tensor %q: %w", key, err)
		}
		entries = append(entries, NamedTensorInfo{
			Name: key,
			Info: TensorInfo{
				DType:       dtype,
				Shape:       *info.Shape,
				DataOffsets: *info.DataOffsets,
			},
		})
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: trailing data after header object", ErrMalformedHeader)
	}
	return entries, metadata, nil
}
