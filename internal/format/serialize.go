package format

import (
	"encoding/binary"
	"fmt"
	"os"
)

// headerLengthSize is the fixed little-endian uint64 prefix in front of the
// JSON header.
const headerLengthSize = 8

// Serialize lays out the named tensors into a single contiguous buffer: an
// 8-byte little-endian header length, the JSON header, then every tensor's
// bytes back to back. Offsets are assigned in slice order starting at zero,
// and the header records tensors in that same order; there is no resorting
// by name or size.
//
// The output borrows nothing: tensor bytes are copied into the buffer, so
// the caller's data may be released afterwards.
func Serialize(tensors []NamedTensor, metadata map[string]string) ([]byte, error) {
	seen := make(map[string]struct{}, len(tensors))
	for _, t := range tensors {
		if _, dup := seen[t.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, t.Name)
		}
		seen[t.Name] = struct{}{}
	}

	entries := make([]NamedTensorInfo, 0, len(tensors))
	offset := int64(0)
	for _, t := range tensors {
		size, err := t.View.DType().ByteLength(t.View.Shape())
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", t.Name, err)
		}
		if int64(len(t.View.Data())) != size {
			return nil, fmt.Errorf("%w: tensor %q: dtype %s shape %v needs %d bytes, got %d",
				ErrTensorSizeMismatch, t.Name, t.View.DType(), t.View.Shape(), size, len(t.View.Data()))
		}
		entries = append(entries, NamedTensorInfo{
			Name: t.Name,
			Info: TensorInfo{
				DType:       t.View.DType(),
				Shape:       t.View.Shape(),
				DataOffsets: [2]int64{offset, offset + size},
			},
		})
		offset += size
	}

	header, err := EncodeHeader(entries, metadata)
	if err != nil {
		return nil, err
	}
	if int64(len(header)) > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, len(header))
	}

	// Self-check: a correct layout always validates, but catching an
	// internal bug here is cheaper than shipping a corrupt buffer.
	if err := Validate(entries, offset); err != nil {
		return nil, fmt.Errorf("serialized layout failed validation: %w", err)
	}

	out := make([]byte, 0, headerLengthSize+len(header)+int(offset))
	out = binary.LittleEndian.AppendUint64(out, uint64(len(header)))
	out = append(out, header...)
	for _, t := range tensors {
		out = append(out, t.View.Data()...)
	}
	return out, nil
}

// SerializeToFile writes Serialize's output to path. Filesystem errors wrap
// the underlying os error and never alias a format sentinel, so callers can
// tell bad data from a bad environment.
func SerializeToFile(tensors []NamedTensor, metadata map[string]string, path string) (err error) {
	buf, err := Serialize(tensors, metadata)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	if _, err = f.Write(buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
