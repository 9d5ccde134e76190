package format

import (
	"encoding/binary"
	"fmt"
)

// SafeTensors is the decoded form of a buffer: zero-copy tensor views keyed
// by name, in header order, plus the header metadata. Every view borrows
// from the buffer given to Deserialize; the buffer must outlive the
// SafeTensors and must not be mutated while any view is in use.
type SafeTensors struct {
	names    []string
	tensors  map[string]TensorView
	metadata map[string]string
}

// Deserialize decodes buf without copying any tensor data. The header is
// parsed and fully validated against the data segment before the first
// view is constructed, so a returned SafeTensors never references
// inconsistent offsets.
func Deserialize(buf []byte) (*SafeTensors, error) {
	header, dataStart, err := splitHeader(buf)
	if err != nil {
		return nil, err
	}
	entries, metadata, err := DecodeHeader(header)
	if err != nil {
		return nil, err
	}
	data := buf[dataStart:]
	if err := Validate(entries, int64(len(data))); err != nil {
		return nil, err
	}

	st := &SafeTensors{
		names:    make([]string, 0, len(entries)),
		tensors:  make(map[string]TensorView, len(entries)),
		metadata: metadata,
	}
	for _, e := range entries {
		begin, end := e.Info.DataOffsets[0], e.Info.DataOffsets[1]
		st.names = append(st.names, e.Name)
		st.tensors[e.Name] = TensorView{
			dtype: e.Info.DType,
			shape: e.Info.Shape,
			data:  data[begin:end:end],
		}
	}
	return st, nil
}

// ReadMetadata decodes only the header and returns the metadata map (nil
// when absent), skipping layout validation and tensor views. This is the
// cheap path for header inspection.
func ReadMetadata(buf []byte) (map[string]string, error) {
	header, _, err := splitHeader(buf)
	if err != nil {
		return nil, err
	}
	_, metadata, err := DecodeHeader(header)
	if err != nil {
		return nil, err
	}
	return metadata, nil
}

// splitHeader reads the length prefix and bounds-checks the header region,
// returning the header bytes and the offset of the data segment.
func splitHeader(buf []byte) ([]byte, int64, error) {
	if len(buf) < headerLengthSize {
		return nil, 0, fmt.Errorf("%w: %d bytes, need at least %d for the header length",
			ErrBufferTooShort, len(buf), headerLengthSize)
	}
	n := binary.LittleEndian.Uint64(buf[:headerLengthSize])
	if n > MaxHeaderSize {
		return nil, 0, fmt.Errorf("%w: header length %d", ErrHeaderTooLarge, n)
	}
	end := headerLengthSize + int64(n)
	if int64(len(buf)) < end {
		return nil, 0, fmt.Errorf("%w: header length %d exceeds buffer of %d bytes",
			ErrBufferTooShort, n, len(buf))
	}
	return buf[headerLengthSize:end], end, nil
}

// Len returns the number of tensors.
func (st *SafeTensors) Len() int {
	return len(st.names)
}

// Names returns the tensor names in header order.
func (st *SafeTensors) Names() []string {
	names := make([]string, len(st.names))
	copy(names, st.names)
	return names
}

// Tensor returns the view for name.
func (st *SafeTensors) Tensor(name string) (TensorView, error) {
	v, ok := st.tensors[name]
	if !ok {
		return TensorView{}, fmt.Errorf("tensor %q not found", name)
	}
	return v, nil
}

// Tensors returns every view paired with its name, in header order.
func (st *SafeTensors) Tensors() []NamedTensor {
	out := make([]NamedTensor, len(st.names))
	for i, name := range st.names {
		out[i] = NamedTensor{Name: name, View: st.tensors[name]}
	}
	return out
}

// Metadata returns the header metadata map, nil when the header carried
// none.
func (st *SafeTensors) Metadata() map[string]string {
	return st.metadata
}
