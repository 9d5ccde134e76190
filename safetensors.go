package safetensors

import (
	"github.com/born-ml/safetensors/internal/format"
)

// Dtype identifies the element type of a tensor. The enumeration is ordered
// by ascending element alignment, so ordinal comparison picks the
// widest-aligned dtype in a batch.
type Dtype = format.Dtype

// Supported dtypes, in ascending alignment order.
const (
	Bool   Dtype = format.Bool
	F4     Dtype = format.F4
	F6E2M3 Dtype = format.F6E2M3
	F6E3M2 Dtype = format.F6E3M2
	U8     Dtype = format.U8
	I8     Dtype = format.I8
	F8E5M2 Dtype = format.F8E5M2
	F8E4M3 Dtype = format.F8E4M3
	F8E8M0 Dtype = format.F8E8M0
	I16    Dtype = format.I16
	U16    Dtype = format.U16
	F16    Dtype = format.F16
	BF16   Dtype = format.BF16
	I32    Dtype = format.I32
	U32    Dtype = format.U32
	F32    Dtype = format.F32
	F64    Dtype = format.F64
	I64    Dtype = format.I64
	U64    Dtype = format.U64
)

// TensorView is a zero-copy view of one tensor's bytes inside a larger
// buffer.
type TensorView = format.TensorView

// NamedTensor pairs a tensor name with its view; slices of these carry the
// canonical tensor order.
type NamedTensor = format.NamedTensor

// TensorInfo describes one tensor entry in a header.
type TensorInfo = format.TensorInfo

// NamedTensorInfo pairs a header entry with its tensor name.
type NamedTensorInfo = format.NamedTensorInfo

// SafeTensors is the decoded form of a buffer: zero-copy views keyed by
// name, plus header metadata.
type SafeTensors = format.SafeTensors

// File is a memory-mapped safetensors file.
type File = format.File

// MetadataKey is the reserved header key holding the metadata map.
const MetadataKey = format.MetadataKey

// MaxHeaderSize is the largest accepted JSON header.
const MaxHeaderSize = format.MaxHeaderSize

// Sentinel errors, one per corruption class; match with errors.Is.
var (
	ErrBufferTooShort       = format.ErrBufferTooShort
	ErrHeaderTooLarge       = format.ErrHeaderTooLarge
	ErrMalformedHeader      = format.ErrMalformedHeader
	ErrInvalidUTF8          = format.ErrInvalidUTF8
	ErrUnknownDtype         = format.ErrUnknownDtype
	ErrMissingField         = format.ErrMissingField
	ErrDuplicateName        = format.ErrDuplicateName
	ErrInvalidOffset        = format.ErrInvalidOffset
	ErrOffsetOverlapOrGap   = format.ErrOffsetOverlapOrGap
	ErrTensorSizeMismatch   = format.ErrTensorSizeMismatch
	ErrInvalidShape         = format.ErrInvalidShape
	ErrInvalidShapeForDtype = format.ErrInvalidShapeForDtype
)

// ParseDtype maps a header dtype name (e.g. "F32") back to its Dtype.
func ParseDtype(name string) (Dtype, error) {
	return format.ParseDtype(name)
}

// NewTensorView builds a view over data, checking that the byte length
// matches shape and dtype, including the sub-byte packing law.
func NewTensorView(dtype Dtype, shape []int64, data []byte) (TensorView, error) {
	return format.NewTensorView(dtype, shape, data)
}

// Serialize lays the named tensors out into a single contiguous buffer:
// 8-byte little-endian header length, JSON header, then tensor data in
// slice order.
func Serialize(tensors []NamedTensor, metadata map[string]string) ([]byte, error) {
	return format.Serialize(tensors, metadata)
}

// SerializeToFile writes Serialize's output to path. Filesystem errors
// propagate unchanged, distinguishable from format errors.
func SerializeToFile(tensors []NamedTensor, metadata map[string]string, path string) error {
	return format.SerializeToFile(tensors, metadata, path)
}

// Deserialize decodes buf without copying tensor data. The returned views
// borrow buf, which must outlive them and must not be mutated while they
// are in use.
func Deserialize(buf []byte) (*SafeTensors, error) {
	return format.Deserialize(buf)
}

// ReadMetadata decodes only the header and returns the metadata map (nil
// when absent); no tensor views are materialized.
func ReadMetadata(buf []byte) (map[string]string, error) {
	return format.ReadMetadata(buf)
}

// Open memory-maps path read-only and decodes it in place. Always Close
// the returned file when done.
func Open(path string) (*File, error) {
	return format.Open(path)
}
