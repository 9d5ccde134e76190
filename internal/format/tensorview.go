package format

import "fmt"

// TensorView is a zero-copy view of one tensor's bytes inside a larger
// buffer. The view never owns its data: it borrows either the caller's
// input on serialize or the deserialized buffer on decode, and stays valid
// only while that buffer is alive and unmodified.
type TensorView struct {
	dtype Dtype
	shape []int64
	data  []byte
}

// NamedTensor pairs a tensor name with its view. Serialize consumes an
// ordered slice of these; the slice order becomes the canonical tensor
// order of the emitted file.
type NamedTensor struct {
	Name string
	View TensorView
}

// NewTensorView builds a view over data, checking that the byte length
// matches shape and dtype, including the sub-byte packing law. The shape is
// the logical one; for packed dtypes data holds the packed bytes.
func NewTensorView(dtype Dtype, shape []int64, data []byte) (TensorView, error) {
	want, err := dtype.ByteLength(shape)
	if err != nil {
		return TensorView{}, err
	}
	if int64(len(data)) != want {
		return TensorView{}, fmt.Errorf("%w: dtype %s shape %v needs %d bytes, got %d",
			ErrTensorSizeMismatch, dtype, shape, want, len(data))
	}
	return TensorView{dtype: dtype, shape: shape, data: data}, nil
}

// DType returns the element type.
func (v TensorView) DType() Dtype {
	return v.dtype
}

// Shape returns the logical shape. For packed dtypes this counts logical
// elements, not stored bytes. An empty shape is a rank-0 scalar.
func (v TensorView) Shape() []int64 {
	return v.shape
}

// PhysicalShape returns the stored byte-level shape: identical to Shape for
// byte-aligned dtypes, with the final dimension divided by the pack factor
// for packed dtypes.
func (v TensorView) PhysicalShape() []int64 {
	if !v.dtype.Packed() || len(v.shape) == 0 {
		return v.shape
	}
	phys := make([]int64, len(v.shape))
	copy(phys, v.shape)
	phys[len(phys)-1] /= v.dtype.PackFactor()
	return phys
}

// NumElements returns the logical element count; a scalar has one element.
func (v TensorView) NumElements() int64 {
	n := int64(1)
	for _, dim := range v.shape {
		n *= dim
	}
	return n
}

// Data returns the borrowed byte span. Treat it as read-only.
func (v TensorView) Data() []byte {
	return v.data
}
