package format

import (
	"fmt"
	"math"
)

// Dtype identifies the element type of a tensor.
//
// The enumeration is ordered by ascending element alignment. Downstream
// consumers compare ordinals to pick the widest-aligned dtype in a batch,
// so a new dtype must be inserted at its alignment rank, never appended at
// the end.
type Dtype int

// Supported dtypes, in ascending alignment order.
const (
	// Bool is a boolean stored as one byte.
	Bool Dtype = iota
	// F4 is the OCP microscaling 4-bit float, packed two elements per byte.
	F4
	// F6E2M3 is the OCP microscaling 6-bit float (2-bit exponent).
	F6E2M3
	// F6E3M2 is the OCP microscaling 6-bit float (3-bit exponent).
	F6E3M2
	// U8 is an unsigned byte.
	U8
	// I8 is a signed byte.
	I8
	// F8E5M2 is an 8-bit float with a 5-bit exponent.
	F8E5M2
	// F8E4M3 is an 8-bit float with a 4-bit exponent.
	F8E4M3
	// F8E8M0 is the OCP microscaling 8-bit scale format.
	F8E8M0
	// I16 is a signed 16-bit integer.
	I16
	// U16 is an unsigned 16-bit integer.
	U16
	// F16 is a half-precision float.
	F16
	// BF16 is a brain float.
	BF16
	// I32 is a signed 32-bit integer.
	I32
	// U32 is an unsigned 32-bit integer.
	U32
	// F32 is a single-precision float.
	F32
	// F64 is a double-precision float.
	F64
	// I64 is a signed 64-bit integer.
	I64
	// U64 is an unsigned 64-bit integer.
	U64
)

// dtypeDesc is one row of the dtype table: the header name, the element
// width in bits, and the number of logical elements packed into one stored
// byte (0 for dtypes that are not packed).
type dtypeDesc struct {
	name string
	bits int64
	pack int64
}

// dtypeTable is the single source of truth for dtype names, widths and
// packing behavior. The name mapping in both directions and every size
// computation derive from it, so adding a dtype touches exactly one place.
var dtypeTable = [...]dtypeDesc{
	Bool:   {name: "BOOL", bits: 8},
	F4:     {name: "F4", bits: 4, pack: 2},
	F6E2M3: {name: "F6_E2M3", bits: 6},
	F6E3M2: {name: "F6_E3M2", bits: 6},
	U8:     {name: "U8", bits: 8},
	I8:     {name: "I8", bits: 8},
	F8E5M2: {name: "F8_E5M2", bits: 8},
	F8E4M3: {name: "F8_E4M3", bits: 8},
	F8E8M0: {name: "F8_E8M0", bits: 8},
	I16:    {name: "I16", bits: 16},
	U16:    {name: "U16", bits: 16},
	F16:    {name: "F16", bits: 16},
	BF16:   {name: "BF16", bits: 16},
	I32:    {name: "I32", bits: 32},
	U32:    {name: "U32", bits: 32},
	F32:    {name: "F32", bits: 32},
	F64:    {name: "F64", bits: 64},
	I64:    {name: "I64", bits: 64},
	U64:    {name: "U64", bits: 64},
}

// dtypeByName is the inverse of the table's name column.
var dtypeByName = func() map[string]Dtype {
	m := make(map[string]Dtype, len(dtypeTable))
	for dt, desc := range dtypeTable {
		m[desc.name] = Dtype(dt)
	}
	return m
}()

// ParseDtype maps a header dtype name back to its Dtype.
func ParseDtype(name string) (Dtype, error) {
	dt, ok := dtypeByName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDtype, name)
	}
	return dt, nil
}

// String returns the header name of the dtype (e.g. "F32").
func (dt Dtype) String() string {
	if !dt.valid() {
		return fmt.Sprintf("Dtype(%d)", int(dt))
	}
	return dtypeTable[dt].name
}

// BitSize returns the width of a single element in bits.
func (dt Dtype) BitSize() int64 {
	return dtypeTable[dt].bits
}

// Packed reports whether the dtype stores multiple logical elements per
// byte.
func (dt Dtype) Packed() bool {
	return dtypeTable[dt].pack > 1
}

// PackFactor returns the number of logical elements per stored byte for
// packed dtypes, and 1 otherwise.
func (dt Dtype) PackFactor() int64 {
	if p := dtypeTable[dt].pack; p > 1 {
		return p
	}
	return 1
}

func (dt Dtype) valid() bool {
	return dt >= 0 && int(dt) < len(dtypeTable)
}

// ByteLength returns the number of stored bytes for a tensor of this dtype
// with the given logical shape. An empty shape is a scalar with one
// element.
//
// This is the packing law consulted by the validator and both engines. A
// packed dtype requires a non-scalar shape whose final dimension is
// divisible by the pack factor, and any sub-byte total that does not fill
// whole bytes is an error, never a silent truncation.
func (dt Dtype) ByteLength(shape []int64) (int64, error) {
	n := int64(1)
	for _, dim := range shape {
		if dim < 0 {
			return 0, fmt.Errorf("%w: negative dimension %d in %v", ErrInvalidShape, dim, shape)
		}
		if dim != 0 && n > math.MaxInt64/dim {
			return 0, fmt.Errorf("%w: element count of %v overflows", ErrInvalidShape, shape)
		}
		n *= dim
	}
	if dt.Packed() {
		if len(shape) == 0 || shape[len(shape)-1]%dt.PackFactor() != 0 {
			return 0, fmt.Errorf("%w: dtype %s packs %d elements per byte but shape %v has an indivisible final dimension",
				ErrInvalidShapeForDtype, dt, dt.PackFactor(), shape)
		}
	}
	bits := dt.BitSize()
	if n > math.MaxInt64/bits {
		return 0, fmt.Errorf("%w: bit count of %v overflows", ErrInvalidShape, shape)
	}
	totalBits := n * bits
	if totalBits%8 != 0 {
		return 0, fmt.Errorf("%w: %d elements of %s span %d bits, not a whole number of bytes",
			ErrInvalidShapeForDtype, n, dt, totalBits)
	}
	return totalBits / 8, nil
}

// MarshalJSON encodes the dtype as its header name.
func (dt Dtype) MarshalJSON() ([]byte, error) {
	if !dt.valid() {
		return nil, fmt.Errorf("%w: ordinal %d", ErrUnknownDtype, int(dt))
	}
	return []byte(`"` + dtypeTable[dt].name + `"`), nil
}

// UnmarshalJSON decodes a header dtype name.
func (dt *Dtype) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("%w: dtype must be a string", ErrMalformedHeader)
	}
	parsed, err := ParseDtype(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}
