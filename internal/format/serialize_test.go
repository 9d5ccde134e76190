package format

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// namedTensor builds a NamedTensor over nbytes of deterministic data.
func namedTensor(t *testing.T, name string, dtype Dtype, shape []int64, nbytes int) NamedTensor {
	t.Helper()
	data := make([]byte, nbytes)
	for i := range data {
		data[i] = byte(i + 1)
	}
	view, err := NewTensorView(dtype, shape, data)
	require.NoError(t, err)
	return NamedTensor{Name: name, View: view}
}

func TestSerializeWorkedExample(t *testing.T) {
	// One F32 [2,3] tensor "w" with 24 data bytes and one metadata pair.
	w := namedTensor(t, "w", F32, []int64{2, 3}, 24)
	buf, err := Serialize([]NamedTensor{w}, map[string]string{"format": "v1"})
	require.NoError(t, err)

	wantHeader := `{"w":{"dtype":"F32","shape":[2,3],"data_offsets":[0,24]},"__metadata__":{"format":"v1"}}`
	n := binary.LittleEndian.Uint64(buf[:8])
	require.Equal(t, uint64(len(wantHeader)), n)
	assert.Equal(t, wantHeader, string(buf[8:8+n]))
	assert.Equal(t, w.View.Data(), buf[8+n:])
}

func TestSerializeEmpty(t *testing.T) {
	buf, err := Serialize(nil, nil)
	require.NoError(t, err)
	require.Len(t, buf, 8+len("{}"))
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(buf[:8]))
	assert.Equal(t, "{}", string(buf[8:]))

	st, err := Deserialize(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Len())
	assert.Nil(t, st.Metadata())
}

func TestSerializeDuplicateName(t *testing.T) {
	a := namedTensor(t, "w", U8, []int64{2}, 2)
	b := namedTensor(t, "w", U8, []int64{3}, 3)
	buf, err := Serialize([]NamedTensor{a, b}, nil)
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Nil(t, buf)
}

func TestSerializeOffsetsFollowInputOrder(t *testing.T) {
	// No resorting by name: "z" comes first, so it owns the first bytes.
	z := namedTensor(t, "z", U8, []int64{2}, 2)
	a := namedTensor(t, "a", U8, []int64{3}, 3)
	buf, err := Serialize([]NamedTensor{z, a}, nil)
	require.NoError(t, err)

	header, _, err := splitHeader(buf)
	require.NoError(t, err)
	entries, _, err := DecodeHeader(header)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "z", entries[0].Name)
	assert.Equal(t, [2]int64{0, 2}, entries[0].Info.DataOffsets)
	assert.Equal(t, "a", entries[1].Name)
	assert.Equal(t, [2]int64{2, 5}, entries[1].Info.DataOffsets)
}

func TestSerializePackedOddLastDim(t *testing.T) {
	data := make([]byte, 3)
	_, err := NewTensorView(F4, []int64{2, 3}, data)
	assert.ErrorIs(t, err, ErrInvalidShapeForDtype)

	// A view smuggled in without construction-time checks still fails
	// inside Serialize.
	bad := NamedTensor{Name: "q", View: TensorView{dtype: F4, shape: []int64{2, 3}, data: data}}
	buf, err := Serialize([]NamedTensor{bad}, nil)
	assert.ErrorIs(t, err, ErrInvalidShapeForDtype)
	assert.Nil(t, buf)
}

func TestSerializeRoundTrip(t *testing.T) {
	tensors := []NamedTensor{
		namedTensor(t, "embed", BF16, []int64{4, 2}, 16),
		namedTensor(t, "packed", F4, []int64{2, 4}, 4),
		namedTensor(t, "scalar", I64, []int64{}, 8),
		namedTensor(t, "empty", F32, []int64{0, 7}, 0),
	}
	metadata := map[string]string{"format": "v1", "producer": "test"}

	buf, err := Serialize(tensors, metadata)
	require.NoError(t, err)

	st, err := Deserialize(buf)
	require.NoError(t, err)
	require.Equal(t, len(tensors), st.Len())
	assert.Equal(t, metadata, st.Metadata())
	assert.Equal(t, []string{"embed", "packed", "scalar", "empty"}, st.Names())

	for _, want := range tensors {
		got, err := st.Tensor(want.Name)
		require.NoError(t, err)
		assert.Equal(t, want.View.DType(), got.DType(), want.Name)
		assert.Equal(t, want.View.Shape(), got.Shape(), want.Name)
		assert.Equal(t, want.View.Data(), got.Data(), want.Name)
	}
}

func TestSerializeToFileRoundTrip(t *testing.T) {
	path := t.TempDir() + "/weights.safetensors"
	tensors := []NamedTensor{namedTensor(t, "w", F32, []int64{2, 3}, 24)}

	require.NoError(t, SerializeToFile(tensors, map[string]string{"format": "v1"}, path))

	f, err := Open(path)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, f.Close())
	}()

	got, err := f.Tensor("w")
	require.NoError(t, err)
	assert.Equal(t, tensors[0].View.Data(), got.Data())
	assert.Equal(t, map[string]string{"format": "v1"}, f.Metadata())
}

func TestSerializeToFileBadPath(t *testing.T) {
	tensors := []NamedTensor{namedTensor(t, "w", U8, []int64{1}, 1)}
	err := SerializeToFile(tensors, nil, t.TempDir()+"/no/such/dir/out.safetensors")
	require.Error(t, err)
	// Filesystem failures must not masquerade as format errors.
	assert.NotErrorIs(t, err, ErrMalformedHeader)
	assert.NotErrorIs(t, err, ErrBufferTooShort)
}
