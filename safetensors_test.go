package safetensors_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/safetensors"
)

func TestPublicRoundTrip(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	view, err := safetensors.NewTensorView(safetensors.F16, []int64{2, 2}, data)
	require.NoError(t, err)

	buf, err := safetensors.Serialize(
		[]safetensors.NamedTensor{{Name: "w", View: view}},
		map[string]string{"format": "v1"},
	)
	require.NoError(t, err)

	st, err := safetensors.Deserialize(buf)
	require.NoError(t, err)
	got, err := st.Tensor("w")
	require.NoError(t, err)
	assert.Equal(t, safetensors.F16, got.DType())
	assert.Equal(t, []int64{2, 2}, got.Shape())
	assert.Equal(t, data, got.Data())

	meta, err := safetensors.ReadMetadata(buf)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"format": "v1"}, meta)
}

func TestPublicSentinels(t *testing.T) {
	_, err := safetensors.Deserialize([]byte{1, 2, 3})
	assert.ErrorIs(t, err, safetensors.ErrBufferTooShort)

	_, err = safetensors.ParseDtype("Q4")
	assert.ErrorIs(t, err, safetensors.ErrUnknownDtype)

	_, err = safetensors.NewTensorView(safetensors.F4, []int64{3}, []byte{0, 0})
	assert.ErrorIs(t, err, safetensors.ErrInvalidShapeForDtype)
}

// The codec holds no shared state: concurrent calls over independent
// buffers must not interfere.
func TestPublicConcurrentUse(t *testing.T) {
	view, err := safetensors.NewTensorView(safetensors.U8, []int64{4}, []byte{9, 8, 7, 6})
	require.NoError(t, err)
	buf, err := safetensors.Serialize([]safetensors.NamedTensor{{Name: "t", View: view}}, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				st, err := safetensors.Deserialize(buf)
				assert.NoError(t, err)
				got, err := st.Tensor("t")
				assert.NoError(t, err)
				assert.Equal(t, []byte{9, 8, 7, 6}, got.Data())
			}
		}()
	}
	wg.Wait()
}
