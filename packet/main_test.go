package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBytesAdvances(t *testing.T) {
	p := Get(4)
	copy(p.Bytes(), []byte{1, 2, 3, 4})

	require.Equal(t, 4, p.ReadableBytes())

	dst := make([]byte, 4)

	require.NoError(t, p.ReadBytes(dst, 0, 3))
	assert.Equal(t, []byte{1, 2, 3}, dst[:3])
	assert.Equal(t, 1, p.ReadableBytes())

	require.NoError(t, p.ReadBytes(dst, 3, 1))
	assert.Equal(t, []byte{1, 2, 3, 4}, dst)
	assert.Equal(t, 0, p.ReadableBytes())

	p.Release()
}

func TestReadBytesBounds(t *testing.T) {
	p := Get(4)
	copy(p.Bytes(), []byte{1, 2, 3, 4})

	dst := make([]byte, 2)

	assert.Error(t, p.ReadBytes(dst, 0, 5))
	assert.Error(t, p.ReadBytes(dst, 0, -1))
	assert.Error(t, p.ReadBytes(dst, 1, 2))
	assert.Error(t, p.ReadBytes(dst, -1, 1))

	require.NoError(t, p.ReadBytes(dst, 0, 2))

	p.Release()
}

func TestTruncate(t *testing.T) {
	p := Get(8)

	p.Truncate(3)
	assert.Equal(t, 3, p.ReadableBytes())

	// Out of range truncations are ignored.
	p.Truncate(10)
	assert.Equal(t, 3, p.ReadableBytes())
	p.Truncate(-1)
	assert.Equal(t, 3, p.ReadableBytes())

	p.Release()
}

func TestReleaseIsIdempotent(t *testing.T) {
	p := Get(4)

	require.False(t, p.Released())

	p.Release()
	require.True(t, p.Released())
	assert.Equal(t, 0, p.ReadableBytes())
	assert.Error(t, p.ReadBytes(make([]byte, 4), 0, 1))

	p.Release()
	assert.True(t, p.Released())
}

func TestPoolReuseResetsState(t *testing.T) {
	p := Get(4)
	copy(p.Bytes(), []byte{9, 9, 9, 9})

	require.NoError(t, p.ReadBytes(make([]byte, 2), 0, 2))
	p.Release()

	reused := Get(2)

	assert.False(t, reused.Released())
	assert.Equal(t, 2, reused.ReadableBytes())

	reused.Release()
}
