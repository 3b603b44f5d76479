package local

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBlockFile(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "block")
	require.NoError(t, os.WriteFile(path, data, 0644))

	return path
}

func TestReadPacketSizes(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	path := writeBlockFile(t, data)

	factory, err := NewFactory("localhost", 1, path, 4)
	require.NoError(t, err)

	reader, err := factory.Create(0, 10)
	require.NoError(t, err)

	var collected []byte
	for _, expected := range []int{4, 4, 2} {
		currentPacket, err := reader.ReadPacket()
		require.NoError(t, err)
		require.NotNil(t, currentPacket)
		require.Equal(t, expected, currentPacket.ReadableBytes())

		buffer := make([]byte, expected)
		require.NoError(t, currentPacket.ReadBytes(buffer, 0, expected))
		collected = append(collected, buffer...)

		currentPacket.Release()
	}

	// Exhaustion is permanent.
	for i := 0; i < 2; i++ {
		currentPacket, err := reader.ReadPacket()
		require.NoError(t, err)
		assert.Nil(t, currentPacket)
	}

	assert.Equal(t, data, collected)

	require.NoError(t, reader.Close())
	require.NoError(t, factory.Close())
}

func TestReadPacketSubRange(t *testing.T) {
	path := writeBlockFile(t, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	factory, err := NewFactory("localhost", 1, path, 4)
	require.NoError(t, err)

	reader, err := factory.Create(6, 3)
	require.NoError(t, err)

	currentPacket, err := reader.ReadPacket()
	require.NoError(t, err)
	require.NotNil(t, currentPacket)

	buffer := make([]byte, 3)
	require.NoError(t, currentPacket.ReadBytes(buffer, 0, 3))
	assert.Equal(t, []byte{6, 7, 8}, buffer)

	currentPacket.Release()

	currentPacket, err = reader.ReadPacket()
	require.NoError(t, err)
	assert.Nil(t, currentPacket)
}

func TestRangePastEndOfFile(t *testing.T) {
	path := writeBlockFile(t, []byte{0, 1, 2})

	factory, err := NewFactory("localhost", 1, path, 4)
	require.NoError(t, err)

	// The range claims more bytes than the file holds.
	reader, err := factory.Create(0, 10)
	require.NoError(t, err)

	currentPacket, err := reader.ReadPacket()
	require.NoError(t, err)
	require.NotNil(t, currentPacket)
	assert.Equal(t, 3, currentPacket.ReadableBytes())
	currentPacket.Release()

	currentPacket, err = reader.ReadPacket()
	require.NoError(t, err)
	assert.Nil(t, currentPacket)
}

func TestFactoryValidation(t *testing.T) {
	_, err := NewFactory("localhost", 1, "whatever", 0)
	assert.Error(t, err)

	factory, err := NewFactory("localhost", 1, filepath.Join(t.TempDir(), "missing"), 4)
	require.NoError(t, err)

	_, err = factory.Create(0, 10)
	assert.Error(t, err)

	_, err = factory.Create(-1, 10)
	assert.Error(t, err)
}

func TestIsShortCircuit(t *testing.T) {
	factory, err := NewFactory("localhost", 1, "whatever", 4)
	require.NoError(t, err)

	assert.True(t, factory.IsShortCircuit())
}

func TestClosedReaderAndFactory(t *testing.T) {
	path := writeBlockFile(t, []byte{0, 1, 2})

	factory, err := NewFactory("localhost", 1, path, 4)
	require.NoError(t, err)

	reader, err := factory.Create(0, 3)
	require.NoError(t, err)
	require.NoError(t, reader.Close())

	_, err = reader.ReadPacket()
	assert.Error(t, err)

	require.NoError(t, factory.Close())

	_, err = factory.Create(0, 3)
	assert.Error(t, err)
}

func TestHandleCacheSharesFiles(t *testing.T) {
	path := writeBlockFile(t, []byte{0, 1, 2})

	first, err := getHandle(path)
	require.NoError(t, err)

	second, err := getHandle(path)
	require.NoError(t, err)

	assert.Same(t, first, second)
}
