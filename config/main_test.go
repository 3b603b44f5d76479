package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	conf := Defaults()

	localSize, err := conf.GetBytes(LocalReaderPacketSize)
	require.NoError(t, err)
	assert.Equal(t, int64(8<<20), localSize)

	remoteSize, err := conf.GetBytes(RemoteReaderPacketSize)
	require.NoError(t, err)
	assert.Equal(t, int64(64<<10), remoteSize)

	assert.False(t, conf.IsReadOnly())
	assert.False(t, conf.IsShared())
}

func TestOverridesWinOverDefaults(t *testing.T) {
	conf := New(true, true, map[string]string{
		RemoteReaderPacketSize: "128KB",
	})

	remoteSize, err := conf.GetBytes(RemoteReaderPacketSize)
	require.NoError(t, err)
	assert.Equal(t, int64(128<<10), remoteSize)

	assert.True(t, conf.IsReadOnly())
	assert.True(t, conf.IsShared())
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("BLOCK_STREAMER_LOCAL_READER_PACKET_SIZE", "1MB")

	conf := Defaults()

	localSize, err := conf.GetBytes(LocalReaderPacketSize)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), localSize)

	// A per-source override still beats the environment.
	conf = New(false, false, map[string]string{
		LocalReaderPacketSize: "2MB",
	})

	localSize, err = conf.GetBytes(LocalReaderPacketSize)
	require.NoError(t, err)
	assert.Equal(t, int64(2<<20), localSize)
}

func TestContainsKey(t *testing.T) {
	conf := New(false, false, map[string]string{"custom.key": "1"})

	assert.True(t, conf.ContainsKey(LocalReaderPacketSize))
	assert.True(t, conf.ContainsKey("custom.key"))
	assert.False(t, conf.ContainsKey("missing.key"))
}

func TestGetValueMissing(t *testing.T) {
	conf := Defaults()

	_, err := conf.GetValue("missing.key")
	assert.Error(t, err)
}

func TestParseBytes(t *testing.T) {
	cases := map[string]int64{
		"512":   512,
		"512B":  512,
		"64KB":  64 << 10,
		"8MB":   8 << 20,
		"1GB":   1 << 30,
		" 4 kb": 4 << 10,
	}

	for value, expected := range cases {
		parsed, err := parseBytes(value)
		require.NoError(t, err, value)
		assert.Equal(t, expected, parsed, value)
	}

	_, err := parseBytes("lots")
	assert.Error(t, err)
}

func TestGetBytesRejectsNonPositive(t *testing.T) {
	conf := New(false, false, map[string]string{
		LocalReaderPacketSize: "0",
	})

	_, err := conf.GetBytes(LocalReaderPacketSize)
	assert.Error(t, err)

	conf = New(false, false, map[string]string{
		LocalReaderPacketSize: "-1KB",
	})

	_, err = conf.GetBytes(LocalReaderPacketSize)
	assert.Error(t, err)
}
