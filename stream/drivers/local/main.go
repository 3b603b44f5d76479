package local

import (
	"errors"
	"fmt"
	"io"
	"os"

	"block_streamer/metrics"
	"block_streamer/packet"
	"block_streamer/stream/interfaces"

	lru "github.com/hashicorp/golang-lru/v2"
)

const handleCacheSize = 128

// Open block files are shared across readers through ReadAt and closed when
// they fall out of the cache.
var handles *lru.Cache[string, *os.File]

func init() {
	cache, err := lru.NewWithEvict(handleCacheSize, func(path string, file *os.File) {
		file.Close()
	})
	if err != nil {
		panic(err)
	}

	handles = cache
}

func getHandle(path string) (*os.File, error) {
	if file, ok := handles.Get(path); ok {
		return file, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open block file %s: %w", path, err)
	}

	handles.Add(path, file)

	return file, nil
}

var _ interfaces.Factory = &Factory{}

// Factory builds short-circuit readers that fetch packets straight from the
// block file on the local host, bypassing the worker transport.
type Factory struct {
	host    string
	blockID int64
	path    string

	packetSize int64

	closed bool
}

func NewFactory(host string, blockID int64, path string, packetSize int64) (*Factory, error) {
	if packetSize <= 0 {
		return nil, fmt.Errorf("packet size must be positive, got %d", packetSize)
	}

	return &Factory{
		host:       host,
		blockID:    blockID,
		path:       path,
		packetSize: packetSize,
	}, nil
}

func (factory *Factory) Create(offset int64, length int64) (interfaces.Reader, error) {
	if factory.closed {
		return nil, errors.New("factory is closed")
	}

	if offset < 0 || length < 0 {
		return nil, fmt.Errorf("invalid range %d+%d for block %d", offset, length, factory.blockID)
	}

	file, err := getHandle(factory.path)
	if err != nil {
		return nil, err
	}

	metrics.AddReaderCreated()

	return &Reader{
		file:       file,
		offset:     offset,
		end:        offset + length,
		packetSize: factory.packetSize,
	}, nil
}

func (factory *Factory) IsShortCircuit() bool {
	return true
}

// Close is a no-op for the short-circuit variant; file handles belong to the
// shared cache.
func (factory *Factory) Close() error {
	factory.closed = true

	return nil
}

var _ interfaces.Reader = &Reader{}

// Reader yields packets covering [offset, end) of the block file. It does not
// own the file handle.
type Reader struct {
	file *os.File

	offset int64
	end    int64

	packetSize int64

	exhausted bool
	closed    bool
}

func (reader *Reader) ReadPacket() (*packet.Packet, error) {
	if reader.closed {
		return nil, errors.New("reader is closed")
	}

	if reader.exhausted || reader.offset >= reader.end {
		reader.exhausted = true
		return nil, nil
	}

	size := reader.packetSize
	if remaining := reader.end - reader.offset; size > remaining {
		size = remaining
	}

	currentPacket := packet.Get(int(size))

	n, err := reader.file.ReadAt(currentPacket.Bytes(), reader.offset)
	if err != nil && err != io.EOF {
		currentPacket.Release()
		return nil, fmt.Errorf("failed to read block file at %d: %w", reader.offset, err)
	}

	if n == 0 {
		currentPacket.Release()
		reader.exhausted = true
		return nil, nil
	}

	currentPacket.Truncate(n)
	reader.offset += int64(n)

	metrics.AddPacketFetched()

	return currentPacket, nil
}

func (reader *Reader) Close() error {
	reader.closed = true

	return nil
}
