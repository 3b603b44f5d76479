package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"block_streamer/logger"
	"block_streamer/metrics"
	"block_streamer/packet"
	"block_streamer/stream/interfaces"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const dialTimeout = 30 * time.Second

var ErrFactoryClosed = errors.New("factory is closed")

var _ interfaces.Factory = &Factory{}

// Factory builds readers that issue ranged read requests against a remote
// worker. Every reader owns one connection; the factory only rations dials.
type Factory struct {
	host    string
	request Request

	dialLimiter *rate.Limiter

	logger *zap.SugaredLogger

	context context.Context
	cancel  context.CancelFunc
}

func NewFactory(host string, request Request) (*Factory, error) {
	if request.PacketSize <= 0 {
		return nil, fmt.Errorf("packet size must be positive, got %d", request.PacketSize)
	}

	remoteLogger, err := logger.GetLogger("remote reader")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Factory{
		host:        host,
		request:     request,
		dialLimiter: rate.NewLimiter(rate.Every(time.Second/4), 4),
		logger:      remoteLogger,
		context:     ctx,
		cancel:      cancel,
	}, nil
}

func (factory *Factory) Create(offset int64, length int64) (interfaces.Reader, error) {
	if factory.IsClosed() {
		return nil, ErrFactoryClosed
	}

	if offset < 0 || length < 0 {
		return nil, fmt.Errorf("invalid range %d+%d for block %d", offset, length, factory.request.BlockID)
	}

	if err := factory.dialLimiter.Wait(factory.context); err != nil {
		return nil, err
	}

	connection, err := net.DialTimeout("tcp", factory.host, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to dial worker %s: %w", factory.host, err)
	}

	request := factory.request
	request.Offset = offset
	request.Length = length

	if err := writeRequest(connection, request); err != nil {
		connection.Close()
		return nil, err
	}

	factory.logger.Infof("reading block %d range %d+%d from %s", request.BlockID, offset, length, factory.host)

	metrics.AddReaderCreated()

	return &Reader{
		connection: connection,
		packetSize: request.PacketSize,
	}, nil
}

func (factory *Factory) IsShortCircuit() bool {
	return false
}

func (factory *Factory) Close() error {
	factory.cancel()

	return nil
}

func (factory *Factory) IsClosed() bool {
	select {
	case <-factory.context.Done():
		return true
	default:
		return false
	}
}

var _ interfaces.Reader = &Reader{}

// Reader consumes the data frames of one read request. The worker ends the
// range with a zero length frame.
type Reader struct {
	connection net.Conn
	packetSize int64

	exhausted bool
	closed    bool
}

func (reader *Reader) ReadPacket() (*packet.Packet, error) {
	if reader.closed {
		return nil, errors.New("reader is closed")
	}

	if reader.exhausted {
		return nil, nil
	}

	size, err := readFrameHeader(reader.connection)
	if err != nil {
		return nil, err
	}

	if size == 0 {
		reader.exhausted = true
		return nil, nil
	}

	if int64(size) > reader.packetSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds packet size %d", size, reader.packetSize)
	}

	currentPacket := packet.Get(size)

	if _, err := io.ReadFull(reader.connection, currentPacket.Bytes()); err != nil {
		currentPacket.Release()
		return nil, fmt.Errorf("failed to read frame payload: %w", err)
	}

	metrics.AddPacketFetched()

	return currentPacket, nil
}

func (reader *Reader) Close() error {
	if reader.closed {
		return nil
	}

	reader.closed = true

	return reader.connection.Close()
}
