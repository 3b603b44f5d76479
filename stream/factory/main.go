package factory

import (
	"block_streamer/config"
	"block_streamer/registry"
	"block_streamer/stream"
	"block_streamer/stream/drivers/local"
	"block_streamer/stream/drivers/remote"
)

// NewStreamForBlock picks the transport for a registered block: short-circuit
// when the block file lives on this host, the worker protocol otherwise.
func NewStreamForBlock(conf *config.Config, block *registry.Block) (*stream.Stream, error) {
	if block.Path != "" {
		return NewLocalStream(conf, block.Host, block.ID, block.Path, block.Bytes)
	}

	request := remote.Request{
		BlockID: block.ID,
	}

	return NewRemoteStream(conf, block.Host, request, block.Bytes)
}

// NewLocalStream assembles a stream reading a block short-circuit from a file
// on the local host. The packet size comes from the local reader key.
func NewLocalStream(conf *config.Config, host string, blockID int64, path string, length int64) (*stream.Stream, error) {
	packetSize, err := conf.GetBytes(config.LocalReaderPacketSize)
	if err != nil {
		return nil, err
	}

	readerFactory, err := local.NewFactory(host, blockID, path, packetSize)
	if err != nil {
		return nil, err
	}

	return stream.New(readerFactory, blockID, length), nil
}

// NewRemoteStream assembles a stream reading a block from a remote worker.
// The packet size field of the partial request is filled in from the remote
// reader key.
func NewRemoteStream(conf *config.Config, host string, request remote.Request, length int64) (*stream.Stream, error) {
	packetSize, err := conf.GetBytes(config.RemoteReaderPacketSize)
	if err != nil {
		return nil, err
	}

	request.PacketSize = packetSize

	readerFactory, err := remote.NewFactory(host, request)
	if err != nil {
		return nil, err
	}

	return stream.New(readerFactory, request.BlockID, length), nil
}
