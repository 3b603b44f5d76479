package fuse

import (
	"context"
	"io"
	"os"
	"sync"

	"block_streamer/config"
	"block_streamer/registry"
	"block_streamer/stream"
	"block_streamer/stream/factory"

	"github.com/anacrolix/fuse"
	"github.com/anacrolix/fuse/fs"
)

var _ fs.Node = &File{}
var _ fs.NodeOpener = &File{}
var _ fs.HandleReader = &File{}
var _ fs.HandleReleaser = &File{}

// File serves one block. Each reading process gets its own sequential stream,
// keyed by kernel pid; the streams themselves are single-owner.
type File struct {
	block *registry.Block

	streams map[uint32]*stream.Adapter

	mu sync.Mutex
}

func NewFile(block *registry.Block) *File {
	return &File{
		block:   block,
		streams: make(map[uint32]*stream.Adapter),
	}
}

func (file *File) Attr(ctx context.Context, attr *fuse.Attr) error {
	attr.Inode = uint64(file.block.ID)
	attr.Mode = os.FileMode(0o444)
	attr.Size = uint64(file.block.Bytes)

	attr.Gid = uint32(os.Getgid())
	attr.Uid = uint32(os.Getuid())

	return nil
}

func (file *File) Open(ctx context.Context, openRequest *fuse.OpenRequest, openResponse *fuse.OpenResponse) (fs.Handle, error) {
	openResponse.Flags |= fuse.OpenKeepCache

	return file, nil
}

func (file *File) Read(ctx context.Context, readRequest *fuse.ReadRequest, readResponse *fuse.ReadResponse) error {
	file.mu.Lock()
	defer file.mu.Unlock()

	blockStream, err := file.getStream(readRequest.Pid)
	if err != nil {
		return err
	}

	if _, err := blockStream.Seek(readRequest.Offset, io.SeekStart); err != nil {
		return err
	}

	buffer := make([]byte, readRequest.Size)

	// A stream read never spans packets, so fill the response in a loop.
	filled := 0
	for filled < len(buffer) {
		n, err := blockStream.Read(buffer[filled:])
		if err == io.EOF {
			break
		}

		if err != nil {
			return err
		}

		filled += n
	}

	readResponse.Data = buffer[:filled]

	return nil
}

func (file *File) Release(ctx context.Context, releaseRequest *fuse.ReleaseRequest) error {
	file.mu.Lock()
	defer file.mu.Unlock()

	if blockStream, ok := file.streams[releaseRequest.Pid]; ok {
		delete(file.streams, releaseRequest.Pid)

		return blockStream.Close()
	}

	return nil
}

func (file *File) getStream(pid uint32) (*stream.Adapter, error) {
	if blockStream, ok := file.streams[pid]; ok {
		return blockStream, nil
	}

	blockStream, err := factory.NewStreamForBlock(config.Defaults(), file.block)
	if err != nil {
		return nil, err
	}

	adapter := stream.NewAdapter(blockStream)

	file.streams[pid] = adapter

	return adapter, nil
}
