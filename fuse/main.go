package fuse

import (
	"fmt"

	"block_streamer/logger"
	"block_streamer/registry"

	"github.com/anacrolix/fuse"
	"github.com/anacrolix/fuse/fs"
)

// Mount exposes every registered block as a read-only file under mountpoint
// and serves until the connection is torn down.
func Mount(mountpoint string, blockRegistry *registry.Registry) error {
	fuseLogger, err := logger.GetLogger("fuse")
	if err != nil {
		return err
	}

	connection, err := fuse.Mount(
		mountpoint,
		fuse.FSName("block_streamer"),
		fuse.Subtype("blockfs"),
		fuse.ReadOnly(),
	)
	if err != nil {
		return fmt.Errorf("failed to mount %s: %w", mountpoint, err)
	}
	defer connection.Close()

	fuseLogger.Infof("mounted block filesystem at %s", mountpoint)

	return fs.Serve(connection, NewFileSystem(blockRegistry))
}

var _ fs.FS = &FileSystem{}

type FileSystem struct {
	registry *registry.Registry
}

func NewFileSystem(blockRegistry *registry.Registry) *FileSystem {
	return &FileSystem{
		registry: blockRegistry,
	}
}

func (fileSystem *FileSystem) Root() (fs.Node, error) {
	return NewRoot(fileSystem.registry), nil
}
