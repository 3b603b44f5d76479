package fuse

import (
	"context"
	"os"
	"strconv"

	"block_streamer/registry"

	"github.com/anacrolix/fuse"
	"github.com/anacrolix/fuse/fs"
)

var _ fs.Node = &Root{}
var _ fs.HandleReadDirAller = &Root{}
var _ fs.NodeStringLookuper = &Root{}

// Root lists the registered blocks as files named by block id.
type Root struct {
	registry *registry.Registry
}

func NewRoot(blockRegistry *registry.Registry) *Root {
	return &Root{
		registry: blockRegistry,
	}
}

func (root *Root) Attr(ctx context.Context, attr *fuse.Attr) error {
	attr.Inode = 1
	attr.Mode = os.ModeDir | 0o555

	return nil
}

func (root *Root) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	blocks, err := root.registry.GetAllBlocks()
	if err != nil {
		return nil, err
	}

	entries := make([]fuse.Dirent, 0, len(blocks))

	for _, block := range blocks {
		entries = append(entries, fuse.Dirent{
			Inode: uint64(block.ID),
			Type:  fuse.DT_File,
			Name:  strconv.FormatInt(block.ID, 10),
		})
	}

	return entries, nil
}

func (root *Root) Lookup(ctx context.Context, name string) (fs.Node, error) {
	id, err := strconv.ParseInt(name, 10, 64)
	if err != nil {
		return nil, fuse.ENOENT
	}

	block, err := root.registry.GetBlock(id)
	if err != nil {
		return nil, fuse.ENOENT
	}

	return NewFile(block), nil
}
