package interfaces

import (
	"block_streamer/packet"
)

// Reader produces the packets covering one byte range of a block. A reader is
// single-use for its bound range and is not reseekable; repositioning means
// closing it and creating a new one.
type Reader interface {
	// ReadPacket returns the next packet of the range, or (nil, nil) once the
	// range is exhausted. Exhaustion is permanent for the reader. Packets are
	// never empty.
	ReadPacket() (*packet.Packet, error)

	Close() error
}

// Factory constructs readers bound to sub-ranges of one block. The two
// implementations are the short-circuit local driver and the remote driver;
// the variant is fixed at construction.
type Factory interface {
	// Create builds a reader spanning [offset, offset+length).
	Create(offset int64, length int64) (Reader, error)

	// IsShortCircuit reports whether reads bypass the network.
	IsShortCircuit() bool

	// Close releases transport-level resources such as connections.
	Close() error
}
