package remote

import (
	"encoding/binary"
	"fmt"
	"io"
)

const opRead = byte(1)

// frameHeaderSize is the length prefix in front of every data frame. A zero
// length frame marks the end of the requested range.
const frameHeaderSize = 4

// Request describes one ranged read against a worker. PacketSize caps the
// frames the worker may send back.
type Request struct {
	BlockID    int64
	Offset     int64
	Length     int64
	PacketSize int64
}

func writeRequest(w io.Writer, request Request) error {
	buf := make([]byte, 1+4*8)

	buf[0] = opRead
	binary.BigEndian.PutUint64(buf[1:], uint64(request.BlockID))
	binary.BigEndian.PutUint64(buf[9:], uint64(request.Offset))
	binary.BigEndian.PutUint64(buf[17:], uint64(request.Length))
	binary.BigEndian.PutUint64(buf[25:], uint64(request.PacketSize))

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write read request: %w", err)
	}

	return nil
}

// readFrameHeader returns the payload length of the next frame.
func readFrameHeader(r io.Reader) (int, error) {
	header := make([]byte, frameHeaderSize)

	if _, err := io.ReadFull(r, header); err != nil {
		return 0, fmt.Errorf("failed to read frame header: %w", err)
	}

	return int(binary.BigEndian.Uint32(header)), nil
}
