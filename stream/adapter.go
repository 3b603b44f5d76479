package stream

import (
	"fmt"
	"io"
)

var _ io.ReadSeekCloser = &Adapter{}
var _ io.ReaderAt = &Adapter{}

// Adapter exposes a Stream through the standard io interfaces, translating
// the -1 end-of-stream sentinel into io.EOF for layered consumers.
type Adapter struct {
	stream *Stream
}

func NewAdapter(stream *Stream) *Adapter {
	return &Adapter{
		stream: stream,
	}
}

func (adapter *Adapter) Read(buffer []byte) (int, error) {
	n, err := adapter.stream.Read(buffer, 0, len(buffer))
	if err != nil {
		return 0, err
	}

	if n == -1 {
		return 0, io.EOF
	}

	return n, nil
}

func (adapter *Adapter) ReadAt(buffer []byte, position int64) (int, error) {
	n, err := adapter.stream.PositionedRead(position, buffer, 0, len(buffer))
	if err != nil {
		return 0, err
	}

	if n == -1 {
		return 0, io.EOF
	}

	if n < len(buffer) {
		return n, io.EOF
	}

	return n, nil
}

func (adapter *Adapter) Seek(offset int64, whence int) (int64, error) {
	var position int64

	switch whence {
	case io.SeekStart:
		position = offset
	case io.SeekCurrent:
		position = adapter.stream.position + offset
	case io.SeekEnd:
		position = adapter.stream.length + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if err := adapter.stream.Seek(position); err != nil {
		return 0, err
	}

	return position, nil
}

func (adapter *Adapter) Close() error {
	return adapter.stream.Close()
}
