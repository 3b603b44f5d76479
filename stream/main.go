package stream

import (
	"errors"
	"fmt"

	"block_streamer/metrics"
	"block_streamer/packet"
	"block_streamer/stream/interfaces"
)

var ErrClosed = errors.New("stream is closed")

// Stream provides sequential, positioned and seekable read access to one
// block, packet by packet, over a reader factory. It owns at most one active
// reader and one in-flight packet for its sequential session. Not safe for
// concurrent use; callers hold one stream per logical owner.
type Stream struct {
	id     int64
	length int64

	position int64

	currentPacket *packet.Packet
	reader        interfaces.Reader

	factory interfaces.Factory

	singleByte [1]byte

	eof    bool
	closed bool
}

func New(factory interfaces.Factory, id int64, length int64) *Stream {
	return &Stream{
		id:      id,
		length:  length,
		factory: factory,
	}
}

// Read copies up to len(dst[off:off+length]) bytes of the sequential session
// into dst at off. It copies from a single packet only; callers wanting to
// fill a larger buffer loop until -1. Returns -1 once the session hits end of
// stream.
func (s *Stream) Read(dst []byte, off int, length int) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}

	if dst == nil {
		return 0, fmt.Errorf("read destination is nil")
	}

	if off < 0 || length < 0 || off+length > len(dst) {
		return 0, fmt.Errorf("destination bounds %d+%d invalid for buffer of %d", off, length, len(dst))
	}

	if length == 0 {
		return 0, nil
	}

	if err := s.fetchPacket(); err != nil {
		return 0, err
	}

	if s.currentPacket == nil {
		s.eof = true
	}

	if s.eof {
		if err := s.closeReader(); err != nil {
			return 0, err
		}

		return -1, nil
	}

	toRead := length
	if readable := s.currentPacket.ReadableBytes(); toRead > readable {
		toRead = readable
	}

	if err := s.currentPacket.ReadBytes(dst, off, toRead); err != nil {
		return 0, err
	}

	s.position += int64(toRead)

	metrics.AddBytesRead(int64(toRead))

	return toRead, nil
}

// ReadByte reads the next byte of the sequential session, or -1 at end of
// stream.
func (s *Stream) ReadByte() (int, error) {
	n, err := s.Read(s.singleByte[:], 0, 1)
	if err != nil {
		return 0, err
	}

	if n == -1 {
		return -1, nil
	}

	return int(s.singleByte[0]), nil
}

// PositionedRead reads up to length bytes at pos into dst at off without
// touching the sequential session. Every call acquires and releases its own
// reader. Returns -1 if pos is out of range or nothing could be copied.
func (s *Stream) PositionedRead(pos int64, dst []byte, off int, length int) (int, error) {
	if length == 0 {
		return 0, nil
	}

	if pos < 0 || pos >= s.length {
		return -1, nil
	}

	reader, err := s.factory.Create(pos, int64(length))
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	// Keep pulling packets instead of returning after the first one; creating
	// and closing a reader is not free.
	copied := 0
	for length > 0 {
		currentPacket, err := reader.ReadPacket()
		if err != nil {
			return 0, err
		}

		if currentPacket == nil {
			break
		}

		toRead := currentPacket.ReadableBytes()
		if toRead > length {
			currentPacket.Release()
			return 0, fmt.Errorf("packet of %d bytes exceeds %d requested", toRead, length)
		}

		if err := currentPacket.ReadBytes(dst, off, toRead); err != nil {
			currentPacket.Release()
			return 0, err
		}

		currentPacket.Release()

		length -= toRead
		off += toRead
		copied += toRead
	}

	if copied == 0 {
		return -1, nil
	}

	metrics.AddBytesRead(int64(copied))

	return copied, nil
}

// Remaining returns the bytes left in the sequential session.
func (s *Stream) Remaining() int64 {
	if s.eof {
		return 0
	}

	return s.length - s.position
}

// Seek moves the sequential cursor to pos. The active reader is single-use,
// so any repositioning discards it; the next read lazily creates a new one.
func (s *Stream) Seek(pos int64) error {
	if s.closed {
		return ErrClosed
	}

	if pos < 0 || pos > s.length {
		return fmt.Errorf("seek position %d is outside block %d of length %d", pos, s.id, s.length)
	}

	if pos == s.position {
		return nil
	}

	if pos < s.position {
		s.eof = false
	}

	if err := s.closeReader(); err != nil {
		return err
	}

	s.position = pos

	return nil
}

// Skip advances the cursor by up to n bytes and reports how many were
// skipped. Skip is seek by delta; it discards the active reader the same way.
func (s *Stream) Skip(n int64) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}

	if n <= 0 {
		return 0, nil
	}

	toSkip := s.Remaining()
	if toSkip > n {
		toSkip = n
	}

	s.position += toSkip

	if err := s.closeReader(); err != nil {
		return 0, err
	}

	return toSkip, nil
}

// Close releases the in-flight packet and active reader, then the factory.
// The factory is closed even when the session teardown fails. Closing twice
// is a no-op; every other operation on a closed stream fails.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true

	readerErr := s.closeReader()
	factoryErr := s.factory.Close()

	if readerErr != nil {
		return readerErr
	}

	return factoryErr
}

// IsShortCircuit reports whether the stream reads packets directly from a
// local file.
func (s *Stream) IsShortCircuit() bool {
	return s.factory.IsShortCircuit()
}

// fetchPacket pulls a new packet from the active reader once the current one
// is drained, creating the reader for the rest of the block first if the
// session has none.
func (s *Stream) fetchPacket() error {
	if s.reader == nil {
		reader, err := s.factory.Create(s.position, s.length-s.position)
		if err != nil {
			return err
		}

		s.reader = reader
	}

	if s.currentPacket != nil && s.currentPacket.ReadableBytes() == 0 {
		s.currentPacket.Release()
		s.currentPacket = nil
	}

	if s.currentPacket == nil {
		currentPacket, err := s.reader.ReadPacket()
		if err != nil {
			return err
		}

		if currentPacket != nil && currentPacket.ReadableBytes() == 0 {
			currentPacket.Release()
			return fmt.Errorf("reader returned an empty packet for block %d", s.id)
		}

		s.currentPacket = currentPacket
	}

	return nil
}

// closeReader tears down the sequential session: in-flight packet first, then
// the reader.
func (s *Stream) closeReader() error {
	if s.currentPacket != nil {
		s.currentPacket.Release()
		s.currentPacket = nil
	}

	if s.reader != nil {
		err := s.reader.Close()
		s.reader = nil

		if err != nil {
			return err
		}
	}

	return nil
}
