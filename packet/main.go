package packet

import (
	"fmt"
	"sync"
)

// Packet is a reference-managed handle to a contiguous run of block bytes
// delivered by one reader call. The backing storage is pooled; whoever holds
// the packet is responsible for releasing it exactly once.
type Packet struct {
	data     []byte
	offset   int
	released bool
}

var pool = sync.Pool{
	New: func() any {
		return &Packet{}
	},
}

// Get checks a packet out of the pool with room for size bytes.
func Get(size int) *Packet {
	p := pool.Get().(*Packet)

	if cap(p.data) < size {
		p.data = make([]byte, size)
	}

	p.data = p.data[:size]
	p.offset = 0
	p.released = false

	return p
}

// Bytes exposes the backing slice so a transport can fill it directly.
func (p *Packet) Bytes() []byte {
	return p.data
}

// Truncate shrinks the packet to n bytes after a short transport fill.
func (p *Packet) Truncate(n int) {
	if n < 0 || n > len(p.data) {
		return
	}

	p.data = p.data[:n]
}

func (p *Packet) ReadableBytes() int {
	if p.released {
		return 0
	}

	return len(p.data) - p.offset
}

// ReadBytes copies n unread bytes into dst starting at off and advances the
// read index.
func (p *Packet) ReadBytes(dst []byte, off int, n int) error {
	if p.released {
		return fmt.Errorf("packet is released")
	}

	if n < 0 || n > p.ReadableBytes() {
		return fmt.Errorf("read of %d bytes exceeds %d readable", n, p.ReadableBytes())
	}

	if off < 0 || off+n > len(dst) {
		return fmt.Errorf("destination bounds %d/%d invalid for %d bytes", off, len(dst), n)
	}

	copy(dst[off:off+n], p.data[p.offset:p.offset+n])

	p.offset += n

	return nil
}

// Released reports whether the packet has been returned to the pool.
func (p *Packet) Released() bool {
	return p.released
}

// Release returns the packet to the pool. Releasing twice is a no-op.
func (p *Packet) Release() {
	if p.released {
		return
	}

	p.released = true
	p.offset = 0

	pool.Put(p)
}
