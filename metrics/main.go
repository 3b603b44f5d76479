package metrics

import (
	"sync/atomic"
)

var (
	bytesRead      atomic.Int64
	packetsFetched atomic.Int64
	readersCreated atomic.Int64
)

func AddBytesRead(n int64) {
	bytesRead.Add(n)
}

func AddPacketFetched() {
	packetsFetched.Add(1)
}

func AddReaderCreated() {
	readersCreated.Add(1)
}

type Snapshot struct {
	BytesRead      int64
	PacketsFetched int64
	ReadersCreated int64
}

func GetSnapshot() Snapshot {
	return Snapshot{
		BytesRead:      bytesRead.Load(),
		PacketsFetched: packetsFetched.Load(),
		ReadersCreated: readersCreated.Load(),
	}
}
