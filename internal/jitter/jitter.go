// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

// Package jitter implements a per-stream adaptive jitter buffer: it
// reorders a small window of out-of-order frames, drops stale
// duplicates, and times out frames that never arrive, so that a
// downstream vocoder or PDU reassembler sees a sequential, gap-bounded
// stream instead of raw network arrival order.
package jitter

import "sync"

const (
	// DefaultMaxBufferSize is the default reorder-window depth.
	DefaultMaxBufferSize = 4
	// DefaultMaxWaitTime is the default frame timeout, in microseconds.
	DefaultMaxWaitTime = int64(40000)
	// lateThreshold is how far behind nextExpected a frame can arrive
	// and still be treated as an ordinary late duplicate (dropped) rather
	// than evidence the stream restarted (resync).
	lateThreshold = -1000
)

// Frame is one buffered unit of stream data, keyed by its 16-bit
// sequence number.
type Frame struct {
	Seq       uint16
	Data      []byte
	Timestamp int64 // reception time, microseconds
}

// Stats accumulates lifetime counters for a buffer instance.
type Stats struct {
	Total     uint64
	Reordered uint64
	Dropped   uint64
	TimedOut  uint64
}

// AdaptiveJitterBuffer reorders and gap-fills one stream's frames.
type AdaptiveJitterBuffer struct {
	mu            sync.Mutex
	buffer        map[uint16]Frame
	nextExpected  uint16
	maxBufferSize int
	maxWaitTime   int64
	stats         Stats
}

// New creates a buffer with the given reorder-window depth and
// per-frame timeout in microseconds.
func New(maxBufferSize int, maxWaitTime int64) *AdaptiveJitterBuffer {
	if maxBufferSize <= 0 {
		maxBufferSize = DefaultMaxBufferSize
	}
	if maxWaitTime <= 0 {
		maxWaitTime = DefaultMaxWaitTime
	}
	return &AdaptiveJitterBuffer{
		buffer:        make(map[uint16]Frame),
		maxBufferSize: maxBufferSize,
		maxWaitTime:   maxWaitTime,
	}
}

// seqDiff returns the signed distance from b to a on a 16-bit wrapping
// sequence space.
func seqDiff(a, b uint16) int32 {
	return int32(int16(a - b))
}

// ProcessFrame admits a newly received frame and returns any frames
// that are now ready for delivery, in sequence order. A frame that
// arrives in order is returned immediately along with anything it
// unblocks; a frame that arrives early is buffered until its
// predecessors show up or the window overflows; a frame that arrives
// late is dropped as a duplicate, unless it is so far behind that the
// stream must have restarted, in which case the buffer resyncs to it.
func (b *AdaptiveJitterBuffer) ProcessFrame(seq uint16, data []byte, timestamp int64) []Frame {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stats.Total++
	frame := Frame{Seq: seq, Data: data, Timestamp: timestamp}
	diff := seqDiff(seq, b.nextExpected)

	switch {
	case diff == 0:
		b.nextExpected++
		ready := []Frame{frame}
		return append(ready, b.flushSequentialFrames()...)

	case diff > 0:
		b.stats.Reordered++
		b.buffer[seq] = frame
		if len(b.buffer) <= b.maxBufferSize {
			return nil
		}
		return b.evictOldest()

	default: // diff < 0: late arrival
		if diff < lateThreshold {
			return b.resync(frame)
		}
		b.stats.Dropped++
		return nil
	}
}

// evictOldest is called once the reorder window overflows: it gives up
// waiting for the gap to fill, jumps nextExpected to the oldest
// buffered frame, and flushes whatever is now sequential.
func (b *AdaptiveJitterBuffer) evictOldest() []Frame {
	oldest, found := b.oldestSeq()
	if !found {
		return nil
	}
	b.nextExpected = oldest
	return b.flushSequentialFrames()
}

func (b *AdaptiveJitterBuffer) oldestSeq() (uint16, bool) {
	var (
		best  uint16
		found bool
	)
	for seq := range b.buffer {
		d := seqDiff(seq, b.nextExpected)
		if !found || d < seqDiff(best, b.nextExpected) {
			best, found = seq, true
		}
	}
	return best, found
}

// resync discards the reorder window and restarts tracking at frame,
// used when a frame arrives far enough behind nextExpected that the
// remote stream has evidently restarted rather than merely reordered.
func (b *AdaptiveJitterBuffer) resync(frame Frame) []Frame {
	b.stats.Dropped++
	b.buffer = make(map[uint16]Frame)
	b.nextExpected = frame.Seq + 1
	return []Frame{frame}
}

// flushSequentialFrames pops consecutive frames starting at
// nextExpected out of the buffer, advancing nextExpected past each one.
func (b *AdaptiveJitterBuffer) flushSequentialFrames() []Frame {
	var out []Frame
	for {
		f, ok := b.buffer[b.nextExpected]
		if !ok {
			break
		}
		out = append(out, f)
		delete(b.buffer, b.nextExpected)
		b.nextExpected++
	}
	return out
}

// CheckTimeouts releases (as lost, not delivered) every frame sitting
// at the head of the buffer whose reception timestamp plus the
// configured max wait has already elapsed as of now, advancing
// nextExpected past each one so later buffered frames can flush.
func (b *AdaptiveJitterBuffer) CheckTimeouts(now int64) []Frame {
	b.mu.Lock()
	defer b.mu.Unlock()

	var timedOut []Frame
	for {
		f, ok := b.buffer[b.nextExpected]
		if !ok || f.Timestamp+b.maxWaitTime > now {
			break
		}
		timedOut = append(timedOut, f)
		delete(b.buffer, b.nextExpected)
		b.stats.TimedOut++
		b.nextExpected++
	}
	return timedOut
}

// Reset clears the buffer and, optionally, the lifetime statistics.
func (b *AdaptiveJitterBuffer) Reset(clearStats bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buffer = make(map[uint16]Frame)
	b.nextExpected = 0
	if clearStats {
		b.stats = Stats{}
	}
}

// BufferSize reports how many frames are currently held waiting for
// reorder.
func (b *AdaptiveJitterBuffer) BufferSize() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buffer)
}

// NextExpectedSeq reports the sequence number the buffer is waiting on.
func (b *AdaptiveJitterBuffer) NextExpectedSeq() uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nextExpected
}

// Statistics returns a snapshot of the lifetime counters.
func (b *AdaptiveJitterBuffer) Statistics() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// SetMaxBufferSize changes the reorder-window depth.
func (b *AdaptiveJitterBuffer) SetMaxBufferSize(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maxBufferSize = n
}

// SetMaxWaitTime changes the per-frame timeout, in microseconds.
func (b *AdaptiveJitterBuffer) SetMaxWaitTime(us int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maxWaitTime = us
}
