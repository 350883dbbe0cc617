// SPDX-License-Identifier: AGPL-3.0-or-later
// dvmcore - Digital Voice Modem protocol core
//
// The source code is available at <https://github.com/dvmhub/dvmcore>

package jitter_test

import (
	"testing"

	"github.com/dvmhub/dvmcore/internal/jitter"
	"github.com/stretchr/testify/assert"
)

func TestProcessFrameInOrderFlushesImmediately(t *testing.T) {
	t.Parallel()
	buf := jitter.New(jitter.DefaultMaxBufferSize, jitter.DefaultMaxWaitTime)

	ready := buf.ProcessFrame(0, []byte("a"), 0)
	assert.Len(t, ready, 1)
	assert.EqualValues(t, 1, buf.NextExpectedSeq())
}

func TestProcessFrameReordersWithinWindow(t *testing.T) {
	t.Parallel()
	buf := jitter.New(jitter.DefaultMaxBufferSize, jitter.DefaultMaxWaitTime)

	ready := buf.ProcessFrame(2, []byte("c"), 0)
	assert.Empty(t, ready, "frame 2 must wait for frames 0 and 1")
	assert.Equal(t, 1, buf.BufferSize())

	ready = buf.ProcessFrame(1, []byte("b"), 0)
	assert.Empty(t, ready, "frame 1 still can't flush without frame 0")

	ready = buf.ProcessFrame(0, []byte("a"), 0)
	assert.Equal(t, []byte("a"), ready[0].Data)
	assert.Equal(t, []byte("b"), ready[1].Data)
	assert.Equal(t, []byte("c"), ready[2].Data)
	assert.EqualValues(t, 3, buf.NextExpectedSeq())

	stats := buf.Statistics()
	assert.EqualValues(t, 2, stats.Reordered)
}

func TestProcessFrameOverflowEvictsOldest(t *testing.T) {
	t.Parallel()
	buf := jitter.New(1, jitter.DefaultMaxWaitTime)

	buf.ProcessFrame(5, []byte("f"), 0)
	ready := buf.ProcessFrame(6, []byte("g"), 0)
	assert.NotEmpty(t, ready, "overflow must jump ahead to the oldest buffered frame")
	assert.Equal(t, []byte("f"), ready[0].Data)
}

func TestProcessFrameDropsLateDuplicate(t *testing.T) {
	t.Parallel()
	buf := jitter.New(jitter.DefaultMaxBufferSize, jitter.DefaultMaxWaitTime)
	buf.ProcessFrame(0, []byte("a"), 0)

	ready := buf.ProcessFrame(0, []byte("dup"), 0)
	assert.Empty(t, ready)
	assert.EqualValues(t, 1, buf.Statistics().Dropped)
}

func TestProcessFrameResyncsOnLargeRegression(t *testing.T) {
	t.Parallel()
	buf := jitter.New(jitter.DefaultMaxBufferSize, jitter.DefaultMaxWaitTime)
	buf.ProcessFrame(5000, []byte("x"), 0)

	ready := buf.ProcessFrame(10, []byte("restart"), 0)
	assert.Len(t, ready, 1)
	assert.Equal(t, []byte("restart"), ready[0].Data)
	assert.EqualValues(t, 11, buf.NextExpectedSeq())
}

func TestCheckTimeoutsReleasesExpiredHeadFrame(t *testing.T) {
	t.Parallel()
	buf := jitter.New(jitter.DefaultMaxBufferSize, 1000)

	buf.ProcessFrame(1, []byte("b"), 500) // buffered, waiting on frame 0

	timedOut := buf.CheckTimeouts(1000)
	assert.Empty(t, timedOut, "not expired yet")

	timedOut = buf.CheckTimeouts(2001)
	assert.Empty(t, timedOut, "frame 1 isn't at the head, frame 0 never arrived")

	// Frame 0 never arrives; nothing is buffered at position 0, so there
	// is nothing for CheckTimeouts to expire until ProcessFrame or a
	// forced advance makes position 0 the head with a real entry.
	stats := buf.Statistics()
	assert.Zero(t, stats.TimedOut)
}

func TestCheckTimeoutsAdvancesThroughConsecutiveExpiredFrames(t *testing.T) {
	t.Parallel()
	buf := jitter.New(jitter.DefaultMaxBufferSize, 1000)

	buf.ProcessFrame(0, []byte("a"), 0)
	buf.ProcessFrame(2, []byte("c"), 0) // buffered, waiting on frame 1

	timedOut := buf.CheckTimeouts(5000)
	assert.Empty(t, timedOut, "frame 1 was never received at all, so it isn't in the buffer to expire")
	assert.EqualValues(t, 1, buf.NextExpectedSeq())
}
