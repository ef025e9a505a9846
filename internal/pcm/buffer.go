package pcm

import (
	"errors"
	"runtime"
	"sync/atomic"
)

// ErrInvalidBuffer is returned by NewBuffer for a zero-sized ring.
var ErrInvalidBuffer = errors.New("buffer needs at least one slot of non-zero length")

const (
	gateOpen int32 = iota
	gateReading
	gateResetting
)

type slot struct {
	full atomic.Bool
	n    int
	data []int16
}

// BufferStats reports cumulative buffer activity.
type BufferStats struct {
	Writes uint64
	Reads  uint64
	Resets uint64
}

// Buffer is a fixed ring of frame slots between one producer (the decode
// path) and one consumer (the sink). Slot hand-off uses atomic full/empty
// tags only; neither side ever takes a lock.
//
// TryWrite and Reset belong to the producer goroutine, TryRead to the
// consumer. A slot becomes visible to the consumer only once it is fully
// written, and becomes writable again only once the consumer has copied it
// out.
type Buffer struct {
	slots   []slot
	slotLen int

	widx int // producer only
	ridx int // consumer only, rewound by Reset under the gate

	gate   atomic.Int32
	filled atomic.Int32

	writes atomic.Uint64
	reads  atomic.Uint64
	resets atomic.Uint64
}

// NewBuffer allocates n slots of slotLen samples each.
func NewBuffer(n, slotLen int) (*Buffer, error) {
	if n <= 0 || slotLen <= 0 {
		return nil, ErrInvalidBuffer
	}
	b := &Buffer{
		slots:   make([]slot, n),
		slotLen: slotLen,
	}
	for i := range b.slots {
		b.slots[i].data = make([]int16, slotLen)
	}
	return b, nil
}

// TryWrite copies f into the next free slot. It returns false without
// blocking when every slot is full or when f does not fit a slot.
func (b *Buffer) TryWrite(f Frame) bool {
	if len(f.Samples) > b.slotLen {
		return false
	}
	s := &b.slots[b.widx]
	if s.full.Load() {
		return false
	}
	s.n = copy(s.data, f.Samples)
	// Count before publishing so a racing TryRead never drives filled
	// below zero.
	b.filled.Add(1)
	b.writes.Add(1)
	s.full.Store(true)
	b.widx = (b.widx + 1) % len(b.slots)
	return true
}

// TryRead copies the oldest full slot into dst and frees it. dst should hold
// a whole slot; a shorter dst truncates the frame. It returns ok=false when
// the buffer is empty or a Reset is in progress.
func (b *Buffer) TryRead(dst []int16) (n int, ok bool) {
	if !b.gate.CompareAndSwap(gateOpen, gateReading) {
		return 0, false
	}
	s := &b.slots[b.ridx]
	if !s.full.Load() {
		b.gate.Store(gateOpen)
		return 0, false
	}
	n = copy(dst, s.data[:s.n])
	s.full.Store(false)
	b.ridx = (b.ridx + 1) % len(b.slots)
	b.filled.Add(-1)
	b.reads.Add(1)
	b.gate.Store(gateOpen)
	return n, true
}

// Reset drops every buffered frame. It waits for an in-flight TryRead to
// finish but never makes the consumer wait.
func (b *Buffer) Reset() {
	for !b.gate.CompareAndSwap(gateOpen, gateResetting) {
		runtime.Gosched()
	}
	for i := range b.slots {
		b.slots[i].n = 0
		b.slots[i].full.Store(false)
	}
	b.widx = 0
	b.ridx = 0
	b.filled.Store(0)
	b.resets.Add(1)
	b.gate.Store(gateOpen)
}

// Len returns the number of full slots.
func (b *Buffer) Len() int {
	return int(b.filled.Load())
}

// Cap returns the number of slots.
func (b *Buffer) Cap() int {
	return len(b.slots)
}

// SlotLen returns the number of samples a slot can hold.
func (b *Buffer) SlotLen() int {
	return b.slotLen
}

// Stats returns cumulative counters.
func (b *Buffer) Stats() BufferStats {
	return BufferStats{
		Writes: b.writes.Load(),
		Reads:  b.reads.Load(),
		Resets: b.resets.Load(),
	}
}
