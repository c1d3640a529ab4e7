package dashboard

// LineBuffer is a ring buffer of output lines. Once full, each new line
// evicts the oldest one.
//
// LineBuffer is not safe for concurrent use.
type LineBuffer struct {
	lines    []string
	capacity int
	head     int
	count    int
}

// NewLineBuffer creates a ring buffer holding at most capacity lines.
func NewLineBuffer(capacity int) *LineBuffer {
	if capacity <= 0 {
		capacity = 1000
	}
	return &LineBuffer{
		lines:    make([]string, capacity),
		capacity: capacity,
	}
}

// Push appends a line, evicting the oldest line when full.
func (b *LineBuffer) Push(line string) {
	idx := (b.head + b.count) % b.capacity
	b.lines[idx] = line

	if b.count < b.capacity {
		b.count++
	} else {
		b.head = (b.head + 1) % b.capacity
	}
}

// Len returns the number of lines held.
func (b *LineBuffer) Len() int {
	return b.count
}

// Cap returns the maximum number of lines held.
func (b *LineBuffer) Cap() int {
	return b.capacity
}

// At returns the i-th oldest line. It panics if i is out of range.
func (b *LineBuffer) At(i int) string {
	if i < 0 || i >= b.count {
		panic("dashboard: line index out of range")
	}
	return b.lines[(b.head+i)%b.capacity]
}

// Slice returns lines [start, end) clamped to the buffer contents.
func (b *LineBuffer) Slice(start, end int) []string {
	start = max(start, 0)
	end = min(end, b.count)
	if start >= end {
		return nil
	}
	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, b.lines[(b.head+i)%b.capacity])
	}
	return out
}
