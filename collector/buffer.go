package collector

// Buffer accumulates decoded chunk bytes in acquisition order.
//
// Nothing checks that chunks arrive in their original order, or that none
// is missing or repeated: the frame carries no index. A misordered buffer
// surfaces later as an authentication failure.
type Buffer struct {
	data    []byte
	lengths []int
}

// Append adds one decoded chunk. It never fails, so a chunk is either
// appended whole or, when decoding failed earlier, not at all.
func (b *Buffer) Append(p []byte) {
	b.data = append(b.data, p...)
	b.lengths = append(b.lengths, len(p))
}

// Len returns the number of bytes collected.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Chunks returns the number of chunks appended.
func (b *Buffer) Chunks() int {
	return len(b.lengths)
}

// Lengths returns the decoded length of each appended chunk, in order.
// With a fixed chunk size every entry but the last should be equal.
func (b *Buffer) Lengths() []int {
	out := make([]int, len(b.lengths))
	copy(out, b.lengths)
	return out
}

// Bytes returns a copy of the collected bytes.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Reset discards everything collected.
func (b *Buffer) Reset() {
	b.data = nil
	b.lengths = nil
}
