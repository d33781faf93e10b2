package sonyproto

const (
	sentinelHeader  byte = 0x3E
	sentinelTrailer byte = 0x3C
	sentinelEscape  byte = 0x3D

	// bufferCapacity bounds the session's read buffer. Content that
	// would de-escape past this is dropped at the input boundary;
	// callers must size Ingest calls accordingly. Outgoing frames are
	// not buffered: WriteInto returns a freshly allocated slice.
	bufferCapacity = 1024
)

func isSentinel(b byte) bool {
	return b == sentinelHeader || b == sentinelTrailer || b == sentinelEscape
}

// escapeInterior walks data and replaces every sentinel-valued byte
// with the two-byte escape pair (0x3D, original&^0x10). It is applied
// to the kind..checksum span only; the canonical header and trailer
// bytes are never escaped.
func escapeInterior(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if isSentinel(b) {
			out = append(out, sentinelEscape, b&^0x10)
		} else {
			out = append(out, b)
		}
	}
	return out
}

// frameBuffer is a bounded byte buffer with a moving read cursor,
// used for the session's read buffer.
type frameBuffer struct {
	buf        [bufferCapacity]byte
	start, end int
}

func (b *frameBuffer) len() int { return b.end - b.start }

func (b *frameBuffer) bytes() []byte { return b.buf[b.start:b.end] }

func (b *frameBuffer) reset() { b.start, b.end = 0, 0 }

// consume discards the first n bytes of buffered data.
func (b *frameBuffer) consume(n int) {
	b.start += n
	if b.start >= b.end {
		b.reset()
	}
}

// push appends one byte, compacting the buffer first if needed. It
// reports false when the buffer is full even after compaction, in
// which case the byte is dropped.
func (b *frameBuffer) push(c byte) bool {
	if b.end >= len(b.buf) {
		if b.start > 0 {
			n := copy(b.buf[:], b.buf[b.start:b.end])
			b.end = n
			b.start = 0
		}
		if b.end >= len(b.buf) {
			return false
		}
	}
	b.buf[b.end] = c
	b.end++
	return true
}

func (b *frameBuffer) pushAll(data []byte) {
	for _, c := range data {
		b.push(c)
	}
}
