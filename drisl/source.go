package drisl

import (
	"io"
	"slices"
)

// Source supplies bytes to the decoder. It is a strict pull interface:
// bytes are consumed monotonically, there is no seeking back. One
// Source is exclusively owned by one decode operation at a time.
//
// Take returns ErrTruncated when fewer than n bytes remain; it never
// consumes partially. A clean end of input is observed through Peek or
// AtEnd, never through Take(0).
type Source interface {
	// Peek reports the next byte without consuming it. ok is false at a
	// clean end of input. err is a read error from the underlying
	// resource, never ErrTruncated.
	Peek() (b byte, ok bool, err error)

	// Take consumes exactly n bytes. The returned slice is only valid
	// until the next call on the Source.
	Take(n int) ([]byte, error)

	// Offset is the number of bytes consumed so far.
	Offset() int64

	// AtEnd reports whether the input is cleanly exhausted.
	AtEnd() (bool, error)
}

// bytesSource reads from an in-memory buffer.
type bytesSource struct {
	data []byte
	pos  int
}

// NewBytesSource returns a Source over b. The slice is not copied.
func NewBytesSource(b []byte) Source {
	return &bytesSource{data: b}
}

func (s *bytesSource) Peek() (byte, bool, error) {
	if s.pos >= len(s.data) {
		return 0, false, nil
	}
	return s.data[s.pos], true, nil
}

func (s *bytesSource) Take(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrTruncated
	}
	if len(s.data)-s.pos < n {
		return nil, ErrTruncated
	}
	b := s.data[s.pos : s.pos+n]
	s.pos += n
	return b, nil
}

func (s *bytesSource) Offset() int64 { return int64(s.pos) }

func (s *bytesSource) AtEnd() (bool, error) { return s.pos >= len(s.data), nil }

// readerSource reads from an io.Reader through a slide-and-grow
// lookahead buffer, so the whole input never has to be resident.
type readerSource struct {
	r    io.Reader
	buf  []byte
	scan int   // consumed prefix of buf
	off  int64 // total bytes consumed
	eof  bool
	err  error // sticky non-EOF read error
}

// NewReaderSource returns a Source over r. Reading from r is the only
// point where decoding can block.
func NewReaderSource(r io.Reader) Source {
	return &readerSource{r: r}
}

func (s *readerSource) buffered() int { return len(s.buf) - s.scan }

const (
	minRead = 512
	maxGrow = 1 << 20
)

// fill reads until at least need unread bytes are buffered, the reader
// is exhausted, or a read error sticks. Growth is capped per iteration
// so an absurd length prefix runs into EOF before a giant allocation.
func (s *readerSource) fill(need int) {
	for s.buffered() < need && !s.eof && s.err == nil {
		if s.scan > 0 {
			n := copy(s.buf, s.buf[s.scan:])
			s.buf = s.buf[:n]
			s.scan = 0
		}
		grow := need - len(s.buf)
		if grow < minRead {
			grow = minRead
		}
		if grow > maxGrow {
			grow = maxGrow
		}
		s.buf = slices.Grow(s.buf, grow)
		n, err := s.r.Read(s.buf[len(s.buf):cap(s.buf)])
		s.buf = s.buf[:len(s.buf)+n]
		switch {
		case err == io.EOF:
			s.eof = true
		case err != nil:
			s.err = err
		}
	}
}

func (s *readerSource) Peek() (byte, bool, error) {
	s.fill(1)
	if s.buffered() >= 1 {
		return s.buf[s.scan], true, nil
	}
	if s.err != nil {
		return 0, false, s.err
	}
	return 0, false, nil
}

func (s *readerSource) Take(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrTruncated
	}
	s.fill(n)
	if s.buffered() < n {
		if s.err != nil {
			return nil, s.err
		}
		return nil, ErrTruncated
	}
	b := s.buf[s.scan : s.scan+n]
	s.scan += n
	s.off += int64(n)
	return b, nil
}

func (s *readerSource) Offset() int64 { return s.off }

func (s *readerSource) AtEnd() (bool, error) {
	_, ok, err := s.Peek()
	return !ok && err == nil, err
}
