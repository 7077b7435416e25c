package drisl

import "io"

// DecoderState is the streaming decode session state.
type DecoderState uint8

const (
	// StateReady: the cursor sits at a value boundary.
	StateReady DecoderState = iota
	// StateExhausted: the input ended cleanly between values.
	StateExhausted
	// StateFailed: an unrecoverable parse or read error occurred.
	StateFailed
)

// String returns the state name.
func (s DecoderState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DecoderOptions tune a streaming Decoder. The zero value gives
// sensible defaults.
type DecoderOptions struct {
	// MaxDepth bounds nesting of arrays and maps. 0 means
	// DefaultMaxDepth.
	MaxDepth int
	// Logger receives Debug events per yielded value and on terminal
	// transitions. nil disables logging.
	Logger Logger
}

// Decoder is a streaming decode session: it pulls back-to-back
// canonical values from a Source, one per Next call, without buffering
// the whole input. The session owns its Source for its lifetime and is
// not safe for concurrent use; decode independent inputs with
// independent sessions.
//
// Once a terminal state is reached the session stays there: every
// further Next repeats io.EOF (clean exhaustion) or the original error
// without touching the source again. A new session over a fresh Source
// is the only way to restart.
type Decoder struct {
	d     decodeState
	log   Logger
	state DecoderState
	err   error
	count uint64
}

// NewDecoder returns a streaming Decoder over src with default options.
func NewDecoder(src Source) *Decoder {
	return NewDecoderOptions(src, DecoderOptions{})
}

// NewDecoderOptions returns a streaming Decoder over src.
func NewDecoderOptions(src Source, opts DecoderOptions) *Decoder {
	return &Decoder{
		d: decodeState{
			src:      src,
			maxDepth: coalesce(opts.MaxDepth, DefaultMaxDepth),
		},
		log: coalesce[Logger](opts.Logger, NopLogger{}),
	}
}

// Next advances the session by one value. It returns the decoded value,
// io.EOF at a clean end of input, or the decode error that moved the
// session to StateFailed. No value is ever returned after the first
// error or after exhaustion.
func (d *Decoder) Next() (*Value, error) {
	switch d.state {
	case StateExhausted:
		return nil, io.EOF
	case StateFailed:
		return nil, d.err
	}

	_, ok, err := d.d.src.Peek()
	if err != nil {
		return nil, d.fail(d.d.errAt(err))
	}
	if !ok {
		d.state = StateExhausted
		d.log.Debug("drisl: stream exhausted", Fields{
			"offset": d.Offset(),
			"values": d.count,
		})
		return nil, io.EOF
	}

	v, err := d.d.decodeValue(0)
	if err != nil {
		return nil, d.fail(err)
	}
	d.count++
	d.log.Debug("drisl: value decoded", Fields{
		"offset": d.Offset(),
		"kind":   v.Kind().String(),
	})
	return v, nil
}

func (d *Decoder) fail(err error) error {
	d.state = StateFailed
	d.err = err
	d.log.Debug("drisl: stream failed", Fields{
		"offset": d.Offset(),
		"error":  err.Error(),
	})
	return err
}

// Offset is the number of input bytes consumed so far. After a
// successful Next it points just past the yielded value.
func (d *Decoder) Offset() int64 { return d.d.src.Offset() }

// State returns the session state.
func (d *Decoder) State() DecoderState { return d.state }

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
