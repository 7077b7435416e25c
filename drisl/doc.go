// Package drisl implements DRISL, a deterministic subset of CBOR with
// exactly one byte sequence per logical value. The decoder rejects any
// input that is not the unique canonical encoding, so validation is part
// of the format's correctness guarantee, not a strictness mode.
//
// Components:
//   - Value: the decoded representation (null, bool, int, float, text,
//     bytes, array, map, link). Map entries are always sorted ascending
//     by the canonical encoding of their keys, with no duplicates.
//   - Source: a pull cursor over the input bytes. NewBytesSource reads
//     an in-memory buffer; NewReaderSource feeds from an io.Reader
//     incrementally.
//   - Decode / DecodeFirst: single-value decode with full canonical
//     validation (minimal integer widths, binary64-only floats with one
//     NaN bit pattern, definite lengths, strict UTF-8, ordered keys,
//     tag 42 links only, bounded nesting).
//   - Decoder: a streaming session yielding back-to-back values from a
//     shared Source, one per Next call, with sticky terminal states.
//   - Encode: the canonical encoder; for every value it emits the one
//     byte sequence Decode accepts.
//
// Decoding a log of concatenated records:
//
//	dec := drisl.NewDecoder(drisl.NewReaderSource(file))
//	for {
//	    v, err := dec.Next()
//	    if err == io.EOF {
//	        break // clean end of input
//	    }
//	    if err != nil {
//	        return err // truncation or malformed input, session is dead
//	    }
//	    handle(v)
//	}
package drisl
