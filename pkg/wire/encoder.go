package wire

// DefaultMaxBuffer is the hard cap on an Encoder's output buffer. Growth is
// doubling up to this cap; encoding that would exceed it fails instead of
// allocating further.
const DefaultMaxBuffer = 16 << 20 // 16 MiB

const initialBufferSize = 256

// markerNull and markerNonNull are the "int" values written ahead of an
// optional field's payload — 0 means absent, 2 means present, matching the
// peer implementations' convention.
const (
	markerNull    = 0
	markerNonNull = 2
)

// Encoder is a single-pass, stream-oriented writer over a growable byte
// buffer. It is not safe for concurrent use.
type Encoder struct {
	buf    []byte
	maxCap int
}

// NewEncoder returns an Encoder with the default 16 MiB cap.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, initialBufferSize), maxCap: DefaultMaxBuffer}
}

// NewEncoderWithCap returns an Encoder capped at maxCap bytes, for tests
// that want to exercise the cap-exceeded error path cheaply.
func NewEncoderWithCap(maxCap int) *Encoder {
	return &Encoder{buf: make([]byte, 0, initialBufferSize), maxCap: maxCap}
}

// Bytes returns the encoded payload accumulated so far.
func (e *Encoder) Bytes() []byte { return e.buf }

// Reset clears the buffer for reuse.
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

func (e *Encoder) ensure(extra int) error {
	want := len(e.buf) + extra
	if want > e.maxCap {
		return serErrf("grow", "buffer would exceed cap of %d bytes", e.maxCap)
	}
	if cap(e.buf) >= want {
		return nil
	}
	newCap := cap(e.buf)
	if newCap == 0 {
		newCap = initialBufferSize
	}
	for newCap < want {
		if newCap >= e.maxCap {
			return serErrf("grow", "buffer would exceed cap of %d bytes", e.maxCap)
		}
		newCap *= 2
	}
	if newCap > e.maxCap {
		newCap = e.maxCap
	}
	if newCap < want {
		return serErrf("grow", "buffer would exceed cap of %d bytes", e.maxCap)
	}
	grown := make([]byte, len(e.buf), newCap)
	copy(grown, e.buf)
	e.buf = grown
	return nil
}

func (e *Encoder) appendRaw(b []byte) error {
	if err := e.ensure(len(b)); err != nil {
		return err
	}
	e.buf = append(e.buf, b...)
	return nil
}

// WriteBool writes a single byte: 0 for false, 1 for true.
func (e *Encoder) WriteBool(v bool) error {
	if v {
		return e.appendRaw([]byte{1})
	}
	return e.appendRaw([]byte{0})
}

// WriteInt writes a zig-zag varint-encoded 32-bit integer.
func (e *Encoder) WriteInt(v int32) error {
	return e.writeVarint(zigzagEncode(int64(v)))
}

// WriteLong writes a zig-zag varint-encoded 64-bit integer.
func (e *Encoder) WriteLong(v int64) error {
	return e.writeVarint(zigzagEncode(v))
}

func (e *Encoder) writeVarint(u uint64) error {
	// A 64-bit value never needs more than 10 bytes.
	var tmp [maxVarintBytes]byte
	n := appendVarint(tmp[:0], u)
	return e.appendRaw(n)
}

// WriteString writes the UTF-8 byte length as an int, then the bytes.
func (e *Encoder) WriteString(s string) error {
	if err := e.WriteInt(int32(len(s))); err != nil {
		return err
	}
	return e.appendRaw([]byte(s))
}

// WriteOptionalString writes the null/non-null marker then the string.
func (e *Encoder) WriteOptionalString(s *string) error {
	if s == nil {
		return e.WriteInt(markerNull)
	}
	if err := e.WriteInt(markerNonNull); err != nil {
		return err
	}
	return e.WriteString(*s)
}

// WriteBytes writes the length as an int, then the raw bytes.
func (e *Encoder) WriteBytes(b []byte) error {
	if err := e.WriteInt(int32(len(b))); err != nil {
		return err
	}
	return e.appendRaw(b)
}

// WriteOptionalBytes writes the null/non-null marker then the bytes.
func (e *Encoder) WriteOptionalBytes(b []byte) error {
	if b == nil {
		return e.WriteInt(markerNull)
	}
	if err := e.WriteInt(markerNonNull); err != nil {
		return err
	}
	return e.WriteBytes(b)
}

// WriteFixed writes exactly len(b) raw bytes with no length prefix.
func (e *Encoder) WriteFixed(b []byte) error {
	return e.appendRaw(b)
}

// WriteUUID writes the 16-byte wire form: canonical big-endian bytes
// reversed.
func (e *Encoder) WriteUUID(u UUID) error {
	rev := reverse16([16]byte(u))
	return e.appendRaw(rev[:])
}

// WriteOptionalUUID writes the null/non-null marker then the UUID.
func (e *Encoder) WriteOptionalUUID(u *UUID) error {
	if u == nil {
		return e.WriteInt(markerNull)
	}
	if err := e.WriteInt(markerNonNull); err != nil {
		return err
	}
	return e.WriteUUID(*u)
}
