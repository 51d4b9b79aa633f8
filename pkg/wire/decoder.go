package wire

// maxStringOrBytesLen guards against a corrupt or malicious length prefix
// causing an oversized allocation; it tracks DefaultMaxBuffer since no
// single field can legitimately exceed the whole-frame cap.
const maxStringOrBytesLen = DefaultMaxBuffer

// Decoder is a single-pass, stream-oriented reader over a byte slice. It is
// not safe for concurrent use.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder wraps b for sequential decoding. b is not copied; the caller
// must not mutate it while the Decoder is in use.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Remaining reports how many bytes are left unread.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

// Pos returns the current read offset.
func (d *Decoder) Pos() int { return d.pos }

func (d *Decoder) readRaw(n int) ([]byte, error) {
	if n < 0 {
		return nil, serErrf("readRaw", "negative length %d", n)
	}
	if n > d.Remaining() {
		return nil, serErrf("readRaw", "length %d exceeds remaining %d bytes", n, d.Remaining())
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// ReadBool reads one byte: 0 is false, anything else is true.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.readRaw(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

// ReadInt reads a zig-zag varint-encoded 32-bit integer.
func (d *Decoder) ReadInt() (int32, error) {
	u, n, err := readVarint(d.buf, d.pos)
	if err != nil {
		return 0, err
	}
	d.pos = n
	return int32(zigzagDecode(u)), nil
}

// ReadLong reads a zig-zag varint-encoded 64-bit integer.
func (d *Decoder) ReadLong() (int64, error) {
	u, n, err := readVarint(d.buf, d.pos)
	if err != nil {
		return 0, err
	}
	d.pos = n
	return zigzagDecode(u), nil
}

// ReadString reads an int length prefix followed by that many UTF-8 bytes.
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadInt()
	if err != nil {
		return "", err
	}
	if n < 0 || int(n) > maxStringOrBytesLen {
		return "", serErrf("ReadString", "invalid length %d", n)
	}
	b, err := d.readRaw(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// readOptionalMarker reads the leading int marker and reports whether a
// payload follows.
func (d *Decoder) readOptionalMarker() (bool, error) {
	v, err := d.ReadInt()
	if err != nil {
		return false, err
	}
	switch v {
	case markerNull:
		return false, nil
	case markerNonNull:
		return true, nil
	default:
		return false, serErrf("optionalMarker", "unexpected marker value %d", v)
	}
}

// ReadOptionalString reads the null/non-null marker, returning (nil, nil)
// for null.
func (d *Decoder) ReadOptionalString() (*string, error) {
	present, err := d.readOptionalMarker()
	if err != nil || !present {
		return nil, err
	}
	s, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ReadBytes reads an int length prefix followed by that many raw bytes. The
// returned slice is a copy; the Decoder's backing array is never aliased
// past a ReadBytes call.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadInt()
	if err != nil {
		return nil, err
	}
	if n < 0 || int(n) > maxStringOrBytesLen {
		return nil, serErrf("ReadBytes", "invalid length %d", n)
	}
	b, err := d.readRaw(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadOptionalBytes reads the null/non-null marker, returning (nil, nil)
// for null.
func (d *Decoder) ReadOptionalBytes() ([]byte, error) {
	present, err := d.readOptionalMarker()
	if err != nil || !present {
		return nil, err
	}
	return d.ReadBytes()
}

// ReadFixed reads exactly n raw bytes with no length prefix.
func (d *Decoder) ReadFixed(n int) ([]byte, error) {
	b, err := d.readRaw(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadUUID reads the 16-byte wire form and reverses it back to canonical
// big-endian order.
func (d *Decoder) ReadUUID() (UUID, error) {
	b, err := d.readRaw(16)
	if err != nil {
		return UUID{}, err
	}
	var raw [16]byte
	copy(raw[:], b)
	return UUID(reverse16(raw)), nil
}

// ReadOptionalUUID reads the null/non-null marker, returning (nil, nil) for
// null.
func (d *Decoder) ReadOptionalUUID() (*UUID, error) {
	present, err := d.readOptionalMarker()
	if err != nil || !present {
		return nil, err
	}
	u, err := d.ReadUUID()
	if err != nil {
		return nil, err
	}
	return &u, nil
}
