package wire

import "github.com/google/uuid"

// UUID is the 16-byte canonical (big-endian) form. On the wire it is
// written and read in reverse byte order — see reverse16 — never in this
// canonical order directly.
type UUID [16]byte

// Nil is the all-zero UUID.
var Nil UUID

// ParseUUID parses the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" text
// form into its canonical big-endian byte layout.
func ParseUUID(s string) (UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, serErr("ParseUUID", err)
	}
	return UUID(u), nil
}

// MustParseUUID panics on a malformed string; used for canonical schema ids
// known at compile time.
func MustParseUUID(s string) UUID {
	u, err := ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

// reverse16 returns a copy of b with byte order reversed. It is its own
// inverse, so the same helper serves both write (canonical -> wire) and
// read (wire -> canonical) directions.
func reverse16(b [16]byte) [16]byte {
	var out [16]byte
	for i := 0; i < 16; i++ {
		out[i] = b[15-i]
	}
	return out
}
