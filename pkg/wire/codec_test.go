package wire

import (
	"bytes"
	"math"
	"testing"
)

func TestIntKnownVectors(t *testing.T) {
	cases := []struct {
		v    int32
		want []byte
	}{
		{0, []byte{0x00}},
		{-1, []byte{0x01}},
		{63, []byte{0x7E}},
		{64, []byte{0x80, 0x01}},
	}
	for _, c := range cases {
		e := NewEncoder()
		if err := e.WriteInt(c.v); err != nil {
			t.Fatalf("WriteInt(%d): %v", c.v, err)
		}
		if !bytes.Equal(e.Bytes(), c.want) {
			t.Errorf("WriteInt(%d) = % x, want % x", c.v, e.Bytes(), c.want)
		}
		d := NewDecoder(c.want)
		got, err := d.ReadInt()
		if err != nil {
			t.Fatalf("ReadInt: %v", err)
		}
		if got != c.v {
			t.Errorf("ReadInt(% x) = %d, want %d", c.want, got, c.v)
		}
	}
}

func TestUUIDKnownVector(t *testing.T) {
	u, err := ParseUUID("00112233-4455-6677-8899-aabbccddeeff")
	if err != nil {
		t.Fatal(err)
	}
	e := NewEncoder()
	if err := e.WriteUUID(u); err != nil {
		t.Fatal(err)
	}
	want := []byte{0xFF, 0xEE, 0xDD, 0xCC, 0xBB, 0xAA, 0x99, 0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11, 0x00}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("wire bytes = % x, want % x", e.Bytes(), want)
	}
	d := NewDecoder(want)
	got, err := d.ReadUUID()
	if err != nil {
		t.Fatal(err)
	}
	if got != u {
		t.Fatalf("round-trip UUID mismatch: got %s want %s", got, u)
	}
}

func TestRoundTripBool(t *testing.T) {
	for _, v := range []bool{true, false} {
		e := NewEncoder()
		_ = e.WriteBool(v)
		d := NewDecoder(e.Bytes())
		got, err := d.ReadBool()
		if err != nil || got != v {
			t.Errorf("bool round-trip(%v) = %v, %v", v, got, err)
		}
	}
}

func TestRoundTripIntRange(t *testing.T) {
	vectors := []int32{0, 1, -1, 63, 64, -64, -65, math.MaxInt32, math.MinInt32, 1000000, -1000000}
	for _, v := range vectors {
		e := NewEncoder()
		if err := e.WriteInt(v); err != nil {
			t.Fatalf("WriteInt(%d): %v", v, err)
		}
		d := NewDecoder(e.Bytes())
		got, err := d.ReadInt()
		if err != nil {
			t.Fatalf("ReadInt(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round-trip int %d got %d", v, got)
		}
	}
}

func TestRoundTripLongRange(t *testing.T) {
	vectors := []int64{0, 1, -1, 63, 64, math.MaxInt64, math.MinInt64, 1 << 40, -(1 << 40)}
	for _, v := range vectors {
		e := NewEncoder()
		if err := e.WriteLong(v); err != nil {
			t.Fatalf("WriteLong(%d): %v", v, err)
		}
		d := NewDecoder(e.Bytes())
		got, err := d.ReadLong()
		if err != nil {
			t.Fatalf("ReadLong(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round-trip long %d got %d", v, got)
		}
	}
}

func TestRoundTripString(t *testing.T) {
	for _, s := range []string{"", "hello", "unicode: éè中文"} {
		e := NewEncoder()
		if err := e.WriteString(s); err != nil {
			t.Fatal(err)
		}
		d := NewDecoder(e.Bytes())
		got, err := d.ReadString()
		if err != nil {
			t.Fatal(err)
		}
		if got != s {
			t.Errorf("round-trip string %q got %q", s, got)
		}
	}
}

func TestRoundTripBytes(t *testing.T) {
	for _, b := range [][]byte{{}, {1, 2, 3}, bytes.Repeat([]byte{0xAB}, 1000)} {
		e := NewEncoder()
		if err := e.WriteBytes(b); err != nil {
			t.Fatal(err)
		}
		d := NewDecoder(e.Bytes())
		got, err := d.ReadBytes()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, b) {
			t.Errorf("round-trip bytes %v got %v", b, got)
		}
	}
}

func TestOptionalStringNullAndValue(t *testing.T) {
	e := NewEncoder()
	_ = e.WriteOptionalString(nil)
	s := "hi"
	_ = e.WriteOptionalString(&s)

	d := NewDecoder(e.Bytes())
	got1, err := d.ReadOptionalString()
	if err != nil || got1 != nil {
		t.Fatalf("expected nil, got %v err %v", got1, err)
	}
	got2, err := d.ReadOptionalString()
	if err != nil || got2 == nil || *got2 != "hi" {
		t.Fatalf("expected \"hi\", got %v err %v", got2, err)
	}
}

func TestOptionalUUIDNullAndValue(t *testing.T) {
	u := UUID{1, 2, 3}
	e := NewEncoder()
	_ = e.WriteOptionalUUID(nil)
	_ = e.WriteOptionalUUID(&u)

	d := NewDecoder(e.Bytes())
	got1, err := d.ReadOptionalUUID()
	if err != nil || got1 != nil {
		t.Fatalf("expected nil, got %v err %v", got1, err)
	}
	got2, err := d.ReadOptionalUUID()
	if err != nil || got2 == nil || *got2 != u {
		t.Fatalf("expected %v, got %v err %v", u, got2, err)
	}
}

func TestFixed(t *testing.T) {
	e := NewEncoder()
	payload := []byte{1, 2, 3, 4}
	if err := e.WriteFixed(payload); err != nil {
		t.Fatal(err)
	}
	d := NewDecoder(e.Bytes())
	got, err := d.ReadFixed(4)
	if err != nil || !bytes.Equal(got, payload) {
		t.Fatalf("ReadFixed = %v, %v", got, err)
	}
}

func TestTruncatedInputErrors(t *testing.T) {
	d := NewDecoder([]byte{0x80}) // continuation bit set, no following byte
	if _, err := d.ReadInt(); err == nil {
		t.Fatal("expected error for truncated varint")
	}

	d2 := NewDecoder([]byte{0x04}) // length marker indicating 2 bytes follow
	if _, err := d2.ReadString(); err == nil {
		t.Fatal("expected error for truncated string")
	}
}

func TestNegativeLengthErrors(t *testing.T) {
	e := NewEncoder()
	_ = e.WriteInt(-5)
	d := NewDecoder(e.Bytes())
	if _, err := d.ReadString(); err == nil {
		t.Fatal("expected error for negative length")
	}
}

func TestVarintTooLongErrors(t *testing.T) {
	// 11 bytes, all with continuation bit set: exceeds maxVarintBytes.
	b := bytes.Repeat([]byte{0x80}, 11)
	d := NewDecoder(b)
	if _, err := d.ReadLong(); err == nil {
		t.Fatal("expected error for over-long varint")
	}
}

func TestEncoderBufferCap(t *testing.T) {
	e := NewEncoderWithCap(8)
	if err := e.WriteBytes(make([]byte, 100)); err == nil {
		t.Fatal("expected cap-exceeded error")
	}
}
