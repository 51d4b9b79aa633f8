package iq

import (
	"testing"

	"github.com/twinlife/callcore/pkg/wire"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		SchemaID:      wire.MustParseUUID("a8aa7e0d-c495-4565-89bb-0c5462b54dd0"),
		SchemaVersion: 1,
		RequestID:     42,
	}
	e := wire.NewEncoder()
	if err := WriteHeader(e, h); err != nil {
		t.Fatal(err)
	}
	d := wire.NewDecoder(e.Bytes())
	got, err := ReadHeader(d)
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Fatalf("got %+v want %+v", got, h)
	}
}

func TestRegistryDispatchUnknownSchemaDropped(t *testing.T) {
	r := NewRegistry()
	e := wire.NewEncoder()
	_ = WriteHeader(e, Header{SchemaID: wire.MustParseUUID("00000000-0000-0000-0000-000000000001"), SchemaVersion: 1})
	if err := r.Dispatch(e.Bytes()); err != nil {
		t.Fatalf("unknown schema should be dropped, not errored: %v", err)
	}
}

func TestRegistryDispatchKnownSchema(t *testing.T) {
	r := NewRegistry()
	key := SchemaKey{SchemaID: wire.MustParseUUID("00000000-0000-0000-0000-000000000002"), SchemaVersion: 1}

	var got any
	r.Register(key,
		func(d *wire.Decoder, h Header) (any, error) {
			s, err := d.ReadString()
			return s, err
		},
		func(msg any) { got = msg },
	)

	e := wire.NewEncoder()
	_ = WriteHeader(e, Header{SchemaID: key.SchemaID, SchemaVersion: 1, RequestID: 7})
	_ = e.WriteString("payload")

	if err := r.Dispatch(e.Bytes()); err != nil {
		t.Fatal(err)
	}
	if got != "payload" {
		t.Fatalf("handler got %v, want %q", got, "payload")
	}
}

func TestRegistryDispatchTruncatedHeaderErrors(t *testing.T) {
	r := NewRegistry()
	if err := r.Dispatch([]byte{0x01, 0x02}); err == nil {
		t.Fatal("expected error for truncated header")
	}
}
