// Package iq implements the IQ schema registry (C2): a per-session map from
// (schemaId, schemaVersion) to a deserializer and handler for data-channel
// binary frames, plus the common BinaryPacketIQ header shared by every
// frame subtype.
package iq

import "github.com/twinlife/callcore/pkg/wire"

// SchemaKey identifies a wire format for a data-channel IQ. Equality is by
// component, so SchemaKey is usable directly as a map key.
type SchemaKey struct {
	SchemaID      wire.UUID
	SchemaVersion int
}

// Header is the common BinaryPacketIQ prefix: schemaId, schemaVersion,
// requestId. The base serializer produces it before any subtype fields are
// written; the base deserializer consumes it before the registry dispatches
// to a subtype decoder.
type Header struct {
	SchemaID      wire.UUID
	SchemaVersion int32
	RequestID     int64
}

// Key returns the SchemaKey identifying this header's wire format.
func (h Header) Key() SchemaKey {
	return SchemaKey{SchemaID: h.SchemaID, SchemaVersion: int(h.SchemaVersion)}
}

// WriteHeader writes schemaId, schemaVersion, requestId in that order. Every
// subtype serializer must call this first.
func WriteHeader(e *wire.Encoder, h Header) error {
	if err := e.WriteUUID(h.SchemaID); err != nil {
		return err
	}
	if err := e.WriteInt(h.SchemaVersion); err != nil {
		return err
	}
	return e.WriteLong(h.RequestID)
}

// ReadHeader reads the base header. The registry calls this once per frame
// before looking up the subtype decoder; subtype Decode functions assume
// the header has already been consumed and read only their own fields.
func ReadHeader(d *wire.Decoder) (Header, error) {
	schemaID, err := d.ReadUUID()
	if err != nil {
		return Header{}, err
	}
	version, err := d.ReadInt()
	if err != nil {
		return Header{}, err
	}
	requestID, err := d.ReadLong()
	if err != nil {
		return Header{}, err
	}
	return Header{SchemaID: schemaID, SchemaVersion: version, RequestID: requestID}, nil
}
