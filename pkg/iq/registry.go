package iq

import (
	"github.com/twinlife/callcore/internal/clog"
	"github.com/twinlife/callcore/pkg/wire"
)

var log = clog.New("iq")

// Decode parses the subtype fields that follow an already-consumed Header.
type Decode func(d *wire.Decoder, h Header) (any, error)

// Handler receives a decoded IQ value for dispatch to session logic.
type Handler func(msg any)

type registration struct {
	decode  Decode
	handler Handler
}

// Registry maps (schemaId, schemaVersion) to a decoder and handler. It is
// populated per session at session construction — there is no global
// singleton, so different sessions (e.g. a transfer target) may register
// different handler sets.
type Registry struct {
	entries map[SchemaKey]registration
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[SchemaKey]registration)}
}

// Register associates key with a decoder and handler. A later call for the
// same key replaces the earlier registration.
func (r *Registry) Register(key SchemaKey, decode Decode, handler Handler) {
	r.entries[key] = registration{decode: decode, handler: handler}
}

// Dispatch reads the base header from frame, looks up its schema key, and
// on a match decodes the remaining bytes and invokes the handler. An
// unknown schema id is dropped with a logged warning — not an error —
// preserving forward compatibility with peers that send newer IQ types.
// A malformed header (truncated frame) is returned as an error.
func (r *Registry) Dispatch(frame []byte) error {
	d := wire.NewDecoder(frame)
	h, err := ReadHeader(d)
	if err != nil {
		return err
	}
	key := h.Key()
	reg, ok := r.entries[key]
	if !ok {
		log.Printf("dropping frame for unregistered schema %s v%d", key.SchemaID, key.SchemaVersion)
		return nil
	}
	msg, err := reg.decode(d, h)
	if err != nil {
		log.Printf("decode error for schema %s v%d: %v", key.SchemaID, key.SchemaVersion, err)
		return nil
	}
	reg.handler(msg)
	return nil
}
