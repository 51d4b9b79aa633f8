package convo

import (
	"github.com/twinlife/callcore/pkg/iq"
	"github.com/twinlife/callcore/pkg/wire"
)

// ParticipantInfoIQ (v1) pushes the sender's identity: display name,
// optional free-text description, and an optional avatar thumbnail.
type ParticipantInfoIQ struct {
	RequestID   int64
	MemberID    string
	Name        string
	Description *string
	Avatar      []byte
}

func EncodeParticipantInfo(requestID int64, v ParticipantInfoIQ) ([]byte, error) {
	e := wire.NewEncoder()
	if err := iq.WriteHeader(e, iq.Header{SchemaID: ParticipantInfoSchemaID, SchemaVersion: 1, RequestID: requestID}); err != nil {
		return nil, err
	}
	if err := e.WriteString(v.MemberID); err != nil {
		return nil, err
	}
	if err := e.WriteString(v.Name); err != nil {
		return nil, err
	}
	if err := e.WriteOptionalString(v.Description); err != nil {
		return nil, err
	}
	if err := e.WriteOptionalBytes(v.Avatar); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

func DecodeParticipantInfo(d *wire.Decoder, h iq.Header) (any, error) {
	memberID, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	name, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	desc, err := d.ReadOptionalString()
	if err != nil {
		return nil, err
	}
	avatar, err := d.ReadOptionalBytes()
	if err != nil {
		return nil, err
	}
	return ParticipantInfoIQ{RequestID: h.RequestID, MemberID: memberID, Name: name, Description: desc, Avatar: avatar}, nil
}

// ParticipantTransferIQ (v1) announces transfer intent, naming the member
// the call is being transferred to.
type ParticipantTransferIQ struct {
	RequestID int64
	MemberID  string
}

func EncodeParticipantTransfer(requestID int64, v ParticipantTransferIQ) ([]byte, error) {
	e := wire.NewEncoder()
	if err := iq.WriteHeader(e, iq.Header{SchemaID: ParticipantTransferSchemaID, SchemaVersion: 1, RequestID: requestID}); err != nil {
		return nil, err
	}
	if err := e.WriteString(v.MemberID); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

func DecodeParticipantTransfer(d *wire.Decoder, h iq.Header) (any, error) {
	memberID, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return ParticipantTransferIQ{RequestID: h.RequestID, MemberID: memberID}, nil
}

// PrepareTransferIQ (v1), OnPrepareTransferIQ (v1), and TransferDoneIQ (v1)
// carry no payload beyond the base header; the requestId is the only
// meaningful field, per the open question in §9 about the original
// deserializer constructing an object for a payload-less frame.
type PrepareTransferIQ struct{ RequestID int64 }
type OnPrepareTransferIQ struct{ RequestID int64 }
type TransferDoneIQ struct{ RequestID int64 }

func EncodePrepareTransfer(requestID int64) ([]byte, error) {
	return encodeHeaderOnly(PrepareTransferSchemaID, 1, requestID)
}

func DecodePrepareTransfer(d *wire.Decoder, h iq.Header) (any, error) {
	return PrepareTransferIQ{RequestID: h.RequestID}, nil
}

func EncodeOnPrepareTransfer(requestID int64) ([]byte, error) {
	return encodeHeaderOnly(OnPrepareTransferSchemaID, 1, requestID)
}

func DecodeOnPrepareTransfer(d *wire.Decoder, h iq.Header) (any, error) {
	return OnPrepareTransferIQ{RequestID: h.RequestID}, nil
}

func EncodeTransferDone(requestID int64) ([]byte, error) {
	return encodeHeaderOnly(TransferDoneSchemaID, 1, requestID)
}

func DecodeTransferDone(d *wire.Decoder, h iq.Header) (any, error) {
	return TransferDoneIQ{RequestID: h.RequestID}, nil
}

func encodeHeaderOnly(schemaID wire.UUID, version int32, requestID int64) ([]byte, error) {
	e := wire.NewEncoder()
	if err := iq.WriteHeader(e, iq.Header{SchemaID: schemaID, SchemaVersion: version, RequestID: requestID}); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// ReplyTo identifies a conversation message a push is replying to.
type ReplyTo struct {
	SenderID   wire.UUID
	SequenceID int64
}

// PushObjectIQ (v5) carries a conversation message descriptor. The inner
// object's schemaId is checked against MessageSchemaID; a mismatch means
// the message body is not one we understand and the frame is dropped by
// the caller rather than surfaced.
type PushObjectIQ struct {
	RequestID      int64
	SenderID       wire.UUID
	SequenceID     int64
	SendTo         *wire.UUID
	ReplyTo        *ReplyTo
	Created        int64
	Sent           int64
	ExpireTimeout  int64
	InnerSchemaID  wire.UUID
	InnerVersion   int32
	Message        string
	CopyAllowed    bool
}

// IsMessageSchema reports whether the inner object is the known message
// schema. Callers must check this before trusting Message.
func (p PushObjectIQ) IsMessageSchema() bool {
	return p.InnerSchemaID == MessageSchemaID
}

func EncodePushObject(requestID int64, v PushObjectIQ) ([]byte, error) {
	e := wire.NewEncoder()
	if err := iq.WriteHeader(e, iq.Header{SchemaID: PushObjectSchemaID, SchemaVersion: 5, RequestID: requestID}); err != nil {
		return nil, err
	}
	if err := e.WriteUUID(v.SenderID); err != nil {
		return nil, err
	}
	if err := e.WriteLong(v.SequenceID); err != nil {
		return nil, err
	}
	if err := e.WriteOptionalUUID(v.SendTo); err != nil {
		return nil, err
	}
	if err := writeOptionalReplyTo(e, v.ReplyTo); err != nil {
		return nil, err
	}
	if err := e.WriteLong(v.Created); err != nil {
		return nil, err
	}
	if err := e.WriteLong(v.Sent); err != nil {
		return nil, err
	}
	if err := e.WriteLong(v.ExpireTimeout); err != nil {
		return nil, err
	}
	if err := e.WriteUUID(v.InnerSchemaID); err != nil {
		return nil, err
	}
	if err := e.WriteInt(v.InnerVersion); err != nil {
		return nil, err
	}
	if err := e.WriteString(v.Message); err != nil {
		return nil, err
	}
	if err := e.WriteBool(v.CopyAllowed); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

func DecodePushObject(d *wire.Decoder, h iq.Header) (any, error) {
	v := PushObjectIQ{RequestID: h.RequestID}
	var err error
	if v.SenderID, err = d.ReadUUID(); err != nil {
		return nil, err
	}
	if v.SequenceID, err = d.ReadLong(); err != nil {
		return nil, err
	}
	if v.SendTo, err = d.ReadOptionalUUID(); err != nil {
		return nil, err
	}
	if v.ReplyTo, err = readOptionalReplyTo(d); err != nil {
		return nil, err
	}
	if v.Created, err = d.ReadLong(); err != nil {
		return nil, err
	}
	if v.Sent, err = d.ReadLong(); err != nil {
		return nil, err
	}
	if v.ExpireTimeout, err = d.ReadLong(); err != nil {
		return nil, err
	}
	if v.InnerSchemaID, err = d.ReadUUID(); err != nil {
		return nil, err
	}
	if v.InnerVersion, err = d.ReadInt(); err != nil {
		return nil, err
	}
	if v.Message, err = d.ReadString(); err != nil {
		return nil, err
	}
	if v.CopyAllowed, err = d.ReadBool(); err != nil {
		return nil, err
	}
	return v, nil
}

func writeOptionalReplyTo(e *wire.Encoder, r *ReplyTo) error {
	if r == nil {
		return e.WriteInt(0)
	}
	if err := e.WriteInt(2); err != nil {
		return err
	}
	if err := e.WriteUUID(r.SenderID); err != nil {
		return err
	}
	return e.WriteLong(r.SequenceID)
}

func readOptionalReplyTo(d *wire.Decoder) (*ReplyTo, error) {
	marker, err := d.ReadInt()
	if err != nil {
		return nil, err
	}
	if marker == 0 {
		return nil, nil
	}
	r := &ReplyTo{}
	if r.SenderID, err = d.ReadUUID(); err != nil {
		return nil, err
	}
	if r.SequenceID, err = d.ReadLong(); err != nil {
		return nil, err
	}
	return r, nil
}

// PushTwincodeIQ (v2) carries a twincode descriptor: same envelope fields
// as PushObjectIQ (sender, sequence, optional sendTo/replyTo, timestamps)
// plus a twincodeId and its schemaId.
type PushTwincodeIQ struct {
	RequestID     int64
	SenderID      wire.UUID
	SequenceID    int64
	SendTo        *wire.UUID
	ReplyTo       *ReplyTo
	Created       int64
	Sent          int64
	ExpireTimeout int64
	TwincodeID    wire.UUID
	SchemaID      wire.UUID
	CopyAllowed   bool
}

func EncodePushTwincode(requestID int64, v PushTwincodeIQ) ([]byte, error) {
	e := wire.NewEncoder()
	if err := iq.WriteHeader(e, iq.Header{SchemaID: PushTwincodeSchemaID, SchemaVersion: 2, RequestID: requestID}); err != nil {
		return nil, err
	}
	if err := e.WriteUUID(v.SenderID); err != nil {
		return nil, err
	}
	if err := e.WriteLong(v.SequenceID); err != nil {
		return nil, err
	}
	if err := e.WriteOptionalUUID(v.SendTo); err != nil {
		return nil, err
	}
	if err := writeOptionalReplyTo(e, v.ReplyTo); err != nil {
		return nil, err
	}
	if err := e.WriteLong(v.Created); err != nil {
		return nil, err
	}
	if err := e.WriteLong(v.Sent); err != nil {
		return nil, err
	}
	if err := e.WriteLong(v.ExpireTimeout); err != nil {
		return nil, err
	}
	if err := e.WriteUUID(v.TwincodeID); err != nil {
		return nil, err
	}
	if err := e.WriteUUID(v.SchemaID); err != nil {
		return nil, err
	}
	if err := e.WriteBool(v.CopyAllowed); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

func DecodePushTwincode(d *wire.Decoder, h iq.Header) (any, error) {
	v := PushTwincodeIQ{RequestID: h.RequestID}
	var err error
	if v.SenderID, err = d.ReadUUID(); err != nil {
		return nil, err
	}
	if v.SequenceID, err = d.ReadLong(); err != nil {
		return nil, err
	}
	if v.SendTo, err = d.ReadOptionalUUID(); err != nil {
		return nil, err
	}
	if v.ReplyTo, err = readOptionalReplyTo(d); err != nil {
		return nil, err
	}
	if v.Created, err = d.ReadLong(); err != nil {
		return nil, err
	}
	if v.Sent, err = d.ReadLong(); err != nil {
		return nil, err
	}
	if v.ExpireTimeout, err = d.ReadLong(); err != nil {
		return nil, err
	}
	if v.TwincodeID, err = d.ReadUUID(); err != nil {
		return nil, err
	}
	if v.SchemaID, err = d.ReadUUID(); err != nil {
		return nil, err
	}
	if v.CopyAllowed, err = d.ReadBool(); err != nil {
		return nil, err
	}
	return v, nil
}

// OnPushIQ acks either a PushObjectIQ (schema v3) or a PushTwincodeIQ
// (schema v2); both share the same field layout.
type OnPushIQ struct {
	RequestID         int64
	DeviceState       int32
	ReceivedTimestamp int64
}

func encodeOnPush(schemaID wire.UUID, version int32, requestID int64, v OnPushIQ) ([]byte, error) {
	e := wire.NewEncoder()
	if err := iq.WriteHeader(e, iq.Header{SchemaID: schemaID, SchemaVersion: version, RequestID: requestID}); err != nil {
		return nil, err
	}
	if err := e.WriteInt(v.DeviceState); err != nil {
		return nil, err
	}
	if err := e.WriteLong(v.ReceivedTimestamp); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

func EncodeOnPushObject(requestID int64, v OnPushIQ) ([]byte, error) {
	return encodeOnPush(OnPushObjectSchemaID, 3, requestID, v)
}

func EncodeOnPushTwincode(requestID int64, v OnPushIQ) ([]byte, error) {
	return encodeOnPush(OnPushTwincodeSchemaID, 2, requestID, v)
}

func DecodeOnPush(d *wire.Decoder, h iq.Header) (any, error) {
	v := OnPushIQ{RequestID: h.RequestID}
	var err error
	if v.DeviceState, err = d.ReadInt(); err != nil {
		return nil, err
	}
	if v.ReceivedTimestamp, err = d.ReadLong(); err != nil {
		return nil, err
	}
	return v, nil
}
