package convo

import "github.com/twinlife/callcore/pkg/iq"

// Handlers holds one callback per conversation IQ kind. A nil field means
// that kind is not registered for this session — the registry then drops
// frames of that schema as unknown.
type Handlers struct {
	OnParticipantInfo     func(ParticipantInfoIQ)
	OnParticipantTransfer func(ParticipantTransferIQ)
	OnPrepareTransfer     func(PrepareTransferIQ)
	OnOnPrepareTransfer   func(OnPrepareTransferIQ)
	OnTransferDone        func(TransferDoneIQ)
	OnPushObject          func(PushObjectIQ)
	OnPushTwincode        func(PushTwincodeIQ)
	OnPushObjectAck       func(OnPushIQ)
	OnPushTwincodeAck     func(OnPushIQ)
}

// Register wires each non-nil handler into reg under its canonical schema
// key.
func Register(reg *iq.Registry, h Handlers) {
	if h.OnParticipantInfo != nil {
		reg.Register(iq.SchemaKey{SchemaID: ParticipantInfoSchemaID, SchemaVersion: 1}, DecodeParticipantInfo,
			func(msg any) { h.OnParticipantInfo(msg.(ParticipantInfoIQ)) })
	}
	if h.OnParticipantTransfer != nil {
		reg.Register(iq.SchemaKey{SchemaID: ParticipantTransferSchemaID, SchemaVersion: 1}, DecodeParticipantTransfer,
			func(msg any) { h.OnParticipantTransfer(msg.(ParticipantTransferIQ)) })
	}
	if h.OnPrepareTransfer != nil {
		reg.Register(iq.SchemaKey{SchemaID: PrepareTransferSchemaID, SchemaVersion: 1}, DecodePrepareTransfer,
			func(msg any) { h.OnPrepareTransfer(msg.(PrepareTransferIQ)) })
	}
	if h.OnOnPrepareTransfer != nil {
		reg.Register(iq.SchemaKey{SchemaID: OnPrepareTransferSchemaID, SchemaVersion: 1}, DecodeOnPrepareTransfer,
			func(msg any) { h.OnOnPrepareTransfer(msg.(OnPrepareTransferIQ)) })
	}
	if h.OnTransferDone != nil {
		reg.Register(iq.SchemaKey{SchemaID: TransferDoneSchemaID, SchemaVersion: 1}, DecodeTransferDone,
			func(msg any) { h.OnTransferDone(msg.(TransferDoneIQ)) })
	}
	if h.OnPushObject != nil {
		reg.Register(iq.SchemaKey{SchemaID: PushObjectSchemaID, SchemaVersion: 5}, DecodePushObject,
			func(msg any) { h.OnPushObject(msg.(PushObjectIQ)) })
	}
	if h.OnPushTwincode != nil {
		reg.Register(iq.SchemaKey{SchemaID: PushTwincodeSchemaID, SchemaVersion: 2}, DecodePushTwincode,
			func(msg any) { h.OnPushTwincode(msg.(PushTwincodeIQ)) })
	}
	if h.OnPushObjectAck != nil {
		reg.Register(iq.SchemaKey{SchemaID: OnPushObjectSchemaID, SchemaVersion: 3}, DecodeOnPush,
			func(msg any) { h.OnPushObjectAck(msg.(OnPushIQ)) })
	}
	if h.OnPushTwincodeAck != nil {
		reg.Register(iq.SchemaKey{SchemaID: OnPushTwincodeSchemaID, SchemaVersion: 2}, DecodeOnPush,
			func(msg any) { h.OnPushTwincodeAck(msg.(OnPushIQ)) })
	}
}
