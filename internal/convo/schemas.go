// Package convo implements the Conversation IQ Layer (C6): the concrete
// data-channel message types layered on the binary codec (pkg/wire) and
// the schema registry (pkg/iq) — participant identity, transfer lifecycle,
// and message/twincode push with their acks.
package convo

import "github.com/twinlife/callcore/pkg/wire"

// Canonical schema ids. These are fixed by the wire protocol shared with
// existing mobile/desktop peers and MUST NOT change.
var (
	ParticipantInfoSchemaID     = wire.MustParseUUID("a8aa7e0d-c495-4565-89bb-0c5462b54dd0")
	TransferDoneSchemaID        = wire.MustParseUUID("641bf1f6-ebbf-4501-9151-76abc1b9adad")
	PrepareTransferSchemaID     = wire.MustParseUUID("9eaa4ad1-3404-4bcc-875d-dc75c748e188")
	OnPrepareTransferSchemaID   = wire.MustParseUUID("a17516a2-4bd2-4284-9535-726b6eb1a211")
	ParticipantTransferSchemaID = wire.MustParseUUID("800fd629-83c4-4d42-8910-1b4256d19eb8")
	PushObjectSchemaID          = wire.MustParseUUID("26e3a3bd-7db0-4fc5-9857-bbdb2032960e")
	MessageSchemaID             = wire.MustParseUUID("c1ba9e82-43a7-413a-ab9f-b743859e7595")
	OnPushObjectSchemaID        = wire.MustParseUUID("f95ac4b5-d20f-4e1f-8204-6d146dd5291e")
	PushTwincodeSchemaID        = wire.MustParseUUID("72863c61-c0a9-437b-8b88-3b78354e54b8")
	OnPushTwincodeSchemaID      = wire.MustParseUUID("e6726692-8fe6-4d29-ae64-ba321d44a247")
)

// DataChannelLabel is the fixed label advertised on the outbound data
// channel: "CallService:<version>:<cap>,<cap>,...".
const DataChannelLabel = "CallService:1.3.0:group,transfer,message"
