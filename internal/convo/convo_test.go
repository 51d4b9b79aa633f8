package convo

import (
	"testing"

	"github.com/twinlife/callcore/pkg/iq"
	"github.com/twinlife/callcore/pkg/wire"
)

func TestParticipantInfoRoundTrip(t *testing.T) {
	desc := "hello there"
	frame, err := EncodeParticipantInfo(1, ParticipantInfoIQ{
		MemberID:    "m1",
		Name:        "Alice",
		Description: &desc,
		Avatar:      []byte{1, 2, 3},
	})
	if err != nil {
		t.Fatal(err)
	}

	var got ParticipantInfoIQ
	reg := iq.NewRegistry()
	Register(reg, Handlers{OnParticipantInfo: func(v ParticipantInfoIQ) { got = v }})
	if err := reg.Dispatch(frame); err != nil {
		t.Fatal(err)
	}
	if got.MemberID != "m1" || got.Name != "Alice" || got.Description == nil || *got.Description != desc {
		t.Fatalf("got %+v", got)
	}
}

func TestTransferDoneHeaderOnly(t *testing.T) {
	frame, err := EncodeTransferDone(99)
	if err != nil {
		t.Fatal(err)
	}
	var got TransferDoneIQ
	reg := iq.NewRegistry()
	Register(reg, Handlers{OnTransferDone: func(v TransferDoneIQ) { got = v }})
	if err := reg.Dispatch(frame); err != nil {
		t.Fatal(err)
	}
	if got.RequestID != 99 {
		t.Fatalf("got %+v", got)
	}
}

func TestPushObjectRoundTripAndSchemaCheck(t *testing.T) {
	sender := wire.MustParseUUID("00000000-0000-0000-0000-0000000000aa")
	frame, err := EncodePushObject(5, PushObjectIQ{
		SenderID:      sender,
		SequenceID:    10,
		Created:       1000,
		Sent:          1001,
		ExpireTimeout: 0,
		InnerSchemaID: MessageSchemaID,
		InnerVersion:  1,
		Message:       "hi",
		CopyAllowed:   true,
	})
	if err != nil {
		t.Fatal(err)
	}

	var got PushObjectIQ
	reg := iq.NewRegistry()
	Register(reg, Handlers{OnPushObject: func(v PushObjectIQ) { got = v }})
	if err := reg.Dispatch(frame); err != nil {
		t.Fatal(err)
	}
	if !got.IsMessageSchema() || got.Message != "hi" || got.SendTo != nil || got.ReplyTo != nil {
		t.Fatalf("got %+v", got)
	}
}

func TestPushObjectWithReplyToAndSendTo(t *testing.T) {
	sender := wire.MustParseUUID("00000000-0000-0000-0000-0000000000aa")
	sendTo := wire.MustParseUUID("00000000-0000-0000-0000-0000000000bb")
	replyTo := &ReplyTo{SenderID: sendTo, SequenceID: 3}
	frame, err := EncodePushObject(5, PushObjectIQ{
		SenderID:      sender,
		SequenceID:    10,
		SendTo:        &sendTo,
		ReplyTo:       replyTo,
		InnerSchemaID: MessageSchemaID,
		Message:       "hi",
	})
	if err != nil {
		t.Fatal(err)
	}
	var got PushObjectIQ
	reg := iq.NewRegistry()
	Register(reg, Handlers{OnPushObject: func(v PushObjectIQ) { got = v }})
	if err := reg.Dispatch(frame); err != nil {
		t.Fatal(err)
	}
	if got.SendTo == nil || *got.SendTo != sendTo {
		t.Fatalf("SendTo mismatch: %+v", got)
	}
	if got.ReplyTo == nil || *got.ReplyTo != *replyTo {
		t.Fatalf("ReplyTo mismatch: %+v", got)
	}
}

func TestLabelParse(t *testing.T) {
	l := ParseLabel(DataChannelLabel)
	if l.Version != "1.3.0" {
		t.Fatalf("version = %q", l.Version)
	}
	if !l.Has(CapGroup) || !l.Has(CapTransfer) || !l.Has(CapMessage) {
		t.Fatalf("capabilities = %+v", l.Capabilities)
	}
	if l.Has(CapStream) {
		t.Fatal("stream should not be present")
	}
}

func TestLabelParseUnknownCapabilityIgnored(t *testing.T) {
	l := ParseLabel("CallService:1.3.0:group,bogus,message")
	if l.Has(Capability("bogus")) {
		t.Fatal("unknown capability should not be recorded")
	}
	if !l.Has(CapGroup) || !l.Has(CapMessage) {
		t.Fatalf("expected known caps preserved: %+v", l.Capabilities)
	}
}
