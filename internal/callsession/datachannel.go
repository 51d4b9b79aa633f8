package callsession

import (
	"github.com/pion/webrtc/v4"

	"github.com/twinlife/callcore/internal/convo"
	"github.com/twinlife/callcore/internal/option"
)

// wireOutboundDataChannel arranges for ParticipantInfoIQ to be pushed the
// moment our own channel opens (§4.4.7).
func (s *Session) wireOutboundDataChannel(dc *webrtc.DataChannel) {
	dc.OnOpen(func() {
		s.sendParticipantInfo()
	})
}

func (s *Session) sendParticipantInfo() {
	if s.cfg.Identity == nil {
		return
	}
	frame, err := convo.EncodeParticipantInfo(s.nextRequestID(), convo.ParticipantInfoIQ{
		MemberID: s.cfg.MemberID,
		Name:     s.cfg.Identity.Name(),
		Avatar:   s.cfg.Identity.Avatar(),
	})
	if err != nil {
		s.cfg.Log.Printf("encode ParticipantInfoIQ error: %v", err)
		return
	}
	s.sendFrame(frame)
}

// handleInboundDataChannel wires the peer-created channel, parsing its
// label's capability list into messageSupported (§4.4.7).
func (s *Session) handleInboundDataChannel(dc *webrtc.DataChannel) {
	s.mu.Lock()
	s.inboundDC = dc
	s.mu.Unlock()

	dc.OnOpen(func() {
		label := convo.ParseLabel(dc.Label())
		supported := label.Has(convo.CapMessage)
		s.mu.Lock()
		s.msgSupported = option.Some(supported)
		s.mu.Unlock()
		if s.cfg.Observer != nil {
			s.cfg.Observer.OnSupportsMessages()
		}
	})
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		if err := s.registry.Dispatch(msg.Data); err != nil {
			s.cfg.Log.Printf("dispatch data-channel frame error: %v", err)
		}
	})
}

// sendFrame best-effort writes one binary frame on the outbound channel,
// logging and reporting failure rather than retrying (§4.4.7, §5
// Backpressure).
func (s *Session) sendFrame(data []byte) bool {
	s.mu.Lock()
	dc := s.outboundDC
	s.mu.Unlock()
	if dc == nil || dc.ReadyState() != webrtc.DataChannelStateOpen {
		return false
	}
	if err := dc.Send(data); err != nil {
		s.cfg.Log.Printf("data-channel send error: %v", err)
		return false
	}
	return true
}

// SendParticipantTransfer announces transfer intent to targetMemberID.
func (s *Session) SendParticipantTransfer(targetMemberID string) bool {
	frame, err := convo.EncodeParticipantTransfer(s.nextRequestID(), convo.ParticipantTransferIQ{MemberID: targetMemberID})
	if err != nil {
		s.cfg.Log.Printf("encode ParticipantTransferIQ error: %v", err)
		return false
	}
	return s.sendFrame(frame)
}

// SendPrepareTransfer emits PrepareTransferIQ to the transfer target.
func (s *Session) SendPrepareTransfer() bool {
	frame, err := convo.EncodePrepareTransfer(s.nextRequestID())
	if err != nil {
		s.cfg.Log.Printf("encode PrepareTransferIQ error: %v", err)
		return false
	}
	return s.sendFrame(frame)
}

// SendOnPrepareTransfer replies that the transfer target is ready.
func (s *Session) SendOnPrepareTransfer() bool {
	frame, err := convo.EncodeOnPrepareTransfer(s.nextRequestID())
	if err != nil {
		s.cfg.Log.Printf("encode OnPrepareTransferIQ error: %v", err)
		return false
	}
	return s.sendFrame(frame)
}

// SendTransferDone signals transfer completion.
func (s *Session) SendTransferDone() bool {
	frame, err := convo.EncodeTransferDone(s.nextRequestID())
	if err != nil {
		s.cfg.Log.Printf("encode TransferDoneIQ error: %v", err)
		return false
	}
	return s.sendFrame(frame)
}

// SendPushObject pushes a conversation message descriptor.
func (s *Session) SendPushObject(v convo.PushObjectIQ) bool {
	frame, err := convo.EncodePushObject(s.nextRequestID(), v)
	if err != nil {
		s.cfg.Log.Printf("encode PushObjectIQ error: %v", err)
		return false
	}
	return s.sendFrame(frame)
}

// SendPushTwincode pushes a twincode descriptor.
func (s *Session) SendPushTwincode(v convo.PushTwincodeIQ) bool {
	frame, err := convo.EncodePushTwincode(s.nextRequestID(), v)
	if err != nil {
		s.cfg.Log.Printf("encode PushTwincodeIQ error: %v", err)
		return false
	}
	return s.sendFrame(frame)
}

// registerConvoHandlers forwards every IQ to the observer; pushes are then
// acked with an OnPushIQ stamped with the receive time (§4.6).
func (s *Session) registerConvoHandlers() {
	convo.Register(s.registry, convo.Handlers{
		OnParticipantInfo: func(v convo.ParticipantInfoIQ) {
			if s.cfg.Observer != nil {
				s.cfg.Observer.OnParticipantInfo(v)
			}
		},
		OnParticipantTransfer: func(v convo.ParticipantTransferIQ) {
			s.mu.Lock()
			s.transferToMemberID = option.Some(v.MemberID)
			s.mu.Unlock()
			if s.cfg.Observer != nil {
				s.cfg.Observer.OnTransferIntent(v.MemberID)
			}
		},
		OnPrepareTransfer: func(convo.PrepareTransferIQ) {
			if s.cfg.Observer != nil {
				s.cfg.Observer.OnPrepareTransferRequested()
			}
			s.SendOnPrepareTransfer()
		},
		OnOnPrepareTransfer: func(convo.OnPrepareTransferIQ) {
			if s.cfg.Observer != nil {
				s.cfg.Observer.OnPrepareTransferAcked()
			}
		},
		OnTransferDone: func(convo.TransferDoneIQ) {
			if s.cfg.Observer != nil {
				s.cfg.Observer.OnTransferDone()
			}
		},
		OnPushObject: func(v convo.PushObjectIQ) {
			if s.cfg.Observer != nil {
				s.cfg.Observer.OnPushObject(v)
			}
			s.ackPushObject(v.RequestID)
		},
		OnPushTwincode: func(v convo.PushTwincodeIQ) {
			if s.cfg.Observer != nil {
				s.cfg.Observer.OnPushTwincode(v)
			}
			s.ackPushTwincode(v.RequestID)
		},
	})
}

func (s *Session) ackPushObject(requestID int64) {
	frame, err := convo.EncodeOnPushObject(requestID, convo.OnPushIQ{DeviceState: 0, ReceivedTimestamp: nowMillis()})
	if err != nil {
		s.cfg.Log.Printf("encode OnPushObjectIQ error: %v", err)
		return
	}
	s.sendFrame(frame)
}

func (s *Session) ackPushTwincode(requestID int64) {
	frame, err := convo.EncodeOnPushTwincode(requestID, convo.OnPushIQ{DeviceState: 0, ReceivedTimestamp: nowMillis()})
	if err != nil {
		s.cfg.Log.Printf("encode OnPushTwincodeIQ error: %v", err)
		return
	}
	s.sendFrame(frame)
}
