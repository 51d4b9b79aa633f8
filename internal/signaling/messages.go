// Package signaling implements the Signaling Transport (C3): a full-duplex
// JSON message channel to the gateway with keepalive, reconnect, and a
// stable client identity that survives reconnection.
package signaling

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// TerminateReason mirrors the exit-code-equivalent reasons in §6.1.
type TerminateReason string

const (
	ReasonBusy              TerminateReason = "busy"
	ReasonCancel            TerminateReason = "cancel"
	ReasonConnectivityError TerminateReason = "connectivity-error"
	ReasonDecline           TerminateReason = "decline"
	ReasonDisconnected      TerminateReason = "disconnected"
	ReasonGeneralError      TerminateReason = "general-error"
	ReasonGone              TerminateReason = "gone"
	ReasonRevoked           TerminateReason = "revoked"
	ReasonSuccess           TerminateReason = "success"
	ReasonExpired           TerminateReason = "expired"
	ReasonNotAuthorized     TerminateReason = "not-authorized"
	ReasonTransferDone      TerminateReason = "transfer-done"
	ReasonSchedule          TerminateReason = "schedule"
	ReasonUnknown           TerminateReason = "unknown"
)

// InitiateStatus is the status field of a session-initiate-response.
type InitiateStatus string

const (
	StatusSuccess      InitiateStatus = "success"
	StatusNotAuthorized InitiateStatus = "not-authorized"
	StatusGone         InitiateStatus = "gone"
	StatusSchedule     InitiateStatus = "schedule"
)

// Envelope is the outer JSON shell: the "msg" discriminator is peeked
// before the typed body is unmarshalled, per §6.1 "parses the
// discriminator first, then the fully-typed body".
type Envelope struct {
	Msg string
	Raw []byte
}

// ParseEnvelope extracts the "msg" discriminator without unmarshalling the
// rest of the payload.
func ParseEnvelope(raw []byte) (Envelope, bool) {
	res := gjson.GetBytes(raw, "msg")
	if !res.Exists() {
		return Envelope{}, false
	}
	return Envelope{Msg: res.String(), Raw: raw}, true
}

// Decode unmarshals the envelope's raw bytes into v.
func (e Envelope) Decode(v any) error {
	return json.Unmarshal(e.Raw, v)
}

// SessionRequest is the first frame sent after the socket opens.
type SessionRequest struct {
	Msg       string `json:"msg"`
	SessionID string `json:"session-id"`
}

// TurnServer describes one ICE relay/STUN server handed out at negotiation.
type TurnServer struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionConfig is the only frame accepted while NEGOTIATING.
type SessionConfig struct {
	Msg                   string       `json:"msg"`
	TurnServers           []TurnServer `json:"turnServers"`
	MaxSendFrameSize      int          `json:"maxSendFrameSize"`
	MaxSendFrameRate      int          `json:"maxSendFrameRate"`
	MaxReceivedFrameSize  int          `json:"maxReceivedFrameSize"`
	MaxReceivedFrameRate  int          `json:"maxReceivedFrameRate"`
}

// Offer is the capability advertisement carried with session-initiate and
// session-accept (§3).
type Offer struct {
	Audio    bool   `json:"audio"`
	Video    bool   `json:"video"`
	Data     bool   `json:"data"`
	Group    *bool  `json:"group,omitempty"`
	Transfer *bool  `json:"transfer,omitempty"`
	Version  string `json:"version"`
}

// SupportsGroup reports group capability: explicit when present, else
// derived from version.major >= 2 per §3.
func (o Offer) SupportsGroup() bool {
	if o.Group != nil {
		return *o.Group
	}
	major, _ := parseMajor(o.Version)
	return major >= 2
}

func parseMajor(version string) (int, bool) {
	major := 0
	i := 0
	for i < len(version) && version[i] != '.' {
		if version[i] < '0' || version[i] > '9' {
			return 0, false
		}
		major = major*10 + int(version[i]-'0')
		i++
	}
	if i == 0 {
		return 0, false
	}
	return major, true
}

// SessionInitiate is sent to invite a peer into a new session.
type SessionInitiate struct {
	Msg             string `json:"msg"`
	To              string `json:"to"`
	From            string `json:"from,omitempty"`
	SDP             string `json:"sdp"`
	SessionID       string `json:"sessionId,omitempty"`
	Offer           Offer  `json:"offer"`
	OfferToReceive  Offer  `json:"offerToReceive"`
	MaxFrameSize    int    `json:"maxFrameSize"`
	MaxFrameRate    int    `json:"maxFrameRate"`
}

// SessionInitiateResponse reports the outcome of a SessionInitiate and
// assigns the gateway session id.
type SessionInitiateResponse struct {
	Msg       string         `json:"msg"`
	To        string         `json:"to"`
	SessionID string         `json:"sessionId"`
	Status    InitiateStatus `json:"status"`
}

// SessionAccept answers an incoming session-initiate.
type SessionAccept struct {
	Msg            string `json:"msg"`
	SessionID      string `json:"sessionId"`
	To             string `json:"to"`
	SDP            string `json:"sdp"`
	Offer          Offer  `json:"offer"`
	OfferToReceive Offer  `json:"offerToReceive"`
}

// UpdateType discriminates SessionUpdate bodies.
type UpdateType string

const (
	UpdateOffer  UpdateType = "offer"
	UpdateAnswer UpdateType = "answer"
)

// SessionUpdate carries a renegotiation offer or answer.
type SessionUpdate struct {
	Msg        string     `json:"msg"`
	SessionID  string     `json:"sessionId"`
	UpdateType UpdateType `json:"updateType"`
	SDP        string     `json:"sdp"`
}

// Candidate is one ICE candidate as carried on transport-info.
type Candidate struct {
	Candidate     string `json:"candidate"`
	SDPMid        string `json:"sdpMid"`
	SDPMLineIndex int    `json:"sdpMLineIndex"`
	Removed       bool   `json:"removed"`
}

// TransportInfo carries one or more trickled ICE candidates.
type TransportInfo struct {
	Msg        string      `json:"msg"`
	SessionID  string      `json:"sessionId"`
	Candidates []Candidate `json:"candidates"`
}

// SessionTerminate ends a session with a reason.
type SessionTerminate struct {
	Msg       string          `json:"msg"`
	SessionID string          `json:"sessionId"`
	Reason    TerminateReason `json:"reason"`
}

// InviteCallRoom requests the gateway create a call room.
type InviteCallRoom struct {
	Msg                string `json:"msg"`
	SessionID          string `json:"sessionId"`
	TwincodeOutboundID string `json:"twincodeOutboundId"`
	CallRoomID         string `json:"callRoomId"`
	Mode               int    `json:"mode"`
	MaxMemberCount     int    `json:"maxMemberCount"`
}

// MemberStatus is the per-member status in a JoinCallRoom roster.
type MemberStatus string

const (
	MemberNew         MemberStatus = "member-new"
	MemberNeedSession MemberStatus = "member-need-session"
	MemberDelete      MemberStatus = "member-delete"
)

// RoomMember is one entry in a JoinCallRoom roster.
type RoomMember struct {
	Status    MemberStatus `json:"status"`
	MemberID  string       `json:"memberId"`
	SessionID string       `json:"sessionId,omitempty"`
}

// JoinCallRoom reports the current room roster.
type JoinCallRoom struct {
	Msg        string       `json:"msg"`
	CallRoomID string       `json:"callRoomId"`
	SessionID  string       `json:"sessionId"`
	MemberID   string       `json:"memberId"`
	Members    []RoomMember `json:"members"`
}

// MemberJoin announces a single member joining.
type MemberJoin struct {
	Msg       string       `json:"msg"`
	SessionID string       `json:"sessionId,omitempty"`
	MemberID  string       `json:"memberId"`
	Status    MemberStatus `json:"status"`
}

// DeviceRinging notifies that the remote device is ringing.
type DeviceRinging struct {
	Msg       string `json:"msg"`
	SessionID string `json:"sessionId,omitempty"`
}

// Ping/Pong are the keepalive frames.
type Ping struct {
	Msg string `json:"msg"`
}
type Pong struct {
	Msg string `json:"msg"`
}
