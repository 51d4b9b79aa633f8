// Package media declares the narrow hand-off interfaces between a Peer
// Session and the media engine (track capture, RTP encode/decode,
// renderer wiring), which is explicitly out of scope (§1): the core only
// ever holds Pion's local/remote track handles and never touches a
// camera, microphone, or renderer.
package media

import "github.com/pion/webrtc/v4"

// TrackSource supplies a local track to add to a peer connection. The host
// application implements this over its capture pipeline.
type TrackSource interface {
	// Track returns the local track to publish. Called once when the
	// session is ready to add media.
	Track() webrtc.TrackLocal
	// Kind reports whether this source is audio or video.
	Kind() webrtc.RTPCodecType
	// SetEnabled gates whether captured samples are actually sent, without
	// tearing down the transceiver or track. The session calls this when
	// the local direction changes on a connected peer connection.
	SetEnabled(enabled bool)
}

// TrackSink receives a remote track added by the peer. The host
// application implements this over its render pipeline.
type TrackSink interface {
	OnTrack(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver)
}
