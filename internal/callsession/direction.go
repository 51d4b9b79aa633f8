package callsession

import (
	"github.com/pion/webrtc/v4"

	"github.com/twinlife/callcore/internal/media"
)

// SetAudioDirection changes the local audio direction, renegotiating if
// the transceiver's current direction differs (§4.4.6).
func (s *Session) SetAudioDirection(d webrtc.RTPTransceiverDirection) {
	s.setAudioDirection(d)
}

// SetVideoDirection changes the local video direction, renegotiating if
// the transceiver's current direction differs (§4.4.6).
func (s *Session) SetVideoDirection(d webrtc.RTPTransceiverDirection) {
	s.setVideoDirection(d)
}

// ReplaceVideoTrack swaps (or adds) the video track supplied by src,
// idempotent if it is already attached (§4.4.6).
func (s *Session) ReplaceVideoTrack(src media.TrackSource) error {
	if err := s.replaceVideoTrack(src.Track()); err != nil {
		return err
	}
	s.mu.Lock()
	s.videoSource = src
	s.mu.Unlock()
	return nil
}

// applyDirectionsToTracks pushes the stored audio/video directions onto
// the peer connection's tracks, done once on first connect (§4.4.5).
func (s *Session) applyDirectionsToTracks() {
	s.setAudioDirection(s.audioDirection)
	s.setVideoDirection(s.videoDirection)
}

// setAudioDirection implements §4.4.6 for the audio transceiver.
func (s *Session) setAudioDirection(d webrtc.RTPTransceiverDirection) {
	s.setDirection(webrtc.RTPCodecTypeAudio, d)
}

// setVideoDirection implements §4.4.6 for the video transceiver.
func (s *Session) setVideoDirection(d webrtc.RTPTransceiverDirection) {
	s.setDirection(webrtc.RTPCodecTypeVideo, d)
}

func (s *Session) setDirection(kind webrtc.RTPCodecType, d webrtc.RTPTransceiverDirection) {
	s.mu.Lock()
	if kind == webrtc.RTPCodecTypeAudio {
		s.audioDirection = d
	} else {
		s.videoDirection = d
	}
	connected := s.peerConnected
	var src media.TrackSource
	if kind == webrtc.RTPCodecTypeAudio {
		src = s.audioSource
	} else {
		src = s.videoSource
	}
	s.mu.Unlock()

	if connected && src != nil {
		src.SetEnabled(d == webrtc.RTPTransceiverDirectionSendrecv)
	}

	sender := s.findTransceiver(kind)
	if sender == nil {
		return
	}

	if sender.CurrentDirection() != webrtc.RTPTransceiverDirectionStopped && sender.CurrentDirection() != d {
		if s.cfg.Observer != nil {
			s.cfg.Observer.OnRenegotiationNeeded()
		}
		_ = sender.SetDirection(d)
	}

	if d == webrtc.RTPTransceiverDirectionSendrecv || d == webrtc.RTPTransceiverDirectionSendonly {
		// keep whatever track is already attached; replacement is the
		// caller's job via replaceVideoTrack/addVideoTrack.
		return
	}
	_ = sender.Sender().ReplaceTrack(nil)
}

// findTransceiver locates the first transceiver whose receiver track kind
// matches kind and whose current direction is not stopped (§4.4.6 step 3).
func (s *Session) findTransceiver(kind webrtc.RTPCodecType) *webrtc.RTPTransceiver {
	for _, t := range s.pc.GetTransceivers() {
		if t.CurrentDirection() == webrtc.RTPTransceiverDirectionStopped {
			continue
		}
		if t.Receiver() != nil && t.Kind() == kind {
			return t
		}
	}
	return nil
}

// replaceVideoTrack replaces the track on the sole video transceiver,
// adding one if none exists yet; idempotent if already the current track
// (§4.4.6).
func (s *Session) replaceVideoTrack(track webrtc.TrackLocal) error {
	t := s.findTransceiver(webrtc.RTPCodecTypeVideo)
	if t == nil {
		if _, err := s.pc.AddTrack(track); err != nil {
			return err
		}
		if s.cfg.Observer != nil {
			s.cfg.Observer.OnRenegotiationNeeded()
		}
		return nil
	}
	if t.Sender().Track() == track {
		return nil
	}
	return t.Sender().ReplaceTrack(track)
}
