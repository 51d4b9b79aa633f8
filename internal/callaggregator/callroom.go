package callaggregator

import "github.com/twinlife/callcore/internal/signaling"

// InviteCallRoom requests the gateway create the room backing this Call's
// group session, idempotently: a given Call invites at most once (§3
// invariant 6).
func (c *Call) InviteCallRoom(twincodeOutboundID string, maxMemberCount int) bool {
	if !c.flags.trySet(FlagInviteCallRoom) {
		return false
	}
	return c.cfg.Transport.Send(signaling.InviteCallRoom{
		Msg:                "invite-call-room",
		TwincodeOutboundID: twincodeOutboundID,
		CallRoomID:         c.cfg.RoomID,
		MaxMemberCount:     maxMemberCount,
	})
}
