package domain

import "strings"

// ChannelPolicy classifies a requested channel name into exactly one
// authorization policy. Channels are not persisted; the policy is derived
// from the name prefix on every authorization request.
type ChannelPolicy int

const (
	// ChannelPublic is any channel without a recognized prefix. The gate
	// refuses to sign grants for these: public channels need no grant at
	// all, so asking for one is a client protocol error.
	ChannelPublic ChannelPolicy = iota
	// ChannelPrivate requires an authenticated user; the grant covers only
	// the socket id and channel name.
	ChannelPrivate
	// ChannelPresence requires an authenticated user and embeds a presence
	// descriptor built from that user into the grant.
	ChannelPresence
)

const (
	privateChannelPrefix  = "private-"
	presenceChannelPrefix = "presence-"
)

// ClassifyChannel derives the policy for a channel name. The prefixes are
// distinct literals, so a name can never match more than one policy.
func ClassifyChannel(name string) ChannelPolicy {
	switch {
	case strings.HasPrefix(name, privateChannelPrefix):
		return ChannelPrivate
	case strings.HasPrefix(name, presenceChannelPrefix):
		return ChannelPresence
	default:
		return ChannelPublic
	}
}

func (p ChannelPolicy) String() string {
	switch p {
	case ChannelPrivate:
		return "private"
	case ChannelPresence:
		return "presence"
	default:
		return "public"
	}
}

// PresenceDescriptor is the member payload embedded in presence-channel
// grants. It is constructed fresh from the validated user on every
// authorization call and never stored.
type PresenceDescriptor struct {
	UserID   string
	UserInfo map[string]string
}

// NewPresenceDescriptor builds the descriptor the gate attaches to presence
// grants: user_id plus the id/email/firstName/lastName profile fields.
func NewPresenceDescriptor(user *User) PresenceDescriptor {
	return PresenceDescriptor{
		UserID: user.ID,
		UserInfo: map[string]string{
			"id":        user.ID,
			"email":     user.Email,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
		},
	}
}
