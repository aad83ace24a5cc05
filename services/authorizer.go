package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/skyline-media/realtime-relay/domain"
	"github.com/skyline-media/realtime-relay/errors"
	"github.com/skyline-media/realtime-relay/internal/audit"
	"github.com/skyline-media/realtime-relay/internal/metrics"
	"github.com/skyline-media/realtime-relay/realtime"
)

// ChannelAuthorizer decides whether a client connection may join a channel
// and, if so, produces the signed grant.
type ChannelAuthorizer struct {
	validator TokenValidator
	signer    realtime.ChannelSigner
}

// NewChannelAuthorizer creates a ChannelAuthorizer.
func NewChannelAuthorizer(validator TokenValidator, signer realtime.ChannelSigner) *ChannelAuthorizer {
	return &ChannelAuthorizer{
		validator: validator,
		signer:    signer,
	}
}

// AuthorizeChannel resolves the caller's identity, classifies the channel by
// prefix, and applies that policy. token is the raw bearer value with any
// "Bearer " prefix already stripped; empty string means no token was
// supplied.
//
// Identity resolution runs first, unconditionally: a supplied token that
// fails validation is fatal for the whole request, even when the target is a
// public channel. Unprefixed channel names are always refused — public
// channels need no signed grant, so requesting one is a client protocol
// error.
func (a *ChannelAuthorizer) AuthorizeChannel(ctx context.Context, socketID, channelName, token string) ([]byte, error) {
	var user *domain.User
	if token != "" {
		validated, err := a.validator.ValidateToken(ctx, token)
		if err != nil {
			audit.Log("ChannelAuthorizer", "Authorize", "", channelName, "token validation failed", false, err)
			return nil, err
		}
		user = validated
	}

	policy := domain.ClassifyChannel(channelName)

	switch policy {
	case domain.ChannelPrivate:
		if user == nil {
			return nil, a.refuse(policy, "", channelName, "Authentication required for private channels")
		}
		grant, err := a.signer.AuthorizePrivateChannel(socketID, channelName)
		if err != nil {
			return nil, a.signerFailed(policy, user.ID, channelName, err)
		}
		return a.granted(policy, user.ID, channelName, grant), nil

	case domain.ChannelPresence:
		if user == nil {
			// Presence channels reuse the private-channel wording; there is
			// no distinct message for them.
			return nil, a.refuse(policy, "", channelName, "Authentication required for private channels")
		}
		member := domain.NewPresenceDescriptor(user)
		grant, err := a.signer.AuthorizePresenceChannel(socketID, channelName, member)
		if err != nil {
			return nil, a.signerFailed(policy, user.ID, channelName, err)
		}
		return a.granted(policy, user.ID, channelName, grant), nil

	default:
		userID := ""
		if user != nil {
			userID = user.ID
		}
		return nil, a.refuse(policy, userID, channelName, "Public channels do not require authentication")
	}
}

func (a *ChannelAuthorizer) granted(policy domain.ChannelPolicy, userID, channelName string, grant []byte) []byte {
	metrics.ChannelAuthSuccessTotal.WithLabelValues(policy.String()).Inc()
	audit.Log("ChannelAuthorizer", "Authorize", userID, channelName, "grant issued", true, nil)
	log.Debug().
		Str("channel", channelName).
		Str("policy", policy.String()).
		Str("userID", userID).
		Msg("channel authorization granted")
	return grant
}

func (a *ChannelAuthorizer) refuse(policy domain.ChannelPolicy, userID, channelName, message string) error {
	err := errors.NewAuthorizationError(message)
	metrics.ChannelAuthFailureTotal.WithLabelValues(policy.String()).Inc()
	audit.Log("ChannelAuthorizer", "Authorize", userID, channelName, "grant refused", false, err)
	return err
}

func (a *ChannelAuthorizer) signerFailed(policy domain.ChannelPolicy, userID, channelName string, cause error) error {
	err := errors.NewInfrastructureError("failed to sign channel authorization", cause)
	metrics.ChannelAuthFailureTotal.WithLabelValues(policy.String()).Inc()
	audit.Log("ChannelAuthorizer", "Authorize", userID, channelName, "signer failure", false, cause)
	log.Error().Err(cause).Str("channel", channelName).Msg("channel authorization signing failed")
	return err
}
