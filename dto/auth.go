// Package dto holds the request and response shapes of the relay's HTTP
// surface.
package dto

// ChannelAuthRequest is the body of POST /api/pusher/auth, as sent by the
// Pusher client library's authorizer.
type ChannelAuthRequest struct {
	SocketID    string `json:"socket_id" validate:"required"`
	ChannelName string `json:"channel_name" validate:"required"`
}
