// Package realtime wraps the Pusher Channels server SDK behind narrow
// interfaces so the authorization gate and the trigger facade can be tested
// without provider credentials.
package realtime

import (
	"context"
	"net/url"

	pusher "github.com/pusher/pusher-http-go/v5"

	"github.com/skyline-media/realtime-relay/config"
	"github.com/skyline-media/realtime-relay/domain"
)

// ChannelSigner produces signed authorization grants for private and
// presence channels. Signing is a local HMAC over the socket id and channel
// name (plus the presence payload); it involves no network round trip.
type ChannelSigner interface {
	AuthorizePrivateChannel(socketID, channelName string) ([]byte, error)
	AuthorizePresenceChannel(socketID, channelName string, member domain.PresenceDescriptor) ([]byte, error)
}

// EventPublisher publishes application events onto named channels.
type EventPublisher interface {
	Trigger(ctx context.Context, channel, eventName string, data interface{}) error
	TriggerBatch(ctx context.Context, events []domain.EventMessage) error
}

// Client is the process-wide Pusher handle. It is constructed once at
// startup and safe for concurrent use; the underlying SDK client keeps no
// per-call state.
type Client struct {
	pc pusher.Client
}

// NewClient builds the provider client from validated configuration.
func NewClient(cfg *config.ServerConfig) *Client {
	return &Client{
		pc: pusher.Client{
			AppID:   cfg.PusherAppID,
			Key:     cfg.PusherKey,
			Secret:  cfg.PusherSecret,
			Cluster: cfg.PusherCluster,
			Secure:  true,
		},
	}
}

// authParams encodes the request body shape the SDK's authorize primitives
// parse: socket_id and channel_name as form values.
func authParams(socketID, channelName string) []byte {
	values := url.Values{}
	values.Set("socket_id", socketID)
	values.Set("channel_name", channelName)
	return []byte(values.Encode())
}

// AuthorizePrivateChannel signs a private-channel grant over exactly the
// socket id and channel name.
func (c *Client) AuthorizePrivateChannel(socketID, channelName string) ([]byte, error) {
	return c.pc.AuthorizePrivateChannel(authParams(socketID, channelName))
}

// AuthorizePresenceChannel signs a presence-channel grant carrying the
// member descriptor.
func (c *Client) AuthorizePresenceChannel(socketID, channelName string, member domain.PresenceDescriptor) ([]byte, error) {
	return c.pc.AuthorizePresenceChannel(authParams(socketID, channelName), pusher.MemberData{
		UserID:   member.UserID,
		UserInfo: member.UserInfo,
	})
}

// Trigger publishes one event. The context is accepted for interface
// symmetry; the SDK manages its own HTTP timeouts.
func (c *Client) Trigger(_ context.Context, channel, eventName string, data interface{}) error {
	return c.pc.Trigger(channel, eventName, data)
}

// TriggerBatch publishes an ordered batch through the provider's batch
// endpoint. Partial-failure semantics are whatever the provider does.
func (c *Client) TriggerBatch(_ context.Context, events []domain.EventMessage) error {
	batch := make([]pusher.Event, 0, len(events))
	for _, e := range events {
		batch = append(batch, pusher.Event{
			Channel: e.Channel,
			Name:    e.Name,
			Data:    e.Data,
		})
	}
	_, err := c.pc.TriggerBatch(batch)
	return err
}

// Interface compliance
var (
	_ ChannelSigner  = (*Client)(nil)
	_ EventPublisher = (*Client)(nil)
)
