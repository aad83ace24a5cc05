// Package echo exposes the relay's HTTP surface.
package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/skyline-media/realtime-relay/dto"
	"github.com/skyline-media/realtime-relay/errors"
	"github.com/skyline-media/realtime-relay/middleware"
	"github.com/skyline-media/realtime-relay/services"
)

// RelayAPI holds the handler dependencies.
type RelayAPI struct {
	authorizer *services.ChannelAuthorizer
	events     *services.EventService
	validator  services.TokenValidator
}

// NewRelayAPI initializes the relay API.
func NewRelayAPI(
	authorizer *services.ChannelAuthorizer,
	events *services.EventService,
	validator services.TokenValidator,
) *RelayAPI {
	return &RelayAPI{
		authorizer: authorizer,
		events:     events,
		validator:  validator,
	}
}

// RegisterRoutes registers the relay routes. The events group sits behind
// the bearer-token guard; the pusher auth endpoint handles its (optional)
// token itself.
func (api *RelayAPI) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/pusher/auth", api.ChannelAuthHandler)

	events := e.Group("/api/events", middleware.RequireAuth(api.validator))
	events.POST("/trigger", api.TriggerHandler)
	events.POST("/trigger-batch", api.TriggerBatchHandler)
	events.GET("/channels", api.ChannelsHandler)
}

// relayError writes the error taxonomy mapping: 401 for authentication and
// authorization failures, 400 for validation, 500 otherwise, with the
// error's message as the body.
func relayError(c echo.Context, err error) error {
	if re, ok := errors.AsRelayError(err); ok {
		return c.JSON(errors.HTTPStatus(err), echo.Map{"message": re.Message})
	}
	log.Error().Err(err).Msg("unclassified handler error")
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
}

// ChannelAuthHandler handles POST /api/pusher/auth. The bearer token is
// optional: anonymous requests are legal for the endpoint and fail only when
// the channel policy demands identity. The provider SDK's response is passed
// through verbatim.
func (api *RelayAPI) ChannelAuthHandler(c echo.Context) error {
	var req dto.ChannelAuthRequest
	if err := c.Bind(&req); err != nil {
		return relayError(c, errors.NewValidationError("socket_id and channel_name are required"))
	}
	if err := c.Validate(&req); err != nil {
		return relayError(c, errors.NewValidationError("socket_id and channel_name are required"))
	}

	token := middleware.BearerToken(c)

	grant, err := api.authorizer.AuthorizeChannel(c.Request().Context(), req.SocketID, req.ChannelName, token)
	if err != nil {
		return relayError(c, err)
	}

	return c.JSONBlob(http.StatusOK, grant)
}

// TriggerHandler handles POST /api/events/trigger (guarded).
func (api *RelayAPI) TriggerHandler(c echo.Context) error {
	var req dto.TriggerEventRequest
	if err := c.Bind(&req); err != nil {
		return relayError(c, errors.NewValidationError("channel and event are required"))
	}
	if err := c.Validate(&req); err != nil {
		return relayError(c, errors.NewValidationError("channel and event are required"))
	}

	userID := ""
	if user, ok := middleware.UserFromContext(c); ok {
		userID = user.ID
	}

	if err := api.events.TriggerEvent(c.Request().Context(), userID, req.Channel, req.Event, req.Data); err != nil {
		return relayError(c, err)
	}

	return c.JSON(http.StatusOK, dto.TriggerEventResponse{
		Success: true,
		Message: "Event triggered successfully",
		Channel: req.Channel,
		Event:   req.Event,
	})
}

// TriggerBatchHandler handles POST /api/events/trigger-batch (guarded).
func (api *RelayAPI) TriggerBatchHandler(c echo.Context) error {
	var req dto.TriggerBatchRequest
	if err := c.Bind(&req); err != nil {
		return relayError(c, errors.NewValidationError("events must be a non-empty list with channel and event"))
	}
	if err := c.Validate(&req); err != nil {
		return relayError(c, errors.NewValidationError("events must be a non-empty list with channel and event"))
	}

	userID := ""
	if user, ok := middleware.UserFromContext(c); ok {
		userID = user.ID
	}

	batch := req.ToDomain()
	if err := api.events.TriggerBatch(c.Request().Context(), userID, batch); err != nil {
		return relayError(c, err)
	}

	return c.JSON(http.StatusOK, dto.TriggerBatchResponse{
		Success: true,
		Message: "Events triggered successfully",
		Count:   len(batch),
	})
}

// ChannelsHandler handles GET /api/events/channels (guarded). The list is
// static.
func (api *RelayAPI) ChannelsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.ChannelsResponse{
		Channels: api.events.ChannelPatterns(),
		Message:  "Available channel patterns",
	})
}
