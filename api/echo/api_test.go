package echo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyline-media/realtime-relay/domain"
	"github.com/skyline-media/realtime-relay/errors"
	"github.com/skyline-media/realtime-relay/services"
)

// --- Stubs ---

type stubValidator struct {
	users map[string]*domain.User // token -> user
}

func (s *stubValidator) ValidateToken(_ context.Context, token string) (*domain.User, error) {
	user, ok := s.users[token]
	if !ok {
		return nil, errors.NewAuthenticationError("Invalid token")
	}
	return user, nil
}

type stubSigner struct {
	signed int
}

func (s *stubSigner) AuthorizePrivateChannel(socketID, channelName string) ([]byte, error) {
	s.signed++
	return []byte(fmt.Sprintf(`{"auth":"key:%s/%s"}`, socketID, channelName)), nil
}

func (s *stubSigner) AuthorizePresenceChannel(socketID, channelName string, member domain.PresenceDescriptor) ([]byte, error) {
	s.signed++
	data, _ := json.Marshal(map[string]interface{}{"user_id": member.UserID, "user_info": member.UserInfo})
	return []byte(fmt.Sprintf(`{"auth":"key:%s/%s","channel_data":%q}`, socketID, channelName, data)), nil
}

type stubPublisher struct {
	triggered []domain.EventMessage
	fail      bool
}

func (s *stubPublisher) Trigger(_ context.Context, channel, eventName string, data interface{}) error {
	if s.fail {
		return fmt.Errorf("service unavailable")
	}
	s.triggered = append(s.triggered, domain.EventMessage{Channel: channel, Name: eventName, Data: data})
	return nil
}

func (s *stubPublisher) TriggerBatch(_ context.Context, events []domain.EventMessage) error {
	if s.fail {
		return fmt.Errorf("service unavailable")
	}
	s.triggered = append(s.triggered, events...)
	return nil
}

// --- Harness ---

type fixture struct {
	e         *echo.Echo
	signer    *stubSigner
	publisher *stubPublisher
}

func newFixture() *fixture {
	validator := &stubValidator{users: map[string]*domain.User{
		"valid-token": {
			ID:        "u-1",
			Email:     "jane@example.com",
			FirstName: "Jane",
			LastName:  "Doe",
			IsActive:  true,
		},
	}}
	signer := &stubSigner{}
	publisher := &stubPublisher{}

	api := NewRelayAPI(
		services.NewChannelAuthorizer(validator, signer),
		services.NewEventService(publisher),
		validator,
	)

	e := echo.New()
	e.Validator = NewRequestValidator()
	api.RegisterRoutes(e)

	return &fixture{e: e, signer: signer, publisher: publisher}
}

func (f *fixture) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

// --- /api/pusher/auth ---

func TestChannelAuthHandler(t *testing.T) {
	t.Run("missing channel_name returns 400 without reaching the gate", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodPost, "/api/pusher/auth", `{"socket_id":"1.1"}`, "valid-token")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "socket_id and channel_name are required", message(t, rec))
		assert.Zero(t, f.signer.signed)
	})

	t.Run("missing socket_id returns 400", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodPost, "/api/pusher/auth", `{"channel_name":"private-room1"}`, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "socket_id and channel_name are required", message(t, rec))
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodPost, "/api/pusher/auth", `{not json`, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("private channel with valid token passes grant through verbatim", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodPost, "/api/pusher/auth",
			`{"socket_id":"1.1","channel_name":"private-room1"}`, "valid-token")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"auth":"key:1.1/private-room1"}`, rec.Body.String())
	})

	t.Run("presence channel embeds the caller's profile", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodPost, "/api/pusher/auth",
			`{"socket_id":"1.1","channel_name":"presence-room1"}`, "valid-token")

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		var channelData struct {
			UserID   string            `json:"user_id"`
			UserInfo map[string]string `json:"user_info"`
		}
		require.NoError(t, json.Unmarshal([]byte(body["channel_data"]), &channelData))
		assert.Equal(t, "u-1", channelData.UserID)
		assert.Equal(t, "jane@example.com", channelData.UserInfo["email"])
	})

	t.Run("private channel without token returns 401", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodPost, "/api/pusher/auth",
			`{"socket_id":"1.1","channel_name":"private-room1"}`, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Authentication required for private channels", message(t, rec))
	})

	t.Run("public channel is refused even with a valid token", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodPost, "/api/pusher/auth",
			`{"socket_id":"1.1","channel_name":"news"}`, "valid-token")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Public channels do not require authentication", message(t, rec))
	})

	t.Run("invalid token on a public channel reports the authentication failure", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodPost, "/api/pusher/auth",
			`{"socket_id":"1.1","channel_name":"public-channel"}`, "bad-token")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid token", message(t, rec))
	})
}

// --- /api/events/* ---

func TestTriggerHandler(t *testing.T) {
	t.Run("requires a bearer token", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodPost, "/api/events/trigger",
			`{"channel":"private-user","event":"page.published"}`, "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, f.publisher.triggered)
	})

	t.Run("rejects an invalid bearer token", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodPost, "/api/events/trigger",
			`{"channel":"private-user","event":"page.published"}`, "bad-token")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid token", message(t, rec))
	})

	t.Run("missing event returns 400", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodPost, "/api/events/trigger",
			`{"channel":"private-user"}`, "valid-token")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("publishes and confirms", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodPost, "/api/events/trigger",
			`{"channel":"private-user","event":"page.published","data":{"id":"p-1"}}`, "valid-token")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"success":true,"message":"Event triggered successfully","channel":"private-user","event":"page.published"}`,
			rec.Body.String())
		require.Len(t, f.publisher.triggered, 1)
		assert.Equal(t, "page.published", f.publisher.triggered[0].Name)
	})

	t.Run("provider outage returns 500", func(t *testing.T) {
		f := newFixture()
		f.publisher.fail = true
		rec := f.request(http.MethodPost, "/api/events/trigger",
			`{"channel":"private-user","event":"page.published"}`, "valid-token")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestTriggerBatchHandler(t *testing.T) {
	t.Run("publishes every entry in order", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodPost, "/api/events/trigger-batch",
			`{"events":[{"channel":"private-user","event":"a"},{"channel":"presence-user","event":"b"}]}`,
			"valid-token")

		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, f.publisher.triggered, 2)
		assert.Equal(t, "a", f.publisher.triggered[0].Name)
		assert.Equal(t, "b", f.publisher.triggered[1].Name)
	})

	t.Run("empty batch returns 400", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodPost, "/api/events/trigger-batch", `{"events":[]}`, "valid-token")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestChannelsHandler(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodGet, "/api/events/channels", "", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("returns the static pattern list", func(t *testing.T) {
		f := newFixture()
		rec := f.request(http.MethodGet, "/api/events/channels", "", "valid-token")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"channels":["public","private-user","presence-user"],"message":"Available channel patterns"}`,
			rec.Body.String())
	})
}
