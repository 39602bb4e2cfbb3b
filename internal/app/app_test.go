package app

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackroom/server/internal/controller"
	broadcastredis "github.com/trackroom/server/internal/repository/broadcast/redis"
	playbackredis "github.com/trackroom/server/internal/repository/playback/redis"
	"github.com/trackroom/server/internal/repository/store/sqlite"
	"github.com/trackroom/server/internal/service/room"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	recordStore, err := sqlite.NewStore(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { recordStore.Close() })

	playbackRepo := playbackredis.NewRepo(rc, logger, time.Hour)
	broadcaster := broadcastredis.NewRepo(rc, logger)
	roomService := room.NewService(recordStore, playbackRepo, broadcaster, logger, &room.Config{
		Secret:       "test-secret",
		Issuer:       "trackroom",
		TokenExpiry:  time.Hour,
		MembersLimit: 10,
	})

	ctrl := controller.NewController(roomService, broadcaster, logger)
	server := httptest.NewServer(ctrl.GetMux())
	t.Cleanup(server.Close)

	return server
}

func doJSON(t *testing.T, server *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(bytes.TrimSpace(raw)) > 0 && resp.StatusCode != http.StatusNoContent {
		// some endpoints answer with a JSON null body
		if string(bytes.TrimSpace(raw)) != "null" {
			require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
		}
	}

	return resp, decoded
}

func TestAppConfigValidate(t *testing.T) {
	cfg := &AppConfig{Secret: "s", MembersLimit: 10, TokenExpiryMinutes: 720}
	assert.NoError(t, cfg.Validate())

	assert.Error(t, (&AppConfig{MembersLimit: 10, TokenExpiryMinutes: 720}).Validate())
	assert.Error(t, (&AppConfig{Secret: "s", MembersLimit: 0, TokenExpiryMinutes: 720}).Validate())
	assert.Error(t, (&AppConfig{Secret: "s", MembersLimit: 10}).Validate())
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.Client().Get(server.URL + "/api/v1/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoomLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t)

	// host creates a room
	resp, created := doJSON(t, server, http.MethodPost, "/api/v1/rooms", "", map[string]any{
		"display_name": "alice",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	roomCode, _ := created["room_code"].(string)
	hostToken, _ := created["token"].(string)
	require.NotEmpty(t, roomCode)
	require.NotEmpty(t, hostToken)
	assert.Equal(t, "HOST", created["role"])

	// guest joins
	resp, joined := doJSON(t, server, http.MethodPost, "/api/v1/rooms/"+roomCode+"/join", "", map[string]any{
		"display_name": "bob",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	guestToken, _ := joined["token"].(string)
	require.NotEmpty(t, guestToken)
	assert.Equal(t, "GUEST", joined["role"])

	// enqueue requires a token
	resp, _ = doJSON(t, server, http.MethodPost, "/api/v1/rooms/"+roomCode+"/queue", "", map[string]any{
		"track_id": "track-1", "title": "first", "duration_seconds": 180,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, item := doJSON(t, server, http.MethodPost, "/api/v1/rooms/"+roomCode+"/queue", hostToken, map[string]any{
		"track_id": "track-1", "title": "first", "duration_seconds": 180,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	itemId, _ := item["id"].(string)
	require.NotEmpty(t, itemId)
	assert.Equal(t, float64(0), item["position"])
	assert.Equal(t, "alice", item["added_by"])

	// anyone can read the queue
	resp, queue := doJSON(t, server, http.MethodGet, "/api/v1/rooms/"+roomCode+"/queue", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ := queue["items"].([]any)
	assert.Len(t, items, 1)

	// guest has no reorder capability
	resp, _ = doJSON(t, server, http.MethodPut, "/api/v1/rooms/"+roomCode+"/queue/"+itemId+"/move", guestToken, map[string]any{
		"new_position": 0,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// host grants it, the same guest token now passes
	guestMembershipId := membershipIdFromToken(t, guestToken)
	resp, perms := doJSON(t, server, http.MethodPost, "/api/v1/rooms/"+roomCode+"/permissions/"+guestMembershipId, hostToken, map[string]any{
		"capabilities": []string{"REORDER_QUEUE"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"REORDER_QUEUE"}, perms["capabilities"])

	resp, _ = doJSON(t, server, http.MethodPut, "/api/v1/rooms/"+roomCode+"/queue/"+itemId+"/move", guestToken, map[string]any{
		"new_position": 0,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// playback: no state yet, then play and pause
	resp, state := doJSON(t, server, http.MethodGet, "/api/v1/rooms/"+roomCode+"/playback", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, state)

	resp, state = doJSON(t, server, http.MethodPost, "/api/v1/rooms/"+roomCode+"/playback/play", hostToken, map[string]any{
		"queue_item_id": itemId, "position_ms": 0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, state["playing"])

	resp, state = doJSON(t, server, http.MethodPost, "/api/v1/rooms/"+roomCode+"/playback/pause", hostToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, state["playing"])

	// vote from the host applies immediately
	resp, vote := doJSON(t, server, http.MethodPost, "/api/v1/rooms/"+roomCode+"/queue/"+itemId+"/vote-skip", hostToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, vote["applied"])

	resp, queue = doJSON(t, server, http.MethodGet, "/api/v1/rooms/"+roomCode+"/queue", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ = queue["items"].([]any)
	assert.Empty(t, items)
}

func TestUnknownRoomIs404(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, server, http.MethodGet, "/api/v1/rooms/ZZZZZZ/queue", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, server, http.MethodPost, "/api/v1/rooms/ZZZZZZ/join", "", map[string]any{
		"display_name": "bob",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidationErrors(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, server, http.MethodPost, "/api/v1/rooms", "", map[string]any{
		"display_name": "",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotNil(t, body["errors"])

	// unknown fields are rejected outright
	resp, _ = doJSON(t, server, http.MethodPost, "/api/v1/rooms", "", map[string]any{
		"display_name": "alice", "unexpected": true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRoomEventsFeed(t *testing.T) {
	server := newTestServer(t)

	resp, created := doJSON(t, server, http.MethodPost, "/api/v1/rooms", "", map[string]any{
		"display_name": "alice",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	roomCode, _ := created["room_code"].(string)
	hostToken, _ := created["token"].(string)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/rooms/" + roomCode + "/events"
	conn, dialResp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if dialResp != nil {
		dialResp.Body.Close()
	}
	defer conn.Close()

	// let the subscription register before publishing
	time.Sleep(100 * time.Millisecond)

	resp, _ = doJSON(t, server, http.MethodPost, "/api/v1/rooms/"+roomCode+"/queue", hostToken, map[string]any{
		"track_id": "track-1", "title": "first", "duration_seconds": 180,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg struct {
		Channel string          `json:"channel"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "queue", msg.Channel)

	var payload struct {
		Items []struct {
			Title string `json:"title"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "first", payload.Items[0].Title)
}

// membershipIdFromToken pulls the membership id claim out of an issued token
// without verifying it; the tests only need the id to address the membership.
func membershipIdFromToken(t *testing.T, token string) string {
	t.Helper()

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var claims struct {
		MembershipId string `json:"membership_id"`
	}
	require.NoError(t, json.Unmarshal(raw, &claims))
	require.NotEmpty(t, claims.MembershipId)

	return claims.MembershipId
}
