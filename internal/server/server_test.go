package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanishedd/pokerwithyourfriends/internal/room"
	"github.com/vanishedd/pokerwithyourfriends/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	writer := store.NewWriter(store.Noop{}, logger, 16)
	t.Cleanup(func() { _ = writer.Close() })
	coordinator := room.New(logger, quartz.NewMock(t), writer, room.DefaultConfig())
	return New(logger, DefaultServerConfig(), coordinator)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func createTestRoom(t *testing.T, s *Server, name string) room.JoinResult {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/rooms", gin.H{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var result room.JoinResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateRoom(t *testing.T) {
	s := newTestServer(t)

	result := createTestRoom(t, s, "Alice")
	assert.Len(t, result.RoomCode, 5)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, 0, result.Seat)
}

func TestCreateRoomValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{name: "missing name", body: gin.H{}},
		{name: "name too short", body: gin.H{"name": "A"}},
		{name: "name too long", body: gin.H{"name": "ThisNameIsMuchTooLongForARoom"}},
		{name: "stack too small", body: gin.H{"name": "Alice", "startingStack": 50}},
		{name: "stack too large", body: gin.H{"name": "Alice", "startingStack": 100000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/rooms", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestJoinRoomFlow(t *testing.T) {
	s := newTestServer(t)
	host := createTestRoom(t, s, "Alice")

	rec := doJSON(t, s, http.MethodPost, "/api/rooms/"+host.RoomCode+"/join", gin.H{"name": "Bob"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var guest room.JoinResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &guest))
	assert.Equal(t, 1, guest.Seat)

	rec = doJSON(t, s, http.MethodPost, "/api/rooms/ZZZZZ/join", gin.H{"name": "Carol"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/rooms/"+host.RoomCode+"/join", gin.H{"name": "alice"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLockAndStartPermissions(t *testing.T) {
	s := newTestServer(t)
	host := createTestRoom(t, s, "Alice")

	rec := doJSON(t, s, http.MethodPost, "/api/rooms/"+host.RoomCode+"/join", gin.H{"name": "Bob"})
	require.Equal(t, http.StatusOK, rec.Code)
	var guest room.JoinResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &guest))

	// Guests cannot lock or deal.
	rec = doJSON(t, s, http.MethodPost, "/api/rooms/"+host.RoomCode+"/lock", gin.H{"token": guest.Token, "locked": true})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = doJSON(t, s, http.MethodPost, "/api/rooms/"+host.RoomCode+"/start", gin.H{"token": guest.Token})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/api/rooms/"+host.RoomCode+"/lock", gin.H{"token": host.Token, "locked": true})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s, http.MethodPost, "/api/rooms/"+host.RoomCode+"/start", gin.H{"token": host.Token})
	assert.Equal(t, http.StatusOK, rec.Code)

	// A second deal while the hand runs conflicts.
	rec = doJSON(t, s, http.MethodPost, "/api/rooms/"+host.RoomCode+"/start", gin.H{"token": host.Token})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSnapshotEndpoint(t *testing.T) {
	s := newTestServer(t)
	host := createTestRoom(t, s, "Alice")

	rec := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/rooms/%s?token=%s", host.RoomCode, host.Token), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, host.RoomCode, snapshot["roomCode"])

	rec = doJSON(t, s, http.MethodGet, "/api/rooms/"+host.RoomCode+"?token=bogus", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebSocketRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)
	host := createTestRoom(t, s, "Alice")

	rec := doJSON(t, s, http.MethodGet, "/ws?room="+host.RoomCode+"&token=bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
