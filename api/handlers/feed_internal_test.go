package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/dispatch-console/models"
)

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_SlowViewerDoesNotHoldHub(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()
	defer h.Close()

	first := dialHub(t, srv)
	assert.Eventually(t, func() bool { return h.Count() == 1 }, time.Second, 10*time.Millisecond)

	// a write to this viewer is stuck until the lock is released
	stuck := h.snapshot()[0]
	stuck.mu.Lock()

	published := make(chan struct{})
	go func() {
		h.Publish(models.Frame{Type: models.FrameRefresh, Data: "fire"})
		close(published)
	}()

	second := dialHub(t, srv)
	assert.Eventually(t, func() bool { return h.Count() == 2 }, time.Second, 10*time.Millisecond)

	stuck.mu.Unlock()
	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("publish did not finish")
	}

	require.NoError(t, first.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame models.Frame
	require.NoError(t, first.ReadJSON(&frame))
	assert.Equal(t, models.FrameRefresh, frame.Type)
	assert.Equal(t, "fire", frame.Data)

	h.Publish(models.Frame{Type: models.FrameBanner})
	frame = models.Frame{}
	require.NoError(t, second.SetReadDeadline(time.Now().Add(2*time.Second)))
	// the second viewer may also have caught the refresh frame
	for frame.Type != models.FrameBanner {
		require.NoError(t, second.ReadJSON(&frame))
	}
}
