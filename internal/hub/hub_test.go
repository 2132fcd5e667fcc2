package hub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func read(t *testing.T, c *websocket.Conn) (int, []byte) {
	t.Helper()
	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	kind, b, err := c.ReadMessage()
	require.NoError(t, err)
	return kind, b
}

func TestHubBroadcast(t *testing.T) {
	h := New()
	srv := httptest.NewServer(h)
	defer srv.Close()

	c := dial(t, srv)
	require.Eventually(t, func() bool { return h.Len() == 1 }, time.Second, time.Millisecond)

	h.BroadcastWave([]byte{0x61, 0x03})
	kind, b := read(t, c)
	assert.Equal(t, websocket.BinaryMessage, kind)
	assert.Equal(t, []byte{0x61, 0x03}, b)

	h.BroadcastParams([]byte(`{"hr":78}`))
	kind, b = read(t, c)
	assert.Equal(t, websocket.TextMessage, kind)
	assert.JSONEq(t, `{"hr":78}`, string(b))
}

func TestHubSendsLastParamsToNewClients(t *testing.T) {
	h := New()
	srv := httptest.NewServer(h)
	defer srv.Close()

	h.BroadcastParams([]byte(`{"hr":61}`))
	h.BroadcastParams([]byte(`{"hr":72}`))

	c := dial(t, srv)
	_, b := read(t, c)
	assert.JSONEq(t, `{"hr":72}`, string(b))
}

func TestHubRemovesClosedClients(t *testing.T) {
	h := New()
	srv := httptest.NewServer(h)
	defer srv.Close()

	c := dial(t, srv)
	require.Eventually(t, func() bool { return h.Len() == 1 }, time.Second, time.Millisecond)

	c.Close()
	require.Eventually(t, func() bool { return h.Len() == 0 }, time.Second, time.Millisecond)
}
