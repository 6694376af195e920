package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	var payload struct {
		Text string `json:"text"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"hello"}`))
	require.NoError(t, DecodeJSON(req, &payload))
	assert.Equal(t, "hello", payload.Text)

	empty := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.NoError(t, DecodeJSON(empty, &payload))

	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":`))
	assert.Error(t, DecodeJSON(bad, &payload))
}

func TestSendSSEEvent(t *testing.T) {
	resp := httptest.NewRecorder()
	SetupSSEHeaders(resp)
	SendSSEEvent(resp, resp, "start", map[string]string{"event": "start"})

	assert.Equal(t, "text/event-stream", resp.Header().Get("Content-Type"))
	assert.Equal(t, "event: start\ndata: {\"event\":\"start\"}\n\n", resp.Body.String())
	assert.True(t, resp.Flushed)
}

func TestRespondError(t *testing.T) {
	resp := httptest.NewRecorder()
	RespondError(resp, http.StatusConflict, "busy")

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.JSONEq(t, `{"error":"busy"}`, resp.Body.String())
}
