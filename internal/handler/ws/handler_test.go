package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advocaid/assistant/backend/internal/model/chat"
	"github.com/advocaid/assistant/backend/internal/model/persona"
	chatservice "github.com/advocaid/assistant/backend/internal/service/chat"
	"github.com/advocaid/assistant/backend/internal/service/prompt"
)

type gatedFetcher struct {
	release chan struct{}
}

func (f gatedFetcher) FetchResponse(ctx context.Context, _ string) (string, error) {
	<-f.release
	return "Here is what the law says.", nil
}

type received struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func setup(t *testing.T, f gatedFetcher) (*httptest.Server, *chatservice.Service) {
	t.Helper()
	p, err := persona.Select(persona.NewMemoryStore(persona.Seed()), "advocaid")
	require.NoError(t, err)
	svc := chatservice.NewService(prompt.NewBuilder(p), f)

	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), nil).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func next(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func send(t *testing.T, conn *websocket.Conn, kind string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(inboundMessage{Type: kind, Data: raw}))
}

func TestWebSocketTurnWithLanguageChange(t *testing.T) {
	f := gatedFetcher{release: make(chan struct{})}
	srv, svc := setup(t, f)
	session, err := svc.CreateSession(context.Background(), "family-law", chat.LanguageEnglish)
	require.NoError(t, err)
	conn := dial(t, srv, session.ID())

	assert.Equal(t, "connected", next(t, conn).Type)

	send(t, conn, "submit", textPayload{Text: "Can I get custody?"})
	user := next(t, conn)
	require.Equal(t, "message", user.Type)
	assert.Contains(t, string(user.Data), "Can I get custody?")
	assert.Equal(t, "status", next(t, conn).Type)

	send(t, conn, "submit", textPayload{Text: "again"})
	ignored := next(t, conn)
	assert.Equal(t, "status", ignored.Type)
	assert.Contains(t, string(ignored.Data), "awaiting_response")

	send(t, conn, "language", languagePayload{Language: "urdu"})
	assert.Equal(t, "language", next(t, conn).Type)

	close(f.release)
	bot := next(t, conn)
	require.Equal(t, "message", bot.Type)
	assert.Contains(t, string(bot.Data), "Here is what the law says.")
	assert.Equal(t, "status", next(t, conn).Type)

	msgs := session.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, chat.LanguageUrdu, session.Language())
}

func TestWebSocketRejectsUnknownType(t *testing.T) {
	srv, svc := setup(t, gatedFetcher{release: make(chan struct{})})
	session, err := svc.CreateSession(context.Background(), "", "")
	require.NoError(t, err)
	conn := dial(t, srv, session.ID())
	next(t, conn)

	send(t, conn, "audio", map[string]string{})
	assert.Equal(t, "error", next(t, conn).Type)

	send(t, conn, "attach", chat.Attachment{Filename: "lease.pdf"})
	assert.Equal(t, "attachments", next(t, conn).Type)
	assert.Len(t, session.Attachments(), 1)
}

func TestWebSocketUnknownSession(t *testing.T) {
	srv, _ := setup(t, gatedFetcher{release: make(chan struct{})})

	resp, err := http.Get(srv.URL + "/ws/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
