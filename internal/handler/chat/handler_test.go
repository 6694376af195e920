package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advocaid/assistant/backend/internal/model/category"
	"github.com/advocaid/assistant/backend/internal/model/chat"
	"github.com/advocaid/assistant/backend/internal/model/persona"
	chatservice "github.com/advocaid/assistant/backend/internal/service/chat"
	"github.com/advocaid/assistant/backend/internal/service/prompt"
)

type stubFetcher struct {
	reply string
	err   error
	block chan struct{}
}

func (f *stubFetcher) FetchResponse(ctx context.Context, _ string) (string, error) {
	if f.block != nil {
		<-f.block
	}
	return f.reply, f.err
}

func setupRouter(t *testing.T, f *stubFetcher) (*chi.Mux, *chatservice.Service) {
	t.Helper()
	p, err := persona.Select(persona.NewMemoryStore(persona.Seed()), "")
	require.NoError(t, err)
	chatSvc := chatservice.NewService(prompt.NewBuilder(p), f,
		chatservice.WithCategories(category.NewMemoryStore(category.Seed())))

	r := chi.NewRouter()
	New(chatSvc).RegisterRoutes(r)
	return r, chatSvc
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createSession(t *testing.T, r http.Handler, path string, body any) chat.Snapshot {
	t.Helper()
	resp := do(r, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var snap chat.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	return snap
}

func TestCreateSessionFromQuery(t *testing.T) {
	r, _ := setupRouter(t, &stubFetcher{reply: "ok"})

	snap := createSession(t, r, "/sessions?category=Family%20Law", nil)
	assert.Equal(t, "family-law", snap.CategoryID)
	assert.Equal(t, chat.LanguageEnglish, snap.Language)
	require.Len(t, snap.Messages, 1)
	assert.Contains(t, snap.Messages[0].Text, "Family Law")
}

func TestCreateSessionInvalidLanguage(t *testing.T) {
	r, _ := setupRouter(t, &stubFetcher{})

	resp := do(r, http.MethodPost, "/sessions", map[string]string{"language": "klingon"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetAndDeleteSession(t *testing.T) {
	r, _ := setupRouter(t, &stubFetcher{})
	snap := createSession(t, r, "/sessions", map[string]string{"category": "criminal-law", "language": "ur"})
	assert.Equal(t, chat.LanguageUrdu, snap.Language)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/sessions/"+snap.ID, nil).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/sessions/"+snap.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/sessions/"+snap.ID, nil).Code)
}

func TestSendMessage(t *testing.T) {
	r, _ := setupRouter(t, &stubFetcher{reply: "Here is some general information."})
	snap := createSession(t, r, "/sessions", nil)

	resp := do(r, http.MethodPost, "/sessions/"+snap.ID+"/messages", map[string]string{"text": "What are tenant rights?"})
	require.Equal(t, http.StatusOK, resp.Code)

	var result chatservice.SendResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "What are tenant rights?", result.User.Text)
	assert.Equal(t, chat.AuthorBot, result.Bot.Author)
	assert.True(t, strings.HasPrefix(result.Bot.Text, "Here is some general information."))
}

func TestSendMessageEmpty(t *testing.T) {
	r, _ := setupRouter(t, &stubFetcher{reply: "ok"})
	snap := createSession(t, r, "/sessions", nil)

	resp := do(r, http.MethodPost, "/sessions/"+snap.ID+"/messages", map[string]string{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSendMessageBusy(t *testing.T) {
	f := &stubFetcher{reply: "ok", block: make(chan struct{})}
	r, svc := setupRouter(t, f)
	snap := createSession(t, r, "/sessions", nil)

	pending, err := svc.Submit(context.Background(), snap.ID, "first")
	require.NoError(t, err)

	resp := do(r, http.MethodPost, "/sessions/"+snap.ID+"/messages", map[string]string{"text": "second"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	close(f.block)
	pending.Resolve(context.Background())
}

func TestSendMessageFetchFailure(t *testing.T) {
	r, _ := setupRouter(t, &stubFetcher{err: errors.New("dial tcp: connection refused")})
	snap := createSession(t, r, "/sessions", nil)

	resp := do(r, http.MethodPost, "/sessions/"+snap.ID+"/messages", map[string]string{"text": "hello"})
	require.Equal(t, http.StatusOK, resp.Code)

	var result chatservice.SendResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "network", string(result.Failure))
}

func TestChangeLanguage(t *testing.T) {
	r, svc := setupRouter(t, &stubFetcher{reply: "ok"})
	snap := createSession(t, r, "/sessions", nil)

	resp := do(r, http.MethodPut, "/sessions/"+snap.ID+"/language", map[string]string{"language": "both"})
	require.Equal(t, http.StatusOK, resp.Code)

	session, err := svc.GetSession(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, chat.LanguageBoth, session.Language())
	assert.Equal(t, snap.Messages[0].ID, session.Messages()[0].ID)
	assert.NotEqual(t, snap.Messages[0].Text, session.Messages()[0].Text)

	resp = do(r, http.MethodPut, "/sessions/"+snap.ID+"/language", map[string]string{"language": "french"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDraftAndAttachments(t *testing.T) {
	r, svc := setupRouter(t, &stubFetcher{reply: "ok"})
	snap := createSession(t, r, "/sessions", nil)
	base := "/sessions/" + snap.ID

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPut, base+"/draft", map[string]string{"text": "half typed"}).Code)
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, base+"/attachments", chat.Attachment{Filename: "lease.pdf", SizeBytes: 10}).Code)
	assert.Equal(t, http.StatusUnsupportedMediaType, do(r, http.MethodPost, base+"/attachments", chat.Attachment{Filename: "run.exe"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, base+"/attachments", chat.Attachment{}).Code)

	session, err := svc.GetSession(context.Background(), snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "half typed", session.Draft())
	assert.Len(t, session.Attachments(), 1)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, base+"/attachments/lease.pdf", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, base+"/attachments/lease.pdf", nil).Code)
}

func TestFeedbackAndRaw(t *testing.T) {
	r, _ := setupRouter(t, &stubFetcher{reply: "An answer"})
	snap := createSession(t, r, "/sessions", nil)
	base := "/sessions/" + snap.ID

	resp := do(r, http.MethodPost, base+"/messages", map[string]string{"text": "question"})
	var result chatservice.SendResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	resp = do(r, http.MethodPost, base+"/messages/"+result.Bot.ID+"/feedback", map[string]string{"feedback": "like"})
	require.Equal(t, http.StatusOK, resp.Code)
	var annotated chat.Message
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&annotated))
	assert.Equal(t, chat.FeedbackLike, annotated.Feedback)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, base+"/messages/"+result.User.ID+"/feedback", map[string]string{"feedback": "like"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, base+"/messages/"+result.Bot.ID+"/feedback", map[string]string{"feedback": "love"}).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, base+"/messages/nope/feedback", map[string]string{"feedback": "like"}).Code)

	resp = do(r, http.MethodGet, base+"/messages/"+result.Bot.ID+"/raw", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, result.Bot.Text, resp.Body.String())
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, base+"/messages/nope/raw", nil).Code)
}
