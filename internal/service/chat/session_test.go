package chat

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advocaid/assistant/backend/internal/model/category"
	"github.com/advocaid/assistant/backend/internal/model/chat"
	"github.com/advocaid/assistant/backend/internal/model/persona"
	"github.com/advocaid/assistant/backend/internal/service/prompt"
)

func testBuilder(t *testing.T) *prompt.Builder {
	t.Helper()
	p, err := persona.Select(persona.NewMemoryStore(persona.Seed()), "advocaid")
	require.NoError(t, err)
	return prompt.NewBuilder(p)
}

func sequentialIDs() SessionOption {
	n := 0
	return WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("m%d", n)
	})
}

func newTestSession(t *testing.T, c *category.Category, lang chat.Language) *Session {
	t.Helper()
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return NewSession("s1", c, lang, testBuilder(t), sequentialIDs(), WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
}

func TestNewSessionSeedsWelcome(t *testing.T) {
	s := newTestSession(t, nil, chat.LanguageEnglish)

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, chat.AuthorBot, msgs[0].Author)
	assert.Equal(t, testBuilder(t).Welcome(nil, chat.LanguageEnglish), msgs[0].Text)
	assert.Equal(t, chat.StatusIdle, s.Status())
}

func TestSubmitRejectsEmptyInput(t *testing.T) {
	s := newTestSession(t, nil, chat.LanguageEnglish)

	_, err := s.Submit("   \n\t")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.True(t, IsGuardRejection(err))
	assert.Len(t, s.Messages(), 1)
	assert.Equal(t, chat.StatusIdle, s.Status())
}

func TestSubmitSingleInFlight(t *testing.T) {
	s := newTestSession(t, nil, chat.LanguageEnglish)
	s.SetDraft("What are tenant rights?")

	turn, err := s.Submit("What are tenant rights?")
	require.NoError(t, err)
	assert.Equal(t, chat.StatusAwaitingResponse, s.Status())
	assert.Equal(t, "", s.Draft())
	assert.Contains(t, turn.Prompt, "What are tenant rights?")
	before := s.Messages()

	_, err = s.Submit("Second question")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, before, s.Messages())
}

func TestAppendIsMonotonicPerTransition(t *testing.T) {
	s := newTestSession(t, nil, chat.LanguageEnglish)

	for i := 1; i <= 3; i++ {
		n := len(s.Messages())
		_, err := s.Submit(fmt.Sprintf("question %d", i))
		require.NoError(t, err)
		assert.Len(t, s.Messages(), n+1)

		bot, ok := s.ResponseArrived(fmt.Sprintf("answer %d", i))
		require.True(t, ok)
		assert.Equal(t, chat.AuthorBot, bot.Author)
		assert.Len(t, s.Messages(), n+2)
		assert.Equal(t, chat.StatusIdle, s.Status())
	}
}

func TestResponseArrivedIgnoredWhenIdle(t *testing.T) {
	s := newTestSession(t, nil, chat.LanguageEnglish)

	_, ok := s.ResponseArrived("stray")
	assert.False(t, ok)
	assert.Len(t, s.Messages(), 1)
}

func TestChangeLanguageRewritesOnlyWelcome(t *testing.T) {
	s := newTestSession(t, nil, chat.LanguageEnglish)
	_, err := s.Submit("What are tenant rights?")
	require.NoError(t, err)
	_, ok := s.ResponseArrived("answer")
	require.True(t, ok)
	_, err = s.Submit("And deposits?")
	require.NoError(t, err)
	require.Len(t, s.Messages(), 4)
	before := s.Messages()

	first := s.ChangeLanguage(chat.LanguageUrdu)

	after := s.Messages()
	require.Len(t, after, 4)
	assert.NotEqual(t, before[0].Text, after[0].Text)
	assert.Equal(t, first, after[0])
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, before[1:], after[1:])
	assert.Equal(t, chat.LanguageUrdu, s.Language())
	assert.Equal(t, chat.StatusAwaitingResponse, s.Status())
}

func TestChangeLanguageIsIdempotent(t *testing.T) {
	s := newTestSession(t, nil, chat.LanguageEnglish)

	once := s.ChangeLanguage(chat.LanguageBoth)
	twice := s.ChangeLanguage(chat.LanguageBoth)
	assert.Equal(t, once, twice)
	assert.Len(t, s.Messages(), 1)
}

func TestAttachmentsAreAppendedAsMetadata(t *testing.T) {
	s := newTestSession(t, nil, chat.LanguageEnglish)
	require.NoError(t, s.AddAttachment(chat.Attachment{Filename: "lease.pdf", SizeBytes: 2048}))
	require.NoError(t, s.AddAttachment(chat.Attachment{Filename: "photo.JPG", SizeBytes: 10}))
	require.NoError(t, s.AddAttachment(chat.Attachment{Filename: "lease.pdf", SizeBytes: 4096}))
	require.Len(t, s.Attachments(), 2)

	assert.ErrorIs(t, s.AddAttachment(chat.Attachment{Filename: "virus.exe"}), ErrAttachmentType)
	assert.Error(t, s.AddAttachment(chat.Attachment{Filename: ""}))
	assert.Error(t, s.AddAttachment(chat.Attachment{Filename: "a.pdf", SizeBytes: -1}))

	turn, err := s.Submit("Please review")
	require.NoError(t, err)
	assert.Equal(t, "Please review\n\n[Attached: lease.pdf, photo.JPG]", turn.User.Text)
	assert.Equal(t, "Please review", turn.Text)
	assert.Empty(t, s.Attachments())
}

func TestSubmitAttachmentOnly(t *testing.T) {
	s := newTestSession(t, nil, chat.LanguageEnglish)
	require.NoError(t, s.AddAttachment(chat.Attachment{Filename: "notice.docx"}))

	turn, err := s.Submit("")
	require.NoError(t, err)
	assert.Equal(t, "[Attached: notice.docx]", turn.User.Text)
	assert.True(t, strings.Contains(turn.Prompt, "[Attached: notice.docx]"))
}

func TestRemoveAttachment(t *testing.T) {
	s := newTestSession(t, nil, chat.LanguageEnglish)
	require.NoError(t, s.AddAttachment(chat.Attachment{Filename: "a.txt"}))

	assert.True(t, s.RemoveAttachment("a.txt"))
	assert.False(t, s.RemoveAttachment("a.txt"))
	_, err := s.Submit(" ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestFeedbackOnlyOnBotMessages(t *testing.T) {
	s := newTestSession(t, nil, chat.LanguageEnglish)
	turn, err := s.Submit("hi")
	require.NoError(t, err)
	bot, _ := s.ResponseArrived("hello")

	require.NoError(t, s.Feedback(bot.ID, chat.FeedbackDislike))
	m, _ := s.Message(bot.ID)
	assert.Equal(t, chat.FeedbackDislike, m.Feedback)
	assert.Equal(t, "hello", m.Text)

	assert.ErrorIs(t, s.Feedback(turn.User.ID, chat.FeedbackLike), ErrFeedbackTarget)
	assert.ErrorIs(t, s.Feedback("nope", chat.FeedbackLike), ErrMessageNotFound)
}

func TestSnapshotCarriesCategory(t *testing.T) {
	store := category.NewMemoryStore(category.Seed())
	family, _ := store.Resolve("Family Law")
	s := newTestSession(t, &family, chat.LanguageBoth)

	snap := s.Snapshot()
	assert.Equal(t, "s1", snap.ID)
	assert.Equal(t, "Family Law", snap.Category)
	assert.Equal(t, "family-law", snap.CategoryID)
	assert.Equal(t, chat.LanguageBoth, snap.Language)
	assert.NotNil(t, snap.Attachments)
	require.Len(t, snap.Messages, 1)

	family.Title = "mutated"
	assert.Equal(t, "Family Law", s.Category().Title)
}
