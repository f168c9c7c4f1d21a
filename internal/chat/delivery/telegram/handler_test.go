package telegram_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"lacri-bot/internal/chat"
	"lacri-bot/internal/chat/delivery/telegram"
	"lacri-bot/internal/model"
	pkgTelegram "lacri-bot/pkg/telegram"
)

// ── Mocks ──────────────────────────────────────────────────────────────────

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) Info(ctx context.Context, args ...interface{})                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...interface{})   {}
func (m *mockLogger) Warn(ctx context.Context, args ...interface{})                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...interface{})   {}
func (m *mockLogger) Error(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...interface{})                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...interface{}) {}
func (m *mockLogger) Panic(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...interface{})  {}

type handleCall struct {
	sc    model.Scope
	input chat.HandleInput
}

type mockChatUseCase struct {
	mu           sync.Mutex
	calls        []handleCall
	weatherCalls []string
	pings        int
	output       chat.HandleOutput
}

func (m *mockChatUseCase) Handle(ctx context.Context, sc model.Scope, input chat.HandleInput) (chat.HandleOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, handleCall{sc: sc, input: input})
	return m.output, nil
}

func (m *mockChatUseCase) Weather(ctx context.Context, sc model.Scope, city string) (chat.HandleOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weatherCalls = append(m.weatherCalls, city)
	return chat.HandleOutput{Reply: "weather", Chunks: []string{"weather"}}, nil
}

func (m *mockChatUseCase) Ping(ctx context.Context) (chat.HandleOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pings++
	return chat.HandleOutput{Reply: "checking response time... 5ms", Chunks: []string{"checking response time... 5ms"}}, nil
}

func (m *mockChatUseCase) handleCalls() []handleCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]handleCall(nil), m.calls...)
}

type sentMessage struct {
	ChatID  int64
	ReplyTo int64
	Text    string
}

// ── Test Helpers ───────────────────────────────────────────────────────────

type testEnv struct {
	engine  *gin.Engine
	handler telegram.Handler
	uc      *mockChatUseCase

	mu     sync.Mutex
	sent   []sentMessage
	nextID int64
}

func (e *testEnv) messages() []sentMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]sentMessage(nil), e.sent...)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		uc:     &mockChatUseCase{output: chat.HandleOutput{Reply: "answer", Chunks: []string{"answer"}}},
		nextID: 1000,
	}

	tgServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/sendMessage") {
			var payload struct {
				ChatID           int64  `json:"chat_id"`
				Text             string `json:"text"`
				ReplyToMessageID int64  `json:"reply_to_message_id"`
			}
			json.NewDecoder(r.Body).Decode(&payload)

			env.mu.Lock()
			env.nextID++
			id := env.nextID
			env.sent = append(env.sent, sentMessage{ChatID: payload.ChatID, ReplyTo: payload.ReplyToMessageID, Text: payload.Text})
			env.mu.Unlock()

			resp, _ := json.Marshal(map[string]any{
				"ok":     true,
				"result": map[string]any{"message_id": id, "chat": map[string]any{"id": payload.ChatID, "type": "private"}},
			})
			w.Write(resp)
			return
		}
		w.Write([]byte(`{"ok": true, "result": true}`))
	}))
	t.Cleanup(tgServer.Close)

	bot := pkgTelegram.NewBot("test-token")
	bot.SetAPIURL(tgServer.URL)

	env.handler = telegram.New(&mockLogger{}, env.uc, bot, telegram.Config{
		BotUsername:   "lacri_bot",
		CommandPrefix: "!",
	})
	env.engine = gin.New()
	env.engine.POST("/webhook/telegram", env.handler.HandleWebhook)
	return env
}

func privateUpdate(updateID int64, text string) pkgTelegram.Update {
	return pkgTelegram.Update{
		UpdateID: updateID,
		Message: &pkgTelegram.Message{
			MessageID: updateID * 10,
			Chat:      &pkgTelegram.Chat{ID: 123, Type: pkgTelegram.ChatTypePrivate},
			From:      &pkgTelegram.User{ID: 456, Username: "deb"},
			Text:      text,
		},
	}
}

func groupUpdate(updateID int64, text string) pkgTelegram.Update {
	u := privateUpdate(updateID, text)
	u.Message.Chat = &pkgTelegram.Chat{ID: -900, Type: pkgTelegram.ChatTypeGroup}
	return u
}

func (e *testEnv) sendWebhook(t *testing.T, update pkgTelegram.Update) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(update)
	req, _ := http.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.handler.Wait(ctx); err != nil {
		t.Fatalf("background processing did not finish: %v", err)
	}
	return w
}

func (e *testEnv) process(update pkgTelegram.Update) {
	e.handler.ProcessUpdate(context.Background(), update)
}

// ── Tests ──────────────────────────────────────────────────────────────────

func TestHandleWebhook_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	req, _ := http.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewBufferString("{bad json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 so Telegram stops redelivering, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ignored") {
		t.Errorf("expected ignored status, got %s", w.Body.String())
	}

	time.Sleep(20 * time.Millisecond)
	if calls := env.uc.handleCalls(); len(calls) != 0 {
		t.Errorf("unparseable update must not reach the use case, got %d calls", len(calls))
	}
}

func TestHandleWebhook_NonMessageUpdate(t *testing.T) {
	env := newTestEnv(t)

	w := env.sendWebhook(t, pkgTelegram.Update{UpdateID: 1})
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ignored") {
		t.Errorf("expected ignored status, got %s", w.Body.String())
	}
}

func TestHandleWebhook_Chat(t *testing.T) {
	env := newTestEnv(t)

	w := env.sendWebhook(t, privateUpdate(1, "/chat hello there"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	calls := env.uc.handleCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 handle call, got %d", len(calls))
	}
	if calls[0].input.Skill != chat.SkillChat || calls[0].input.Text != "hello there" {
		t.Errorf("unexpected input: %+v", calls[0].input)
	}
	if calls[0].sc.UserID != "telegram_456" || calls[0].sc.ChatID != 123 {
		t.Errorf("unexpected scope: %+v", calls[0].sc)
	}

	msgs := env.messages()
	if len(msgs) != 1 || msgs[0].Text != "answer" || msgs[0].ReplyTo != 10 {
		t.Errorf("unexpected sent messages: %+v", msgs)
	}
}

func TestHandleWebhook_DuplicateUpdateProcessedOnce(t *testing.T) {
	env := newTestEnv(t)

	env.sendWebhook(t, privateUpdate(7, "/math 2+2"))
	env.sendWebhook(t, privateUpdate(7, "/math 2+2"))

	if n := len(env.uc.handleCalls()); n != 1 {
		t.Errorf("expected 1 handle call, got %d", n)
	}
}

func TestProcessUpdate_PrefixAndSlashReachSameHandler(t *testing.T) {
	env := newTestEnv(t)

	env.process(privateUpdate(1, "/program fizzbuzz"))
	env.process(privateUpdate(2, "!program fizzbuzz"))
	env.process(privateUpdate(3, "/program@lacri_bot fizzbuzz"))

	calls := env.uc.handleCalls()
	if len(calls) != 3 {
		t.Fatalf("expected 3 handle calls, got %d", len(calls))
	}
	for _, c := range calls {
		if c.input.Skill != chat.SkillProgram || c.input.Text != "fizzbuzz" {
			t.Errorf("unexpected input: %+v", c.input)
		}
	}
}

func TestProcessUpdate_CommandForOtherBotIgnored(t *testing.T) {
	env := newTestEnv(t)

	env.process(groupUpdate(1, "/chat@other_bot hi"))

	if n := len(env.uc.handleCalls()); n != 0 {
		t.Errorf("expected no handle calls, got %d", n)
	}
}

func TestProcessUpdate_PlainText(t *testing.T) {
	env := newTestEnv(t)

	env.process(groupUpdate(1, "just chatting in a group"))
	if n := len(env.uc.handleCalls()); n != 0 {
		t.Fatalf("group plain text must be ignored, got %d calls", n)
	}

	env.process(privateUpdate(2, "hi lacri"))
	calls := env.uc.handleCalls()
	if len(calls) != 1 || calls[0].input.Skill != chat.SkillChat || calls[0].input.Text != "hi lacri" {
		t.Errorf("private plain text must go to chat, got %+v", calls)
	}
}

func TestProcessUpdate_UsageHint(t *testing.T) {
	env := newTestEnv(t)

	env.process(privateUpdate(1, "/weather"))

	msgs := env.messages()
	if len(msgs) != 1 || msgs[0].Text != "usage: /weather <city>" {
		t.Errorf("expected usage hint, got %+v", msgs)
	}
	if len(env.uc.weatherCalls) != 0 {
		t.Errorf("weather must not be called without a city")
	}
}

func TestProcessUpdate_Weather(t *testing.T) {
	env := newTestEnv(t)

	env.process(privateUpdate(1, "!weather New York"))

	env.uc.mu.Lock()
	defer env.uc.mu.Unlock()
	if len(env.uc.weatherCalls) != 1 || env.uc.weatherCalls[0] != "New York" {
		t.Errorf("unexpected weather calls: %v", env.uc.weatherCalls)
	}
}

func TestProcessUpdate_StartHelpPing(t *testing.T) {
	env := newTestEnv(t)

	env.process(privateUpdate(1, "/start"))
	env.process(privateUpdate(2, "/help"))
	env.process(privateUpdate(3, "/ping"))

	msgs := env.messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %+v", msgs)
	}
	if !strings.Contains(msgs[0].Text, "lacri.ai") {
		t.Errorf("unexpected start text: %q", msgs[0].Text)
	}
	if !strings.Contains(msgs[1].Text, "/weather <city>") || !strings.Contains(msgs[1].Text, "!") {
		t.Errorf("unexpected help text: %q", msgs[1].Text)
	}
	if msgs[2].Text != "checking response time... 5ms" {
		t.Errorf("unexpected ping text: %q", msgs[2].Text)
	}
}

func TestProcessUpdate_ChunksSentInOrder(t *testing.T) {
	env := newTestEnv(t)
	env.uc.output = chat.HandleOutput{Reply: "abc", Chunks: []string{"a", "b", "c"}}

	env.process(privateUpdate(1, "/chat long please"))

	msgs := env.messages()
	if len(msgs) != 3 || msgs[0].Text != "a" || msgs[1].Text != "b" || msgs[2].Text != "c" {
		t.Errorf("unexpected chunks: %+v", msgs)
	}
}

func TestProcessUpdate_ReplyToProgramAnswerContinuesProgram(t *testing.T) {
	env := newTestEnv(t)

	env.process(groupUpdate(1, "/program sort a slice"))
	msgs := env.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected program answer, got %+v", msgs)
	}
	answerID := int64(1001) // first id handed out by the fake Bot API

	follow := groupUpdate(2, "now in reverse")
	follow.Message.ReplyToMessage = &pkgTelegram.Message{MessageID: answerID, Chat: follow.Message.Chat}
	env.process(follow)

	unrelated := groupUpdate(3, "not a follow-up")
	unrelated.Message.ReplyToMessage = &pkgTelegram.Message{MessageID: 5, Chat: unrelated.Message.Chat}
	env.process(unrelated)

	calls := env.uc.handleCalls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 handle calls, got %d", len(calls))
	}
	if calls[1].input.Skill != chat.SkillProgram || calls[1].input.Text != "now in reverse" {
		t.Errorf("reply must continue the program skill, got %+v", calls[1].input)
	}
}

func TestProcessUpdate_IgnoresBotsAndEmptyText(t *testing.T) {
	env := newTestEnv(t)

	fromBot := privateUpdate(1, "/chat hi")
	fromBot.Message.From.IsBot = true
	env.process(fromBot)
	env.process(privateUpdate(2, ""))

	if n := len(env.uc.handleCalls()); n != 0 {
		t.Errorf("expected no handle calls, got %d", n)
	}
}
