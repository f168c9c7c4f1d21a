package test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"lacri-bot/internal/chat"
	"lacri-bot/internal/conversation"
	"lacri-bot/internal/model"
	"lacri-bot/pkg/log"
)

type echoUseCase struct {
	store *conversation.Store
}

func (e *echoUseCase) Handle(ctx context.Context, sc model.Scope, input chat.HandleInput) (chat.HandleOutput, error) {
	if input.Text == "" {
		return chat.HandleOutput{}, chat.ErrEmptyText
	}
	e.store.AppendExchange(sc.UserID, input.Text, "echo: "+input.Text)
	return chat.HandleOutput{Reply: "echo: " + input.Text, Chunks: []string{"echo: " + input.Text}}, nil
}

func (e *echoUseCase) Weather(ctx context.Context, sc model.Scope, city string) (chat.HandleOutput, error) {
	return chat.HandleOutput{}, nil
}

func (e *echoUseCase) Ping(ctx context.Context) (chat.HandleOutput, error) {
	return chat.HandleOutput{}, nil
}

func setup() *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := conversation.New(conversation.Options{})
	h := New(log.NewNop(), &echoUseCase{store: store}, map[chat.Skill]conversation.Memory{chat.SkillChat: store})

	r := gin.New()
	r.POST("/test/message", h.HandleTestMessage)
	r.GET("/test/health", h.HandleHealthCheck)
	return r
}

func post(r *gin.Engine, body string) (*httptest.ResponseRecorder, TestMessageResponse) {
	req, _ := http.NewRequest(http.MethodPost, "/test/message", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp TestMessageResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHandleTestMessage(t *testing.T) {
	r := setup()

	w, resp := post(r, `{"text":"hi","user_id":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp.Reply != "echo: hi" || resp.Skill != "chat" || resp.Chunks != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(resp.History) != 2 || resp.History[0] != "user: hi" {
		t.Errorf("unexpected history: %v", resp.History)
	}
}

func TestHandleTestMessage_BadRequests(t *testing.T) {
	r := setup()

	if w, _ := post(r, `{bad`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid json, got %d", w.Code)
	}
	if w, _ := post(r, `{"user_id":1}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing text, got %d", w.Code)
	}
	w, resp := post(r, `{"text":"x","skill":"poetry"}`)
	if w.Code != http.StatusBadRequest || resp.Error != "Unknown skill" {
		t.Errorf("expected unknown skill error, got %d %+v", w.Code, resp)
	}
}

func TestHandleHealthCheck(t *testing.T) {
	r := setup()

	req, _ := http.NewRequest(http.MethodGet, "/test/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
