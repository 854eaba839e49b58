package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestChatRequest_Validate(t *testing.T) {
	if err := (&ChatRequest{}).Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if err := (&ChatRequest{Query: "젖이 안 나와요"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestChatRequest_ContextItems(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantOK    bool
		wantItems int
	}{
		{"absent", `{"query": "q"}`, false, 0},
		{"null", `{"query": "q", "context": null}`, false, 0},
		{"object", `{"query": "q", "context": {"title": "x"}}`, false, 0},
		{"empty array", `{"query": "q", "context": []}`, true, 0},
		{"items", `{"query": "q", "context": [{"title": "a", "content": "b"}, 7]}`, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ChatRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatal(err)
			}
			items, ok := req.ContextItems()
			if ok != tt.wantOK || len(items) != tt.wantItems {
				t.Errorf("ContextItems() = %v, %v", items, ok)
			}
		})
	}
}

func TestChatRequest_UserInfoJSON(t *testing.T) {
	var req ChatRequest
	body := `{"query": "q", "userInfo": {"babyAge": "3주",  "feeding": "완모"}}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatal(err)
	}
	if got := req.UserInfoJSON(); got != `{"babyAge":"3주","feeding":"완모"}` {
		t.Errorf("UserInfoJSON() = %s", got)
	}
	req.UserInfo = json.RawMessage("null")
	if req.UserInfoJSON() != "" {
		t.Error("null user info should be empty")
	}
}
