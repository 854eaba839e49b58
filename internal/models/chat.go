package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ChatRequest is a question for the companion plus the context the client
// retrieved for it. Context and UserInfo are kept raw: context that is not an
// array is treated as absent, and user info is forwarded verbatim.
type ChatRequest struct {
	Query    string          `json:"query"`
	Context  json.RawMessage `json:"context,omitempty"`
	UserInfo json.RawMessage `json:"userInfo,omitempty"`
}

// ContextItem is one retrieved reference passed alongside a question.
type ContextItem struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate checks that a question is present.
func (r *ChatRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("%w: query required", ErrInvalidInput)
	}
	return nil
}

// ContextItems decodes the context array. ok is false when the context is
// missing, null or not an array. Array elements that are not objects decode
// as empty items.
func (r *ChatRequest) ContextItems() (items []ContextItem, ok bool) {
	raw := bytes.TrimSpace(r.Context)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}
	items = make([]ContextItem, 0, len(elems))
	for _, e := range elems {
		var item ContextItem
		_ = json.Unmarshal(e, &item)
		items = append(items, item)
	}
	return items, true
}

// UserInfoJSON returns the user info as compact JSON, or "" when absent or falsy.
func (r *ChatRequest) UserInfoJSON() string {
	raw := bytes.TrimSpace(r.UserInfo)
	switch string(raw) {
	case "", "null", "false", "0", `""`:
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return ""
	}
	return buf.String()
}

// ChatResponse is the generated answer and the model label that produced it.
type ChatResponse struct {
	Success bool   `json:"success"`
	Answer  string `json:"answer"`
	Model   string `json:"model"`
}
