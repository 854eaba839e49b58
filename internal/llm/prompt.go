package llm

import (
	"strconv"
	"strings"

	"github.com/hyperjump/moyu/internal/models"
)

// NoContext is the context block used when the request carries no context array.
const NoContext = "관련 정보 없음"

const baseSystemPrompt = `당신은 '육아 컴패니언 AI'입니다. 모유수유에 대해 따뜻하고 전문적인 조언을 제공합니다.

## 역할
- 모유수유 전문 상담사 (IBCLC 수준의 지식)
- 공감적이고 지지적인 태도
- 과학적 근거 기반 정보 제공

## 응답 스타일
- 따뜻하고 친근한 말투 사용
- 핵심 정보를 먼저 제공
- 불릿 포인트로 가독성 높이기
- 응급 상황은 명확히 경고
- 200-300자 내외로 간결하게

## 주의사항
- 의료 진단을 하지 않음
- 심각한 증상은 전문가 상담 권유
- 불확실한 정보는 제공하지 않음`

// Prompt is a provider-neutral generation request.
type Prompt struct {
	System string
	User   string
}

// SystemPrompt returns the companion instructions, followed by a user
// information section when userInfo is non-empty.
func SystemPrompt(userInfo string) string {
	if userInfo == "" {
		return baseSystemPrompt
	}
	return baseSystemPrompt + "\n\n## 사용자 정보\n" + userInfo
}

// FormatContext renders context items as numbered "[i] title\ncontent"
// blocks separated by a blank line. ok=false yields NoContext.
func FormatContext(items []models.ContextItem, ok bool) string {
	if !ok {
		return NoContext
	}
	blocks := make([]string, len(items))
	for i, item := range items {
		blocks[i] = "[" + strconv.Itoa(i+1) + "] " + item.Title + "\n" + item.Content
	}
	return strings.Join(blocks, "\n\n")
}

// BuildPrompt assembles the system and user messages for a chat request.
func BuildPrompt(req *models.ChatRequest) *Prompt {
	items, ok := req.ContextItems()
	return &Prompt{
		System: SystemPrompt(req.UserInfoJSON()),
		User:   "참고 정보:\n" + FormatContext(items, ok) + "\n\n질문: " + req.Query,
	}
}
