package llm

import (
	"context"
	"fmt"
)

// MockClient implements Client for tests with canned responses. Responses are
// consumed in order; the last one repeats once the queue is exhausted.
type MockClient struct {
	Responses []string
	Errs      []error
	Calls     int
	LastReq   *ChatRequest
}

// Chat returns the next canned response or error.
func (m *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	idx := m.Calls
	m.Calls++
	m.LastReq = req

	if idx < len(m.Errs) && m.Errs[idx] != nil {
		return nil, m.Errs[idx]
	}

	content := ""
	if len(m.Responses) > 0 {
		if idx >= len(m.Responses) {
			idx = len(m.Responses) - 1
		}
		content = m.Responses[idx]
	}

	return &ChatResponse{
		ID:    fmt.Sprintf("mock-%d", m.Calls),
		Model: "mock",
		Choices: []Choice{
			{Index: 0, Message: Message{Role: "assistant", Content: content}, FinishReason: "stop"},
		},
		Usage: Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}, nil
}

// Model returns the mock model name.
func (m *MockClient) Model() string { return "mock" }
