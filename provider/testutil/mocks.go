package testutil

import (
	"context"
	"sync"

	"wtldr/model"
)

// MockProvider implements model.Provider for testing.
// Calls are recorded so tests can assert on what was sent.
type MockProvider struct {
	// Configurable responses
	CompleteFunc func(ctx context.Context, messages []model.Message) (model.Completion, error)
	PingFunc     func(ctx context.Context) error

	mu           sync.Mutex
	calls        [][]model.Message
	currentModel string
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		currentModel: modelName,
	}
	mock.CompleteFunc = mock.defaultComplete
	mock.PingFunc = mock.defaultPing
	return mock
}

// Returning creates a mock provider that always answers with content.
func Returning(content string) *MockProvider {
	mock := NewMockProvider("mock-model")
	mock.CompleteFunc = func(context.Context, []model.Message) (model.Completion, error) {
		return model.Completion{Content: content}, nil
	}
	return mock
}

func (m *MockProvider) defaultComplete(ctx context.Context, messages []model.Message) (model.Completion, error) {
	return model.Completion{Content: "Mock summary"}, nil
}

func (m *MockProvider) defaultPing(ctx context.Context) error {
	return nil
}

func (m *MockProvider) Complete(ctx context.Context, messages []model.Message) (model.Completion, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]model.Message(nil), messages...))
	m.mu.Unlock()
	return m.CompleteFunc(ctx, messages)
}

// Calls returns the message lists of every Complete call so far.
func (m *MockProvider) Calls() [][]model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]model.Message(nil), m.calls...)
}

// CallCount returns the number of Complete calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *MockProvider) GetModel() string {
	return m.currentModel
}

func (m *MockProvider) GetDisplayName() string {
	return m.currentModel
}

func (m *MockProvider) SetModel(model string) {
	m.currentModel = model
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}
