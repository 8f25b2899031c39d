package tldr

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"wtldr/model"
)

// memoryStore is an in-memory MessageStore that counts queries.
type memoryStore struct {
	mu       sync.Mutex
	messages []model.StoredMessage
	queries  []model.SelectionCriteria
	lookups  []string
	err      error
	// lookupErr fails GetMessage independently of QueryMessages
	lookupErr error
}

func newMemoryStore(msgs ...model.StoredMessage) *memoryStore {
	return &memoryStore{messages: msgs}
}

func (s *memoryStore) QueryMessages(_ context.Context, c model.SelectionCriteria) ([]model.StoredMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries = append(s.queries, c)
	if s.err != nil {
		return nil, s.err
	}

	var out []model.StoredMessage
	for _, m := range s.messages {
		if m.Platform != c.Platform || m.GuildID != c.GuildID {
			continue
		}
		if c.UserID != "" && m.UserID != c.UserID {
			continue
		}
		if c.MinTimestamp != nil && m.Timestamp.Before(*c.MinTimestamp) {
			continue
		}
		out = append(out, m)
	}

	slices.SortFunc(out, func(a, b model.StoredMessage) int {
		if n := b.Timestamp.Compare(a.Timestamp); n != 0 {
			return n
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if len(out) > c.Limit {
		out = out[:c.Limit]
	}
	return out, nil
}

func (s *memoryStore) GetMessage(_ context.Context, id string) (model.StoredMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lookups = append(s.lookups, id)
	if s.lookupErr != nil {
		return model.StoredMessage{}, s.lookupErr
	}
	for _, m := range s.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return model.StoredMessage{}, fmt.Errorf("message %s: %w", id, model.ErrMessageNotFound)
}

func (s *memoryStore) lookupCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lookups)
}

func (s *memoryStore) queryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

// noticeRecorder collects Notify calls.
type noticeRecorder struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (r *noticeRecorder) notify(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, text)
	return r.err
}

// nameResolver resolves display names from a fixed table and counts calls.
type nameResolver struct {
	mu    sync.Mutex
	names map[string]string
	err   error
	calls int
}

func (r *nameResolver) ResolveUser(_ context.Context, platform, _, arg string) (*UserRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	id, ok := r.names[arg]
	if !ok {
		return nil, nil
	}
	return &UserRef{Platform: platform, ID: id}, nil
}
