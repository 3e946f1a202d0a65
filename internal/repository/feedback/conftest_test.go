package feedback

import (
	"context"
	"testing"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	rpushFn       func(ctx context.Context, key string, values ...string) error
	lrangeMultiFn func(ctx context.Context, keys []string) ([][]string, error)
}

func (m *mockStore) RPush(ctx context.Context, key string, values ...string) error {
	if m.rpushFn != nil {
		return m.rpushFn(ctx, key, values...)
	}
	return nil
}

func (m *mockStore) LRangeMulti(ctx context.Context, keys []string) ([][]string, error) {
	if m.lrangeMultiFn != nil {
		return m.lrangeMultiFn(ctx, keys)
	}
	out := make([][]string, len(keys))
	return out, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}
