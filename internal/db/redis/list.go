package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/adaptrank/internal/db"
)

// RPush appends values to the tail of a list, creating it if absent.
func (s *Store) RPush(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	cmd := s.b().Rpush().Key(key).Element(values...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpRPush, Err: err}
	}
	return nil
}

// LRangeMulti fetches the full contents of multiple lists in one DoMulti
// round-trip. Missing keys come back as empty slices, preserving key order.
func (s *Store) LRangeMulti(ctx context.Context, keys []string) ([][]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Lrange().Key(key).Start(0).Stop(-1).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	out := make([][]string, len(results))

	for i, res := range results {
		values, err := res.AsStrSlice()
		if err != nil {
			return nil, &db.Error{Op: db.OpLRange, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		out[i] = values
	}

	return out, nil
}
