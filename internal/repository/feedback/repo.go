// Package feedback persists relevance feedback as append-only event logs.
// Each document owns one list key; totals are recomputed from the log on
// every read instead of being kept in a mutable counter.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/adaptrank/internal/domain"
	domfb "github.com/kailas-cloud/adaptrank/internal/domain/feedback"
)

// store is the consumer interface for the feedback log (ISP).
type store interface {
	RPush(ctx context.Context, key string, values ...string) error
	LRangeMulti(ctx context.Context, keys []string) ([][]string, error)
}

// Repo implements the feedback log over Redis lists.
type Repo struct {
	store store
}

// New creates a feedback repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// eventRecord is the stored JSON shape of one feedback event.
type eventRecord struct {
	Query string    `json:"query,omitempty"`
	Delta int64     `json:"delta"`
	At    time.Time `json:"at"`
}

// Append records one event at the tail of the document's log.
func (r *Repo) Append(ctx context.Context, ev *domfb.Event) error {
	rec := eventRecord{
		Query: ev.QueryText(),
		Delta: ev.Delta(),
		At:    ev.CreatedAt(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal feedback event: %w", err)
	}

	key := feedbackKey(ev.DocumentID())
	if err := r.store.RPush(ctx, key, string(data)); err != nil {
		return fmt.Errorf("rpush %s: %w", key, err)
	}
	return nil
}

// TotalsByDocument recomputes the signed feedback total for each given
// document ID in one pipelined round-trip. Documents with no recorded
// events are absent from the result map. Malformed log entries are
// skipped rather than failing the whole aggregation.
func (r *Repo) TotalsByDocument(ctx context.Context, ids []string) (map[string]int64, error) {
	if len(ids) == 0 {
		return map[string]int64{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = feedbackKey(id)
	}

	lists, err := r.store.LRangeMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("%w: lrange: %w", domain.ErrFeedbackUnavailable, err)
	}

	totals := make(map[string]int64, len(ids))
	for i, entries := range lists {
		if len(entries) == 0 {
			continue
		}
		var sum int64
		for _, raw := range entries {
			var rec eventRecord
			if err := json.Unmarshal([]byte(raw), &rec); err != nil {
				continue
			}
			sum += rec.Delta
		}
		totals[ids[i]] = sum
	}
	return totals, nil
}

func feedbackKey(id string) string {
	return domain.KeyPrefix + "fb:" + id
}
