package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/kailas-cloud/adaptrank/internal/domain"
	"github.com/kailas-cloud/adaptrank/internal/domain/rank"
	domsearch "github.com/kailas-cloud/adaptrank/internal/domain/search"
)

// --- Mocks ---

type mockRetriever struct {
	candidates []domsearch.Candidate
	err        error
	lastK      int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ []float32, k int) ([]domsearch.Candidate, error) {
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	// copy: the service mutates its slice in place
	out := make([]domsearch.Candidate, len(m.candidates))
	copy(out, m.candidates)
	return out, nil
}

type mockFeedback struct {
	totals  map[string]int64
	err     error
	lastIDs []string
}

func (m *mockFeedback) TotalsByDocument(_ context.Context, ids []string) (map[string]int64, error) {
	m.lastIDs = ids
	if m.err != nil {
		return nil, m.err
	}
	return m.totals, nil
}

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func makeRequest(t *testing.T, limit int, strategy rank.Strategy) *domsearch.Request {
	t.Helper()
	r, err := domsearch.NewRequest("test query", limit, strategy)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return &r
}

func newTestService(ret *mockRetriever, fb *mockFeedback, emb *mockEmbedder) *Service {
	return New(ret, fb, emb, rank.DefaultParams())
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// --- Tests ---

func TestSearch_BoostReordersByFeedback(t *testing.T) {
	ret := &mockRetriever{candidates: []domsearch.Candidate{
		{DocumentID: "a", Similarity: 0.90},
		{DocumentID: "b", Similarity: 0.85},
		{DocumentID: "c", Similarity: 0.80},
	}}
	fb := &mockFeedback{totals: map[string]int64{"c": 100}}
	emb := &mockEmbedder{vec: []float32{0.1}}
	svc := newTestService(ret, fb, emb)

	got, err := svc.Search(context.Background(), makeRequest(t, 10, rank.Log))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !emb.called {
		t.Fatal("expected query to be embedded")
	}
	if got[0].DocumentID != "c" {
		t.Fatalf("expected heavily-upvoted c first, got %s", got[0].DocumentID)
	}

	wantScore := 0.80 * (1 + 0.05*math.Log(101))
	if !approxEqual(got[0].AdjustedScore, wantScore) {
		t.Errorf("adjusted score: got %f, want %f", got[0].AdjustedScore, wantScore)
	}
	if got[0].Similarity != 0.80 {
		t.Errorf("similarity must stay untouched, got %f", got[0].Similarity)
	}
	if got[0].FeedbackTotal != 100 {
		t.Errorf("expected feedback total reported, got %d", got[0].FeedbackTotal)
	}
}

func TestSearch_ZeroFeedbackKeepsSimilarityOrder(t *testing.T) {
	ret := &mockRetriever{candidates: []domsearch.Candidate{
		{DocumentID: "a", Similarity: 0.9},
		{DocumentID: "b", Similarity: 0.8},
		{DocumentID: "c", Similarity: 0.7},
	}}
	fb := &mockFeedback{totals: map[string]int64{}}
	svc := newTestService(ret, fb, &mockEmbedder{vec: []float32{0.1}})

	got, err := svc.Search(context.Background(), makeRequest(t, 10, rank.Log))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].DocumentID != want {
			t.Fatalf("order changed without feedback: got %s at %d", got[i].DocumentID, i)
		}
	}
	for _, c := range got {
		if !approxEqual(c.AdjustedScore, c.Similarity) {
			t.Errorf("zero feedback must leave score at similarity: %f vs %f", c.AdjustedScore, c.Similarity)
		}
	}
}

func TestSearch_TiesKeepRetrievalOrder(t *testing.T) {
	ret := &mockRetriever{candidates: []domsearch.Candidate{
		{DocumentID: "first", Similarity: 0.5},
		{DocumentID: "second", Similarity: 0.5},
		{DocumentID: "third", Similarity: 0.5},
	}}
	fb := &mockFeedback{totals: map[string]int64{}}
	svc := newTestService(ret, fb, &mockEmbedder{vec: []float32{0.1}})

	got, err := svc.Search(context.Background(), makeRequest(t, 10, rank.Sigmoid))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].DocumentID != want {
			t.Fatalf("tie order not stable: got %s at %d", got[i].DocumentID, i)
		}
	}
}

func TestSearch_Deterministic(t *testing.T) {
	ret := &mockRetriever{candidates: []domsearch.Candidate{
		{DocumentID: "a", Similarity: 0.9},
		{DocumentID: "b", Similarity: 0.8},
		{DocumentID: "c", Similarity: 0.8},
	}}
	fb := &mockFeedback{totals: map[string]int64{"b": 3, "c": 3}}
	svc := newTestService(ret, fb, &mockEmbedder{vec: []float32{0.1}})
	req := makeRequest(t, 10, rank.Log)

	first, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := svc.Search(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for j := range first {
			if again[j].DocumentID != first[j].DocumentID || again[j].AdjustedScore != first[j].AdjustedScore {
				t.Fatalf("run %d diverged at %d: %v vs %v", i, j, again[j], first[j])
			}
		}
	}
}

func TestSearch_OversamplesCandidateWindow(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		wantK int
	}{
		{"small limit uses floor", 10, 50},
		{"large limit uses factor", 40, 80},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ret := &mockRetriever{}
			fb := &mockFeedback{}
			svc := newTestService(ret, fb, &mockEmbedder{vec: []float32{0.1}})

			_, err := svc.Search(context.Background(), makeRequest(t, tc.limit, rank.Log))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ret.lastK != tc.wantK {
				t.Fatalf("limit %d: expected K=%d, got %d", tc.limit, tc.wantK, ret.lastK)
			}
		})
	}
}

func TestSearch_ConfiguredOversamplingOverridesDefaults(t *testing.T) {
	tests := []struct {
		name   string
		floor  int
		factor int
		limit  int
		wantK  int
	}{
		{"custom floor applies", 100, 2, 10, 100},
		{"custom factor applies", 20, 5, 10, 50},
		{"non-positive values keep defaults", 0, -1, 10, 50},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ret := &mockRetriever{}
			fb := &mockFeedback{}
			svc := newTestService(ret, fb, &mockEmbedder{vec: []float32{0.1}}).
				WithOversampling(tc.floor, tc.factor)

			_, err := svc.Search(context.Background(), makeRequest(t, tc.limit, rank.Log))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ret.lastK != tc.wantK {
				t.Fatalf("expected K=%d, got %d", tc.wantK, ret.lastK)
			}
		})
	}
}

func TestSearch_TruncatesToLimit(t *testing.T) {
	candidates := make([]domsearch.Candidate, 50)
	for i := range candidates {
		candidates[i] = domsearch.Candidate{
			DocumentID: fmt.Sprintf("doc-%d", i),
			Similarity: 1.0 - float64(i)*0.01,
		}
	}
	ret := &mockRetriever{candidates: candidates}
	fb := &mockFeedback{}
	svc := newTestService(ret, fb, &mockEmbedder{vec: []float32{0.1}})

	got, err := svc.Search(context.Background(), makeRequest(t, 5, rank.Log))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 results, got %d", len(got))
	}
}

func TestSearch_BoostedSetIsRetrievedSet(t *testing.T) {
	ret := &mockRetriever{candidates: []domsearch.Candidate{
		{DocumentID: "a", Similarity: 0.9},
		{DocumentID: "b", Similarity: 0.8},
	}}
	fb := &mockFeedback{totals: map[string]int64{"ghost": 1000}}
	svc := newTestService(ret, fb, &mockEmbedder{vec: []float32{0.1}})

	got, err := svc.Search(context.Background(), makeRequest(t, 10, rank.Linear))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected only retrieved docs, got %d", len(got))
	}
	for _, c := range got {
		if c.DocumentID == "ghost" {
			t.Fatal("feedback must never inject documents into results")
		}
	}
	if len(fb.lastIDs) != 2 {
		t.Fatalf("aggregation must cover exactly the candidate set, got %v", fb.lastIDs)
	}
}

func TestSearch_UnknownStrategyFallsBackToSimilarity(t *testing.T) {
	ret := &mockRetriever{candidates: []domsearch.Candidate{
		{DocumentID: "a", Similarity: 0.9},
		{DocumentID: "b", Similarity: 0.8},
	}}
	fb := &mockFeedback{totals: map[string]int64{"b": 10000}}
	svc := newTestService(ret, fb, &mockEmbedder{vec: []float32{0.1}})

	got, err := svc.Search(context.Background(), makeRequest(t, 10, rank.Strategy("bogus")))
	if err != nil {
		t.Fatalf("unknown strategy must not fail the request: %v", err)
	}
	if got[0].DocumentID != "a" {
		t.Fatalf("fallback must ignore feedback, got %s first", got[0].DocumentID)
	}
	for _, c := range got {
		if !approxEqual(c.AdjustedScore, c.Similarity) {
			t.Errorf("fallback score must equal similarity: %f vs %f", c.AdjustedScore, c.Similarity)
		}
	}
}

func TestSearch_NegativeFeedbackNeverHurts(t *testing.T) {
	ret := &mockRetriever{candidates: []domsearch.Candidate{
		{DocumentID: "a", Similarity: 0.9},
		{DocumentID: "b", Similarity: 0.8},
	}}
	fb := &mockFeedback{totals: map[string]int64{"b": -500}}
	svc := newTestService(ret, fb, &mockEmbedder{vec: []float32{0.1}})

	got, err := svc.Search(context.Background(), makeRequest(t, 10, rank.Log))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var b domsearch.Candidate
	for _, c := range got {
		if c.DocumentID == "b" {
			b = c
		}
	}
	if !approxEqual(b.AdjustedScore, b.Similarity) {
		t.Errorf("negative total must clamp to zero boost: %f vs %f", b.AdjustedScore, b.Similarity)
	}
	if b.FeedbackTotal != -500 {
		t.Errorf("reported total must stay as stored, got %d", b.FeedbackTotal)
	}
}

func TestSearch_FeedbackFailureDegradesToSimilarity(t *testing.T) {
	ret := &mockRetriever{candidates: []domsearch.Candidate{
		{DocumentID: "a", Similarity: 0.9},
		{DocumentID: "b", Similarity: 0.8},
	}}
	fb := &mockFeedback{err: fmt.Errorf("%w: lrange: LOADING", domain.ErrFeedbackUnavailable)}
	svc := newTestService(ret, fb, &mockEmbedder{vec: []float32{0.1}})

	got, err := svc.Search(context.Background(), makeRequest(t, 10, rank.Log))
	if err != nil {
		t.Fatalf("feedback outage must not fail the search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected full result set, got %d", len(got))
	}
	for i, want := range []string{"a", "b"} {
		if got[i].DocumentID != want {
			t.Fatalf("degraded mode must keep similarity order, got %s at %d", got[i].DocumentID, i)
		}
	}
}

func TestSearch_RetrievalFailureIsFatal(t *testing.T) {
	ret := &mockRetriever{err: fmt.Errorf("%w: knn search: down", domain.ErrRetrievalUnavailable)}
	svc := newTestService(ret, &mockFeedback{}, &mockEmbedder{vec: []float32{0.1}})

	_, err := svc.Search(context.Background(), makeRequest(t, 10, rank.Log))
	if !errors.Is(err, domain.ErrRetrievalUnavailable) {
		t.Fatalf("expected ErrRetrievalUnavailable, got %v", err)
	}
}

func TestSearch_EmbedFailureIsFatal(t *testing.T) {
	emb := &mockEmbedder{err: fmt.Errorf("%w: upstream 500", domain.ErrEmbeddingProviderError)}
	svc := newTestService(&mockRetriever{}, &mockFeedback{}, emb)

	_, err := svc.Search(context.Background(), makeRequest(t, 10, rank.Log))
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestSearch_EmptyCorpus(t *testing.T) {
	fb := &mockFeedback{}
	svc := newTestService(&mockRetriever{}, fb, &mockEmbedder{vec: []float32{0.1}})

	got, err := svc.Search(context.Background(), makeRequest(t, 10, rank.Log))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty results, got %d", len(got))
	}
	if fb.lastIDs != nil {
		t.Error("no aggregation expected for an empty candidate set")
	}
}

func TestSearch_ConvergenceUnderRepeatedFeedback(t *testing.T) {
	ret := &mockRetriever{candidates: []domsearch.Candidate{
		{DocumentID: "top", Similarity: 0.95},
		{DocumentID: "mid", Similarity: 0.90},
		{DocumentID: "target", Similarity: 0.85},
	}}
	emb := &mockEmbedder{vec: []float32{0.1}}

	// five rounds of +10 on the rank-3 document
	var total int64
	var rose bool
	for round := 0; round < 5; round++ {
		total += 10
		fb := &mockFeedback{totals: map[string]int64{"target": total}}
		svc := newTestService(ret, fb, emb)

		got, err := svc.Search(context.Background(), makeRequest(t, 10, rank.Log))
		if err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		if got[0].DocumentID == "target" {
			rose = true
		}
	}
	if !rose {
		t.Fatal("expected target to reach rank 1 after accumulated feedback")
	}
}
