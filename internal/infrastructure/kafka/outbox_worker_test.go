package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DRSN-tech/cart-backend/internal/usecase"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/DRSN-tech/cart-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type fakeOutboxRepo struct {
	mu        sync.Mutex
	pending   []*usecase.OutboxEvent
	processed []int64
	limits    []int
	err       error
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, event)
	return event, nil
}

func (r *fakeOutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limits = append(r.limits, limit)
	if r.err != nil {
		return nil, r.err
	}
	n := limit
	if n > len(r.pending) {
		n = len(r.pending)
	}
	batch := r.pending[:n]
	r.pending = r.pending[n:]
	return batch, nil
}

func (r *fakeOutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processed = append(r.processed, id)
	return nil
}

type fakeProducer struct {
	mu      sync.Mutex
	keys    []string
	headers []map[string]string
	failOn  map[string]error
}

func (p *fakeProducer) WriteRawMessage(_ context.Context, req *usecase.WriteRawMessageReq) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.failOn[req.Key]; err != nil {
		return err
	}
	p.keys = append(p.keys, req.Key)
	p.headers = append(p.headers, req.Headers)
	return nil
}

func outboxEvent(id int64, aggregate string) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          id,
		EventID:     uuid.New(),
		EventType:   usecase.OrderPlaced,
		AggregateID: aggregate,
		Payload:     []byte(`{}`),
		Status:      usecase.Processing,
	}
}

func TestOutboxWorker_DrainPublishesKeyedByAggregate(t *testing.T) {
	repo := &fakeOutboxRepo{}
	for i := int64(1); i <= 5; i++ {
		repo.pending = append(repo.pending, outboxEvent(i, "order-"+string(rune('a'+i-1))))
	}
	producer := &fakeProducer{}

	w := NewOutboxWorker(repo, logger.NewNopLogger(), producer, "", 2, 0)
	w.drain(context.Background())

	if len(producer.keys) != 5 || producer.keys[0] != "order-a" || producer.keys[4] != "order-e" {
		t.Fatalf("expected 5 messages keyed by order, got %v", producer.keys)
	}
	if len(repo.processed) != 5 {
		t.Fatalf("expected 5 events marked processed, got %d", len(repo.processed))
	}
	if got := producer.headers[0]["event_type"]; got != string(usecase.OrderPlaced) {
		t.Fatalf("expected event_type header %s, got %q", usecase.OrderPlaced, got)
	}
	if producer.headers[0]["event_id"] == "" {
		t.Fatal("expected event_id header")
	}
	for _, limit := range repo.limits {
		if limit != 2 {
			t.Fatalf("expected batch limit 2, got %d", limit)
		}
	}
}

func TestOutboxWorker_FailedPublishIsNotMarked(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []*usecase.OutboxEvent{outboxEvent(1, "ok"), outboxEvent(2, "bad")}}
	producer := &fakeProducer{failOn: map[string]error{"bad": errors.New("dial tcp: connection refused")}}

	w := NewOutboxWorker(repo, logger.NewNopLogger(), producer, "", 10, 0)
	hasMore, err := w.processBatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasMore {
		t.Fatal("expected hasMore after a partially sent batch")
	}
	if len(repo.processed) != 1 || repo.processed[0] != 1 {
		t.Fatalf("expected only event 1 processed, got %v", repo.processed)
	}
}

func TestOutboxWorker_StopsWhenNothingSent(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []*usecase.OutboxEvent{outboxEvent(1, "bad")}}
	producer := &fakeProducer{failOn: map[string]error{"bad": errors.New("boom")}}

	w := NewOutboxWorker(repo, logger.NewNopLogger(), producer, "", 10, 0)
	hasMore, err := w.processBatch(context.Background())
	if err != nil || hasMore {
		t.Fatalf("expected batch to stop draining, got hasMore=%v err=%v", hasMore, err)
	}
}

func TestOutboxWorker_RepoError(t *testing.T) {
	repo := &fakeOutboxRepo{err: errors.New("db down")}

	w := NewOutboxWorker(repo, logger.NewNopLogger(), &fakeProducer{}, "", 10, 0)
	if _, err := w.processBatch(context.Background()); err == nil {
		t.Fatal("expected repository error")
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: nil, want: false},
		{err: errors.New("read: connection reset by peer"), want: true},
		{err: errors.New("[3] Unknown Topic Or Partition"), want: false},
		{err: e.Wrap("write", kafka.LeaderNotAvailable), want: true},
		{err: e.Wrap("write", kafka.MessageSizeTooLarge), want: false},
	}

	for _, tt := range tests {
		if got := isRetryableError(tt.err); got != tt.want {
			t.Errorf("isRetryableError(%v): expected %v, got %v", tt.err, tt.want, got)
		}
	}
}
